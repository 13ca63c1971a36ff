package prediction

import (
	"context"
	"net/url"

	"tour-guide-server/api"
	models "tour-guide-server/models/prediction"
)

// PredictionApiClient embeds the common HTTPClient
type PredictionApiClient struct {
	*api.HTTPClient
}

// NewPredictionApiClient creates a new instance of PredictionApiClient
func NewPredictionApiClient(httpClient *api.HTTPClient) *PredictionApiClient {
	return &PredictionApiClient{
		HTTPClient: httpClient,
	}
}

// GetTouristSites retrieves the sites the prediction models cover
func (c *PredictionApiClient) GetTouristSites(ctx context.Context) (*models.TouristSitesResponse, error) {
	var response models.TouristSitesResponse
	if err := c.Request(ctx, "GET", "/api/tourist-sites", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// PredictAll retrieves the current prediction for every site
func (c *PredictionApiClient) PredictAll(ctx context.Context) (*models.PredictAllResponse, error) {
	var response models.PredictAllResponse
	if err := c.Request(ctx, "GET", "/api/predict-all", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Predict retrieves the current prediction for a single site
func (c *PredictionApiClient) Predict(ctx context.Context, touristCode string) (models.PredictResponse, error) {
	var response models.PredictResponse
	if err := c.Request(ctx, "GET", "/api/predict/"+url.PathEscape(touristCode), nil, nil, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// Health reports whether the prediction API is up
func (c *PredictionApiClient) Health(ctx context.Context) (*models.HealthResponse, error) {
	var response models.HealthResponse
	if err := c.Request(ctx, "GET", "/api/health", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// EvaluateAll retrieves the model evaluation scores for every site
func (c *PredictionApiClient) EvaluateAll(ctx context.Context) (*models.EvaluateAllResponse, error) {
	var response models.EvaluateAllResponse
	if err := c.Request(ctx, "GET", "/api/evaluate-all", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Evaluate retrieves the evaluation of one site's model
func (c *PredictionApiClient) Evaluate(ctx context.Context, touristCode string) (*models.Evaluation, error) {
	var response models.Evaluation
	if err := c.Request(ctx, "GET", "/api/evaluate/"+url.PathEscape(touristCode), nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

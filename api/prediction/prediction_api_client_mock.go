package prediction

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"tour-guide-server/api"
	"tour-guide-server/config"
	models "tour-guide-server/models/prediction"
	"tour-guide-server/util"
)

// PredictionApiClientMock answers from the JSON fixtures under a resources directory
type PredictionApiClientMock struct {
	resourcesDir string
}

// NewPredictionApiClientMock creates a mock reading fixtures from resourcesDir
func NewPredictionApiClientMock(resourcesDir string) *PredictionApiClientMock {
	return &PredictionApiClientMock{resourcesDir: resourcesDir}
}

func (c *PredictionApiClientMock) path(resource string) string {
	return filepath.Join(c.resourcesDir, resource)
}

func (c *PredictionApiClientMock) GetTouristSites(ctx context.Context) (*models.TouristSitesResponse, error) {
	return util.ReadTouristSitesResponseFromJSON(c.path(config.TOURIST_SITES_RESPONSE_RESOURCE))
}

func (c *PredictionApiClientMock) PredictAll(ctx context.Context) (*models.PredictAllResponse, error) {
	return util.ReadPredictAllResponseFromJSON(c.path(config.PREDICT_ALL_RESPONSE_RESOURCE))
}

// Predict resolves the code through the sites fixture and returns that site's entry of the predict-all fixture
func (c *PredictionApiClientMock) Predict(ctx context.Context, touristCode string) (models.PredictResponse, error) {
	sites, err := c.GetTouristSites(ctx)
	if err != nil {
		return nil, err
	}
	all, err := c.PredictAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, site := range sites.Sites {
		if site.Code != touristCode {
			continue
		}
		p, ok := all.Predictions[site.KoreanName]
		if !ok {
			return nil, fmt.Errorf("no prediction for %s in fixture", touristCode)
		}
		return models.PredictResponse{site.KoreanName: p}, nil
	}
	return nil, notFound()
}

// notFound is what the real API answers for an unknown tourist code.
func notFound() error {
	return &api.StatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"}
}

func (c *PredictionApiClientMock) Health(ctx context.Context) (*models.HealthResponse, error) {
	return &models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format("2006-01-02T15:04:05.000000"),
		Service:   "fixture",
	}, nil
}

func (c *PredictionApiClientMock) EvaluateAll(ctx context.Context) (*models.EvaluateAllResponse, error) {
	return util.ReadEvaluateAllResponseFromJSON(c.path(config.EVALUATE_ALL_RESPONSE_RESOURCE))
}

// Evaluate returns the code's entry of the evaluate-all fixture
func (c *PredictionApiClientMock) Evaluate(ctx context.Context, touristCode string) (*models.Evaluation, error) {
	all, err := c.EvaluateAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range all.Results {
		if e.TouristCode == touristCode {
			e.Grade()
			return &e, nil
		}
	}
	return nil, notFound()
}

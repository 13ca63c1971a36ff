package prediction

import (
	"context"

	models "tour-guide-server/models/prediction"
)

// PredictionAPI defines the interface for interacting with the congestion prediction API
type PredictionAPI interface {
	GetTouristSites(ctx context.Context) (*models.TouristSitesResponse, error)
	PredictAll(ctx context.Context) (*models.PredictAllResponse, error)
	Predict(ctx context.Context, touristCode string) (models.PredictResponse, error)
	Health(ctx context.Context) (*models.HealthResponse, error)
	EvaluateAll(ctx context.Context) (*models.EvaluateAllResponse, error)
	Evaluate(ctx context.Context, touristCode string) (*models.Evaluation, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tour-guide-server/api"
	"tour-guide-server/api/prediction"
	"tour-guide-server/congestion"
	"tour-guide-server/dao/redis"
	"tour-guide-server/logger"
	models "tour-guide-server/models/prediction"
	"tour-guide-server/models/spot"
	"tour-guide-server/recorder"
)

const DEFAULT_HISTORY_LIMIT = 48
const MAX_HISTORY_LIMIT = 500

// Overview is the dashboard summary of the cached snapshot.
type Overview struct {
	congestion.Summary
	Recommendation *spot.TouristSpot `json:"recommendation"`
	UpdatedAt      *time.Time        `json:"updated_at"`
}

// LevelInfo is the display metadata of one congestion level.
type LevelInfo struct {
	Level    spot.CongestionLevel `json:"level"`
	Severity int                  `json:"severity"`
	Label    string               `json:"label"`
	Color    string               `json:"color"`
}

type SpotService struct {
	spotDao       *redis.RedisSpotDAO
	recorder      recorder.Recorder
	predictionApi prediction.PredictionAPI
}

// NewSpotService constructs a new SpotService. predictionApi may be nil, in
// which case model performance is unavailable.
func NewSpotService(
	spotDao *redis.RedisSpotDAO,
	rec recorder.Recorder,
	predictionApi prediction.PredictionAPI) *SpotService {

	return &SpotService{
		spotDao:       spotDao,
		recorder:      rec,
		predictionApi: predictionApi,
	}
}

// ErrPredictionAPIUnavailable is returned when the prediction API is not
// configured or cannot answer.
var ErrPredictionAPIUnavailable = errors.New("prediction api unavailable")

// ErrModelNotFound is returned when the prediction API has no model for a spot.
var ErrModelNotFound = errors.New("model not found")

const HEALTH_OK = "ok"
const HEALTH_DEGRADED = "degraded"

// Health reports the state of the server and its upstream.
type Health struct {
	Status        string     `json:"status"`
	PredictionAPI string     `json:"prediction_api"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func (ss *SpotService) ListSpots() ([]spot.TouristSpot, error) {
	return ss.spotDao.ListSpots()
}

func (ss *SpotService) GetSpot(id string) (*spot.TouristSpot, error) {
	return ss.spotDao.GetSpot(id)
}

// GetSpotsNearby returns the spots within radius km, least congested first.
func (ss *SpotService) GetSpotsNearby(lat, lon, radius float64) ([]spot.TouristSpot, error) {
	spots, err := ss.spotDao.GetNearbySpots(lat, lon, radius)
	if err != nil {
		return nil, err
	}
	return congestion.Rank(spots), nil
}

func (ss *SpotService) GetOverview() (*Overview, error) {
	spots, updatedAt, ok, err := ss.spotDao.GetSnapshot()
	if err != nil {
		return nil, err
	}

	out := &Overview{Summary: congestion.Aggregate(spots)}
	if rec, found := congestion.SelectRecommendation(spots); found {
		out.Recommendation = &rec
	}
	if ok {
		out.UpdatedAt = &updatedAt
	}
	return out, nil
}

// GetRecommendation returns the recommended spot, or false when nothing is cached.
func (ss *SpotService) GetRecommendation() (spot.TouristSpot, bool, error) {
	spots, err := ss.spotDao.ListSpots()
	if err != nil {
		return spot.TouristSpot{}, false, err
	}
	rec, ok := congestion.SelectRecommendation(spots)
	return rec, ok, nil
}

func (ss *SpotService) GetLevels() []LevelInfo {
	out := make([]LevelInfo, 0, spot.NumLevels)
	for _, level := range spot.Levels {
		out = append(out, LevelInfo{
			Level:    level,
			Severity: level.Severity(),
			Label:    level.Label(),
			Color:    level.Color(),
		})
	}
	return out
}

// GetHistory returns recorded snapshots, newest first. A non-positive limit
// selects the default; limits above the maximum are clamped.
func (ss *SpotService) GetHistory(ctx context.Context, limit int) ([]recorder.Snapshot, error) {
	if limit <= 0 {
		limit = DEFAULT_HISTORY_LIMIT
	}
	if limit > MAX_HISTORY_LIMIT {
		limit = MAX_HISTORY_LIMIT
	}
	return ss.recorder.ListSnapshots(ctx, limit)
}

// GetModelPerformance fetches the per-site model evaluation with grades filled in.
func (ss *SpotService) GetModelPerformance(ctx context.Context) (*models.EvaluateAllResponse, error) {
	if ss.predictionApi == nil {
		return nil, ErrPredictionAPIUnavailable
	}
	resp, err := ss.predictionApi.EvaluateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictionAPIUnavailable, err)
	}
	resp.Annotate()
	return resp, nil
}

// GetSpotModelPerformance fetches the evaluation of one spot's model.
func (ss *SpotService) GetSpotModelPerformance(ctx context.Context, id string) (*models.Evaluation, error) {
	if ss.predictionApi == nil {
		return nil, ErrPredictionAPIUnavailable
	}
	e, err := ss.predictionApi.Evaluate(ctx, id)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrPredictionAPIUnavailable, err)
	}
	e.Grade()
	return e, nil
}

// CheckHealth asks the prediction API for its health. The result is degraded
// when the API is unreachable or reports itself unhealthy.
func (ss *SpotService) CheckHealth(ctx context.Context) (*Health, error) {
	out := &Health{Status: HEALTH_OK, PredictionAPI: "disabled"}

	updatedAt, ok, err := ss.spotDao.GetSnapshotTime()
	if err != nil {
		return nil, err
	}
	if ok {
		out.UpdatedAt = &updatedAt
	}

	if ss.predictionApi == nil {
		return out, nil
	}
	resp, err := ss.predictionApi.Health(ctx)
	switch {
	case err != nil:
		logger.L().Warn("[SpotService] Prediction API health check failed", zap.Error(err))
		out.Status = HEALTH_DEGRADED
		out.PredictionAPI = "unreachable"
	case !resp.Healthy():
		out.Status = HEALTH_DEGRADED
		out.PredictionAPI = resp.Status
	default:
		out.PredictionAPI = resp.Status
	}
	return out, nil
}

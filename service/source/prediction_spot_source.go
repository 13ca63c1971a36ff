package source

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
	"tour-guide-server/logger"
	"tour-guide-server/models/catalog"
	models "tour-guide-server/models/prediction"
	"tour-guide-server/models/spot"
)

const PREDICTION_SOURCE_NAME = "api"

// PredictionSpotSource builds spots from the prediction API joined with the
// static site catalog.
type PredictionSpotSource struct {
	api        prediction.PredictionAPI
	catalog    *catalog.SiteCatalog
	thresholds congestion.Thresholds
	loc        *time.Location
}

// NewPredictionSpotSource reads zone-less API timestamps in loc.
func NewPredictionSpotSource(
	api prediction.PredictionAPI,
	siteCatalog *catalog.SiteCatalog,
	thresholds congestion.Thresholds,
	loc *time.Location,
) *PredictionSpotSource {
	if loc == nil {
		loc = time.Local
	}
	return &PredictionSpotSource{
		api:        api,
		catalog:    siteCatalog,
		thresholds: thresholds,
		loc:        loc,
	}
}

func (s *PredictionSpotSource) toSpot(site catalog.Site, p models.Prediction) spot.TouristSpot {
	return spot.TouristSpot{
		ID:               site.Code,
		Name:             site.Name,
		NameEn:           site.NameEn,
		Description:      site.Description,
		Address:          site.Address,
		CongestionLevel:  s.thresholds.Classify(p.CongestionLevel),
		ExpectedVisitors: p.PredictedVisitors,
		Trend:            spot.TrendStable,
		HourlyData:       []spot.HourlyVisitors{},
		Lat:              site.Lat,
		Lng:              site.Lng,
		MaxCapacity:      site.MaxCapacity,
		CongestionRate:   p.CongestionLevel,
	}
}

// FetchSpots returns one spot per predicted catalog site, in catalog order.
// Sites the API failed to predict are skipped.
func (s *PredictionSpotSource) FetchSpots(ctx context.Context) (*Batch, error) {
	resp, err := s.api.PredictAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("predict all: %w", err)
	}

	for _, e := range resp.Errors {
		logger.L().Warn("[PredictionSpotSource] Prediction failed, skipping site",
			zap.String("site", e.Site), zap.String("code", e.Code), zap.String("error", e.Error))
	}

	spots := make([]spot.TouristSpot, 0, len(resp.Predictions))
	for _, site := range s.catalog.Sites {
		p, ok := resp.Predictions[site.Name]
		if !ok {
			continue
		}
		if p.PredictedVisitors < 0 {
			logger.L().Warn("[PredictionSpotSource] Negative prediction, skipping site",
				zap.String("code", site.Code), zap.Int("predicted_visitors", p.PredictedVisitors))
			continue
		}
		spots = append(spots, s.toSpot(site, p))
	}

	for name := range resp.Predictions {
		if _, ok := s.catalog.ByName(name); !ok {
			logger.L().Warn("[PredictionSpotSource] Prediction for unknown site, skipping", zap.String("site", name))
		}
	}

	batch := &Batch{Spots: spots}
	if resp.Timestamp != "" {
		observed, err := models.ParseTimestamp(resp.Timestamp, s.loc)
		if err != nil {
			logger.L().Warn("[PredictionSpotSource] Ignoring unparseable timestamp",
				zap.String("timestamp", resp.Timestamp), zap.Error(err))
		} else {
			batch.ObservedAt = observed
		}
	}

	logger.L().Info("[PredictionSpotSource] Built spots from predictions",
		zap.Int("spots", len(spots)), zap.String("timestamp", resp.Timestamp))
	return batch, nil
}

// FetchSpot predicts a single catalog site.
func (s *PredictionSpotSource) FetchSpot(ctx context.Context, id string) (spot.TouristSpot, error) {
	site, ok := s.catalog.ByCode(id)
	if !ok {
		return spot.TouristSpot{}, fmt.Errorf("%w: %s", ErrUnknownSpot, id)
	}

	resp, err := s.api.Predict(ctx, site.Code)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return spot.TouristSpot{}, fmt.Errorf("%w: %s", ErrUnknownSpot, id)
		}
		return spot.TouristSpot{}, fmt.Errorf("predict %s: %w", id, err)
	}

	p, ok := resp[site.Name]
	if !ok {
		return spot.TouristSpot{}, fmt.Errorf("predict %s: response has no entry for %s", id, site.Name)
	}
	if p.PredictedVisitors < 0 {
		return spot.TouristSpot{}, fmt.Errorf("predict %s: negative prediction %d", id, p.PredictedVisitors)
	}
	return s.toSpot(site, p), nil
}

func (s *PredictionSpotSource) Name() string {
	return PREDICTION_SOURCE_NAME
}

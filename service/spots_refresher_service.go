package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tour-guide-server/congestion"
	"tour-guide-server/dao/redis"
	"tour-guide-server/logger"
	"tour-guide-server/metrics"
	"tour-guide-server/models/spot"
	"tour-guide-server/recorder"
	"tour-guide-server/service/source"
)

// MAX_HOURLY_POINTS bounds the hourly series built across refreshes.
const MAX_HOURLY_POINTS = 24

// SpotsRefresherService periodically refreshes the cached spots from a SpotSource.
type SpotsRefresherService struct {
	spotDao  *redis.RedisSpotDAO
	source   source.SpotSource
	recorder recorder.Recorder
	metrics  *metrics.Metrics

	cron *cron.Cron
	mu   sync.Mutex
	now  func() time.Time
}

// NewSpotsRefresherService constructs a new refresher with dependencies.
// metrics may be nil.
func NewSpotsRefresherService(
	spotDao *redis.RedisSpotDAO,
	spotSource source.SpotSource,
	rec recorder.Recorder,
	m *metrics.Metrics,
) *SpotsRefresherService {
	return &SpotsRefresherService{
		spotDao:  spotDao,
		source:   spotSource,
		recorder: rec,
		metrics:  m,
		now:      time.Now,
	}
}

// Start schedules RefreshSpotsData on the given cron expression (standard five fields).
func (sr *SpotsRefresherService) Start(cronExpr string) error {
	c := cron.New()
	if _, err := c.AddFunc(cronExpr, sr.runScheduled); err != nil {
		return fmt.Errorf("register refresh job %q: %w", cronExpr, err)
	}
	sr.cron = c
	c.Start()
	logger.L().Info("[SpotsRefresherService] Periodic job started", zap.String("cron", cronExpr))
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (sr *SpotsRefresherService) Stop() {
	if sr.cron == nil {
		return
	}
	<-sr.cron.Stop().Done()
	logger.L().Info("[SpotsRefresherService] Periodic job stopped")
}

func (sr *SpotsRefresherService) runScheduled() {
	logger.L().Info("[SpotsRefresherService] Running periodic spots refresher job.")
	if err := sr.RefreshSpotsData(context.Background()); err != nil {
		logger.L().Error("[SpotsRefresherService] RefreshSpotsData returned error", zap.Error(err))
		return
	}
	logger.L().Info("[SpotsRefresherService] RefreshSpotsData completed successfully.")
}

// RefreshSpotsData fetches spots from the source, derives trends and hourly
// series against the cached snapshot, replaces the cache and records history.
// Concurrent calls are serialized.
func (sr *SpotsRefresherService) RefreshSpotsData(ctx context.Context) (err error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	started := sr.now()
	defer func() {
		if sr.metrics != nil {
			finished := sr.now()
			sr.metrics.RecordRefresh(err, finished.Sub(started), finished)
		}
	}()

	// 1) Fetch
	batch, err := sr.source.FetchSpots(ctx)
	if err != nil {
		return fmt.Errorf("fetch spots from %s: %w", sr.source.Name(), err)
	}
	spots := batch.Spots
	takenAt := batch.ObservedAt
	if takenAt.IsZero() {
		takenAt = started
	}
	logger.L().Info("[SpotsRefresherService] Fetched spots",
		zap.String("source", sr.source.Name()), zap.Int("count", len(spots)), zap.Time("observed_at", takenAt))

	// 2) Derive trends and hourly series from the previous snapshot
	previous, err := sr.spotDao.ListSpots()
	if err != nil {
		return fmt.Errorf("load previous snapshot: %w", err)
	}
	sr.deriveSeries(spots, previous, takenAt)

	// 3) Cache
	if err := sr.spotDao.ReplaceSpots(spots, takenAt); err != nil {
		return fmt.Errorf("cache spots: %w", err)
	}

	// 4) Publish aggregate
	summary := congestion.Aggregate(spots)
	var recommended *spot.TouristSpot
	if rec, ok := congestion.SelectRecommendation(spots); ok {
		recommended = &rec
		logger.L().Info("[SpotsRefresherService] Recommended spot",
			zap.String("spot_id", rec.ID), zap.Stringer("level", rec.CongestionLevel))
	}
	if sr.metrics != nil {
		sr.metrics.SetSummary(summary)
	}

	snap := recorder.NewSnapshot(takenAt, sr.source.Name(), summary, recommended)
	if err := sr.recorder.RecordSnapshot(ctx, snap); err != nil {
		logger.L().Warn("[SpotsRefresherService] Failed to record snapshot", zap.Error(err))
	}
	return nil
}

// RefreshSpot re-fetches a single cached spot and updates it in place. The
// snapshot time and history are left alone; they track full refreshes only.
func (sr *SpotsRefresherService) RefreshSpot(ctx context.Context, id string) (*spot.TouristSpot, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	previous, err := sr.spotDao.GetSpot(id)
	if err != nil {
		return nil, err
	}

	fresh, err := sr.source.FetchSpot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch spot %s from %s: %w", id, sr.source.Name(), err)
	}

	spots := []spot.TouristSpot{fresh}
	sr.deriveSeries(spots, []spot.TouristSpot{*previous}, sr.now())
	if err := sr.spotDao.UpdateSpot(spots[0]); err != nil {
		return nil, err
	}
	logger.L().Info("[SpotsRefresherService] Refreshed spot",
		zap.String("spot_id", id), zap.Stringer("level", spots[0].CongestionLevel))

	if sr.metrics != nil {
		if all, err := sr.spotDao.ListSpots(); err == nil {
			sr.metrics.SetSummary(congestion.Aggregate(all))
		}
	}
	return &spots[0], nil
}

// deriveSeries fills Trend and HourlyData for spots whose source supplied no
// hourly series. Spots that carry their own series are left as they are.
func (sr *SpotsRefresherService) deriveSeries(spots, previous []spot.TouristSpot, at time.Time) {
	prevByID := make(map[string]spot.TouristSpot, len(previous))
	for _, p := range previous {
		prevByID[p.ID] = p
	}

	hour := at.Format("15") + ":00"
	for i := range spots {
		s := &spots[i]
		if len(s.HourlyData) > 0 {
			continue
		}
		prev, ok := prevByID[s.ID]
		if !ok {
			s.Trend = spot.TrendStable
			s.HourlyData = []spot.HourlyVisitors{{Hour: hour, Visitors: s.ExpectedVisitors}}
			continue
		}
		s.Trend = congestion.TrendBetween(prev.ExpectedVisitors, s.ExpectedVisitors)
		s.HourlyData = appendHourly(prev.HourlyData, spot.HourlyVisitors{Hour: hour, Visitors: s.ExpectedVisitors})
	}
}

// appendHourly appends point, replacing a trailing point with the same hour,
// and keeps at most MAX_HOURLY_POINTS entries. series is not modified.
func appendHourly(series []spot.HourlyVisitors, point spot.HourlyVisitors) []spot.HourlyVisitors {
	out := make([]spot.HourlyVisitors, 0, len(series)+1)
	out = append(out, series...)
	if n := len(out); n > 0 && out[n-1].Hour == point.Hour {
		out[n-1] = point
	} else {
		out = append(out, point)
	}
	if len(out) > MAX_HOURLY_POINTS {
		out = out[len(out)-MAX_HOURLY_POINTS:]
	}
	return out
}

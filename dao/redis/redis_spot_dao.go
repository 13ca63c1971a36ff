package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tour-guide-server/db"
	"tour-guide-server/logger"
	"tour-guide-server/models/spot"
)

// Spot keys and the geo index are suffixed with a snapshot generation.
// SPOTS_STATE_KEY_V1 names the live generation and is written last, so a
// replace either fully lands or leaves the previous snapshot in place.
const SPOTS_GEO_KEY_FORMAT_V1 = "spots_geo_v1:%s"
const SPOT_KEY_FORMAT_V1 = "spot_v1:%s:%s"
const SPOTS_STATE_KEY_V1 = "spots_state_v1"

const spotKeyPattern = "spot_v1:*"
const geoKeyPattern = "spots_geo_v1:*"

// ErrSpotNotFound is returned when a spot is not cached.
var ErrSpotNotFound = errors.New("spot not found")

type snapshotState struct {
	Generation   string    `json:"generation"`
	Previous     string    `json:"previous,omitempty"`
	IDs          []string  `json:"ids"`
	SnapshotTime time.Time `json:"snapshot_time"`
}

// RedisSpotDAO handles tourist spot operations using Redis.
type RedisSpotDAO struct {
	client db.RedisClient
}

// NewRedisSpotDAO initializes a RedisSpotDAO with the Redis client.
func NewRedisSpotDAO(client db.RedisClient) *RedisSpotDAO {
	return &RedisSpotDAO{client: client}
}

func spotKey(gen, id string) string {
	return fmt.Sprintf(SPOT_KEY_FORMAT_V1, gen, id)
}

func geoKey(gen string) string {
	return fmt.Sprintf(SPOTS_GEO_KEY_FORMAT_V1, gen)
}

// putSpot stores the spot JSON under gen, geo-indexed when it has coordinates.
func (dao *RedisSpotDAO) putSpot(gen string, s spot.TouristSpot) error {
	key := spotKey(gen, s.ID)
	if s.HasLocation() {
		return dao.client.AddLocationWithJSON(dao.client.GetContext(), geoKey(gen), key, s.Lat, s.Lng, s)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal spot %s: %w", s.ID, err)
	}
	if err := dao.client.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to set spot %s: %w", s.ID, err)
	}
	return nil
}

// ReplaceSpots makes spots the cached snapshot taken at takenAt. The spots are
// written under a fresh generation and published by a single write of the
// state key. On error the previous snapshot stays live.
func (dao *RedisSpotDAO) ReplaceSpots(spots []spot.TouristSpot, takenAt time.Time) error {
	current, err := dao.loadState()
	if err != nil {
		return err
	}

	gen := uuid.NewString()
	ids := make([]string, 0, len(spots))
	for _, s := range spots {
		if err := dao.putSpot(gen, s); err != nil {
			dao.dropGeneration(gen)
			return fmt.Errorf("[RedisSpotDAO] write %s: %w", s.ID, err)
		}
		ids = append(ids, s.ID)
	}

	next := snapshotState{Generation: gen, IDs: ids, SnapshotTime: takenAt.UTC()}
	if current != nil {
		next.Previous = current.Generation
	}
	data, err := json.Marshal(next)
	if err != nil {
		dao.dropGeneration(gen)
		return fmt.Errorf("failed to marshal snapshot state: %w", err)
	}
	if err := dao.client.Set(SPOTS_STATE_KEY_V1, string(data)); err != nil {
		dao.dropGeneration(gen)
		return fmt.Errorf("failed to publish snapshot %s: %w", gen, err)
	}

	logger.L().Info("[RedisSpotDAO] Published snapshot",
		zap.String("generation", gen), zap.Int("spots", len(ids)))

	// Readers that loaded the previous state may still be reading its keys.
	dao.pruneGenerations(gen, next.Previous)
	return nil
}

// UpdateSpot overwrites one spot of the live snapshot in place.
func (dao *RedisSpotDAO) UpdateSpot(s spot.TouristSpot) error {
	state, err := dao.loadState()
	if err != nil {
		return err
	}
	if state == nil || !contains(state.IDs, s.ID) {
		return fmt.Errorf("%w: %s", ErrSpotNotFound, s.ID)
	}
	if err := dao.putSpot(state.Generation, s); err != nil {
		return fmt.Errorf("[RedisSpotDAO] update %s: %w", s.ID, err)
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (dao *RedisSpotDAO) loadState() (*snapshotState, error) {
	str, err := dao.client.Get(SPOTS_STATE_KEY_V1)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot state: %w", err)
	}
	var state snapshotState
	if err := json.Unmarshal([]byte(str), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot state: %w", err)
	}
	return &state, nil
}

// dropGeneration deletes every key written under gen. Failures are logged;
// leftovers are collected by the next prune.
func (dao *RedisSpotDAO) dropGeneration(gen string) {
	keys, err := dao.client.Keys(fmt.Sprintf(SPOT_KEY_FORMAT_V1, gen, "*"))
	if err != nil {
		logger.L().Warn("[RedisSpotDAO] Failed to list generation keys", zap.String("generation", gen), zap.Error(err))
		return
	}
	keys = append(keys, geoKey(gen))
	if err := dao.client.Del(keys...); err != nil {
		logger.L().Warn("[RedisSpotDAO] Failed to drop generation", zap.String("generation", gen), zap.Error(err))
	}
}

// pruneGenerations deletes spot and geo keys of every generation except keep.
func (dao *RedisSpotDAO) pruneGenerations(keep ...string) {
	live := make(map[string]struct{}, len(keep))
	for _, gen := range keep {
		if gen != "" {
			live[gen] = struct{}{}
		}
	}

	var stale []string
	for _, pattern := range []string{spotKeyPattern, geoKeyPattern} {
		keys, err := dao.client.Keys(pattern)
		if err != nil {
			logger.L().Warn("[RedisSpotDAO] Failed to list keys for pruning", zap.String("pattern", pattern), zap.Error(err))
			return
		}
		for _, key := range keys {
			if _, ok := live[generationOf(key)]; !ok {
				stale = append(stale, key)
			}
		}
	}
	if len(stale) == 0 {
		return
	}
	if err := dao.client.Del(stale...); err != nil {
		logger.L().Warn("[RedisSpotDAO] Failed to prune generations", zap.Error(err))
		return
	}
	logger.L().Debug("[RedisSpotDAO] Pruned stale keys", zap.Int("keys", len(stale)))
}

// generationOf extracts the generation from "spot_v1:<gen>:<id>" or "spots_geo_v1:<gen>".
func generationOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// ListSpots returns the cached spots in source order. An empty cache yields an empty list.
func (dao *RedisSpotDAO) ListSpots() ([]spot.TouristSpot, error) {
	spots, _, _, err := dao.GetSnapshot()
	return spots, err
}

// GetSnapshot returns the cached spots with the time they were taken, both
// read from the same generation. ok is false when nothing has been cached yet.
func (dao *RedisSpotDAO) GetSnapshot() (spots []spot.TouristSpot, takenAt time.Time, ok bool, err error) {
	state, err := dao.loadState()
	if err != nil {
		return nil, time.Time{}, false, err
	}
	if state == nil {
		return []spot.TouristSpot{}, time.Time{}, false, nil
	}

	spots = make([]spot.TouristSpot, 0, len(state.IDs))
	for _, id := range state.IDs {
		s, err := dao.getSpot(state.Generation, id)
		if errors.Is(err, ErrSpotNotFound) {
			logger.L().Warn("[RedisSpotDAO] Spot listed in snapshot but missing, skipping", zap.String("spot_id", id))
			continue
		}
		if err != nil {
			return nil, time.Time{}, false, err
		}
		spots = append(spots, *s)
	}
	return spots, state.SnapshotTime, true, nil
}

// GetSpot retrieves a cached spot by its ID.
func (dao *RedisSpotDAO) GetSpot(id string) (*spot.TouristSpot, error) {
	state, err := dao.loadState()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("%w: %s", ErrSpotNotFound, id)
	}
	return dao.getSpot(state.Generation, id)
}

func (dao *RedisSpotDAO) getSpot(gen, id string) (*spot.TouristSpot, error) {
	str, err := dao.client.Get(spotKey(gen, id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSpotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spot from redis: %w", err)
	}
	var s spot.TouristSpot
	if err := json.Unmarshal([]byte(str), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spot JSON: %w", err)
	}
	return &s, nil
}

// GetNearbySpots retrieves spots within radius kilometers, nearest first.
func (dao *RedisSpotDAO) GetNearbySpots(lat, lon, radius float64) ([]spot.TouristSpot, error) {
	state, err := dao.loadState()
	if err != nil || state == nil {
		return []spot.TouristSpot{}, err
	}

	spotsJSON, err := dao.client.GetLocationsWithinRadius(geoKey(state.Generation), lat, lon, radius)
	if err != nil {
		return nil, fmt.Errorf("[RedisSpotDAO] failed to get spots: %w", err)
	}

	spots := make([]spot.TouristSpot, len(spotsJSON))
	for i, spotJSON := range spotsJSON {
		if err := json.Unmarshal([]byte(spotJSON), &spots[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal spot JSON: %w", err)
		}
	}
	return spots, nil
}

// GetSnapshotTime returns the snapshot time, or false if nothing has been cached yet.
func (dao *RedisSpotDAO) GetSnapshotTime() (time.Time, bool, error) {
	state, err := dao.loadState()
	if err != nil || state == nil {
		return time.Time{}, false, err
	}
	return state.SnapshotTime, true, nil
}

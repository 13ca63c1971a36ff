package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-guide-server/congestion"
	"tour-guide-server/models/spot"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewSnapshot(t *testing.T) {
	spots := []spot.TouristSpot{
		{ID: "a", CongestionLevel: spot.LevelVeryHigh, ExpectedVisitors: 500},
		{ID: "b", CongestionLevel: spot.LevelLow, ExpectedVisitors: 200},
		{ID: "c", CongestionLevel: spot.LevelNormal, ExpectedVisitors: 50},
		{ID: "d", CongestionLevel: spot.LevelLow, ExpectedVisitors: 100},
	}
	rec, _ := congestion.SelectRecommendation(spots)

	snap := NewSnapshot(time.Unix(0, 0), "fixture", congestion.Aggregate(spots), &rec)

	assert.Equal(t, 4, snap.SpotCount)
	assert.Equal(t, 850, snap.TotalVisitors)
	assert.Equal(t, 2, snap.LowCount)
	assert.Equal(t, 1, snap.NormalCount)
	assert.Equal(t, 0, snap.HighCount)
	assert.Equal(t, 1, snap.VeryHighCount)
	assert.Equal(t, "d", snap.RecommendedID)

	empty := NewSnapshot(time.Unix(0, 0), "fixture", congestion.Aggregate(nil), nil)
	assert.Equal(t, "", empty.RecommendedID)
	assert.Zero(t, empty.SpotCount)
}

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		snap := &Snapshot{
			TakenAt:       base.Add(time.Duration(i) * 30 * time.Minute),
			Source:        "api",
			SpotCount:     6,
			TotalVisitors: 1000 * (i + 1),
			LowCount:      2,
			RecommendedID: "jongmyo_shrine",
		}
		require.NoError(t, r.RecordSnapshot(ctx, snap))
		assert.NotZero(t, snap.ID)
	}

	got, err := r.ListSnapshots(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3000, got[0].TotalVisitors, "newest first")
	assert.Equal(t, 2000, got[1].TotalVisitors)
	assert.True(t, base.Add(time.Hour).Equal(got[0].TakenAt))
	assert.Equal(t, "jongmyo_shrine", got[0].RecommendedID)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordSnapshot(ctx, &Snapshot{TakenAt: time.Now(), Source: "fixture", SpotCount: 7}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].SpotCount)
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	assert.NoError(t, r.RecordSnapshot(context.Background(), &Snapshot{}))
	got, err := r.ListSnapshots(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, r.Close())
}

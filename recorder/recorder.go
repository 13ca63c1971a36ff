package recorder

import (
	"context"
	"time"

	"tour-guide-server/congestion"
	"tour-guide-server/models/spot"
)

// Snapshot is the congestion aggregate of one refresh.
type Snapshot struct {
	ID            int64     `json:"id"`
	TakenAt       time.Time `json:"taken_at"`
	Source        string    `json:"source"`
	SpotCount     int       `json:"spot_count"`
	TotalVisitors int       `json:"total_visitors"`
	LowCount      int       `json:"low_count"`
	NormalCount   int       `json:"normal_count"`
	HighCount     int       `json:"high_count"`
	VeryHighCount int       `json:"very_high_count"`
	RecommendedID string    `json:"recommended_id,omitempty"`
}

// NewSnapshot flattens a summary and the recommended spot (nil when none).
func NewSnapshot(takenAt time.Time, source string, summary congestion.Summary, recommended *spot.TouristSpot) *Snapshot {
	snap := &Snapshot{
		TakenAt:       takenAt,
		Source:        source,
		SpotCount:     summary.SpotCount(),
		TotalVisitors: summary.TotalVisitors,
		LowCount:      summary.Count(spot.LevelLow),
		NormalCount:   summary.Count(spot.LevelNormal),
		HighCount:     summary.Count(spot.LevelHigh),
		VeryHighCount: summary.Count(spot.LevelVeryHigh),
	}
	if recommended != nil {
		snap.RecommendedID = recommended.ID
	}
	return snap
}

// Recorder persists snapshot history.
type Recorder interface {
	RecordSnapshot(ctx context.Context, snap *Snapshot) error
	// ListSnapshots returns up to limit snapshots, newest first.
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
	Close() error
}

// Package source provides the spot records the refresher caches.
package source

import (
	"context"
	"errors"
	"time"

	"tour-guide-server/models/spot"
)

// ErrUnknownSpot is returned by FetchSpot for an id the source does not serve.
var ErrUnknownSpot = errors.New("unknown spot")

// Batch is one fetch of the full spot list.
type Batch struct {
	Spots []spot.TouristSpot
	// ObservedAt is when the source produced the data. Zero when the source
	// does not say; callers fall back to their own clock.
	ObservedAt time.Time
}

// SpotSource produces the current list of tourist spots in display order.
type SpotSource interface {
	FetchSpots(ctx context.Context) (*Batch, error)
	// FetchSpot produces the current record of a single spot.
	FetchSpot(ctx context.Context, id string) (spot.TouristSpot, error)
	// Name identifies the source in logs and history records.
	Name() string
}

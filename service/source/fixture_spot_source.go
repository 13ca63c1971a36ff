package source

import (
	"context"
	"fmt"

	"tour-guide-server/models/spot"
	"tour-guide-server/util"
)

const FIXTURE_SOURCE_NAME = "fixture"

// FixtureSpotSource serves the static spot list from a JSON file.
type FixtureSpotSource struct {
	filePath string
}

func NewFixtureSpotSource(filePath string) *FixtureSpotSource {
	return &FixtureSpotSource{filePath: filePath}
}

func (s *FixtureSpotSource) FetchSpots(ctx context.Context) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spots, err := util.ReadTouristSpotsFromJSON(s.filePath)
	if err != nil {
		return nil, err
	}
	return &Batch{Spots: spots}, nil
}

func (s *FixtureSpotSource) FetchSpot(ctx context.Context, id string) (spot.TouristSpot, error) {
	batch, err := s.FetchSpots(ctx)
	if err != nil {
		return spot.TouristSpot{}, err
	}
	for _, sp := range batch.Spots {
		if sp.ID == id {
			return sp, nil
		}
	}
	return spot.TouristSpot{}, fmt.Errorf("%w: %s", ErrUnknownSpot, id)
}

func (s *FixtureSpotSource) Name() string {
	return FIXTURE_SOURCE_NAME
}

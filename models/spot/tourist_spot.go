package spot

import (
	"errors"
	"fmt"
)

// HourlyVisitors is one point of a spot's hourly visitor series.
type HourlyVisitors struct {
	Hour     string `json:"hour"`
	Visitors int    `json:"visitors"`
}

// TouristSpot represents a tourist spot with its current congestion forecast.
type TouristSpot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameEn      string `json:"nameEn"`
	Description string `json:"description"`
	Address     string `json:"address"`

	CongestionLevel  CongestionLevel  `json:"congestionLevel"`
	ExpectedVisitors int              `json:"expectedVisitors"`
	Trend            Trend            `json:"trend"`
	HourlyData       []HourlyVisitors `json:"hourlyData"`

	// Extra details carried over from the site catalog / prediction API:
	Lat            float64 `json:"lat,omitempty"`
	Lng            float64 `json:"lng,omitempty"`
	MaxCapacity    int     `json:"maxCapacity,omitempty"`
	CongestionRate float64 `json:"congestionRate,omitempty"`
}

// HasLocation reports whether the spot carries coordinates.
func (s *TouristSpot) HasLocation() bool {
	return s.Lat != 0 || s.Lng != 0
}

// Validate checks the fields the congestion computations rely on.
func (s *TouristSpot) Validate() error {
	if s.ID == "" {
		return errors.New("spot id is empty")
	}
	if !s.CongestionLevel.Valid() {
		return fmt.Errorf("spot %s: invalid congestion level %d", s.ID, int(s.CongestionLevel))
	}
	if s.ExpectedVisitors < 0 {
		return fmt.Errorf("spot %s: negative expected visitors %d", s.ID, s.ExpectedVisitors)
	}
	return nil
}


// Package congestion holds the pure computations over a list of tourist spots:
// the per-level aggregate and the recommended spot.
package congestion

import "tour-guide-server/models/spot"

// LevelCount is the number of spots at one congestion level.
type LevelCount struct {
	Level spot.CongestionLevel `json:"level"`
	Label string               `json:"label"`
	Color string               `json:"color"`
	Count int                  `json:"count"`
}

// Summary is the congestion aggregate over a list of spots.
// Counts is always in severity order low, normal, high, veryHigh.
type Summary struct {
	Counts        []LevelCount `json:"counts"`
	TotalVisitors int          `json:"total_visitors"`
}

// Aggregate counts spots per congestion level and sums expected visitors.
// Every spot must carry a valid level.
func Aggregate(spots []spot.TouristSpot) Summary {
	var counts [spot.NumLevels]int
	total := 0
	for i := range spots {
		counts[spots[i].CongestionLevel]++
		total += spots[i].ExpectedVisitors
	}

	out := Summary{
		Counts:        make([]LevelCount, 0, spot.NumLevels),
		TotalVisitors: total,
	}
	for _, level := range spot.Levels {
		out.Counts = append(out.Counts, LevelCount{
			Level: level,
			Label: level.Label(),
			Color: level.Color(),
			Count: counts[level],
		})
	}
	return out
}

// Count returns the number of spots at level.
func (s Summary) Count(level spot.CongestionLevel) int {
	for _, c := range s.Counts {
		if c.Level == level {
			return c.Count
		}
	}
	return 0
}

// SpotCount returns the number of spots the summary was computed over.
func (s Summary) SpotCount() int {
	n := 0
	for _, c := range s.Counts {
		n += c.Count
	}
	return n
}

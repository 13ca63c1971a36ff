package congestion

import (
	"fmt"
	"math"

	"tour-guide-server/models/spot"
)

// Thresholds are the lower bounds, in percent of capacity, of the normal,
// high and veryHigh levels. Anything below Normal is low.
type Thresholds struct {
	Normal   float64 `mapstructure:"normal"`
	High     float64 `mapstructure:"high"`
	VeryHigh float64 `mapstructure:"very_high"`
}

// DefaultThresholds apply when congestion.thresholds is not configured.
var DefaultThresholds = Thresholds{Normal: 30, High: 60, VeryHigh: 85}

// Validate reports an error unless 0 < Normal < High < VeryHigh.
func (t Thresholds) Validate() error {
	if t.Normal <= 0 || t.Normal >= t.High || t.High >= t.VeryHigh {
		return fmt.Errorf("congestion thresholds must be positive and increasing, got %.2f/%.2f/%.2f",
			t.Normal, t.High, t.VeryHigh)
	}
	return nil
}

// Classify maps a congestion rate (predicted visitors / capacity * 100) to a level.
func (t Thresholds) Classify(rate float64) spot.CongestionLevel {
	switch {
	case rate >= t.VeryHigh:
		return spot.LevelVeryHigh
	case rate >= t.High:
		return spot.LevelHigh
	case rate >= t.Normal:
		return spot.LevelNormal
	default:
		return spot.LevelLow
	}
}

// StableBand is the relative change below which a trend counts as stable.
const StableBand = 0.05

// TrendBetween compares two visitor counts. A zero previous count yields stable.
func TrendBetween(previous, current int) spot.Trend {
	if previous <= 0 {
		return spot.TrendStable
	}
	change := float64(current-previous) / float64(previous)
	switch {
	case math.Abs(change) < StableBand:
		return spot.TrendStable
	case change > 0:
		return spot.TrendUp
	default:
		return spot.TrendDown
	}
}

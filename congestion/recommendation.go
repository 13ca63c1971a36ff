package congestion

import (
	"cmp"
	"slices"

	"tour-guide-server/models/spot"
)

// SelectRecommendation returns the least congested spot, breaking ties by the
// fewest expected visitors and then by input order. It returns false for an
// empty list. The input slice is left untouched.
func SelectRecommendation(spots []spot.TouristSpot) (spot.TouristSpot, bool) {
	if len(spots) == 0 {
		return spot.TouristSpot{}, false
	}
	return Rank(spots)[0], true
}

// Rank returns a copy of spots ordered by ascending severity, then ascending
// expected visitors. Equal keys keep their input order.
func Rank(spots []spot.TouristSpot) []spot.TouristSpot {
	ranked := slices.Clone(spots)
	slices.SortStableFunc(ranked, compareSpots)
	return ranked
}

func compareSpots(a, b spot.TouristSpot) int {
	if c := cmp.Compare(a.CongestionLevel.Severity(), b.CongestionLevel.Severity()); c != 0 {
		return c
	}
	return cmp.Compare(a.ExpectedVisitors, b.ExpectedVisitors)
}

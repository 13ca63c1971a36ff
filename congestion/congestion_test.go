package congestion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-guide-server/models/spot"
)

func newSpot(id string, level spot.CongestionLevel, visitors int) spot.TouristSpot {
	return spot.TouristSpot{ID: id, Name: id, CongestionLevel: level, ExpectedVisitors: visitors}
}

func exampleSpots() []spot.TouristSpot {
	return []spot.TouristSpot{
		newSpot("a", spot.LevelVeryHigh, 500),
		newSpot("b", spot.LevelLow, 200),
		newSpot("c", spot.LevelNormal, 50),
		newSpot("d", spot.LevelLow, 100),
	}
}

func randomSpots(r *rand.Rand, n int) []spot.TouristSpot {
	spots := make([]spot.TouristSpot, n)
	for i := range spots {
		spots[i] = newSpot(
			string(rune('a'+i%26))+string(rune('0'+i/26)),
			spot.Levels[r.Intn(spot.NumLevels)],
			r.Intn(5)*100,
		)
	}
	return spots
}

func TestAggregate_Example(t *testing.T) {
	summary := Aggregate(exampleSpots())

	assert.Equal(t, 2, summary.Count(spot.LevelLow))
	assert.Equal(t, 1, summary.Count(spot.LevelNormal))
	assert.Equal(t, 0, summary.Count(spot.LevelHigh))
	assert.Equal(t, 1, summary.Count(spot.LevelVeryHigh))
	assert.Equal(t, 850, summary.TotalVisitors)

	require.Len(t, summary.Counts, spot.NumLevels)
	for i, c := range summary.Counts {
		assert.Equal(t, spot.Levels[i], c.Level, "counts must keep severity order")
		assert.Equal(t, c.Level.Label(), c.Label)
	}
}

func TestAggregate_Empty(t *testing.T) {
	for _, input := range [][]spot.TouristSpot{nil, {}} {
		summary := Aggregate(input)
		require.Len(t, summary.Counts, spot.NumLevels)
		for _, c := range summary.Counts {
			assert.Zero(t, c.Count)
		}
		assert.Zero(t, summary.TotalVisitors)
	}
}

func TestAggregate_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 40; n++ {
		spots := randomSpots(r, n)
		summary := Aggregate(spots)

		total := 0
		for _, s := range spots {
			total += s.ExpectedVisitors
		}
		assert.Equal(t, len(spots), summary.SpotCount())
		assert.Equal(t, total, summary.TotalVisitors)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for n := 0; n < 20; n++ {
		spots := randomSpots(r, n)
		input := append([]spot.TouristSpot(nil), spots...)

		first := Aggregate(spots)
		second := Aggregate(spots)

		assert.Equal(t, first, second)
		assert.Equal(t, input, spots, "input is not modified")
	}
}

func TestSelectRecommendation_Example(t *testing.T) {
	spots := exampleSpots()

	got, ok := SelectRecommendation(spots)

	require.True(t, ok)
	assert.Equal(t, "d", got.ID)
	assert.Equal(t, spot.LevelLow, got.CongestionLevel)
	assert.Equal(t, 100, got.ExpectedVisitors)
}

func TestSelectRecommendation_Empty(t *testing.T) {
	got, ok := SelectRecommendation(nil)
	assert.False(t, ok)
	assert.Equal(t, spot.TouristSpot{}, got)

	_, ok = SelectRecommendation([]spot.TouristSpot{})
	assert.False(t, ok)
}

func TestSelectRecommendation_StableTies(t *testing.T) {
	a := newSpot("A", spot.LevelLow, 100)
	b := newSpot("B", spot.LevelLow, 100)

	got, ok := SelectRecommendation([]spot.TouristSpot{a, b})
	require.True(t, ok)
	assert.Equal(t, "A", got.ID)

	got, ok = SelectRecommendation([]spot.TouristSpot{b, a})
	require.True(t, ok)
	assert.Equal(t, "B", got.ID)
}

func TestSelectRecommendation_DoesNotMutateInput(t *testing.T) {
	spots := exampleSpots()
	before := exampleSpots()

	_, _ = SelectRecommendation(spots)
	_ = Rank(spots)

	assert.Equal(t, before, spots)
}

func TestSelectRecommendation_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 1; n < 40; n++ {
		spots := randomSpots(r, n)
		got, ok := SelectRecommendation(spots)
		require.True(t, ok)

		for _, s := range spots {
			assert.LessOrEqual(t, got.CongestionLevel.Severity(), s.CongestionLevel.Severity())
			if s.CongestionLevel == got.CongestionLevel {
				assert.LessOrEqual(t, got.ExpectedVisitors, s.ExpectedVisitors)
			}
		}

		again, _ := SelectRecommendation(spots)
		assert.Equal(t, got, again, "selection must be idempotent")
	}
}

func TestRank_Order(t *testing.T) {
	ranked := Rank(exampleSpots())

	ids := make([]string, 0, len(ranked))
	for _, s := range ranked {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids)
}

func TestThresholds_Classify(t *testing.T) {
	tests := []struct {
		rate float64
		want spot.CongestionLevel
	}{
		{0, spot.LevelLow},
		{6.17, spot.LevelLow},
		{30, spot.LevelNormal},
		{59.99, spot.LevelNormal},
		{60, spot.LevelHigh},
		{85, spot.LevelVeryHigh},
		{140, spot.LevelVeryHigh},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, DefaultThresholds.Classify(test.rate), "rate %.2f", test.rate)
	}
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds.Validate())
	assert.Error(t, Thresholds{Normal: 50, High: 40, VeryHigh: 90}.Validate())
	assert.Error(t, Thresholds{}.Validate())
}

func TestTrendBetween(t *testing.T) {
	assert.Equal(t, spot.TrendStable, TrendBetween(0, 500))
	assert.Equal(t, spot.TrendStable, TrendBetween(1000, 1040))
	assert.Equal(t, spot.TrendUp, TrendBetween(1000, 1100))
	assert.Equal(t, spot.TrendDown, TrendBetween(1000, 900))
}

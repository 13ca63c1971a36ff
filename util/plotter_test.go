package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-guide-server/models/spot"
)

func TestRenderComparisonChart(t *testing.T) {
	spots := []spot.TouristSpot{
		{ID: "jongmyo_shrine", Name: "종묘", CongestionLevel: spot.LevelLow, ExpectedVisitors: 1800},
		{ID: "gyeongbok_palace", Name: "경복궁", CongestionLevel: spot.LevelVeryHigh, ExpectedVisitors: 12500},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderComparisonChart(&buf, spots))

	html := buf.String()
	assert.Contains(t, html, "관광지 혼잡도 비교")
	assert.Less(t, strings.Index(html, "경복궁"), strings.Index(html, "종묘"), "busiest spot comes first")
	assert.Contains(t, html, spot.LevelVeryHigh.Color())
	assert.Equal(t, "jongmyo_shrine", spots[0].ID, "input is not reordered")
}

func TestRenderHourlyChart(t *testing.T) {
	s := spot.TouristSpot{
		ID:              "jongmyo_shrine",
		Name:            "종묘",
		NameEn:          "Jongmyo Shrine",
		CongestionLevel: spot.LevelLow,
		HourlyData: []spot.HourlyVisitors{
			{Hour: "09:00", Visitors: 120},
			{Hour: "11:00", Visitors: 340},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderHourlyChart(&buf, s))

	html := buf.String()
	assert.Contains(t, html, "종묘 시간대별 방문객")
	assert.Contains(t, html, "11:00")
}

package util

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"tour-guide-server/models/spot"
)

const chartWidth = "900px"
const chartHeight = "500px"

// RenderComparisonChart renders a bar chart of expected visitors per spot,
// busiest first, each bar coloured by its congestion level.
func RenderComparisonChart(w io.Writer, spots []spot.TouristSpot) error {
	sorted := slices.Clone(spots)
	slices.SortStableFunc(sorted, func(a, b spot.TouristSpot) int {
		return cmp.Compare(b.ExpectedVisitors, a.ExpectedVisitors)
	})

	names := make([]string, 0, len(sorted))
	bars := make([]opts.BarData, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, s.Name)
		bars = append(bars, opts.BarData{
			Name:      fmt.Sprintf("%s (%s)", s.Name, s.CongestionLevel.Label()),
			Value:     s.ExpectedVisitors,
			ItemStyle: &opts.ItemStyle{Color: s.CongestionLevel.Color()},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "관광지 혼잡도 비교",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "관광지별 예상 방문객",
			Subtitle: "혼잡도 색상 기준",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).AddSeries("expectedVisitors", bars)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render comparison chart: %w", err)
	}
	return nil
}

// RenderHourlyChart renders the hourly visitor series of a spot as a line chart.
func RenderHourlyChart(w io.Writer, s spot.TouristSpot) error {
	hours := make([]string, 0, len(s.HourlyData))
	points := make([]opts.LineData, 0, len(s.HourlyData))
	for _, h := range s.HourlyData {
		hours = append(hours, h.Hour)
		points = append(points, opts.LineData{Value: h.Visitors})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: s.Name,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    s.Name + " 시간대별 방문객",
			Subtitle: s.NameEn,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(hours).AddSeries("visitors", points,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: s.CongestionLevel.Color()}),
	)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render hourly chart for %s: %w", s.ID, err)
	}
	return nil
}

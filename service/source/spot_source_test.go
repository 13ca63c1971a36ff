package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-guide-server/api/prediction"
	"tour-guide-server/config"
	"tour-guide-server/congestion"
	"tour-guide-server/models/catalog"
	models "tour-guide-server/models/prediction"
	"tour-guide-server/models/spot"
	"tour-guide-server/util"
)

const resourcesDir = "../../resources"

func ids(spots []spot.TouristSpot) []string {
	out := make([]string, 0, len(spots))
	for _, s := range spots {
		out = append(out, s.ID)
	}
	return out
}

func TestFixtureSpotSource(t *testing.T) {
	src := NewFixtureSpotSource(filepath.Join(resourcesDir, config.TOURIST_SPOTS_RESOURCE))

	batch, err := src.FetchSpots(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Spots, 7)
	assert.True(t, batch.ObservedAt.IsZero())
	assert.Equal(t, FIXTURE_SOURCE_NAME, src.Name())

	rec, ok := congestion.SelectRecommendation(batch.Spots)
	require.True(t, ok)
	assert.Equal(t, "jongmyo_shrine", rec.ID)
}

func TestFixtureSpotSource_FetchSpot(t *testing.T) {
	src := NewFixtureSpotSource(filepath.Join(resourcesDir, config.TOURIST_SPOTS_RESOURCE))

	s, err := src.FetchSpot(context.Background(), "jongmyo_shrine")
	require.NoError(t, err)
	assert.Equal(t, "jongmyo_shrine", s.ID)

	_, err = src.FetchSpot(context.Background(), "lotte_world")
	assert.ErrorIs(t, err, ErrUnknownSpot)
}

func TestFixtureSpotSource_CanceledContext(t *testing.T) {
	src := NewFixtureSpotSource(filepath.Join(resourcesDir, config.TOURIST_SPOTS_RESOURCE))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchSpots(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func newPredictionSource(t *testing.T, api prediction.PredictionAPI) *PredictionSpotSource {
	t.Helper()
	siteCatalog, err := util.ReadSiteCatalog(filepath.Join(resourcesDir, config.TOURIST_SITES_CATALOG_RESOURCE))
	require.NoError(t, err)
	return NewPredictionSpotSource(api, siteCatalog, congestion.DefaultThresholds, kst)
}

var kst = time.FixedZone("KST", 9*3600)

func TestPredictionSpotSource_FromFixture(t *testing.T) {
	src := newPredictionSource(t, prediction.NewPredictionApiClientMock(resourcesDir))

	batch, err := src.FetchSpots(context.Background())
	require.NoError(t, err)
	spots := batch.Spots
	assert.Equal(t, time.Date(2025, 6, 14, 13, 5, 22, 418306000, kst), batch.ObservedAt)

	// seoul_grand_park failed to predict and is skipped.
	assert.Equal(t, []string{
		"gyeongbok_palace",
		"changdeok_palace",
		"deoksugung_palace",
		"changgyeong_palace",
		"jongmyo_shrine",
		"seoul_arts_center",
	}, ids(spots))

	byID := make(map[string]spot.TouristSpot, len(spots))
	for _, s := range spots {
		byID[s.ID] = s
	}
	assert.Equal(t, spot.LevelVeryHigh, byID["gyeongbok_palace"].CongestionLevel)
	assert.Equal(t, spot.LevelLow, byID["changdeok_palace"].CongestionLevel)
	assert.Equal(t, spot.LevelHigh, byID["deoksugung_palace"].CongestionLevel)
	assert.Equal(t, spot.LevelNormal, byID["seoul_arts_center"].CongestionLevel)
	assert.Equal(t, 84663, byID["gyeongbok_palace"].ExpectedVisitors)
	assert.Equal(t, 90.0, byID["gyeongbok_palace"].CongestionRate)
	assert.Equal(t, "Gyeongbokgung Palace", byID["gyeongbok_palace"].NameEn)
	gyeongbok := byID["gyeongbok_palace"]
	assert.True(t, gyeongbok.HasLocation())

	summary := congestion.Aggregate(spots)
	assert.Equal(t, 2, summary.Count(spot.LevelLow))
	assert.Equal(t, 2, summary.Count(spot.LevelNormal))
	assert.Equal(t, 1, summary.Count(spot.LevelHigh))
	assert.Equal(t, 1, summary.Count(spot.LevelVeryHigh))
	assert.Equal(t, 149547, summary.TotalVisitors)

	rec, ok := congestion.SelectRecommendation(spots)
	require.True(t, ok)
	assert.Equal(t, "jongmyo_shrine", rec.ID)
}

type stubPredictionAPI struct {
	prediction.PredictionAPI
	resp  *models.PredictAllResponse
	sites *models.TouristSitesResponse
	err   error
}

func (s *stubPredictionAPI) PredictAll(ctx context.Context) (*models.PredictAllResponse, error) {
	return s.resp, s.err
}

func (s *stubPredictionAPI) GetTouristSites(ctx context.Context) (*models.TouristSitesResponse, error) {
	return s.sites, s.err
}

func TestPredictionSpotSource_APIError(t *testing.T) {
	src := newPredictionSource(t, &stubPredictionAPI{err: errors.New("connection refused")})

	_, err := src.FetchSpots(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestPredictionSpotSource_SkipsUnknownAndNegative(t *testing.T) {
	src := newPredictionSource(t, &stubPredictionAPI{resp: &models.PredictAllResponse{
		Predictions: map[string]models.Prediction{
			"종묘":   {PredictedVisitors: 100, CongestionLevel: 5},
			"경복궁":  {PredictedVisitors: -1, CongestionLevel: 5},
			"남산타워": {PredictedVisitors: 100, CongestionLevel: 5},
		},
	}})

	batch, err := src.FetchSpots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"jongmyo_shrine"}, ids(batch.Spots))
	assert.True(t, batch.ObservedAt.IsZero(), "missing timestamp")
}

func TestPredictionSpotSource_BadTimestamp(t *testing.T) {
	src := newPredictionSource(t, &stubPredictionAPI{resp: &models.PredictAllResponse{
		Predictions: map[string]models.Prediction{"종묘": {PredictedVisitors: 100, CongestionLevel: 5}},
		Timestamp:   "yesterday",
	}})

	batch, err := src.FetchSpots(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Spots, 1)
	assert.True(t, batch.ObservedAt.IsZero())
}

func TestPredictionSpotSource_FetchSpot(t *testing.T) {
	src := newPredictionSource(t, prediction.NewPredictionApiClientMock(resourcesDir))

	s, err := src.FetchSpot(context.Background(), "jongmyo_shrine")
	require.NoError(t, err)
	assert.Equal(t, "종묘", s.Name)
	assert.Equal(t, 4065, s.ExpectedVisitors)
	assert.Equal(t, spot.LevelLow, s.CongestionLevel)

	_, err = src.FetchSpot(context.Background(), "lotte_world")
	assert.ErrorIs(t, err, ErrUnknownSpot, "not in catalog")

	// in the catalog but the fixture has no prediction for it
	_, err = src.FetchSpot(context.Background(), "seoul_grand_park")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownSpot)
}

func TestCheckCatalog_Agrees(t *testing.T) {
	siteCatalog, err := util.ReadSiteCatalog(filepath.Join(resourcesDir, config.TOURIST_SITES_CATALOG_RESOURCE))
	require.NoError(t, err)

	mismatches, err := CheckCatalog(context.Background(), prediction.NewPredictionApiClientMock(resourcesDir), siteCatalog)

	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestCheckCatalog_ReportsMismatches(t *testing.T) {
	siteCatalog := &catalog.SiteCatalog{Sites: []catalog.Site{
		{Code: "jongmyo_shrine", Name: "종묘", MaxCapacity: 40652},
		{Code: "gyeongbok_palace", Name: "경복궁", MaxCapacity: 1},
		{Code: "lotte_world", Name: "롯데월드", MaxCapacity: 10},
	}}
	api := &stubPredictionAPI{sites: &models.TouristSitesResponse{Sites: []models.TouristSite{
		{Code: "jongmyo_shrine", KoreanName: "종묘", MaxCapacity: 40652},
		{Code: "gyeongbok_palace", KoreanName: "경복궁", MaxCapacity: 94070},
		{Code: "namsan_tower", KoreanName: "남산타워", MaxCapacity: 5000},
	}}}

	mismatches, err := CheckCatalog(context.Background(), api, siteCatalog)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"gyeongbok_palace: catalog capacity 1, api capacity 94070",
		"namsan_tower: predicted but missing from catalog",
		"lotte_world: in catalog but not predicted",
	}, mismatches)
}

func TestCheckCatalog_APIError(t *testing.T) {
	_, err := CheckCatalog(context.Background(), &stubPredictionAPI{err: errors.New("timeout")}, &catalog.SiteCatalog{})
	assert.ErrorContains(t, err, "timeout")
}

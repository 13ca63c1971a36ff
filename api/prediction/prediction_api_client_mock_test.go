package prediction

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-guide-server/api"
)

const resourcesDir = "../../resources"

func TestMock_PredictAll(t *testing.T) {
	client := NewPredictionApiClientMock(resourcesDir)

	resp, err := client.PredictAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, resp.Predictions, 6)
	assert.Len(t, resp.Errors, 1)
}

func TestMock_Predict(t *testing.T) {
	client := NewPredictionApiClientMock(resourcesDir)

	resp, err := client.Predict(context.Background(), "gyeongbok_palace")

	require.NoError(t, err)
	require.Contains(t, resp, "경복궁")
	assert.Equal(t, 84663, resp["경복궁"].PredictedVisitors)
}

func TestMock_Predict_Errors(t *testing.T) {
	client := NewPredictionApiClientMock(resourcesDir)

	_, err := client.Predict(context.Background(), "lotte_world")
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	// present in the site list but failed in predict-all
	_, err = client.Predict(context.Background(), "seoul_grand_park")
	assert.Error(t, err)
}

func TestMock_Evaluate(t *testing.T) {
	client := NewPredictionApiClientMock(resourcesDir)

	got, err := client.Evaluate(context.Background(), "jongmyo_shrine")
	require.NoError(t, err)
	assert.Equal(t, "종묘", got.KoreanName)
	assert.Equal(t, "fair", got.PerformanceLevel)
	assert.Equal(t, "medium", got.OverfittingRisk)

	_, err = client.Evaluate(context.Background(), "lotte_world")
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestMock_MissingResources(t *testing.T) {
	client := NewPredictionApiClientMock(t.TempDir())

	_, err := client.PredictAll(context.Background())
	assert.Error(t, err)

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, health.Healthy())
}

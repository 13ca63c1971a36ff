package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2025-06-14T13:05:22.418306", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 14, 13, 5, 22, 418306000, time.UTC), got)

	kst := time.FixedZone("KST", 9*3600)
	got, err = ParseTimestamp("2025-06-14T13:05:22", kst)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Hour())
	assert.Equal(t, 4, got.UTC().Hour())

	got, err = ParseTimestamp("2025-06-14T13:05:22+09:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 4, got.UTC().Hour(), "explicit offset wins over loc")

	_, err = ParseTimestamp("yesterday", time.UTC)
	assert.Error(t, err)
}

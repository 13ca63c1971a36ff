package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DATA_SOURCE_FIXTURE, cfg.DataSource.Mode)
	assert.Equal(t, "*/30 * * * *", cfg.Refresh.Cron)
	assert.Equal(t, "Asia/Seoul", cfg.DataSource.Timezone)
	assert.Equal(t, 30.0, cfg.Congestion.Thresholds.Normal)
	assert.Equal(t, 85.0, cfg.Congestion.Thresholds.VeryHigh)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
env: prod
server:
  address: ":9090"
data_source:
  mode: api
  base_url: http://predictor:8000
  timeout: 3s
congestion:
  thresholds:
    normal: 20
    high: 50
    very_high: 80
`)
	t.Setenv("TG_REDIS_ADDRESS", "localhost:6380")
	t.Setenv("TG_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DATA_SOURCE_API, cfg.DataSource.Mode)
	assert.Equal(t, "http://predictor:8000", cfg.DataSource.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "localhost:6380", cfg.Redis.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50.0, cfg.Congestion.Thresholds.High)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.DataSource.Mode = "scraper"
	assert.Error(t, cfg.Validate())

	cfg.DataSource.Mode = DATA_SOURCE_API
	cfg.DataSource.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg.DataSource.BaseURL = "http://localhost:8000"
	cfg.DataSource.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg.DataSource.Timezone = "UTC"
	cfg.Congestion.Thresholds.High = 10
	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestGetResourcePath(t *testing.T) {
	t.Setenv("PROJECT_ROOT", "/srv/tour-guide")
	assert.Equal(t, "/srv/tour-guide/resources/tourist_spots.json", GetResourcePath(TOURIST_SPOTS_RESOURCE))
}

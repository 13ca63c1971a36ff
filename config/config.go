package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"tour-guide-server/congestion"
)

// Data source modes
const DATA_SOURCE_FIXTURE = "fixture"
const DATA_SOURCE_API = "api"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const TOURIST_SPOTS_RESOURCE = "tourist_spots.json"
const TOURIST_SITES_CATALOG_RESOURCE = "tourist_sites.yaml"
const TOURIST_SITES_RESPONSE_RESOURCE = "tourist_sites_response.json"
const PREDICT_ALL_RESPONSE_RESOURCE = "predict_all_response.json"
const EVALUATE_ALL_RESPONSE_RESOURCE = "evaluate_all_response.json"

// ENV_PREFIX prefixes every environment override, e.g. TG_REDIS_ADDRESS.
const ENV_PREFIX = "TG"

// Config holds the runtime settings of the server.
type Config struct {
	Env string `mapstructure:"env"`

	Server struct {
		Address         string        `mapstructure:"address"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	DataSource struct {
		Mode    string        `mapstructure:"mode"`
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
		// Timezone of the prediction API's zone-less timestamps.
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"data_source"`

	Refresh struct {
		Cron string `mapstructure:"cron"`
	} `mapstructure:"refresh"`

	History struct {
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"history"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Congestion struct {
		Thresholds congestion.Thresholds `mapstructure:"thresholds"`
	} `mapstructure:"congestion"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("redis.address", "redis:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("data_source.mode", DATA_SOURCE_FIXTURE)
	v.SetDefault("data_source.base_url", "http://localhost:8000")
	v.SetDefault("data_source.timeout", 10*time.Second)
	v.SetDefault("data_source.timezone", "Asia/Seoul")
	v.SetDefault("refresh.cron", "*/30 * * * *")
	v.SetDefault("history.sqlite_path", "data/tour_guide_history.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("congestion.thresholds.normal", congestion.DefaultThresholds.Normal)
	v.SetDefault("congestion.thresholds.high", congestion.DefaultThresholds.High)
	v.SetDefault("congestion.thresholds.very_high", congestion.DefaultThresholds.VeryHigh)
}

// Load reads config from an optional YAML file, then applies TG_* environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Mode {
	case DATA_SOURCE_FIXTURE:
	case DATA_SOURCE_API:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required in %q mode", DATA_SOURCE_API)
		}
	default:
		return fmt.Errorf("data_source.mode must be %q or %q, got %q",
			DATA_SOURCE_FIXTURE, DATA_SOURCE_API, c.DataSource.Mode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required")
	}
	if c.Refresh.Cron == "" {
		return fmt.Errorf("refresh.cron is required")
	}
	if err := c.Congestion.Thresholds.Validate(); err != nil {
		return err
	}
	return nil
}

// Location resolves data_source.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DataSource.Timezone)
	if err != nil {
		return nil, fmt.Errorf("data_source.timezone: %w", err)
	}
	return loc, nil
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-guide-server/config"
)

func TestRun_ReturnsContainerError(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	// nothing listens on port 1
	cfg.Redis.Address = "127.0.0.1:1"
	cfg.History.SQLitePath = t.TempDir() + "/history.db"

	err = run(cfg)

	assert.ErrorContains(t, err, "build container")
}

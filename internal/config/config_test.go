package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultDBPath(t *testing.T) {
	t.Setenv("FINTRACK_DB", "")

	cfg := Load()
	assert.NotEmpty(t, cfg.DBPath)
	assert.Contains(t, cfg.DBPath, "finance.db")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FINTRACK_DB", "/tmp/custom.db")

	cfg := Load()
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_ROOT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Caixa", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 12, cfg.Projection.Months)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_ROOT", "/tmp/caixa-test")
	t.Setenv("PORT", "9000")
	t.Setenv("PROJECTION_MONTHS", "6")

	cfg, err := config.Load()
	require.NoError(t, err)

	dir, err := cfg.DataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/caixa-test", dir)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, 6, cfg.Projection.Months)
}

func TestLoad_InvalidHorizon(t *testing.T) {
	t.Setenv("PROJECTION_MONTHS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

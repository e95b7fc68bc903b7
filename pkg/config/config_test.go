package config_test

import (
	"testing"

	"github.com/complianceos/cos_backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7, cfg.UpcomingHorizonDays)
	assert.Equal(t, 30, cfg.CalendarHorizonDays)
	assert.Equal(t, "100-M", cfg.RateLimit)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CALENDAR_HORIZON_DAYS", "14")
	t.Setenv("RATE_LIMIT", "50-H")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 14, cfg.CalendarHorizonDays)
	assert.Equal(t, "50-H", cfg.RateLimit)
}

func TestLoadConfig_InvalidRateLimitFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "plenty")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "100-M", cfg.RateLimit)
}

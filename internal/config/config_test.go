package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekStart(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Weekday
	}{
		{"", time.Monday},
		{"monday", time.Monday},
		{" Monday ", time.Monday},
		{"sunday", time.Sunday},
		{"SUNDAY", time.Sunday},
	}
	for _, tc := range cases {
		got, err := parseWeekStart(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := parseWeekStart("wednesday")
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_HOST", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("REPORT_WEEK_START", "")
	t.Setenv("REPORT_LATEST_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7091, cfg.HTTP.Port)
	assert.Equal(t, time.Monday, cfg.Report.WeekStart)
	assert.Equal(t, 5, cfg.Report.LatestLimit)
}

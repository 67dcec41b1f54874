package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "09:00-12:00", cfg.Planner.CampStudyHours)
	assert.Equal(t, "13:00-18:00", cfg.Planner.CampSelfStudyHours)
	require.NotNil(t, cfg.Planner.DefaultTravelMinutes)
	assert.Equal(t, 60, *cfg.Planner.DefaultTravelMinutes)
	assert.Equal(t, 6, cfg.Planner.StudyDays)
	assert.Equal(t, 1, cfg.Planner.ReviewDays)
	assert.Equal(t, 30, cfg.Planner.CrossCheckToleranceMinutes)
	assert.Equal(t, "23:59", cfg.Planner.AdjustMaxEndTime)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PLANNER_STUDY_DAYS", "5")
	t.Setenv("PLANNER_REVIEW_DAYS", "2")
	t.Setenv("PLANNER_DEFAULT_TRAVEL_MINUTES", "0")
	t.Setenv("RESULT_CACHE_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Planner.StudyDays)
	assert.Equal(t, 2, cfg.Planner.ReviewDays)
	require.NotNil(t, cfg.Planner.DefaultTravelMinutes)
	assert.Equal(t, 0, *cfg.Planner.DefaultTravelMinutes)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

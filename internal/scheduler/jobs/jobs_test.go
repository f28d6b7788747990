package jobs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplens/scout/pkg/config"
	"github.com/proplens/scout/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestProfileOrDefault_EmptyPath(t *testing.T) {
	p, err := profileOrDefault("", testLogger())
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "both", p.Purpose())
	assert.Equal(t, "medium", p.RiskTolerance())
}

func TestProfileOrDefault_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := []byte(`
investment_goals:
  primary_purpose: "Rental Income"
  risk_tolerance: "low"
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := profileOrDefault(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "rental income", p.Purpose())
	assert.Equal(t, "low", p.RiskTolerance())
}

func TestProfileOrDefault_MissingFile(t *testing.T) {
	_, err := profileOrDefault("/nonexistent/profile.yaml", testLogger())
	require.Error(t, err)
}

func TestJobSchedules(t *testing.T) {
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{
			RescoreCron: "0 30 4 * * *",
		},
	}

	rescore := NewRescoreJob(nil, nil, cfg, testLogger())
	assert.Equal(t, "daily_rescore", rescore.Name())
	assert.Equal(t, "0 30 4 * * *", rescore.Schedule())

	retention := NewRunRetentionJob(nil, cfg, testLogger())
	assert.Equal(t, "run_retention", retention.Name())
	assert.Equal(t, "0 0 3 * * *", retention.Schedule())
}

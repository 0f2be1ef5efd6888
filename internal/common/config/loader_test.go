package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: alfix-scoring-service
logging:
  level: debug
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 437.9502843417596, cfg.Scoring.Offset)
	assert.Equal(t, 95.25948800838954, cfg.Scoring.Factor)
	assert.Equal(t, "builtin", cfg.Scoring.Catalog.Source)
	assert.Equal(t, "artifact", cfg.Model.Source)
	assert.Equal(t, 5000, cfg.Model.Timeout)
	assert.Equal(t, "alfix:pd:", cfg.Cache.KeyPrefix)
	assert.False(t, cfg.Camunda.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFromFile_TierOverrides(t *testing.T) {
	path := writeConfig(t, `
scoring:
  credit_percent:
    Muy Bueno: 0.25
  liquidity_tiers:
    - upper_bound: 1.0
      multiplier: 1.0
    - upper_bound: .inf
      multiplier: 0.4
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Len(t, cfg.Scoring.LiquidityTiers, 2)
	assert.True(t, math.IsInf(cfg.Scoring.LiquidityTiers[1].UpperBound, 1))
	assert.Equal(t, 0.4, cfg.Scoring.LiquidityTiers[1].Multiplier)
	assert.Equal(t, 0.25, cfg.Scoring.CreditPercent["muy bueno"])
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "remote model without url",
			body: "model:\n  source: remote\n",
		},
		{
			name: "remote model with relative url",
			body: "model:\n  source: remote\n  remote_url: models/predict\n",
		},
		{
			name: "unknown catalog source",
			body: "scoring:\n  catalog:\n    source: s3\n",
		},
		{
			name: "file catalog without path",
			body: "scoring:\n  catalog:\n    source: file\n",
		},
		{
			name: "cache without redis",
			body: "cache:\n  enabled: true\n",
		},
		{
			name: "camunda without broker",
			body: "camunda:\n  enabled: true\n",
		},
		{
			name: "unknown log level",
			body: "logging:\n  level: verbose\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("ALFIX_REDIS_ADDR", "redis.internal:6379")
	path := writeConfig(t, `
cache:
  enabled: true
database:
  redis:
    address: ${ALFIX_REDIS_ADDR}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", cfg.Database.Redis.Address)
}

func TestWorkerConfigHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"calculate-credit-score": {Enabled: false, MaxJobsActive: 3, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "calculate-credit-score"))
	assert.True(t, IsWorkerEnabled(cfg, "other"))
	assert.Equal(t, 3, GetWorkerConfig(cfg, "calculate-credit-score").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "other").MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

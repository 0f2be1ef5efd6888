package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DWS-OmarMoreno/alfix-services/internal/classifier"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/models"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

func writeInterceptArtifact(t *testing.T, intercept float64) string {
	t.Helper()
	features := scoring.VariableNames(scoring.Variables)
	raw, err := json.Marshal(classifier.Artifact{
		Version:      "test",
		Features:     features,
		Coefficients: make([]float64, len(features)),
		Intercept:    intercept,
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "alfix_model.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func createTestConfig(artifactPath string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "alfix-scoring-service"},
		Server: config.ServerConfig{
			Enabled:        true,
			Port:           8080,
			MaxBodyBytes:   1 << 20,
			AllowedOrigins: []string{"*"},
		},
		Scoring: config.ScoringConfig{
			Offset:  scoring.DefaultOffset,
			Factor:  scoring.DefaultFactor,
			Catalog: config.CatalogConfig{Source: "builtin"},
		},
		Model: config.ModelConfig{
			Source:       ModelSourceArtifact,
			ArtifactPath: artifactPath,
			Timeout:      5000,
		},
		Cache:   config.CacheConfig{TTL: 60, KeyPrefix: "alfix:pd:"},
		Logging: config.LoggingConfig{Level: "debug", Format: "console"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

const body = `{"profit_cont_ops":1305954,"total_equity":4008240,"total_liab_cur_excl_disposal":119646380,
"total_liab_cur_ex_hfs":2604677,"nonfin_liab_other_cur":3787620,"fin_liab_other_cur":10368470,"prov_cur_total":2564660}`

func healthModelLoaded(t *testing.T, router http.Handler) bool {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.NotNil(t, health.ModelLoaded)
	return *health.ModelLoaded
}

func TestBuild_ArtifactWithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := createTestConfig(writeInterceptArtifact(t, 0))
	cfg.Cache.Enabled = true
	cfg.Database.Redis.Address = mr.Addr()

	svc, err := Build(context.Background(), cfg, logger.NewTestLogger(t), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })

	assert.False(t, svc.Provider.Loaded())
	assert.False(t, healthModelLoaded(t, svc.Router))

	rec := httptest.NewRecorder()
	svc.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api_analysis", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var report scoring.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 438, report.Score.Score)
	assert.Equal(t, scoring.CategoryMedium, report.Score.Category)
	assert.True(t, svc.Provider.Loaded())
	assert.True(t, healthModelLoaded(t, svc.Router))
	assert.Len(t, mr.Keys(), 1)

	rec = httptest.NewRecorder()
	svc.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alfix_analyses_total")
}

func TestBuild_MissingArtifactIsNotFatal(t *testing.T) {
	cfg := createTestConfig(filepath.Join(t.TempDir(), "absent.json"))

	svc, err := Build(context.Background(), cfg, logger.NewTestLogger(t), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })

	rec := httptest.NewRecorder()
	svc.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api_analysis", strings.NewReader(body)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	svc.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBuild_BadCatalogFailsFast(t *testing.T) {
	cfg := createTestConfig("unused.json")
	cfg.Scoring.Catalog = config.CatalogConfig{Source: "file", Path: filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := Build(context.Background(), cfg, logger.NewTestLogger(t), prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestLimitPolicyFrom(t *testing.T) {
	policy, err := LimitPolicyFrom(config.ScoringConfig{
		CreditPercent: map[string]float64{"muy bueno": 0.25},
		LiquidityTiers: []config.TierConfig{
			{UpperBound: 1, Multiplier: 1},
			{UpperBound: math.Inf(1), Multiplier: 0.4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.25, policy.CreditPercent[scoring.CategoryVeryGood])
	assert.Equal(t, 0.20, policy.CreditPercent[scoring.CategoryGood])
	assert.Equal(t, 0.4, policy.Liquidity.Lookup(29.85))
	assert.Equal(t, scoring.DefaultConcentrationTiers(), policy.Concentration)

	_, err = LimitPolicyFrom(config.ScoringConfig{
		LiquidityTiers: []config.TierConfig{{UpperBound: 1, Multiplier: 1}},
	})
	assert.ErrorIs(t, err, scoring.ErrInvalidTierTable)

	_, err = LimitPolicyFrom(config.ScoringConfig{CreditPercent: map[string]float64{"excelente": 0.5}})
	assert.Error(t, err)
}

func TestClassifierLoader_UnknownSource(t *testing.T) {
	cfg := createTestConfig("")
	cfg.Model.Source = "onnx"
	_, err := ClassifierLoader(cfg, nil, logger.NewNoOpLogger())
	assert.Error(t, err)
}

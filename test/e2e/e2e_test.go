// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DWS-OmarMoreno/alfix-services/internal/api"
	"github.com/DWS-OmarMoreno/alfix-services/internal/catalog"
	"github.com/DWS-OmarMoreno/alfix-services/internal/classifier"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	apperrors "github.com/DWS-OmarMoreno/alfix-services/internal/common/errors"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/models"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
	"github.com/DWS-OmarMoreno/alfix-services/internal/service"
)

var referenceFinancials = map[string]float64{
	"profit_cont_ops":              1305954,
	"total_equity":                 4008240,
	"total_liab_cur_excl_disposal": 119646380,
	"total_liab_cur_ex_hfs":        2604677,
	"nonfin_liab_other_cur":        3787620,
	"fin_liab_other_cur":           10368470,
	"prov_cur_total":               2564660,
}

type stack struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
	svc    *service.Service
}

// startStack writes a config and a model artifact predicting pd for every
// sample, then serves the assembled router.
func startStack(t *testing.T, pd float64, extraYAML string) *stack {
	t.Helper()
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	features := scoring.VariableNames(scoring.Variables)
	artifact, err := json.Marshal(classifier.Artifact{
		Version:      "e2e",
		Features:     features,
		Coefficients: make([]float64, len(features)),
		Intercept:    math.Log(pd / (1 - pd)),
	})
	require.NoError(t, err)
	artifactPath := filepath.Join(dir, "alfix_model.json")
	require.NoError(t, os.WriteFile(artifactPath, artifact, 0o600))

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
app:
  name: alfix-scoring-e2e
logging:
  level: debug
  format: console
model:
  source: artifact
  artifact_path: %s
cache:
  enabled: true
  ttl: 60
database:
  redis:
    address: %s
%s`, artifactPath, mr.Addr(), extraYAML)), 0o600))

	cfg, err := config.LoadFromFile(configPath)
	require.NoError(t, err)

	svc, err := service.Build(context.Background(), cfg, logger.NewTestLogger(t), prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(svc.Router)
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close(context.Background())
	})
	return &stack{server: srv, redis: mr, svc: svc}
}

func (s *stack) post(t *testing.T, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(s.server.URL+"/api_analysis", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestE2E_ReferenceSample(t *testing.T) {
	s := startStack(t, 0.05, "")

	resp, body := s.post(t, referenceFinancials)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.NotEmpty(t, resp.Header.Get(api.AnalysisIDHeader))

	var report scoring.Report
	require.NoError(t, json.Unmarshal(body, &report))

	assert.Equal(t, 718, report.Score.Score)
	assert.Equal(t, scoring.CategoryGood, report.Score.Category)
	assert.InDelta(t, 0.05, report.Score.PD, 1e-12)
	assert.InDelta(t, 718.4360339690998, report.Score.Raw, 1e-6)

	limit := report.Limit
	assert.Equal(t, 0.20, limit.EquityPercent)
	assert.InDelta(t, 801648.0, limit.BaseLimit, 1e-6)
	assert.Equal(t, 0.50, limit.LiquidityMultiplier)
	assert.Equal(t, 1.0, limit.ConcentrationMultiplier)
	assert.Equal(t, 0.5, limit.CombinedMultiplier)
	assert.InDelta(t, 400824.0, limit.RecommendedLimit, 1e-6)

	require.Len(t, report.Variables, 7)
	assert.Equal(t, "1,305,954", report.Variables[0].Value)
	assert.Equal(t, "67.5% por debajo de la media.", report.Variables[0].MeanComparison)

	wantTiers := []scoring.Tier{
		scoring.TierMidHigh, scoring.TierLow, scoring.TierMidLow, scoring.TierHigh,
		scoring.TierMidHigh, scoring.TierMidHigh, scoring.TierMidHigh,
	}
	require.Len(t, report.Recommendations, 7)
	for i, rec := range report.Recommendations {
		assert.Equal(t, scoring.Variables[i], rec.Variable)
		assert.Equal(t, wantTiers[i], rec.Tier, rec.Variable)
		assert.NotEmpty(t, rec.Advice)
	}
}

func TestE2E_IdempotentAndCached(t *testing.T) {
	s := startStack(t, 0.5, "")

	_, first := s.post(t, referenceFinancials)

	var wg sync.WaitGroup
	bodies := make([][]byte, 6)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Post(s.server.URL+"/api/v1/analysis", "application/json",
				bytes.NewReader(mustJSON(referenceFinancials)))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(resp.Body)
			bodies[i] = buf.Bytes()
		}(i)
	}
	wg.Wait()

	for _, b := range bodies {
		assert.JSONEq(t, string(first), string(b))
	}

	var report scoring.Report
	require.NoError(t, json.Unmarshal(first, &report))
	assert.Equal(t, 438, report.Score.Score)
	assert.Equal(t, scoring.CategoryMedium, report.Score.Category)
	assert.Len(t, s.redis.Keys(), 1)
}

func TestE2E_Errors(t *testing.T) {
	s := startStack(t, 0.05, "")

	partial := map[string]float64{"total_equity": 1, "fin_liab_other_cur": 2}
	resp, body := s.post(t, partial)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, apperrors.MsgMissingVariables+
		"profit_cont_ops, total_liab_cur_excl_disposal, total_liab_cur_ex_hfs, nonfin_liab_other_cur, prov_cur_total",
		errResp.Error)

	resp, err := http.Post(s.server.URL+"/api_analysis", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestE2E_FileCatalogAndOverrides(t *testing.T) {
	c := scoring.DefaultCatalog()
	c.Stats[scoring.TotalEquity] = scoring.VariableStats{Mean: 4008240, P25: 1000, P50: 2000, P75: 3000}
	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, catalog.WriteFile(catalogPath, c))

	s := startStack(t, 0.05, fmt.Sprintf(`scoring:
  catalog:
    source: file
    path: %s
  credit_percent:
    Bueno: 0.10
`, catalogPath))

	resp, body := s.post(t, referenceFinancials)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var report scoring.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "0.0% igual a de la media.", report.Variables[1].MeanComparison)
	assert.Equal(t, scoring.TierHigh, report.Recommendations[1].Tier)
	assert.InDelta(t, 200412.0, report.Limit.RecommendedLimit, 1e-6)
}

func mustJSON(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

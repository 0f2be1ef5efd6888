// internal/workers/credit/calculate-credit-score/activity.go
package calculatecreditscore

import (
	"sort"

	apperrors "github.com/DWS-OmarMoreno/alfix-services/internal/common/errors"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/validation"
	"github.com/DWS-OmarMoreno/alfix-services/pkg/registry"
)

// Activity describes this worker for the activity registry.
func Activity(cfg *Config) registry.Activity {
	codes := make([]string, 0, len(apperrors.BPMNErrorMapping))
	for _, code := range apperrors.BPMNErrorMapping {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Calculate Credit Score",
		Description:          "Scores an SME balance sheet and returns score, risk band, recommended credit limit and per-variable advice",
		Category:             "credit",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"financials": validation.SampleSchema()},
			"required":   []string{"financials"},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"creditAnalysis": map[string]interface{}{
					"type":     "object",
					"required": []string{"score_calculado", "cupo_recomendado", "analisis_variables", "recomendaciones"},
				},
			},
		},
		ErrorCodes: codes,
		Timeout:    cfg.Timeout.String(),
		Retries:    0,
		HTTPRoutes: []string{"/api_analysis", "/api/v1/analysis"},
		Tags:       []string{"scoring", "credit", "sme"},
	}
}

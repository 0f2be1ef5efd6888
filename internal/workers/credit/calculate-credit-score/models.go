// internal/workers/credit/calculate-credit-score/models.go
package calculatecreditscore

import "github.com/DWS-OmarMoreno/alfix-services/internal/scoring"

type Input struct {
	ApplicationID string                 `json:"applicationId,omitempty"`
	Financials    map[string]interface{} `json:"financials"`
}

type Output struct {
	CreditAnalysis *scoring.Report `json:"creditAnalysis"`
}

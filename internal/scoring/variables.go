// Package scoring turns a probability of default and seven balance-sheet
// variables into a credit score, a risk category, per-variable diagnostics,
// advice and a recommended credit limit.
package scoring

import (
	"fmt"
	"sort"
)

// Variable identifies one of the financial inputs of the model.
type Variable string

const (
	ProfitContOps            Variable = "profit_cont_ops"
	TotalEquity              Variable = "total_equity"
	TotalLiabCurExclDisposal Variable = "total_liab_cur_excl_disposal"
	TotalLiabCurExHFS        Variable = "total_liab_cur_ex_hfs"
	NonFinLiabOtherCur       Variable = "nonfin_liab_other_cur"
	FinLiabOtherCur          Variable = "fin_liab_other_cur"
	ProvCurTotal             Variable = "prov_cur_total"
)

// Variables lists the model inputs in canonical order. The classifier feature
// vector, missing-field reports and report sections all follow this order.
var Variables = []Variable{
	ProfitContOps,
	TotalEquity,
	TotalLiabCurExclDisposal,
	TotalLiabCurExHFS,
	NonFinLiabOtherCur,
	FinLiabOtherCur,
	ProvCurTotal,
}

// ScoreLabel is the display label of the score itself.
const ScoreLabel = "Puntaje Riesgo Crediticio"

func (v Variable) String() string { return string(v) }

// IsKnown reports whether v is one of the canonical model inputs.
func (v Variable) IsKnown() bool {
	for _, known := range Variables {
		if v == known {
			return true
		}
	}
	return false
}

// Sample holds the raw values of one business.
type Sample map[Variable]float64

// Missing returns the canonical variables absent from s, in canonical order.
func (s Sample) Missing() []Variable {
	var missing []Variable
	for _, v := range Variables {
		if _, ok := s[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}

// Features returns the canonical feature vector. It fails if any variable is absent.
func (s Sample) Features() ([]float64, error) {
	out := make([]float64, len(Variables))
	for i, v := range Variables {
		val, ok := s[v]
		if !ok {
			return nil, fmt.Errorf("variable %s not present in sample", v)
		}
		out[i] = val
	}
	return out, nil
}

// orderedKeys yields canonical variables first, then any extra keys sorted by name.
func (s Sample) orderedKeys() []Variable {
	keys := make([]Variable, 0, len(s))
	for _, v := range Variables {
		if _, ok := s[v]; ok {
			keys = append(keys, v)
		}
	}
	var extra []Variable
	for v := range s {
		if !v.IsKnown() {
			extra = append(extra, v)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(keys, extra...)
}

// VariableNames converts identifiers to plain strings.
func VariableNames(vars []Variable) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = string(v)
	}
	return out
}

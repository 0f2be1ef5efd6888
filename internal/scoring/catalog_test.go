package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	cat := DefaultCatalog()
	require.NoError(t, cat.Validate())

	assert.Len(t, cat.Stats, len(Variables))
	assert.Equal(t, "Patrimonio total", cat.Labels[TotalEquity])
	assert.Equal(t, 2.599826e+08, cat.Stats[TotalEquity].Mean)
	assert.Contains(t, cat.Advice[TotalEquity][TierLow], "Tu patrimonio es débil.")
}

func TestDefaultCatalog_IndependentCopies(t *testing.T) {
	a := DefaultCatalog()
	a.Labels[TotalEquity] = "changed"
	delete(a.Stats, ProvCurTotal)

	b := DefaultCatalog()
	assert.Equal(t, "Patrimonio total", b.Labels[TotalEquity])
	assert.Contains(t, b.Stats, ProvCurTotal)
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Catalog)
		want   string
	}{
		{"missing stats", func(c *Catalog) { delete(c.Stats, TotalEquity) }, "total_equity: missing reference statistics"},
		{"missing label", func(c *Catalog) { delete(c.Labels, ProvCurTotal) }, "prov_cur_total: missing label"},
		{"missing question", func(c *Catalog) { c.Questions[FinLiabOtherCur] = "" }, "fin_liab_other_cur: missing question"},
		{"missing tier", func(c *Catalog) { delete(c.Advice[ProfitContOps], TierHigh) }, "missing advice for tier alto"},
		{"unordered quartiles", func(c *Catalog) {
			c.Stats[ProfitContOps] = VariableStats{Mean: 1, P25: 3, P50: 2, P75: 4}
		}, "percentiles must satisfy"},
		{"non finite", func(c *Catalog) {
			c.Stats[ProfitContOps] = VariableStats{Mean: math.NaN(), P25: 1, P50: 2, P75: 3}
		}, "must be finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := DefaultCatalog()
			tt.mutate(cat)
			err := cat.Validate()
			require.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	var nilCatalog *Catalog
	assert.ErrorIs(t, nilCatalog.Validate(), ErrInvalidCatalog)
}

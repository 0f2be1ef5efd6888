package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidTierTable is returned for tier tables that cannot be looked up.
var ErrInvalidTierTable = errors.New("INVALID_TIER_TABLE")

// TierBound is one row of a tier table: values up to UpperBound get Multiplier.
type TierBound struct {
	UpperBound float64 `json:"upper_bound" yaml:"upper_bound"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// TierTable is an ordered step function ending in a +Inf catch-all.
type TierTable []TierBound

// Lookup returns the multiplier of the first row whose bound is >= value, or
// the last row's multiplier when none is. An empty table yields 0.
func (t TierTable) Lookup(value float64) float64 {
	if len(t) == 0 {
		return 0
	}
	for _, row := range t {
		if value <= row.UpperBound {
			return row.Multiplier
		}
	}
	return t[len(t)-1].Multiplier
}

// Validate requires strictly increasing bounds, a +Inf last bound and
// non-negative multipliers.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: table is empty", ErrInvalidTierTable)
	}
	for i, row := range t {
		if math.IsNaN(row.UpperBound) || math.IsNaN(row.Multiplier) || row.Multiplier < 0 {
			return fmt.Errorf("%w: row %d is malformed", ErrInvalidTierTable, i)
		}
		if i > 0 && row.UpperBound <= t[i-1].UpperBound {
			return fmt.Errorf("%w: bounds must be strictly increasing at row %d", ErrInvalidTierTable, i)
		}
	}
	if !math.IsInf(t[len(t)-1].UpperBound, 1) {
		return fmt.Errorf("%w: last bound must be +Inf", ErrInvalidTierTable)
	}
	return nil
}

// DefaultLiquidityTiers adjusts for short-term liabilities relative to equity.
func DefaultLiquidityTiers() TierTable {
	return TierTable{
		{UpperBound: 0.50, Multiplier: 1.00},
		{UpperBound: 1.00, Multiplier: 0.85},
		{UpperBound: 2.00, Multiplier: 0.70},
		{UpperBound: math.Inf(1), Multiplier: 0.50},
	}
}

// DefaultConcentrationTiers adjusts for the share of financial debt within
// short-term liabilities.
func DefaultConcentrationTiers() TierTable {
	return TierTable{
		{UpperBound: 0.10, Multiplier: 1.00},
		{UpperBound: 0.30, Multiplier: 0.90},
		{UpperBound: 0.50, Multiplier: 0.80},
		{UpperBound: math.Inf(1), Multiplier: 0.65},
	}
}

// DefaultCreditPercent is the share of equity granted as base limit per band.
func DefaultCreditPercent() map[Category]float64 {
	return map[Category]float64{
		CategoryVeryGood: 0.30,
		CategoryGood:     0.20,
		CategoryMedium:   0.10,
		CategoryBad:      0.03,
		CategoryVeryBad:  0.00,
	}
}

// LimitPolicy holds the tables used by the credit limit calculation.
type LimitPolicy struct {
	CreditPercent map[Category]float64
	Liquidity     TierTable
	Concentration TierTable
}

// DefaultLimitPolicy returns the calibrated policy.
func DefaultLimitPolicy() LimitPolicy {
	return LimitPolicy{
		CreditPercent: DefaultCreditPercent(),
		Liquidity:     DefaultLiquidityTiers(),
		Concentration: DefaultConcentrationTiers(),
	}
}

// Validate checks both tier tables and the percentage map.
func (p LimitPolicy) Validate() error {
	if err := p.Liquidity.Validate(); err != nil {
		return fmt.Errorf("liquidity tiers: %w", err)
	}
	if err := p.Concentration.Validate(); err != nil {
		return fmt.Errorf("concentration tiers: %w", err)
	}
	for cat, pct := range p.CreditPercent {
		if !cat.InRange() {
			return fmt.Errorf("credit percent: unknown category %q", cat)
		}
		if math.IsNaN(pct) || pct < 0 || pct > 1 {
			return fmt.Errorf("credit percent for %s must be within [0,1]", cat)
		}
	}
	return nil
}

// WithCreditPercent overrides percentages by category name, case-insensitively.
func (p LimitPolicy) WithCreditPercent(overrides map[string]float64) (LimitPolicy, error) {
	merged := make(map[Category]float64, len(p.CreditPercent))
	for k, v := range p.CreditPercent {
		merged[k] = v
	}
	for name, pct := range overrides {
		cat, ok := categoryByName(name)
		if !ok {
			return p, fmt.Errorf("credit percent: unknown category %q", name)
		}
		merged[cat] = pct
	}
	p.CreditPercent = merged
	return p, nil
}

func categoryByName(name string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return "", false
}

// LimitResult carries the recommended limit and every intermediate figure.
type LimitResult struct {
	PD                      float64  `json:"pd"`
	ScoreRaw                float64  `json:"score_raw"`
	Category                Category `json:"categoria"`
	EquityPercent           float64  `json:"porcentaje_equity_base"`
	Equity                  float64  `json:"equity"`
	BaseLimit               float64  `json:"cupo_base_por_equity"`
	LiquidityRatio          float64  `json:"razon_pc_equity"`
	LiquidityMultiplier     float64  `json:"ajuste_liquidez"`
	ConcentrationRatio      float64  `json:"razon_fin_cp_sobre_pc"`
	ConcentrationMultiplier float64  `json:"ajuste_financiero_cp"`
	CombinedMultiplier      float64  `json:"multiplicador_total"`
	RecommendedLimit        float64  `json:"cupo_recomendado"`
}

// Calculate derives the recommended limit from equity, the risk band and two
// balance-sheet ratios. Denominators are floored at 1.
func (p LimitPolicy) Calculate(sample Sample, pd, scoreRaw float64, category Category) LimitResult {
	pct := p.CreditPercent[category]
	equity := sample[TotalEquity]
	base := math.Max(0, pct*math.Max(equity, 0))

	shortTerm := sample[TotalLiabCurExclDisposal]
	liqRatio := shortTerm / math.Max(equity, 1)
	liqMult := p.Liquidity.Lookup(liqRatio)

	finRatio := sample[FinLiabOtherCur] / math.Max(shortTerm, 1)
	finMult := p.Concentration.Lookup(finRatio)

	combined := liqMult * finMult
	return LimitResult{
		PD:                      pd,
		ScoreRaw:                scoreRaw,
		Category:                category,
		EquityPercent:           pct,
		Equity:                  equity,
		BaseLimit:               base,
		LiquidityRatio:          liqRatio,
		LiquidityMultiplier:     liqMult,
		ConcentrationRatio:      finRatio,
		ConcentrationMultiplier: finMult,
		CombinedMultiplier:      combined,
		RecommendedLimit:        base * combined,
	}
}

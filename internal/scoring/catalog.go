package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidCatalog is returned when reference tables are incomplete or inconsistent.
var ErrInvalidCatalog = errors.New("INVALID_REFERENCE_CATALOG")

// Tier is the advice level of a value relative to the reference quartiles.
type Tier string

const (
	TierLow     Tier = "bajo"
	TierMidLow  Tier = "medio-bajo"
	TierMidHigh Tier = "medio-alto"
	TierHigh    Tier = "alto"
)

// Tiers lists advice levels from lowest to highest.
var Tiers = []Tier{TierLow, TierMidLow, TierMidHigh, TierHigh}

// VariableStats is the reference distribution summary of one variable.
type VariableStats struct {
	Mean float64 `json:"mean" yaml:"mean"`
	P25  float64 `json:"p25" yaml:"p25" validate:"ltefield=P50"`
	P50  float64 `json:"p50" yaml:"p50" validate:"ltefield=P75"`
	P75  float64 `json:"p75" yaml:"p75"`
}

func (s VariableStats) finite() bool {
	for _, v := range []float64{s.Mean, s.P25, s.P50, s.P75} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Catalog bundles every reference table the analysis reads. A catalog is
// built once at startup, validated, and never mutated afterwards.
type Catalog struct {
	Stats     map[Variable]VariableStats
	Labels    map[Variable]string
	Questions map[Variable]string
	Advice    map[Variable]map[Tier]string
}

// NewCatalog returns an empty catalog ready to be filled by a loader.
func NewCatalog() *Catalog {
	return &Catalog{
		Stats:     make(map[Variable]VariableStats),
		Labels:    make(map[Variable]string),
		Questions: make(map[Variable]string),
		Advice:    make(map[Variable]map[Tier]string),
	}
}

// SetAdvice stores the advice text of one tier.
func (c *Catalog) SetAdvice(v Variable, tier Tier, text string) {
	if c.Advice[v] == nil {
		c.Advice[v] = make(map[Tier]string, len(Tiers))
	}
	c.Advice[v][tier] = text
}

var catalogValidator = validator.New()

// Validate checks that every canonical variable has stats, a label, a
// question and advice for all four tiers, and that quartiles are ordered.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}

	var errs []error
	for _, v := range Variables {
		stats, ok := c.Stats[v]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s: missing reference statistics", v))
		case !stats.finite():
			errs = append(errs, fmt.Errorf("%s: reference statistics must be finite", v))
		default:
			if err := catalogValidator.Struct(stats); err != nil {
				errs = append(errs, fmt.Errorf("%s: percentiles must satisfy p25 <= p50 <= p75: %w", v, err))
			}
		}

		if c.Labels[v] == "" {
			errs = append(errs, fmt.Errorf("%s: missing label", v))
		}
		if c.Questions[v] == "" {
			errs = append(errs, fmt.Errorf("%s: missing question", v))
		}
		for _, tier := range Tiers {
			if c.Advice[v][tier] == "" {
				errs = append(errs, fmt.Errorf("%s: missing advice for tier %s", v, tier))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

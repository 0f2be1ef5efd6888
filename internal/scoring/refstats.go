package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientHistory is returned when a variable has no usable observations.
var ErrInsufficientHistory = errors.New("INSUFFICIENT_HISTORY")

// ComputeStats summarises observations into mean and quartiles. Quartiles use
// linear interpolation of the empirical distribution.
func ComputeStats(values []float64) (VariableStats, error) {
	if len(values) == 0 {
		return VariableStats{}, ErrInsufficientHistory
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	for _, v := range sorted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return VariableStats{}, fmt.Errorf("observation %v is not finite", v)
		}
	}
	sort.Float64s(sorted)

	return VariableStats{
		Mean: stat.Mean(sorted, nil),
		P25:  stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P75:  stat.Quantile(0.75, stat.LinInterp, sorted, nil),
	}, nil
}

// BuildReferenceStatistics recomputes stats for every canonical variable from
// historical samples. Samples lacking a variable do not contribute to it.
func BuildReferenceStatistics(history []Sample) (map[Variable]VariableStats, error) {
	out := make(map[Variable]VariableStats, len(Variables))
	for _, v := range Variables {
		values := make([]float64, 0, len(history))
		for _, s := range history {
			if val, ok := s[v]; ok {
				values = append(values, val)
			}
		}
		stats, err := ComputeStats(values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v, err)
		}
		out[v] = stats
	}
	return out, nil
}

// RebuildCatalog returns a validated copy of base whose statistics come from history.
func RebuildCatalog(base *Catalog, history []Sample) (*Catalog, error) {
	stats, err := BuildReferenceStatistics(history)
	if err != nil {
		return nil, err
	}

	c := NewCatalog()
	for _, v := range Variables {
		c.Stats[v] = stats[v]
		c.Labels[v] = base.Labels[v]
		c.Questions[v] = base.Questions[v]
		for _, tier := range Tiers {
			c.SetAdvice(v, tier, base.Advice[v][tier])
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

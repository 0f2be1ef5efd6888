package scoring

import "math"

const (
	DefaultOffset = 437.9502843417596
	DefaultFactor = 95.25948800838954

	MinScore = 0
	MaxScore = 1000

	pdEpsilon = 1e-9
)

// ScoreTransformer maps a probability of default onto the 0..1000 scale.
type ScoreTransformer struct {
	Offset float64
	Factor float64
}

// NewScoreTransformer returns a transformer with the calibrated constants.
func NewScoreTransformer() ScoreTransformer {
	return ScoreTransformer{Offset: DefaultOffset, Factor: DefaultFactor}
}

// ScoreResult is the outcome of transforming and classifying one PD.
type ScoreResult struct {
	Raw      float64
	Final    int
	Category Category
}

// Raw returns offset + factor*ln((1-p)/p) with p clamped to [1e-9, 1-1e-9].
// NaN is treated as the worst case.
func (t ScoreTransformer) Raw(pd float64) float64 {
	p := clampPD(pd)
	return t.Offset + t.Factor*math.Log((1-p)/p)
}

// Final rounds half to even and clamps into [MinScore, MaxScore].
func (t ScoreTransformer) Final(raw float64) int {
	if math.IsNaN(raw) {
		return MinScore
	}
	r := math.RoundToEven(raw)
	switch {
	case r < MinScore:
		return MinScore
	case r > MaxScore:
		return MaxScore
	default:
		return int(r)
	}
}

// Score transforms pd and classifies the resulting integer score.
func (t ScoreTransformer) Score(pd float64) ScoreResult {
	raw := t.Raw(pd)
	final := t.Final(raw)
	return ScoreResult{Raw: raw, Final: final, Category: Classify(final)}
}

func clampPD(pd float64) float64 {
	switch {
	case math.IsNaN(pd):
		return 1 - pdEpsilon
	case pd < pdEpsilon:
		return pdEpsilon
	case pd > 1-pdEpsilon:
		return 1 - pdEpsilon
	default:
		return pd
	}
}

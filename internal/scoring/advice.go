package scoring

// Recommendation is the advice emitted for one variable.
type Recommendation struct {
	Variable Variable `json:"variable"`
	Label    string   `json:"etiqueta"`
	Value    float64  `json:"valor"`
	Tier     Tier     `json:"nivel"`
	Advice   string   `json:"consejo"`
	Question string   `json:"captura_dato"`
}

// ClassifyTier buckets value against the quartiles with strict comparisons,
// so a value equal to a quartile lands in the higher tier.
func ClassifyTier(value float64, stats VariableStats) Tier {
	switch {
	case value < stats.P25:
		return TierLow
	case value < stats.P50:
		return TierMidLow
	case value < stats.P75:
		return TierMidHigh
	default:
		return TierHigh
	}
}

// Recommend produces advice for every sample value found in all four
// reference tables.
func Recommend(sample Sample, catalog *Catalog) []Recommendation {
	out := make([]Recommendation, 0, len(sample))
	for _, v := range sample.orderedKeys() {
		stats, ok := catalog.Stats[v]
		if !ok {
			continue
		}
		label, ok := catalog.Labels[v]
		if !ok {
			continue
		}
		advice, ok := catalog.Advice[v]
		if !ok {
			continue
		}
		question, ok := catalog.Questions[v]
		if !ok {
			continue
		}

		value := sample[v]
		tier := ClassifyTier(value, stats)
		out = append(out, Recommendation{
			Variable: v,
			Label:    label,
			Value:    value,
			Tier:     tier,
			Advice:   advice[tier],
			Question: question,
		})
	}
	return out
}

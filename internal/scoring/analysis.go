package scoring

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Direction tells on which side of the reference mean a value lies.
type Direction string

const (
	DirectionAbove Direction = "por encima"
	DirectionBelow Direction = "por debajo"
	DirectionEqual Direction = "igual a"
)

// VariableAnalysis compares one submitted value against its reference distribution.
type VariableAnalysis struct {
	Variable       Variable `json:"variable"`
	Label          string   `json:"etiqueta"`
	Value          string   `json:"valor"`
	MeanComparison string   `json:"comparativa_media"`
	Distribution   string   `json:"distribucion"`

	Deviation         float64   `json:"-"`
	Direction         Direction `json:"-"`
	NearestPercentile int       `json:"-"`
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders v with thousands separators and no decimals.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.0f", v)
}

// Deviation is (value-mean)/mean, or value-mean when the mean is zero.
func Deviation(value, mean float64) float64 {
	if mean == 0 {
		return value - mean
	}
	return (value - mean) / mean
}

func directionOf(deviation float64) Direction {
	switch {
	case deviation > 0:
		return DirectionAbove
	case deviation < 0:
		return DirectionBelow
	default:
		return DirectionEqual
	}
}

// NearestPercentile returns 25, 50 or 75, whichever reference quartile is
// closest to value. Ties go to the lower percentile.
func NearestPercentile(value float64, stats VariableStats) int {
	candidates := [...]struct {
		pct int
		ref float64
	}{{25, stats.P25}, {50, stats.P50}, {75, stats.P75}}

	best := candidates[0].pct
	bestDist := math.Abs(value - candidates[0].ref)
	for _, c := range candidates[1:] {
		if d := math.Abs(value - c.ref); d < bestDist {
			best, bestDist = c.pct, d
		}
	}
	return best
}

// AnalyzeVariables compares every sample value that has both reference stats
// and a label. Entries lacking either are skipped.
func AnalyzeVariables(sample Sample, catalog *Catalog) []VariableAnalysis {
	out := make([]VariableAnalysis, 0, len(sample))
	for _, v := range sample.orderedKeys() {
		stats, ok := catalog.Stats[v]
		if !ok {
			continue
		}
		label, ok := catalog.Labels[v]
		if !ok {
			continue
		}

		value := sample[v]
		dev := Deviation(value, stats.Mean)
		dir := directionOf(dev)
		pct := NearestPercentile(value, stats)

		out = append(out, VariableAnalysis{
			Variable:          v,
			Label:             label,
			Value:             FormatAmount(value),
			MeanComparison:    fmt.Sprintf("%.1f%% %s de la media.", math.Abs(dev)*100, dir),
			Distribution:      fmt.Sprintf("Valor cercano al percentil %d.", pct),
			Deviation:         dev,
			Direction:         dir,
			NearestPercentile: pct,
		})
	}
	return out
}

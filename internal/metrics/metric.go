package metrics

import (
	"math"

	"github.com/san-kum/convergent/internal/approx"
)

// Sample is one convergent together with what is needed to judge it.
type Sample struct {
	Row    approx.Convergent
	Factor float64
	Ratio  []float64
	Mask   []bool
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Scaled returns the input ratio multiplied by the sample's factor, the
// values the integer row is meant to match.
func Scaled(s Sample) []float64 {
	out := make([]float64, len(s.Ratio))
	for i, v := range s.Ratio {
		out[i] = v * s.Factor
	}
	return out
}

// RelativeError is the largest relative deviation between the row and the
// scaled ratio over enabled dimensions.
func RelativeError(s Sample) float64 {
	worst := 0.0
	for i, want := range Scaled(s) {
		if i >= len(s.Row) || i >= len(s.Mask) || !s.Mask[i] || want == 0 {
			continue
		}
		worst = math.Max(worst, math.Abs(float64(s.Row[i])-want)/want)
	}
	return worst
}

// Default returns the metrics reported for every run.
func Default() []Metric {
	return []Metric{
		NewRelError(),
		NewBestRelError(),
		NewComplexity(),
		NewSteps(),
	}
}

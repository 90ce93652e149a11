package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/convergent/internal/approx"
)

func piSample(row approx.Convergent) Sample {
	ratio := []float64{3.14159, 1}
	mask := []bool{true, true}
	factor := approx.MaskedSum(row.Floats(), mask) / approx.MaskedSum(ratio, mask)
	return Sample{Row: row, Factor: factor, Ratio: ratio, Mask: mask}
}

func TestRelativeError(t *testing.T) {
	exact := Sample{
		Row:    approx.Convergent{100, 35, 85, 107},
		Factor: 5,
		Ratio:  []float64{20, 7, 17, 21.4},
		Mask:   []bool{true, true, true, true},
	}
	if got := RelativeError(exact); got > 1e-12 {
		t.Errorf("expected ~0 error for exact ratio, got %g", got)
	}

	coarse := RelativeError(piSample(approx.Convergent{3, 1}))
	fine := RelativeError(piSample(approx.Convergent{355, 113}))
	if !(fine < coarse) {
		t.Errorf("expected 355/113 (%g) to beat 3/1 (%g)", fine, coarse)
	}
}

func TestRelativeError_IgnoresMasked(t *testing.T) {
	s := Sample{
		Row:    approx.Convergent{2, 1, 1000},
		Factor: 1,
		Ratio:  []float64{2, 1, 1},
		Mask:   []bool{true, true, false},
	}
	if got := RelativeError(s); got != 0 {
		t.Errorf("masked dimension leaked into error: %g", got)
	}
}

func TestDefaultMetrics(t *testing.T) {
	ms := Default()
	for _, row := range []approx.Convergent{{3, 1}, {22, 7}, {355, 113}} {
		for _, m := range ms {
			m.Observe(piSample(row))
		}
	}

	values := make(map[string]float64)
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}

	if values["steps"] != 3 {
		t.Errorf("expected 3 steps, got %v", values["steps"])
	}
	if values["complexity"] != 468 {
		t.Errorf("expected complexity 468, got %v", values["complexity"])
	}
	if math.Abs(values["rel_error"]-values["best_rel_error"]) > 1e-15 {
		t.Errorf("last convergent should be the best: %v vs %v", values["rel_error"], values["best_rel_error"])
	}

	for _, m := range ms {
		m.Reset()
	}
	if NewSteps().Value() != 0 || ms[3].Value() != 0 {
		t.Error("expected zero steps after reset")
	}
	if !math.IsInf(ms[0].Value(), 1) {
		t.Error("expected no error value after reset")
	}
}

package approx

import (
	"math"
	"strconv"
	"strings"
)

// Input is the ratio to approximate together with its pivot mask and
// per-dimension absolute tolerances.
type Input struct {
	Ratio     []float64 `json:"ratio" yaml:"ratio"`
	Mask      []bool    `json:"mask" yaml:"mask"`
	Precision []float64 `json:"precision" yaml:"precision"`
}

// DefaultInput returns π against 1 with five-decimal tolerances.
func DefaultInput() Input {
	return Input{
		Ratio:     []float64{3.14159, 1},
		Mask:      []bool{true, true},
		Precision: []float64{1e-5, 1e-5},
	}
}

// Len returns the number of dimensions.
func (in Input) Len() int { return len(in.Ratio) }

// Clone returns a deep copy.
func (in Input) Clone() Input {
	mask := make([]bool, len(in.Mask))
	copy(mask, in.Mask)
	return Input{
		Ratio:     cloneFloats(in.Ratio),
		Mask:      mask,
		Precision: cloneFloats(in.Precision),
	}
}

// Validate reports whether the input can drive an engine.
func (in Input) Validate() error {
	n := len(in.Ratio)
	if n < 2 {
		return &InputError{Field: "ratio", Index: -1, Detail: "need at least 2 entries, got " + strconv.Itoa(n), Wrapped: ErrInvalidInput}
	}
	if len(in.Mask) != n {
		return &InputError{Field: "mask", Index: -1, Detail: lengthDetail(len(in.Mask), n), Wrapped: ErrInvalidInput}
	}
	if len(in.Precision) != n {
		return &InputError{Field: "precision", Index: -1, Detail: lengthDetail(len(in.Precision), n), Wrapped: ErrInvalidInput}
	}
	for i, v := range in.Ratio {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return &InputError{Field: "ratio", Index: i, Detail: "got " + formatFloat(v), Wrapped: ErrUndefinedDomain}
		}
	}
	for i, p := range in.Precision {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return &InputError{Field: "precision", Index: i, Detail: "got " + formatFloat(p), Wrapped: ErrInvalidInput}
		}
	}
	return nil
}

// Convergent is one integer approximation of the input ratio.
type Convergent []int64

// Floats returns the convergent as float64 values.
func (c Convergent) Floats() []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = float64(v)
	}
	return out
}

// Clone returns an independent copy.
func (c Convergent) Clone() Convergent {
	out := make(Convergent, len(c))
	copy(out, c)
	return out
}

func (c Convergent) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// MaskedSum sums the entries of v whose mask flag is set.
func MaskedSum(v []float64, mask []bool) float64 {
	sum := 0.0
	for i, x := range v {
		if i < len(mask) && mask[i] {
			sum += x
		}
	}
	return sum
}

// maxEntry is 2^63, the first float64 outside the int64 range.
const maxEntry = float64(1 << 63)

// toConvergent rounds row to integers. It reports false when an entry does
// not fit in an int64.
func toConvergent(row []float64) (Convergent, bool) {
	c := make(Convergent, len(row))
	for i, v := range row {
		r := math.Round(v)
		if math.Abs(r) >= maxEntry || math.IsNaN(r) {
			return nil, false
		}
		c[i] = int64(r)
	}
	return c, true
}

func cloneFloats(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}

func lengthDetail(got, want int) string {
	return "length " + strconv.Itoa(got) + ", want " + strconv.Itoa(want)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

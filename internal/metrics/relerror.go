package metrics

import "math"

type RelError struct {
	name    string
	last    float64
	samples int
}

func NewRelError() *RelError {
	return &RelError{name: "rel_error"}
}

func (r *RelError) Name() string { return r.name }

func (r *RelError) Observe(s Sample) {
	r.last = RelativeError(s)
	r.samples++
}

func (r *RelError) Value() float64 {
	if r.samples == 0 {
		return math.Inf(1)
	}
	return r.last
}

func (r *RelError) Reset() {
	r.last = 0
	r.samples = 0
}

// BestRelError tracks the smallest relative error seen so far. Convergents
// do not improve monotonically once tolerances have grown.
type BestRelError struct {
	name string
	best float64
}

func NewBestRelError() *BestRelError {
	return &BestRelError{name: "best_rel_error", best: math.Inf(1)}
}

func (b *BestRelError) Name() string { return b.name }

func (b *BestRelError) Observe(s Sample) {
	b.best = math.Min(b.best, RelativeError(s))
}

func (b *BestRelError) Value() float64 { return b.best }

func (b *BestRelError) Reset() { b.best = math.Inf(1) }

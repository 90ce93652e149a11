package approx

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Engine generates successive convergents of an Input. The zero value is
// inert; construct with New or call SetInput before stepping.
type Engine struct {
	input Input

	// m holds one accumulated integer combination per dimension.
	m         *mat.Dense
	x         []float64
	precision []float64
	pivots    []int
	converged bool
}

// New returns an engine positioned before its first convergent.
func New(in Input) (*Engine, error) {
	e := &Engine{}
	if err := e.SetInput(in); err != nil {
		return nil, err
	}
	return e, nil
}

// SetInput replaces the input and discards all progress. The input is
// copied; later changes to the caller's slices have no effect. On error
// the engine keeps its previous input and state.
func (e *Engine) SetInput(in Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	e.input = in.Clone()
	e.Reset()
	return nil
}

// Reset rewinds to the start of the current input: identity transform,
// remainders equal to the ratio and the caller's original tolerances.
func (e *Engine) Reset() {
	n := e.input.Len()
	if n == 0 {
		return
	}
	e.m = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		e.m.Set(i, i, 1)
	}
	e.x = cloneFloats(e.input.Ratio)
	e.precision = cloneFloats(e.input.Precision)
	e.pivots = nil
	e.converged = false
}

// Step commits one pivot and returns the new convergent. It returns false
// once the approximation has converged, and keeps returning false until the
// engine is reset or given new input. A step whose row would overflow int64
// also ends the run: nothing is committed and the previous convergent stays
// current.
func (e *Engine) Step() (Convergent, bool) {
	if e.converged || e.m == nil {
		return nil, false
	}

	candidates := e.selectPivots()
	if len(candidates) == 0 {
		e.converged = true
		return nil, false
	}

	reductions := make([]reduction, 0, len(candidates))
	for _, p := range candidates {
		reductions = append(reductions, e.reduce(p))
	}

	best, ok := e.rank(reductions)
	if !ok {
		e.converged = true
		return nil, false
	}
	c, ok := toConvergent(best.row)
	if !ok {
		e.converged = true
		return nil, false
	}
	e.commit(best)

	return c, true
}

// Converged reports whether the engine has reached its terminal state.
func (e *Engine) Converged() bool { return e.converged }

// Len returns the number of dimensions of the current input.
func (e *Engine) Len() int { return e.input.Len() }

// Input returns a copy of the current input.
func (e *Engine) Input() Input { return e.input.Clone() }

// Precision returns a copy of the working tolerances. They start at the
// input precision and only grow while stepping.
func (e *Engine) Precision() []float64 { return cloneFloats(e.precision) }

// Remainder returns a copy of the unresolved magnitude per dimension.
func (e *Engine) Remainder() []float64 { return cloneFloats(e.x) }

// CurrentPivot returns the most recently committed pivot.
func (e *Engine) CurrentPivot() (int, error) {
	if len(e.pivots) == 0 {
		return -1, ErrNoConvergent
	}
	return e.pivots[len(e.pivots)-1], nil
}

// PivotSequence returns every committed pivot in order.
func (e *Engine) PivotSequence() []int {
	seq := make([]int, len(e.pivots))
	copy(seq, e.pivots)
	return seq
}

// CurrentApproximation returns the transform row of the current pivot,
// which is the latest convergent emitted by Step.
func (e *Engine) CurrentApproximation() (Convergent, error) {
	row, err := e.currentRow()
	if err != nil {
		return nil, err
	}
	// committed rows always fit
	c, _ := toConvergent(row)
	return c, nil
}

// RatioFactor returns the scale at which the current convergent matches the
// input: the masked sum of the convergent over the masked sum of the ratio.
// Multiplying the ratio by it reconstructs values comparable to the
// convergent.
func (e *Engine) RatioFactor() (float64, error) {
	row, err := e.currentRow()
	if err != nil {
		return 0, err
	}
	return MaskedSum(row, e.input.Mask) / MaskedSum(e.input.Ratio, e.input.Mask), nil
}

func (e *Engine) currentRow() ([]float64, error) {
	p, err := e.CurrentPivot()
	if err != nil {
		return nil, err
	}
	return mat.Row(nil, p, e.m), nil
}

func (e *Engine) commit(r reduction) {
	e.precision = r.precision
	e.x = r.x
	e.m.SetRow(r.pivot, r.row)
	e.pivots = append(e.pivots, r.pivot)
}

// rowSum is the simplicity score used to rank candidate rows.
func rowSum(row []float64) float64 {
	return floats.Sum(row)
}

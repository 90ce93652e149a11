package approx

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// reduction is the simulated outcome of pivoting on one dimension. Its
// slices are private copies; nothing is written to the engine until commit.
type reduction struct {
	pivot     int
	row       []float64
	x         []float64
	precision []float64
	sum       float64
}

// reduce divides every other remainder by the pivot's, snapping quotients
// that fall within tolerance of the next integer, and accumulates the
// quotients into a copy of the pivot row.
func (e *Engine) reduce(p int) reduction {
	r := reduction{
		pivot:     p,
		row:       mat.Row(nil, p, e.m),
		x:         cloneFloats(e.x),
		precision: cloneFloats(e.precision),
	}

	xp := e.x[p]
	for i, xi := range e.x {
		if i == p {
			continue
		}

		q := math.Floor(xi / xp)
		rem := xi - q*xp
		if rem > xp*(1-e.precision[i]) {
			q++
			rem = 0
		}
		// floor can round up onto an exact multiple
		if rem < 0 {
			rem = 0
		}

		// each unit of pivot uncertainty enters dimension i q times
		r.precision[i] += q * e.precision[p]
		r.x[i] = rem
		floats.AddScaled(r.row, q, e.m.RawRowView(i))
	}

	r.sum = rowSum(r.row)
	return r
}

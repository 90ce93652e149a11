// Package approx implements simultaneous integer approximation of a ratio
// of positive reals, a generalization of continued-fraction convergents to
// any number of quantities.
//
// The package is built around a single stateful generator:
//
//   - [Input]: the ratio to approximate, a pivot mask and per-dimension
//     absolute tolerances
//   - [Engine]: the pivoting engine, advanced one convergent at a time
//   - [Convergent]: one integer row emitted by [Engine.Step]
//
// Each step selects the smallest active remainder as pivot, divides every
// other remainder by it, accumulates the quotients into the pivot's row of
// the transform matrix and grows the tolerances by the propagated error.
// When several remainders tie within tolerance every candidate is simulated
// and the one with the smallest row sum wins; the previous pivot is never
// chosen twice in a row.
//
// # Example
//
//	eng, _ := approx.New(approx.Input{
//		Ratio:     []float64{3.14159, 1},
//		Mask:      []bool{true, true},
//		Precision: []float64{5e-6, 5e-16},
//	})
//	for {
//		c, ok := eng.Step()
//		if !ok {
//			break
//		}
//		fmt.Println(c) // [3 1], [22 7], [333 106], [355 113]
//	}
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Each approximation session owns its
// own engine; independent engines may run on separate goroutines.
package approx

package approx

import "math"

// selectPivots returns the enabled dimensions whose remainder is above
// tolerance and within tolerance of the smallest such remainder. It returns
// nil once at most one dimension is still active.
func (e *Engine) selectPivots() []int {
	n := len(e.x)
	inactive := 0
	smallest := math.Inf(1)
	active := make([]int, 0, n)

	for i, v := range e.x {
		if !e.input.Mask[i] || v <= e.precision[i] {
			inactive++
			continue
		}
		active = append(active, i)
		smallest = math.Min(smallest, v)
	}

	if inactive >= n-1 {
		return nil
	}

	candidates := active[:0]
	for _, i := range active {
		if v := e.x[i]; v == smallest || v < smallest+e.precision[i] {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

package approx

import (
	"cmp"
	"slices"
)

// rank orders candidates by row sum, smallest first, keeping selector order
// among equal sums, and returns the first whose pivot differs from the
// previous one.
func (e *Engine) rank(reductions []reduction) (reduction, bool) {
	slices.SortStableFunc(reductions, func(a, b reduction) int {
		return cmp.Compare(a.sum, b.sum)
	})

	last, err := e.CurrentPivot()
	for _, r := range reductions {
		if err == nil && r.pivot == last {
			continue
		}
		return r, true
	}
	return reduction{}, false
}

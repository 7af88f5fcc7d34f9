package regime

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"FinSight/internal/domain/models"
)

// Distance computes the Wasserstein-1 (earth mover's) distance between the
// empirical distributions of two return samples. The samples may differ in
// length; the result is the integral of |F_current - F_previous| over the
// merged support.
func Distance(current, previous []float64) (float64, error) {
	if len(current) == 0 || len(previous) == 0 {
		return 0, fmt.Errorf("%w: empty return window (current=%d previous=%d)",
			models.ErrInvalidInput, len(current), len(previous))
	}
	u, err := sortedCopy(current)
	if err != nil {
		return 0, err
	}
	v, err := sortedCopy(previous)
	if err != nil {
		return 0, err
	}

	all := make([]float64, 0, len(u)+len(v))
	all = append(all, u...)
	all = append(all, v...)
	slices.Sort(all)

	nu, nv := float64(len(u)), float64(len(v))
	d := 0.0
	for i := 0; i < len(all)-1; i++ {
		dx := all[i+1] - all[i]
		if dx == 0 {
			continue
		}
		cu := float64(countLE(u, all[i])) / nu
		cv := float64(countLE(v, all[i])) / nv
		d += math.Abs(cu-cv) * dx
	}
	return d, nil
}

func sortedCopy(xs []float64) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: return %d is not finite", models.ErrInvalidInput, i)
		}
		out[i] = x
	}
	slices.Sort(out)
	return out, nil
}

// countLE returns how many values of the sorted slice are <= x.
func countLE(sorted []float64, x float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] > x })
}

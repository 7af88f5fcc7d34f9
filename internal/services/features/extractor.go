package features

import (
	"fmt"
	"math"
	"math/rand"

	"FinSight/internal/domain/models"
)

// Synthetic window parameters used when a caller supplies no usable returns.
const (
	SyntheticMean   = 0.001
	SyntheticStd    = 0.02
	SyntheticLength = 60
)

// ComputeLogReturns computes log returns r_t = ln(P_t / P_{t-1}).
// It returns a slice of length len(prices)-1, or nil if fewer than two prices.
func ComputeLogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		cur := prices[i]
		if !(prev > 0) || !(cur > 0) || math.IsInf(prev, 0) || math.IsInf(cur, 0) {
			return nil, fmt.Errorf("%w: price at %d is not a positive finite number", models.ErrInvalidInput, i)
		}
		out = append(out, math.Log(cur/prev))
	}
	return out, nil
}

// SyntheticReturns draws n normally distributed returns from rng.
func SyntheticReturns(rng *rand.Rand, n int, mean, std float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + std*rng.NormFloat64()
	}
	return out
}

// StdDev is the sample standard deviation of returns; 0 when fewer than two.
func StdDev(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for _, r := range returns {
		sum += r
		sum2 += r * r
	}
	n := float64(len(returns))
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Package dataset builds and (de)serialises the synthetic reference
// dataset the demo samples assets from.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"FinSight/internal/domain/models"
)

const (
	DefaultSize = 1500
	DefaultSeed = 42
)

// Label thresholds on the logistic buy score.
const (
	buyAbove  = 0.7
	sellBelow = 0.35
)

// Generate draws n labelled assets from a generator seeded with seed. The
// same (n, seed) pair always yields the same rows.
func Generate(n int, seed int64) []models.LabeledAsset {
	rng := rand.New(rand.NewSource(seed))
	out := make([]models.LabeledAsset, 0, n)
	for i := 0; i < n; i++ {
		f := models.FeatureVector{
			Momentum:     0.02 + 0.08*rng.NormFloat64(),
			Volatility:   math.Abs(0.05 + 0.03*rng.NormFloat64()),
			PERatio:      clip(18+8*rng.NormFloat64(), 2, 200),
			SectorSignal: sector(rng.Float64()),
			Liquidity:    0.1 + 0.9*rng.Float64(),
		}
		out = append(out, models.LabeledAsset{
			AssetSample: models.AssetSample{Ticker: Ticker(i), Features: f},
			Action:      Label(f),
		})
	}
	return out
}

// Ticker returns the synthetic ticker of row i.
func Ticker(i int) string {
	return fmt.Sprintf("ASSET%03d", i)
}

// Score is the linear desirability score behind the labels.
func Score(f models.FeatureVector) float64 {
	return 2*f.Momentum - 1.5*f.Volatility - 0.01*(f.PERatio-15) +
		0.5*float64(f.SectorSignal) + 0.5*f.Liquidity
}

// Label maps a feature vector to its reference action.
func Label(f models.FeatureVector) models.Action {
	p := 1 / (1 + math.Exp(-5*(Score(f)-0.02)))
	switch {
	case p > buyAbove:
		return models.ActionBuy
	case p < sellBelow:
		return models.ActionSell
	default:
		return models.ActionHold
	}
}

// sector picks 0, 1 or -1 with probabilities 0.7, 0.15, 0.15.
func sector(u float64) int {
	switch {
	case u < 0.7:
		return 0
	case u < 0.85:
		return 1
	default:
		return -1
	}
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

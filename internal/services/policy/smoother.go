// Package policy blends successive probability distributions over time.
//
// The update is diffusion-inspired: the previous belief is treated as noise
// that fresh evidence displaces in proportion to detected regime drift.
package policy

import (
	"math"

	"FinSight/internal/domain/models"
)

// DefaultAlphaScale is the drift at which the fresh prediction fully
// replaces the previous belief.
const DefaultAlphaScale = 0.1

// Smooth interpolates alpha*current + (1-alpha)*previous per label, with
// alpha clamped to [0,1]. The output is not renormalised.
func Smooth(previous, current models.Distribution, alpha float64) models.Distribution {
	alpha = clamp01(alpha)
	var out models.Distribution
	for _, a := range models.Actions {
		out[a] = alpha*current[a] + (1-alpha)*previous[a]
	}
	return out
}

// Alpha derives the blend factor from a regime distance:
// min(1, distance/scale). A non-positive scale falls back to the default.
func Alpha(distance, scale float64) float64 {
	if scale <= 0 {
		scale = DefaultAlphaScale
	}
	return math.Min(1.0, distance/scale)
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

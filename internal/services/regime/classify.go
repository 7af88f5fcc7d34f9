package regime

import (
	"fmt"

	"FinSight/internal/domain/models"
)

// Default regime thresholds on the Wasserstein distance.
const (
	DefaultLowThreshold  = 0.02
	DefaultHighThreshold = 0.08
)

// Thresholds partitions distances into regimes: below Low is stable, above
// High is volatile, and [Low, High] inclusive is transition.
type Thresholds struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// DefaultThresholds returns the stock 0.02 / 0.08 split.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: DefaultLowThreshold, High: DefaultHighThreshold}
}

// Validate rejects negative or inverted thresholds.
func (t Thresholds) Validate() error {
	if t.Low < 0 || t.High < 0 || t.Low > t.High {
		return fmt.Errorf("%w: regime thresholds low=%v high=%v", models.ErrInvalidInput, t.Low, t.High)
	}
	return nil
}

// Classify maps a distance onto a regime.
func (t Thresholds) Classify(distance float64) models.Regime {
	switch {
	case distance > t.High:
		return models.RegimeVolatile
	case distance < t.Low:
		return models.RegimeStable
	default:
		return models.RegimeTransition
	}
}

// Classify uses the default thresholds.
func Classify(distance float64) models.Regime {
	return DefaultThresholds().Classify(distance)
}

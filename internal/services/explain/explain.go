// Package explain renders the human-readable trace of a pipeline run.
package explain

import (
	"fmt"

	"FinSight/internal/domain/models"
)

// Explain returns the four explanation lines, in fixed order.
func Explain(action models.Action, regime models.Regime, c models.Context, alpha float64) []string {
	return []string{
		fmt.Sprintf("Detected market regime: %s", regime),
		fmt.Sprintf("Risk tolerance: %s", c.RiskTolerance),
		fmt.Sprintf("Policy smoothed using diffusion (alpha=%.2f)", alpha),
		fmt.Sprintf("Final decision: %s", action),
	}
}

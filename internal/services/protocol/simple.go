package protocol

import (
	"fmt"
	"math"
	"sort"

	"FinSight/internal/domain/models"
)

// SimpleEngine is the single-stage decision mode: additive context
// adjustment on the raw model output, no regime and no smoothing, with
// reasons derived from absolute probability thresholds.
type SimpleEngine struct{}

func NewSimpleEngine() *SimpleEngine { return &SimpleEngine{} }

// Adjust shifts raw probabilities toward the investor context, clamps at
// zero and renormalises.
func (SimpleEngine) Adjust(probs models.Distribution, c models.Context) models.Distribution {
	p := probs
	switch c.RiskTolerance {
	case models.RiskHigh:
		p[models.ActionBuy] += 0.05
		p[models.ActionHold] -= 0.03
	case models.RiskLow:
		p[models.ActionBuy] -= 0.05
		p[models.ActionHold] += 0.03
	}

	p[models.ActionBuy] *= math.Max(0.2, 1.0-c.PositionExposure)

	p[models.ActionBuy] += 0.06 * c.MarketSentiment
	p[models.ActionSell] -= 0.04 * c.MarketSentiment

	if c.TimeHorizon == models.HorizonLong {
		p[models.ActionBuy] -= 0.02
	}

	for _, a := range models.Actions {
		p[a] = math.Max(p[a], 0)
	}
	return p.Normalized()
}

// Decide adjusts probs and returns a decision carrying threshold reasons.
func (e SimpleEngine) Decide(probs models.Distribution, c models.Context) models.Decision {
	adjusted := e.Adjust(probs, c)
	return decide(adjusted, Reasons(adjusted))
}

// Reasons explains an adjusted distribution. When no threshold fires the
// top label is reported instead.
func Reasons(p models.Distribution) []string {
	var reasons []string
	if p[models.ActionBuy] > 0.5 {
		reasons = append(reasons, "Model + context strongly favors buying")
	}
	if p[models.ActionSell] > 0.4 {
		reasons = append(reasons, "Sell signal is significant compared to alternatives")
	}
	if p[models.ActionHold] > 0.4 {
		reasons = append(reasons, "Market conditions favor holding")
	}
	if len(reasons) == 0 {
		ranked := models.Actions
		sort.SliceStable(ranked[:], func(i, j int) bool { return p[ranked[i]] > p[ranked[j]] })
		top := ranked[0]
		reasons = append(reasons, fmt.Sprintf("Top signal: %s (prob=%.2f)", top, p[top]))
	}
	return reasons
}

package protocol

import (
	"github.com/shopspring/decimal"

	"FinSight/internal/domain/models"
)

// Rules are the multiplicative adjustments of the regime-aware protocol.
type Rules struct {
	LowRiskBuy      float64 `yaml:"low_risk_buy"`
	LowRiskHold     float64 `yaml:"low_risk_hold"`
	HighRiskBuy     float64 `yaml:"high_risk_buy"`
	ExposureLimit   float64 `yaml:"exposure_limit"`
	HighExposureBuy float64 `yaml:"high_exposure_buy"`
	VolatileSell    float64 `yaml:"volatile_sell"`
}

// DefaultRules returns the stock protocol.
func DefaultRules() Rules {
	return Rules{
		LowRiskBuy:      0.7,
		LowRiskHold:     1.2,
		HighRiskBuy:     1.2,
		ExposureLimit:   0.6,
		HighExposureBuy: 0.5,
		VolatileSell:    1.3,
	}
}

// Engine applies the regime-aware protocol.
type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Apply re-weights probs for the context and regime, renormalises and picks
// the action. It never generates reasons; see the explain package.
func (e *Engine) Apply(probs models.Distribution, c models.Context, regime models.Regime) models.Decision {
	p := probs
	switch c.RiskTolerance {
	case models.RiskLow:
		p[models.ActionBuy] *= e.rules.LowRiskBuy
		p[models.ActionHold] *= e.rules.LowRiskHold
	case models.RiskHigh:
		p[models.ActionBuy] *= e.rules.HighRiskBuy
	}
	if c.PositionExposure > e.rules.ExposureLimit {
		p[models.ActionBuy] *= e.rules.HighExposureBuy
	}
	if regime == models.RegimeVolatile {
		p[models.ActionSell] *= e.rules.VolatileSell
	}
	return decide(p.Normalized(), []string{})
}

func decide(final models.Distribution, reasons []string) models.Decision {
	action := final.ArgMax()
	return models.Decision{
		Action:     action,
		Confidence: Round3(final[action]),
		Reasons:    reasons,
		FinalProbs: final,
	}
}

// Round3 rounds a probability to three decimal places.
func Round3(p float64) float64 {
	return decimal.NewFromFloat(p).Round(3).InexactFloat64()
}

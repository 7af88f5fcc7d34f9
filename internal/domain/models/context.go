package models

import (
	"fmt"
	"math"
)

// RiskTolerance is the investor's stated appetite for risk.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// TimeHorizon is the investor's holding horizon.
type TimeHorizon string

const (
	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"
)

// Context is the user-supplied investment context of one decision request.
type Context struct {
	RiskTolerance    RiskTolerance `json:"risk_tolerance" validate:"oneof=low medium high"`
	PositionExposure float64       `json:"position_exposure" validate:"gte=0,lte=1"`
	MarketSentiment  float64       `json:"market_sentiment" validate:"gte=-1,lte=1"`
	TimeHorizon      TimeHorizon   `json:"time_horizon" validate:"oneof=short medium long"`
}

// Validate reports ErrInvalidInput for out-of-domain values.
func (c Context) Validate() error {
	if math.IsNaN(c.PositionExposure) || math.IsNaN(c.MarketSentiment) {
		return fmt.Errorf("%w: context contains NaN", ErrInvalidInput)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: context: %v", ErrInvalidInput, err)
	}
	return nil
}

// ContextInput is the boundary form of Context.
type ContextInput struct {
	RiskTolerance    string   `json:"risk_tolerance" default:"medium" validate:"oneof=low medium high"`
	PositionExposure *float64 `json:"position_exposure,omitempty" default:"0.2" validate:"omitempty,gte=0,lte=1"`
	MarketSentiment  *float64 `json:"market_sentiment,omitempty" default:"0" validate:"omitempty,gte=-1,lte=1"`
	TimeHorizon      string   `json:"time_horizon" default:"medium" validate:"oneof=short medium long"`
}

// Context resolves the input, filling the same defaults the request
// binder applies.
func (in ContextInput) Context() Context {
	c := Context{
		RiskTolerance:    RiskTolerance(in.RiskTolerance),
		PositionExposure: floatOr(in.PositionExposure, 0.2),
		MarketSentiment:  floatOr(in.MarketSentiment, 0),
		TimeHorizon:      TimeHorizon(in.TimeHorizon),
	}
	if c.RiskTolerance == "" {
		c.RiskTolerance = RiskMedium
	}
	if c.TimeHorizon == "" {
		c.TimeHorizon = HorizonMedium
	}
	return c
}

package models

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Feature defaults applied when a caller leaves a feature out.
const (
	DefaultMomentum     = 0.0
	DefaultVolatility   = 0.05
	DefaultPERatio      = 15.0
	DefaultSectorSignal = 0
	DefaultLiquidity    = 0.5
)

// FeatureVector is the classifier input for one asset.
type FeatureVector struct {
	Momentum     float64 `json:"momentum"`
	Volatility   float64 `json:"volatility" validate:"gte=0"`
	PERatio      float64 `json:"pe_ratio" validate:"gt=0"`
	SectorSignal int     `json:"sector_signal" validate:"oneof=-1 0 1"`
	Liquidity    float64 `json:"liquidity" validate:"gte=0,lte=1"`
}

// Array returns the features in classifier order: momentum, volatility,
// pe_ratio, sector_signal, liquidity.
func (f FeatureVector) Array() [5]float64 {
	return [5]float64{f.Momentum, f.Volatility, f.PERatio, float64(f.SectorSignal), f.Liquidity}
}

// Validate reports ErrInvalidInput for out-of-domain or non-finite values.
func (f FeatureVector) Validate() error {
	for i, v := range f.Array() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: feature %d is not finite", ErrInvalidInput, i)
		}
	}
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: features: %v", ErrInvalidInput, err)
	}
	return nil
}

// FeatureInput is the boundary form of FeatureVector. Fields stay nil
// through request binding so a sampled base can be partially overridden;
// Vector fills the defaults.
type FeatureInput struct {
	Momentum     *float64 `json:"momentum,omitempty"`
	Volatility   *float64 `json:"volatility,omitempty" validate:"omitempty,gte=0"`
	PERatio      *float64 `json:"pe_ratio,omitempty" validate:"omitempty,gt=0"`
	SectorSignal *int     `json:"sector_signal,omitempty" validate:"omitempty,oneof=-1 0 1"`
	Liquidity    *float64 `json:"liquidity,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Vector resolves the input into a FeatureVector.
func (in FeatureInput) Vector() FeatureVector {
	return FeatureVector{
		Momentum:     floatOr(in.Momentum, DefaultMomentum),
		Volatility:   floatOr(in.Volatility, DefaultVolatility),
		PERatio:      floatOr(in.PERatio, DefaultPERatio),
		SectorSignal: intOr(in.SectorSignal, DefaultSectorSignal),
		Liquidity:    floatOr(in.Liquidity, DefaultLiquidity),
	}
}

// Override replaces fields of base with the ones set on in.
func (in FeatureInput) Override(base FeatureVector) FeatureVector {
	return FeatureVector{
		Momentum:     floatOr(in.Momentum, base.Momentum),
		Volatility:   floatOr(in.Volatility, base.Volatility),
		PERatio:      floatOr(in.PERatio, base.PERatio),
		SectorSignal: intOr(in.SectorSignal, base.SectorSignal),
		Liquidity:    floatOr(in.Liquidity, base.Liquidity),
	}
}

// IsZero reports whether no feature was supplied.
func (in FeatureInput) IsZero() bool {
	return in.Momentum == nil && in.Volatility == nil && in.PERatio == nil &&
		in.SectorSignal == nil && in.Liquidity == nil
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

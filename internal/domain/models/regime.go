package models

// Regime is the qualitative market state derived from return drift.
type Regime string

const (
	RegimeStable     Regime = "stable"
	RegimeTransition Regime = "transition"
	RegimeVolatile   Regime = "volatile"
)

func (r Regime) String() string { return string(r) }

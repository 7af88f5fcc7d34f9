package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribution_Normalized(t *testing.T) {
	d := Distribution{2, 1, 1}.Normalized()
	assert.Equal(t, Distribution{0.5, 0.25, 0.25}, d)

	assert.Equal(t, Distribution{}, Distribution{}.Normalized())
}

func TestDistribution_ArgMaxTieBreak(t *testing.T) {
	testCases := []struct {
		d    Distribution
		want Action
	}{
		{Distribution{0.4, 0.4, 0.2}, ActionHold},
		{Distribution{0.2, 0.4, 0.4}, ActionBuy},
		{Distribution{0.1, 0.2, 0.7}, ActionSell},
		{Distribution{}, ActionHold},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.d.ArgMax(), "%v", tc.d)
	}
}

func TestDistributionFromMap(t *testing.T) {
	d, err := DistributionFromMap(map[string]float64{"buy": 0.5, "hold": 0.3, "sell": 0.2})
	require.NoError(t, err)
	assert.Equal(t, Distribution{0.3, 0.5, 0.2}, d)

	mismatches := []map[string]float64{
		{"buy": 0.5, "hold": 0.5},
		{"buy": 0.5, "hold": 0.3, "short": 0.2},
		{"buy": 0.5, "hold": 0.3, "sell": 0.1, "long": 0.1},
		{"buy": 0.5, "hold": 0.3, "HOLD": 0.2},
	}
	for _, m := range mismatches {
		_, err := DistributionFromMap(m)
		assert.ErrorIs(t, err, ErrLabelMismatch, "%v", m)
	}

	_, err = DistributionFromMap(map[string]float64{"buy": -0.1, "hold": 0.3, "sell": 0.2})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = DistributionFromMap(map[string]float64{"buy": math.NaN(), "hold": 0.3, "sell": 0.2})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDistribution_JSON(t *testing.T) {
	b, err := json.Marshal(PriorDistribution)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hold":0.34,"buy":0.33,"sell":0.33}`, string(b))

	var d Distribution
	err = json.Unmarshal([]byte(`{"hold":0.1,"buy":0.2}`), &d)
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestAction_JSON(t *testing.T) {
	b, err := json.Marshal(Decision{Action: ActionSell, Confidence: 0.5, FinalProbs: Distribution{0.25, 0.25, 0.5}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"action":"sell"`)

	var a Action
	require.NoError(t, json.Unmarshal([]byte(`"Buy"`), &a))
	assert.Equal(t, ActionBuy, a)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"short"`), &a), ErrLabelMismatch)
}

func TestFeatureInput(t *testing.T) {
	assert.Equal(t, FeatureVector{Momentum: 0, Volatility: 0.05, PERatio: 15, SectorSignal: 0, Liquidity: 0.5},
		FeatureInput{}.Vector())
	assert.True(t, FeatureInput{}.IsZero())

	m := 0.3
	in := FeatureInput{Momentum: &m}
	assert.False(t, in.IsZero())
	base := FeatureVector{Momentum: -0.1, Volatility: 0.08, PERatio: 22, SectorSignal: -1, Liquidity: 0.7}
	got := in.Override(base)
	assert.Equal(t, 0.3, got.Momentum)
	assert.Equal(t, 22.0, got.PERatio)
	assert.Equal(t, -1, got.SectorSignal)
}

func TestFeatureVector_Validate(t *testing.T) {
	require.NoError(t, FeatureInput{}.Vector().Validate())

	bad := []FeatureVector{
		{Volatility: -0.1, PERatio: 15},
		{Volatility: 0.05, PERatio: 0},
		{Volatility: 0.05, PERatio: 15, SectorSignal: 2},
		{Volatility: 0.05, PERatio: 15, Liquidity: 1.5},
		{Momentum: math.Inf(1), Volatility: 0.05, PERatio: 15},
	}
	for _, f := range bad {
		assert.ErrorIs(t, f.Validate(), ErrInvalidInput, "%+v", f)
	}
}

func TestContext(t *testing.T) {
	c := ContextInput{}.Context()
	assert.Equal(t, Context{RiskTolerance: RiskMedium, PositionExposure: 0.2, MarketSentiment: 0, TimeHorizon: HorizonMedium}, c)
	require.NoError(t, c.Validate())

	c.PositionExposure = 1.2
	assert.ErrorIs(t, c.Validate(), ErrInvalidInput)

	c = ContextInput{RiskTolerance: "extreme"}.Context()
	assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
}

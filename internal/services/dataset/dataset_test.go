package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(50, DefaultSeed)
	b := Generate(50, DefaultSeed)
	require.Len(t, a, 50)
	assert.Equal(t, a, b)
	assert.Equal(t, "ASSET000", a[0].Ticker)
	assert.Equal(t, "ASSET049", a[49].Ticker)
}

func TestGenerate_RowsAreValid(t *testing.T) {
	counts := map[models.Action]int{}
	for _, row := range Generate(DefaultSize, DefaultSeed) {
		require.NoError(t, row.Features.Validate(), row.Ticker)
		assert.GreaterOrEqual(t, row.Features.PERatio, 2.0)
		assert.LessOrEqual(t, row.Features.PERatio, 200.0)
		assert.GreaterOrEqual(t, row.Features.Liquidity, 0.1)
		assert.Equal(t, Label(row.Features), row.Action)
		counts[row.Action]++
	}
	for _, a := range models.Actions {
		assert.Positive(t, counts[a], a.String())
	}
}

func TestLabel(t *testing.T) {
	strong := models.FeatureVector{Momentum: 0.2, Volatility: 0.02, PERatio: 12, SectorSignal: 1, Liquidity: 0.9}
	assert.Equal(t, models.ActionBuy, Label(strong))

	weak := models.FeatureVector{Momentum: -0.2, Volatility: 0.15, PERatio: 40, SectorSignal: -1, Liquidity: 0.1}
	assert.Equal(t, models.ActionSell, Label(weak))

	// score 0.04 -> p ~ 0.525
	mid := models.FeatureVector{Momentum: 0, Volatility: 0.04, PERatio: 15, SectorSignal: 0, Liquidity: 0.2}
	assert.Equal(t, models.ActionHold, Label(mid))
}

func TestCSV_RoundTrip(t *testing.T) {
	rows := Generate(20, 7)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), "ticker,momentum,volatility,pe_ratio,sector_signal,liquidity,action\n"))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadCSV_Formats(t *testing.T) {
	in := "ticker,momentum,volatility,pe_ratio,sector_signal,liquidity\n" +
		"ABC,0.1,0.02,12.5,1.0,0.8\n"
	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Features.SectorSignal)
	assert.Equal(t, models.ActionHold, got[0].Action)

	_, err = ReadCSV(strings.NewReader("ticker,momentum\nA,1\n"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = ReadCSV(strings.NewReader(in + "BAD,x,0.02,12,0,0.5\n"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = ReadCSV(strings.NewReader(strings.Join(Header, ",") + "\nA,0,0.05,15,0,0.5,7\n"))
	assert.ErrorIs(t, err, models.ErrLabelMismatch)
}

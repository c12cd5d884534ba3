package quote

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketMind/internal/model"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestSummarize_DeltaAndPercent(t *testing.T) {
	s, err := Summarize("AAPL", dec(110), dec(100), model.Metadata{})
	require.NoError(t, err)

	assert.True(t, s.Delta.Equal(dec(10)), "delta = %s", s.Delta)
	require.True(t, s.PercentDelta.Valid)
	assert.True(t, s.PercentDelta.Decimal.Equal(dec(10)), "percent = %s", s.PercentDelta.Decimal)
	assert.Equal(t, "AAPL", s.DisplayName)

	assert.False(t, s.MarketCap.Valid)
	assert.False(t, s.TrailingPE.Valid)
	assert.False(t, s.FiftyTwoWeekHigh.Valid)
	assert.False(t, s.FiftyTwoWeekLow.Valid)
	assert.False(t, s.DividendYield.Valid)
	assert.False(t, s.Sector.Valid)
	assert.False(t, s.BusinessSummary.Valid)
	assert.False(t, s.LongName.Valid)
}

func TestSummarize_ZeroPreviousCloseIsUndefined(t *testing.T) {
	s, err := Summarize("X", dec(100), decimal.Zero, nil)
	require.NoError(t, err)
	assert.False(t, s.PercentDelta.Valid)
	assert.True(t, s.Delta.Equal(dec(100)))
}

func TestSummarize_NegativeDelta(t *testing.T) {
	s, err := Summarize("X", dec(95), dec(100), nil)
	require.NoError(t, err)
	assert.True(t, s.Delta.Equal(dec(-5)))
	assert.True(t, s.PercentDelta.Decimal.Equal(dec(-5)))
}

func TestSummarize_RejectsNegativePrices(t *testing.T) {
	_, err := Summarize("X", dec(-1), dec(100), nil)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Summarize("X", dec(1), dec(-100), nil)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestFromFloat_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FromFloat(v)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	}
	d, err := FromFloat(12.5)
	require.NoError(t, err)
	assert.True(t, d.Equal(dec(12.5)))
}

func TestSummarize_MetadataPresence(t *testing.T) {
	meta := model.Metadata{
		model.FieldMarketCap:       model.NumberValue(2.5e12),
		model.FieldTrailingPE:      model.NumberValue(0),
		model.FieldDividendYield:   model.NullValue(),
		model.FieldSector:          model.TextValue("Technology"),
		model.FieldBusinessSummary: model.TextValue(""),
		model.FieldLongName:        model.TextValue("Apple Inc."),
	}
	s, err := Summarize("AAPL", dec(1), dec(1), meta)
	require.NoError(t, err)

	assert.True(t, s.MarketCap.Valid)
	assert.Equal(t, 2.5e12, s.MarketCap.Float64)

	// a reported zero stays a value
	assert.True(t, s.TrailingPE.Valid)
	assert.Equal(t, 0.0, s.TrailingPE.Float64)

	// reported null and never reported are both unavailable
	assert.False(t, s.DividendYield.Valid)
	assert.False(t, s.FiftyTwoWeekHigh.Valid)

	assert.Equal(t, "Technology", s.Sector.String)
	assert.True(t, s.BusinessSummary.Valid)
	assert.Equal(t, "Apple Inc.", s.DisplayName)
}

func TestSummarize_TypeMismatchIsUnavailable(t *testing.T) {
	meta := model.Metadata{
		model.FieldMarketCap: model.TextValue("huge"),
		model.FieldSector:    model.NumberValue(3),
	}
	s, err := Summarize("X", dec(1), dec(1), meta)
	require.NoError(t, err)
	assert.False(t, s.MarketCap.Valid)
	assert.False(t, s.Sector.Valid)
}

func TestSummarize_Idempotent(t *testing.T) {
	meta := model.Metadata{model.FieldSector: model.TextValue("Energy")}
	a, err := Summarize("XOM", dec(110.25), dec(108.5), meta)
	require.NoError(t, err)
	b, err := Summarize("XOM", dec(110.25), dec(108.5), meta)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// Package quote builds the header and statistics record for a ticker.
package quote

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"MarketMind/internal/model"
)

// ErrInvalidPrice is returned for a negative or non-finite price.
var ErrInvalidPrice = errors.New("price must be finite and non-negative")

var hundred = decimal.NewFromInt(100)

// FromFloat converts a provider price, rejecting NaN and infinities that
// decimal.NewFromFloat would panic on.
func FromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%v: %w", v, ErrInvalidPrice)
	}
	return decimal.NewFromFloat(v), nil
}

// Summarize computes the price change and resolves every metadata field.
// A previous close of zero leaves PercentDelta invalid ("undefined").
// Absent and null metadata keys both come out unavailable.
func Summarize(symbol string, current, previous decimal.Decimal, meta model.Metadata) (*model.QuoteSummary, error) {
	if current.IsNegative() {
		return nil, fmt.Errorf("current price %s: %w", current, ErrInvalidPrice)
	}
	if previous.IsNegative() {
		return nil, fmt.Errorf("previous close %s: %w", previous, ErrInvalidPrice)
	}

	delta := current.Sub(previous)
	s := &model.QuoteSummary{
		Symbol:        symbol,
		CurrentPrice:  current,
		PreviousClose: previous,
		Delta:         delta,
	}
	if !previous.IsZero() {
		s.PercentDelta = decimal.NewNullDecimal(delta.Div(previous).Mul(hundred))
	}

	s.MarketCap = number(meta, model.FieldMarketCap)
	s.TrailingPE = number(meta, model.FieldTrailingPE)
	s.FiftyTwoWeekHigh = number(meta, model.FieldFiftyTwoWeekHigh)
	s.FiftyTwoWeekLow = number(meta, model.FieldFiftyTwoWeekLow)
	s.DividendYield = number(meta, model.FieldDividendYield)
	s.Sector = text(meta, model.FieldSector)
	s.BusinessSummary = text(meta, model.FieldBusinessSummary)
	s.LongName = text(meta, model.FieldLongName)

	s.DisplayName = symbol
	if s.LongName.Valid && s.LongName.String != "" {
		s.DisplayName = s.LongName.String
	}
	return s, nil
}

func number(meta model.Metadata, f model.Field) null.Float {
	v, p := meta.Lookup(f)
	if p != model.PresentValue || !v.Number.Valid {
		return null.Float{}
	}
	if math.IsNaN(v.Number.Float64) || math.IsInf(v.Number.Float64, 0) {
		return null.Float{}
	}
	return v.Number
}

func text(meta model.Metadata, f model.Field) null.String {
	v, p := meta.Lookup(f)
	if p != model.PresentValue || !v.Text.Valid {
		return null.String{}
	}
	return v.Text
}

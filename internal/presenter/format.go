// Package presenter turns dashboard values into display strings.
package presenter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"MarketMind/internal/model"
)

const (
	// NotAvailable marks a metadata field the provider did not report.
	NotAvailable = "N/A"
	// Undefined is shown for a percent change against a zero previous close.
	Undefined = "undefined"

	NoSummary = "No summary available."
	NoNews    = "No recent news found for this ticker."
)

func money(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	return humanize.FormatFloat("#,###.##", f)
}

func signed(d decimal.Decimal) string {
	s := money(d.Abs())
	switch d.Round(2).Sign() {
	case 1:
		return "+" + s
	case -1:
		return "-" + s
	}
	return s
}

// Price formats a price as "$1,234.56".
func Price(d decimal.Decimal) string {
	return "$" + money(d)
}

// Percent formats a percent change as "+1.25%", or Undefined.
func Percent(p decimal.NullDecimal) string {
	if !p.Valid {
		return Undefined
	}
	return signed(p.Decimal) + "%"
}

// Delta formats the change as "+10.00 (+10.00%)".
func Delta(q *model.QuoteSummary) string {
	return fmt.Sprintf("%s (%s)", signed(q.Delta), Percent(q.PercentDelta))
}

// MetricLine is the header metric, e.g. "$110.00 / +10.00 (+10.00%)".
func MetricLine(q *model.QuoteSummary) string {
	return Price(q.CurrentPrice) + " / " + Delta(q)
}

// Number renders a plain number, or NotAvailable.
func Number(v null.Float) string {
	if !v.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

// Integer renders a whole number with thousands separators, or NotAvailable.
func Integer(v null.Float) string {
	if !v.Valid {
		return NotAvailable
	}
	return humanize.Comma(int64(math.Round(v.Float64)))
}

// Text renders a reported string, or NotAvailable.
func Text(v null.String) string {
	if !v.Valid {
		return NotAvailable
	}
	return v.String
}

// Polarity formats a score with two decimals.
func Polarity(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// SentimentLine is "Positive (0.45)".
func SentimentLine(h model.AnnotatedHeadline) string {
	return fmt.Sprintf("%s (%s)", h.Label, Polarity(h.Polarity))
}

// Stat is one labeled key statistic.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Statistics lists the key statistics in display order.
func Statistics(q *model.QuoteSummary) []Stat {
	return []Stat{
		{"Market Cap", Integer(q.MarketCap)},
		{"PE Ratio", Number(q.TrailingPE)},
		{"52 Week High", Number(q.FiftyTwoWeekHigh)},
		{"52 Week Low", Number(q.FiftyTwoWeekLow)},
		{"Dividend Yield", Number(q.DividendYield)},
		{"Sector", Text(q.Sector)},
	}
}

// Summary returns the business summary, or NoSummary when unreported.
func Summary(q *model.QuoteSummary) string {
	if !q.BusinessSummary.Valid {
		return NoSummary
	}
	return q.BusinessSummary.String
}

func roundNull(v null.Float) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(math.Round(v.Float64*100) / 100)
}

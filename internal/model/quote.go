package model

import (
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// Field names one entry of the provider's metadata bag.
type Field string

const (
	FieldMarketCap        Field = "marketCap"
	FieldTrailingPE       Field = "trailingPE"
	FieldFiftyTwoWeekHigh Field = "fiftyTwoWeekHigh"
	FieldFiftyTwoWeekLow  Field = "fiftyTwoWeekLow"
	FieldDividendYield    Field = "dividendYield"
	FieldSector           Field = "sector"
	FieldBusinessSummary  Field = "longBusinessSummary"
	FieldLongName         Field = "longName"
)

// Fields is the fixed key set looked up for every quote.
var Fields = []Field{
	FieldMarketCap,
	FieldTrailingPE,
	FieldFiftyTwoWeekHigh,
	FieldFiftyTwoWeekLow,
	FieldDividendYield,
	FieldSector,
	FieldBusinessSummary,
	FieldLongName,
}

// Presence is the state of a metadata key at the provider boundary.
type Presence int

const (
	Absent Presence = iota
	PresentNull
	PresentValue
)

// MetaValue is a single reported metadata value. The zero value is a
// reported null.
type MetaValue struct {
	Number null.Float
	Text   null.String
}

// NumberValue wraps a reported number. Zero is a real value.
func NumberValue(v float64) MetaValue { return MetaValue{Number: null.FloatFrom(v)} }

// TextValue wraps reported text. The empty string is kept as a value.
func TextValue(s string) MetaValue { return MetaValue{Text: null.NewString(s, true)} }

// NullValue is a key the provider reported without a value.
func NullValue() MetaValue { return MetaValue{} }

func (v MetaValue) valid() bool { return v.Number.Valid || v.Text.Valid }

// Metadata is the loosely typed fundamentals bag. Keys not in the map were
// never reported.
type Metadata map[Field]MetaValue

// Lookup returns the value for f and whether it was absent, reported as null,
// or reported with a value.
func (m Metadata) Lookup(f Field) (MetaValue, Presence) {
	v, ok := m[f]
	switch {
	case !ok:
		return MetaValue{}, Absent
	case !v.valid():
		return v, PresentNull
	default:
		return v, PresentValue
	}
}

// QuoteSummary is the display record for the header and statistics tab.
// Invalid null fields are unavailable and must render as a marker.
type QuoteSummary struct {
	Symbol        string              `json:"symbol"`
	DisplayName   string              `json:"displayName"`
	CurrentPrice  decimal.Decimal     `json:"currentPrice"`
	PreviousClose decimal.Decimal     `json:"previousClose"`
	Delta         decimal.Decimal     `json:"delta"`
	PercentDelta  decimal.NullDecimal `json:"percentDelta"`

	MarketCap        null.Float  `json:"marketCap"`
	TrailingPE       null.Float  `json:"trailingPE"`
	FiftyTwoWeekHigh null.Float  `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  null.Float  `json:"fiftyTwoWeekLow"`
	DividendYield    null.Float  `json:"dividendYield"`
	Sector           null.String `json:"sector"`
	BusinessSummary  null.String `json:"longBusinessSummary"`
	LongName         null.String `json:"longName"`
}

// RawQuote is what a provider reports for the quote header. Zero-valued
// null fields mean the provider did not report that price. MetadataErr is
// set when the fundamentals call itself failed, so an empty Metadata is not
// mistaken for a provider that reported nothing.
type RawQuote struct {
	CurrentPrice  null.Float
	PreviousClose null.Float
	Metadata      Metadata
	MetadataErr   error
}

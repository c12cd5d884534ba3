// Package catalog holds the selectable ticker symbols. It is loaded once at
// startup and read-only afterwards.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Ticker is one catalog entry. The JSON keys follow the ticker.json asset.
type Ticker struct {
	Symbol string `json:"s"`
	Name   string `json:"n"`
}

// Source lists the tickers in display order.
type Source interface {
	Tickers(ctx context.Context) ([]Ticker, error)
}

// ErrEmpty is returned when a source yields no usable tickers.
var ErrEmpty = errors.New("catalog is empty")

type tickerFile struct {
	Data []Ticker `json:"data"`
}

// JSONSource reads the {"data":[{"s":..,"n":..}]} asset.
type JSONSource struct {
	Path string
}

func (s JSONSource) Tickers(_ context.Context) ([]Ticker, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read ticker file: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes the ticker asset format.
func ParseJSON(data []byte) ([]Ticker, error) {
	var f tickerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse ticker file: %w", err)
	}
	return f.Data, nil
}

// Catalog is an immutable, ordered symbol list.
type Catalog struct {
	tickers       []Ticker
	index         map[string]int
	defaultSymbol string
}

// New builds a catalog keeping file order. Symbols are upper-cased, blanks
// dropped, and later duplicates ignored. defaultSymbol must be in the list
// when set; otherwise the second entry is the default, or the only one.
func New(tickers []Ticker, defaultSymbol string) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(tickers))}
	for _, t := range tickers {
		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		if sym == "" {
			continue
		}
		if _, dup := c.index[sym]; dup {
			continue
		}
		c.index[sym] = len(c.tickers)
		c.tickers = append(c.tickers, Ticker{Symbol: sym, Name: strings.TrimSpace(t.Name)})
	}
	if len(c.tickers) == 0 {
		return nil, ErrEmpty
	}

	switch def := strings.ToUpper(strings.TrimSpace(defaultSymbol)); {
	case def != "":
		if _, ok := c.index[def]; !ok {
			return nil, fmt.Errorf("default symbol %q not in catalog", def)
		}
		c.defaultSymbol = def
	case len(c.tickers) > 1:
		c.defaultSymbol = c.tickers[1].Symbol
	default:
		c.defaultSymbol = c.tickers[0].Symbol
	}
	return c, nil
}

// Load reads src once and builds the catalog.
func Load(ctx context.Context, src Source, defaultSymbol string) (*Catalog, error) {
	tickers, err := src.Tickers(ctx)
	if err != nil {
		return nil, err
	}
	return New(tickers, defaultSymbol)
}

// All returns a copy of the tickers in display order.
func (c *Catalog) All() []Ticker {
	out := make([]Ticker, len(c.tickers))
	copy(out, c.tickers)
	return out
}

// Lookup finds a ticker by symbol, case-insensitively.
func (c *Catalog) Lookup(symbol string) (Ticker, bool) {
	i, ok := c.index[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Ticker{}, false
	}
	return c.tickers[i], true
}

func (c *Catalog) Default() string { return c.defaultSymbol }

func (c *Catalog) Len() int { return len(c.tickers) }

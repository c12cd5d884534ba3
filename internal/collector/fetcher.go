package collector

import (
	"context"
	"errors"

	"MarketMind/internal/model"
)

// ErrNoData is returned when a provider has nothing for the symbol.
var ErrNoData = errors.New("no data returned")

// Fetcher supplies price history and the quote header for a symbol.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, period model.Period) ([]model.PricePoint, error)
	FetchQuote(ctx context.Context, symbol string) (*model.RawQuote, error)
	Name() string
}

// NewsFetcher supplies recent headlines for a symbol, newest first.
type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]model.Headline, error)
	Name() string
}

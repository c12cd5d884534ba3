package main

import (
	"context"
	"fmt"

	"MarketMind/internal/catalog"
	"MarketMind/internal/collector"
	"MarketMind/internal/config"
)

// buildFetchers selects the bars and news providers. news is nil when
// headlines are disabled.
func buildFetchers(cfg *config.Config) (collector.Fetcher, collector.NewsFetcher, error) {
	p := cfg.Provider
	var (
		yahoo  *collector.YahooFetcher
		alpaca *collector.AlpacaFetcher
		mock   *collector.MockFetcher
	)
	getYahoo := func() *collector.YahooFetcher {
		if yahoo == nil {
			yahoo = collector.NewYahooFetcher(p.YahooBaseURL, p.Proxy, p.Timeout)
		}
		return yahoo
	}
	getAlpaca := func() *collector.AlpacaFetcher {
		if alpaca == nil {
			alpaca = collector.NewAlpacaFetcher(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL)
		}
		return alpaca
	}
	getMock := func() *collector.MockFetcher {
		if mock == nil {
			mock = &collector.MockFetcher{}
		}
		return mock
	}

	var bars collector.Fetcher
	switch p.Bars {
	case "yahoo":
		bars = getYahoo()
	case "alpaca":
		bars = getAlpaca()
	case "mock":
		bars = getMock()
	default:
		return nil, nil, fmt.Errorf("unknown bars provider %q", p.Bars)
	}

	var news collector.NewsFetcher
	switch p.News {
	case "yahoo":
		news = getYahoo()
	case "google":
		news = collector.NewGoogleNewsFetcher(p.GoogleNewsURL, p.Proxy, p.Timeout)
	case "alpaca":
		news = getAlpaca()
	case "mock":
		news = getMock()
	case "none":
	default:
		return nil, nil, fmt.Errorf("unknown news provider %q", p.News)
	}
	return bars, news, nil
}

func newsName(n collector.NewsFetcher) string {
	if n == nil {
		return "none"
	}
	return n.Name()
}

// loadCatalog reads the ticker list, through SQLite when configured. The
// returned func releases the database.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, func(), error) {
	seed := catalog.JSONSource{Path: cfg.Catalog.JSONPath}
	if cfg.Catalog.SQLitePath == "" {
		cat, err := catalog.Load(ctx, seed, cfg.Catalog.DefaultSymbol)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		return cat, func() {}, nil
	}

	store, err := catalog.OpenSQLite(cfg.Catalog.SQLitePath, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog store: %w", err)
	}
	cat, err := catalog.Load(ctx, store, cfg.Catalog.DefaultSymbol)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, func() { store.Close() }, nil
}

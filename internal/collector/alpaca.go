package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/guregu/null/v6"

	"MarketMind/internal/calculator"
	"MarketMind/internal/model"
)

// alpacaEpoch is the earliest date Alpaca serves daily bars for.
var alpacaEpoch = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)

// alpacaClient is the subset of *marketdata.Client used here.
type alpacaClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
	GetNews(req marketdata.GetNewsRequest) ([]marketdata.News, error)
}

// AlpacaFetcher implements Fetcher and NewsFetcher over the Alpaca
// market-data API. Alpaca has no fundamentals, so quotes carry only the
// 52-week range derived from bars.
type AlpacaFetcher struct {
	client alpacaClient
	Feed   marketdata.Feed
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher with the given credentials. dataURL may
// be empty to use Alpaca's default endpoint.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL string) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &AlpacaFetcher{
		client: marketdata.NewClient(opts),
		Feed:   marketdata.IEX,
		now:    time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) bars(ctx context.Context, symbol string, start time.Time) ([]model.PricePoint, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if start.Before(alpacaEpoch) {
		start = alpacaEpoch
	}

	alpacaBars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       f.now(),
		Feed:      f.Feed,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca GetBars: %w", err)
	}
	if len(alpacaBars) == 0 {
		return nil, fmt.Errorf("alpaca: %w", ErrNoData)
	}

	bars := make([]model.PricePoint, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, model.PricePoint{
			Time:   ab.Timestamp.UTC(),
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: int64(ab.Volume),
		})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FetchHistory returns daily bars from the period start until now.
func (f *AlpacaFetcher) FetchHistory(ctx context.Context, symbol string, period model.Period) ([]model.PricePoint, error) {
	return f.bars(ctx, symbol, period.Start(f.now().UTC()))
}

// FetchQuote uses the last close as the current price and the one before
// as the previous close.
func (f *AlpacaFetcher) FetchQuote(ctx context.Context, symbol string) (*model.RawQuote, error) {
	bars, err := f.bars(ctx, symbol, model.Period1Y.Start(f.now().UTC()))
	if err != nil {
		return nil, err
	}

	q := &model.RawQuote{Metadata: model.Metadata{}}
	last, prev, lastOK, prevOK := calculator.LastCloses(bars)
	if lastOK {
		q.CurrentPrice = null.FloatFrom(last)
	}
	if prevOK {
		q.PreviousClose = null.FloatFrom(prev)
	}
	if high, low, err := calculator.Calculate52WeekRange(bars); err == nil {
		q.Metadata[model.FieldFiftyTwoWeekHigh] = model.NumberValue(high)
		q.Metadata[model.FieldFiftyTwoWeekLow] = model.NumberValue(low)
	}
	return q, nil
}

// FetchNews returns the latest headlines for the symbol, newest first.
func (f *AlpacaFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.Headline, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	now := f.now()
	news, err := f.client.GetNews(marketdata.GetNewsRequest{
		Symbols:    []string{symbol},
		Start:      now.AddDate(0, 0, -30),
		End:        now,
		TotalLimit: limit,
		Sort:       marketdata.SortDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca GetNews: %w", err)
	}

	out := make([]model.Headline, 0, len(news))
	for _, n := range news {
		out = append(out, model.Headline{Title: n.Headline, Link: n.URL, Publisher: n.Author})
	}
	return out, nil
}

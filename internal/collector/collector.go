package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MarketMind/internal/apperror"
	"MarketMind/internal/calculator"
	"MarketMind/internal/logger"
	"MarketMind/internal/model"
	"MarketMind/internal/quote"
	"MarketMind/internal/sentiment"
)

// Request names the symbol and window for one dashboard render.
type Request struct {
	Symbol    string
	Period    model.Period
	NewsLimit int
	// SeriesOnly skips the quote and news sections.
	SeriesOnly bool
}

// Dashboard is everything one render needs. A section that failed carries
// its error message and a nil value; the other sections are unaffected.
type Dashboard struct {
	Symbol      string       `json:"symbol"`
	Period      model.Period `json:"period"`
	PeriodLabel string       `json:"periodLabel"`
	GeneratedAt time.Time    `json:"generatedAt"`

	Series      *model.EnrichedSeries `json:"series"`
	SeriesError string                `json:"seriesError,omitempty"`

	Quote      *model.QuoteSummary `json:"quote"`
	QuoteError string              `json:"quoteError,omitempty"`
	// StatisticsError is set when the price header rendered but the
	// fundamentals could not be fetched.
	StatisticsError string `json:"statisticsError,omitempty"`

	Headlines        []model.AnnotatedHeadline `json:"headlines"`
	NewsError        string                    `json:"newsError,omitempty"`
	SkippedHeadlines []string                  `json:"skippedHeadlines,omitempty"`
}

// Collector orchestrates data fetching and the three dashboard stages.
type Collector struct {
	Fetcher Fetcher
	News    NewsFetcher
	Scorer  sentiment.Scorer
	Windows []int
	Now     func() time.Time
}

// NewCollector creates a new Collector. news may be nil to disable headlines.
func NewCollector(fetcher Fetcher, news NewsFetcher, scorer sentiment.Scorer, windows []int) *Collector {
	return &Collector{
		Fetcher: fetcher,
		News:    news,
		Scorer:  scorer,
		Windows: windows,
		Now:     time.Now,
	}
}

// NoDataMessage is shown when a provider returns no history for a symbol.
func NoDataMessage(symbol string) string {
	return "No data found for ticker symbol: " + symbol
}

// Collect runs one request. Provider failures on the price history abort
// the whole request with an *apperror.AppError; later failures are recorded
// on the affected section only.
func (c *Collector) Collect(ctx context.Context, req Request) (*Dashboard, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, apperror.WithMessage(apperror.ErrInvalidInput, "symbol is required")
	}
	period := req.Period
	if period == "" {
		period = model.DefaultPeriod
	}
	log := logger.Get()

	history, err := c.Fetcher.FetchHistory(ctx, symbol, period)
	if err != nil {
		return nil, boundaryError(symbol, err)
	}
	if len(history) == 0 {
		return nil, boundaryError(symbol, ErrNoData)
	}

	d := &Dashboard{
		Symbol:      symbol,
		Period:      period,
		PeriodLabel: period.Label(),
		GeneratedAt: c.Now().UTC(),
	}

	series, err := calculator.Enrich(history, c.Windows...)
	if err != nil {
		log.Warnf("[%s] series enrichment failed: %v", symbol, err)
		d.SeriesError = err.Error()
	} else {
		d.Series = series
	}

	if req.SeriesOnly {
		return d, nil
	}

	summary, metaErr, err := c.summarize(ctx, symbol, history)
	if err != nil {
		log.Warnf("[%s] quote summary failed: %v", symbol, err)
		d.QuoteError = err.Error()
	} else {
		d.Quote = summary
		if metaErr != nil {
			log.Warnf("[%s] key statistics unavailable: %v", symbol, metaErr)
			d.StatisticsError = metaErr.Error()
		}
	}

	if c.News != nil {
		c.annotate(ctx, symbol, req.NewsLimit, d)
	}

	log.Infof("[%s] dashboard collected: period=%s bars=%d headlines=%d",
		symbol, period, len(history), len(d.Headlines))
	return d, nil
}

// summarize fetches the quote, falling back to the last and second-last
// close when the provider omits a price. metaErr reports a failed
// fundamentals lookup alongside a usable summary.
func (c *Collector) summarize(ctx context.Context, symbol string, history []model.PricePoint) (summary *model.QuoteSummary, metaErr, err error) {
	raw, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch quote: %w", err)
	}

	last, prev, lastOK, prevOK := calculator.LastCloses(history)
	current, previous := raw.CurrentPrice, raw.PreviousClose
	if !current.Valid && lastOK {
		current.SetValid(last)
	}
	if !previous.Valid && prevOK {
		previous.SetValid(prev)
	}
	if !current.Valid {
		return nil, nil, errors.New("current price unavailable")
	}
	if !previous.Valid {
		return nil, nil, errors.New("previous close unavailable")
	}

	cur, err := quote.FromFloat(current.Float64)
	if err != nil {
		return nil, nil, fmt.Errorf("current price: %w", err)
	}
	prv, err := quote.FromFloat(previous.Float64)
	if err != nil {
		return nil, nil, fmt.Errorf("previous close: %w", err)
	}
	summary, err = quote.Summarize(symbol, cur, prv, raw.Metadata)
	if err != nil {
		return nil, nil, err
	}
	return summary, raw.MetadataErr, nil
}

func (c *Collector) annotate(ctx context.Context, symbol string, limit int, d *Dashboard) {
	if limit <= 0 {
		limit = sentiment.DefaultLimit
	}
	headlines, err := c.News.FetchNews(ctx, symbol, limit)
	if err != nil {
		logger.Get().Warnf("[%s] news fetch from %s failed: %v", symbol, c.News.Name(), err)
		d.NewsError = err.Error()
		d.Headlines = []model.AnnotatedHeadline{}
		return
	}

	annotated, skipped := sentiment.Annotate(headlines, limit, c.Scorer)
	for _, s := range skipped {
		logger.Get().Warnf("[%s] headline skipped: %v", symbol, s)
		d.SkippedHeadlines = append(d.SkippedHeadlines, s.Error())
	}
	d.Headlines = annotated
}

// boundaryError maps a provider failure to the client-facing error.
func boundaryError(symbol string, err error) error {
	if errors.Is(err, ErrNoData) {
		appErr := apperror.Wrap(apperror.ErrNoData, err)
		appErr.Message = NoDataMessage(symbol)
		return appErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperror.Wrap(apperror.ErrProvider, err)
}

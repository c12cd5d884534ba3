package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"MarketMind/internal/model"
)

// DefaultYahooBaseURL serves the chart, quoteSummary and search APIs.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// quoteSummaryModules are queried in order; the first module reporting a
// value for a field wins.
var quoteSummaryModules = []string{"price", "summaryDetail", "defaultKeyStatistics", "assetProfile"}

// YahooFetcher implements Fetcher and NewsFetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooFetcher{
		Client:  newHTTPClient(proxyURL, timeout),
		BaseURL: strings.TrimRight(baseURL, "/"),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
				PreviousClose      *float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *yahooError) err() error {
	if e.Code == "Not Found" {
		return fmt.Errorf("yahoo: %s: %w", e.Description, ErrNoData)
	}
	return fmt.Errorf("yahoo api error: %s", e.Description)
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

// get issues a GET and decodes the JSON body into out. Non-200 bodies are
// still decoded so API error envelopes can be surfaced.
func (f *YahooFetcher) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if jerr := json.Unmarshal(body, out); jerr != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
		}
		return fmt.Errorf("yahoo decode: %w", jerr)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, chart.Chart.Error.err()
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrNoData)
	}
	return &chart, nil
}

// FetchHistory returns daily bars for the period, oldest first. Bars with a
// missing price (holidays, halted sessions) are skipped.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, period model.Period) ([]model.PricePoint, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d", string(period))
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrNoData)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.PricePoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, okO := at(quote.Open, i)
		h, okH := at(quote.High, i)
		l, okL := at(quote.Low, i)
		c, okC := at(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		v, _ := at(quote.Volume, i)
		bars = append(bars, model.PricePoint{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(v),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return dedupeTimes(bars), nil
}

// dedupeTimes keeps the last bar for each timestamp. Yahoo repeats the
// live bar during trading hours.
func dedupeTimes(bars []model.PricePoint) []model.PricePoint {
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// FetchQuote reads prices from the chart meta and fundamentals from
// quoteSummary. A failed quoteSummary call keeps the prices and reports the
// failure in MetadataErr.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.RawQuote, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return nil, err
	}
	meta := chart.Chart.Result[0].Meta

	q := &model.RawQuote{
		CurrentPrice:  null.FloatFromPtr(meta.RegularMarketPrice),
		PreviousClose: null.FloatFromPtr(meta.ChartPreviousClose),
	}
	if !q.PreviousClose.Valid {
		q.PreviousClose = null.FloatFromPtr(meta.PreviousClose)
	}

	md, err := f.fetchMetadata(ctx, symbol)
	if err != nil {
		q.Metadata = model.Metadata{}
		q.MetadataErr = fmt.Errorf("yahoo quoteSummary: %w", err)
		return q, nil
	}
	q.Metadata = md
	return q, nil
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []map[string]map[string]json.RawMessage `json:"result"`
		Error  *yahooError                             `json:"error"`
	} `json:"quoteSummary"`
}

func (f *YahooFetcher) fetchMetadata(ctx context.Context, symbol string) (model.Metadata, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), strings.Join(quoteSummaryModules, ","))

	var qs yahooQuoteSummary
	if err := f.get(ctx, u, &qs); err != nil {
		return nil, err
	}
	if qs.QuoteSummary.Error != nil {
		return nil, qs.QuoteSummary.Error.err()
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quoteSummary: %w", ErrNoData)
	}
	return parseMetadata(qs.QuoteSummary.Result[0]), nil
}

// parseMetadata flattens the quoteSummary modules into the fixed field set.
// A key Yahoo reports as null or {} is kept as present-null; a key no
// module reports stays absent.
func parseMetadata(modules map[string]map[string]json.RawMessage) model.Metadata {
	md := model.Metadata{}
	for _, name := range quoteSummaryModules {
		mod, ok := modules[name]
		if !ok {
			continue
		}
		for _, field := range model.Fields {
			raw, ok := mod[string(field)]
			if !ok {
				continue
			}
			if _, p := md.Lookup(field); p == model.PresentValue {
				continue
			}
			md[field] = decodeMetaValue(raw)
		}
	}
	return md
}

func decodeMetaValue(raw json.RawMessage) model.MetaValue {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return model.NullValue()
	}
	switch raw[0] {
	case '{':
		var wrapped struct {
			Raw json.RawMessage `json:"raw"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Raw == nil {
			return model.NullValue()
		}
		return decodeMetaValue(wrapped.Raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.NullValue()
		}
		return model.TextValue(s)
	default:
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return model.NullValue()
		}
		return model.NumberValue(v)
	}
}

type yahooSearch struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
		Link      string `json:"link"`
	} `json:"news"`
}

// FetchNews returns recent headlines from the search API. An empty list is
// not an error.
func (f *YahooFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.Headline, error) {
	q := url.Values{}
	q.Set("q", f.yahooSymbol(symbol))
	q.Set("quotesCount", "0")
	q.Set("newsCount", strconv.Itoa(limit))
	u := fmt.Sprintf("%s/v1/finance/search?%s", f.BaseURL, q.Encode())

	var res yahooSearch
	if err := f.get(ctx, u, &res); err != nil {
		return nil, err
	}
	out := make([]model.Headline, 0, len(res.News))
	for _, n := range res.News {
		out = append(out, model.Headline{Title: n.Title, Link: n.Link, Publisher: n.Publisher})
	}
	return out, nil
}

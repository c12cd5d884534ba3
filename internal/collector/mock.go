package collector

import (
	"context"
	"math"
	"time"

	"github.com/guregu/null/v6"

	"MarketMind/internal/calculator"
	"MarketMind/internal/model"
)

// tradingDays approximates the number of daily bars in each period.
var tradingDays = map[model.Period]int{
	model.Period1M:  21,
	model.Period3M:  63,
	model.Period6M:  126,
	model.Period1Y:  252,
	model.Period5Y:  1260,
	model.PeriodMax: 2520,
}

// MockFetcher returns controllable fixed data for development and testing.
// Unset fields fall back to a deterministic synthetic series.
type MockFetcher struct {
	Price     float64
	History   []model.PricePoint
	Quote     *model.RawQuote
	Headlines []model.Headline
	Err       error
	NewsErr   error
	Now       func() time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MockFetcher) FetchHistory(ctx context.Context, _ string, period model.Period) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.History != nil {
		return m.History, nil
	}
	count, ok := tradingDays[period]
	if !ok {
		now := m.now()
		count = int(now.Sub(period.Start(now)).Hours()/24) + 1
	}
	return generateMockBars(m.basePrice(), count, m.now()), nil
}

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (*model.RawQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quote != nil {
		return m.Quote, nil
	}
	bars := m.History
	if bars == nil {
		bars = generateMockBars(m.basePrice(), tradingDays[model.Period1Y], m.now())
	}
	q := &model.RawQuote{Metadata: model.Metadata{
		model.FieldMarketCap:       model.NumberValue(2.5e12),
		model.FieldTrailingPE:      model.NumberValue(28.4),
		model.FieldDividendYield:   model.NumberValue(0.005),
		model.FieldSector:          model.TextValue("Technology"),
		model.FieldBusinessSummary: model.TextValue("Synthetic company used for development."),
		model.FieldLongName:        model.TextValue("Mock " + symbol + " Inc."),
	}}
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

func (m *MockFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.Headline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.NewsErr != nil {
		return nil, m.NewsErr
	}
	news := m.Headlines
	if news == nil {
		news = []model.Headline{
			{Title: symbol + " shares surge to record highs after strong earnings", Link: "https://example.com/1", Publisher: "Mock Wire"},
			{Title: symbol + " announces annual shareholder meeting date", Link: "https://example.com/2", Publisher: "Mock Wire"},
			{Title: "Analysts warn of weak demand as " + symbol + " faces lawsuit", Link: "https://example.com/3", Publisher: "Mock Daily"},
		}
	}
	if limit > 0 && len(news) > limit {
		news = news[:limit]
	}
	return news, nil
}

func (m *MockFetcher) basePrice() float64 {
	if m.Price > 0 {
		return m.Price
	}
	return 100
}

// generateMockBars builds count daily bars ending the day before end.
func generateMockBars(basePrice float64, count int, end time.Time) []model.PricePoint {
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	bars := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.08*math.Sin(float64(i)/15) + 0.0005*float64(i))
		bars[i] = model.PricePoint{
			Time:   day.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + int64(i%7)*25000,
		}
	}
	return bars
}

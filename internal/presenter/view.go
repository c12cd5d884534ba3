package presenter

import (
	"MarketMind/internal/collector"
	"MarketMind/internal/model"
)

// Metric is the header price block.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta"`
}

// NewsItem is one formatted headline.
type NewsItem struct {
	Heading   string `json:"heading"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
	Sentiment string `json:"sentiment"`
	Label     string `json:"label"`
	Polarity  string `json:"polarity"`
}

// View is the display model for one dashboard. Sections that failed carry
// their message in Errors under "chart", "quote", "statistics" or "news".
type View struct {
	Title       string            `json:"title"`
	Period      string            `json:"period"`
	ChartTitle  string            `json:"chartTitle"`
	Metric      *Metric           `json:"metric,omitempty"`
	Statistics  []Stat            `json:"statistics,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	News        []NewsItem        `json:"news"`
	NewsMessage string            `json:"newsMessage,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// NewView formats d for display.
func NewView(d *collector.Dashboard) *View {
	v := &View{
		Title:      d.Symbol,
		Period:     d.PeriodLabel,
		ChartTitle: d.Symbol + " Price Chart",
		News:       make([]NewsItem, 0, len(d.Headlines)),
		Errors:     map[string]string{},
	}

	if d.SeriesError != "" {
		v.Errors["chart"] = d.SeriesError
	}

	if q := d.Quote; q != nil {
		v.Title = q.DisplayName + " (" + d.Symbol + ")"
		v.Metric = &Metric{Label: "Current Price", Value: Price(q.CurrentPrice), Delta: Delta(q)}
		v.Statistics = Statistics(q)
		v.Summary = Summary(q)
		if d.StatisticsError != "" {
			v.Errors["statistics"] = d.StatisticsError
		}
	} else if d.QuoteError != "" {
		v.Errors["quote"] = d.QuoteError
	}

	for _, h := range d.Headlines {
		v.News = append(v.News, newsItem(h))
	}
	switch {
	case d.NewsError != "":
		v.Errors["news"] = d.NewsError
	case len(v.News) == 0:
		v.NewsMessage = NoNews
	}

	if len(v.Errors) == 0 {
		v.Errors = nil
	}
	return v
}

func newsItem(h model.AnnotatedHeadline) NewsItem {
	heading := h.Title
	if h.Publisher != "" {
		heading += " - " + h.Publisher
	}
	return NewsItem{
		Heading:   heading,
		Title:     h.Title,
		Publisher: h.Publisher,
		Link:      h.Link,
		Sentiment: SentimentLine(h),
		Label:     h.Label.String(),
		Polarity:  Polarity(h.Polarity),
	}
}

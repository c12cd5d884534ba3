package presenter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"MarketMind/internal/collector"
)

// WriteReport renders d as a plain-text report.
func WriteReport(w io.Writer, d *collector.Dashboard) error {
	v := NewView(d)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s | %s\n", v.Title, v.Period))
	if v.Metric != nil {
		b.WriteString(fmt.Sprintf("%s: %s / %s\n", v.Metric.Label, v.Metric.Value, v.Metric.Delta))
	}
	b.WriteString("\n")

	b.WriteString("== Chart ==\n")
	if msg, ok := v.Errors["chart"]; ok {
		b.WriteString("error: " + msg + "\n")
	} else if d.Series != nil && d.Series.Len() > 0 {
		last := d.Series.Points[d.Series.Len()-1]
		b.WriteString(fmt.Sprintf("bars: %d  last: %s  close: %s  volume: %s\n",
			d.Series.Len(), last.Time.Format("2006-01-02"),
			money(decimal.NewFromFloat(last.Close)), humanize.Comma(last.Volume)))
		for k, win := range d.Series.Windows {
			b.WriteString(fmt.Sprintf("SMA %d: %s\n", win, Number(roundNull(last.SMA[k]))))
		}
	}
	b.WriteString("\n")

	b.WriteString("== Key Statistics ==\n")
	if msg, ok := v.Errors["quote"]; ok {
		b.WriteString("error: " + msg + "\n")
	} else {
		if msg, ok := v.Errors["statistics"]; ok {
			b.WriteString("error: " + msg + "\n")
		}
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, s := range v.Statistics {
			fmt.Fprintf(tw, "%s:\t%s\n", s.Label, s.Value)
		}
		tw.Flush()
		b.WriteString("\n== Company Summary ==\n" + v.Summary + "\n")
	}
	b.WriteString("\n")

	b.WriteString("== Latest News & Sentiment ==\n")
	if msg, ok := v.Errors["news"]; ok {
		b.WriteString("error: " + msg + "\n")
	}
	if v.NewsMessage != "" {
		b.WriteString(v.NewsMessage + "\n")
	}
	for _, n := range v.News {
		b.WriteString(fmt.Sprintf("- %s\n  Sentiment: %s\n  %s\n", n.Heading, n.Sentiment, n.Link))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

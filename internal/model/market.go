package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
)

// PricePoint represents a single daily OHLCV bar.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// EnrichedPoint is a PricePoint plus one moving average per series window.
// SMA[k] belongs to EnrichedSeries.Windows[k].
type EnrichedPoint struct {
	PricePoint
	SMA []null.Float
}

// EnrichedSeries holds a chronologically ordered series with trailing
// simple moving averages.
type EnrichedSeries struct {
	Windows []int
	Points  []EnrichedPoint
}

// Len returns the number of points in the series.
func (s EnrichedSeries) Len() int { return len(s.Points) }

// SMA returns the moving average for window w at index i. The result is
// invalid when the window was not requested or has too few samples.
func (s EnrichedSeries) SMA(w, i int) null.Float {
	for k, win := range s.Windows {
		if win == w {
			return s.Points[i].SMA[k]
		}
	}
	return null.Float{}
}

// Column returns the moving average column for window w.
func (s EnrichedSeries) Column(w int) []null.Float {
	col := make([]null.Float, len(s.Points))
	for i := range s.Points {
		col[i] = s.SMA(w, i)
	}
	return col
}

func (p EnrichedPoint) marshalWith(windows []int) map[string]any {
	m := map[string]any{
		"time":   p.Time.Format("2006-01-02"),
		"open":   p.Open,
		"high":   p.High,
		"low":    p.Low,
		"close":  p.Close,
		"volume": p.Volume,
	}
	for k, w := range windows {
		m[fmt.Sprintf("sma%d", w)] = p.SMA[k]
	}
	return m
}

// MarshalJSON flattens each point so averages appear as "sma50", "sma200".
func (s EnrichedSeries) MarshalJSON() ([]byte, error) {
	points := make([]map[string]any, len(s.Points))
	for i, p := range s.Points {
		points[i] = p.marshalWith(s.Windows)
	}
	return json.Marshal(struct {
		Windows []int            `json:"windows"`
		Points  []map[string]any `json:"points"`
	}{Windows: s.Windows, Points: points})
}

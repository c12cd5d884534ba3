// Package export writes enriched series to Parquet.
package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"MarketMind/internal/model"
)

// ContentType is the media type served for Parquet downloads.
const ContentType = "application/vnd.apache.parquet"

// SMAValue is one moving average cell. Value is null before the window fills.
type SMAValue struct {
	Window int32    `parquet:"window"`
	Value  *float64 `parquet:"value,optional"`
}

// BarRecord is the Parquet schema for one enriched daily bar.
type BarRecord struct {
	Symbol    string     `parquet:"symbol"`
	Timestamp int64      `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64    `parquet:"open"`
	High      float64    `parquet:"high"`
	Low       float64    `parquet:"low"`
	Close     float64    `parquet:"close"`
	Volume    int64      `parquet:"volume"`
	SMA       []SMAValue `parquet:"sma"`
}

// Records flattens a series into Parquet rows.
func Records(symbol string, s *model.EnrichedSeries) []BarRecord {
	rows := make([]BarRecord, len(s.Points))
	for i, p := range s.Points {
		smas := make([]SMAValue, len(s.Windows))
		for k, w := range s.Windows {
			smas[k] = SMAValue{Window: int32(w), Value: p.SMA[k].Ptr()}
		}
		rows[i] = BarRecord{
			Symbol:    symbol,
			Timestamp: p.Time.UnixMilli(),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
			SMA:       smas,
		}
	}
	return rows
}

// WriteSeries streams the series to w as a single Parquet file.
func WriteSeries(w io.Writer, symbol string, s *model.EnrichedSeries) error {
	pw := parquet.NewGenericWriter[BarRecord](w)
	if _, err := pw.Write(Records(symbol, s)); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

package calculator

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"MarketMind/internal/model"
)

func makeSeries(n int) []model.PricePoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i%17) + float64(i)*0.25
		pts[i] = model.PricePoint{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: int64(1000 + i),
		}
	}
	return pts
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func TestSMAColumn(t *testing.T) {
	tests := []struct {
		name    string
		prices  []float64
		period  int
		want    []float64 // NaN marks a null entry
		wantErr bool
	}{
		{"exact window", []float64{1, 2, 3}, 3, []float64{math.NaN(), math.NaN(), 2}, false},
		{"trailing window", []float64{1, 2, 3, 4, 5}, 2, []float64{math.NaN(), 1.5, 2.5, 3.5, 4.5}, false},
		{"not enough data", []float64{1, 2}, 3, []float64{math.NaN(), math.NaN()}, false},
		{"zero period", []float64{1, 2}, 0, nil, true},
	}
	for _, tt := range tests {
		got, err := SMAColumn(tt.prices, tt.period)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %d values, want %d", tt.name, len(got), len(tt.want))
			continue
		}
		for i, w := range tt.want {
			if math.IsNaN(w) {
				if got[i].Valid {
					t.Errorf("%s: [%d] = %v, want null", tt.name, i, got[i].Float64)
				}
				continue
			}
			if !got[i].Valid || got[i].Float64 != w {
				t.Errorf("%s: [%d] = %v, want %v", tt.name, i, got[i], w)
			}
		}
	}
}

func TestEnrich_LongSeriesMatchesDirectMean(t *testing.T) {
	series := makeSeries(5000)
	es, err := Enrich(series)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	closes := extractCloses(series)
	for _, i := range []int{199, 1000, 2500, 4999} {
		want := mean(closes[i-199 : i+1])
		if got := es.SMA(200, i); math.Abs(got.Float64-want) > 1e-9 {
			t.Errorf("sma200[%d] = %v, want %v", i, got.Float64, want)
		}
	}
}

func TestEnrich_DefaultWindows(t *testing.T) {
	series := makeSeries(260)
	es, err := Enrich(series)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if es.Len() != len(series) {
		t.Fatalf("expected %d points, got %d", len(series), es.Len())
	}
	if !reflect.DeepEqual(es.Windows, []int{50, 200}) {
		t.Fatalf("expected windows [50 200], got %v", es.Windows)
	}

	closes := extractCloses(series)
	for _, w := range []int{50, 200} {
		for i := range series {
			v := es.SMA(w, i)
			if i < w-1 {
				if v.Valid {
					t.Fatalf("sma%d[%d] should be null, got %v", w, i, v.Float64)
				}
				continue
			}
			if !v.Valid {
				t.Fatalf("sma%d[%d] should be defined", w, i)
			}
			want := mean(closes[i-w+1 : i+1])
			if math.Abs(v.Float64-want) > 1e-9 {
				t.Fatalf("sma%d[%d] = %v, want %v", w, i, v.Float64, want)
			}
		}
	}
}

func TestEnrich_Empty(t *testing.T) {
	es, err := Enrich(nil)
	if err != nil {
		t.Fatalf("expected no error for empty series, got %v", err)
	}
	if es.Len() != 0 {
		t.Errorf("expected empty series, got %d points", es.Len())
	}
}

func TestEnrich_ShortSeriesAllNull(t *testing.T) {
	es, err := Enrich(makeSeries(10), 50)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	for i, v := range es.Column(50) {
		if v.Valid {
			t.Errorf("sma50[%d] should be null for a 10-point series", i)
		}
	}
}

func TestEnrich_CustomWindowsSortedAndDeduped(t *testing.T) {
	es, err := Enrich(makeSeries(5), 3, 2, 3)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !reflect.DeepEqual(es.Windows, []int{2, 3}) {
		t.Fatalf("expected windows [2 3], got %v", es.Windows)
	}
	if es.SMA(7, 4).Valid {
		t.Error("unrequested window should be null")
	}
}

func TestEnrich_InvalidWindow(t *testing.T) {
	_, err := Enrich(makeSeries(5), 0)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestEnrich_DataIntegrity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]model.PricePoint)
		index  int
	}{
		{"duplicate timestamp", func(p []model.PricePoint) { p[3].Time = p[2].Time }, 3},
		{"descending timestamp", func(p []model.PricePoint) { p[4].Time = p[0].Time }, 4},
		{"NaN close", func(p []model.PricePoint) { p[1].Close = math.NaN() }, 1},
		{"infinite high", func(p []model.PricePoint) { p[2].High = math.Inf(1) }, 2},
		{"negative low", func(p []model.PricePoint) { p[0].Low = -1 }, 0},
		{"negative volume", func(p []model.PricePoint) { p[5].Volume = -10 }, 5},
	}
	for _, tt := range tests {
		series := makeSeries(8)
		tt.mutate(series)
		_, err := Enrich(series)
		var die *model.DataIntegrityError
		if !errors.As(err, &die) {
			t.Errorf("%s: expected DataIntegrityError, got %v", tt.name, err)
			continue
		}
		if die.Index != tt.index {
			t.Errorf("%s: index = %d, want %d", tt.name, die.Index, tt.index)
		}
	}
}

func TestEnrich_Idempotent(t *testing.T) {
	series := makeSeries(230)
	a, err := Enrich(series)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Enrich(series)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Enrich is not deterministic for identical input")
	}
}

package calculator

import (
	"fmt"
	"math"
	"sort"

	"github.com/guregu/null/v6"

	"MarketMind/internal/model"
)

// Enrich attaches a trailing simple moving average of Close for every window.
// With no windows given, DefaultWindows is used. A point gets a value for
// window w only once w points exist up to and including it.
func Enrich(series []model.PricePoint, windows ...int) (*model.EnrichedSeries, error) {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	wins, err := normalizeWindows(windows)
	if err != nil {
		return nil, err
	}
	if err := Validate(series); err != nil {
		return nil, err
	}

	closes := extractCloses(series)
	cols := make([][]null.Float, len(wins))
	for k, w := range wins {
		col, err := SMAColumn(closes, w)
		if err != nil {
			return nil, fmt.Errorf("sma%d: %w", w, err)
		}
		cols[k] = col
	}

	out := &model.EnrichedSeries{
		Windows: wins,
		Points:  make([]model.EnrichedPoint, len(series)),
	}
	for i, p := range series {
		smas := make([]null.Float, len(wins))
		for k := range wins {
			smas[k] = cols[k][i]
		}
		out.Points[i] = model.EnrichedPoint{PricePoint: p, SMA: smas}
	}
	return out, nil
}

// normalizeWindows sorts and de-duplicates the requested windows.
func normalizeWindows(windows []int) ([]int, error) {
	seen := make(map[int]bool, len(windows))
	out := make([]int, 0, len(windows))
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("window %d: %w", w, ErrInvalidWindow)
		}
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	sort.Ints(out)
	return out, nil
}

// Validate checks that timestamps strictly increase and that every price is
// a finite positive number with a non-negative volume.
func Validate(series []model.PricePoint) error {
	for i, p := range series {
		if i > 0 && !p.Time.After(series[i-1].Time) {
			return &model.DataIntegrityError{Index: i, Reason: "timestamps not strictly ascending"}
		}
		for _, f := range []struct {
			name string
			v    float64
		}{{"open", p.Open}, {"high", p.High}, {"low", p.Low}, {"close", p.Close}} {
			if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
				return &model.DataIntegrityError{Index: i, Reason: f.name + " is not a finite number"}
			}
			if f.v <= 0 {
				return &model.DataIntegrityError{Index: i, Reason: fmt.Sprintf("%s must be positive, got %g", f.name, f.v)}
			}
		}
		if p.Volume < 0 {
			return &model.DataIntegrityError{Index: i, Reason: fmt.Sprintf("negative volume %d", p.Volume)}
		}
	}
	return nil
}

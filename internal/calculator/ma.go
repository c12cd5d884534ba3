package calculator

import (
	"errors"

	"github.com/guregu/null/v6"

	"MarketMind/internal/model"
)

// DefaultWindows are the moving averages drawn on the price chart.
var DefaultWindows = []int{50, 200}

// ErrInvalidWindow is returned for a non-positive moving average window.
var ErrInvalidWindow = errors.New("window must be positive")

// SMAColumn computes the trailing simple moving average at every index of
// prices with a single running sum. Indices with fewer than period samples
// are null.
func SMAColumn(prices []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, ErrInvalidWindow
	}
	out := make([]null.Float, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i+1 >= period {
			out[i] = null.FloatFrom(sum / float64(period))
		}
	}
	return out, nil
}

func extractCloses(points []model.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}

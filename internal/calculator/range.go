package calculator

import (
	"errors"
	"math"

	"MarketMind/internal/model"
)

// tradingDaysPerYear approximates 52 weeks of daily bars.
const tradingDaysPerYear = 252

// Calculate52WeekRange scans the most recent 252 bars and returns the high and low.
func Calculate52WeekRange(points []model.PricePoint) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	n := len(points)
	start := n - tradingDaysPerYear
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if points[i].High > high {
			high = points[i].High
		}
		if points[i].Low < low {
			low = points[i].Low
		}
	}
	return high, low, nil
}

// LastCloses returns the final close and the one before it. ok reports
// whether each exists.
func LastCloses(points []model.PricePoint) (last, prev float64, lastOK, prevOK bool) {
	n := len(points)
	if n >= 1 {
		last, lastOK = points[n-1].Close, true
	}
	if n >= 2 {
		prev, prevOK = points[n-2].Close, true
	}
	return
}

package model

import (
	"fmt"
	"time"
)

// Period is a dashboard time window, using the provider's range codes.
type Period string

const (
	Period1M  Period = "1mo"
	Period3M  Period = "3mo"
	Period6M  Period = "6mo"
	PeriodYTD Period = "ytd"
	Period1Y  Period = "1y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"
)

// DefaultPeriod is preselected when a request does not name a period.
const DefaultPeriod = Period1Y

// Periods lists the selectable windows in display order.
var Periods = []Period{Period1M, Period3M, Period6M, PeriodYTD, Period1Y, Period5Y, PeriodMax}

var periodLabels = map[Period]string{
	Period1M:  "1 Month",
	Period3M:  "3 Months",
	Period6M:  "6 Months",
	PeriodYTD: "YTD",
	Period1Y:  "1 Year",
	Period5Y:  "5 Years",
	PeriodMax: "Max",
}

// ParsePeriod accepts either a range code ("1y") or a display label ("1 Year").
// An empty string yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, p := range Periods {
		if string(p) == s || periodLabels[p] == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Label returns the human readable name, e.g. "6 Months".
func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return string(p)
}

// Start returns the first calendar day covered by the period ending at now.
// PeriodMax returns the zero time.
func (p Period) Start(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case Period1M:
		return day.AddDate(0, -1, 0)
	case Period3M:
		return day.AddDate(0, -3, 0)
	case Period6M:
		return day.AddDate(0, -6, 0)
	case PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case Period5Y:
		return day.AddDate(-5, 0, 0)
	case PeriodMax:
		return time.Time{}
	default:
		return day.AddDate(-1, 0, 0)
	}
}

package model

import "github.com/guregu/null/v6"

// IndicatorResult holds the indicator series computed over a BarSeries.
// A nil series means the indicator is absent (disabled or not enough data).
// Series entries are aligned to the bars; entries before the window fills are null.
type IndicatorResult struct {
	MA       []null.Float
	MAWindow int
	RSI      []null.Float
}

// HasMA reports whether a moving-average series is present.
func (r IndicatorResult) HasMA() bool { return r.MA != nil }

// HasRSI reports whether an RSI series is present.
func (r IndicatorResult) HasRSI() bool { return r.RSI != nil }

// Last returns the final entry of a series, if any.
func Last(series []null.Float) null.Float {
	if len(series) == 0 {
		return null.Float{}
	}
	return series[len(series)-1]
}

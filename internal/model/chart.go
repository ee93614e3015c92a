package model

import "errors"

// ErrInvalidPeriod is returned for a chart period that is not offered.
var ErrInvalidPeriod = errors.New("invalid chart period")

// ChartPeriod is the history window shown on the chart.
type ChartPeriod string

const (
	Period1D ChartPeriod = "1d"
	Period5D ChartPeriod = "5d"
	Period1W ChartPeriod = "1wk"
	Period1M ChartPeriod = "1mo"
	Period3M ChartPeriod = "3mo"
	Period1Y ChartPeriod = "1y"
	Period5Y ChartPeriod = "5y"
)

// ChartPeriods lists the periods offered by the chart controls.
var ChartPeriods = []ChartPeriod{Period1D, Period1W, Period1M, Period3M, Period1Y, Period5Y}

// Valid reports whether p is a known chart period.
func (p ChartPeriod) Valid() bool {
	switch p {
	case Period1D, Period5D, Period1W, Period1M, Period3M, Period1Y, Period5Y:
		return true
	}
	return false
}

// ChartOptions selects what the chart shows.
type ChartOptions struct {
	Period  ChartPeriod
	ShowMA  bool
	ShowRSI bool
}

// BarRequest is the provider-level range/interval pair for a bar fetch.
type BarRequest struct {
	Range    string
	Interval string
}

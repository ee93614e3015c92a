package model

import (
	"errors"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// Unavailable is the placeholder shown for any missing value.
const Unavailable = "N/A"

// ErrEmptySymbol is returned when a symbol input is blank.
var ErrEmptySymbol = errors.New("please enter a stock symbol")

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", ErrEmptySymbol
	}
	return s, nil
}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSeries is a chronologically ordered set of bars for one symbol/period/interval.
type BarSeries struct {
	Symbol   string
	Period   ChartPeriod
	Interval string
	Bars     []OHLCV
}

// Closes returns the closing prices in bar order.
func (s BarSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Len returns the number of bars.
func (s BarSeries) Len() int { return len(s.Bars) }

// Quote is a point-in-time snapshot of a security. Any field may be unavailable.
type Quote struct {
	Symbol        string
	LongName      null.String
	CurrentPrice  null.Float
	PreviousClose null.Float
	MarketCap     null.Float
	PERatio       null.Float
	PEGRatio      null.Float
	ProfitMargin  null.Float
	DebtToEquity  null.Float
}

// Change returns the absolute and percentage move against the previous close.
func (q Quote) Change() (change, pct float64, ok bool) {
	if !q.CurrentPrice.Valid || !q.PreviousClose.Valid || q.PreviousClose.Float64 == 0 {
		return 0, 0, false
	}
	change = q.CurrentPrice.Float64 - q.PreviousClose.Float64
	return change, change / q.PreviousClose.Float64 * 100, true
}

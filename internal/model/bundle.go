package model

import "time"

// Bundle is everything displayed for the active symbol. It is built by one
// refresh and replaced as a whole; a Bundle is never modified after install.
type Bundle struct {
	Version    uint64
	Symbol     string
	Options    ChartOptions
	Quote      Quote
	Bars       BarSeries
	Indicators IndicatorResult
	Verdict    Verdict
	FetchedAt  time.Time
}

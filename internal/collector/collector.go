package collector

import (
	"context"
	"sort"
	"time"

	"StockAdvisor/internal/model"
)

// Regular session bounds applied to intraday bars.
const (
	sessionOpen  = 9*60 + 30
	sessionClose = 16 * 60
)

// Collector maps chart periods to provider requests and fetches through a Fetcher.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// RequestFor returns the provider request for a chart period and whether
// bars must be restricted to the regular session.
func RequestFor(period model.ChartPeriod) (req model.BarRequest, sessionOnly bool) {
	switch period {
	case model.Period1D:
		return model.BarRequest{Range: "1d", Interval: "5m"}, true
	case model.Period1W, model.Period5D:
		return model.BarRequest{Range: "5d", Interval: "60m"}, false
	default:
		return model.BarRequest{Range: string(period), Interval: "1d"}, false
	}
}

// Quote fetches the current quote for symbol.
func (c *Collector) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	q, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return model.Quote{}, &FetchError{Symbol: symbol, Op: "quote", Err: err}
	}
	q.Symbol = symbol
	return q, nil
}

// Bars fetches the bar series for symbol over period.
func (c *Collector) Bars(ctx context.Context, symbol string, period model.ChartPeriod) (model.BarSeries, error) {
	req, sessionOnly := RequestFor(period)
	bars, err := c.Fetcher.FetchBars(ctx, symbol, req)
	if err != nil {
		return model.BarSeries{}, &FetchError{Symbol: symbol, Op: "bars", Err: err}
	}
	if sessionOnly {
		bars = filterSession(bars)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return model.BarSeries{
		Symbol:   symbol,
		Period:   period,
		Interval: req.Interval,
		Bars:     bars,
	}, nil
}

// filterSession keeps bars stamped 09:30–16:00 inclusive in the bar's own location.
func filterSession(bars []model.OHLCV) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if inSession(b.Time) {
			out = append(out, b)
		}
	}
	return out
}

func inSession(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	if m == sessionClose {
		return t.Second() == 0 && t.Nanosecond() == 0
	}
	return m >= sessionOpen && m < sessionClose
}

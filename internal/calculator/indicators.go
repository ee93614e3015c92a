package calculator

import "StockAdvisor/internal/model"

// Compute builds the indicator set the chart options ask for.
func Compute(closes []float64, opts model.ChartOptions, maWindow, rsiWindow int) model.IndicatorResult {
	var res model.IndicatorResult
	if opts.ShowMA {
		if series, eff, ok := MovingAverage(closes, maWindow); ok {
			res.MA = series
			res.MAWindow = eff
		}
	}
	if opts.ShowRSI {
		if series, ok := RSI(closes, rsiWindow); ok {
			res.RSI = series
		}
	}
	return res
}

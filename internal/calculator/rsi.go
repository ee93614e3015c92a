package calculator

import (
	"github.com/guregu/null/v6"
)

// DefaultRSIWindow is the RSI lookback.
const DefaultRSIWindow = 14

// RSI computes the relative strength index over a rolling window of
// closing-price deltas, using simple means of gains and losses.
// The first window entries are null. ok is false when len(prices) <= window.
// Flat prices yield 50; a window with gains and no losses yields 100.
func RSI(prices []float64, window int) ([]null.Float, bool) {
	if window <= 0 || len(prices) <= window {
		return nil, false
	}

	series := make([]null.Float, len(prices))
	for i := window; i < len(prices); i++ {
		var gain, loss float64
		for j := i - window + 1; j <= i; j++ {
			change := prices[j] - prices[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change
			}
		}
		gain /= float64(window)
		loss /= float64(window)
		series[i] = null.FloatFrom(rsiValue(gain, loss))
	}
	return series, true
}

func rsiValue(gain, loss float64) float64 {
	switch {
	case gain == 0 && loss == 0:
		return 50.0
	case loss == 0:
		return 100.0
	}
	rs := gain / loss
	return 100.0 - 100.0/(1.0+rs)
}

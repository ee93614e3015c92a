package calculator

import (
	"github.com/guregu/null/v6"
)

// DefaultMAWindow is the moving-average window used by the chart.
const DefaultMAWindow = 50

// EffectiveWindow shrinks the requested window for short series:
// when there are not more points than the window, half the length is used.
func EffectiveWindow(n, window int) int {
	if n <= window {
		return n / 2
	}
	return window
}

// MovingAverage computes a rolling simple moving average aligned to prices.
// Entries before the window fills are null. ok is false when the effective
// window is 1 or less, in which case no series is produced.
func MovingAverage(prices []float64, window int) (series []null.Float, effective int, ok bool) {
	effective = EffectiveWindow(len(prices), window)
	if effective <= 1 {
		return nil, effective, false
	}

	series = make([]null.Float, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= effective {
			sum -= prices[i-effective]
		}
		if i >= effective-1 {
			series[i] = null.FloatFrom(sum / float64(effective))
		}
	}
	return series, effective, true
}

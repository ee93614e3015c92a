package ui

import (
	"math"
	"strings"

	"StockAdvisor/internal/calculator"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// resample picks width evenly spaced values, keeping the last one.
func resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = values[(i+1)*len(values)/width-1]
	}
	return out
}

// sparkline renders values scaled into [low, high] as one row of block characters.
func sparkline(values []float64, width int, high, low float64) string {
	values = resample(values, width)
	var b strings.Builder
	for _, v := range values {
		pos := calculator.Position(v, high, low)
		b.WriteRune(sparkLevels[int(math.Round(pos*float64(len(sparkLevels)-1)))])
	}
	return b.String()
}

// priceBounds is the shared vertical scale of the price and MA rows.
func priceBounds(closes, ma []float64) (high, low float64, ok bool) {
	all := make([]float64, 0, len(closes)+len(ma))
	all = append(all, closes...)
	all = append(all, ma...)
	return calculator.Range(all)
}

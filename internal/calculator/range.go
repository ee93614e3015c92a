package calculator

import (
	"math"

	"github.com/guregu/null/v6"
)

// Range returns the high and low of the values. ok is false for an empty slice.
func Range(values []float64) (high, low float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, true
}

// Position returns where v sits within [low, high] as 0.0~1.0.
func Position(v, high, low float64) float64 {
	if high == low {
		return 0.5
	}
	pos := (v - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}

// Valid drops the null entries of a series.
func Valid(series []null.Float) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

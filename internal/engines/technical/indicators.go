package technical

import "math"

// rollingMean computes the simple moving average over window. Positions
// before the window fills, and windows containing NaN, yield NaN.
func rollingMean(values []float64, window int) Series {
	return rollingApply(values, window, func(w []float64) float64 {
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})
}

// rollingStd computes the rolling sample standard deviation over window.
func rollingStd(values []float64, window int) Series {
	return rollingApply(values, window, func(w []float64) float64 {
		if len(w) < 2 {
			return math.NaN()
		}
		mean := 0.0
		for _, v := range w {
			mean += v
		}
		mean /= float64(len(w))
		sumSq := 0.0
		for _, v := range w {
			d := v - mean
			sumSq += d * d
		}
		return math.Sqrt(sumSq / float64(len(w)-1))
	})
}

// rollingMin computes the rolling minimum over window.
func rollingMin(values []float64, window int) Series {
	return rollingApply(values, window, func(w []float64) float64 {
		min := w[0]
		for _, v := range w[1:] {
			if v < min {
				min = v
			}
		}
		return min
	})
}

// rollingMax computes the rolling maximum over window.
func rollingMax(values []float64, window int) Series {
	return rollingApply(values, window, func(w []float64) float64 {
		max := w[0]
		for _, v := range w[1:] {
			if v > max {
				max = v
			}
		}
		return max
	})
}

func rollingApply(values []float64, window int, fn func([]float64) float64) Series {
	out := make(Series, len(values))
	for i := range values {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		w := values[i+1-window : i+1]
		if hasNaN(w) {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(w)
	}
	return out
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// ema computes the exponential moving average with smoothing 2/(period+1)
// and no bias adjustment: the series is seeded with the first value.
func ema(values []float64, period int) Series {
	out := make(Series, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// diff returns element-to-element deltas; position 0 is NaN.
func diff(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// rsi computes the 14-period relative strength index from close prices.
// RS is a plain IEEE division: a zero-loss window yields +Inf RS and an RSI
// of 100; a flat window yields NaN. Neither case panics.
func rsi(closes []float64, window int) Series {
	deltas := diff(closes)
	gains := make([]float64, len(deltas))
	losses := make([]float64, len(deltas))
	for i, d := range deltas {
		switch {
		case math.IsNaN(d):
			gains[i], losses[i] = math.NaN(), math.NaN()
		case d > 0:
			gains[i], losses[i] = d, 0
		default:
			gains[i], losses[i] = 0, -d
		}
	}

	avgGain := rollingMean(gains, window)
	avgLoss := rollingMean(losses, window)

	out := make(Series, len(closes))
	for i := range out {
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// trueRange computes the per-row true range. The first row has no previous
// close, so its range is simply high-low.
func trueRange(high, low, closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		hl := high[i] - low[i]
		if i == 0 {
			out[i] = hl
			continue
		}
		hc := math.Abs(high[i] - closes[i-1])
		lc := math.Abs(low[i] - closes[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// obv computes on-balance volume: cumulative volume signed by the direction
// of the close-to-close change. The first row contributes zero.
func obv(closes, volume []float64) Series {
	out := make(Series, len(closes))
	total := 0.0
	for i := range closes {
		if i > 0 {
			switch {
			case closes[i] > closes[i-1]:
				total += volume[i]
			case closes[i] < closes[i-1]:
				total -= volume[i]
			}
		}
		out[i] = total
	}
	return out
}

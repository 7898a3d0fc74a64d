// Package technical computes price-series indicators over OHLCV rows.
// The engine is pure and stateless: rows in, aligned indicator series out.
// Rows are processed in the order supplied; the engine never resorts them.
package technical

import (
	"fmt"
	"strings"
)

// Windows for the moving-average family.
var maPeriods = []int{5, 10, 20, 60}

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	rsiWindow = 14

	bollWindow = 20
	bollWidth  = 2.0

	atrWindow = 14

	stochKWindow = 14
	stochDWindow = 3
)

// Result carries computed indicators plus the aligned period-label axis.
// Error is set only when the whole call is unusable (missing OHLC columns);
// a failing individual indicator is reported inside Indicators instead.
type Result struct {
	Indicators map[string]any `json:"indicators,omitempty"`
	Dates      []string       `json:"dates,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Compute calculates the requested indicators over the supplied price rows.
// Indicator names are matched case-insensitively; unknown names are skipped.
// One indicator failing for lack of a column never aborts its siblings.
func Compute(rows []map[string]any, indicators []string) Result {
	f, err := newFrame(rows)
	if err != nil {
		return Result{Error: err.Error()}
	}

	out := Result{
		Indicators: make(map[string]any, len(indicators)),
		Dates:      f.dates,
	}

	for _, name := range indicators {
		key := strings.ToUpper(name)
		switch key {
		case "MA":
			if missing := f.missing("close"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			closes := f.column("close")
			ma := make(map[string]Series, len(maPeriods))
			for _, p := range maPeriods {
				ma[fmt.Sprintf("MA%d", p)] = rollingMean(closes, p)
			}
			out.Indicators[key] = ma

		case "EMA":
			if missing := f.missing("close"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			closes := f.column("close")
			emas := make(map[string]Series, len(maPeriods))
			for _, p := range maPeriods {
				emas[fmt.Sprintf("EMA%d", p)] = ema(closes, p)
			}
			out.Indicators[key] = emas

		case "MACD":
			if missing := f.missing("close"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			closes := f.column("close")
			fast := ema(closes, macdFast)
			slow := ema(closes, macdSlow)
			macdLine := make(Series, len(closes))
			for i := range macdLine {
				macdLine[i] = fast[i] - slow[i]
			}
			signal := ema(macdLine, macdSignal)
			histogram := make(Series, len(closes))
			for i := range histogram {
				histogram[i] = macdLine[i] - signal[i]
			}
			out.Indicators[key] = map[string]Series{
				"macd_line":   macdLine,
				"signal_line": signal,
				"histogram":   histogram,
			}

		case "RSI":
			if missing := f.missing("close"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			out.Indicators[key] = rsi(f.column("close"), rsiWindow)

		case "BOLLINGER":
			if missing := f.missing("close"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			closes := f.column("close")
			middle := rollingMean(closes, bollWindow)
			std := rollingStd(closes, bollWindow)
			upper := make(Series, len(closes))
			lower := make(Series, len(closes))
			for i := range middle {
				upper[i] = middle[i] + bollWidth*std[i]
				lower[i] = middle[i] - bollWidth*std[i]
			}
			out.Indicators[key] = map[string]Series{
				"middle_band": middle,
				"upper_band":  upper,
				"lower_band":  lower,
			}

		case "ATR":
			if missing := f.missing("high", "low", "close"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			tr := trueRange(f.column("high"), f.column("low"), f.column("close"))
			out.Indicators[key] = rollingMean(tr, atrWindow)

		case "STOCHASTIC":
			if missing := f.missing("high", "low", "close"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			closes := f.column("close")
			lowMin := rollingMin(f.column("low"), stochKWindow)
			highMax := rollingMax(f.column("high"), stochKWindow)
			k := make(Series, len(closes))
			for i := range k {
				k[i] = 100 * (closes[i] - lowMin[i]) / (highMax[i] - lowMin[i])
			}
			out.Indicators[key] = map[string]Series{
				"k_line": k,
				"d_line": rollingMean(k, stochDWindow),
			}

		case "OBV":
			if missing := f.missing("close", "volume"); missing != "" {
				out.Indicators[key] = columnError(missing)
				continue
			}
			out.Indicators[key] = obv(f.column("close"), f.column("volume"))
		}
	}

	return out
}

// columnError is the per-indicator error note used when a single indicator
// cannot be computed from the resolved columns.
func columnError(column string) map[string]any {
	return map[string]any{"error": fmt.Sprintf("%s data not available", column)}
}

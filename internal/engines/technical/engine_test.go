package technical

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRows creates price rows from close values, deriving plausible OHLV
// columns so every indicator has what it needs.
func buildRows(closes []float64) []map[string]any {
	rows := make([]map[string]any, len(closes))
	for i, c := range closes {
		rows[i] = map[string]any{
			"date":   fmt.Sprintf("2025-01-%02d", i+1),
			"open":   c - 0.5,
			"high":   c + 1,
			"low":    c - 1,
			"close":  c,
			"volume": 1000.0,
		}
	}
	return rows
}

func constantSeries(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestMA5ConstantCloses(t *testing.T) {
	rows := buildRows(constantSeries(10, 7))

	res := Compute(rows, []string{"MA"})
	require.Empty(t, res.Error)

	ma, ok := res.Indicators["MA"].(map[string]Series)
	require.True(t, ok)
	ma5 := ma["MA5"]
	require.Len(t, ma5, 7)

	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(ma5[i]), "position %d should be undefined", i)
	}
	for i := 4; i < 7; i++ {
		assert.InDelta(t, 10.0, ma5[i], 1e-9)
	}
}

func TestRSIStrictlyIncreasingDoesNotPanic(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	res := Compute(buildRows(closes), []string{"RSI"})
	require.Empty(t, res.Error)

	series, ok := res.Indicators["RSI"].(Series)
	require.True(t, ok)

	// No losses at all: average loss is zero, RS is +Inf, RSI saturates at 100.
	for i := 0; i < rsiWindow; i++ {
		assert.True(t, math.IsNaN(series[i]), "position %d precedes a full window", i)
	}
	for i := rsiWindow; i < len(series); i++ {
		assert.InDelta(t, 100.0, series[i], 1e-9)
	}
}

func TestRSIFlatSeriesIsNonFinite(t *testing.T) {
	res := Compute(buildRows(constantSeries(50, 20)), []string{"RSI"})
	require.Empty(t, res.Error)

	series := res.Indicators["RSI"].(Series)
	assert.True(t, math.IsNaN(series[len(series)-1]), "flat series has 0/0 RS")
}

func TestChineseColumnLabelsResolve(t *testing.T) {
	rows := []map[string]any{
		{"日期": "2025-01-01", "开盘": 9.0, "最高价": 11.0, "最低价": 8.0, "收盘": 10.0, "成交量": 500.0},
		{"日期": "2025-01-02", "开盘": 10.0, "最高价": 12.0, "最低价": 9.0, "收盘": 11.0, "成交量": 700.0},
	}

	res := Compute(rows, []string{"OBV"})
	require.Empty(t, res.Error)
	assert.Equal(t, []string{"2025-01-01", "2025-01-02"}, res.Dates)

	series := res.Indicators["OBV"].(Series)
	assert.Equal(t, Series{0, 700}, series)
}

func TestMissingOHLCIsTopLevelError(t *testing.T) {
	rows := []map[string]any{
		{"close": 10.0, "volume": 100.0},
		{"close": 11.0, "volume": 120.0},
	}

	res := Compute(rows, []string{"MA", "RSI"})
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Indicators)
}

func TestMissingVolumeFailsOnlyOBV(t *testing.T) {
	rows := []map[string]any{
		{"open": 9.0, "high": 11.0, "low": 8.0, "close": 10.0},
		{"open": 10.0, "high": 12.0, "low": 9.0, "close": 11.0},
	}

	res := Compute(rows, []string{"OBV", "MA"})
	require.Empty(t, res.Error)

	note, ok := res.Indicators["OBV"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, note["error"], "volume")

	_, ok = res.Indicators["MA"].(map[string]Series)
	assert.True(t, ok, "MA should still be computed")
}

func TestOBVSignsVolumeByCloseChange(t *testing.T) {
	closes := []float64{10, 11, 11, 9, 12}
	rows := buildRows(closes)

	res := Compute(rows, []string{"OBV"})
	require.Empty(t, res.Error)

	series := res.Indicators["OBV"].(Series)
	// up, flat, down, up with constant volume 1000
	assert.Equal(t, Series{0, 1000, 1000, 0, 1000}, series)
}

func TestATRSmallVector(t *testing.T) {
	rows := []map[string]any{
		{"open": 10.0, "high": 12.0, "low": 9.0, "close": 11.0},
		{"open": 11.0, "high": 14.0, "low": 10.0, "close": 13.0},
	}

	res := Compute(rows, []string{"ATR"})
	require.Empty(t, res.Error)

	series := res.Indicators["ATR"].(Series)
	require.Len(t, series, 2)
	// Window of 14 never fills with 2 rows.
	assert.True(t, math.IsNaN(series[0]))
	assert.True(t, math.IsNaN(series[1]))
}

func TestStochasticBounds(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50 + float64(i%7)
	}

	res := Compute(buildRows(closes), []string{"STOCHASTIC"})
	require.Empty(t, res.Error)

	stoch := res.Indicators["STOCHASTIC"].(map[string]Series)
	k := stoch["k_line"]
	for i := stochKWindow - 1; i < len(k); i++ {
		assert.GreaterOrEqual(t, k[i], 0.0)
		assert.LessOrEqual(t, k[i], 100.0)
	}
}

func TestEMASeededWithFirstValue(t *testing.T) {
	closes := []float64{10, 20}
	res := Compute(buildRows(closes), []string{"EMA"})
	require.Empty(t, res.Error)

	emas := res.Indicators["EMA"].(map[string]Series)
	ema5 := emas["EMA5"]
	assert.InDelta(t, 10.0, ema5[0], 1e-9)
	// alpha = 2/6: 10 + (20-10)*1/3
	assert.InDelta(t, 10+10.0/3.0, ema5[1], 1e-9)
}

func TestMACDHistogramIsDifference(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 3*math.Sin(float64(i)/4)
	}

	res := Compute(buildRows(closes), []string{"MACD"})
	require.Empty(t, res.Error)

	macd := res.Indicators["MACD"].(map[string]Series)
	for i := range macd["histogram"] {
		assert.InDelta(t, macd["macd_line"][i]-macd["signal_line"][i], macd["histogram"][i], 1e-9)
	}
}

func TestSeriesMarshalsNonFiniteAsNull(t *testing.T) {
	s := Series{1.5, math.NaN(), math.Inf(1)}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null, null]`, string(data))
}

func TestDatesFallBackToOrdinals(t *testing.T) {
	rows := []map[string]any{
		{"open": 9.0, "high": 11.0, "low": 8.0, "close": 10.0},
		{"open": 10.0, "high": 12.0, "low": 9.0, "close": 11.0},
	}

	res := Compute(rows, []string{"MA"})
	require.Empty(t, res.Error)
	assert.Equal(t, []string{"0", "1"}, res.Dates)
}

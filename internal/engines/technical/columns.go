package technical

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// columnAliases maps each canonical OHLCV field to the labels it may carry in
// provider rows. Resolution is ordered and case-insensitive; downstream code
// only ever sees canonical fields.
var columnAliases = []struct {
	canonical string
	aliases   []string
}{
	{"open", []string{"open", "开盘", "开盘价"}},
	{"high", []string{"high", "高", "最高价"}},
	{"low", []string{"low", "低", "最低价"}},
	{"close", []string{"close", "收盘", "收盘价"}},
	{"volume", []string{"volume", "成交量", "成交额"}},
}

// dateColumnTerms mark a column as the period-label axis.
var dateColumnTerms = []string{"date", "time", "日期", "时间"}

// frame holds price rows resolved to the canonical schema. Missing values
// are NaN so window math propagates gaps the same way gaps arrived.
type frame struct {
	n      int
	dates  []string
	fields map[string][]float64 // canonical name -> column
}

func (f *frame) column(name string) []float64 {
	return f.fields[name]
}

// missing returns the first of the named columns that did not resolve, or
// the empty string when all are present.
func (f *frame) missing(names ...string) string {
	for _, name := range names {
		if _, ok := f.fields[name]; !ok {
			return name
		}
	}
	return ""
}

// newFrame resolves provider rows into a frame. At least 4 of the 5 OHLCV
// concepts must resolve or the row set is unusable for technical analysis.
func newFrame(rows []map[string]any) (*frame, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no price rows supplied")
	}

	resolved := make(map[string]string) // canonical -> source label
	for _, col := range columnAliases {
		for _, alias := range col.aliases {
			if label, ok := matchKey(rows[0], alias); ok {
				resolved[col.canonical] = label
				break
			}
		}
	}
	if len(resolved) < 4 {
		return nil, fmt.Errorf("price data missing required columns (OHLC)")
	}

	f := &frame{
		n:      len(rows),
		fields: make(map[string][]float64, len(resolved)),
	}
	for canonical, label := range resolved {
		column := make([]float64, len(rows))
		for i, row := range rows {
			v, ok := toFloat(row[label])
			if !ok {
				v = math.NaN()
			}
			column[i] = v
		}
		f.fields[canonical] = column
	}

	f.dates = resolveDates(rows)
	return f, nil
}

// matchKey finds the row key equal to alias, ignoring case.
func matchKey(row map[string]any, alias string) (string, bool) {
	if _, ok := row[alias]; ok {
		return alias, true
	}
	for key := range row {
		if strings.EqualFold(key, alias) {
			return key, true
		}
	}
	return "", false
}

// resolveDates returns the period-label axis: the first date-like column in
// label order if one exists, otherwise ordinal indices.
func resolveDates(rows []map[string]any) []string {
	keys := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var dateKey string
	for _, key := range keys {
		lower := strings.ToLower(key)
		for _, term := range dateColumnTerms {
			if strings.Contains(lower, term) {
				dateKey = key
				break
			}
		}
		if dateKey != "" {
			break
		}
	}

	dates := make([]string, len(rows))
	for i, row := range rows {
		if dateKey != "" {
			if v, ok := row[dateKey]; ok && v != nil {
				dates[i] = fmt.Sprint(v)
				continue
			}
		}
		dates[i] = strconv.Itoa(i)
	}
	return dates
}

// toFloat coerces the value types JSON decoding and provider normalization
// can produce into a float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

package dispatcher

import (
	"fmt"
	"strconv"
	"strings"
)

// requiredString extracts a mandatory string parameter.
func requiredString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s parameter is required", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s parameter is required", key)
	}
	return s, nil
}

// stringParam extracts an optional string parameter.
func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// intParam extracts an optional integer parameter. JSON numbers decode as
// float64, so both forms are accepted.
func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// boolParam extracts an optional boolean parameter.
func boolParam(params map[string]any, key string, fallback bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return fallback
}

// stringSliceParam extracts an optional list-of-strings parameter, tolerating
// the []any shape JSON decoding produces.
func stringSliceParam(params map[string]any, key string, fallback []string) []string {
	switch v := params[key].(type) {
	case []string:
		if len(v) > 0 {
			return v
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

// numberValue coerces a row value into a float64.
func numberValue(v any) (float64, bool) {
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

// parseShareCount parses a share-count field, which providers report either
// numerically or as a magnitude-suffixed string ("10.5亿", "320万").
func parseShareCount(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		switch {
		case strings.Contains(s, "亿"):
			f, err := strconv.ParseFloat(strings.ReplaceAll(s, "亿", ""), 64)
			if err != nil {
				return 0, false
			}
			return f * 1e8, true
		case strings.Contains(s, "万"):
			f, err := strconv.ParseFloat(strings.ReplaceAll(s, "万", ""), 64)
			if err != nil {
				return 0, false
			}
			return f * 1e4, true
		}
	}
	return numberValue(v)
}

// hasErrorKey reports whether a result map carries a result-shaped error.
func hasErrorKey(m map[string]any) bool {
	_, ok := m["error"]
	return ok
}

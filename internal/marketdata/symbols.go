package marketdata

import "strings"

// StandardizeSymbol normalizes a stock code for the upstream API. Codes may
// arrive bare ("600519") or prefixed ("SH600519", "sz000001"); Hong Kong
// codes ("00700") pass through without a prefix.
//
// With no market hint the exchange is inferred from the code shape: 5-digit
// codes are Hong Kong, 6-digit codes starting 0/3 list in Shenzhen, 6 in
// Shanghai.
func StandardizeSymbol(symbol, market string) string {
	clean := symbol
	for _, prefix := range []string{"SH", "SZ", "sh", "sz"} {
		clean = strings.ReplaceAll(clean, prefix, "")
	}

	switch market {
	case "A":
		if strings.HasPrefix(clean, "0") || strings.HasPrefix(clean, "3") {
			return "SZ" + clean
		}
		return "SH" + clean
	case "HK":
		return clean
	case "":
		switch {
		case len(clean) == 5:
			return clean // HK codes are 5 digits
		case strings.HasPrefix(clean, "0") || strings.HasPrefix(clean, "3"):
			return "SZ" + clean
		case strings.HasPrefix(clean, "6"):
			return "SH" + clean
		default:
			return "SH" + clean
		}
	default:
		return symbol
	}
}

// IsHongKong reports whether a standardized symbol refers to a Hong Kong
// listing (5-digit or 00-prefixed code without an exchange prefix).
func IsHongKong(symbol string) bool {
	return strings.HasPrefix(symbol, "00") || len(symbol) == 5
}

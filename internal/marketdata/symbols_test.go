package marketdata

import "testing"

func TestStandardizeSymbol(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		market string
		want   string
	}{
		{"bare shanghai code", "600519", "", "SH600519"},
		{"prefixed shanghai code", "SH600519", "", "SH600519"},
		{"lowercase prefix", "sh600519", "", "SH600519"},
		{"bare shenzhen code", "300750", "", "SZ300750"},
		{"shenzhen zero prefix", "000001", "", "SZ000001"},
		{"hong kong passthrough", "00700", "", "00700"},
		{"hk market hint", "600519", "HK", "600519"},
		{"a market hint shanghai", "600519", "A", "SH600519"},
		{"a market hint shenzhen", "300750", "A", "SZ300750"},
		{"unknown leading digit defaults shanghai", "900001", "", "SH900001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StandardizeSymbol(tt.symbol, tt.market)
			if got != tt.want {
				t.Errorf("StandardizeSymbol(%q, %q) = %q, want %q", tt.symbol, tt.market, got, tt.want)
			}
		})
	}
}

func TestIsHongKong(t *testing.T) {
	tests := []struct {
		symbol string
		want   bool
	}{
		{"00700", true},
		{"08001", true},
		{"SH600519", false},
		{"SZ000001", false},
	}

	for _, tt := range tests {
		if got := IsHongKong(tt.symbol); got != tt.want {
			t.Errorf("IsHongKong(%q) = %v, want %v", tt.symbol, got, tt.want)
		}
	}
}
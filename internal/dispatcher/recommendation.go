package dispatcher

import (
	"context"
	"fmt"

	"github.com/quantlens/quantlens/internal/engines/technical"
)

// handleRecommendation composes stock info, fundamental analysis and a
// technical read into a rule-based recommendation. It is deliberately
// coarse: profitability sets the direction, leverage adjusts confidence,
// and RSI extremes pull buy/sell calls back to hold.
func (d *Dispatcher) handleRecommendation(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := requiredString(params, "symbol")
	if err != nil {
		return nil, err
	}

	infoResult, err := d.Call(ctx, ToolStockInfo, map[string]any{"symbol": symbol})
	if err != nil {
		return nil, err
	}
	info, ok := infoResult.(map[string]any)
	if !ok || hasErrorKey(info) {
		return map[string]any{
			"recommendation": "insufficient_data",
			"reason":         "failed to retrieve stock information",
		}, nil
	}

	analysisResult, err := d.Call(ctx, ToolAnalyzeFinancials, map[string]any{
		"symbol":                symbol,
		"include_market_ratios": true,
	})
	if err != nil {
		return nil, err
	}
	analysis, ok := analysisResult.(map[string]any)
	if !ok || hasErrorKey(analysis) {
		return map[string]any{
			"recommendation": "insufficient_data",
			"reason":         "failed to analyze financials",
		}, nil
	}

	companyName, _ := info["公司名称"].(string)

	rec := map[string]any{
		"symbol":         symbol,
		"company_name":   companyName,
		"recommendation": "neutral",
		"confidence":     0.5,
		"factors":        []map[string]any{},
	}
	factors := []map[string]any{}

	if netMargin, ok := categoryRatio(analysis, "profitability_ratios", "net_margin"); ok {
		switch {
		case netMargin > 15:
			factors = append(factors, map[string]any{
				"factor": "high_profitability",
				"impact": "positive",
				"value":  fmt.Sprintf("Net margin: %v%%", netMargin),
			})
			rec["recommendation"] = "buy"
			rec["confidence"] = 0.7
		case netMargin < 5:
			factors = append(factors, map[string]any{
				"factor": "low_profitability",
				"impact": "negative",
				"value":  fmt.Sprintf("Net margin: %v%%", netMargin),
			})
			rec["recommendation"] = "sell"
			rec["confidence"] = 0.6
		}
	}

	if debtToEquity, ok := categoryRatio(analysis, "solvency_ratios", "debt_to_equity"); ok {
		switch {
		case debtToEquity > 2:
			factors = append(factors, map[string]any{
				"factor": "high_debt",
				"impact": "negative",
				"value":  fmt.Sprintf("Debt-to-equity: %v", debtToEquity),
			})
			conf := rec["confidence"].(float64) + 0.1
			if conf > 0.9 {
				conf = 0.9
			}
			rec["confidence"] = conf
		case debtToEquity < 0.5:
			factors = append(factors, map[string]any{
				"factor": "low_debt",
				"impact": "positive",
				"value":  fmt.Sprintf("Debt-to-equity: %v", debtToEquity),
			})
		}
	}

	if rsi, ok := d.latestRSI(ctx, symbol); ok {
		switch {
		case rsi > 70:
			factors = append(factors, map[string]any{
				"factor": "overbought",
				"impact": "negative",
				"value":  fmt.Sprintf("RSI: %.2f", rsi),
			})
			if rec["recommendation"] == "buy" {
				rec["recommendation"] = "hold"
			}
		case rsi < 30:
			factors = append(factors, map[string]any{
				"factor": "oversold",
				"impact": "positive",
				"value":  fmt.Sprintf("RSI: %.2f", rsi),
			})
			if rec["recommendation"] == "sell" {
				rec["recommendation"] = "hold"
			}
		}
	}

	rec["factors"] = factors
	return rec, nil
}

// latestRSI runs the indicator tool for RSI and MACD and returns the most
// recent finite RSI value. A failed technical read is not fatal to the
// recommendation; the caller just skips the momentum factor.
func (d *Dispatcher) latestRSI(ctx context.Context, symbol string) (float64, bool) {
	result, err := d.Call(ctx, ToolTechnicalIndicators, map[string]any{
		"symbol":     symbol,
		"indicators": []string{"RSI", "MACD"},
	})
	if err != nil {
		return 0, false
	}

	computed, ok := result.(technical.Result)
	if !ok || computed.Error != "" {
		return 0, false
	}

	series, ok := computed.Indicators["RSI"].(technical.Series)
	if !ok {
		return 0, false
	}
	return series.Last()
}

// categoryRatio digs one ratio out of a nested analysis category.
func categoryRatio(analysis map[string]any, category, ratio string) (float64, bool) {
	cat, ok := analysis[category].(map[string]any)
	if !ok {
		return 0, false
	}
	v, ok := cat[ratio]
	if !ok {
		return 0, false
	}
	return numberValue(v)
}

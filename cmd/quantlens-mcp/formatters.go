package main

import (
	"fmt"
	"sort"
	"strings"
)

// ratioCategories controls section ordering in the analysis markdown.
var ratioCategories = []struct {
	key   string
	title string
}{
	{"profitability_ratios", "Profitability"},
	{"liquidity_ratios", "Liquidity"},
	{"solvency_ratios", "Solvency"},
	{"efficiency_ratios", "Efficiency"},
	{"market_ratios", "Valuation"},
}

// formatAnalysis formats a fundamental analysis result as markdown
func formatAnalysis(symbol string, analysis map[string]any) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Fundamental Analysis: %s\n\n", symbol))

	if msg, ok := analysis["error"].(string); ok {
		sb.WriteString(fmt.Sprintf("Analysis unavailable: %s\n", msg))
		return sb.String()
	}

	for _, category := range ratioCategories {
		section, ok := analysis[category.key].(map[string]any)
		if !ok {
			continue
		}

		sb.WriteString(fmt.Sprintf("### %s\n", category.title))
		if msg, ok := section["error"].(string); ok {
			sb.WriteString(fmt.Sprintf("_%s_\n\n", msg))
			continue
		}

		names := make([]string, 0, len(section))
		for name := range section {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			sb.WriteString(fmt.Sprintf("- **%s:** %v\n", name, section[name]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRecommendation formats a recommendation result as markdown
func formatRecommendation(rec map[string]any) string {
	var sb strings.Builder

	symbol, _ := rec["symbol"].(string)
	companyName, _ := rec["company_name"].(string)

	title := symbol
	if companyName != "" {
		title = fmt.Sprintf("%s (%s)", companyName, symbol)
	}
	sb.WriteString(fmt.Sprintf("## Recommendation: %s\n\n", title))

	if reason, ok := rec["reason"].(string); ok {
		sb.WriteString(fmt.Sprintf("**%v** (%s)\n", rec["recommendation"], reason))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("**Call:** %v\n", rec["recommendation"]))
	sb.WriteString(fmt.Sprintf("**Confidence:** %v\n\n", rec["confidence"]))

	factors, ok := rec["factors"].([]map[string]any)
	if !ok || len(factors) == 0 {
		sb.WriteString("No notable factors.\n")
		return sb.String()
	}

	sb.WriteString("### Factors\n")
	for _, factor := range factors {
		sb.WriteString(fmt.Sprintf("- **%v** (%v): %v\n", factor["factor"], factor["impact"], factor["value"]))
	}

	return sb.String()
}

// Package fundamental computes financial-statement ratios. The engine is
// pure and stateless: it reads the most recent reporting period (index 0)
// and, for average-based ratios, the prior period (index 1) when present.
//
// Ratio policy: a ratio whose denominator is zero or absent evaluates to 0
// for that ratio. A category that cannot be computed at all carries an
// error entry in its place; sibling categories are still computed.
package fundamental

// MarketInputs supplies the optional inputs for market-based ratios.
type MarketInputs struct {
	Price             float64
	SharesOutstanding float64
}

// ProfitabilityRatios computes margin ratios from the income statement.
// Each margin is a percentage rounded to two decimals. Gross profit falls
// back to revenue minus cost of revenue when not reported directly.
func ProfitabilityRatios(income Statement) map[string]any {
	if income == nil {
		return categoryError("missing income statement data")
	}

	revenue := lineItem(income, revenueKeys)
	netIncome := lineItem(income, netIncomeKeys)
	grossProfit := lineItem(income, grossProfitKeys)
	if grossProfit == 0 {
		grossProfit = revenue - lineItem(income, costOfRevenueKeys)
	}
	operatingIncome := lineItem(income, operatingIncomeKeys)

	return map[string]any{
		"gross_margin":     round2(safeDiv(grossProfit, revenue) * 100),
		"operating_margin": round2(safeDiv(operatingIncome, revenue) * 100),
		"net_margin":       round2(safeDiv(netIncome, revenue) * 100),
	}
}

// LiquidityRatios computes short-term coverage ratios from the balance sheet.
func LiquidityRatios(balance Statement) map[string]any {
	if balance == nil {
		return categoryError("missing balance sheet data")
	}

	currentAssets := lineItem(balance, currentAssetsKeys)
	currentLiabilities := lineItem(balance, currentLiabilitiesKeys)
	cash := lineItem(balance, cashKeys)
	shortTermInvestments := lineItem(balance, shortTermInvestKeys)
	receivables := lineItem(balance, receivablesKeys)

	return map[string]any{
		"current_ratio": round2(safeDiv(currentAssets, currentLiabilities)),
		"quick_ratio":   round2(safeDiv(cash+shortTermInvestments+receivables, currentLiabilities)),
		"cash_ratio":    round2(safeDiv(cash+shortTermInvestments, currentLiabilities)),
	}
}

// SolvencyRatios computes leverage and coverage ratios. EBIT is pretax
// income plus finance expense; interest expense falls back to half the
// finance expense when not separately reported.
func SolvencyRatios(balance, income Statement) map[string]any {
	if balance == nil || income == nil {
		return categoryError("missing balance sheet or income statement data")
	}

	totalAssets := lineItem(balance, totalAssetsKeys)
	totalLiabilities := lineItem(balance, totalLiabilitiesKeys)
	equity := lineItem(balance, shareholdersEquityKeys)

	financeExpense := lineItem(income, financeExpenseKeys)
	ebit := lineItem(income, pretaxIncomeKeys) + financeExpense
	interestExpense := lineItem(income, interestExpenseKeys)
	if interestExpense == 0 {
		interestExpense = financeExpense / 2
	}

	return map[string]any{
		"debt_ratio":        round2(safeDiv(totalLiabilities, totalAssets)),
		"debt_to_equity":    round2(safeDiv(totalLiabilities, equity)),
		"interest_coverage": round2(safeDiv(ebit, interestExpense)),
	}
}

// EfficiencyRatios computes turnover ratios. Average total assets uses the
// prior period balance sheet when available, the current period alone
// otherwise.
func EfficiencyRatios(balance, income, prevBalance Statement) map[string]any {
	if balance == nil || income == nil {
		return categoryError("missing balance sheet or income statement data")
	}

	totalAssets := lineItem(balance, totalAssetsKeys)
	revenue := lineItem(income, revenueKeys)
	netIncome := lineItem(income, netIncomeKeys)

	avgTotalAssets := totalAssets
	if prevBalance != nil {
		prev := lineItem(prevBalance, totalAssetsKeys)
		if prev == 0 {
			prev = totalAssets
		}
		avgTotalAssets = (totalAssets + prev) / 2
	}

	inventory := lineItem(balance, inventoryKeys)
	cogs := lineItem(income, costOfRevenueKeys)

	return map[string]any{
		"inventory_turnover": round2(safeDiv(cogs, inventory)),
		"asset_turnover":     round2(safeDiv(revenue, avgTotalAssets)),
		"return_on_assets":   round2(safeDiv(netIncome, avgTotalAssets) * 100),
	}
}

// MarketRatios computes valuation ratios from the current price and share
// count.
func MarketRatios(income, balance Statement, market MarketInputs) map[string]any {
	if income == nil || balance == nil {
		return categoryError("missing balance sheet or income statement data")
	}

	netIncome := lineItem(income, netIncomeKeys)
	equity := lineItem(balance, equityAlternateKeys)

	eps := safeDiv(netIncome, market.SharesOutstanding)
	bookValuePerShare := safeDiv(equity, market.SharesOutstanding)

	return map[string]any{
		"eps":                  round2(eps),
		"pe_ratio":             round2(safeDiv(market.Price, eps)),
		"book_value_per_share": round2(bookValuePerShare),
		"pb_ratio":             round2(safeDiv(market.Price, bookValuePerShare)),
		"market_cap":           market.Price * market.SharesOutstanding,
	}
}

// Analyze composes all available ratio categories into one result keyed by
// category name. Market ratios are included only when market inputs are
// supplied. Missing balance or income statements fail the whole analysis.
func Analyze(balance, income, cashflow []Statement, market *MarketInputs) map[string]any {
	if len(balance) == 0 || len(income) == 0 {
		return map[string]any{"error": "missing required financial statements"}
	}

	currentBalance := balance[0]
	currentIncome := income[0]

	var prevBalance Statement
	if len(balance) > 1 {
		prevBalance = balance[1]
	}

	analysis := map[string]any{
		"profitability_ratios": ProfitabilityRatios(currentIncome),
		"liquidity_ratios":     LiquidityRatios(currentBalance),
		"solvency_ratios":      SolvencyRatios(currentBalance, currentIncome),
		"efficiency_ratios":    EfficiencyRatios(currentBalance, currentIncome, prevBalance),
	}

	if market != nil {
		analysis["market_ratios"] = MarketRatios(currentIncome, currentBalance, *market)
	}

	return analysis
}

// safeDiv implements the documented zero-denominator policy: 0, not an
// error.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func categoryError(message string) map[string]any {
	return map[string]any{"error": message}
}

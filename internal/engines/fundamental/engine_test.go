package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentRatioExact(t *testing.T) {
	balance := Statement{
		"流动资产合计": 200.0,
		"流动负债合计": 100.0,
	}

	ratios := LiquidityRatios(balance)
	assert.Equal(t, 2.0, ratios["current_ratio"])
}

func TestNetMarginPercentage(t *testing.T) {
	income := Statement{
		"营业总收入": 1000.0,
		"净利润":   150.0,
	}

	ratios := ProfitabilityRatios(income)
	assert.Equal(t, 15.0, ratios["net_margin"])
}

func TestGrossProfitDerivedFromCostOfRevenue(t *testing.T) {
	income := Statement{
		"营业总收入": 1000.0,
		"营业成本":  600.0,
	}

	ratios := ProfitabilityRatios(income)
	assert.Equal(t, 40.0, ratios["gross_margin"])
}

func TestZeroDenominatorYieldsZeroNotError(t *testing.T) {
	income := Statement{"净利润": 150.0} // no revenue at all

	ratios := ProfitabilityRatios(income)
	assert.Equal(t, 0.0, ratios["net_margin"])
	assert.NotContains(t, ratios, "error")
}

func TestEnglishAliasFallback(t *testing.T) {
	income := Statement{
		"revenue":    1000.0,
		"net_income": 250.0,
	}

	ratios := ProfitabilityRatios(income)
	assert.Equal(t, 25.0, ratios["net_margin"])
}

func TestSolvencyInterestExpenseFallback(t *testing.T) {
	balance := Statement{
		"资产总计":    1000.0,
		"负债合计":    400.0,
		"所有者权益合计": 600.0,
	}
	income := Statement{
		"利润总额": 90.0,
		"财务费用": 20.0,
		// no 利息支出: falls back to 财务费用 / 2 = 10
	}

	ratios := SolvencyRatios(balance, income)
	assert.Equal(t, 0.4, ratios["debt_ratio"])
	assert.Equal(t, 0.67, ratios["debt_to_equity"])
	// EBIT = 90 + 20 = 110; 110 / 10 = 11
	assert.Equal(t, 11.0, ratios["interest_coverage"])
}

func TestEfficiencyUsesTwoPeriodAverage(t *testing.T) {
	balance := Statement{"资产总计": 1200.0, "存货": 100.0}
	prevBalance := Statement{"资产总计": 800.0}
	income := Statement{"营业总收入": 500.0, "净利润": 100.0, "营业成本": 300.0}

	ratios := EfficiencyRatios(balance, income, prevBalance)
	// Average assets = (1200 + 800) / 2 = 1000
	assert.Equal(t, 0.5, ratios["asset_turnover"])
	assert.Equal(t, 10.0, ratios["return_on_assets"])
	assert.Equal(t, 3.0, ratios["inventory_turnover"])
}

func TestEfficiencyFallsBackToSinglePeriod(t *testing.T) {
	balance := Statement{"资产总计": 1000.0}
	income := Statement{"营业总收入": 500.0}

	ratios := EfficiencyRatios(balance, income, nil)
	assert.Equal(t, 0.5, ratios["asset_turnover"])
}

func TestMarketRatios(t *testing.T) {
	income := Statement{"净利润": 200.0}
	balance := Statement{"所有者权益合计": 1000.0}

	ratios := MarketRatios(income, balance, MarketInputs{Price: 40, SharesOutstanding: 100})
	assert.Equal(t, 2.0, ratios["eps"])
	assert.Equal(t, 20.0, ratios["pe_ratio"])
	assert.Equal(t, 10.0, ratios["book_value_per_share"])
	assert.Equal(t, 4.0, ratios["pb_ratio"])
	assert.Equal(t, 4000.0, ratios["market_cap"])
}

func TestAnalyzeComposesCategories(t *testing.T) {
	balance := []Statement{{"流动资产合计": 200.0, "流动负债合计": 100.0, "资产总计": 1000.0}}
	income := []Statement{{"营业总收入": 1000.0, "净利润": 150.0}}

	analysis := Analyze(balance, income, nil, nil)
	require.Contains(t, analysis, "profitability_ratios")
	require.Contains(t, analysis, "liquidity_ratios")
	require.Contains(t, analysis, "solvency_ratios")
	require.Contains(t, analysis, "efficiency_ratios")
	assert.NotContains(t, analysis, "market_ratios")
}

func TestAnalyzeIncludesMarketOnlyWithInputs(t *testing.T) {
	balance := []Statement{{"资产总计": 1000.0, "所有者权益合计": 600.0}}
	income := []Statement{{"营业总收入": 1000.0, "净利润": 150.0}}

	analysis := Analyze(balance, income, nil, &MarketInputs{Price: 10, SharesOutstanding: 50})
	assert.Contains(t, analysis, "market_ratios")
}

func TestAnalyzeMissingStatements(t *testing.T) {
	analysis := Analyze(nil, []Statement{{}}, nil, nil)
	assert.Contains(t, analysis, "error")
}

func TestStringValuesParse(t *testing.T) {
	income := Statement{
		"营业总收入": "1,000",
		"净利润":   "150",
	}

	ratios := ProfitabilityRatios(income)
	assert.Equal(t, 15.0, ratios["net_margin"])
}

package fundamental

import (
	"math"
	"strconv"
	"strings"
)

// Statement is one reporting period: line-item label -> value. Index 0 of a
// statement slice is always the most recent period.
type Statement = map[string]any

// Line-item alias tables. Labels are the reporting-source names (Chinese
// first, matching the upstream provider) with English fallbacks. Lookup is
// ordered: the first label present with a non-zero value wins.
var (
	revenueKeys             = []string{"营业总收入", "营业收入", "total_revenue", "revenue"}
	netIncomeKeys           = []string{"净利润", "net_income"}
	grossProfitKeys         = []string{"毛利润", "gross_profit"}
	costOfRevenueKeys       = []string{"营业成本", "cost_of_revenue"}
	operatingIncomeKeys     = []string{"营业利润", "operating_income"}
	currentAssetsKeys       = []string{"流动资产合计", "current_assets"}
	currentLiabilitiesKeys  = []string{"流动负债合计", "current_liabilities"}
	cashKeys                = []string{"货币资金", "cash"}
	shortTermInvestKeys     = []string{"交易性金融资产", "short_term_investments"}
	receivablesKeys         = []string{"应收账款", "accounts_receivable"}
	totalAssetsKeys         = []string{"资产总计", "total_assets"}
	totalLiabilitiesKeys    = []string{"负债合计", "total_liabilities"}
	shareholdersEquityKeys  = []string{"所有者权益合计", "shareholders_equity"}
	equityAlternateKeys     = []string{"所有者权益", "所有者权益合计", "shareholders_equity"}
	pretaxIncomeKeys        = []string{"利润总额", "pretax_income"}
	financeExpenseKeys      = []string{"财务费用", "finance_expense"}
	interestExpenseKeys     = []string{"利息支出", "interest_expense"}
	inventoryKeys           = []string{"存货", "inventory"}
)

// lineItem returns the first non-zero numeric value among the aliased
// labels, or 0 when none resolves.
func lineItem(data Statement, keys []string) float64 {
	if data == nil {
		return 0
	}
	for _, key := range keys {
		if raw, ok := data[key]; ok {
			if v, ok := asNumber(raw); ok && v != 0 {
				return v
			}
		}
	}
	return 0
}

// asNumber coerces statement values into float64. Providers report numbers
// as JSON numbers or formatted strings.
func asNumber(v any) (float64, bool) {
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
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// round2 rounds to two decimals, the precision used for all reported ratios.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

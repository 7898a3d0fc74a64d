// Package marketdata defines the upstream market-data boundary and an HTTP
// client implementation of it. The dispatcher treats the provider as a
// black box: rows or an error, bounded by the caller's context.
package marketdata

import "context"

// Report types accepted by FetchStatements.
const (
	ReportBalance  = "balance"
	ReportIncome   = "income"
	ReportCashflow = "cashflow"
	ReportAll      = "all"
)

// StatementSet groups the financial statements returned for one symbol.
// Each statement is a slice of reporting periods, most recent first.
type StatementSet struct {
	BalanceSheet    []map[string]any `json:"balance_sheet,omitempty"`
	IncomeStatement []map[string]any `json:"income_statement,omitempty"`
	CashFlow        []map[string]any `json:"cash_flow,omitempty"`
}

// Provider is the upstream data source consumed by the dispatcher. Calls
// are never assumed to be fast or cached; caching happens in the dispatcher.
type Provider interface {
	// FetchInfo returns per-symbol descriptive fields (name, industry,
	// share count, listing data and similar).
	FetchInfo(ctx context.Context, symbol, market string) (map[string]any, error)

	// FetchPrices returns OHLCV rows for the symbol in ascending date
	// order (oldest first), so window math downstream runs forward in
	// time. Dates use YYYYMMDD; empty start/end default to the trailing
	// year.
	FetchPrices(ctx context.Context, symbol, period, startDate, endDate string) ([]map[string]any, error)

	// FetchStatements returns up to periods reporting periods of the
	// requested statement type ("all" fills every field of the set).
	FetchStatements(ctx context.Context, symbol, reportType string, periods int) (*StatementSet, error)

	// FetchIndustry returns constituent and metric rows for an industry.
	FetchIndustry(ctx context.Context, industry, metric string) (map[string]any, error)
}

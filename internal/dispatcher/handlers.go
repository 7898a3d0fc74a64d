package dispatcher

import (
	"context"
	"fmt"

	"github.com/quantlens/quantlens/internal/engines/fundamental"
	"github.com/quantlens/quantlens/internal/engines/technical"
	"github.com/quantlens/quantlens/internal/marketdata"
)

// defaultIndicators is computed when calc_technical_indicators is called
// without an explicit list.
var defaultIndicators = []string{"MA", "MACD", "RSI"}

// shareCountKeys are the info fields consulted for shares outstanding, in
// priority order.
var shareCountKeys = []string{"总股本", "股本", "total_shares", "shares_outstanding"}

func (d *Dispatcher) handleStockInfo(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := requiredString(params, "symbol")
	if err != nil {
		return nil, err
	}
	market := stringParam(params, "market", "")

	pctx, cancel := d.providerContext(ctx)
	defer cancel()

	info, err := d.provider.FetchInfo(pctx, symbol, market)
	if err != nil {
		d.logger.Warn().Err(err).Str("symbol", symbol).Msg("stock info fetch failed")
		return map[string]any{"error": fmt.Sprintf("failed to get stock info for %s: %v", symbol, err)}, nil
	}
	return info, nil
}

func (d *Dispatcher) handleStockPrice(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := requiredString(params, "symbol")
	if err != nil {
		return nil, err
	}
	period := stringParam(params, "period", "daily")
	startDate := stringParam(params, "start_date", "")
	endDate := stringParam(params, "end_date", "")

	pctx, cancel := d.providerContext(ctx)
	defer cancel()

	rows, err := d.provider.FetchPrices(pctx, symbol, period, startDate, endDate)
	if err != nil {
		d.logger.Warn().Err(err).Str("symbol", symbol).Msg("price fetch failed")
		return map[string]any{"error": fmt.Sprintf("failed to get price data for %s: %v", symbol, err)}, nil
	}
	return rows, nil
}

func (d *Dispatcher) handleFinancialReport(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := requiredString(params, "symbol")
	if err != nil {
		return nil, err
	}
	reportType, err := requiredString(params, "report_type")
	if err != nil {
		return nil, err
	}
	switch reportType {
	case marketdata.ReportBalance, marketdata.ReportIncome, marketdata.ReportCashflow, marketdata.ReportAll:
	default:
		return nil, fmt.Errorf("invalid report_type %q", reportType)
	}
	periods := intParam(params, "periods", 4)

	pctx, cancel := d.providerContext(ctx)
	defer cancel()

	statements, err := d.provider.FetchStatements(pctx, symbol, reportType, periods)
	if err != nil {
		d.logger.Warn().Err(err).Str("symbol", symbol).Msg("financial report fetch failed")
		return map[string]any{"error": fmt.Sprintf("failed to get financial report for %s: %v", symbol, err)}, nil
	}
	return statements, nil
}

// handleTechnicalIndicators fetches price history through the price tool so
// the series is shared with direct price requests, then runs the indicator
// engine over it.
func (d *Dispatcher) handleTechnicalIndicators(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := requiredString(params, "symbol")
	if err != nil {
		return nil, err
	}
	indicators := stringSliceParam(params, "indicators", defaultIndicators)
	period := stringParam(params, "period", "daily")

	priceResult, err := d.Call(ctx, ToolStockPrice, map[string]any{
		"symbol": symbol,
		"period": period,
	})
	if err != nil {
		return nil, err
	}

	rows, ok := priceResult.([]map[string]any)
	if !ok || len(rows) == 0 {
		return map[string]any{"error": fmt.Sprintf("no price data available for %s", symbol)}, nil
	}

	return technical.Compute(rows, indicators), nil
}

func (d *Dispatcher) handleIndustryAnalysis(ctx context.Context, params map[string]any) (any, error) {
	industry, err := requiredString(params, "industry")
	if err != nil {
		return nil, err
	}
	metric := stringParam(params, "metric", "")

	pctx, cancel := d.providerContext(ctx)
	defer cancel()

	result, err := d.provider.FetchIndustry(pctx, industry, metric)
	if err != nil {
		d.logger.Warn().Err(err).Str("industry", industry).Msg("industry fetch failed")
		return map[string]any{"error": fmt.Sprintf("failed to get industry analysis for %s: %v", industry, err)}, nil
	}
	return result, nil
}

// handleAnalyzeFinancials pulls the full statement set through the report
// tool, optionally resolves market inputs, and hands both to the ratio
// engine. Market ratios are omitted, not errored, when price or share count
// cannot be resolved.
func (d *Dispatcher) handleAnalyzeFinancials(ctx context.Context, params map[string]any) (any, error) {
	symbol, err := requiredString(params, "symbol")
	if err != nil {
		return nil, err
	}
	includeMarket := boolParam(params, "include_market_ratios", false)

	reportResult, err := d.Call(ctx, ToolFinancialReport, map[string]any{
		"symbol":      symbol,
		"report_type": marketdata.ReportAll,
		"periods":     4,
	})
	if err != nil {
		return nil, err
	}

	statements, ok := reportResult.(*marketdata.StatementSet)
	if !ok {
		return map[string]any{"error": fmt.Sprintf("failed to retrieve financial data for %s", symbol)}, nil
	}

	var market *fundamental.MarketInputs
	if includeMarket {
		market = d.resolveMarketInputs(ctx, symbol)
	}

	return fundamental.Analyze(statements.BalanceSheet, statements.IncomeStatement, statements.CashFlow, market), nil
}

// resolveMarketInputs looks up the latest close and shares outstanding via
// nested tool calls. Any gap returns nil so the caller can skip market
// ratios without failing the whole analysis.
func (d *Dispatcher) resolveMarketInputs(ctx context.Context, symbol string) *fundamental.MarketInputs {
	infoResult, err := d.Call(ctx, ToolStockInfo, map[string]any{"symbol": symbol})
	if err != nil {
		return nil
	}
	info, ok := infoResult.(map[string]any)
	if !ok || hasErrorKey(info) {
		return nil
	}

	priceResult, err := d.Call(ctx, ToolStockPrice, map[string]any{
		"symbol": symbol,
		"period": "daily",
	})
	if err != nil {
		return nil
	}
	rows, ok := priceResult.([]map[string]any)
	if !ok || len(rows) == 0 {
		return nil
	}

	price, ok := latestClose(rows[len(rows)-1])
	if !ok || price <= 0 {
		return nil
	}

	shares, ok := sharesOutstanding(info)
	if !ok || shares <= 0 {
		return nil
	}

	return &fundamental.MarketInputs{Price: price, SharesOutstanding: shares}
}

// latestClose reads the closing price from the most recent price row
// (rows arrive oldest first).
func latestClose(row map[string]any) (float64, bool) {
	for _, key := range []string{"收盘", "close"} {
		if v, ok := row[key]; ok {
			return numberValue(v)
		}
	}
	return 0, false
}

// sharesOutstanding reads the share count from a stock-info result.
func sharesOutstanding(info map[string]any) (float64, bool) {
	for _, key := range shareCountKeys {
		if v, ok := info[key]; ok {
			if n, ok := parseShareCount(v); ok && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/quantlens/quantlens/internal/dispatcher"
	"github.com/quantlens/quantlens/internal/engines/technical"
)

// handleStockInfo implements the get_stock_info tool
func handleStockInfo(disp *dispatcher.Dispatcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		params := map[string]any{"symbol": symbol}
		if market := request.GetString("market", ""); market != "" {
			params["market"] = market
		}

		result, err := disp.Call(ctx, dispatcher.ToolStockInfo, params)
		if err != nil {
			logger.Error().Err(err).Msg("get_stock_info failed")
			return errorResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		return jsonResult(result), nil
	}
}

// handleStockPrice implements the get_stock_price tool
func handleStockPrice(disp *dispatcher.Dispatcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		params := map[string]any{"symbol": symbol}
		if period := request.GetString("period", ""); period != "" {
			params["period"] = period
		}
		if startDate := request.GetString("start_date", ""); startDate != "" {
			params["start_date"] = startDate
		}
		if endDate := request.GetString("end_date", ""); endDate != "" {
			params["end_date"] = endDate
		}

		result, err := disp.Call(ctx, dispatcher.ToolStockPrice, params)
		if err != nil {
			logger.Error().Err(err).Msg("get_stock_price failed")
			return errorResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		return jsonResult(result), nil
	}
}

// handleFinancialReport implements the get_financial_report tool
func handleFinancialReport(disp *dispatcher.Dispatcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		params := map[string]any{
			"symbol":      symbol,
			"report_type": request.GetString("report_type", "all"),
		}
		if periods := request.GetInt("periods", 0); periods > 0 {
			params["periods"] = periods
		}

		result, err := disp.Call(ctx, dispatcher.ToolFinancialReport, params)
		if err != nil {
			logger.Error().Err(err).Msg("get_financial_report failed")
			return errorResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		return jsonResult(result), nil
	}
}

// handleTechnicalIndicators implements the calc_technical_indicators tool
func handleTechnicalIndicators(disp *dispatcher.Dispatcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		params := map[string]any{"symbol": symbol}
		if indicators := request.GetStringSlice("indicators", nil); len(indicators) > 0 {
			params["indicators"] = indicators
		}
		if period := request.GetString("period", ""); period != "" {
			params["period"] = period
		}

		result, err := disp.Call(ctx, dispatcher.ToolTechnicalIndicators, params)
		if err != nil {
			logger.Error().Err(err).Msg("calc_technical_indicators failed")
			return errorResult(fmt.Sprintf("Computation error: %v", err)), nil
		}

		if computed, ok := result.(technical.Result); ok && computed.Error != "" {
			return errorResult(fmt.Sprintf("Computation error: %s", computed.Error)), nil
		}

		return jsonResult(result), nil
	}
}

// handleIndustryAnalysis implements the get_industry_analysis tool
func handleIndustryAnalysis(disp *dispatcher.Dispatcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		industry, err := request.RequireString("industry")
		if err != nil || industry == "" {
			return errorResult("Error: industry parameter is required"), nil
		}

		params := map[string]any{"industry": industry}
		if metric := request.GetString("metric", ""); metric != "" {
			params["metric"] = metric
		}

		result, err := disp.Call(ctx, dispatcher.ToolIndustryAnalysis, params)
		if err != nil {
			logger.Error().Err(err).Msg("get_industry_analysis failed")
			return errorResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		return jsonResult(result), nil
	}
}

// handleAnalyzeFinancials implements the analyze_financials tool
func handleAnalyzeFinancials(disp *dispatcher.Dispatcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		params := map[string]any{
			"symbol":                symbol,
			"include_market_ratios": request.GetBool("include_market_ratios", false),
		}

		result, err := disp.Call(ctx, dispatcher.ToolAnalyzeFinancials, params)
		if err != nil {
			logger.Error().Err(err).Msg("analyze_financials failed")
			return errorResult(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		analysis, ok := result.(map[string]any)
		if !ok {
			return errorResult("Analysis error: unexpected result shape"), nil
		}

		return textResult(formatAnalysis(symbol, analysis)), nil
	}
}

// handleRecommendation implements the get_stock_recommendation tool
func handleRecommendation(disp *dispatcher.Dispatcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}

		result, err := disp.Call(ctx, dispatcher.ToolRecommendation, map[string]any{"symbol": symbol})
		if err != nil {
			logger.Error().Err(err).Msg("get_stock_recommendation failed")
			return errorResult(fmt.Sprintf("Recommendation error: %v", err)), nil
		}

		rec, ok := result.(map[string]any)
		if !ok {
			return errorResult("Recommendation error: unexpected result shape"), nil
		}

		return textResult(formatRecommendation(rec)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return textResult(message)
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Encoding error: %v", err))
	}
	return textResult(string(data))
}

package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createStockInfoTool returns the get_stock_info tool definition
func createStockInfoTool() mcp.Tool {
	return mcp.NewTool("get_stock_info",
		mcp.WithDescription("Get company profile information for a Chinese A-share or Hong Kong stock"),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock code (e.g. 600519, 000001, 00700)"),
		),
		mcp.WithString("market",
			mcp.Description("Market hint: A (mainland) or HK (Hong Kong)"),
		),
	)
}

// createStockPriceTool returns the get_stock_price tool definition
func createStockPriceTool() mcp.Tool {
	return mcp.NewTool("get_stock_price",
		mcp.WithDescription("Get historical price data (OHLCV rows, most recent first)"),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock code"),
		),
		mcp.WithString("period",
			mcp.Description("Bar period: daily (default), weekly, monthly"),
		),
		mcp.WithString("start_date",
			mcp.Description("Start date in YYYYMMDD format (default: one year ago)"),
		),
		mcp.WithString("end_date",
			mcp.Description("End date in YYYYMMDD format (default: today)"),
		),
	)
}

// createFinancialReportTool returns the get_financial_report tool definition
func createFinancialReportTool() mcp.Tool {
	return mcp.NewTool("get_financial_report",
		mcp.WithDescription("Get financial statements (balance sheet, income statement, cash flow)"),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock code"),
		),
		mcp.WithString("report_type",
			mcp.Description("Statement type: balance, income, cashflow, or all (default)"),
		),
		mcp.WithNumber("periods",
			mcp.Description("Number of reporting periods to return (default: 4)"),
		),
	)
}

// createTechnicalIndicatorsTool returns the calc_technical_indicators tool definition
func createTechnicalIndicatorsTool() mcp.Tool {
	return mcp.NewTool("calc_technical_indicators",
		mcp.WithDescription("Compute technical indicators over a stock's price history"),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock code"),
		),
		mcp.WithArray("indicators",
			mcp.WithStringItems(),
			mcp.Description("Indicators to compute: MA, EMA, MACD, RSI, BOLLINGER, ATR, STOCHASTIC, OBV (default: MA, MACD, RSI)"),
		),
		mcp.WithString("period",
			mcp.Description("Bar period for the underlying price series (default: daily)"),
		),
	)
}

// createIndustryAnalysisTool returns the get_industry_analysis tool definition
func createIndustryAnalysisTool() mcp.Tool {
	return mcp.NewTool("get_industry_analysis",
		mcp.WithDescription("Get industry-level constituent and metric data"),
		mcp.WithString("industry",
			mcp.Required(),
			mcp.Description("Industry name (e.g. 白酒, 银行)"),
		),
		mcp.WithString("metric",
			mcp.Description("Optional metric to focus on"),
		),
	)
}

// createAnalyzeFinancialsTool returns the analyze_financials tool definition
func createAnalyzeFinancialsTool() mcp.Tool {
	return mcp.NewTool("analyze_financials",
		mcp.WithDescription("Compute fundamental ratio analysis from a company's financial statements"),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock code"),
		),
		mcp.WithBoolean("include_market_ratios",
			mcp.Description("Also compute valuation ratios from latest price and share count (default: false)"),
		),
	)
}

// createRecommendationTool returns the get_stock_recommendation tool definition
func createRecommendationTool() mcp.Tool {
	return mcp.NewTool("get_stock_recommendation",
		mcp.WithDescription("Generate a rule-based investment recommendation combining fundamentals and technicals"),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Stock code"),
		),
	)
}

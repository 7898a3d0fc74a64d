package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/quantlens/quantlens/internal/cache"
	"github.com/quantlens/quantlens/internal/common"
	"github.com/quantlens/quantlens/internal/dispatcher"
	"github.com/quantlens/quantlens/internal/marketdata"
)

func main() {
	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	// Load configuration
	configPath := os.Getenv("QUANTLENS_CONFIG")
	if configPath == "" {
		configPath = "quantlens.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logger for the MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	timeout := marketdata.DefaultTimeout
	if config.Provider.Timeout != "" {
		if parsed, err := time.ParseDuration(config.Provider.Timeout); err == nil {
			timeout = parsed
		}
	}

	clientOpts := []marketdata.ClientOption{
		marketdata.WithLogger(logger),
		marketdata.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if config.Provider.RateLimit > 0 {
		clientOpts = append(clientOpts, marketdata.WithRateLimit(config.Provider.RateLimit))
	}
	provider := marketdata.NewClient(config.Provider.BaseURL, config.Provider.APIKey, clientOpts...)

	cacheOpts := []cache.Option{}
	if config.Cache.DefaultTTLSeconds > 0 {
		cacheOpts = append(cacheOpts, cache.WithDefaultTTL(time.Duration(config.Cache.DefaultTTLSeconds)*time.Second))
	}
	store := cache.New(cacheOpts...)

	disp := dispatcher.New(provider, store, logger, dispatcher.Options{
		ProviderTimeout: timeout,
	})

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"quantlens",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register data tools
	mcpServer.AddTool(createStockInfoTool(), handleStockInfo(disp, logger))
	mcpServer.AddTool(createStockPriceTool(), handleStockPrice(disp, logger))
	mcpServer.AddTool(createFinancialReportTool(), handleFinancialReport(disp, logger))
	mcpServer.AddTool(createIndustryAnalysisTool(), handleIndustryAnalysis(disp, logger))

	// Register analysis tools
	mcpServer.AddTool(createTechnicalIndicatorsTool(), handleTechnicalIndicators(disp, logger))
	mcpServer.AddTool(createAnalyzeFinancialsTool(), handleAnalyzeFinancials(disp, logger))
	mcpServer.AddTool(createRecommendationTool(), handleRecommendation(disp, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}

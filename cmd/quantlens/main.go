package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

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

	logger := common.InitLogger(config)
	logger.Info().Str("version", common.GetVersion()).Msg("Starting quantlens")

	timeout := marketdata.DefaultTimeout
	if config.Provider.Timeout != "" {
		if parsed, err := time.ParseDuration(config.Provider.Timeout); err == nil {
			timeout = parsed
		} else {
			logger.Warn().Err(err).Msg("Invalid provider timeout, using default")
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

	// Periodic sweep keeps the cache from accumulating expired entries for
	// keys that are never requested again.
	if config.Cache.CleanupSchedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(config.Cache.CleanupSchedule, func() {
			if removed := store.Cleanup(); removed > 0 {
				logger.Debug().Int("removed", removed).Msg("Cache sweep")
			}
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Invalid cache cleanup schedule, sweeps disabled")
		} else {
			scheduler.Start()
			defer scheduler.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := disp.ServeLines(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("Serve loop failed")
	}

	logger.Info().Msg("quantlens stopped")
}

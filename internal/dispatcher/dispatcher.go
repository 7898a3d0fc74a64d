// Package dispatcher routes named tool invocations to their handlers,
// resolving each call against a TTL cache before touching the upstream
// provider or the analysis engines. Composed tools re-enter the dispatcher
// for their sub-calls, so sub-results are cached and reused like any other.
package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/quantlens/quantlens/internal/cache"
	"github.com/quantlens/quantlens/internal/engines/technical"
	"github.com/quantlens/quantlens/internal/marketdata"
)

// Tool names in the fixed registry.
const (
	ToolStockInfo           = "get_stock_info"
	ToolStockPrice          = "get_stock_price"
	ToolFinancialReport     = "get_financial_report"
	ToolTechnicalIndicators = "calc_technical_indicators"
	ToolIndustryAnalysis    = "get_industry_analysis"
	ToolAnalyzeFinancials   = "analyze_financials"
	ToolRecommendation      = "get_stock_recommendation"
)

// ErrUnknownTool is returned by Call for names outside the registry.
var ErrUnknownTool = errors.New("unknown tool")

// defaultTTL applies to any tool without an entry in the TTL table.
const defaultTTL = time.Hour

// toolTTLs is the per-tool cache policy. Composed tools inherit the TTL of
// their most authoritative sub-result, so analyze_financials is pinned to
// the financial-report TTL.
var toolTTLs = map[string]time.Duration{
	ToolStockInfo:           24 * time.Hour,
	ToolStockPrice:          time.Hour,
	ToolFinancialReport:     7 * 24 * time.Hour,
	ToolTechnicalIndicators: time.Hour,
	ToolIndustryAnalysis:    24 * time.Hour,
	ToolAnalyzeFinancials:   7 * 24 * time.Hour,
}

type handlerFunc func(ctx context.Context, params map[string]any) (any, error)

// Options configures a Dispatcher.
type Options struct {
	// ProviderTimeout bounds each upstream provider call. Zero keeps the
	// default of 30 seconds.
	ProviderTimeout time.Duration
}

// Dispatcher owns the cache and routes tool calls. It is constructed once
// by the process entry point and passed explicitly to the transports.
type Dispatcher struct {
	provider marketdata.Provider
	cache    *cache.Cache
	logger   arbor.ILogger
	timeout  time.Duration
	handlers map[string]handlerFunc
}

// New creates a dispatcher over the given provider and cache.
func New(provider marketdata.Provider, store *cache.Cache, logger arbor.ILogger, opts Options) *Dispatcher {
	timeout := opts.ProviderTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	d := &Dispatcher{
		provider: provider,
		cache:    store,
		logger:   logger,
		timeout:  timeout,
	}

	d.handlers = map[string]handlerFunc{
		ToolStockInfo:           d.handleStockInfo,
		ToolStockPrice:          d.handleStockPrice,
		ToolFinancialReport:     d.handleFinancialReport,
		ToolTechnicalIndicators: d.handleTechnicalIndicators,
		ToolIndustryAnalysis:    d.handleIndustryAnalysis,
		ToolAnalyzeFinancials:   d.handleAnalyzeFinancials,
		ToolRecommendation:      d.handleRecommendation,
	}

	return d
}

// Tools returns the registered tool names.
func (d *Dispatcher) Tools() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}

// Call resolves one tool invocation: cache hit returns the stored value
// unchanged; a miss runs the handler and stores any non-error result under
// the tool's TTL. Nested calls from composed tools land here too.
func (d *Dispatcher) Call(ctx context.Context, name string, params map[string]any) (any, error) {
	handler, ok := d.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	key := CacheKey(name, params)
	if value, ok := d.cache.Get(key); ok {
		d.logger.Debug().Str("key", key).Msg("cache hit")
		return value, nil
	}

	result, err := handler(ctx, params)
	if err != nil {
		return nil, err
	}

	// Result-shaped errors are not pinned in the cache: a week-long TTL on
	// an upstream hiccup would outlive the outage.
	if !isErrorResult(result) {
		d.cache.Set(key, result, ttlFor(name))
	}

	return result, nil
}

// CacheKey derives the deterministic cache key for a tool invocation:
// the tool name plus the canonical JSON encoding of its parameters.
// encoding/json writes map keys in sorted order, so two semantically equal
// parameter sets produce the same key regardless of insertion order.
func CacheKey(name string, params map[string]any) string {
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		// Parameters arrive from JSON decoding, so this is unreachable in
		// practice; fall back to a non-colliding representation.
		return fmt.Sprintf("%s:%v", name, params)
	}
	return name + ":" + string(data)
}

func ttlFor(name string) time.Duration {
	if ttl, ok := toolTTLs[name]; ok {
		return ttl
	}
	return defaultTTL
}

// isErrorResult reports whether a handler result is error-shaped.
func isErrorResult(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		_, ok := x["error"]
		return ok
	case technical.Result:
		return x.Error != ""
	default:
		return false
	}
}

// providerContext bounds an upstream call with the configured timeout.
func (d *Dispatcher) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

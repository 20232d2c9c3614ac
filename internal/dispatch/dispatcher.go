// Package dispatch routes named tool calls to backend collaborators and
// renders their results as plain text for the calling host.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bullhorn/internal/domain"
	"bullhorn/internal/format"
	"bullhorn/internal/tooling"
)

// toolKind is the typed variant a wire-visible tool name maps to. Dispatch
// selects behaviour by variant; the string names stay on the wire only.
type toolKind int

const (
	kindUnknown toolKind = iota
	kindStockPrice
	kindStockAnalysis
	kindScrapeURL
)

func kindOf(name string) toolKind {
	switch name {
	case tooling.ToolGetStockPrice:
		return kindStockPrice
	case tooling.ToolGetStockAnalysis:
		return kindStockAnalysis
	case tooling.ToolScrapeURL:
		return kindScrapeURL
	default:
		return kindUnknown
	}
}

// UnknownToolError is returned (as a raised error, not a text payload) when a
// caller names a tool that is not registered. This indicates an integration
// bug on the caller's side, unlike user-input problems which always come back
// as text.
type UnknownToolError struct {
	Name      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q: available tools: %s", e.Name, strings.Join(e.Available, ", "))
}

// Required-parameter failures are returned as text, never raised: the calling
// host expects a text payload for every invocation, success or failure.
const (
	msgSymbolRequired = "Error: 'symbol' parameter is required."
	msgURLRequired    = "Error: 'url' parameter is required."
)

// Dispatcher routes one tool call to exactly one collaborator. It holds no
// mutable state: the collaborator handles are set at construction and only
// read afterwards, so concurrent Dispatch calls need no synchronization.
type Dispatcher struct {
	registry *tooling.Registry
	market   domain.MarketScraper
	web      domain.WebScraper
	logger   *slog.Logger // optional; nil uses slog.Default()
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for collaborator failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates a Dispatcher with its collaborators injected. Panics if any
// required dependency is nil; wiring happens once at process start.
func New(registry *tooling.Registry, market domain.MarketScraper, web domain.WebScraper, opts ...Option) *Dispatcher {
	if registry == nil {
		panic("dispatch: registry must not be nil")
	}
	if market == nil {
		panic("dispatch: market scraper must not be nil")
	}
	if web == nil {
		panic("dispatch: web scraper must not be nil")
	}
	d := &Dispatcher{registry: registry, market: market, web: web}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) log() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return slog.Default()
}

// Definitions exposes the registry's descriptors verbatim, in registry order,
// for advertisement to the calling host.
func (d *Dispatcher) Definitions() []domain.ToolDefinition {
	return d.registry.Definitions()
}

// Dispatch routes (name, arguments) to the matching collaborator and returns
// the plain-text result. Missing required arguments and collaborator-reported
// fetch failures come back as descriptive text with a nil error; an
// unregistered name returns *UnknownToolError.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	switch kindOf(name) {
	case kindStockPrice:
		return d.stockPrice(ctx, args)
	case kindStockAnalysis:
		return d.stockAnalysis(ctx, args)
	case kindScrapeURL:
		return d.scrapeURL(ctx, args)
	default:
		return "", &UnknownToolError{Name: name, Available: d.registry.Names()}
	}
}

// stringArg extracts a string argument by key, trimming surrounding
// whitespace. Non-string values collapse to "".
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func (d *Dispatcher) stockPrice(ctx context.Context, args map[string]any) (string, error) {
	symbol := strings.ToUpper(stringArg(args, "symbol"))
	if symbol == "" {
		return msgSymbolRequired, nil
	}
	q, err := d.market.ScrapeOne(ctx, symbol, false, false)
	if err != nil {
		return "", fmt.Errorf("market scrape for %s: %w", symbol, err)
	}
	if !q.ScrapedOK {
		d.log().Warn("price fetch failed", "symbol", symbol, "error", q.Error)
		return fmt.Sprintf("Could not fetch price for %s: %s", symbol, q.Error), nil
	}
	return format.Price(q), nil
}

func (d *Dispatcher) stockAnalysis(ctx context.Context, args map[string]any) (string, error) {
	symbol := strings.ToUpper(stringArg(args, "symbol"))
	if symbol == "" {
		return msgSymbolRequired, nil
	}
	q, err := d.market.ScrapeOne(ctx, symbol, true, true)
	if err != nil {
		return "", fmt.Errorf("market scrape for %s: %w", symbol, err)
	}
	if !q.ScrapedOK {
		d.log().Warn("analysis fetch failed", "symbol", symbol, "error", q.Error)
		return fmt.Sprintf("Could not fetch analysis for %s: %s", symbol, q.Error), nil
	}
	return format.Analysis(q), nil
}

func (d *Dispatcher) scrapeURL(ctx context.Context, args map[string]any) (string, error) {
	url := stringArg(args, "url")
	if url == "" {
		return msgURLRequired, nil
	}
	// The collaborator embeds its own error text in the returned string; its
	// output is passed through verbatim.
	text, err := d.web.Scrape(ctx, url)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", url, err)
	}
	return text, nil
}

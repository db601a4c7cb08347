// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic. Consumers register hooks
// at startup and the library packages report data loads, layout solves,
// rendering, cache traffic, and outgoing HTTP requests through them.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default. [Register]
// swaps in implementations at startup; [LogHooks] is a ready-made set that
// writes every event to a charmbracelet logger at debug level.
//
// # Usage
//
//	observability.Register(observability.LogHooks(logger))
//	observability.Register(observability.Hooks{Cache: &myCacheMetrics{}})
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnSolveStart(ctx, root.Name, len(root.Children))
//	// ... solve ...
//	observability.Layout().OnSolveComplete(ctx, attempts, degraded, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from data loads.
type FetchHooks interface {
	// OnLoadStart records the start of an index + detail load from base.
	OnLoadStart(ctx context.Context, base string)

	// OnLoadComplete records the end of a load.
	OnLoadComplete(ctx context.Context, base string, entities int, duration time.Duration, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout solver.
type LayoutHooks interface {
	OnSolveStart(ctx context.Context, root string, topLevel int)
	OnSolveAttempt(ctx context.Context, attempt, isolated int, err error)
	OnSolveComplete(ctx context.Context, attempts int, degraded bool, duration time.Duration, err error)

	// OnRelayout records an outer relayout retry scheduled by the controller.
	OnRelayout(ctx context.Context, retry int, exhausted bool)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from artifact rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure; HTTP error statuses go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnLoadStart(context.Context, string)                               {}
func (NoopFetchHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnSolveStart(context.Context, string, int)                        {}
func (NoopLayoutHooks) OnSolveAttempt(context.Context, int, int, error)                  {}
func (NoopLayoutHooks) OnSolveComplete(context.Context, int, bool, time.Duration, error) {}
func (NoopLayoutHooks) OnRelayout(context.Context, int, bool)                            {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// Hooks groups one implementation per event category. Nil fields keep the
// currently registered hooks.
type Hooks struct {
	Fetch  FetchHooks
	Layout LayoutHooks
	Render RenderHooks
	Cache  CacheHooks
	HTTP   HTTPHooks
}

func noopHooks() Hooks {
	return Hooks{
		Fetch:  NoopFetchHooks{},
		Layout: NoopLayoutHooks{},
		Render: NoopRenderHooks{},
		Cache:  NoopCacheHooks{},
		HTTP:   NoopHTTPHooks{},
	}
}

var (
	hooksMu  sync.RWMutex
	registry = noopHooks()
)

// Register installs h. Call it at startup, before any load or solve.
func Register(h Hooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h.Fetch != nil {
		registry.Fetch = h.Fetch
	}
	if h.Layout != nil {
		registry.Layout = h.Layout
	}
	if h.Render != nil {
		registry.Render = h.Render
	}
	if h.Cache != nil {
		registry.Cache = h.Cache
	}
	if h.HTTP != nil {
		registry.HTTP = h.HTTP
	}
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	registry = noopHooks()
}

func current() Hooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registry
}

// Fetch returns the registered data load hooks.
func Fetch() FetchHooks { return current().Fetch }

// Layout returns the registered layout hooks.
func Layout() LayoutHooks { return current().Layout }

// Render returns the registered render hooks.
func Render() RenderHooks { return current().Render }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current().Cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current().HTTP }

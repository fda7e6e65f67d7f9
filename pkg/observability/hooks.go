// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through hook interfaces without depending on an
// observability backend. Consumers register hooks at startup to receive
// events about world setup, card selection, cache operations and API
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the library
// packages free of import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSetupHooks(&mySetupHooks{})
//	    observability.SetSelectorHooks(&mySelectorHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Setup().OnSolveStart(ctx, surname, nodes)
//	// ... solve ...
//	observability.Setup().OnSolveComplete(ctx, surname, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Setup Hooks
// =============================================================================

// SetupHooks receives events from world setup.
type SetupHooks interface {
	// Solve events, once per directly solved family.
	OnSolveStart(ctx context.Context, family string, nodes int)
	OnSolveComplete(ctx context.Context, family string, edges int, duration time.Duration, err error)

	// OnEnumerateComplete records the size of the generated deck.
	OnEnumerateComplete(ctx context.Context, templates, cards int, duration time.Duration)
}

// =============================================================================
// Selector Hooks
// =============================================================================

// SelectorHooks receives events from card selection.
type SelectorHooks interface {
	// OnCardSelected records a card becoming current.
	OnCardSelected(ctx context.Context, template string, week int, followup bool)

	// OnExhausted records an advance past the end of the deck.
	OnExhausted(ctx context.Context, shown int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSetupHooks is a no-op implementation of SetupHooks.
type NoopSetupHooks struct{}

func (NoopSetupHooks) OnSolveStart(context.Context, string, int) {}
func (NoopSetupHooks) OnSolveComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopSetupHooks) OnEnumerateComplete(context.Context, int, int, time.Duration) {}

// NoopSelectorHooks is a no-op implementation of SelectorHooks.
type NoopSelectorHooks struct{}

func (NoopSelectorHooks) OnCardSelected(context.Context, string, int, bool) {}
func (NoopSelectorHooks) OnExhausted(context.Context, int)                  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	setupHooks    SetupHooks    = NoopSetupHooks{}
	selectorHooks SelectorHooks = NoopSelectorHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetSetupHooks registers custom setup hooks.
// This should be called once at application startup before any world is built.
func SetSetupHooks(h SetupHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		setupHooks = h
	}
}

// SetSelectorHooks registers custom selector hooks.
func SetSelectorHooks(h SelectorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		selectorHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Setup returns the registered setup hooks.
func Setup() SetupHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return setupHooks
}

// Selector returns the registered selector hooks.
func Selector() SelectorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return selectorHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	setupHooks = NoopSetupHooks{}
	selectorHooks = NoopSelectorHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about model changes and snapshot loading.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Items are identified by their slash separated path ("site/program/function")
// so that this package does not depend on the item types.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetModelHooks(&myModelHooks{})
//	    observability.SetLoadHooks(&myLoadHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Load().OnLoadStart(ctx, path)
//	// ... decode and apply ...
//	observability.Load().OnLoadComplete(ctx, path, entries, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Model Hooks
// =============================================================================

// ModelHooks receives the change notifications of the operations model.
// The tree view and the graph view are driven by these events.
type ModelHooks interface {
	// Structure events
	OnItemAdded(path, kind string)
	OnItemRemoved(path, kind string)

	// OnRelationAdded and OnRelationRemoved report predecessor edges, from
	// the upstream function to the downstream one.
	OnRelationAdded(from, to string)
	OnRelationRemoved(from, to string)

	// OnDataChanged reports that key changed the item's column values.
	OnDataChanged(path, key string)

	// OnStorageChanged reports a change to a property that affects archive
	// storage planning (worker, archive times and sizes).
	OnStorageChanged(path, key string)

	// OnPositionChanged reports a new row after a reorder.
	OnPositionChanged(path string, row int)

	// OnCollapseChanged reports a collapse toggle.
	OnCollapseChanged(path string, collapsed bool)
}

// =============================================================================
// Load Hooks
// =============================================================================

// LoadHooks receives events from snapshot loading and file watching.
type LoadHooks interface {
	// OnLoadStart records the start of a snapshot load.
	OnLoadStart(ctx context.Context, path string)

	// OnLoadComplete records a finished load with the number of entries applied.
	OnLoadComplete(ctx context.Context, path string, entries int, duration time.Duration, err error)

	// OnReload records a load triggered by a file change.
	OnReload(ctx context.Context, path string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopModelHooks is a no-op implementation of ModelHooks.
type NoopModelHooks struct{}

func (NoopModelHooks) OnItemAdded(string, string)       {}
func (NoopModelHooks) OnItemRemoved(string, string)     {}
func (NoopModelHooks) OnRelationAdded(string, string)   {}
func (NoopModelHooks) OnRelationRemoved(string, string) {}
func (NoopModelHooks) OnDataChanged(string, string)     {}
func (NoopModelHooks) OnStorageChanged(string, string)  {}
func (NoopModelHooks) OnPositionChanged(string, int)    {}
func (NoopModelHooks) OnCollapseChanged(string, bool)   {}

// NoopLoadHooks is a no-op implementation of LoadHooks.
type NoopLoadHooks struct{}

func (NoopLoadHooks) OnLoadStart(context.Context, string)                              {}
func (NoopLoadHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopLoadHooks) OnReload(context.Context, string)                                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	modelHooks ModelHooks = NoopModelHooks{}
	loadHooks  LoadHooks  = NoopLoadHooks{}
	hooksMu    sync.RWMutex
)

// SetModelHooks registers custom model hooks.
// Models created afterwards without explicit hooks use them.
func SetModelHooks(h ModelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		modelHooks = h
	}
}

// SetLoadHooks registers custom load hooks.
// This should be called once at application startup before any load.
func SetLoadHooks(h LoadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		loadHooks = h
	}
}

// Model returns the registered model hooks.
func Model() ModelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return modelHooks
}

// Load returns the registered load hooks.
func Load() LoadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return loadHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	modelHooks = NoopModelHooks{}
	loadHooks = NoopLoadHooks{}
}

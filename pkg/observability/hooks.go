// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about room mutations, durable storage and
// share-link decoding. The [prom] subpackage provides a Prometheus
// implementation used by the serve command.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(myHooks)
//	    observability.SetStorageHooks(myHooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnMutation(observability.OpAdd, len(placed))
//
// [prom]: github.com/matzehuels/roomkit/pkg/observability/prom
package observability

import (
	"context"
	"sync"
	"time"
)

// Mutation and history operation names passed to EngineHooks.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpUpdate = "update"
	OpClear  = "clear"
	OpLoad   = "load"
	OpUndo   = "undo"
	OpRedo   = "redo"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the placement store.
type EngineHooks interface {
	// OnMutation records a change to the placed list and its new length.
	OnMutation(op string, placed int)

	// OnHistory records an undo or redo and the resulting stack depths.
	OnHistory(op string, past, future int)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from durable storage of room state.
type StorageHooks interface {
	// OnRestore records the outcome of the one-time startup read.
	OnRestore(ctx context.Context, key, outcome string)

	// OnPersist records a write-through attempt.
	OnPersist(ctx context.Context, key string, size int, duration time.Duration, err error)

	// OnPersistSkipped records a write elided because the payload was unchanged.
	OnPersistSkipped(ctx context.Context, key string)
}

// =============================================================================
// Share Hooks
// =============================================================================

// ShareHooks receives events from share-link decoding.
type ShareHooks interface {
	// OnShareDecoded records the outcome of decoding a share link.
	OnShareDecoded(ctx context.Context, outcome string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnMutation(string, int)     {}
func (NoopEngineHooks) OnHistory(string, int, int) {}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnRestore(context.Context, string, string)                    {}
func (NoopStorageHooks) OnPersist(context.Context, string, int, time.Duration, error) {}
func (NoopStorageHooks) OnPersistSkipped(context.Context, string)                     {}

// NoopShareHooks is a no-op implementation of ShareHooks.
type NoopShareHooks struct{}

func (NoopShareHooks) OnShareDecoded(context.Context, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks  EngineHooks  = NoopEngineHooks{}
	storageHooks StorageHooks = NoopStorageHooks{}
	shareHooks   ShareHooks   = NoopShareHooks{}
	hooksMu      sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// SetShareHooks registers custom share hooks.
// This should be called once at application startup.
func SetShareHooks(h ShareHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		shareHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// Share returns the registered share hooks.
func Share() ShareHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return shareHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	storageHooks = NoopStorageHooks{}
	shareHooks = NoopShareHooks{}
}

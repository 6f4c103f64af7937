// Package runtime supplies the embedder-facing collaborator the object
// package consumes: identity allocation, the configuration record spec'd in
// place of ad hoc experiment flags, structured logging, and a handle-scope
// API bounding root-set growth in loops that hold object references across
// calls back into managed code.
package runtime

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"jsobject/pkg/object"
)

// Config is the tunable half of a Runtime, broken out so callers can build
// one as a literal (or start from DefaultConfig) without touching the
// identity allocator.
type Config struct {
	// FreezeBuiltinsFatalOnOverride mirrors the original build-time toggle
	// that made writes to sealed static builtins abort the process instead
	// of failing an ordinary TypeError/false path. Off by default.
	FreezeBuiltinsFatalOnOverride bool
	// ForInCacheMaxRatio bounds for-in cache installation; see
	// object.RuntimeConfig. Defaults to 4, matching the original engine.
	ForInCacheMaxRatio int
	// Logger receives structured diagnostics (property-cache invalidation,
	// dictionary-mode transitions, lazy-object initialization failures).
	// A nil Logger falls back to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration new Runtimes use when constructed
// with New instead of NewWithConfig.
func DefaultConfig() Config {
	return Config{
		ForInCacheMaxRatio: 4,
		Logger:             slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// Runtime is the concrete object.Runtime implementation: a monotonic,
// wraparound-safe object-identity counter plus the configuration record.
type Runtime struct {
	cfg    Config
	nextID uint64

	handleMu sync.Mutex
	handles  []*object.JSObject
}

var _ object.Runtime = (*Runtime)(nil)

// New builds a Runtime with DefaultConfig.
func New() *Runtime {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig builds a Runtime from an explicit configuration record. A
// nil cfg.Logger is replaced with slog.Default().
func NewWithConfig(cfg Config) *Runtime {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ForInCacheMaxRatio <= 0 {
		cfg.ForInCacheMaxRatio = 4
	}
	return &Runtime{cfg: cfg}
}

// NextObjectID returns a fresh, process-unique, nonzero identity. Zero is
// reserved to mean "unassigned" by object.JSObject, so a wraparound landing
// on zero is skipped.
func (r *Runtime) NextObjectID() uint64 {
	for {
		id := atomic.AddUint64(&r.nextID, 1)
		if id != 0 {
			return id
		}
	}
}

// Config returns the object-package view of this runtime's settings.
func (r *Runtime) Config() object.RuntimeConfig {
	return object.RuntimeConfig{
		FreezeBuiltinsFatalOnOverride: r.cfg.FreezeBuiltinsFatalOnOverride,
		ForInCacheMaxRatio:            r.cfg.ForInCacheMaxRatio,
	}
}

// Logger exposes the structured logger backing this runtime, for callers
// (host objects, array subclasses) that want to log through the same sink.
func (r *Runtime) Logger() *slog.Logger { return r.cfg.Logger }

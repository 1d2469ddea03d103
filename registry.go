package foldpipe

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
)

// Observability constants for the Registry.
const (
	// Metrics.
	RegistryCreatedTotal  = metricz.Key("registry.created.total")
	RegistryMissesTotal   = metricz.Key("registry.misses.total")
	RegistryPromotedTotal = metricz.Key("registry.promoted.total")

	// Hook event keys.
	RegistryEventRegistered = hookz.Key("registry.registered")
	RegistryEventPromoted   = hookz.Key("registry.promoted")
)

// RegistryEvent represents a registry mutation event.
type RegistryEvent struct {
	Processor Name      // Name being registered or promoted
	Lazy      bool      // Whether the entry went into the pending map
	Overwrote bool      // Whether an active entry was replaced
	Timestamp time.Time // When the event occurred
}

// Params is the named-parameter map a Builder consumes. Values typically come
// from Go literals, TOML pipeline files, or decoded JSON, so the typed getters
// are tolerant about numeric representations (int, int64, float64 all satisfy
// an int parameter).
type Params map[string]any

// Int fetches an integer parameter. Whole-valued floats are accepted because
// decoded config files frequently deliver them.
func (p Params) Int(key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// String fetches a string parameter.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool fetches a boolean parameter.
func (p Params) Bool(key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Slice fetches a list parameter as []any, converting typed slices that TOML
// and CSV layers commonly produce.
func (p Params) Slice(key string) ([]any, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}
	return nil, false
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Builder constructs a processor instance from named parameters.
// Builders validate their closed-set parameters (operation kinds, output
// formats) eagerly and report violations with a *ParameterError.
type Builder func(Params) (Chainable[any], error)

// Registry maps processor names to builders. It is an explicit value with a
// documented lifecycle - construct once at startup, register the processors
// the host needs, then hand it to pipeline builders - rather than hidden
// package-level state, so tests and independent subsystems cannot leak
// registrations into each other.
//
// Entries registered lazily sit in a pending map and do not count as
// registered until Create first asks for them, at which point they are
// promoted to the active map and behave like any other entry.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	active  map[Name]Builder
	pending map[Name]Builder
	metrics *metricz.Registry
	hooks   *hookz.Hooks[RegistryEvent]
}

// New returns an empty Registry.
func New() *Registry {
	metrics := metricz.New()
	metrics.Counter(RegistryCreatedTotal)
	metrics.Counter(RegistryMissesTotal)
	metrics.Counter(RegistryPromotedTotal)

	return &Registry{
		active:  make(map[Name]Builder),
		pending: make(map[Name]Builder),
		metrics: metrics,
		hooks:   hookz.New[RegistryEvent](),
	}
}

// Register inserts or overwrites the builder for name. Overwriting is silent
// and deliberate - last writer wins - so callers can substitute behavior for
// an already-registered name.
func (r *Registry) Register(name Name, builder Builder) {
	r.mu.Lock()
	_, overwrote := r.active[name]
	r.active[name] = builder
	r.mu.Unlock()

	_ = r.hooks.Emit(context.Background(), RegistryEventRegistered, RegistryEvent{ //nolint:errcheck
		Processor: name,
		Overwrote: overwrote,
		Timestamp: time.Now(),
	})
}

// LazyRegister inserts the builder into the pending map. The name does not
// appear as registered until its first Create promotes it.
func (r *Registry) LazyRegister(name Name, builder Builder) {
	r.mu.Lock()
	r.pending[name] = builder
	r.mu.Unlock()

	_ = r.hooks.Emit(context.Background(), RegistryEventRegistered, RegistryEvent{ //nolint:errcheck
		Processor: name,
		Lazy:      true,
		Timestamp: time.Now(),
	})
}

// Create instantiates the named processor with params. A pending entry is
// promoted to the active map first. When the name is in neither map the call
// fails with a *ProcessorNotFoundError carrying the active names.
func (r *Registry) Create(name Name, params Params) (Chainable[any], error) {
	r.mu.Lock()
	if builder, ok := r.pending[name]; ok {
		r.active[name] = builder
		delete(r.pending, name)
		r.mu.Unlock()

		r.metrics.Counter(RegistryPromotedTotal).Inc()
		_ = r.hooks.Emit(context.Background(), RegistryEventPromoted, RegistryEvent{ //nolint:errcheck
			Processor: name,
			Timestamp: time.Now(),
		})
		r.mu.Lock()
	}
	builder, ok := r.active[name]
	r.mu.Unlock()

	if !ok {
		r.metrics.Counter(RegistryMissesTotal).Inc()
		return nil, &ProcessorNotFoundError{
			Processor: name,
			Available: r.Names(),
		}
	}

	proc, err := builder(params)
	if err != nil {
		return nil, err
	}
	r.metrics.Counter(RegistryCreatedTotal).Inc()
	return proc, nil
}

// IsRegistered reports whether name is in the active map. Pending lazy
// registrations do not count until their first Create promotes them.
func (r *Registry) IsRegistered(name Name) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.active[name]
	return ok
}

// Snapshot returns a copy of the active map. Mutating the copy does not
// affect the registry.
func (r *Registry) Snapshot() map[Name]Builder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[Name]Builder, len(r.active))
	for name, builder := range r.active {
		snapshot[name] = builder
	}
	return snapshot
}

// Names returns every resolvable processor name, sorted. Pending lazy
// registrations count; they resolve on first Create.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.active)+len(r.pending))
	for name := range r.active {
		names = append(names, string(name))
	}
	for name := range r.pending {
		if _, dup := r.active[name]; !dup {
			names = append(names, string(name))
		}
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Metrics returns the metrics registry for this Registry.
func (r *Registry) Metrics() *metricz.Registry {
	return r.metrics
}

// OnRegistered registers a handler fired on Register and LazyRegister calls.
func (r *Registry) OnRegistered(handler func(context.Context, RegistryEvent) error) error {
	_, err := r.hooks.Hook(RegistryEventRegistered, handler)
	return err
}

// OnPromoted registers a handler fired when a pending entry becomes active.
func (r *Registry) OnPromoted(handler func(context.Context, RegistryEvent) error) error {
	_, err := r.hooks.Hook(RegistryEventPromoted, handler)
	return err
}

// Close gracefully shuts down observability components.
func (r *Registry) Close() error {
	r.hooks.Close()
	return nil
}

package vo

import (
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Registry maps raw types to the registered kinds that accept them. Each raw
// type belongs to at most one kind. All methods are safe for concurrent use;
// writes are serialized and lookups share a read lock.
type Registry struct {
	mu       sync.RWMutex
	order    []*Kind
	accepted map[*Kind][]reflect.Type
	owners   map[reflect.Type]*Kind
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		accepted: make(map[*Kind][]reflect.Type),
		owners:   make(map[reflect.Type]*Kind),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry holding the built-in
// kinds.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.MustRegister(BuiltinKinds()...)
	})
	return defaultRegistry
}

// Register records every raw type the kind accepts. Registration is all or
// nothing: on error the registry is left unchanged.
func (r *Registry) Register(k *Kind) error {
	if k == nil || k == RootKind || !k.DerivesFrom(RootKind) {
		return NewRegistryShapeError(k.Name(), "does not derive from value object")
	}
	switch len(k.params) {
	case 0:
		return NewRegistryShapeError(k.name, "missing type parameter")
	case 1:
	default:
		return NewRegistryShapeError(k.name, "multiple generic bases - ambiguous")
	}

	var types []reflect.Type
	for _, t := range k.params[0] {
		if t == nil {
			return NewRegistryShapeError(k.name, "missing type parameter")
		}
		t = Normalize(t)
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		if owner, ok := r.owners[t]; ok {
			r.logger.Warn("value object kind conflict",
				slog.String("kind", k.name),
				slog.String("raw_type", t.String()),
				slog.String("owner", owner.name),
			)
			return NewRegistryConflictError(t, owner.name, k.name)
		}
	}
	if _, ok := r.accepted[k]; ok {
		return NewRegistryConflictError(types[0], k.name, k.name)
	}

	r.accepted[k] = types
	for _, t := range types {
		r.owners[t] = k
	}
	r.order = append(r.order, k)

	r.logger.Debug("value object kind registered",
		slog.String("kind", k.name),
		slog.Int("raw_types", len(types)),
	)
	return nil
}

// MustRegister registers kinds and panics on the first error.
func (r *Registry) MustRegister(kinds ...*Kind) {
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			panic(err)
		}
	}
}

// Unregister removes the kind and all of its raw types. It returns false if
// the kind was not registered.
func (r *Registry) Unregister(k *Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	types, ok := r.accepted[k]
	if !ok {
		return false
	}
	for _, t := range types {
		delete(r.owners, t)
	}
	delete(r.accepted, k)
	r.order = slices.DeleteFunc(r.order, func(x *Kind) bool { return x == k })

	r.logger.Debug("value object kind unregistered", slog.String("kind", k.name))
	return true
}

// Reset removes every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.accepted = make(map[*Kind][]reflect.Type)
	r.owners = make(map[reflect.Type]*Kind)
}

// IsRegistered reports whether the kind is registered.
func (r *Registry) IsRegistered(k *Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accepted[k]
	return ok
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []*Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// AcceptedTypes returns the normalized raw types recorded for the kind.
func (r *Registry) AcceptedTypes(k *Kind) []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.accepted[k])
}

// KindFor returns the kind that claimed exactly this raw type.
func (r *Registry) KindFor(t reflect.Type) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.owners[Normalize(t)]
	return k, ok
}

// SelectMatching returns RootKind followed by every registered kind with an
// accepted raw type that t is a subtype of, in registration order.
func (r *Registry) SelectMatching(t reflect.Type) []*Kind {
	t = Normalize(t)
	out := []*Kind{RootKind}
	if t == nil {
		return out
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range r.order {
		for _, at := range r.accepted[k] {
			if isSubtype(t, at) {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// SelectBest returns the most specific kind for t: the candidate whose
// matching accepted type has the longest ancestor chain. Equally specific
// candidates resolve to the earliest registered one. RootKind is returned
// when nothing else matches.
func (r *Registry) SelectBest(t reflect.Type) *Kind {
	candidates := r.SelectMatching(t)
	if len(candidates) == 1 {
		return candidates[0]
	}
	t = Normalize(t)

	r.mu.RLock()
	defer r.mu.RUnlock()
	best, bestDepth := RootKind, 0
	for _, k := range candidates[1:] {
		depth := 0
		for _, at := range r.accepted[k] {
			if isSubtype(t, at) {
				depth = max(depth, chainLength(at))
			}
		}
		if depth > bestDepth {
			best, bestDepth = k, depth
		}
	}
	return best
}

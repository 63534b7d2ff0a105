package shelf

import (
	"context"
	"maps"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Registry maps Type tokens to their Schema. It is safe for concurrent
// reads; complete registration before encoding or decoding concurrently.
type Registry struct {
	mu      sync.RWMutex
	schemas map[*Type]*Schema
	byGo    map[reflect.Type][]*Type // registration order; the last entry owns instances
	log     *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes registry and decoder debug events to l.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		schemas: map[*Type]*Schema{},
		byGo:    map[reflect.Type][]*Type{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register declares t at version v with the given fields and returns the
// Schema handle for chaining. Registering t again replaces its schema.
// When several tokens share a Go type, Manifest tags instances with the
// most recently registered one.
func (r *Registry) Register(t *Type, v string, fields Fields) *Schema {
	if t == nil {
		panic("shelf: Register with nil Type")
	}
	s := newSchema(t, v, fields)
	r.mu.Lock()
	r.schemas[t] = s
	r.byGo[t.rtype] = append(withoutToken(r.byGo[t.rtype], t), t)
	r.mu.Unlock()
	r.log.Debug("shelf: registered",
		zap.String("type", t.name),
		zap.Stringer("version", s.version),
		zap.Int("fields", len(s.fields)))
	return s
}

// Unregister removes t and returns its schema, if it was registered.
func (r *Registry) Unregister(t *Type) (*Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schemas[t]
	if !ok {
		return nil, false
	}
	delete(r.schemas, t)
	if rest := withoutToken(r.byGo[t.rtype], t); len(rest) > 0 {
		r.byGo[t.rtype] = rest
	} else {
		delete(r.byGo, t.rtype)
	}
	r.log.Debug("shelf: unregistered", zap.String("type", t.name))
	return s, true
}

// Contains reports whether t is registered.
func (r *Registry) Contains(t *Type) bool {
	_, ok := r.Lookup(t)
	return ok
}

// Lookup returns the schema registered for t.
func (r *Registry) Lookup(t *Type) (*Schema, bool) {
	r.mu.RLock()
	s, ok := r.schemas[t]
	r.mu.RUnlock()
	return s, ok
}

// Types returns the registered tokens in name order.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	out := slices.Collect(maps.Keys(r.schemas))
	r.mu.RUnlock()
	slices.SortFunc(out, byName)
	return out
}

// typeOf resolves the registered token for a Go struct type.
func (r *Registry) typeOf(rt reflect.Type) (*Type, *Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tokens := r.byGo[rt]
	if len(tokens) == 0 {
		return nil, nil, false
	}
	t := tokens[len(tokens)-1]
	s, ok := r.schemas[t]
	return t, s, ok
}

func withoutToken(tokens []*Type, t *Type) []*Type {
	return slices.DeleteFunc(slices.Clone(tokens), func(x *Type) bool { return x == t })
}

// ---- default registry ----

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry { return defaultRegistry }

// Register declares t on the default registry.
func Register(t *Type, v string, fields Fields) *Schema {
	return defaultRegistry.Register(t, v, fields)
}

// Unregister removes t from the default registry.
func Unregister(t *Type) (*Schema, bool) { return defaultRegistry.Unregister(t) }

// Manifest encodes v using the default registry.
func Manifest(ctx context.Context, v any) (any, error) { return defaultRegistry.Manifest(ctx, v) }

// Serialize is an alias of Manifest.
func Serialize(ctx context.Context, v any) (any, error) { return defaultRegistry.Manifest(ctx, v) }

// Construct decodes data as t using the default registry.
func Construct(ctx context.Context, t *Type, data any) (any, error) {
	return defaultRegistry.Construct(ctx, t, data)
}

// Deserialize is an alias of Construct.
func Deserialize(ctx context.Context, t *Type, data any) (any, error) {
	return defaultRegistry.Construct(ctx, t, data)
}

// ToJSON returns the JSON text of Manifest(v) using the default registry.
func ToJSON(ctx context.Context, v any) (string, error) { return defaultRegistry.ToJSON(ctx, v) }

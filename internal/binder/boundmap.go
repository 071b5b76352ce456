package binder

import (
	"strings"

	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/sig"
	"github.com/funvibe/sigbind/internal/types"
)

// Builder lazily computes a parameter's value. It runs with the current,
// possibly partially resolved map visible, so it may read other parameters
// (triggering their resolution transitively).
type Builder func(m *BoundMap) (interface{}, error)

// BuilderResolver resolves builder names to callables. The host's callable
// registry implements this; tests use BuilderFuncs.
type BuilderResolver interface {
	ResolveBuilder(name string) (Builder, bool)
}

// BuilderFuncs is a plain map-backed BuilderResolver.
type BuilderFuncs map[string]Builder

func (b BuilderFuncs) ResolveBuilder(name string) (Builder, bool) {
	fn, ok := b[name]
	return fn, ok
}

// BoundMap is the per-invocation name→value mapping handed to a callable
// body. It is read-only: writes fail, as do reads of undeclared names.
// Builder-backed entries materialize on first read and are memoized for the
// map's lifetime. A map belongs to exactly one invocation and must not be
// shared across goroutines.
type BoundMap struct {
	signature    *sig.Signature
	invocationID string
	builders     BuilderResolver
	values       map[string]interface{}
	resolving    []string // builder resolution stack, for cycle detection
}

// Signature returns the signature this map was bound against.
func (m *BoundMap) Signature() *sig.Signature { return m.signature }

// InvocationID identifies the invocation that produced this map. It is
// carried on bind-time errors for correlation.
func (m *BoundMap) InvocationID() string { return m.invocationID }

// Has reports whether the parameter currently has a materialized value.
// It never triggers builder resolution.
func (m *BoundMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Get returns the parameter's value, resolving its builder on first read.
// An optional parameter with no value, default, or builder yields nil
// without error. Reading an undeclared name fails with UnknownParameter.
func (m *BoundMap) Get(name string) (interface{}, error) {
	param, ok := m.signature.Lookup(name)
	if !ok {
		return nil, &diagnostics.Error{
			Code:       diagnostics.ErrUnknownParameter,
			Param:      name,
			Invocation: m.invocationID,
			Message:    "no such parameter",
		}
	}
	if v, ok := m.values[name]; ok {
		return v, nil
	}
	if param.Default.Kind == sig.Builder {
		return m.resolve(param)
	}
	// Optional, unbound, no default: falsy sentinel.
	return nil, nil
}

// MustGet is Get for contexts where map misuse is a programming error.
func (m *BoundMap) MustGet(name string) interface{} {
	v, err := m.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Set always fails: the map is read-only for the callable body.
func (m *BoundMap) Set(name string, _ interface{}) error {
	return &diagnostics.Error{
		Code:       diagnostics.ErrReadOnlyViolation,
		Param:      name,
		Invocation: m.invocationID,
		Message:    "bound parameter map is read-only",
	}
}

// Names returns the declared parameter names in declaration order.
func (m *BoundMap) Names() []string {
	out := make([]string, 0, len(m.signature.Params))
	for _, p := range m.signature.Params {
		out = append(out, p.Name)
	}
	return out
}

// Values is the aggregate retrieval accessor. It resolves each named
// parameter in order; if the final parameter's declared type is a known
// aggregate kind, its contents are spread element-wise into the result.
func (m *BoundMap) Values(names ...string) ([]interface{}, error) {
	var out []interface{}
	for i, name := range names {
		v, err := m.Get(name)
		if err != nil {
			return nil, err
		}
		last := i == len(names)-1
		if last {
			if param, ok := m.signature.Lookup(name); ok && types.IsAggregate(param.TypeName) {
				out = append(out, spread(v)...)
				continue
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func spread(v interface{}) []interface{} {
	switch agg := v.(type) {
	case []interface{}:
		return agg
	case map[string]interface{}:
		// Deterministic order is the caller's concern for maps; entries are
		// spread as key, value pairs.
		out := make([]interface{}, 0, len(agg)*2)
		for k, val := range agg {
			out = append(out, k, val)
		}
		return out
	case nil:
		return nil
	default:
		return []interface{}{v}
	}
}

// resolve runs the parameter's builder, memoizing the result. Re-entrant
// resolution of the same parameter is a circular dependency and fails with
// the full cycle.
func (m *BoundMap) resolve(param *sig.Parameter) (interface{}, error) {
	for _, active := range m.resolving {
		if active == param.Name {
			cycle := append(append([]string{}, m.resolving...), param.Name)
			return nil, &diagnostics.Error{
				Code:       diagnostics.ErrCircularBuilder,
				Param:      param.Name,
				Invocation: m.invocationID,
				Message:    "circular builder dependency: " + strings.Join(cycle, " -> "),
			}
		}
	}

	builderName := param.Default.Builder
	var fn Builder
	ok := false
	if m.builders != nil {
		fn, ok = m.builders.ResolveBuilder(builderName)
	}
	if !ok {
		return nil, &diagnostics.Error{
			Code:       diagnostics.ErrNameNotFound,
			Param:      param.Name,
			Invocation: m.invocationID,
			Message:    "builder " + builderName + " is not registered",
		}
	}

	m.resolving = append(m.resolving, param.Name)
	v, err := fn(m)
	m.resolving = m.resolving[:len(m.resolving)-1]
	if err != nil {
		return nil, err
	}
	m.values[param.Name] = v
	return v, nil
}

// Package types implements the constraint registry the binder consults to
// validate and coerce bound values. The binder depends only on the Lookup /
// Check / Coerce surface; everything else here is the default in-process
// implementation of that surface.
package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/diagnostics"
)

// Constraint validates values bound under a type name, with an optional
// coercion path applied before validation when the parameter opted in.
type Constraint interface {
	Name() string
	// Check asserts validity; a nil return means the value is acceptable.
	Check(v interface{}) error
	// HasCoercion reports whether Coerce can transform foreign values.
	HasCoercion() bool
	// Coerce transforms v into a value acceptable to Check, or fails.
	Coerce(v interface{}) (interface{}, error)
}

// Registry maps constraint names to constraints. Lookups on parameterized
// names (ArrayRef[Int]) fall back to the base constructor with the element
// constraint applied to every element.
type Registry struct {
	mu          sync.RWMutex
	constraints map[string]Constraint
}

func NewRegistry() *Registry {
	return &Registry{constraints: make(map[string]Constraint)}
}

// Register adds or replaces a constraint under its name.
func (r *Registry) Register(c Constraint) {
	r.mu.Lock()
	r.constraints[c.Name()] = c
	r.mu.Unlock()
}

// Lookup resolves a constraint name. Exact matches win; a parameterized
// name like ArrayRef[Int] is composed from its base and element parts.
func (r *Registry) Lookup(name string) (Constraint, bool) {
	r.mu.RLock()
	c, ok := r.constraints[name]
	r.mu.RUnlock()
	if ok {
		return c, true
	}

	base, elem, parameterized := splitParameterized(name)
	if !parameterized {
		return nil, false
	}
	baseC, ok := r.lookupExact(base)
	if !ok {
		return nil, false
	}
	elemC, ok := r.Lookup(elem)
	if !ok {
		return nil, false
	}
	composed := &parameterizedConstraint{name: name, base: baseC, elem: elemC}
	r.Register(composed)
	return composed, true
}

func (r *Registry) lookupExact(name string) (Constraint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constraints[name]
	return c, ok
}

// IsAggregate reports whether the constraint name denotes an
// auto-dereferencing aggregate kind (its contents are spread by the
// aggregate retrieval accessor).
func IsAggregate(name string) bool {
	base, _, parameterized := splitParameterized(name)
	if !parameterized {
		base = name
	}
	return base == config.ArrayRefTypeName || base == config.HashRefTypeName
}

func splitParameterized(name string) (base, elem string, ok bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return "", "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}

// basic is the plain predicate-backed constraint used for all builtins.
type basic struct {
	name   string
	check  func(v interface{}) error
	coerce func(v interface{}) (interface{}, error) // nil when no coercion path
}

func (b *basic) Name() string { return b.name }

func (b *basic) Check(v interface{}) error {
	if err := b.check(v); err != nil {
		return &diagnostics.Error{
			Code:    diagnostics.ErrConstraintViolation,
			Message: fmt.Sprintf("value %v does not satisfy %s: %v", v, b.name, err),
		}
	}
	return nil
}

func (b *basic) HasCoercion() bool { return b.coerce != nil }

func (b *basic) Coerce(v interface{}) (interface{}, error) {
	if b.coerce == nil {
		return nil, &diagnostics.Error{
			Code:    diagnostics.ErrCoercionFailed,
			Message: fmt.Sprintf("no coercion path into %s", b.name),
		}
	}
	out, err := b.coerce(v)
	if err != nil {
		return nil, &diagnostics.Error{
			Code:    diagnostics.ErrCoercionFailed,
			Message: fmt.Sprintf("cannot coerce %v into %s: %v", v, b.name, err),
		}
	}
	return out, nil
}

// parameterizedConstraint applies the base check to the aggregate and the
// element check to each element.
type parameterizedConstraint struct {
	name string
	base Constraint
	elem Constraint
}

func (p *parameterizedConstraint) Name() string      { return p.name }
func (p *parameterizedConstraint) HasCoercion() bool { return p.base.HasCoercion() }

func (p *parameterizedConstraint) Coerce(v interface{}) (interface{}, error) {
	return p.base.Coerce(v)
}

func (p *parameterizedConstraint) Check(v interface{}) error {
	if err := p.base.Check(v); err != nil {
		return err
	}
	switch agg := v.(type) {
	case []interface{}:
		for i, el := range agg {
			if err := p.elem.Check(el); err != nil {
				return &diagnostics.Error{
					Code:    diagnostics.ErrConstraintViolation,
					Message: fmt.Sprintf("element %d of %s: %v", i, p.name, err),
				}
			}
		}
	case map[string]interface{}:
		for k, el := range agg {
			if err := p.elem.Check(el); err != nil {
				return &diagnostics.Error{
					Code:    diagnostics.ErrConstraintViolation,
					Message: fmt.Sprintf("entry %q of %s: %v", k, p.name, err),
				}
			}
		}
	}
	return nil
}

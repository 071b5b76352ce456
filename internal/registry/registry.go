// Package registry hosts callables declared with signatures. Declarations
// are two-phase: Declare parses and validates immediately, Finalize
// resolves hook references and publishes the methods for lookup. Until a
// namespace is finalized nothing is callable, which mirrors declarations
// becoming visible only after the enclosing scope finishes loading.
package registry

import (
	"fmt"
	"sync"

	"github.com/funvibe/sigbind/internal/binder"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/types"
)

// BuildArgsHook rewrites the raw argument stream before structural binding.
type BuildArgsHook func(args []interface{}) ([]interface{}, error)

// CheckArgsHook validates cross-parameter invariants after binding.
type CheckArgsHook func(m *binder.BoundMap) error

// Body is the callable's implementation: it receives the bound parameter map
// and the raw arguments exactly as the caller passed them.
type Body func(m *binder.BoundMap, raw []interface{}) (interface{}, error)

// Namespace owns a set of named helpers (builders, hooks, bodies) and the
// methods declared against them.
type Namespace struct {
	name  string
	types *types.Registry

	mu        sync.RWMutex
	builders  map[string]binder.Builder
	buildArgs map[string]BuildArgsHook
	checkArgs map[string]CheckArgsHook
	bodies    map[string]Body
	pending   []*Method
	methods   map[string]*Method
}

func NewNamespace(name string, typeRegistry *types.Registry) *Namespace {
	return &Namespace{
		name:      name,
		types:     typeRegistry,
		builders:  make(map[string]binder.Builder),
		buildArgs: make(map[string]BuildArgsHook),
		checkArgs: make(map[string]CheckArgsHook),
		bodies:    make(map[string]Body),
		methods:   make(map[string]*Method),
	}
}

func (ns *Namespace) Name() string { return ns.name }

// RegisterBuilder makes a builder available for lazy default resolution
// under the given name.
func (ns *Namespace) RegisterBuilder(name string, fn binder.Builder) {
	ns.mu.Lock()
	ns.builders[name] = fn
	ns.mu.Unlock()
}

func (ns *Namespace) RegisterBuildArgs(name string, fn BuildArgsHook) {
	ns.mu.Lock()
	ns.buildArgs[name] = fn
	ns.mu.Unlock()
}

func (ns *Namespace) RegisterCheckArgs(name string, fn CheckArgsHook) {
	ns.mu.Lock()
	ns.checkArgs[name] = fn
	ns.mu.Unlock()
}

// RegisterBody registers a callable body for by-name declarations.
func (ns *Namespace) RegisterBody(name string, fn Body) {
	ns.mu.Lock()
	ns.bodies[name] = fn
	ns.mu.Unlock()
}

// ResolveBuilder implements binder.BuilderResolver.
func (ns *Namespace) ResolveBuilder(name string) (binder.Builder, bool) {
	ns.mu.RLock()
	fn, ok := ns.builders[name]
	ns.mu.RUnlock()
	return fn, ok
}

// Declaration is the tagged declaration request. Exactly one of Body
// (by-coderef) and BodyName (by-name, resolved at Finalize) must be set.
type Declaration struct {
	Name      string
	Signature string
	Method    bool // signature carries a leading invocant
	BuildArgs string
	CheckArgs string
	Body      Body
	BodyName  string
}

func (d Declaration) validate() error {
	if d.Name == "" {
		return fmt.Errorf("declaration has no name")
	}
	if (d.Body == nil) == (d.BodyName == "") {
		return fmt.Errorf("declaration %q must carry exactly one of a body or a body name", d.Name)
	}
	return nil
}

// Declare parses and validates the declaration. The method is not callable
// until Finalize publishes it.
func (ns *Namespace) Declare(d Declaration) error {
	if err := d.validate(); err != nil {
		return err
	}
	signature, err := parser.Parse(d.Signature, d.Method)
	if err != nil {
		return err
	}
	signature.Name = d.Name

	m := &Method{
		name:          d.Name,
		namespace:     ns,
		signature:     signature,
		buildArgsName: d.BuildArgs,
		checkArgsName: d.CheckArgs,
		body:          d.Body,
		bodyName:      d.BodyName,
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, exists := ns.methods[d.Name]; exists {
		return fmt.Errorf("method %q already published in namespace %s", d.Name, ns.name)
	}
	for _, p := range ns.pending {
		if p.name == d.Name {
			return fmt.Errorf("method %q already declared in namespace %s", d.Name, ns.name)
		}
	}
	ns.pending = append(ns.pending, m)
	return nil
}

// Finalize resolves every pending declaration's hook and body references
// and publishes the methods. Unresolved names fail the whole pass and
// nothing new becomes visible.
func (ns *Namespace) Finalize() error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	for _, m := range ns.pending {
		if m.buildArgsName != "" {
			hook, ok := ns.buildArgs[m.buildArgsName]
			if !ok {
				return &diagnostics.Error{
					Code:    diagnostics.ErrNameNotFound,
					Message: fmt.Sprintf("build-args hook %q for method %q is not registered", m.buildArgsName, m.name),
				}
			}
			m.buildArgsHook = hook
		}
		if m.checkArgsName != "" {
			hook, ok := ns.checkArgs[m.checkArgsName]
			if !ok {
				return &diagnostics.Error{
					Code:    diagnostics.ErrNameNotFound,
					Message: fmt.Sprintf("check-args hook %q for method %q is not registered", m.checkArgsName, m.name),
				}
			}
			m.checkArgsHook = hook
		}
		if m.body == nil {
			body, ok := ns.bodies[m.bodyName]
			if !ok {
				return &diagnostics.Error{
					Code:    diagnostics.ErrNameNotFound,
					Message: fmt.Sprintf("body %q for method %q is not registered", m.bodyName, m.name),
				}
			}
			m.body = body
		}
	}

	for _, m := range ns.pending {
		ns.methods[m.name] = m
	}
	ns.pending = nil
	return nil
}

// Method looks up a published method.
func (ns *Namespace) Method(name string) (*Method, bool) {
	ns.mu.RLock()
	m, ok := ns.methods[name]
	ns.mu.RUnlock()
	return m, ok
}

// Methods returns every published method, unordered.
func (ns *Namespace) Methods() []*Method {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make([]*Method, 0, len(ns.methods))
	for _, m := range ns.methods {
		out = append(out, m)
	}
	return out
}

// Call invokes a published method by name.
func (ns *Namespace) Call(name string, args ...interface{}) (interface{}, error) {
	m, ok := ns.Method(name)
	if !ok {
		return nil, &diagnostics.Error{
			Code:    diagnostics.ErrNameNotFound,
			Message: fmt.Sprintf("no method %q in namespace %s", name, ns.name),
		}
	}
	return m.Call(args...)
}

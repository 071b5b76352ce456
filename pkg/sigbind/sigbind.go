// Package sigbind is the public surface of the signature-binding engine.
//
// A callable declares a compact textual signature once; every invocation is
// then bound, validated, and handed to the body as an immutable name→value
// map. Declarations are parsed eagerly and published in a second phase:
//
//	ns := sigbind.NewNamespace("geometry")
//	ns.RegisterBuilder("build_param_size", func(m *sigbind.BoundMap) (interface{}, error) {
//		h, _ := m.Get("height")
//		return h.(int64) / 2, nil
//	})
//	err := ns.Declare(sigbind.Declaration{
//		Name:      "resize",
//		Signature: "(:size = build_param_size, :height = 170)",
//		Body: func(m *sigbind.BoundMap, _ []interface{}) (interface{}, error) {
//			return m.Get("size")
//		},
//	})
//	...
//	err = ns.Finalize()
//	out, err := ns.Call("resize", "height", int64(180))
package sigbind

import (
	"github.com/funvibe/sigbind/internal/binder"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/registry"
	"github.com/funvibe/sigbind/internal/sig"
	"github.com/funvibe/sigbind/internal/types"
)

type (
	Signature = sig.Signature
	Parameter = sig.Parameter

	BoundMap        = binder.BoundMap
	Builder         = binder.Builder
	BuilderFuncs    = binder.BuilderFuncs
	BuilderResolver = binder.BuilderResolver

	Namespace     = registry.Namespace
	Declaration   = registry.Declaration
	Method        = registry.Method
	Body          = registry.Body
	BuildArgsHook = registry.BuildArgsHook
	CheckArgsHook = registry.CheckArgsHook

	TypeRegistry = types.Registry
	Constraint   = types.Constraint
)

// Parse parses a plain (non-method) signature string.
func Parse(signatureText string) (*Signature, error) {
	return parser.Parse(signatureText, false)
}

// ParseMethod parses a signature with the leading-invocant convention: an
// explicit "name:" invocant is honored, otherwise an implicit one is
// injected.
func ParseMethod(signatureText string) (*Signature, error) {
	return parser.Parse(signatureText, true)
}

// DefaultTypes returns a fresh registry with the builtin constraints.
func DefaultTypes() *TypeRegistry {
	return types.DefaultRegistry()
}

// NewNamespace creates a namespace backed by the builtin type constraints.
func NewNamespace(name string) *Namespace {
	return registry.NewNamespace(name, types.DefaultRegistry())
}

// NewNamespaceWithTypes creates a namespace backed by a caller-supplied
// constraint registry.
func NewNamespaceWithTypes(name string, reg *TypeRegistry) *Namespace {
	return registry.NewNamespace(name, reg)
}

// Bind binds args against an already-parsed signature without going through
// a namespace. builders may be nil when the signature declares no builder
// defaults.
func Bind(s *Signature, reg *TypeRegistry, builders BuilderResolver, args []interface{}) (*BoundMap, error) {
	return binder.Bind(s, reg, builders, args)
}

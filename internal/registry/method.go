package registry

import (
	"github.com/funvibe/sigbind/internal/binder"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/sig"
)

// Method is one published callable: its signature, its hooks, and its body,
// composed into a single invocable pipeline.
type Method struct {
	name      string
	namespace *Namespace
	signature *sig.Signature

	buildArgsName string
	checkArgsName string
	bodyName      string

	buildArgsHook BuildArgsHook
	checkArgsHook CheckArgsHook
	body          Body
}

func (m *Method) Name() string { return m.name }

// Namespace returns the owning namespace's name.
func (m *Method) Namespace() string { return m.namespace.name }

func (m *Method) Signature() *sig.Signature { return m.signature }

// Hooks returns the build-args and check-args hook names ("" when unset).
func (m *Method) Hooks() (buildArgs, checkArgs string) {
	return m.buildArgsName, m.checkArgsName
}

// Call runs the full invocation pipeline: build-args preprocessing, then
// binding, then the check-args hook, then the body. The body sees the raw
// arguments exactly as passed, before any build-args rewriting.
func (m *Method) Call(args ...interface{}) (interface{}, error) {
	raw := args

	if m.buildArgsHook != nil {
		rewritten, err := m.buildArgsHook(args)
		if err != nil {
			return nil, err
		}
		args = rewritten
	}

	bound, err := binder.Bind(m.signature, m.namespace.types, m.namespace, args)
	if err != nil {
		return nil, err
	}

	if m.checkArgsHook != nil {
		if err := m.checkArgsHook(bound); err != nil {
			if de, ok := err.(*diagnostics.Error); ok {
				return nil, de
			}
			return nil, &diagnostics.Error{
				Code:       diagnostics.ErrCheckFailed,
				Invocation: bound.InvocationID(),
				Message:    err.Error(),
			}
		}
	}

	return m.body(bound, raw)
}

// Package binder implements the argument-binding engine: it matches an
// invocation's actual arguments against an immutable signature and produces
// the read-only, lazily populated bound parameter map the callable body
// sees.
package binder

import (
	"github.com/google/uuid"

	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/sig"
	"github.com/funvibe/sigbind/internal/types"
)

// Bind resolves args against s and returns the bound parameter map.
//
// The final contiguous run of key/value pairs whose keys match declared
// named parameters is treated as named arguments; everything before it is
// positional. Surplus positional arguments beyond the declared positionals
// are deliberately not rejected.
func Bind(s *sig.Signature, reg *types.Registry, builders BuilderResolver, args []interface{}) (*BoundMap, error) {
	m := &BoundMap{
		signature:    s,
		invocationID: uuid.NewString(),
		builders:     builders,
		values:       make(map[string]interface{}),
	}

	positional, named, err := partition(s, args, m.invocationID)
	if err != nil {
		return nil, err
	}

	// Invocant consumes the first positional actual.
	if inv := s.Invocant(); inv != nil {
		if len(positional) > 0 {
			m.values[inv.Name] = positional[0]
			positional = positional[1:]
		}
	}

	// Positional specifications consume actuals in declared order; a slurpy
	// absorbs every remaining positional actual as a sequence.
	for _, param := range s.Positionals() {
		if param.Slurpy {
			start := param.Index
			if start > len(positional) {
				start = len(positional)
			}
			rest := make([]interface{}, len(positional)-start)
			copy(rest, positional[start:])
			m.values[param.Name] = rest
			continue
		}
		if param.BindOnly {
			continue
		}
		if param.Index < len(positional) {
			m.values[param.Name] = positional[param.Index]
		}
	}

	// Named actuals were already matched by external name during
	// partitioning; install them.
	for key, value := range named {
		param, _ := s.LookupExternal(key)
		m.values[param.Name] = value
	}

	// Eager literal defaults.
	for _, param := range s.Params {
		if _, bound := m.values[param.Name]; bound {
			continue
		}
		switch param.Default.Kind {
		case sig.LiteralInt:
			m.values[param.Name] = param.Default.Int
		case sig.LiteralStr:
			m.values[param.Name] = param.Default.Str
		}
	}

	// Missing required parameters fail before any constraint work.
	for _, param := range s.Params {
		if !param.Required {
			continue
		}
		if _, bound := m.values[param.Name]; !bound {
			return nil, &diagnostics.Error{
				Code:       diagnostics.ErrMissingRequired,
				Param:      param.Name,
				Invocation: m.invocationID,
				Message:    "required parameter was not passed",
			}
		}
	}

	// Constraint pass over every materialized value: coerce first where the
	// parameter opted in, then assert validity. Deferred (builder-backed)
	// entries are not touched here.
	for _, param := range s.Params {
		v, bound := m.values[param.Name]
		if !bound || param.TypeName == "" {
			continue
		}
		checked, err := applyConstraint(reg, param, v, m.invocationID)
		if err != nil {
			return nil, err
		}
		m.values[param.Name] = checked
	}

	return m, nil
}

// partition splits args into positional actuals and named pairs, scanning
// from the end and consuming key/value pairs as long as the key matches a
// declared named parameter's external name.
func partition(s *sig.Signature, args []interface{}, invocation string) ([]interface{}, map[string]interface{}, error) {
	named := make(map[string]interface{})
	end := len(args)
	for end >= 2 {
		key, ok := args[end-2].(string)
		if !ok {
			break
		}
		if _, declared := s.LookupExternal(key); !declared {
			break
		}
		if _, dup := named[key]; dup {
			return nil, nil, &diagnostics.Error{
				Code:       diagnostics.ErrUnrecognizedArgument,
				Param:      key,
				Invocation: invocation,
				Message:    "named argument passed more than once",
			}
		}
		named[key] = args[end-1]
		end -= 2
	}
	positional := make([]interface{}, end)
	copy(positional, args[:end])
	return positional, named, nil
}

func applyConstraint(reg *types.Registry, param *sig.Parameter, v interface{}, invocation string) (interface{}, error) {
	if reg == nil {
		return v, nil
	}
	constraint, ok := reg.Lookup(param.TypeName)
	if !ok {
		return nil, &diagnostics.Error{
			Code:       diagnostics.ErrUnknownConstraint,
			Param:      param.Name,
			Invocation: invocation,
			Message:    "unknown type constraint " + param.TypeName,
		}
	}
	if param.Coerce && constraint.HasCoercion() {
		coerced, err := constraint.Coerce(v)
		if err != nil {
			return nil, bindError(err, param, invocation)
		}
		v = coerced
	}
	if err := constraint.Check(v); err != nil {
		return nil, bindError(err, param, invocation)
	}
	return v, nil
}

// bindError attaches the parameter and invocation to a gateway error,
// preserving its code.
func bindError(err error, param *sig.Parameter, invocation string) error {
	if de, ok := err.(*diagnostics.Error); ok {
		out := *de
		out.Param = param.Name
		out.Invocation = invocation
		return &out
	}
	return &diagnostics.Error{
		Code:       diagnostics.ErrConstraintViolation,
		Param:      param.Name,
		Invocation: invocation,
		Message:    err.Error(),
	}
}

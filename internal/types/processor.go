package types

import (
	"fmt"

	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/pipeline"
)

// ValidateProcessor checks that every type constraint a parsed signature
// references resolves in the registry. It runs after the parser stage and
// is a no-op when parsing already failed.
type ValidateProcessor struct {
	Registry *Registry
}

func (vp *ValidateProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Signature == nil || vp.Registry == nil {
		return ctx
	}
	for _, param := range ctx.Signature.Params {
		if param.TypeName == "" {
			continue
		}
		if _, ok := vp.Registry.Lookup(param.TypeName); !ok {
			ctx.Errors = append(ctx.Errors, &diagnostics.Error{
				Code:    diagnostics.ErrUnknownConstraint,
				Param:   param.Name,
				Message: fmt.Sprintf("unknown type constraint %q", param.TypeName),
			})
		}
	}
	return ctx
}

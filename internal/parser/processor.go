package parser

import (
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.TokenStream == nil {
		// The lexer stage should always run first; guard anyway.
		err := &diagnostics.Error{Code: diagnostics.ErrParse, Message: "parser: token stream is nil"}
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	signature, err := ParseTokens(ctx.TokenStream, ctx.Method)
	if err != nil {
		if de, ok := err.(*diagnostics.Error); ok {
			ctx.Errors = append(ctx.Errors, de)
		} else {
			ctx.Errors = append(ctx.Errors, &diagnostics.Error{Code: diagnostics.ErrParse, Message: err.Error()})
		}
		return ctx
	}
	signature.Name = ctx.Name
	ctx.Signature = signature
	return ctx
}

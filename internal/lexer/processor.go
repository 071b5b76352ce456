package lexer

import "github.com/funvibe/sigbind/internal/pipeline"

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.TokenStream = New(ctx.Source).Tokens()
	return ctx
}

// Package pipeline sequences the declaration-time processing stages for one
// signature: lexing, parsing, and constraint validation. Stages keep
// running after errors so a single pass collects every diagnostic.
package pipeline

import (
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/sig"
	"github.com/funvibe/sigbind/internal/token"
)

// Context carries one declaration through the pipeline.
type Context struct {
	Name   string // owning callable's name, for messages
	Source string // raw signature text
	Method bool   // leading-invocant convention

	TokenStream []token.Token
	Signature   *sig.Signature
	Errors      []*diagnostics.Error
}

type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

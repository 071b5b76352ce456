// Package parser turns a signature string into a sig.Signature. Parsing is
// all-or-nothing: the first structural problem aborts with a positioned
// parse error and no partial signature is produced.
package parser

import (
	"strconv"

	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/lexer"
	"github.com/funvibe/sigbind/internal/sig"
	"github.com/funvibe/sigbind/internal/token"
)

type Parser struct {
	tokens []token.Token
	pos    int
}

// Parse parses signatureText. When method is true the signature carries an
// invocant: either the explicit leading "name:" form, or an implicit
// invocant injected under the host's default name.
func Parse(signatureText string, method bool) (*sig.Signature, error) {
	return ParseTokens(lexer.New(signatureText).Tokens(), method)
}

// ParseTokens parses an already-lexed token stream.
func ParseTokens(toks []token.Token, method bool) (*sig.Signature, error) {
	last := toks[len(toks)-1]
	if last.Type == token.ILLEGAL {
		return nil, diagnostics.NewError(diagnostics.ErrParse, last, "illegal token %q in signature", last.Lexeme)
	}
	p := &Parser{tokens: toks}
	return p.parseSignature(method)
}

func (p *Parser) cur() token.Token  { return p.tokens[p.pos] }
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}
func (p *Parser) next() { p.pos++ }

func (p *Parser) curIs(t token.TokenType) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t token.TokenType) bool { return p.peek().Type == t }

// atParamEnd reports whether the current token terminates a parameter item.
func (p *Parser) atParamEnd() bool {
	return p.curIs(token.COMMA) || p.curIs(token.RPAREN) || p.curIs(token.EOF)
}

func (p *Parser) parseSignature(method bool) (*sig.Signature, error) {
	s := &sig.Signature{}

	wrapped := false
	if p.curIs(token.LPAREN) {
		wrapped = true
		p.next()
	}

	// Explicit invocant: a leading "name:" with the colon attached to the
	// name. A detached colon introduces a named parameter instead.
	if p.curIs(token.IDENT) && p.peekIs(token.COLON) && adjacent(p.cur(), p.peek()) {
		inv := &sig.Parameter{
			Name:         p.cur().Literal,
			ExternalName: p.cur().Literal,
			Kind:         sig.Positional,
			Index:        -1,
			Invocant:     true,
			Required:     true,
		}
		p.next() // name
		p.next() // colon
		s.Params = append(s.Params, inv)
		s.IndexOffset = 1
	} else if method {
		s.Params = append(s.Params, &sig.Parameter{
			Name:         config.DefaultInvocantName,
			ExternalName: config.DefaultInvocantName,
			Kind:         sig.Positional,
			Index:        -1,
			Invocant:     true,
			Required:     true,
		})
		s.IndexOffset = 1
	}

	posIndex := 0
	sawNamed := false
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}

		if param.Invocant {
			return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
				"invocant marker is only allowed in first position")
		}
		if param.Kind == sig.Positional {
			// Positionals precede named parameters, except the slurpy,
			// which is always the syntactic last entry.
			if sawNamed && !param.Slurpy {
				return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
					"positional parameter %q declared after a named parameter", param.Name)
			}
			if param.BindOnly {
				// Bind-only parameters have no pass-through and occupy no
				// positional slot.
				param.Index = -1
			} else {
				param.Index = posIndex
				posIndex++
			}
		} else {
			sawNamed = true
			param.Index = -1
		}
		for _, existing := range s.Params {
			if existing.Name == param.Name {
				return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
					"duplicate parameter name %q", param.Name)
			}
		}
		s.Params = append(s.Params, param)

		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}

	if wrapped {
		if !p.curIs(token.RPAREN) {
			return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
				"expected ')', got %q", p.cur().Lexeme)
		}
		p.next()
	}
	if !p.curIs(token.EOF) {
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"unexpected trailing token %q", p.cur().Lexeme)
	}

	// Slurpy must be the syntactic last entry, and there may be only one.
	slurpies := 0
	for _, param := range s.Params {
		if param.Slurpy {
			slurpies++
		}
	}
	if slurpies > 1 {
		return nil, &diagnostics.Error{Code: diagnostics.ErrParse, Message: "multiple slurpy parameters declared"}
	}
	for i, param := range s.Params {
		if param.Slurpy && i != len(s.Params)-1 {
			return nil, &diagnostics.Error{
				Code:    diagnostics.ErrParse,
				Message: "slurpy parameter " + strconv.Quote(param.Name) + " must be last",
			}
		}
	}

	return s, nil
}

// parseParameter consumes one comma-separated parameter item. The default
// clause has two equivalent spellings, "name = value" and "= value name";
// both normalize to the same specification.
func (p *Parser) parseParameter() (*sig.Parameter, error) {
	param := &sig.Parameter{Index: -1}
	haveDefault := false
	explicitRequired := false
	explicitOptional := false

	// Leading default clause: "= value" before the name.
	if p.curIs(token.ASSIGN) {
		p.next()
		if err := p.parseDefaultClause(param); err != nil {
			return nil, err
		}
		haveDefault = true
		// "= first" with nothing after the identifier: the identifier is
		// the parameter name, not a builder reference, and the bare "="
		// requests the auto-named builder.
		if p.atParamEnd() && param.Default.Kind == sig.Builder && param.Default.Builder != "" {
			param.Name = param.Default.Builder
			param.ExternalName = param.Name
			param.Default = sig.Default{Kind: sig.Builder, Builder: config.BuilderPrefix + param.Name}
			param.Required = false
			return param, nil
		}
	}

	// Markers and optional type, in any sensible order: "*" may precede the
	// name or the type; "&" must precede a type name.
	for {
		switch {
		case p.curIs(token.STAR):
			if param.Slurpy {
				return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(), "duplicate slurpy marker")
			}
			param.Slurpy = true
			p.next()
			continue
		case p.curIs(token.AMP):
			if param.Coerce {
				return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(), "duplicate coercion marker")
			}
			if !p.peekIs(token.IDENT) {
				return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
					"coercion marker must precede a type name")
			}
			param.Coerce = true
			p.next()
			continue
		}
		break
	}

	// An identifier here is a type name if what follows still looks like the
	// start of the name part; otherwise it is the name itself.
	if p.curIs(token.IDENT) && startsNamePart(p.peek(), p.cur()) {
		param.TypeName = p.cur().Literal
		p.next()
		// Slurpy marker may also sit between type and name.
		if p.curIs(token.STAR) {
			if param.Slurpy {
				return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(), "duplicate slurpy marker")
			}
			param.Slurpy = true
			p.next()
		}
	} else if param.Coerce {
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"coercion marker must precede a type name")
	}

	// Named-parameter prefix.
	if p.curIs(token.COLON) {
		param.Kind = sig.Named
		p.next()
	}

	// Core name, possibly aliased: name, external(real), or bare (real).
	switch {
	case p.curIs(token.IDENT):
		name := p.cur().Literal
		p.next()
		if p.curIs(token.LPAREN) && p.peekIs(token.IDENT) {
			p.next()
			param.Name = p.cur().Literal
			param.ExternalName = name
			p.next()
			if !p.curIs(token.RPAREN) {
				return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
					"expected ')' to close alias, got %q", p.cur().Lexeme)
			}
			p.next()
		} else {
			param.Name = name
			param.ExternalName = name
		}
	case p.curIs(token.LPAREN) && p.peekIs(token.IDENT):
		p.next()
		param.Name = p.cur().Literal
		param.ExternalName = ""
		param.BindOnly = true
		p.next()
		if !p.curIs(token.RPAREN) {
			return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
				"expected ')' to close bind-only alias, got %q", p.cur().Lexeme)
		}
		p.next()
	default:
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"expected parameter name, got %q", p.cur().Lexeme)
	}

	if param.Slurpy && param.Kind == sig.Named {
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"slurpy parameter %q cannot be named", param.Name)
	}
	if param.Slurpy && param.BindOnly {
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"slurpy parameter %q cannot be bind-only", param.Name)
	}

	// Required/optional quantifier.
	for p.curIs(token.BANG) || p.curIs(token.QUESTION) {
		if p.curIs(token.BANG) {
			explicitRequired = true
		} else {
			explicitOptional = true
		}
		p.next()
	}

	// Trailing default clause: "name = value".
	if p.curIs(token.ASSIGN) {
		if haveDefault {
			return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
				"duplicate default clause for parameter %q", param.Name)
		}
		p.next()
		if err := p.parseDefaultClause(param); err != nil {
			return nil, err
		}
		haveDefault = true
	}

	if !p.atParamEnd() {
		if p.curIs(token.COLON) {
			return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
				"invocant marker is only allowed in first position")
		}
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"unexpected token %q in parameter %q", p.cur().Lexeme, param.Name)
	}

	// Bare "=": builder auto-named from the parameter, which is only known
	// now for the leading spelling.
	if haveDefault && param.Default.Kind == sig.Builder && param.Default.Builder == "" {
		param.Default.Builder = config.BuilderPrefix + param.Name
	}

	if param.BindOnly && !haveDefault {
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"bind-only parameter %q must have a default", param.Name)
	}
	if explicitRequired && haveDefault {
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"required parameter %q may not carry a default", param.Name)
	}
	if explicitRequired && explicitOptional {
		return nil, diagnostics.NewError(diagnostics.ErrParse, p.cur(),
			"conflicting quantifiers on parameter %q", param.Name)
	}

	// Requiredness: positional default-required, named default-optional,
	// overridden by an explicit quantifier; a default always makes the
	// parameter optional; a slurpy absorbs zero or more and is optional.
	switch {
	case explicitRequired:
		param.Required = true
	case explicitOptional, haveDefault, param.Slurpy, param.BindOnly:
		param.Required = false
	default:
		param.Required = param.Kind == sig.Positional
	}

	return param, nil
}

// parseDefaultClause parses what follows "=". An empty clause (next token
// already ends the item or starts the name) requests the auto-named builder;
// the name may not be known yet, so the empty builder name is filled in by
// the caller.
func (p *Parser) parseDefaultClause(param *sig.Parameter) error {
	switch {
	case p.curIs(token.INT):
		n, err := strconv.ParseInt(p.cur().Literal, 10, 64)
		if err != nil {
			return diagnostics.NewError(diagnostics.ErrParse, p.cur(),
				"integer literal %q out of range", p.cur().Lexeme)
		}
		param.Default = sig.Default{Kind: sig.LiteralInt, Int: n}
		p.next()
	case p.curIs(token.STRING):
		param.Default = sig.Default{Kind: sig.LiteralStr, Str: p.cur().Literal}
		p.next()
	case p.curIs(token.IDENT):
		// Builder reference, optionally spelled with call parens. In the
		// leading spelling "= value name" the identifier doubles as the
		// parameter name when no separate name follows, so only consume it
		// as a builder if the item does not end right after it without any
		// name having been seen. Builder references are identifiers either
		// way; the distinction is positional and handled by the caller's
		// ordering, so here the identifier is always the default value.
		param.Default = sig.Default{Kind: sig.Builder, Builder: p.cur().Literal}
		p.next()
		if p.curIs(token.LPAREN) && p.peekIs(token.RPAREN) {
			p.next()
			p.next()
		}
	default:
		// Bare "=": auto-named builder.
		param.Default = sig.Default{Kind: sig.Builder}
	}
	return nil
}

// startsNamePart reports whether tok can begin the name part of a parameter
// whose preceding identifier would then be a type name. prev is that
// identifier, used to rule out the "name(alias)" form where a '(' directly
// follows the name.
func startsNamePart(tok token.Token, prev token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.STAR:
		return true
	case token.COLON:
		// A detached colon introduces a named parameter, so the identifier
		// before it is a type. An attached colon is the invocant marker.
		return !adjacent(prev, tok)
	case token.LPAREN:
		// "Int (real)" is a typed bind-only parameter; "name(real)" is an
		// alias. Adjacency of the paren to the identifier separates them.
		return !adjacent(prev, tok)
	}
	return false
}

// adjacent reports whether b starts immediately after a on the same line.
func adjacent(a, b token.Token) bool {
	return a.Line == b.Line && b.Column == a.Column+len(a.Lexeme)
}

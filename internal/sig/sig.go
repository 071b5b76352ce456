// Package sig defines the parameter specification model produced by the
// signature parser and consumed by the argument binder. A Signature is
// created once per declaration and never mutated afterwards, so it is safe
// to share across concurrent callers.
package sig

import (
	"strconv"
	"strings"
)

type Kind int

const (
	Positional Kind = iota
	Named
)

func (k Kind) String() string {
	if k == Named {
		return "named"
	}
	return "positional"
}

type DefaultKind int

const (
	NoDefault DefaultKind = iota
	LiteralInt
	LiteralStr
	Builder
)

// Default describes how an absent parameter obtains its value. Literal
// defaults are materialized eagerly at bind time; builder defaults are
// resolved lazily on first read.
type Default struct {
	Kind    DefaultKind
	Int     int64  // set when Kind == LiteralInt
	Str     string // set when Kind == LiteralStr
	Builder string // builder name, set when Kind == Builder
}

// Parameter is one declared parameter's full metadata.
type Parameter struct {
	Name         string
	ExternalName string // name used by callers for named passing; equals Name unless aliased
	Kind         Kind
	Index        int // ordinal among positionals, already offset by the invocant; -1 for named
	Invocant     bool
	Required     bool
	Slurpy       bool
	TypeName     string // constraint name, verbatim ("Int", "ArrayRef[Int]"); empty if untyped
	Coerce       bool
	BindOnly     bool // aliased form "(real)": not passable directly, value comes from its default
	Default      Default
}

// HasDefault reports whether the parameter carries any default clause.
func (p *Parameter) HasDefault() bool {
	return p.Default.Kind != NoDefault
}

// Signature is the immutable ordered parameter list for one callable.
type Signature struct {
	Name        string // owning callable's name, may be empty for anonymous signatures
	Params      []*Parameter
	IndexOffset int // 1 if an invocant is present, else 0
}

// Invocant returns the invocant parameter, or nil.
func (s *Signature) Invocant() *Parameter {
	if len(s.Params) > 0 && s.Params[0].Invocant {
		return s.Params[0]
	}
	return nil
}

// Lookup finds a parameter by its declared name.
func (s *Signature) Lookup(name string) (*Parameter, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// LookupExternal finds a named parameter by its external (caller-facing)
// name. Bind-only parameters are never matched.
func (s *Signature) LookupExternal(name string) (*Parameter, bool) {
	for _, p := range s.Params {
		if p.Kind == Named && !p.BindOnly && p.ExternalName == name {
			return p, true
		}
	}
	return nil, false
}

// Positionals returns the positional parameters (invocant excluded) in
// declaration order.
func (s *Signature) Positionals() []*Parameter {
	var out []*Parameter
	for _, p := range s.Params {
		if p.Kind == Positional && !p.Invocant {
			out = append(out, p)
		}
	}
	return out
}

// Slurpy returns the slurpy parameter, or nil.
func (s *Signature) Slurpy() *Parameter {
	for _, p := range s.Params {
		if p.Slurpy {
			return p
		}
	}
	return nil
}

// String renders the signature in canonical form. Reparsing the result
// yields a structurally identical signature.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	first := true
	for _, p := range s.Params {
		if p.Invocant {
			b.WriteString(p.Name)
			b.WriteString(": ")
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(p.canonical())
	}
	b.WriteByte(')')
	return b.String()
}

func (p *Parameter) canonical() string {
	var b strings.Builder
	if p.TypeName != "" {
		if p.Coerce {
			b.WriteByte('&')
		}
		b.WriteString(p.TypeName)
		b.WriteByte(' ')
	}
	if p.Slurpy {
		b.WriteByte('*')
	}
	if p.Kind == Named {
		b.WriteByte(':')
	}
	switch {
	case p.BindOnly:
		b.WriteByte('(')
		b.WriteString(p.Name)
		b.WriteByte(')')
	case p.ExternalName != p.Name:
		b.WriteString(p.ExternalName)
		b.WriteByte('(')
		b.WriteString(p.Name)
		b.WriteByte(')')
	default:
		b.WriteString(p.Name)
	}
	// Requiredness is spelled explicitly only where it differs from the
	// kind's default.
	if p.Kind == Positional && !p.Required && !p.Slurpy && !p.HasDefault() {
		b.WriteByte('?')
	}
	if p.Kind == Named && p.Required {
		b.WriteByte('!')
	}
	switch p.Default.Kind {
	case LiteralInt:
		b.WriteString(" = ")
		b.WriteString(strconv.FormatInt(p.Default.Int, 10))
	case LiteralStr:
		b.WriteString(" = '")
		b.WriteString(p.Default.Str)
		b.WriteByte('\'')
	case Builder:
		b.WriteString(" = ")
		b.WriteString(p.Default.Builder)
	}
	return b.String()
}

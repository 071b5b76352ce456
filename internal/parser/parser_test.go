package parser_test

import (
	"reflect"
	"testing"

	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/sig"
)

func TestParseCanonical(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		method    bool
		canonical string
	}{
		{"three_positionals", "(first, second, third)", false, "(first, second, third)"},
		{"no_parens", "first, second", false, "(first, second)"},
		{"empty", "()", false, "()"},
		{"named_default_string", "(:first = 'medium')", false, "(:first = 'medium')"},
		{"named_default_double_quoted", `(:first = "medium")`, false, "(:first = 'medium')"},
		{"named_default_int", "(:height = 170)", false, "(:height = 170)"},
		{"named_builder", "(:size = build_param_size)", false, "(:size = build_param_size)"},
		{"named_builder_call_spelling", "(:size = build_param_size())", false, "(:size = build_param_size)"},
		{"auto_builder_trailing", "(size =)", false, "(size = build_param_size)"},
		{"auto_builder_leading", "(= size)", false, "(size = build_param_size)"},
		{"leading_default_spelling", "(= 'medium' :first)", false, "(:first = 'medium')"},
		{"slurpy_typed", "(ArrayRef *values)", false, "(ArrayRef *values)"},
		{"slurpy_untyped", "(*rest)", false, "(*rest)"},
		{"optional_positional", "(text, fh, all?)", false, "(text, fh, all?)"},
		{"explicit_required_positional", "(x!)", false, "(x)"},
		{"named_required", "(:name!)", false, "(:name!)"},
		{"typed_positional", "(Int x)", false, "(Int x)"},
		{"typed_coerce", "(&Int x)", false, "(&Int x)"},
		{"parameterized_type", "(ArrayRef[Int] *values)", false, "(ArrayRef[Int] *values)"},
		{"typed_named", "(Str :mode)", false, "(Str :mode)"},
		{"alias", "(ext(real))", false, "(ext(real))"},
		{"bind_only", "((price) = 99)", false, "((price) = 99)"},
		{"typed_bind_only", "(Int (price) = 99)", false, "(Int (price) = 99)"},
		{"explicit_invocant", "(self: first, second)", false, "(self: first, second)"},
		{"implicit_invocant", "(first)", true, "(self: first)"},
		{"explicit_invocant_method", "(obj: first)", true, "(obj: first)"},
		{"mixed", "(first, Int second, :mode = 'fast', ArrayRef *rest)", false, "(first, Int second, :mode = 'fast', ArrayRef *rest)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := parser.Parse(tc.input, tc.method)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			got := s.String()
			if got != tc.canonical {
				t.Errorf("canonical form: expected %q, got %q", tc.canonical, got)
			}

			// Reparsing the canonical form yields a structurally identical
			// signature.
			again, err := parser.Parse(got, tc.method)
			if err != nil {
				t.Fatalf("reparse of canonical form %q: %v", got, err)
			}
			again.Name = s.Name
			if !reflect.DeepEqual(s, again) {
				t.Errorf("canonical form does not round-trip:\n first: %#v\nsecond: %#v", s, again)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"default_on_required", "(x! = 5)"},
		{"default_on_required_named", "(:x! = 5)"},
		{"slurpy_not_last", "(*a, b)"},
		{"multiple_slurpy", "(*a, *b)"},
		{"positional_after_named", "(x, :y, z)"},
		{"bind_only_without_default", "((real))"},
		{"coerce_without_type", "(&x)"},
		{"coerce_alone", "(&)"},
		{"invocant_not_first", "(a, self: b)"},
		{"conflicting_quantifiers", "(x!?)"},
		{"duplicate_name", "(x, x)"},
		{"duplicate_alias_name", "(x, ext(x))"},
		{"slurpy_named", "(:*rest)"},
		{"unclosed_paren", "(x"},
		{"unterminated_string", "(:m = 'oops)"},
		{"empty_item", "(x,,y)"},
		{"stray_token", "(x) y"},
		{"duplicate_default", "(= 5 x = 6)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.Parse(tc.input, false)
			if err == nil {
				t.Fatalf("expected parse error for %q", tc.input)
			}
			if !diagnostics.Is(err, diagnostics.ErrParse) {
				t.Errorf("expected a parse diagnostic, got %v", err)
			}
		})
	}
}

func TestParseDeterminism(t *testing.T) {
	const input = "(self: &Int x, :mode = 'fast', ArrayRef *rest)"
	a, err := parser.Parse(input, false)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	b, err := parser.Parse(input, false)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two parses of identical text differ")
	}
}

func TestParameterMetadata(t *testing.T) {
	s, err := parser.Parse("(self: first, second, :mode, ArrayRef *rest)", false)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if s.IndexOffset != 1 {
		t.Errorf("expected index offset 1, got %d", s.IndexOffset)
	}
	inv := s.Invocant()
	if inv == nil || inv.Name != "self" || inv.Index != -1 {
		t.Fatalf("invocant not recognized: %#v", inv)
	}

	first, _ := s.Lookup("first")
	if first.Index != 0 || !first.Required || first.Kind != sig.Positional {
		t.Errorf("first: unexpected metadata %#v", first)
	}
	second, _ := s.Lookup("second")
	if second.Index != 1 {
		t.Errorf("second: expected index 1, got %d", second.Index)
	}
	mode, _ := s.Lookup("mode")
	if mode.Kind != sig.Named || mode.Required || mode.Index != -1 {
		t.Errorf("mode: unexpected metadata %#v", mode)
	}
	rest, _ := s.Lookup("rest")
	if !rest.Slurpy || rest.TypeName != "ArrayRef" || rest.Required {
		t.Errorf("rest: unexpected metadata %#v", rest)
	}
}

func TestAliasMetadata(t *testing.T) {
	s, err := parser.Parse("(:ext(real))", false)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	p, ok := s.Lookup("real")
	if !ok {
		t.Fatalf("aliased parameter not found by internal name")
	}
	if p.ExternalName != "ext" {
		t.Errorf("expected external name %q, got %q", "ext", p.ExternalName)
	}
	if _, ok := s.LookupExternal("ext"); !ok {
		t.Errorf("aliased parameter not found by external name")
	}
	if _, ok := s.LookupExternal("real"); ok {
		t.Errorf("internal name must not be externally visible")
	}
}

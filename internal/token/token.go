package token

import "fmt"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT  = "IDENT"  // first, build_param_size, ArrayRef[Int]
	INT    = "INT"    // 170
	STRING = "STRING" // 'medium', "medium"

	COMMA    = ","
	COLON    = ":"
	STAR     = "*"
	AMP      = "&"
	BANG     = "!"
	QUESTION = "?"
	ASSIGN   = "="
	LPAREN   = "("
	RPAREN   = ")"
)

// Token is one lexical unit of a signature string. Literal carries the
// decoded value (string content without quotes, integer text for INT);
// Lexeme is the raw source spelling.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

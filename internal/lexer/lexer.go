package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/sigbind/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case ',':
		tok = newToken(token.COMMA, l.ch, l.line, l.column)
	case ':':
		tok = newToken(token.COLON, l.ch, l.line, l.column)
	case '*':
		tok = newToken(token.STAR, l.ch, l.line, l.column)
	case '&':
		tok = newToken(token.AMP, l.ch, l.line, l.column)
	case '!':
		tok = newToken(token.BANG, l.ch, l.line, l.column)
	case '?':
		tok = newToken(token.QUESTION, l.ch, l.line, l.column)
	case '=':
		tok = newToken(token.ASSIGN, l.ch, l.line, l.column)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.line, l.column)
	case '\'', '"':
		startLine, startCol := l.line, l.column
		content, ok := l.readString(l.ch)
		if !ok {
			return token.Token{Type: token.ILLEGAL, Lexeme: content, Literal: content, Line: startLine, Column: startCol}
		}
		return token.Token{Type: token.STRING, Lexeme: content, Literal: content, Line: startLine, Column: startCol}
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Literal: "", Line: l.line, Column: l.column}
	default:
		if isIdentStart(l.ch) {
			startLine, startCol := l.line, l.column
			ident := l.readIdentifier()
			return token.Token{Type: token.IDENT, Lexeme: ident, Literal: ident, Line: startLine, Column: startCol}
		}
		if unicode.IsDigit(l.ch) {
			startLine, startCol := l.line, l.column
			num := l.readNumber()
			return token.Token{Type: token.INT, Lexeme: num, Literal: num, Line: startLine, Column: startCol}
		}
		tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
	}

	l.readChar()
	return tok
}

// Tokens lexes the whole input, always ending with an EOF token.
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return toks
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads until the matching quote. Content is taken verbatim:
// no escape sequences, no interpolation. Quote style does not affect the
// resulting literal.
func (l *Lexer) readString(quote rune) (string, bool) {
	l.readChar() // consume opening quote
	start := l.position
	for l.ch != quote {
		if l.ch == 0 {
			return l.input[start:l.position], false
		}
		l.readChar()
	}
	content := l.input[start:l.position]
	l.readChar() // consume closing quote
	return content, true
}

// readIdentifier reads an identifier, including a balanced bracketed
// qualifier directly attached to it (ArrayRef[Int], HashRef[ArrayRef[Str]]).
// The qualifier is carried verbatim as part of the identifier text.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	if l.ch == '[' {
		depth := 0
		for {
			if l.ch == '[' {
				depth++
			} else if l.ch == ']' {
				depth--
				if depth == 0 {
					l.readChar()
					break
				}
			} else if l.ch == 0 {
				break
			}
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func newToken(tokenType token.TokenType, ch rune, line, column int) token.Token {
	return token.Token{Type: tokenType, Lexeme: string(ch), Literal: string(ch), Line: line, Column: column}
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

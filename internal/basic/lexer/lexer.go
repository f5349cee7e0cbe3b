// Package lexer tokenizes BASIC source text using internal/cursor, per
// spec.md §4.1 "BASIC token stream". Grounded on the teacher's
// internal/lexer/scanner.go scanToken dispatch switch, generalized
// from Sentra's symbol set to BASIC's keyword-heavy, line-oriented
// grammar (line ends are significant tokens here, unlike Sentra's
// semicolon-terminated statements).
package lexer

import (
	"strings"

	"viperc/internal/cursor"
	"viperc/internal/diag"
	"viperc/internal/basic/token"
)

// Lexer scans one source file into a token slice, collecting
// B0003-coded diagnostics for malformed string escapes along the way
// rather than aborting (spec.md §7: lexical errors do not halt
// compilation).
type Lexer struct {
	cur  *cursor.Cursor
	file int
	diag *diag.Emitter
}

func New(text string, file int, emitter *diag.Emitter) *Lexer {
	return &Lexer{cur: cursor.New(text, cursor.Pos{Line: 1, Column: 0}), file: file, diag: emitter}
}

// Tokenize scans the entire input and appends a trailing EOF token.
func (l *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		tok, ok := l.next()
		if ok {
			out = append(out, tok)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

func (l *Lexer) loc() (int, int) {
	p := l.cur.Pos()
	return p.Line, p.Column
}

func (l *Lexer) next() (token.Token, bool) {
	// Horizontal whitespace only; newlines are significant (EOL token).
	for {
		c := l.cur.Peek()
		if c == ' ' || c == '\t' || c == '\r' {
			l.cur.Advance()
			continue
		}
		break
	}

	line, col := l.loc()
	mk := func(k token.Kind, lexeme string) token.Token {
		return token.Token{Kind: k, Lexeme: lexeme, File: l.file, Line: line, Column: col}
	}

	if l.cur.AtEnd() {
		return mk(token.EOF, ""), true
	}

	c := l.cur.Peek()

	if c == '\n' {
		l.cur.Advance()
		return mk(token.EOL, "\n"), true
	}

	if c == '\'' {
		for !l.cur.AtEnd() && l.cur.Peek() != '\n' {
			l.cur.Advance()
		}
		return token.Token{}, false
	}

	if isIdentStart(c) {
		ident := l.cur.ConsumeWhile(isIdentBody)
		upper := strings.ToUpper(ident)
		if kind, ok := token.Keywords[upper]; ok {
			return mk(kind, ident), true
		}
		return mk(token.Ident, ident), true
	}

	if isDigit(c) {
		return l.scanNumber(line, col), true
	}

	if c == '"' {
		return l.scanString(line, col), true
	}

	return l.scanOperator(mk), true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isIdentBody is deliberately narrower than cursor's own isIdentBody:
// BASIC identifiers stop at '.' so member access ("C.Value") and
// dotted namespace names lex as separate Ident/Dot tokens instead of
// being swallowed into one qualified-name lexeme.
func isIdentBody(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) scanNumber(line, col int) token.Token {
	var b strings.Builder
	for isDigit(l.cur.Peek()) {
		b.WriteByte(l.cur.Peek())
		l.cur.Advance()
	}
	isFloat := false
	if l.cur.Peek() == '.' && isDigit(l.cur.PeekAt(1)) {
		isFloat = true
		b.WriteByte('.')
		l.cur.Advance()
		for isDigit(l.cur.Peek()) {
			b.WriteByte(l.cur.Peek())
			l.cur.Advance()
		}
	}
	if l.cur.Peek() == 'e' || l.cur.Peek() == 'E' {
		save := b.String()
		var e strings.Builder
		e.WriteByte(l.cur.Peek())
		off := 1
		if sign := l.cur.PeekAt(1); sign == '+' || sign == '-' {
			e.WriteByte(sign)
			off = 2
		}
		if isDigit(l.cur.PeekAt(off)) {
			isFloat = true
			for i := 0; i < off; i++ {
				l.cur.Advance()
			}
			for isDigit(l.cur.Peek()) {
				e.WriteByte(l.cur.Peek())
				l.cur.Advance()
			}
			b.Reset()
			b.WriteString(save)
			b.WriteString(e.String())
		}
	}
	// Type suffixes: %, &, !, #, $
	switch l.cur.Peek() {
	case '!', '#':
		isFloat = true
		l.cur.Advance()
	case '%', '&':
		l.cur.Advance()
	case '$':
		l.cur.Advance()
	}
	kind := token.Int
	if isFloat {
		kind = token.Float
	}
	return token.Token{Kind: kind, Lexeme: b.String(), File: l.file, Line: line, Column: col}
}

func (l *Lexer) scanString(line, col int) token.Token {
	l.cur.Advance() // opening quote
	var b strings.Builder
	for {
		c := l.cur.Peek()
		if l.cur.AtEnd() || c == '\n' {
			l.emitBadEscape(line, col)
			break
		}
		if c == '"' {
			l.cur.Advance()
			break
		}
		if c == '\\' {
			l.cur.Advance()
			esc := l.cur.Peek()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				l.emitBadEscape(line, col)
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			l.cur.Advance()
			continue
		}
		b.WriteByte(c)
		l.cur.Advance()
	}
	return token.Token{Kind: token.String, Lexeme: b.String(), File: l.file, Line: line, Column: col}
}

func (l *Lexer) emitBadEscape(line, col int) {
	if l.diag == nil {
		return
	}
	rng := diag.Range{Start: diag.Location{File: l.file, Line: line, Column: col}}
	l.diag.Emit(diag.Error, diag.CodeBadStringEscape, rng)
}

func (l *Lexer) scanOperator(mk func(token.Kind, string) token.Token) token.Token {
	c := l.cur.Peek()
	l.cur.Advance()
	switch c {
	case '(':
		return mk(token.LParen, "(")
	case ')':
		return mk(token.RParen, ")")
	case ',':
		return mk(token.Comma, ",")
	case ':':
		return mk(token.Colon, ":")
	case '#':
		return mk(token.Hash, "#")
	case ';':
		return mk(token.Semicolon, ";")
	case '+':
		return mk(token.Plus, "+")
	case '-':
		return mk(token.Minus, "-")
	case '*':
		return mk(token.Star, "*")
	case '/':
		return mk(token.Slash, "/")
	case '\\':
		return mk(token.Backslash, "\\")
	case '^':
		return mk(token.Caret, "^")
	case '.':
		return mk(token.Dot, ".")
	case '=':
		return mk(token.Eq, "=")
	case '<':
		switch l.cur.Peek() {
		case '>':
			l.cur.Advance()
			return mk(token.Ne, "<>")
		case '=':
			l.cur.Advance()
			return mk(token.Le, "<=")
		}
		return mk(token.Lt, "<")
	case '>':
		if l.cur.Peek() == '=' {
			l.cur.Advance()
			return mk(token.Ge, ">=")
		}
		return mk(token.Gt, ">")
	}
	return mk(token.Kind("ERR"), string(c))
}

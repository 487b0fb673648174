package query

import (
	"fmt"
	"strings"
)

// TokenKind identifies a lexical token class.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenLiteral
	TokenEq     // = ==
	TokenNe     // != <> ><
	TokenLt     // <
	TokenLe     // <=
	TokenGt     // >
	TokenGe     // >=
	TokenAnd    // and &&
	TokenOr     // or ||
	TokenLParen // (
	TokenRParen // )
	TokenLBrack // [
	TokenRBrack // ]
	TokenColon  // :
)

var tokenNames = map[TokenKind]string{
	TokenEOF:     "end of expression",
	TokenIdent:   "identifier",
	TokenLiteral: "literal",
	TokenEq:      "=",
	TokenNe:      "!=",
	TokenLt:      "<",
	TokenLe:      "<=",
	TokenGt:      ">",
	TokenGe:      ">=",
	TokenAnd:     "and",
	TokenOr:      "or",
	TokenLParen:  "(",
	TokenRParen:  ")",
	TokenLBrack:  "[",
	TokenRBrack:  "]",
	TokenColon:   ":",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical token with its byte span [Start, End) in the source.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int
}

func (t Token) describe() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("'%s'", t.Text)
}

// Tokenize splits src into tokens, ending with a TokenEOF. It checks only
// lexical structure; literal digits are validated by the parser.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

type lexer struct {
	src string
	pos int
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLiteralChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		strings.IndexByte("xXzZ", c) >= 0
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) emit(kind TokenKind, start int) Token {
	return Token{Kind: kind, Text: l.src[start:l.pos], Start: start, End: l.pos}
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Start: start, End: start}, nil
	}

	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		return l.ident(), nil
	case isDigit(c):
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		return l.emit(TokenLiteral, start), nil
	case c == '\'':
		l.pos++
		if l.pos >= len(l.src) || strings.IndexByte("bBoOdDhH", l.src[l.pos]) < 0 {
			l.pos = min(l.pos+1, len(l.src))
			return Token{}, newParseError(ErrCodeInvalidLiteral, "expected radix b, o, d or h after '", start, l.pos, nil)
		}
		l.pos++
		for l.pos < len(l.src) && isLiteralChar(l.src[l.pos]) {
			l.pos++
		}
		return l.emit(TokenLiteral, start), nil
	}

	two := l.src[l.pos:min(l.pos+2, len(l.src))]
	switch two {
	case "==":
		l.pos += 2
		return l.emit(TokenEq, start), nil
	case "!=", "<>", "><":
		l.pos += 2
		return l.emit(TokenNe, start), nil
	case "<=":
		l.pos += 2
		return l.emit(TokenLe, start), nil
	case ">=":
		l.pos += 2
		return l.emit(TokenGe, start), nil
	case "&&":
		l.pos += 2
		return l.emit(TokenAnd, start), nil
	case "||":
		l.pos += 2
		return l.emit(TokenOr, start), nil
	}

	l.pos++
	switch c {
	case '=':
		return l.emit(TokenEq, start), nil
	case '<':
		return l.emit(TokenLt, start), nil
	case '>':
		return l.emit(TokenGt, start), nil
	case '(':
		return l.emit(TokenLParen, start), nil
	case ')':
		return l.emit(TokenRParen, start), nil
	case '[':
		return l.emit(TokenLBrack, start), nil
	case ']':
		return l.emit(TokenRBrack, start), nil
	case ':':
		return l.emit(TokenColon, start), nil
	}
	return Token{}, newParseError(ErrCodeUnexpectedToken,
		fmt.Sprintf("unexpected character '%c'", c), start, l.pos, nil)
}

// ident scans an identifier, including dotted components and generate
// block suffixes such as core(3).
func (l *lexer) ident() Token {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isIdentChar(c) {
			l.pos++
			continue
		}
		if c == '(' && l.indexSuffixLen() > 0 {
			l.pos += l.indexSuffixLen()
			continue
		}
		break
	}
	tok := l.emit(TokenIdent, start)
	switch strings.ToLower(tok.Text) {
	case "and":
		tok.Kind = TokenAnd
	case "or":
		tok.Kind = TokenOr
	}
	return tok
}

// indexSuffixLen returns the length of a "(digits)" suffix at the current
// position, or 0 if there is none.
func (l *lexer) indexSuffixLen() int {
	i := 1
	for isDigit(l.peek(i)) {
		i++
	}
	if i == 1 || l.peek(i) != ')' {
		return 0
	}
	return i + 1
}

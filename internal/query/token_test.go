package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Operators(t *testing.T) {
	toks, err := Tokenize("= == != <> >< < <= > >= && || and OR And ( ) [ ] :")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenEq, TokenEq, TokenNe, TokenNe, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe,
		TokenAnd, TokenOr, TokenAnd, TokenOr, TokenAnd,
		TokenLParen, TokenRParen, TokenLBrack, TokenRBrack, TokenColon, TokenEOF,
	}, kinds(toks))
}

func TestTokenize_IdentifiersAndLiterals(t *testing.T) {
	toks, err := Tokenize("  mod1.mod_gen(0).mod2.a>='hFx  ")
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, Token{Kind: TokenIdent, Text: "mod1.mod_gen(0).mod2.a", Start: 2, End: 24}, toks[0])
	assert.Equal(t, TokenGe, toks[1].Kind)
	assert.Equal(t, Token{Kind: TokenLiteral, Text: "'hFx", Start: 26, End: 30}, toks[2])
	assert.Equal(t, Token{Kind: TokenEOF, Start: 32, End: 32}, toks[3])
}

func TestTokenize_GroupingIsNotASuffix(t *testing.T) {
	toks, err := Tokenize("core (3)")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenIdent, TokenLParen, TokenLiteral, TokenRParen, TokenEOF}, kinds(toks))

	toks, err = Tokenize("core(a)")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenIdent, TokenLParen, TokenIdent, TokenRParen, TokenEOF}, kinds(toks))
}

func TestTokenize_KeywordsOnlyWhole(t *testing.T) {
	toks, err := Tokenize("band or_gate")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenIdent, TokenIdent, TokenEOF}, kinds(toks))
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		src        string
		code       ErrorCode
		start, end int
	}{
		{"a # b", ErrCodeUnexpectedToken, 2, 3},
		{"a = 'q1", ErrCodeInvalidLiteral, 4, 6},
		{"a = '", ErrCodeInvalidLiteral, 4, 5},
		{"a ! b", ErrCodeUnexpectedToken, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, tt.start, pe.Start)
			assert.Equal(t, tt.end, pe.End)
		})
	}
}

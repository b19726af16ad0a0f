package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "IDENT", IDENT.String())
	assert.Equal(t, "=>", ARROW.String())
	assert.Equal(t, "TOKEN(99)", TokenType(99).String())
}

func TestToken_Is(t *testing.T) {
	tok := Token{Type: IDENT, Literal: "export"}
	assert.True(t, tok.Is("export"))
	assert.False(t, tok.Is("const"))

	str := Token{Type: STRING, Literal: "export"}
	assert.False(t, str.Is("export"), "only identifiers match keywords")
}

func TestTokenType_Brackets(t *testing.T) {
	for _, tt := range []TokenType{LPAREN, LBRACKET, LBRACE} {
		assert.True(t, tt.IsOpening(), tt.String())
		assert.False(t, tt.IsClosing(), tt.String())
	}
	for _, tt := range []TokenType{RPAREN, RBRACKET, RBRACE} {
		assert.True(t, tt.IsClosing(), tt.String())
	}
	assert.False(t, LT.IsOpening())
}

func TestSpan(t *testing.T) {
	s := Span{
		Start: Position{Line: 1, Column: 5, Offset: 4},
		End:   Position{Line: 1, Column: 9, Offset: 8},
	}
	assert.True(t, s.IsValid())
	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Contains(4))
	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(8))

	assert.False(t, Span{}.IsValid())
}

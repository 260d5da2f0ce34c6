package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  Hello   World\t", want: "hello world"},
		{input: "E0774\n- Actual Amount", want: "e0774 - actual amount"},
		{input: "", want: ""},
		{input: "   ", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}

func TestTokenize(t *testing.T) {
	assert.Nil(t, Tokenize(""))
	assert.Nil(t, Tokenize(" -- "))

	tokens := Tokenize("District ID, District (E0212)")
	assert.Len(t, tokens, 3)
	assert.Contains(t, tokens, "district")
	assert.Contains(t, tokens, "id")
	assert.Contains(t, tokens, "e0212")

	assert.Len(t, Tokenize("CS_NONPROF_FUNC"), 3)
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 1.0, Ratio("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, Ratio("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.75, Ratio("abcd", "bcde"), 1e-9)
	assert.InDelta(t, 28.0/36.0, Ratio("district identifier", "district id field"), 1e-9)
}

func TestIdentifierCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "E0774 Actual Amount", want: "E0774"},
		{input: "See E0212 and E0316", want: "E0212"},
		{input: "e0774 lowercase", want: ""},
		{input: "ACTAMT", want: ""},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IdentifierCode(tt.input), "IdentifierCode(%q)", tt.input)
	}
	assert.True(t, HasIdentifierCode("Code E0316 - Fund"))
	assert.False(t, HasIdentifierCode("Fund Code"))
}

func TestDashTail(t *testing.T) {
	tail, ok := dashTail("E0316 – Fund Code")
	assert.True(t, ok)
	assert.Equal(t, "Fund Code", tail)

	tail, ok = dashTail("E0317 - Function")
	assert.True(t, ok)
	assert.Equal(t, "Function", tail)

	_, ok = dashTail("No dash here")
	assert.False(t, ok)
}

func TestSegmentsAndWords(t *testing.T) {
	assert.Equal(t, []string{"NONPROF", "FUNC"}, segments("CS_NONPROF_FUNC", 3))
	assert.Equal(t, []string{"NONPROF", "FUNC"}, segments("CS_NONPROF_FUNC", 4))
	assert.Equal(t, []string{"NONPROF"}, segments("CS_NONPROF_FUN", 4))
	assert.Equal(t, []string{"date", "update"}, words("DATE_UPDATE", 4))
	assert.Empty(t, words("A-B_C", 4))
}

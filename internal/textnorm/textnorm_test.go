package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases ascii", "Cat", "cat"},
		{"folds accented capitals", "ÉTÉ", "été"},
		{"collapses whitespace", "  pomme   de\tterre ", "pomme de terre"},
		{"folds german sharp s", "Straße", "strasse"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestFold_ComposesDecomposedInput(t *testing.T) {
	decomposed := "e\u0301te\u0301"
	assert.Equal(t, Fold("été"), Fold(decomposed))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a small domesticated feline", PlainText("  a small   domesticated feline "))
	assert.Equal(t, "a small feline", PlainText("a <b>small</b> feline"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c\\d`, EscapeLike(`c\d`))
}

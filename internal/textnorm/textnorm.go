// Package textnorm normalizes user-submitted dictionary text.
//
// Fold produces the matching key stored next to headwords and definitions so
// that substring search is case-insensitive in every language, independent of
// how the underlying database implements LOWER or ILIKE.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/k3a/html2text"
	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the case-folded, NFC-normalized form of s with whitespace runs
// collapsed to a single space.
func Fold(s string) string {
	t := transform.Chain(norm.NFC, cases.Fold(), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = strings.ToLower(s)
	}
	return Collapse(folded)
}

// Collapse trims s and replaces internal whitespace spans with one ASCII space.
func Collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// PlainText converts markup in s to plain text. Input without tags is only
// collapsed.
func PlainText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return Collapse(s)
	}
	return Collapse(html2text.HTML2Text(s))
}

// EscapeLike escapes the LIKE wildcards in s using backslash as the escape rune.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

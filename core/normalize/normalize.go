// Package normalize builds the canonical city and department keys used to
// match historical manifests.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// City keeps the text before the first comma, then applies Key.
// "Bogotá, Cundinamarca" -> "BOGOTA".
func City(name string) string {
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return Key(name)
}

// Key strips diacritics, uppercases and collapses whitespace
func Key(s string) string {
	s = StripDiacritics(s)
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), " ")
}

// StripDiacritics removes combining marks after canonical decomposition
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

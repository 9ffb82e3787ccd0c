// Package textutil provides text folding helpers for matching header labels
// that vary by case and accents across partner exports.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes combining marks ("agência" -> "agencia").
func StripAccents(value string) string {
	result, _, err := transform.String(accentStripper, value)
	if err != nil {
		return value
	}
	return result
}

// Fold lowercases and strips accents.
func Fold(value string) string {
	return StripAccents(strings.ToLower(value))
}

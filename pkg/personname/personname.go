// Copyright (c) 2026 ScholarLink. All rights reserved.

// Package personname normalizes researcher names for comparison and querying.
//
// # Usage
//
// Institutional datasets mix accented and unaccented spellings of the same
// person ("Aurélie" vs "Aurelie"), and the ORCID expanded search treats the
// two as different strings. Folding both sides to an accent-free, lowercase
// form before comparison makes matching stable.
package personname

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold converts a Unicode name to its accent-free form, preserving case
// and spacing (é → e, ç → c).
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Normalize produces the canonical comparison key for a name: accent-folded,
// lowercased, with runs of whitespace collapsed to single spaces.
func Normalize(s string) string {
	folded := strings.ToLower(Fold(s))
	return strings.Join(strings.Fields(folded), " ")
}

// Equal reports whether two names match after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

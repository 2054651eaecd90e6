package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a term for near-duplicate comparison: lowercase, no
// diacritics, anything outside [a-z0-9] turned into a space, whitespace
// collapsed.
func Normalize(s string) string {
	folded := fold(s)
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, folded)

	return strings.Join(strings.Fields(mapped), " ")
}

// dedupeKey is the identity used for duplicate detection. Terms that
// normalize to nothing (non-Latin scripts, punctuation) compare by their
// trimmed lowercase text instead of all colliding on "".
func dedupeKey(s string) string {
	if key := Normalize(s); key != "" {
		return key
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// identityKey is the stricter fold used when removing entries: case,
// diacritics and whitespace are ignored but symbols are kept, so "C",
// "C++" and "C#" stay apart.
func identityKey(s string) string {
	return strings.Join(strings.Fields(fold(s)), " ")
}

// fold lowercases s and strips combining marks.
func fold(s string) string {
	// transform chains keep internal buffers, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

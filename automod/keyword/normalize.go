package keyword

import (
	"regexp"
	"strings"
)

// Cyrillic (and a few other) look-alike characters mapped to their Latin
// equivalents. Spammers swap these in to slip banned phrases past naive
// substring matching.
var homoglyphs = map[rune]rune{
	'а': 'a', 'А': 'a',
	'в': 'b', 'В': 'b',
	'с': 'c', 'С': 'c',
	'е': 'e', 'Е': 'e',
	'н': 'h', 'Н': 'h',
	'і': 'i', 'І': 'i',
	'к': 'k', 'К': 'k',
	'м': 'm', 'М': 'm',
	'о': 'o', 'О': 'o',
	'р': 'p', 'Р': 'p',
	'т': 't', 'Т': 't',
	'у': 'y', 'У': 'y',
	'х': 'x', 'Х': 'x',
}

var multiSpace = regexp.MustCompile(`\s+`)

// FoldHomoglyphs replaces known look-alike characters with their Latin
// equivalents, leaving everything else untouched.
func FoldHomoglyphs(orig string) string {
	return strings.Map(func(r rune) rune {
		if out, ok := homoglyphs[r]; ok {
			return out
		}
		return r
	}, orig)
}

// Normalize canonicalizes free-form text for lexical matching: folds
// homoglyphs, lower-cases, and collapses runs of whitespace. Total and
// idempotent; safe to call on already-normalized text.
func Normalize(orig string) string {
	out := FoldHomoglyphs(orig)
	out = strings.ToLower(out)
	out = multiSpace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

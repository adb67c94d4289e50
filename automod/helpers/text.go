package helpers

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/spaolacci/murmur3"
)

func DedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range in {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}

// returns a fast, compact hash of a string
//
// current implementation uses murmur3, default seed, and hex encoding
func HashOfString(s string) string {
	val := murmur3.Sum64([]byte(s))
	return fmt.Sprintf("%016x", val)
}

var (
	urlRegex     = regexp.MustCompile(`(?:(?:https?|ftp)://)?[\w/\-?=%.]+\.[\w/\-&?=%.]*[\w/\-&?=%]+`)
	mentionRegex = regexp.MustCompile(`@[\w]+`)
	capsRunRegex = regexp.MustCompile(`[A-Z]{5,}`)
)

func ExtractTextURLs(raw string) []string {
	return urlRegex.FindAllString(raw, -1)
}

func ContainsURL(raw string) bool {
	return urlRegex.MatchString(raw)
}

// Extracts all @-handle mentions from raw text, including duplicates.
func ExtractMentions(raw string) []string {
	return mentionRegex.FindAllString(raw, -1)
}

// Extracts the registerable domain from a URL-ish string, lower-cased, with
// any "www." prefix and path/port stripped. Best-effort; returns "" when the
// string doesn't look like a URL at all.
func DomainFromURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "ftp://")
	s = strings.TrimPrefix(s, "www.")
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.IndexRune(s, ':'); idx >= 0 {
		s = s[:idx]
	}
	if !strings.ContainsRune(s, '.') {
		return ""
	}
	return s
}

// Counts runs of five or more upper-case ASCII letters (shouting).
func CountCapsRuns(raw string) int {
	return len(capsRunRegex.FindAllString(raw, -1))
}

// Reports whether the text contains a run of five or more identical characters.
func HasRepeatedChars(raw string) bool {
	var prev rune
	run := 0
	for _, r := range raw {
		if r == prev {
			run++
			if run >= 5 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F9FF: // symbols, emoticons, transport
		return true
	case r >= 0x1F100 && r <= 0x1F1FF: // enclosed characters, flags
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B50 && r <= 0x2B55: // stars and circles
		return true
	case r == 0x2934 || r == 0x2935 || r == 0x3030 || r == 0x303D || r == 0xFE0F:
		return true
	}
	return false
}

func CountEmojis(raw string) int {
	n := 0
	for _, r := range raw {
		if isEmojiRune(r) {
			n++
		}
	}
	return n
}

var moneyEmojis = map[rune]bool{
	'💰': true, '💵': true, '💸': true, '🤑': true, '💲': true,
	'💳': true, '🏧': true, '💎': true, '🪙': true,
}

func CountMoneyEmojis(raw string) int {
	n := 0
	for _, r := range raw {
		if moneyEmojis[r] {
			n++
		}
	}
	return n
}

// Unicode ranges for script families which a deployment may disallow
// entirely. Keys are the config-facing family names.
var scriptRanges = map[string][]*unicode.RangeTable{
	"han":      {unicode.Han},
	"hangul":   {unicode.Hangul},
	"cyrillic": {unicode.Cyrillic},
	"kana":     {unicode.Hiragana, unicode.Katakana},
	"arabic":   {unicode.Arabic},
	"thai":     {unicode.Thai},
}

// Returns the names of any configured script families present in the text.
// Unknown family names are ignored; they are validated at config load.
func DetectScripts(raw string, families []string) []string {
	var out []string
	for _, fam := range families {
		tables, ok := scriptRanges[fam]
		if !ok {
			continue
		}
		for _, r := range raw {
			matched := false
			for _, tbl := range tables {
				if unicode.Is(tbl, r) {
					out = append(out, fam)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return out
}

// KnownScriptFamily reports whether the name is a supported script family,
// for fail-fast config validation.
func KnownScriptFamily(name string) bool {
	_, ok := scriptRanges[name]
	return ok
}

package fields

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Similarity is normalized Levenshtein similarity in [0,1], case-folded.
func Similarity(a, b string) float64 {
	return levenshtein.Similarity(strings.ToUpper(a), strings.ToUpper(b), nil)
}

// NearestEntry returns the dictionary entry closest to value and its
// similarity. ok is false for an empty dictionary.
func NearestEntry(value string, dictionary []string) (entry string, similarity float64, ok bool) {
	for _, d := range dictionary {
		s := Similarity(value, d)
		if !ok || s > similarity {
			entry, similarity, ok = d, s, true
		}
	}
	return entry, similarity, ok
}

// findDictionaryCandidates scans text for exact (case-insensitive)
// occurrences of dictionary entries. Matching folds rune by rune over the
// original string, so reported spans always address valid byte ranges even
// when case mapping changes a rune's encoded length.
func findDictionaryCandidates(text string, dictionary []string) []candidate {
	var out []candidate
	for _, entry := range dictionary {
		if entry == "" {
			continue
		}
		from := 0
		for from < len(text) {
			start, end := foldIndex(text[from:], entry)
			if start < 0 {
				break
			}
			start += from
			end += from
			if isWordBounded(text, start, end) {
				out = append(out, candidate{
					value: text[start:end],
					start: start,
					end:   end,
				})
			}
			from = end
		}
	}
	return out
}

// foldIndex locates the first case-insensitive occurrence of needle in s and
// returns its byte offsets, or (-1, -1) when absent.
func foldIndex(s, needle string) (int, int) {
	for i := 0; i < len(s); {
		if n, ok := foldPrefix(s[i:], needle); ok {
			return i, i + n
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

// foldPrefix reports whether s begins with needle under simple case folding
// and returns the byte length of the matched prefix of s.
func foldPrefix(s, needle string) (int, bool) {
	n := 0
	for _, nr := range needle {
		sr, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || !foldEq(sr, nr) {
			return 0, false
		}
		n += size
	}
	return n, true
}

func foldEq(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

func isWordBounded(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

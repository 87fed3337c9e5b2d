// Package signal turns free text into keyword-table hit counts. Everything here
// is pure and deterministic.
package signal

import "strings"

// Tokenize lowercases text and splits it on every non [a-z0-9] rune.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

// Join rebuilds the space-separated token string used for multi-word matches.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

// CountKeywordHits counts how many keywords of the table appear in tokens.
// Single-word keywords must match a whole token; multi-word keywords ("let go")
// match as a substring of the joined token string. Each keyword counts once.
func CountKeywordHits(tokens []string, keywords []string) int {
	if len(tokens) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	joined := Join(tokens)

	n := 0
	for _, k := range keywords {
		kw := strings.ToLower(strings.TrimSpace(k))
		if kw == "" {
			continue
		}
		if strings.Contains(kw, " ") {
			if strings.Contains(joined, kw) {
				n++
			}
			continue
		}
		if _, ok := set[kw]; ok {
			n++
		}
	}
	return n
}

// TokenSet builds a membership set from tokens.
func TokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

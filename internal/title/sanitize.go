// Package title ranks candidate titles for a single journal entry by how well
// they match the entry's own wording, tone and situation.
package title

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	controlRun       = regexp.MustCompile(`[\r\n\t]+`)
	listMarker       = regexp.MustCompile(`^\s*[-*•\d.)]+\s*`)
	leadingNonAlnum  = regexp.MustCompile(`^[^a-zA-Z0-9]+`)
	leadingLetter    = regexp.MustCompile(`^[a-zA-Z]\s+`)
	wrappingQuote    = regexp.MustCompile(`^["']|["']$`)
	trailingPunct    = regexp.MustCompile(`[.?!,:;]+$`)
	spaceRun         = regexp.MustCompile(`\s+`)
	titleMetaWord    = regexp.MustCompile(`\b(prompt|shuffle|reflekt|assistant|system|model|cache|code)\b`)
	leadingConnector = regexp.MustCompile(`^(and|but|so|or|of|to|for|the|a|an)\b`)
	harshWord        = regexp.MustCompile(`\b(ruined|hopeless|broken|empty inside|dead inside)\b`)
)

// softeners dampen dramatic wording. They apply in order, so an earlier
// substitution can feed a later one.
var softeners = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)absolutely nothing`), "Low Energy"},
	{regexp.MustCompile(`(?i)stopped trying`), "Feeling Disconnected"},
	{regexp.MustCompile(`(?i)hollowed out`), "Emotionally Drained"},
	{regexp.MustCompile(`(?i)dull ache`), "Heavy Mood"},
	{regexp.MustCompile(`(?i)heavy`), "Strained"},
	{regexp.MustCompile(`(?i)dream life`), "Good Day"},
	{regexp.MustCompile(`(?i)everything .* turns to gold`), "Things Going Well"},
	{regexp.MustCompile(`(?i)massive opportunity`), "New Opportunity"},
	{regexp.MustCompile(`(?i)completely energized`), "Energized"},
	{regexp.MustCompile(`(?i)abundant`), "Steady"},
}

// Sanitize cleans one candidate and returns "" when it cannot be a title:
// 2-5 words, 3-72 characters, no meta vocabulary and no leading connective.
func Sanitize(raw string) string {
	s := controlRun.ReplaceAllString(raw, " ")
	s = listMarker.ReplaceAllString(s, "")
	s = leadingNonAlnum.ReplaceAllString(s, "")
	s = leadingLetter.ReplaceAllString(s, "")
	s = wrappingQuote.ReplaceAllString(s, "")
	s = trailingPunct.ReplaceAllString(s, "")
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	if titleMetaWord.MatchString(lower) || leadingConnector.MatchString(lower) {
		return ""
	}
	if n := utf8.RuneCountInString(s); n < 3 || n > 72 {
		return ""
	}
	if n := len(strings.Fields(s)); n < 2 || n > 5 {
		return ""
	}
	return s
}

// Soften sanitizes, applies the softeners and drops anything that still reads
// as harsh.
func Soften(raw string) string {
	s := Sanitize(raw)
	if s == "" {
		return ""
	}
	for _, sub := range softeners {
		s = sub.re.ReplaceAllString(s, sub.with)
	}
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	if harshWord.MatchString(strings.ToLower(s)) {
		return ""
	}
	return Sanitize(s)
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

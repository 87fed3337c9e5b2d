package title

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alexanderramin/reflekt/internal/signal"
)

const maxPhrases = 40

var contractions = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)\b(it|that|there|here|what|who|where|when|how)['’]s\b`), "$1 is"},
	{regexp.MustCompile(`(?i)\b([a-z]+)['’]m\b`), "$1 am"},
	{regexp.MustCompile(`(?i)\b([a-z]+)['’]re\b`), "$1 are"},
	{regexp.MustCompile(`(?i)\b([a-z]+)['’]ve\b`), "$1 have"},
	{regexp.MustCompile(`(?i)\b([a-z]+)n['’]t\b`), "$1 not"},
}

var phraseStopWords = wordSet(
	"i", "im", "ive", "my", "me", "the", "a", "an", "and", "or", "but", "so", "to", "of", "in",
	"on", "at", "for", "with", "this", "that", "it", "is", "are", "was", "were", "be", "been",
	"being", "today", "already", "just", "really", "very", "completely", "through", "right",
	"s", "am", "have", "had", "not", "getting", "honestly", "okay", "about", "their", "people", "anyone",
)

var phraseWeakStarts = wordSet(
	"woke", "feeling", "feel", "going", "meet", "someone", "touch", "turns", "coming", "best", "truly",
)

var (
	themeWord     = regexp.MustCompile(`\b(opportunity|productivity|grateful|joyful|abundant|dream|energy|energized|life|focus|momentum)\b`)
	lifeAreaWord  = regexp.MustCompile(`\b(work|school|money|health|relationship|goal|project|meeting|deadline)\b`)
	heavyWord     = regexp.MustCompile(`\b(mask|heavy|dull ache|hollowed|pretending|absolutely nothing|stopped trying|dark)\b`)
	smallTalkWord = regexp.MustCompile(`\b(people about|their weekends|made polite|polite conversation)\b`)
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Extract mines 2-4 word phrases straight from the entry, favoring concrete
// themes, and returns up to max of them as softened, title-cased titles.
func Extract(content string, max int) []string {
	text := content
	for _, c := range contractions {
		text = c.re.ReplaceAllString(text, c.with)
	}
	text = strings.ToLower(strings.TrimSpace(spaceRun.ReplaceAllString(text, " ")))
	tokens := signal.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	var phrases []string
	seen := map[string]bool{}
	add := func(parts []string) {
		phrase := strings.Join(parts, " ")
		if seen[phrase] || !usablePhrase(parts) {
			return
		}
		seen[phrase] = true
		phrases = append(phrases, phrase)
	}
scan:
	for i := range tokens {
		for n := 2; n <= 4; n++ {
			if i+n > len(tokens) {
				continue
			}
			add(tokens[i : i+n])
			if len(phrases) >= maxPhrases {
				break scan
			}
		}
	}

	scores := make(map[string]int, len(phrases))
	for _, p := range phrases {
		scores[p] = phraseScore(p)
	}
	sort.SliceStable(phrases, func(i, j int) bool { return scores[phrases[i]] > scores[phrases[j]] })

	var out []string
	picked := map[string]bool{}
	for _, p := range phrases {
		if len(out) >= max {
			break
		}
		t := Soften(TitleCase(p))
		if t == "" || picked[t] {
			continue
		}
		picked[t] = true
		out = append(out, t)
	}
	return out
}

func usablePhrase(parts []string) bool {
	if len(parts) < 2 || len(parts) > 5 || len(parts[0]) < 3 || phraseWeakStarts[parts[0]] {
		return false
	}
	long := 0
	for _, p := range parts {
		if len(p) <= 1 || phraseStopWords[p] {
			return false
		}
		if len(p) >= 5 {
			long++
		}
	}
	return long >= 1
}

func phraseScore(p string) int {
	score := 0
	if themeWord.MatchString(p) {
		score += 3
	}
	if lifeAreaWord.MatchString(p) {
		score += 2
	}
	if heavyWord.MatchString(p) {
		score += 4
	}
	if smallTalkWord.MatchString(p) {
		score -= 3
	}
	for _, w := range strings.Fields(p) {
		if len(w) >= 6 {
			score++
		}
	}
	return score
}

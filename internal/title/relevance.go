package title

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/alexanderramin/reflekt/internal/signal"
)

// MaxTitles is the most titles any suggestion call returns.
const MaxTitles = 5

type domainKeywords struct {
	Domain   string
	Keywords []string
}

// titleDomains is ordered; ties in detection go to the earlier domain.
var titleDomains = []domainKeywords{
	{"work", []string{"work", "job", "office", "manager", "coworker", "team", "meeting", "deadline", "project", "client"}},
	{"school", []string{"school", "class", "study", "homework", "assignment", "exam", "professor", "teacher", "course"}},
	{"relationships", []string{"partner", "relationship", "boyfriend", "girlfriend", "friend", "family", "roommate", "parent"}},
	{"money", []string{"money", "budget", "bill", "rent", "debt", "paycheck", "expense", "income"}},
	{"health", []string{"health", "sleep", "energy", "exercise", "therapy", "doctor", "anxiety", "stress", "burnout"}},
}

// situations are checked in order; the first match labels the entry.
var situations = []struct {
	Label string
	re    *regexp.Regexp
}{
	{"meeting with manager", regexp.MustCompile(`\b(meeting|1:1|one on one).*(manager|boss)\b|\b(manager|boss).*(meeting|1:1|one on one)\b`)},
	{"team meeting", regexp.MustCompile(`\b(team meeting|standup|sync)\b`)},
	{"project deadline", regexp.MustCompile(`\b(project|deadline|deliverable)\b`)},
	{"exam prep", regexp.MustCompile(`\b(exam|test|quiz|midterm|finals?)\b`)},
	{"assignment pressure", regexp.MustCompile(`\b(assignment|homework)\b`)},
	{"friend tension", regexp.MustCompile(`\b(friend|friends).*(tension|argument|fight|distance)\b|\b(tension|argument|fight|distance).*(friend|friends)\b`)},
	{"family pressure", regexp.MustCompile(`\b(family|parent|parents)\b.*(pressure|argument|fight|stress)|\b(pressure|argument|fight|stress).*(family|parent|parents)\b`)},
	{"relationship check-in", regexp.MustCompile(`\b(partner|relationship|boyfriend|girlfriend)\b`)},
	{"money stress", regexp.MustCompile(`\b(money|budget|bill|rent|debt)\b`)},
	{"sleep and energy", regexp.MustCompile(`\b(sleep|tired|exhausted|energy)\b`)},
}

var toneKeywords = map[string]bool{
	"stress": true, "stressed": true, "overwhelmed": true, "drained": true, "exhausted": true,
	"tired": true, "lonely": true, "anxious": true, "pressure": true, "disappointed": true,
	"hopeful": true, "grateful": true, "energized": true, "calm": true, "focused": true,
}

var quirkyObjects = map[string]bool{
	"peanut": true, "butter": true, "cereal": true, "chicken": true, "freezer": true,
	"kitchen": true, "wall": true, "spoon": true, "fork": true,
}

var domainTokens = func() map[string]bool {
	set := map[string]bool{}
	for _, d := range titleDomains {
		for _, k := range d.Keywords {
			for _, p := range strings.Fields(strings.ToLower(k)) {
				set[p] = true
			}
		}
	}
	return set
}()

// Signal is what an entry offers a title to overlap with.
type Signal struct {
	Tokens    map[string]bool
	Situation string
	TopDomain string
}

// NewSignal reads the title signal out of entry content.
func NewSignal(content string) Signal {
	lower := strings.ToLower(content)
	tokens := signal.Tokenize(lower)
	return Signal{
		Tokens:    signal.TokenSet(tokens),
		Situation: detectSituation(lower),
		TopDomain: detectDomain(lower, tokens),
	}
}

// Score rates a title against the signal. The second result is false when
// the title does not survive sanitizing.
func Score(title string, sig Signal) (int, bool) {
	clean := Sanitize(title)
	if clean == "" {
		return 0, false
	}
	lower := strings.ToLower(clean)
	parts := signal.Tokenize(lower)
	if len(parts) == 0 {
		return 0, false
	}

	var domainHits, toneHits, quirkyHits int
	for _, p := range parts {
		if domainTokens[p] && sig.Tokens[p] {
			domainHits++
		}
		if toneKeywords[p] && sig.Tokens[p] {
			toneHits++
		}
		if quirkyObjects[p] {
			quirkyHits++
		}
	}
	score := domainHits*3 + toneHits*2

	if sig.Situation != "" {
		for _, p := range strings.Fields(sig.Situation) {
			if strings.Contains(lower, p) {
				score += 3
			}
		}
	}
	if sig.TopDomain != "" && strings.Contains(lower, sig.TopDomain) {
		score += 2
	}

	noSignal := domainHits == 0 && toneHits == 0
	if quirkyHits > 0 && noSignal {
		score -= 6
	}
	if len(parts) <= 2 && noSignal {
		score -= 4
	}
	return score, true
}

// Rank softens and dedupes options, drops anything scoring -4 or lower, and
// returns the best max titles. Equal scores keep input order.
func Rank(options []string, content string, max int) []string {
	sig := NewSignal(content)

	type row struct {
		title string
		score int
	}
	var rows []row
	var seen []string
	for _, o := range options {
		t := Soften(o)
		if t == "" || slices.Contains(seen, t) {
			continue
		}
		seen = append(seen, t)
		score, ok := Score(t, sig)
		if !ok || score <= -4 {
			continue
		}
		rows = append(rows, row{title: t, score: score})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	out := make([]string, 0, min(max, len(rows)))
	for _, r := range rows {
		if len(out) >= max {
			break
		}
		out = append(out, r.title)
	}
	return out
}

func detectDomain(lower string, tokens []string) string {
	best, bestScore := "", 0
	for _, d := range titleDomains {
		score := 0
		for _, k := range d.Keywords {
			if strings.Contains(k, " ") {
				if strings.Contains(lower, k) {
					score += 2
				}
			} else if slices.Contains(tokens, k) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = d.Domain, score
		}
	}
	return best
}

func detectSituation(lower string) string {
	for _, s := range situations {
		if s.re.MatchString(lower) {
			return s.Label
		}
	}
	return ""
}

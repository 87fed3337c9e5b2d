package title

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/reflekt/internal/signal"
)

var (
	positiveCue = regexp.MustCompile(`(?i)\b(grateful|joy|joyful|energized|excited|abundant|dream life|proud|optimistic|inspired)\b`)
	negativeCue = regexp.MustCompile(`(?i)\b(heavy|exhausted|drained|overwhelmed|anxious|stress|stressed|burnout|hard day)\b`)
)

// Mood is the coarse register a set of title options is written in.
type Mood int

const (
	MoodNeutral Mood = iota
	MoodPositive
	MoodNegative
)

// DetectMood reads the register from the lexicon score and cue words.
// Positive wins when both apply.
func DetectMood(text string) Mood {
	score := signal.SentimentScore(text)
	switch {
	case score >= 3 || positiveCue.MatchString(text):
		return MoodPositive
	case score <= -2 || negativeCue.MatchString(text):
		return MoodNegative
	default:
		return MoodNeutral
	}
}

var domainOptions = map[string][3][]string{
	"work": {
		MoodNeutral:  {"Work Check-In", "Work and Energy", "Work Priorities Today"},
		MoodPositive: {"Good Momentum at Work", "Workday Wins", "Work Felt Lighter Today"},
		MoodNegative: {"Work Stress Check-In", "Tough Day at Work", "Work Pressure Today"},
	},
	"school": {
		MoodNeutral:  {"School Check-In", "Study and Focus", "School Priorities Today"},
		MoodPositive: {"School Progress Today", "Steady School Momentum", "Learning Went Well"},
		MoodNegative: {"School Stress Check-In", "Study Pressure Today", "School Felt Heavy"},
	},
	"relationships": {
		MoodNeutral:  {"Connection Check-In", "Relationships Today", "People and Energy"},
		MoodPositive: {"Feeling More Connected", "Connection Went Well", "Relationship Win Today"},
		MoodNegative: {"Connection Felt Hard", "Relationship Check-In", "Boundary and Connection"},
	},
	"money": {
		MoodNeutral:  {"Money Check-In", "Budget and Priorities", "Money and Peace of Mind"},
		MoodPositive: {"Money Felt Clearer", "Steadier with Money", "Money Progress Today"},
		MoodNegative: {"Money Stress Check-In", "Money Pressure Today", "Getting Clear on Money"},
	},
	"health": {
		MoodNeutral:  {"Health Check-In", "Energy and Balance", "Taking Care of Yourself"},
		MoodPositive: {"Energy Felt Better", "Feeling Stronger Today", "Health Win Today"},
		MoodNegative: {"Low Energy Check-In", "Energy and Recovery", "Health Felt Heavy"},
	},
	"": {
		MoodNeutral:  {"A Meaningful Check-In", "Where You Are Today", "Today in Reflection"},
		MoodPositive: {"A Good Day to Build On", "Steady Positive Momentum", "Feeling Good Today"},
		MoodNegative: {"A Hard Day Check-In", "A Small Step Forward", "Where You Are Today"},
	},
}

func situationBase(label string) string {
	switch label {
	case "":
		return ""
	case "sleep and energy":
		return "Low Energy Tonight"
	default:
		return TitleCase(label)
	}
}

func situationOptions(base string, mood Mood) []string {
	if base == "" {
		return nil
	}
	switch mood {
	case MoodPositive:
		return []string{base + " Went Well", base + " Progress"}
	case MoodNegative:
		return []string{base + " Felt Hard", base + " Check-In"}
	default:
		return []string{base + " Check-In", "Thoughts on " + base}
	}
}

// SuggestLocal builds candidates from the current title, domain and situation
// phrasing and phrases mined from the entry, then ranks them. Empty content
// yields no titles.
func SuggestLocal(content, currentTitle string) []string {
	text := strings.TrimSpace(spaceRun.ReplaceAllString(content, " "))
	if text == "" {
		return nil
	}

	var long []string
	for _, t := range signal.Tokenize(text) {
		if len(t) >= 4 {
			long = append(long, t)
		}
	}
	mood := DetectMood(text)
	domain := detectDomain(strings.ToLower(text), long)

	var options []string
	if current := Sanitize(currentTitle); current != "" {
		options = append(options, current)
	}
	options = append(options, domainOptions[domain][mood]...)
	options = append(options, situationOptions(situationBase(detectSituation(strings.ToLower(text))), mood)...)
	options = append(options, Extract(text, MaxTitles)...)

	return Rank(options, text, MaxTitles)
}

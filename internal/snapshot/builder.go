package snapshot

import (
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/signal"
)

// Builder computes snapshots against an injectable clock.
type Builder struct {
	Now func() time.Time
}

// NewBuilder returns a Builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// Build collapses the newest entries into one Snapshot. An empty list yields
// the general domain, lowSignal mode and zero confidence.
func (b *Builder) Build(entries []domain.JournalEntry) Snapshot {
	now := time.Now()
	if b != nil && b.Now != nil {
		now = b.Now()
	}
	return BuildAt(entries, now)
}

// domainTally accumulates strong hits and the weighted total for one domain.
type domainTally struct {
	strong int
	total  int
}

var listLine = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)]|\[[ xX]?\])\s+`)

// BuildAt is Build with an explicit evaluation time.
func BuildAt(entries []domain.JournalEntry, now time.Time) Snapshot {
	recent := RecentEntries(entries, MaxRecentEntries)
	tf := TimeframesAt(now)
	weekMode := WeekModeAt(now)

	snap := Snapshot{
		WeekMode:      weekMode,
		DayName:       now.Weekday().String(),
		IsWeekend:     weekMode == domain.WeekModeWeekend,
		Month:         int(now.Month()),
		Season:        SeasonAt(now),
		TimeTheme:     ThemeAt(now),
		Timeframe:     tf.Timeframe,
		TimeframeNext: tf.TimeframeNext,
		TimeframeEnd:  tf.TimeframeEnd,
		EntryCount:    len(recent),
	}

	domainTallies := make([]domainTally, len(signal.DomainTable))
	actionScores := make([]int, len(signal.ActionTable))
	stateScores := make([]int, len(signal.StateTable))

	var (
		tokensAll    []string
		totalWords   int
		sentimentSum int
		listLike     bool
		storedMoods  = newCounter[string]()
		promptMoods  = newCounter[domain.PromptMood]()
	)

	for _, e := range recent {
		tokens := signal.Tokenize(e.Content)
		tokensAll = append(tokensAll, tokens...)
		totalWords += len(tokens)
		if listLine.MatchString(e.Content) {
			listLike = true
		}

		score := signal.SentimentScore(e.Content)
		sentimentSum += score

		if e.Mood != nil && e.Mood.Label != "" {
			storedMoods.add(e.Mood.Label)
		}
		pm := domain.PromptMood("")
		if e.Mood != nil {
			pm = domain.PromptMoodFromLabel(e.Mood.Label)
		}
		if pm == "" {
			pm = domain.PromptMoodFromLabel(signal.MoodLabelFromScore(score))
		}
		if pm != "" {
			promptMoods.add(pm)
		}

		for i, dk := range signal.DomainTable {
			strong := signal.CountKeywordHits(tokens, dk.Strong)
			weak := signal.CountKeywordHits(tokens, dk.Weak)
			domainTallies[i].strong += strong
			domainTallies[i].total += strong*2 + weak
		}
		for i, ak := range signal.ActionTable {
			actionScores[i] += signal.CountKeywordHits(tokens, ak.Keywords)
		}
		for i, sk := range signal.StateTable {
			stateScores[i] += signal.CountKeywordHits(tokens, sk.Keywords)
		}
	}

	if len(recent) > 0 {
		snap.AvgWordsPerEntry = int(math.Round(float64(totalWords) / float64(len(recent))))
		snap.SentimentTrend = int(math.Round(float64(sentimentSum) / float64(len(recent))))
	}

	snap.PromptMoodTrend = promptMoods.top(3)
	snap.TopMoods = storedMoods.top(2)
	snap.Tone = toneFromTrend(snap.PromptMoodTrend)

	snap.Actions = topTags(signal.ActionTable, actionScores, func(a signal.ActionKeywords) domain.ActionTag { return a.Action })
	snap.States = topTags(signal.StateTable, stateScores, func(s signal.StateKeywords) domain.StateTag { return s.State })

	active := activeDomains(domainTallies)
	snap.Domains = resolveDomains(active, snap.Actions)

	snap.Modes = detectModes(modeInput{
		entryCount:     len(recent),
		avgWords:       snap.AvgWordsPerEntry,
		tokens:         tokensAll,
		listLike:       listLike,
		sentimentTrend: snap.SentimentTrend,
	})

	snap.Confidence = confidence(len(recent), snap.AvgWordsPerEntry, len(active) > 0, len(snap.Actions) > 0)
	return snap
}

// RecentEntries returns up to max entries ordered newest first. Ties keep the
// caller's order.
func RecentEntries(entries []domain.JournalEntry, max int) []domain.JournalEntry {
	sorted := make([]domain.JournalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecencyKey().After(sorted[j].RecencyKey())
	})
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}

// activeDomains applies the multi-signal activation rule: a domain activates
// on two strong hits, or one strong hit with a weighted total of at least 3.
// A single weak keyword can never activate a domain.
func activeDomains(tallies []domainTally) []domain.DomainTag {
	var active []domain.DomainTag
	for i, t := range tallies {
		if t.strong >= 2 || (t.strong >= 1 && t.total >= 3) {
			active = append(active, signal.DomainTable[i].Domain)
		}
	}
	return active
}

func resolveDomains(active []domain.DomainTag, actions []domain.ActionTag) []domain.DomainTag {
	if len(active) > 0 {
		return active
	}
	for _, a := range actions {
		if a == domain.ActionPlan {
			return []domain.DomainTag{domain.DomainResponsibilities, domain.DomainGeneral}
		}
	}
	return []domain.DomainTag{domain.DomainGeneral}
}

func toneFromTrend(trend []domain.PromptMood) domain.ToneTag {
	has := func(m domain.PromptMood) bool {
		for _, t := range trend {
			if t == m {
				return true
			}
		}
		return false
	}
	switch {
	case has(domain.PromptMoodAnxious):
		return domain.ToneGentle
	case has(domain.PromptMoodStuck):
		return domain.ToneNeutral
	case has(domain.PromptMoodGrateful):
		return domain.ToneUpbeat
	default:
		return domain.ToneGentle
	}
}

type modeInput struct {
	entryCount     int
	avgWords       int
	tokens         []string
	listLike       bool
	sentimentTrend int
}

func detectModes(in modeInput) []domain.ModeTag {
	modes := []domain.ModeTag{}
	if in.entryCount < 2 || in.avgWords < 12 {
		modes = append(modes, domain.ModeLowSignal)
	}
	if in.listLike || signal.CountKeywordHits(in.tokens, signal.TaskKeywords) > 0 {
		modes = append(modes, domain.ModeTask)
	}
	first := signal.CountKeywordHits(in.tokens, signal.FirstPersonKeywords)
	third := signal.CountKeywordHits(in.tokens, signal.ThirdPersonKeywords)
	if third >= 4 && third > first*2 {
		modes = append(modes, domain.ModeThirdPersonHeavy)
	}
	if signal.CountKeywordHits(in.tokens, signal.SensitiveKeywords) > 0 {
		modes = append(modes, domain.ModeSensitive)
	}
	if in.sentimentTrend >= 3 {
		modes = append(modes, domain.ModePositive)
	}
	return modes
}

// confidence scores 0..6 and normalizes to [0,1].
func confidence(entryCount, avgWords int, strongDomain, hasAction bool) float64 {
	score := 0
	switch {
	case entryCount >= 6:
		score += 2
	case entryCount >= 3:
		score++
	}
	switch {
	case avgWords >= 35:
		score += 2
	case avgWords >= 18:
		score++
	}
	if strongDomain {
		score++
	}
	if hasAction {
		score++
	}
	c := float64(score) / 6
	return math.Max(0, math.Min(1, c))
}

// topTags picks up to two tags with a score of at least 1, highest first,
// ties broken by table order.
func topTags[R any, T any](table []R, scores []int, tag func(R) T) []T {
	idx := make([]int, 0, len(table))
	for i := range table {
		if scores[i] >= 1 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	if len(idx) > 2 {
		idx = idx[:2]
	}
	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, tag(table[i]))
	}
	return out
}

// counter counts occurrences while remembering first-seen order.
type counter[K comparable] struct {
	order  []K
	counts map[K]int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: map[K]int{}}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// top returns up to n keys, most frequent first, ties by first appearance.
func (c *counter[K]) top(n int) []K {
	keys := make([]K, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

package snapshot

import (
	"testing"
	"time"

	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// friday8pm is 2025-03-14, a Friday.
var friday8pm = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)

func entryAt(id, content string, at time.Time, mood string) domain.JournalEntry {
	e := domain.JournalEntry{ID: id, Content: content, CreatedAt: &at}
	e.Mood = domain.ParseMood(mood)
	return e
}

func TestBuildAt_EmptyEntries(t *testing.T) {
	snap := BuildAt(nil, friday8pm)

	assert.Equal(t, []domain.DomainTag{domain.DomainGeneral}, snap.Domains)
	assert.Contains(t, snap.Modes, domain.ModeLowSignal)
	assert.Equal(t, 0.0, snap.Confidence)
	assert.Equal(t, 0, snap.EntryCount)
	assert.Equal(t, domain.ToneGentle, snap.Tone)
}

func TestBuildAt_FridayEveningWithBadWeek(t *testing.T) {
	var entries []domain.JournalEntry
	for i := 0; i < 5; i++ {
		at := friday8pm.Add(-time.Duration(i+1) * 20 * time.Hour)
		entries = append(entries, entryAt("e"+string(rune('a'+i)),
			"Long day again and I kept replaying the same conversation in my head for hours", at, "Bad"))
	}
	entries = append(entries, entryAt("e-f",
		"Could not sleep, my chest felt tight and everything seemed to pile up at once", friday8pm.Add(-time.Hour), "Awful"))

	snap := BuildAt(entries, friday8pm)

	assert.Equal(t, domain.ToneGentle, snap.Tone)
	assert.Equal(t, "the weekend starts", snap.TimeframeEnd)
	assert.Equal(t, "Friday", snap.DayName)
	assert.Equal(t, domain.WeekModeWeekday, snap.WeekMode)
	assert.Equal(t, 6, snap.EntryCount)
	assert.Equal(t, []domain.PromptMood{domain.PromptMoodStuck, domain.PromptMoodAnxious}, snap.PromptMoodTrend)
}

func TestBuildAt_StuckOnlyIsNeutral(t *testing.T) {
	entries := []domain.JournalEntry{
		entryAt("a", "nothing moved today at all", friday8pm.Add(-2*time.Hour), "Bad"),
		entryAt("b", "same as yesterday honestly", friday8pm.Add(-time.Hour), "Bad"),
	}
	assert.Equal(t, domain.ToneNeutral, BuildAt(entries, friday8pm).Tone)
}

func TestBuildAt_WeakClassDoesNotActivateSchool(t *testing.T) {
	entries := []domain.JournalEntry{
		entryAt("a", "I went to class and then walked home slowly through the park with music on", friday8pm.Add(-time.Hour), ""),
		entryAt("b", "After class I cooked dinner and called it an early night for once this week", friday8pm.Add(-2*time.Hour), ""),
	}

	snap := BuildAt(entries, friday8pm)

	assert.NotContains(t, snap.Domains, domain.DomainSchool)
	assert.Equal(t, []domain.DomainTag{domain.DomainGeneral}, snap.Domains)
}

func TestBuildAt_StrongPlusWeakActivatesDomain(t *testing.T) {
	entries := []domain.JournalEntry{
		entryAt("a", "My manager moved the deadline again and work feels endless", friday8pm.Add(-time.Hour), ""),
	}
	snap := BuildAt(entries, friday8pm)
	assert.Contains(t, snap.Domains, domain.DomainWork)
}

func TestBuildAt_SingleStrongHitOnlyNeedsTotalThree(t *testing.T) {
	// one strong (2) + one weak (1) = 3
	entries := []domain.JournalEntry{entryAt("a", "the exam made school feel heavy", friday8pm, "")}
	assert.Contains(t, BuildAt(entries, friday8pm).Domains, domain.DomainSchool)

	// one strong alone = 2
	entries = []domain.JournalEntry{entryAt("a", "the exam was fine", friday8pm, "")}
	assert.NotContains(t, BuildAt(entries, friday8pm).Domains, domain.DomainSchool)
}

func TestBuildAt_PlanWithoutDomainPrefersResponsibilities(t *testing.T) {
	entries := []domain.JournalEntry{entryAt("a", "I need to plan tomorrow and decide what comes next", friday8pm, "")}
	snap := BuildAt(entries, friday8pm)
	assert.Equal(t, []domain.DomainTag{domain.DomainResponsibilities, domain.DomainGeneral}, snap.Domains)
	assert.Equal(t, domain.ActionPlan, snap.Actions[0])
}

func TestBuildAt_ActionsCappedAtTwoWithTableOrderTies(t *testing.T) {
	entries := []domain.JournalEntry{entryAt("a", "rest and support and gratitude reflect", friday8pm, "")}
	snap := BuildAt(entries, friday8pm)
	assert.Equal(t, []domain.ActionTag{domain.ActionRest, domain.ActionSupport}, snap.Actions)
}

func TestBuildAt_Modes(t *testing.T) {
	long := "She said they would call her back and he told them their plan was fine but she and he never did it together with them"
	entries := []domain.JournalEntry{
		entryAt("a", long, friday8pm.Add(-time.Hour), ""),
		entryAt("b", "- buy milk\n- call bank\n- finish the quarterly report draft before the end of the day", friday8pm.Add(-2*time.Hour), ""),
	}
	snap := BuildAt(entries, friday8pm)
	assert.Contains(t, snap.Modes, domain.ModeThirdPersonHeavy)
	assert.Contains(t, snap.Modes, domain.ModeTask)
	assert.NotContains(t, snap.Modes, domain.ModeSensitive)
}

func TestBuildAt_SensitiveMode(t *testing.T) {
	entries := []domain.JournalEntry{entryAt("a", "Therapy brought up old trauma today", friday8pm, "")}
	assert.Contains(t, BuildAt(entries, friday8pm).Modes, domain.ModeSensitive)
}

func TestBuildAt_PositiveMode(t *testing.T) {
	entries := []domain.JournalEntry{
		entryAt("a", "Such a wonderful happy day, proud and grateful", friday8pm.Add(-time.Hour), ""),
		entryAt("b", "Great news and an amazing dinner with friends", friday8pm.Add(-2*time.Hour), ""),
	}
	assert.Contains(t, BuildAt(entries, friday8pm).Modes, domain.ModePositive)
}

func TestBuildAt_OnlyTwelveMostRecentCount(t *testing.T) {
	var entries []domain.JournalEntry
	for i := 0; i < 20; i++ {
		entries = append(entries, entryAt("e", "short note", friday8pm.Add(-time.Duration(i)*time.Hour), ""))
	}
	assert.Equal(t, MaxRecentEntries, BuildAt(entries, friday8pm).EntryCount)
}

func TestBuildAt_ConfidenceBounds(t *testing.T) {
	var entries []domain.JournalEntry
	text := "My manager scheduled a client meeting about the project deadline and I need to plan tomorrow carefully " +
		"so I can protect some space for rest and still finish the work that matters most before the office closes"
	for i := 0; i < 8; i++ {
		entries = append(entries, entryAt("e", text, friday8pm.Add(-time.Duration(i)*time.Hour), "Good"))
	}
	snap := BuildAt(entries, friday8pm)
	assert.Equal(t, 1.0, snap.Confidence)
	assert.GreaterOrEqual(t, snap.Confidence, 0.0)
}

func TestBuildAt_Idempotent(t *testing.T) {
	entries := []domain.JournalEntry{
		entryAt("a", "My manager moved the deadline again and work feels endless", friday8pm.Add(-time.Hour), "Bad"),
		entryAt("b", "Slept badly, tired, need rest", friday8pm.Add(-3*time.Hour), `{"label":"Okay","confidence":0.4}`),
	}
	first := BuildAt(entries, friday8pm)
	second := BuildAt(entries, friday8pm)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("snapshot not idempotent (-first +second):\n%s", diff)
	}
}

func TestBuilder_UsesInjectedClock(t *testing.T) {
	b := &Builder{Now: func() time.Time { return friday8pm }}
	snap := b.Build(nil)
	require.Equal(t, "Friday", snap.DayName)
}

func TestTimeframesAt(t *testing.T) {
	sundayNight := time.Date(2025, 3, 16, 22, 0, 0, 0, time.UTC)
	saturdayMorning := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	tuesdayNight := time.Date(2025, 3, 11, 23, 0, 0, 0, time.UTC)
	tuesdayAfternoon := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, "the week begins", TimeframesAt(sundayNight).TimeframeEnd)
	assert.Equal(t, "today", TimeframesAt(saturdayMorning).TimeframeNext)
	assert.Equal(t, "tomorrow starts", TimeframesAt(tuesdayNight).TimeframeEnd)
	assert.Equal(t, Timeframes{"today", "tomorrow", "tonight"}, TimeframesAt(tuesdayAfternoon))
}

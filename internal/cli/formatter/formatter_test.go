package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/selection"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatContext(t *testing.T) {
	out := stripANSI(FormatContext(snapshot.Snapshot{
		Domains:       []domain.DomainTag{domain.DomainWork, domain.DomainStress},
		Tone:          domain.ToneGentle,
		DayName:       "Wednesday",
		WeekMode:      domain.WeekModeWeekday,
		Timeframe:     "today",
		TimeframeNext: "today",
		TimeframeEnd:  "tonight",
		EntryCount:    6,
		Confidence:    5.0 / 6,
	}))

	assert.Contains(t, out, "CONTEXT")
	assert.Contains(t, out, "work stress")
	assert.Contains(t, out, "today / today / tonight")
	assert.Contains(t, out, "83%")
	assert.Contains(t, out, "--")
}

func TestFormatPrompts(t *testing.T) {
	out := stripANSI(FormatPrompts([]string{"What felt heavy today?", "What went well?"}))
	assert.Equal(t, " 1. What felt heavy today?\n 2. What went well?\n", out)
	assert.Contains(t, stripANSI(FormatPrompts(nil)), "No prompts")
}

func TestFormatExplain(t *testing.T) {
	scored := []selection.ScoredTemplate{
		{Template: catalog.Template{ID: "work_heavy"}, Score: 2.1, Reasons: []selection.Reason{{Code: selection.ReasonDomainOverlap, Delta: 1.1}}},
		{Template: catalog.Template{ID: "general_small"}, Score: 1},
	}
	out := stripANSI(FormatExplain(scored, 1))
	assert.Contains(t, out, "WEIGHT")
	assert.Contains(t, out, "work_heavy")
	assert.Contains(t, out, "domain_overlap +1.10")
	assert.NotContains(t, out, "general_small")
}

func TestFormatPick(t *testing.T) {
	out := stripANSI(FormatPick(selection.PickResult{Prompt: "What felt heavy today?", Status: selection.StatusOK}))
	assert.Equal(t, "What felt heavy today?\n", out)

	out = stripANSI(FormatPick(selection.PickResult{Prompt: "What felt heavy today?", Status: selection.StatusDegraded}))
	assert.Contains(t, out, "familiar")
	assert.Contains(t, out, selection.StatusDegraded.Message())
}

func TestFormatTitles(t *testing.T) {
	out := stripANSI(FormatTitles([]string{"Work Check-In", "Long Day"}, "long day"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Work Check-In", strings.TrimSpace(lines[0]))
	assert.Equal(t, "● Long Day", lines[1])
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{StyleRed.Render("long"), "x"}, {"s", "y"}}))
	lines := strings.Split(out, "\n")
	assert.Equal(t, "A     B", lines[0])
	assert.Equal(t, "long  x", lines[2])
	assert.Equal(t, "s     y", lines[3])
}

func TestRenderMeter(t *testing.T) {
	assert.Equal(t, "[██░░]  50%", stripANSI(RenderMeter(0.5, 4)))
	assert.Equal(t, "[████] 100%", stripANSI(RenderMeter(3, 4)))
	assert.Equal(t, "[░░]   0%", stripANSI(RenderMeter(-1, 0)))
}

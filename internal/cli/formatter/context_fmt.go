package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// FormatContext renders a snapshot as a labelled block.
func FormatContext(s snapshot.Snapshot) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", Dim(label), value))
	}

	line("Domains", tags(s.Domains))
	line("Actions", tags(s.Actions))
	line("States", tags(s.States))
	line("Tone", Tag(string(s.Tone)))
	line("Modes", tags(s.Modes))
	b.WriteString("\n")

	line("Day", fmt.Sprintf("%s %s, %s", s.DayName, Dim(string(s.TimeTheme)), s.WeekMode))
	line("Timeframes", fmt.Sprintf("%s / %s / %s", s.Timeframe, s.TimeframeNext, s.TimeframeEnd))
	line("Season", s.Season)
	b.WriteString("\n")

	line("Entries", fmt.Sprintf("%d, about %d words each", s.EntryCount, s.AvgWordsPerEntry))
	line("Moods", tags(s.TopMoods))
	line("Sentiment", fmt.Sprintf("%+d", s.SentimentTrend))
	line("Confidence", RenderMeter(s.Confidence, 12))

	return RenderBox("Context", b.String())
}

func tags[T ~string](values []T) string {
	if len(values) == 0 {
		return Dim("--")
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Tag(string(v))
	}
	return strings.Join(out, " ")
}

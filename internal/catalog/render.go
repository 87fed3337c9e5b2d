package catalog

import (
	"strings"

	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// Render substitutes the timeframe placeholders from the snapshot and
// normalizes whitespace. Missing snapshot values render as empty strings,
// which the prompt validator then rejects on word count if needed.
func Render(text string, snap snapshot.Snapshot) string {
	r := strings.NewReplacer(
		"{timeframe_next}", snap.TimeframeNext,
		"{timeframe_end}", snap.TimeframeEnd,
		"{timeframe}", snap.Timeframe,
	)
	return NormalizeSpace(r.Replace(text))
}

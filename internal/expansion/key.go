package expansion

import (
	"strings"

	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// CacheKey is the coarse snapshot key expansions are cached under. Two
// snapshots that only differ in counts, confidence or calendar details share
// a key.
func CacheKey(snap snapshot.Snapshot) string {
	weekMode := string(snap.WeekMode)
	if weekMode == "" {
		weekMode = string(domain.WeekModeWeekday)
	}
	tone := string(snap.Tone)
	if tone == "" {
		tone = string(domain.ToneGentle)
	}
	return strings.Join([]string{
		join(snap.Domains),
		join(snap.Actions),
		join(snap.States),
		join(snap.Modes),
		weekMode,
		tone,
		orDefault(snap.Timeframe, "today"),
		orDefault(snap.TimeframeNext, "tomorrow"),
		orDefault(snap.TimeframeEnd, "tonight"),
	}, "::")
}

func join[T ~string](tags []T) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

package snapshot

import (
	"time"

	"github.com/alexanderramin/reflekt/internal/domain"
)

// TimeTheme is a 4-bucket time-of-day label.
type TimeTheme string

const (
	ThemeMorning   TimeTheme = "morning"
	ThemeAfternoon TimeTheme = "afternoon"
	ThemeEvening   TimeTheme = "evening"
	ThemeNight     TimeTheme = "night"
)

// ThemeAt buckets the wall-clock hour of t.
func ThemeAt(t time.Time) TimeTheme {
	h := t.Hour()
	switch {
	case h >= 5 && h < 12:
		return ThemeMorning
	case h >= 12 && h < 17:
		return ThemeAfternoon
	case h >= 17 && h < 21:
		return ThemeEvening
	default:
		return ThemeNight
	}
}

// WeekModeAt returns weekend for Saturday and Sunday.
func WeekModeAt(t time.Time) domain.WeekMode {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return domain.WeekModeWeekend
	default:
		return domain.WeekModeWeekday
	}
}

// SeasonAt returns a northern-hemisphere season name.
func SeasonAt(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

// Timeframes holds the three placeholder values templates may reference.
type Timeframes struct {
	Timeframe     string
	TimeframeNext string
	TimeframeEnd  string
}

// TimeframesAt derives placeholder phrasing from the evaluation time, not from
// entry timestamps.
func TimeframesAt(t time.Time) Timeframes {
	theme := ThemeAt(t)
	tf := Timeframes{Timeframe: "today", TimeframeNext: "tomorrow", TimeframeEnd: "tonight"}

	switch theme {
	case ThemeMorning:
		tf.TimeframeNext = "today"
	case ThemeNight:
		tf.TimeframeEnd = "tomorrow starts"
	}

	lateDay := theme == ThemeEvening || theme == ThemeNight
	switch {
	case lateDay && t.Weekday() == time.Friday:
		tf.TimeframeEnd = "the weekend starts"
	case lateDay && t.Weekday() == time.Sunday:
		tf.TimeframeEnd = "the week begins"
	}

	if WeekModeAt(t) == domain.WeekModeWeekend && theme == ThemeMorning {
		tf.TimeframeNext = "today"
	}
	return tf
}

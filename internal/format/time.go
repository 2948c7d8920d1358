package format

import (
	"fmt"
	"time"
)

// FormatDateTime renders a training instant the way the bot displays it.
func FormatDateTime(t time.Time) string {
	return fmt.Sprintf("%s %s", WeekdayName(t.Weekday()), t.Format("02.01.06 15:04"))
}

// WeekdayName returns the German weekday name.
func WeekdayName(weekday time.Weekday) string {
	names := []string{
		"Sonntag",
		"Montag",
		"Dienstag",
		"Mittwoch",
		"Donnerstag",
		"Freitag",
		"Samstag",
	}
	return names[int(weekday)]
}

// DaysUntil counts whole calendar days between now and the target,
// comparing dates rather than raw durations so a training tomorrow
// morning is "in 1 day" even when less than 24h away.
func DaysUntil(now, target time.Time) int {
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	targetDate := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	return int(targetDate.Sub(nowDate).Hours() / 24)
}

// DayOffsetPhrase renders the calendar distance to the target as spoken
// German: "heute", "morgen", "in N Tagen".
func DayOffsetPhrase(now, target time.Time) string {
	switch days := DaysUntil(now, target); {
	case days <= 0:
		return "heute"
	case days == 1:
		return "morgen"
	default:
		return fmt.Sprintf("in %d Tagen", days)
	}
}

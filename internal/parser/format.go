package parser

import (
	"fmt"
	"time"
)

// FormatDue formats a due date for list display, relative to now.
func FormatDue(t, now time.Time) string {
	t = t.In(now.Location())
	switch {
	case SameDay(t, now):
		return "Today"
	case SameDay(t, now.AddDate(0, 0, 1)):
		return "Tomorrow"
	case SameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday"
	case t.After(now) && t.Sub(now) < 7*24*time.Hour:
		return t.Format("Monday")
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FormatReminder formats a reminder instant with its time of day.
func FormatReminder(t, now time.Time) string {
	return fmt.Sprintf("%s at %s", FormatDue(t, now), t.In(now.Location()).Format("3:04 PM"))
}

// FormatTimeUntil formats the duration from now until t.
func FormatTimeUntil(t, now time.Time) string {
	diff := t.Sub(now)
	if diff < 0 {
		return "overdue"
	}

	if diff < time.Minute {
		return "less than a minute"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "in 1 minute"
		}
		return fmt.Sprintf("in %d minutes", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", hours)
	}

	days := int(diff.Hours() / 24)
	if days == 1 {
		return "in 1 day"
	}
	return fmt.Sprintf("in %d days", days)
}

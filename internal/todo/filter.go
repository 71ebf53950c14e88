package todo

import (
	"strings"
	"time"

	"github.com/manav03panchal/taskflow/internal/model"
)

// dayStart truncates t to midnight of its calendar day in loc.
func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Matches reports whether t belongs in the view named by f.
// Calendar days are compared in now's location with time of day discarded.
func Matches(t *model.Todo, f model.Filter, now time.Time) bool {
	switch f {
	case model.FilterCompleted:
		return t.Completed
	case model.FilterToday:
		if t.Completed || t.DueDate == nil {
			return false
		}
		loc := now.Location()
		return dayStart(*t.DueDate, loc).Equal(dayStart(now, loc))
	case model.FilterUpcoming:
		if t.Completed || t.DueDate == nil {
			return false
		}
		loc := now.Location()
		tomorrow := dayStart(now, loc).AddDate(0, 0, 1)
		return !dayStart(*t.DueDate, loc).Before(tomorrow)
	}

	if t.Completed {
		return false
	}
	if c, ok := f.Category(); ok {
		return t.Category == c
	}
	return true
}

// Apply returns the todos in the view named by f, preserving order.
// Unknown filters behave like FilterAll.
func Apply(todos []model.Todo, f model.Filter, now time.Time) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for i := range todos {
		if Matches(&todos[i], f, now) {
			out = append(out, todos[i].Clone())
		}
	}
	return out
}

// MatchesQuery reports whether the title or description contains query,
// ignoring case. An empty query matches everything.
func MatchesQuery(t *model.Todo, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

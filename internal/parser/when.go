// Package parser turns user-typed dates into times and formats them back.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// relativeRegex matches relative time expressions like "+5m", "+1h", "+2d".
var relativeRegex = regexp.MustCompile(`^\+(\d+)([smhdw])$`)

// dateOnlyLayout is the layout of a bare calendar date.
const dateOnlyLayout = "2006-01-02"

// ParseWhen parses a due date or reminder expression relative to now.
// Supports:
//   - "+5m", "+1h", "+2d", "+1w" (relative)
//   - "2026-01-15" (a calendar day, local midnight)
//   - "2026-01-15 14:00", "tomorrow 9am", "friday 5pm" (natural language)
func ParseWhen(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	if match := relativeRegex.FindStringSubmatch(input); match != nil {
		return parseRelative(match[1], match[2], now)
	}

	if t, err := time.ParseInLocation(dateOnlyLayout, input, now.Location()); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, fmt.Errorf("could not parse date %q", input)
	}
	return result.Time.In(now.Location()), nil
}

// ParseReminder parses a reminder expression. A time earlier today that has
// already passed is moved to tomorrow, anything else in the past is rejected.
func ParseReminder(input string, now time.Time) (time.Time, error) {
	t, err := ParseWhen(input, now)
	if err != nil {
		return time.Time{}, err
	}
	if t.After(now) {
		return t, nil
	}
	if SameDay(t, now) {
		return t.AddDate(0, 0, 1), nil
	}
	return time.Time{}, fmt.Errorf("reminder must be in the future")
}

func parseRelative(numStr, unit string, now time.Time) (time.Time, error) {
	num, _ := strconv.Atoi(numStr)
	if num <= 0 {
		return time.Time{}, fmt.Errorf("invalid duration: must be positive")
	}

	switch unit {
	case "s":
		return now.Add(time.Duration(num) * time.Second), nil
	case "m":
		return now.Add(time.Duration(num) * time.Minute), nil
	case "h":
		return now.Add(time.Duration(num) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, num), nil
	case "w":
		return now.AddDate(0, 0, 7*num), nil
	default:
		return time.Time{}, fmt.Errorf("invalid time unit: %s", unit)
	}
}

// SameDay checks if two times fall on the same calendar day in t2's location.
func SameDay(t1, t2 time.Time) bool {
	t1 = t1.In(t2.Location())
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

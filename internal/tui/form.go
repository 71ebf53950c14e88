package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/parser"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDue
	fieldRemind
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:  "Title",
	fieldDue:    "Due (optional, e.g. friday 5pm)",
	fieldRemind: "Remind (optional, e.g. +10m)",
}

// addForm collects a new todo one field at a time.
type addForm struct {
	field  formField
	values [fieldCount]string
}

func (f *addForm) insert(runes []rune) {
	f.values[f.field] += string(runes)
}

func (f *addForm) backspace() {
	v := []rune(f.values[f.field])
	if len(v) > 0 {
		f.values[f.field] = string(v[:len(v)-1])
	}
}

// advance moves to the next field and reports whether the form is complete.
func (f *addForm) advance() bool {
	if f.field == fieldCount-1 {
		return true
	}
	f.field++
	return false
}

// input parses the collected fields. On a parse error the form jumps back
// to the offending field.
func (f *addForm) input(now time.Time) (model.TodoInput, error) {
	in := model.TodoInput{Title: strings.TrimSpace(f.values[fieldTitle])}
	if in.Title == "" {
		f.field = fieldTitle
		return in, errors.NewValidationError("title", "title is required")
	}

	if due := strings.TrimSpace(f.values[fieldDue]); due != "" {
		t, err := parser.ParseWhen(due, now)
		if err != nil {
			f.field = fieldDue
			return in, errors.NewValidationError("due", err.Error())
		}
		in.DueDate = &t
	}

	if remind := strings.TrimSpace(f.values[fieldRemind]); remind != "" {
		t, err := parser.ParseReminder(remind, now)
		if err != nil {
			f.field = fieldRemind
			return in, errors.NewValidationError("remind", err.Error())
		}
		in.Reminder = &t
	}
	return in, nil
}

func (f *addForm) View(width int) string {
	var lines []string
	lines = append(lines, StyleTitle.Render("New Task"))
	for i := formField(0); i < fieldCount; i++ {
		label := fieldLabels[i]
		value := f.values[i]
		if i == f.field {
			lines = append(lines, StyleHelpKey.Render("> "+label+": ")+value+"_")
			continue
		}
		if i > f.field {
			continue
		}
		lines = append(lines, StyleSubtitle.Render("  "+label+": ")+value)
	}
	lines = append(lines, StyleHelp.Render("enter next  •  esc cancel"))

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n")) + "\n"
}

package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/parser"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#3B82F6") // Blue
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleDone = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(colorMuted)

	styleUnread = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)
)

var priorityStyles = map[model.Priority]lipgloss.Style{
	model.PriorityHigh:   lipgloss.NewStyle().Foreground(colorError),
	model.PriorityMedium: lipgloss.NewStyle().Foreground(colorWarning),
	model.PriorityLow:    lipgloss.NewStyle().Foreground(colorSuccess),
}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
	Now func() time.Time
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f, Now: time.Now}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Priority formats a priority label.
func (c *CLIFormatter) Priority(p model.Priority) string {
	return c.render(priorityStyles[p], string(p))
}

// TodoLine formats a todo as one list line.
func (c *CLIFormatter) TodoLine(t *model.Todo) string {
	box := "[ ]"
	title := t.Title
	if t.Completed {
		box = "[x]"
		title = c.render(styleDone, title)
	}

	var meta []string
	meta = append(meta, c.Priority(t.Priority), string(t.Category))
	now := c.Now()
	if t.DueDate != nil {
		meta = append(meta, "due "+parser.FormatDue(*t.DueDate, now))
	}
	if t.Reminder != nil {
		meta = append(meta, "⏰ "+parser.FormatReminder(*t.Reminder, now))
	}

	return fmt.Sprintf("%s %s  %s  %s", box, c.render(styleMuted, t.ID), title,
		c.render(styleMuted, "("+strings.Join(meta, ", ")+")"))
}

// PrintTodoList prints the todos under the filter's title.
func (c *CLIFormatter) PrintTodoList(f model.Filter, todos []model.Todo) {
	c.Title(f.Title())
	if len(todos) == 0 {
		c.Muted("No tasks here. Add one with 'taskflow add <title>'.")
		return
	}
	for i := range todos {
		c.Println(c.TodoLine(&todos[i]))
	}
	c.Muted(fmt.Sprintf("%d task(s)", len(todos)))
}

// PrintTodo prints every field of a todo.
func (c *CLIFormatter) PrintTodo(t *model.Todo) {
	status := "open"
	if t.Completed {
		status = "completed"
	}

	c.Title(t.Title)
	c.Printf("  ID:        %s\n", t.ID)
	c.Printf("  Status:    %s\n", status)
	c.Printf("  Priority:  %s\n", c.Priority(t.Priority))
	c.Printf("  Category:  %s\n", t.Category)
	if t.Description != "" {
		c.Printf("  Details:   %s\n", t.Description)
	}
	if t.DueDate != nil {
		c.Printf("  Due:       %s (%s)\n", FormatDate(*t.DueDate), parser.FormatDue(*t.DueDate, c.Now()))
	}
	if t.Reminder != nil {
		c.Printf("  Reminder:  %s (%s)\n", FormatTimeShort(*t.Reminder), parser.FormatTimeUntil(*t.Reminder, c.Now()))
	}
	c.Printf("  Created:   %s\n", FormatTime(t.CreatedAt))
	c.Printf("  Updated:   %s\n", FormatTime(t.UpdatedAt))
}

// PrintUser prints the session identity.
func (c *CLIFormatter) PrintUser(u *model.User) {
	if u == nil {
		c.Muted("Not logged in. Use 'taskflow login' to sign in.")
		return
	}
	c.Printf("%s <%s>\n", c.render(styleBold, u.DisplayName()), u.Email)
	c.Muted("id: " + u.ID)
}

// PrintCounts prints the size of every view, in sidebar order.
func (c *CLIFormatter) PrintCounts(counts map[model.Filter]int) {
	rows := make([]TableRow, 0, len(model.Filters()))
	for _, f := range model.Filters() {
		rows = append(rows, TableRow{Columns: []string{f.Title(), fmt.Sprintf("%d", counts[f])}})
	}
	c.PrintTable([]string{"VIEW", "TASKS"}, rows)
}

// NotificationLine formats an in-app notification.
func (c *CLIFormatter) NotificationLine(n *model.Notification) string {
	marker := " "
	title := n.Title
	if !n.Read {
		marker = "•"
		title = c.render(styleUnread, title)
	}
	return fmt.Sprintf("%s %s  %s: %s", marker, c.render(styleMuted, FormatTimeOnly(n.Time)), title, n.Message)
}

// PrintNotifications prints in-app notifications, newest first.
func (c *CLIFormatter) PrintNotifications(notifications []model.Notification) {
	if len(notifications) == 0 {
		c.Muted("No notifications.")
		return
	}
	for i := range notifications {
		c.Println(c.NotificationLine(&notifications[i]))
	}
}

// TableRow is one row of a table.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}

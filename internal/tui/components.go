package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/parser"
)

// TodosComponent displays the todos of the selected filter.
type TodosComponent struct {
	Filter model.Filter
	Todos  []model.Todo
	Cursor int
	Width  int
	Now    time.Time
}

// View renders the todo pane.
func (tc *TodosComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render(tc.Filter.Title()))
	content.WriteString(StyleSubtitle.Render(fmt.Sprintf("  %d", len(tc.Todos))))
	content.WriteString("\n\n")

	if len(tc.Todos) == 0 {
		content.WriteString(StyleSubtitle.Render("Nothing to do here."))
	}

	for i := range tc.Todos {
		t := &tc.Todos[i]
		cursor := "  "
		if i == tc.Cursor {
			cursor = StyleSelected.Render("> ")
		}

		box := "[ ]"
		title := t.Title
		if t.Completed {
			box = "[x]"
			title = StyleDone.Render(title)
		}

		line := fmt.Sprintf("%s%s %s %s", cursor, box, PriorityStyle(t.Priority).Render("●"), title)
		if t.DueDate != nil {
			line += StyleSubtitle.Render("  " + parser.FormatDue(*t.DueDate, tc.Now))
		}
		if t.Reminder != nil && !t.Completed {
			line += StyleSubtitle.Render("  ⏰ " + parser.FormatTimeUntil(*t.Reminder, tc.Now))
		}
		content.WriteString(line)
		if i < len(tc.Todos)-1 {
			content.WriteString("\n")
		}
	}

	return StyleTodosBox.Width(paneWidth(tc.Width)).Render(content.String())
}

// NotificationsComponent displays in-app reminder notifications.
type NotificationsComponent struct {
	Notifications []model.Notification
	Unread        int
	Escalating    bool
	Width         int
	Max           int
}

// View renders the notification pane.
func (nc *NotificationsComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render("Notifications"))
	if nc.Unread > 0 {
		content.WriteString(StyleUnread.Render(fmt.Sprintf("  %d unread", nc.Unread)))
	}
	content.WriteString("\n\n")

	if len(nc.Notifications) == 0 {
		content.WriteString(StyleSubtitle.Render("No reminders yet."))
	}

	limit := len(nc.Notifications)
	if nc.Max > 0 && limit > nc.Max {
		limit = nc.Max
	}
	for i := 0; i < limit; i++ {
		n := &nc.Notifications[i]
		marker := "  "
		title := n.Title
		if !n.Read {
			marker = StyleUnread.Render("• ")
			title = StyleUnread.Render(title)
		}
		content.WriteString(fmt.Sprintf("%s%s %s: %s", marker, StyleSubtitle.Render(n.Time.Local().Format("15:04")), title, n.Message))
		if i < limit-1 {
			content.WriteString("\n")
		}
	}

	if !nc.Escalating {
		content.WriteString("\n\n")
		content.WriteString(StyleSubtitle.Render("Terminal alerts are off. Run 'taskflow notify allow' to enable them."))
	}

	style := StyleNotificationsBox
	if nc.Unread > 0 {
		style = StyleAlertBox
	}
	return style.Width(paneWidth(nc.Width)).Render(content.String())
}

func paneWidth(width int) int {
	if width < 24 {
		return 20
	}
	return width - 4
}

// HelpBar renders the key bindings.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"tab", "filter"},
		{"j/k", "move"},
		{"x", "done"},
		{"a", "add"},
		{"d", "delete"},
		{"m", "mark read"},
		{"c", "clear"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}

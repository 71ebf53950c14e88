package output

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/taskflow/internal/model"
)

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("plain_disables_color", func(t *testing.T) {
		f := &Formatter{Format: FormatPlain, ColorMode: ColorAlways}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("no_color_env", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		f := &Formatter{Writer: os.Stdout, ColorMode: ColorAuto}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Writer: &buf, ColorMode: ColorAuto}
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf, Format: FormatJSON}
	assert.True(t, f.IsJSON())

	require.NoError(t, f.JSON(map[string]string{"key": "value"}))
	assert.Contains(t, buf.String(), `"key": "value"`)

	buf.Reset()
	require.NoError(t, f.JSONLine(map[string]string{"a": "1", "b": "2"}))
	assert.Equal(t, `{"a":"1","b":"2"}`+"\n", buf.String())
}

// =============================================================================
// CLI Formatter Tests
// =============================================================================

var fixedNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.Local)

func newCLI(buf *bytes.Buffer) *CLIFormatter {
	c := NewCLIFormatter(&Formatter{Writer: buf, ColorMode: ColorNever})
	c.Now = func() time.Time { return fixedNow }
	return c
}

func sampleTodo() model.Todo {
	due := fixedNow.AddDate(0, 0, 1)
	return model.Todo{
		ID:        "1",
		Title:     "Complete project proposal",
		Priority:  model.PriorityHigh,
		Category:  model.CategoryWork,
		DueDate:   &due,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

func TestTodoLine(t *testing.T) {
	var buf bytes.Buffer
	c := newCLI(&buf)

	todo := sampleTodo()
	assert.Equal(t, "[ ] 1  Complete project proposal  (high, work, due Tomorrow)", c.TodoLine(&todo))

	todo.Completed = true
	todo.DueDate = nil
	reminder := fixedNow.Add(90 * time.Minute)
	todo.Reminder = &reminder
	assert.Equal(t, "[x] 1  Complete project proposal  (high, work, ⏰ Today at 11:30 AM)", c.TodoLine(&todo))
}

func TestPrintTodoList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		newCLI(&buf).PrintTodoList(model.FilterToday, nil)
		assert.Contains(t, buf.String(), "Today")
		assert.Contains(t, buf.String(), "No tasks here")
	})

	t.Run("items", func(t *testing.T) {
		var buf bytes.Buffer
		newCLI(&buf).PrintTodoList(model.FilterAll, []model.Todo{sampleTodo()})
		assert.Contains(t, buf.String(), "All Tasks")
		assert.Contains(t, buf.String(), "Complete project proposal")
		assert.Contains(t, buf.String(), "1 task(s)")
	})
}

func TestPrintTodo(t *testing.T) {
	var buf bytes.Buffer
	todo := sampleTodo()
	todo.Description = "Draft it"
	newCLI(&buf).PrintTodo(&todo)

	out := buf.String()
	assert.Contains(t, out, "Status:    open")
	assert.Contains(t, out, "Details:   Draft it")
	assert.Contains(t, out, "Due:       2026-10-16 (Tomorrow)")
}

func TestPrintUser(t *testing.T) {
	var buf bytes.Buffer
	c := newCLI(&buf)
	c.PrintUser(nil)
	assert.Contains(t, buf.String(), "Not logged in")

	buf.Reset()
	c.PrintUser(&model.User{ID: "7", Email: "alice@example.com"})
	assert.Contains(t, buf.String(), "alice <alice@example.com>")
	assert.Contains(t, buf.String(), "id: 7")
}

func TestPrintCounts(t *testing.T) {
	var buf bytes.Buffer
	newCLI(&buf).PrintCounts(map[model.Filter]int{model.FilterAll: 2, model.FilterWork: 1})

	out := buf.String()
	assert.Contains(t, out, "VIEW")
	assert.Contains(t, out, "All Tasks  2")
	assert.Contains(t, out, "Health     0")
}

func TestPrintNotifications(t *testing.T) {
	var buf bytes.Buffer
	c := newCLI(&buf)
	c.PrintNotifications(nil)
	assert.Contains(t, buf.String(), "No notifications.")

	buf.Reset()
	c.PrintNotifications([]model.Notification{
		{ID: "a", Title: "Task Reminder", Message: "Pay rent", Time: fixedNow},
		{ID: "b", Title: "Task Reminder", Message: "Call mom", Time: fixedNow, Read: true},
	})
	assert.Contains(t, buf.String(), "• 10:00  Task Reminder: Pay rent")
	assert.Contains(t, buf.String(), "  10:00  Task Reminder: Call mom")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	newCLI(&buf).PrintTable([]string{"A", "B"}, nil)
	assert.Empty(t, buf.String())
}

// =============================================================================
// JSON Formatter Tests
// =============================================================================

func TestJSONPrintTodos(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf, Format: FormatJSON})
	require.NoError(t, j.PrintTodos(model.FilterWork, "prop", []model.Todo{sampleTodo()}))

	var resp TodosResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "work", resp.Filter)
	assert.Equal(t, "Work", resp.Title)
	assert.Equal(t, "prop", resp.Query)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Todos, 1)
	assert.NotEmpty(t, resp.Todos[0].DueDate)
	assert.Empty(t, resp.Todos[0].Reminder)
}

func TestJSONPrintCounts(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintCounts(map[model.Filter]int{model.FilterToday: 3}))

	var resp CountsResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 3, resp.Counts["today"])
}

func TestJSONPrintError(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintError("error", "not logged in", "Run 'taskflow login'"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "not logged in", resp.Error)
}

func TestJSONPrintNotification(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintNotification(&model.Notification{ID: "1-5", TodoID: "1", Message: "x", Time: fixedNow}))

	var resp NotificationOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "1-5", resp.ID)
	assert.Equal(t, "1", resp.TodoID)
}

package output

import (
	"time"

	"github.com/manav03panchal/taskflow/internal/model"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// TodoOutput represents a todo in JSON output.
type TodoOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date,omitempty"`
	Reminder    string `json:"reminder,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// NewTodoOutput creates a TodoOutput from a Todo.
func NewTodoOutput(t *model.Todo) *TodoOutput {
	out := &TodoOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format(time.RFC3339)
	}
	if t.Reminder != nil {
		out.Reminder = t.Reminder.Format(time.RFC3339)
	}
	return out
}

// TodosResponse represents a filtered list in JSON.
type TodosResponse struct {
	Filter string        `json:"filter"`
	Title  string        `json:"title"`
	Query  string        `json:"query,omitempty"`
	Todos  []*TodoOutput `json:"todos"`
	Count  int           `json:"count"`
}

// NewTodosResponse creates a TodosResponse.
func NewTodosResponse(f model.Filter, query string, todos []model.Todo) *TodosResponse {
	outputs := make([]*TodoOutput, len(todos))
	for i := range todos {
		outputs[i] = NewTodoOutput(&todos[i])
	}
	return &TodosResponse{
		Filter: string(f),
		Title:  f.Title(),
		Query:  query,
		Todos:  outputs,
		Count:  len(todos),
	}
}

// TodoResponse represents a single-todo command result in JSON.
type TodoResponse struct {
	Status string      `json:"status"`
	Todo   *TodoOutput `json:"todo,omitempty"`
	ID     string      `json:"id,omitempty"`
}

// UserResponse represents the session identity in JSON.
type UserResponse struct {
	Status string      `json:"status"`
	User   *model.User `json:"user,omitempty"`
}

// CountsResponse represents per-view counts in JSON.
type CountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// NotificationOutput represents an in-app notification in JSON.
type NotificationOutput struct {
	ID      string `json:"id"`
	TodoID  string `json:"todo_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Read    bool   `json:"read"`
}

// MessageResponse represents a status with a server message in JSON.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintTodos outputs a filtered list.
func (j *JSONFormatter) PrintTodos(f model.Filter, query string, todos []model.Todo) error {
	return j.JSON(NewTodosResponse(f, query, todos))
}

// PrintTodo outputs a single todo with a status.
func (j *JSONFormatter) PrintTodo(status string, t *model.Todo) error {
	return j.JSON(TodoResponse{Status: status, Todo: NewTodoOutput(t)})
}

// PrintRemoved outputs the result of removing a todo.
func (j *JSONFormatter) PrintRemoved(id string) error {
	return j.JSON(TodoResponse{Status: "removed", ID: id})
}

// PrintUser outputs the session identity.
func (j *JSONFormatter) PrintUser(status string, u *model.User) error {
	return j.JSON(UserResponse{Status: status, User: u})
}

// PrintCounts outputs per-view counts.
func (j *JSONFormatter) PrintCounts(counts map[model.Filter]int) error {
	out := make(map[string]int, len(counts))
	for f, n := range counts {
		out[string(f)] = n
	}
	return j.JSON(CountsResponse{Counts: out})
}

// PrintNotification outputs one notification as a single line.
func (j *JSONFormatter) PrintNotification(n *model.Notification) error {
	return j.JSONLine(NotificationOutput{
		ID:      n.ID,
		TodoID:  n.TodoID,
		Title:   n.Title,
		Message: n.Message,
		Time:    n.Time.Format(time.RFC3339),
		Read:    n.Read,
	})
}

// PrintMessage outputs a status and optional server message.
func (j *JSONFormatter) PrintMessage(status, message string) error {
	return j.JSON(MessageResponse{Status: status, Message: message})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{
		Status:  status,
		Error:   errMsg,
		Message: message,
	})
}

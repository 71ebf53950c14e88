package model

import (
	"strings"
	"time"

	"github.com/manav03panchal/taskflow/internal/errors"
)

// Priority is the urgency of a todo.
type Priority string

// Priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Priorities returns all priorities, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Category groups todos by area of life.
type Category string

// Categories.
const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// Categories returns all categories in sidebar order.
func Categories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryOther}
}

// Todo is a single task owned by one user.
// DueDate and Reminder are nil when unset.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Reminder    *time.Time `json:"reminder,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy so callers cannot alias the store's dates.
func (t Todo) Clone() Todo {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Reminder != nil {
		r := *t.Reminder
		c.Reminder = &r
	}
	return c
}

// Validate checks a record read from storage.
func (t *Todo) Validate() error {
	if t.ID == "" {
		return errors.NewValidationError("id", "cannot be empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.NewValidationError("title", "cannot be empty")
	}
	if !t.Priority.Valid() {
		return errors.NewValidationError("priority", "unknown priority '"+string(t.Priority)+"'")
	}
	if !t.Category.Valid() {
		return errors.NewValidationError("category", "unknown category '"+string(t.Category)+"'")
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return errors.NewValidationError("updatedAt", "is before createdAt")
	}
	return nil
}

// HasReminder reports whether a reminder is set.
func (t *Todo) HasReminder() bool {
	return t.Reminder != nil
}

// TodoInput carries caller-supplied fields for a new todo.
// Empty Priority and Category fall back to medium and personal.
type TodoInput struct {
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	Reminder    *time.Time
}

// TodoPatch carries the fields to change on an existing todo.
// Nil pointers leave a field untouched; the Clear flags unset optional dates.
type TodoPatch struct {
	Title         *string
	Description   *string
	Completed     *bool
	Priority      *Priority
	Category      *Category
	DueDate       *time.Time
	ClearDueDate  bool
	Reminder      *time.Time
	ClearReminder bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.Category == nil &&
		p.DueDate == nil && !p.ClearDueDate &&
		p.Reminder == nil && !p.ClearReminder
}

// Apply merges the patch onto t. UpdatedAt is left to the caller.
func (p TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.ClearReminder {
		t.Reminder = nil
	} else if p.Reminder != nil {
		r := *p.Reminder
		t.Reminder = &r
	}
}

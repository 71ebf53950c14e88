package todo

import (
	"time"

	"github.com/manav03panchal/taskflow/internal/model"
)

// sampleTodos is the onboarding collection for a user with no stored todos.
func sampleTodos(now time.Time) []model.Todo {
	today := now
	tomorrow := now.AddDate(0, 0, 1)
	return []model.Todo{
		{
			ID:          "1",
			Title:       "Welcome to TaskFlow!",
			Description: "This is your first task. Run 'taskflow show 1' to see details.",
			Priority:    model.PriorityMedium,
			Category:    model.CategoryPersonal,
			DueDate:     &today,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			Title:       "Complete project proposal",
			Description: "Draft the Q1 project proposal for the marketing team.",
			Priority:    model.PriorityHigh,
			Category:    model.CategoryWork,
			DueDate:     &tomorrow,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "3",
			Title:       "Buy groceries",
			Description: "Milk, eggs, bread, vegetables",
			Completed:   true,
			Priority:    model.PriorityLow,
			Category:    model.CategoryShopping,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// Package model defines the domain records for TaskFlow.
package model

// Storage keys for persisted state.
const (
	KeyAccessToken            = "access_token"
	KeyRefreshToken           = "refresh_token"
	KeyUser                   = "todo_user"
	KeyNotificationPermission = "notification_permission"

	// PrefixTodos is joined with a user ID to key that user's collection.
	PrefixTodos = "todos_"
)

// TodosKey returns the storage key of a user's todo collection.
func TodosKey(userID string) string {
	return PrefixTodos + userID
}

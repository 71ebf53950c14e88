package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrNoSession:      "Use 'taskflow login' or 'taskflow signup' first.",
	ErrNotLoaded:      "Log in again to reload your tasks.",
	ErrTodoNotFound:   "Use 'taskflow list' to see task IDs.",
	ErrCorruptData:    "The unreadable data was kept under a '.corrupt' key; your list starts empty.",
	ErrNoRefreshToken: "Log in again to obtain a new session.",
	ErrDatabaseLocked: "Stop 'taskflow watch' (or use its keys) and try again.",
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	if IsValidationError(err) {
		return "Check your input and try again. Use --help for usage information."
	}
	if ae, ok := AsAuthError(err); ok && ae.Status == 0 {
		return "Check your network connection and the TASKFLOW_API_URL setting."
	}
	if IsDiskFull(err) {
		return "Free up disk space and try again. Your tasks on disk are unchanged."
	}
	if IsStorageError(err) {
		return "Check permissions and free space in your data directory."
	}

	return ""
}

// FormatError formats an error with optional suggestion.
func FormatError(err error) string {
	msg := err.Error()
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}

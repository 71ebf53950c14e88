package notify

import (
	"encoding/json"
	"time"
)

// GenericFormatter formats notifications as plain JSON.
type GenericFormatter struct{}

type genericPayload struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Format converts a message to the generic webhook format.
func (f *GenericFormatter) Format(m *Message) ([]byte, error) {
	return json.Marshal(genericPayload{
		Type:      "reminder",
		Title:     m.Title,
		Message:   m.Body,
		Timestamp: m.Time.UTC().Format(time.RFC3339),
	})
}

// ContentType returns the content type for generic webhooks.
func (f *GenericFormatter) ContentType() string {
	return "application/json"
}

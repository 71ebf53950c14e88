package notify

import (
	"encoding/json"
	"time"
)

// DiscordFormatter formats notifications for Discord webhooks.
type DiscordFormatter struct{}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

// Format converts a message to Discord webhook format.
func (f *DiscordFormatter) Format(m *Message) ([]byte, error) {
	embed := discordEmbed{
		Title:       m.Title,
		Description: m.Body,
		Color:       ReminderColor,
		Timestamp:   m.Time.UTC().Format(time.RFC3339),
		Footer: &discordEmbedFooter{
			Text: "TaskFlow",
		},
	}

	return json.Marshal(discordPayload{
		Embeds: []discordEmbed{embed},
	})
}

// ContentType returns the content type for Discord webhooks.
func (f *DiscordFormatter) ContentType() string {
	return "application/json"
}

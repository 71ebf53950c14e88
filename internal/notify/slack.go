package notify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SlackFormatter formats notifications for Slack webhooks.
type SlackFormatter struct{}

type slackPayload struct {
	Text        string        `json:"text,omitempty"`
	Blocks      []slackBlock  `json:"blocks,omitempty"`
	Attachments []slackAttach `json:"attachments,omitempty"`
}

type slackBlock struct {
	Type string          `json:"type"`
	Text *slackBlockText `json:"text,omitempty"`
}

type slackBlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// slackAttach carries the accent color.
type slackAttach struct {
	Color    string `json:"color,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}

// Format converts a message to Slack webhook format.
func (f *SlackFormatter) Format(m *Message) ([]byte, error) {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackBlockText{
				Type: "plain_text",
				Text: m.Title,
			},
		},
		{
			Type: "section",
			Text: &slackBlockText{
				Type: "mrkdwn",
				Text: slackEscape(m.Body),
			},
		},
		{
			Type: "context",
			Text: &slackBlockText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("TaskFlow | %s", m.Time.Format("Jan 2, 3:04 PM")),
			},
		},
	}

	payload := slackPayload{
		Text:   fmt.Sprintf("*%s* %s", m.Title, slackEscape(m.Body)),
		Blocks: blocks,
		Attachments: []slackAttach{
			{
				Color:    colorToHex(ReminderColor),
				Fallback: m.Title,
			},
		},
	}

	return json.Marshal(payload)
}

// ContentType returns the content type for Slack webhooks.
func (f *SlackFormatter) ContentType() string {
	return "application/json"
}

func colorToHex(color int) string {
	return fmt.Sprintf("#%06X", color)
}

// slackEscape escapes special characters for Slack mrkdwn.
func slackEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

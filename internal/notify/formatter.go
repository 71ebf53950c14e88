package notify

// Webhook types.
const (
	WebhookTypeSlack   = "slack"
	WebhookTypeDiscord = "discord"
	WebhookTypeGeneric = "generic"
)

// Formatter formats notifications for a specific webhook type.
type Formatter interface {
	// Format converts a message into the webhook-specific payload.
	Format(m *Message) ([]byte, error)

	// ContentType returns the HTTP Content-Type for the payload.
	ContentType() string
}

// GetFormatter returns the appropriate formatter for a webhook type.
func GetFormatter(webhookType string) Formatter {
	switch webhookType {
	case WebhookTypeDiscord:
		return &DiscordFormatter{}
	case WebhookTypeSlack:
		return &SlackFormatter{}
	default:
		return &GenericFormatter{}
	}
}

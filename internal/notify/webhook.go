package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/manav03panchal/taskflow/internal/config"
	"github.com/manav03panchal/taskflow/internal/logging"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/storage"
)

// Webhook posts notifications to a chat webhook.
type Webhook struct {
	url       string
	kind      string
	formatter Formatter
	client    *HTTPClient
	perms     permissionStore
	now       func() time.Time
}

// NewWebhook creates a webhook platform from notify configuration.
// kv persists the grant; it may be nil.
func NewWebhook(cfg config.NotifyConfig, kv storage.KV) *Webhook {
	return &Webhook{
		url:       cfg.WebhookURL,
		kind:      cfg.WebhookType,
		formatter: GetFormatter(cfg.WebhookType),
		client:    NewHTTPClient(cfg),
		perms:     permissionStore{kv: kv, key: model.KeyNotificationPermission + ":webhook"},
		now:       time.Now,
	}
}

// Name implements Platform.
func (w *Webhook) Name() string {
	return "webhook"
}

// Supported implements Platform.
func (w *Webhook) Supported() bool {
	return w.url != ""
}

// Permission implements Platform.
func (w *Webhook) Permission() Permission {
	if !w.Supported() {
		return PermissionDenied
	}
	return w.perms.load()
}

// RequestPermission sends a test message and grants on delivery.
func (w *Webhook) RequestPermission(ctx context.Context) (Permission, error) {
	if !w.Supported() {
		return PermissionDenied, nil
	}

	err := w.Show(ctx, "TaskFlow", "Reminders will be delivered to this channel.")
	perm := PermissionGranted
	if err != nil {
		perm = PermissionDenied
	}
	if saveErr := w.perms.save(perm); saveErr != nil {
		return perm, saveErr
	}
	return perm, err
}

// Show implements Platform.
func (w *Webhook) Show(ctx context.Context, title, body string) error {
	if !w.Supported() {
		return nil
	}

	payload, err := w.formatter.Format(&Message{Title: title, Body: body, Time: w.now()})
	if err != nil {
		return fmt.Errorf("failed to format notification: %w", err)
	}

	result := w.client.Send(ctx, w.url, w.formatter.ContentType(), payload)
	logging.LoggerFromContext(ctx).Debug("webhook notification",
		logging.KeyPlatform, w.kind,
		logging.KeyStatus, result.StatusCode,
		logging.KeyDuration, result.Duration,
	)
	return result.Error
}

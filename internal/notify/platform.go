// Package notify delivers reminders outside the app: a terminal bell and
// banner, or a chat webhook.
package notify

import (
	"context"
	"time"

	"github.com/manav03panchal/taskflow/internal/storage"
)

// Permission is the grant state of a platform, mirroring the browser model.
type Permission string

// Permission states.
const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Platform is an out-of-app notification service.
type Platform interface {
	// Name identifies the platform in logs and status output.
	Name() string
	// Supported reports whether the platform can show anything at all.
	Supported() bool
	// Permission returns the current grant without prompting.
	Permission() Permission
	// RequestPermission asks the user and records the answer.
	RequestPermission(ctx context.Context) (Permission, error)
	// Show raises a notification. Callers treat it as fire and forget.
	Show(ctx context.Context, title, body string) error
}

// Message is a notification rendered by a webhook formatter.
type Message struct {
	Title string
	Body  string
	Time  time.Time
}

// ReminderColor is the accent used for reminder embeds and attachments.
const ReminderColor = 0x3B82F6

// permissionStore persists a grant under one storage key.
type permissionStore struct {
	kv  storage.KV
	key string
}

func (p permissionStore) load() Permission {
	if p.kv == nil {
		return PermissionDefault
	}
	v, err := p.kv.Get(p.key)
	if err != nil {
		return PermissionDefault
	}
	switch Permission(v) {
	case PermissionGranted, PermissionDenied:
		return Permission(v)
	}
	return PermissionDefault
}

func (p permissionStore) save(perm Permission) error {
	if p.kv == nil {
		return nil
	}
	return p.kv.Set(p.key, string(perm))
}

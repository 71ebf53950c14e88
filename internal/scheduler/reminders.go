package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/manav03panchal/taskflow/internal/logging"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/notify"
)

// Notification texts.
const (
	InAppTitle    = "Task Reminder"
	PlatformTitle = "TaskFlow Reminder"
)

// DefaultLookahead is how far ahead of its instant a reminder fires.
const DefaultLookahead = time.Minute

// Snapshotter provides a consistent copy of the todo collection.
type Snapshotter interface {
	Snapshot() []model.Todo
}

// ReminderChecker turns due reminders into notifications. Each reminder
// instant produces at most one notification; missed windows are not
// backfilled.
type ReminderChecker struct {
	todos     Snapshotter
	platform  notify.Platform
	lookahead time.Duration
	now       func() time.Time

	mu            sync.Mutex
	notifications []model.Notification // newest first
	hasPermission bool
	subscribers   []func(model.Notification)
}

// NewReminderChecker creates a checker. platform may be nil when no
// out-of-app notifications are available.
func NewReminderChecker(todos Snapshotter, platform notify.Platform, lookahead time.Duration) *ReminderChecker {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	c := &ReminderChecker{
		todos:     todos,
		platform:  platform,
		lookahead: lookahead,
		now:       time.Now,
	}
	if platform != nil && platform.Supported() {
		c.hasPermission = platform.Permission() == notify.PermissionGranted
	}
	return c
}

// SetClock replaces the time source. Safe to call while the scheduler runs.
func (c *ReminderChecker) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Check scans the todos against the current time.
func (c *ReminderChecker) Check(ctx context.Context) []model.Notification {
	c.mu.Lock()
	now := c.now
	c.mu.Unlock()
	return c.CheckAt(ctx, now())
}

// CheckAt scans the todos against now and returns the notifications it raised.
func (c *ReminderChecker) CheckAt(ctx context.Context, now time.Time) []model.Notification {
	snapshot := c.todos.Snapshot()

	c.mu.Lock()
	var raised []model.Notification
	for i := range snapshot {
		t := &snapshot[i]
		if t.Completed || !t.HasReminder() {
			continue
		}

		delta := t.Reminder.Sub(now)
		if delta <= 0 || delta > c.lookahead {
			continue
		}

		id := model.ReminderNotificationID(t.ID, *t.Reminder)
		if c.indexOf(id) >= 0 {
			continue
		}

		n := model.Notification{
			ID:      id,
			TodoID:  t.ID,
			Title:   InAppTitle,
			Message: t.Title,
			Time:    now,
		}
		c.notifications = append([]model.Notification{n}, c.notifications...)
		raised = append(raised, n)
	}
	escalate := c.hasPermission && c.platform != nil
	subscribers := append([]func(model.Notification){}, c.subscribers...)
	c.mu.Unlock()

	logger := logging.LoggerFromContext(ctx)
	for _, n := range raised {
		logger.Info("reminder due",
			logging.KeyNotification, n.ID,
			logging.KeyTodo, n.TodoID,
		)
		if escalate {
			if err := c.platform.Show(ctx, PlatformTitle, n.Message); err != nil {
				logger.Warn("platform notification failed",
					logging.KeyPlatform, c.platform.Name(),
					logging.KeyError, err.Error(),
				)
			}
		}
		for _, fn := range subscribers {
			fn(n)
		}
	}
	return raised
}

// HasPermission reports whether reminders escalate to the platform.
func (c *ReminderChecker) HasPermission() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasPermission
}

// RequestPermission prompts the platform and records the answer.
// An unsupported platform leaves permission off without error.
func (c *ReminderChecker) RequestPermission(ctx context.Context) (bool, error) {
	if c.platform == nil || !c.platform.Supported() {
		return false, nil
	}

	perm, err := c.platform.RequestPermission(ctx)

	c.mu.Lock()
	c.hasPermission = perm == notify.PermissionGranted
	granted := c.hasPermission
	c.mu.Unlock()

	logging.LoggerFromContext(ctx).Debug("notification permission",
		logging.KeyPlatform, c.platform.Name(),
		logging.KeyStatus, string(perm),
	)
	return granted, err
}

// Notifications returns a copy of the in-app list, newest first.
func (c *ReminderChecker) Notifications() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Notification{}, c.notifications...)
}

// Unread returns the number of unread notifications.
func (c *ReminderChecker) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkAsRead marks the notification with id as read. Unknown ids are ignored.
func (c *ReminderChecker) MarkAsRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.notifications[i].Read = true
	}
}

// ClearAll empties the in-app list. A reminder still inside its window
// fires again on the next check.
func (c *ReminderChecker) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = nil
}

// Subscribe registers fn to be called with every new notification.
func (c *ReminderChecker) Subscribe(fn func(model.Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *ReminderChecker) indexOf(id string) int {
	for i := range c.notifications {
		if c.notifications[i].ID == id {
			return i
		}
	}
	return -1
}

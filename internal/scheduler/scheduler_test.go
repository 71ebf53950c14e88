package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/notify"
)

type staticTodos struct {
	mu    sync.Mutex
	todos []model.Todo
}

func (s *staticTodos) Snapshot() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, len(s.todos))
	for i := range s.todos {
		out[i] = s.todos[i].Clone()
	}
	return out
}

type fakePlatform struct {
	mu        sync.Mutex
	supported bool
	perm      notify.Permission
	answer    notify.Permission
	shown     []string
}

func (f *fakePlatform) Name() string    { return "fake" }
func (f *fakePlatform) Supported() bool { return f.supported }

func (f *fakePlatform) Permission() notify.Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perm
}

func (f *fakePlatform) RequestPermission(ctx context.Context) (notify.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.perm = f.answer
	return f.perm, nil
}

func (f *fakePlatform) Show(ctx context.Context, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, title+": "+body)
	return nil
}

func (f *fakePlatform) Shown() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.shown...)
}

var base = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func reminderTodo(id, title string, at time.Time) model.Todo {
	return model.Todo{
		ID:        id,
		Title:     title,
		Priority:  model.PriorityMedium,
		Category:  model.CategoryPersonal,
		Reminder:  &at,
		CreatedAt: base,
		UpdatedAt: base,
	}
}

func TestCheckDedup(t *testing.T) {
	reminder := base.Add(30 * time.Second)
	todos := &staticTodos{todos: []model.Todo{reminderTodo("42", "Call mom", reminder)}}
	c := NewReminderChecker(todos, nil, time.Minute)

	first := c.CheckAt(context.Background(), base)
	second := c.CheckAt(context.Background(), base.Add(time.Second))

	require.Len(t, first, 1)
	assert.Empty(t, second)

	all := c.Notifications()
	require.Len(t, all, 1)
	assert.Equal(t, model.ReminderNotificationID("42", reminder), all[0].ID)
	assert.Equal(t, InAppTitle, all[0].Title)
	assert.Equal(t, "Call mom", all[0].Message)
	assert.Equal(t, base, all[0].Time)
	assert.False(t, all[0].Read)
}

func TestCheckWindow(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		fires  bool
	}{
		{"past", -time.Second, false},
		{"exactly_now", 0, false},
		{"just_ahead", time.Second, true},
		{"inside", 59 * time.Second, true},
		{"edge", 60 * time.Second, true},
		{"outside", 61 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "x", base.Add(tt.offset))}}
			c := NewReminderChecker(todos, nil, time.Minute)
			raised := c.CheckAt(context.Background(), base)
			assert.Equal(t, tt.fires, len(raised) == 1)
		})
	}
}

func TestCheckSkipsCompletedAndUnset(t *testing.T) {
	done := reminderTodo("1", "done", base.Add(10*time.Second))
	done.Completed = true
	noReminder := reminderTodo("2", "none", base)
	noReminder.Reminder = nil

	c := NewReminderChecker(&staticTodos{todos: []model.Todo{done, noReminder}}, nil, time.Minute)
	assert.Empty(t, c.CheckAt(context.Background(), base))
}

func TestNewestFirst(t *testing.T) {
	todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "first", base.Add(50 * time.Second))}}
	c := NewReminderChecker(todos, nil, time.Minute)
	c.CheckAt(context.Background(), base)

	todos.mu.Lock()
	todos.todos = append(todos.todos, reminderTodo("2", "second", base.Add(80*time.Second)))
	todos.mu.Unlock()
	c.CheckAt(context.Background(), base.Add(30*time.Second))

	all := c.Notifications()
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Message)
	assert.Equal(t, "first", all[1].Message)
}

func TestPermissionGating(t *testing.T) {
	t.Run("not_granted_records_only", func(t *testing.T) {
		p := &fakePlatform{supported: true, perm: notify.PermissionDefault}
		todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "Pay rent", base.Add(time.Second))}}
		c := NewReminderChecker(todos, p, time.Minute)

		assert.False(t, c.HasPermission())
		require.Len(t, c.CheckAt(context.Background(), base), 1)
		assert.Empty(t, p.Shown())
	})

	t.Run("granted_escalates", func(t *testing.T) {
		p := &fakePlatform{supported: true, perm: notify.PermissionGranted}
		todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "Pay rent", base.Add(time.Second))}}
		c := NewReminderChecker(todos, p, time.Minute)

		assert.True(t, c.HasPermission())
		c.CheckAt(context.Background(), base)
		assert.Equal(t, []string{"TaskFlow Reminder: Pay rent"}, p.Shown())
	})

	t.Run("request_updates", func(t *testing.T) {
		p := &fakePlatform{supported: true, perm: notify.PermissionDefault, answer: notify.PermissionGranted}
		c := NewReminderChecker(&staticTodos{}, p, time.Minute)

		granted, err := c.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.True(t, granted)
		assert.True(t, c.HasPermission())
	})

	t.Run("request_denied", func(t *testing.T) {
		p := &fakePlatform{supported: true, perm: notify.PermissionDefault, answer: notify.PermissionDenied}
		c := NewReminderChecker(&staticTodos{}, p, time.Minute)

		granted, err := c.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("unsupported", func(t *testing.T) {
		p := &fakePlatform{supported: false, perm: notify.PermissionGranted, answer: notify.PermissionGranted}
		todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "Pay rent", base.Add(time.Second))}}
		c := NewReminderChecker(todos, p, time.Minute)

		assert.False(t, c.HasPermission())
		granted, err := c.RequestPermission(context.Background())
		assert.NoError(t, err)
		assert.False(t, granted)

		require.Len(t, c.CheckAt(context.Background(), base), 1)
		assert.Empty(t, p.Shown())
	})
}

func TestMarkAsReadAndClearAll(t *testing.T) {
	todos := &staticTodos{todos: []model.Todo{
		reminderTodo("1", "a", base.Add(10*time.Second)),
		reminderTodo("2", "b", base.Add(20*time.Second)),
	}}
	c := NewReminderChecker(todos, nil, time.Minute)
	raised := c.CheckAt(context.Background(), base)
	require.Len(t, raised, 2)
	assert.Equal(t, 2, c.Unread())

	c.MarkAsRead(raised[0].ID)
	c.MarkAsRead(raised[0].ID)
	c.MarkAsRead("missing")
	assert.Equal(t, 1, c.Unread())

	c.ClearAll()
	c.ClearAll()
	assert.Empty(t, c.Notifications())
	assert.Equal(t, 0, c.Unread())

	// Still inside the window, so the reminders fire again.
	assert.Len(t, c.CheckAt(context.Background(), base.Add(5*time.Second)), 2)
}

func TestSubscribe(t *testing.T) {
	todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "a", base.Add(10*time.Second))}}
	c := NewReminderChecker(todos, nil, time.Minute)

	var got []model.Notification
	c.Subscribe(func(n model.Notification) { got = append(got, n) })
	c.CheckAt(context.Background(), base)
	c.CheckAt(context.Background(), base)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Message)
}

func TestSchedulerStartStop(t *testing.T) {
	now := time.Now()
	todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "soon", now.Add(30*time.Second))}}
	c := NewReminderChecker(todos, nil, time.Minute)
	s := NewScheduler(c, time.Second)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Running())
	assert.Len(t, c.Notifications(), 1, "immediate check on start")

	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.Running())
	s.Stop()
}

func TestSchedulerTicks(t *testing.T) {
	todos := &staticTodos{}
	c := NewReminderChecker(todos, nil, time.Minute)
	s := NewScheduler(c, time.Second)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	at := time.Now().Add(30 * time.Second)
	todos.mu.Lock()
	todos.todos = []model.Todo{reminderTodo("1", "later", at)}
	todos.mu.Unlock()

	assert.Eventually(t, func() bool {
		return len(c.Notifications()) == 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSetClockWhileRunning(t *testing.T) {
	at := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	todos := &staticTodos{todos: []model.Todo{reminderTodo("1", "future", at)}}
	c := NewReminderChecker(todos, nil, time.Minute)
	s := NewScheduler(c, time.Second)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.Empty(t, c.Notifications())

	c.SetClock(func() time.Time { return at.Add(-30 * time.Second) })

	assert.Eventually(t, func() bool {
		return len(c.Notifications()) == 1
	}, 3*time.Second, 50*time.Millisecond)
}

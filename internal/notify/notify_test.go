package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/taskflow/internal/config"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/storage"
)

func setupKV(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testNotifyConfig(url string) config.NotifyConfig {
	return config.NotifyConfig{
		WebhookURL:  url,
		WebhookType: WebhookTypeGeneric,
		MaxRetries:  3,
		RetryDelays: []time.Duration{0, time.Millisecond, time.Millisecond},
	}
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestGetFormatter(t *testing.T) {
	tests := []struct {
		webhookType string
		expected    string
	}{
		{WebhookTypeDiscord, "*notify.DiscordFormatter"},
		{WebhookTypeSlack, "*notify.SlackFormatter"},
		{WebhookTypeGeneric, "*notify.GenericFormatter"},
		{"unknown", "*notify.GenericFormatter"},
		{"", "*notify.GenericFormatter"},
	}

	for _, tt := range tests {
		t.Run(tt.webhookType, func(t *testing.T) {
			formatter := GetFormatter(tt.webhookType)
			assert.Equal(t, tt.expected, fmt.Sprintf("%T", formatter))
			assert.Equal(t, "application/json", formatter.ContentType())
		})
	}
}

func TestFormatters(t *testing.T) {
	msg := &Message{
		Title: "TaskFlow Reminder",
		Body:  "Pay rent <today>",
		Time:  time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}

	t.Run("generic", func(t *testing.T) {
		payload, err := (&GenericFormatter{}).Format(msg)
		require.NoError(t, err)

		var got map[string]string
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, "reminder", got["type"])
		assert.Equal(t, "TaskFlow Reminder", got["title"])
		assert.Equal(t, "Pay rent <today>", got["message"])
		assert.Equal(t, "2026-10-15T09:00:00Z", got["timestamp"])
	})

	t.Run("discord", func(t *testing.T) {
		payload, err := (&DiscordFormatter{}).Format(msg)
		require.NoError(t, err)

		var got discordPayload
		require.NoError(t, json.Unmarshal(payload, &got))
		require.Len(t, got.Embeds, 1)
		assert.Equal(t, "TaskFlow Reminder", got.Embeds[0].Title)
		assert.Equal(t, ReminderColor, got.Embeds[0].Color)
		assert.Equal(t, "TaskFlow", got.Embeds[0].Footer.Text)
	})

	t.Run("slack_escapes_body", func(t *testing.T) {
		payload, err := (&SlackFormatter{}).Format(msg)
		require.NoError(t, err)
		assert.Contains(t, string(payload), "Pay rent \\u0026lt;today\\u0026gt;")
		assert.Contains(t, string(payload), "#3B82F6")
	})
}

// =============================================================================
// HTTP Client Tests
// =============================================================================

func TestHTTPClientRetries(t *testing.T) {
	t.Run("server_error_then_success", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		result := NewHTTPClient(testNotifyConfig("")).Send(context.Background(), srv.URL, "application/json", []byte(`{}`))
		assert.NoError(t, result.Error)
		assert.Equal(t, 3, result.Attempts)
		assert.Equal(t, http.StatusOK, result.StatusCode)
	})

	t.Run("client_error_not_retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		result := NewHTTPClient(testNotifyConfig("")).Send(context.Background(), srv.URL, "application/json", nil)
		assert.Error(t, result.Error)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("gives_up", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		result := NewHTTPClient(testNotifyConfig("")).Send(context.Background(), srv.URL, "application/json", nil)
		assert.Error(t, result.Error)
		assert.Equal(t, 3, result.Attempts)
	})
}

// =============================================================================
// Webhook Tests
// =============================================================================

func TestWebhook(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		w := NewWebhook(testNotifyConfig(""), nil)
		assert.False(t, w.Supported())
		assert.Equal(t, PermissionDenied, w.Permission())

		perm, err := w.RequestPermission(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, PermissionDenied, perm)
		assert.NoError(t, w.Show(context.Background(), "t", "b"))
	})

	t.Run("grant_persists", func(t *testing.T) {
		var mu sync.Mutex
		var bodies []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(r.Body)
			mu.Lock()
			bodies = append(bodies, buf.String())
			mu.Unlock()
		}))
		defer srv.Close()

		kv := setupKV(t)
		w := NewWebhook(testNotifyConfig(srv.URL), kv)
		assert.Equal(t, PermissionDefault, w.Permission())

		perm, err := w.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionGranted, perm)
		assert.Equal(t, PermissionGranted, NewWebhook(testNotifyConfig(srv.URL), kv).Permission())

		require.NoError(t, w.Show(context.Background(), "TaskFlow Reminder", "Pay rent"))
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, bodies, 2)
		assert.Contains(t, bodies[1], "Pay rent")
	})

	t.Run("failed_test_message_denies", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		w := NewWebhook(testNotifyConfig(srv.URL), setupKV(t))
		perm, err := w.RequestPermission(context.Background())
		assert.Error(t, err)
		assert.Equal(t, PermissionDenied, perm)
		assert.Equal(t, PermissionDenied, w.Permission())
	})
}

// =============================================================================
// Terminal Tests
// =============================================================================

func TestTerminal(t *testing.T) {
	t.Run("not_a_tty", func(t *testing.T) {
		var out bytes.Buffer
		term := NewTerminal(strings.NewReader("y\n"), &out, nil)
		assert.False(t, term.Supported())

		perm, err := term.RequestPermission(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, PermissionDenied, perm)
		assert.NoError(t, term.Show(context.Background(), "t", "b"))
		assert.Empty(t, out.String())
	})

	t.Run("prompt_yes", func(t *testing.T) {
		var out bytes.Buffer
		kv := setupKV(t)
		term := NewTerminal(strings.NewReader("Yes\n"), &out, kv)
		term.SetInteractive(true)
		assert.Equal(t, PermissionDefault, term.Permission())

		perm, err := term.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionGranted, perm)
		assert.Contains(t, out.String(), "[y/N]")

		stored, err := kv.Get(model.KeyNotificationPermission)
		require.NoError(t, err)
		assert.Equal(t, "granted", stored)
	})

	t.Run("prompt_default_no", func(t *testing.T) {
		term := NewTerminal(strings.NewReader("\n"), &bytes.Buffer{}, setupKV(t))
		term.SetInteractive(true)

		perm, err := term.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionDenied, perm)
		assert.Equal(t, PermissionDenied, term.Permission())
	})

	t.Run("leaves_rest_of_input", func(t *testing.T) {
		in := strings.NewReader("y\nq")
		term := NewTerminal(in, &bytes.Buffer{}, nil)
		term.SetInteractive(true)

		perm, err := term.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionGranted, perm)

		rest, err := io.ReadAll(in)
		require.NoError(t, err)
		assert.Equal(t, "q", string(rest))
	})

	t.Run("sequential_prompts", func(t *testing.T) {
		term := NewTerminal(strings.NewReader("y\nn\n"), &bytes.Buffer{}, setupKV(t))
		term.SetInteractive(true)

		perm, err := term.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionGranted, perm)

		perm, err = term.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionDenied, perm)
	})

	t.Run("cancelled_prompt_shares_read", func(t *testing.T) {
		r, w := io.Pipe()
		t.Cleanup(func() { _ = w.Close() })
		term := NewTerminal(r, &bytes.Buffer{}, setupKV(t))
		term.SetInteractive(true)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		perm, err := term.RequestPermission(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, PermissionDefault, perm)

		done := make(chan Permission, 1)
		go func() {
			p, _ := term.RequestPermission(context.Background())
			done <- p
		}()

		// One reader goroutine is blocked on the pipe; a single line
		// answers the second prompt.
		_, err = w.Write([]byte("yes\n"))
		require.NoError(t, err)

		select {
		case p := <-done:
			assert.Equal(t, PermissionGranted, p)
		case <-time.After(2 * time.Second):
			t.Fatal("prompt did not receive the line")
		}
	})

	t.Run("show_rings_bell", func(t *testing.T) {
		var out bytes.Buffer
		term := NewTerminal(strings.NewReader(""), &out, nil)
		term.SetInteractive(true)

		require.NoError(t, term.Show(context.Background(), "TaskFlow Reminder", "Pay rent"))
		assert.True(t, strings.HasPrefix(out.String(), "\a"))
		assert.Contains(t, out.String(), "TaskFlow Reminder")
		assert.Contains(t, out.String(), "Pay rent")
	})
}

// =============================================================================
// Dispatcher Tests
// =============================================================================

type fakePlatform struct {
	name      string
	supported bool
	perm      Permission
	shown     atomic.Int32
	err       error
}

func (f *fakePlatform) Name() string           { return f.name }
func (f *fakePlatform) Supported() bool        { return f.supported }
func (f *fakePlatform) Permission() Permission { return f.perm }

func (f *fakePlatform) RequestPermission(ctx context.Context) (Permission, error) {
	f.perm = PermissionGranted
	return f.perm, nil
}

func (f *fakePlatform) Show(ctx context.Context, title, body string) error {
	f.shown.Add(1)
	return f.err
}

func TestDispatcher(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		d := NewDispatcher(&fakePlatform{name: "off"})
		assert.False(t, d.Supported())
		assert.Equal(t, PermissionDenied, d.Permission())
		assert.NoError(t, d.Show(context.Background(), "t", "b"))
	})

	t.Run("shows_only_granted", func(t *testing.T) {
		granted := &fakePlatform{name: "a", supported: true, perm: PermissionGranted}
		pending := &fakePlatform{name: "b", supported: true, perm: PermissionDefault}
		d := NewDispatcher(granted, pending)

		assert.Equal(t, PermissionGranted, d.Permission())
		require.NoError(t, d.Show(context.Background(), "t", "b"))
		assert.Equal(t, int32(1), granted.shown.Load())
		assert.Equal(t, int32(0), pending.shown.Load())
	})

	t.Run("request_grants_all", func(t *testing.T) {
		p := &fakePlatform{name: "a", supported: true, perm: PermissionDefault}
		d := NewDispatcher(p)
		assert.Equal(t, PermissionDefault, d.Permission())

		perm, err := d.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionGranted, perm)
	})

	t.Run("show_errors_joined", func(t *testing.T) {
		p := &fakePlatform{name: "a", supported: true, perm: PermissionGranted, err: fmt.Errorf("down")}
		d := NewDispatcher(p)
		assert.ErrorContains(t, d.Show(context.Background(), "t", "b"), "down")
	})
}

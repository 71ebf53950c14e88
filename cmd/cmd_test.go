package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/taskflow/internal/config"
	"github.com/manav03panchal/taskflow/internal/errors"
)

const testPassword = "Secret1!"

func fakeAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"access_token":"access","refresh_token":"refresh",
			"user":{"id":7,"name":"Alice","email":"alice@example.com"}}`))
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"OTP sent to your email"}`))
	})
	mux.HandleFunc("/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"access2"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func setupCLI(t *testing.T) {
	t.Helper()
	srv := fakeAuthServer(t)
	config.Global.Reset()
	config.Global.API.BaseURL = srv.URL
	config.Global.Storage.Path = t.TempDir()
	t.Cleanup(config.Global.Reset)
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, input string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	stdout = &out
	stderr = &errOut
	stdin = strings.NewReader(input)
	stdinReader = nil

	resetFlags(rootCmd)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := Execute()
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

// syncBuffer is written by the scheduler goroutine while watch runs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// watchFor runs 'watch --plain' for d, then cancels it like Ctrl+C would.
func watchFor(t *testing.T, d time.Duration, args ...string) cliResult {
	t.Helper()
	var out, errOut syncBuffer
	stdout = &out
	stderr = &errOut
	stdin = strings.NewReader("")
	stdinReader = nil

	resetFlags(rootCmd)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"watch", "--plain"}, args...))

	runCtx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	err := ExecuteContext(runCtx)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func login(t *testing.T) {
	t.Helper()
	res := runCLI(t, "", "login", "--email", "alice@example.com", "--password", testPassword)
	require.NoError(t, res.err, res.stderr)
}

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "taskflow dev")
}

func TestCommandsRequireSession(t *testing.T) {
	setupCLI(t)

	for _, args := range [][]string{
		{"list"},
		{"add", "Something"},
		{"done", "1"},
		{"counts"},
		{"watch", "--plain"},
	} {
		res := runCLI(t, "", args...)
		assert.ErrorIs(t, res.err, errors.ErrNoSession, args)
		assert.Contains(t, res.stderr, "taskflow login", args)
	}
}

func TestLoginSeedsTodos(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "", "login", "--email", "alice@example.com", "--password", testPassword)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Welcome, Alice!")
	assert.Contains(t, res.stdout, "1 task due today")

	res = runCLI(t, "", "list", "--format", "json")
	require.NoError(t, res.err)
	list := decode(t, res.stdout)
	assert.Equal(t, "all", list["filter"])
	assert.EqualValues(t, 2, list["count"])

	res = runCLI(t, "", "whoami", "--format", "json")
	require.NoError(t, res.err)
	who := decode(t, res.stdout)
	assert.Equal(t, "logged_in", who["status"])
}

func TestLoginPrompts(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "alice@example.com\n"+testPassword+"\n", "login")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stderr, "Email: ")
	assert.Contains(t, res.stderr, "Password: ")
}

func TestLoginRejected(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "", "login", "--email", "alice@example.com", "--password", "wrong")
	require.Error(t, res.err)
	assert.True(t, errors.IsAuthError(res.err))
	assert.Contains(t, res.stderr, "Invalid credentials")

	res = runCLI(t, "", "whoami")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Not logged in")
}

func TestLoginMissingFields(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "\n\n", "login")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Please fill in all fields")
}

func TestTodoLifecycle(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "add", "Call dentist", "--priority", "high", "--category", "health",
		"--due", "+1d", "--format", "json")
	require.NoError(t, res.err, res.stderr)
	created := decode(t, res.stdout)
	assert.Equal(t, "created", created["status"])
	todo := created["todo"].(map[string]interface{})
	id := todo["id"].(string)
	assert.Equal(t, "high", todo["priority"])
	assert.Equal(t, "health", todo["category"])
	assert.NotEmpty(t, todo["due_date"])

	res = runCLI(t, "", "list", "health", "--format", "json")
	require.NoError(t, res.err)
	assert.EqualValues(t, 1, decode(t, res.stdout)["count"])

	res = runCLI(t, "", "edit", id, "--title", "Call the dentist", "--clear-due", "--format", "json")
	require.NoError(t, res.err, res.stderr)
	edited := decode(t, res.stdout)["todo"].(map[string]interface{})
	assert.Equal(t, "Call the dentist", edited["title"])
	assert.Nil(t, edited["due_date"])

	res = runCLI(t, "", "done", id)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Completed: Call the dentist")

	res = runCLI(t, "", "done", id)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Reopened: Call the dentist")

	res = runCLI(t, "", "rm", id, "--format", "json")
	require.NoError(t, res.err)
	assert.Equal(t, "removed", decode(t, res.stdout)["status"])

	res = runCLI(t, "", "show", id)
	assert.ErrorIs(t, res.err, errors.ErrTodoNotFound)
}

func TestListSearch(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "list", "--search", "PROPOSAL", "--format", "json")
	require.NoError(t, res.err)
	list := decode(t, res.stdout)
	assert.EqualValues(t, 1, list["count"])
	assert.Equal(t, "PROPOSAL", list["query"])
}

func TestListUnknownFilter(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "list", "someday")
	require.Error(t, res.err)
	assert.True(t, errors.IsValidationError(res.err))
}

func TestAddValidation(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "add", "Thing", "--priority", "urgent")
	assert.True(t, errors.IsValidationError(res.err))

	res = runCLI(t, "", "add", "Thing", "--due", "not a date at all")
	assert.True(t, errors.IsValidationError(res.err))
}

func TestEditNothing(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "edit", "1")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "nothing to change")
}

func TestCounts(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "counts", "--format", "json")
	require.NoError(t, res.err)
	counts := decode(t, res.stdout)["counts"].(map[string]interface{})
	assert.EqualValues(t, 2, counts["all"])
	assert.EqualValues(t, 1, counts["completed"])
	assert.EqualValues(t, 1, counts["today"])
}

func TestLogoutDropsTodos(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "add", "Extra")
	require.NoError(t, res.err)

	res = runCLI(t, "", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Logged out.")

	res = runCLI(t, "", "whoami", "--format", "json")
	require.NoError(t, res.err)
	assert.Equal(t, "logged_out", decode(t, res.stdout)["status"])

	// A fresh login starts from the sample todos again
	login(t)
	res = runCLI(t, "", "list", "--format", "json")
	require.NoError(t, res.err)
	assert.EqualValues(t, 2, decode(t, res.stdout)["count"])
}

func TestForgotPassword(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "", "forgot-password", "alice@example.com", "--format", "json")
	require.NoError(t, res.err)
	msg := decode(t, res.stdout)
	assert.Equal(t, "OTP sent to your email", msg["message"])
}

func TestResetPasswordValidatesOTP(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "", "reset-password", "alice@example.com", "12ab",
		"--password", testPassword, "--confirm", testPassword)
	require.Error(t, res.err)
	assert.True(t, errors.IsValidationError(res.err))
}

func TestRefreshToken(t *testing.T) {
	setupCLI(t)
	login(t)

	res := runCLI(t, "", "refresh-token")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Access token refreshed.")
}

func TestNotifyStatusWithoutPlatforms(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "", "notify", "status", "--format", "json")
	require.NoError(t, res.err)
	status := decode(t, res.stdout)
	assert.Equal(t, "denied", status["permission"])
}

func TestErrorsAsJSON(t *testing.T) {
	setupCLI(t)

	res := runCLI(t, "", "list", "--format", "json")
	require.Error(t, res.err)
	out := decode(t, res.stdout)
	assert.Equal(t, "error", out["status"])
	assert.NotEmpty(t, out["message"])
}

func TestWatchPlainPrintsReminderOnce(t *testing.T) {
	setupCLI(t)
	t.Setenv("TASKFLOW_REMINDER_INTERVAL", "1s")
	config.Global.ReloadFromEnv()
	require.Equal(t, time.Second, config.Global.Reminder.CheckInterval)
	login(t)

	res := runCLI(t, "", "add", "Call dentist", "--remind", "+30s")
	require.NoError(t, res.err, res.stderr)

	t.Run("lines", func(t *testing.T) {
		res := watchFor(t, 2500*time.Millisecond)
		require.NoError(t, res.err, res.stderr)
		assert.Equal(t, 1, strings.Count(res.stdout, "Task Reminder: Call dentist"), res.stdout)
		assert.Contains(t, res.stdout, "Watching reminders")
	})

	t.Run("ndjson", func(t *testing.T) {
		res := watchFor(t, 2500*time.Millisecond, "--format", "json")
		require.NoError(t, res.err, res.stderr)

		lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
		require.Len(t, lines, 1, res.stdout)
		n := decode(t, lines[0])
		assert.Equal(t, "Task Reminder", n["title"])
		assert.Equal(t, "Call dentist", n["message"])
		assert.NotEmpty(t, n["todo_id"])
		assert.Equal(t, false, n["read"])
	})
}

// Package runtime provides application runtime context for TaskFlow.
package runtime

import (
	"context"
	"io"
	"os"

	"github.com/manav03panchal/taskflow/internal/authapi"
	"github.com/manav03panchal/taskflow/internal/config"
	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/logging"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/notify"
	"github.com/manav03panchal/taskflow/internal/output"
	"github.com/manav03panchal/taskflow/internal/scheduler"
	"github.com/manav03panchal/taskflow/internal/session"
	"github.com/manav03panchal/taskflow/internal/storage"
	"github.com/manav03panchal/taskflow/internal/todo"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.RuntimeConfig
	DB        *storage.DB
	Formatter *output.Formatter

	// Stores
	API     *authapi.Client
	Session *session.Store
	Todos   *todo.Store

	// Notifier fans platform notifications out to the terminal and webhook.
	Notifier *notify.Dispatcher
	Terminal *notify.Terminal

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool

	// Config defaults to config.Global.
	Config *config.RuntimeConfig
	// API overrides the HTTP client built from Config.API.
	API session.AuthAPI

	In  io.Reader
	Out io.Writer

	// todoKV wraps the store behind the todo collection.
	todoKV func(storage.KV) storage.KV
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		InMemory:  false,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		Debug:     false,
	}
}

// New creates a new runtime context, restoring a stored session and
// loading its todos.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Global
	}
	if cfg.Storage.Path != "" {
		if cfg.Storage.Path == storage.MemoryPath {
			opts.InMemory = true
		} else {
			opts.DBPath = cfg.Storage.Path
		}
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.Debug {
		logging.InitDebug()
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, errors.NewStorageError("open", opts.DBPath, err)
	}

	client := authapi.New(cfg.API)
	var api session.AuthAPI = client
	if opts.API != nil {
		api = opts.API
	}

	var todoKV storage.KV = db
	if opts.todoKV != nil {
		todoKV = opts.todoKV(db)
	}
	todos := todo.New(todoKV)
	sess := session.New(db, api, todos)

	terminal := notify.NewTerminal(opts.In, opts.Out, db)
	notifier := notify.NewDispatcher(terminal, notify.NewWebhook(cfg.Notify, db))

	formatter := output.NewFormatter()
	formatter.Writer = opts.Out
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	c := &Context{
		Config:    cfg,
		DB:        db,
		Formatter: formatter,
		API:       client,
		Session:   sess,
		Todos:     todos,
		Notifier:  notifier,
		Terminal:  terminal,
		Debug:     opts.Debug,
	}

	user, err := sess.Restore()
	if err != nil {
		db.Close()
		return nil, err
	}
	if user != nil {
		if err := todos.Load(user.ID); err != nil {
			db.Close()
			return nil, err
		}
		logging.DebugLog("session restored", logging.KeyUser, user.ID)
	}

	return c, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// RequireSession returns the logged-in user or errors.ErrNoSession.
func (c *Context) RequireSession() (*model.User, error) {
	user := c.Session.Current()
	if user == nil {
		return nil, errors.ErrNoSession
	}
	return user, nil
}

// Login authenticates and loads the user's todos. If the todos cannot be
// loaded the new session is abandoned and the user stays logged out.
func (c *Context) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := c.Session.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.loadOrAbandon(ctx, user)
}

// Signup registers and loads the new user's todos, like Login.
func (c *Context) Signup(ctx context.Context, name, email, password, confirmation string) (*model.User, error) {
	user, err := c.Session.Signup(ctx, name, email, password, confirmation)
	if err != nil {
		return nil, err
	}
	return c.loadOrAbandon(ctx, user)
}

func (c *Context) loadOrAbandon(ctx context.Context, user *model.User) (*model.User, error) {
	err := c.Todos.Load(user.ID)
	if err == nil {
		return user, nil
	}
	if aerr := c.Session.Abandon(ctx); aerr != nil {
		logging.LoggerFromContext(ctx).Warn("abandon session failed", logging.KeyError, aerr.Error())
	}
	return nil, err
}

// Reminders builds the reminder scheduler over the loaded todos.
func (c *Context) Reminders() *scheduler.Scheduler {
	checker := scheduler.NewReminderChecker(c.Todos, c.Notifier, c.Config.Reminder.Lookahead)
	return scheduler.NewScheduler(checker, c.Config.Reminder.CheckInterval)
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}

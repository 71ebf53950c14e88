package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/scheduler"
	"github.com/manav03panchal/taskflow/internal/tui"
)

// Watch command flags.
var (
	watchFlagPlain             bool
	watchFlagRequestPermission bool
)

// watchCmd runs the reminder scheduler.
var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"dash", "dashboard"},
	Short:   "Show a live dashboard and fire reminders",
	Long: `Run the reminder scheduler. Todos are checked right away and then every
30 seconds (TASKFLOW_REMINDER_INTERVAL). A reminder fires once, during the
minute before its time.

On an interactive terminal a live dashboard is shown. With --plain, or when
output is not a terminal, each reminder is printed as a line instead.

The dashboard holds the database while it runs, so other taskflow commands
wait for it to exit. Todos can be managed from the dashboard itself:
a adds one (title, then optional due and reminder), d deletes the selected
one, x toggles it done. tab/shift+tab switch view, j/k move, m marks
notifications read, c clears them, q quits.

Examples:
  taskflow watch
  taskflow watch --plain --format json
  taskflow watch --request-permission`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchFlagPlain, "plain", false,
		"Print reminders as lines instead of the dashboard")
	watchCmd.Flags().BoolVar(&watchFlagRequestPermission, "request-permission", false,
		"Ask to enable terminal and webhook alerts before starting")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	user, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	reminders := ctx.Reminders()
	checker := reminders.Checker()

	if watchFlagRequestPermission {
		granted, err := checker.RequestPermission(cmd.Context())
		if err != nil {
			return err
		}
		if !granted && ctx.IsCLI() {
			ctx.CLIFormatter().Muted("Alerts stay off; reminders are shown here only.")
		}
	}

	if watchFlagPlain || ctx.IsJSON() || !isInteractive() {
		return watchPlain(cmd, reminders)
	}

	// The dashboard owns the screen; banners would tear it.
	ctx.Terminal.SetInteractive(false)

	if err := reminders.Start(cmd.Context()); err != nil {
		return err
	}
	defer reminders.Stop()

	return tui.Run(tui.DashboardConfig{
		Todos:         ctx.Todos,
		Notifications: checker,
		User:          user,
		Filter:        model.FilterToday,
	}, checker)
}

func watchPlain(cmd *cobra.Command, reminders *scheduler.Scheduler) error {
	checker := reminders.Checker()
	checker.Subscribe(func(n model.Notification) {
		if ctx.IsJSON() {
			ctx.JSONFormatter().PrintNotification(&n)
			return
		}
		ctx.CLIFormatter().Println(ctx.CLIFormatter().NotificationLine(&n))
	})

	if err := reminders.Start(cmd.Context()); err != nil {
		return err
	}
	defer reminders.Stop()

	if ctx.IsCLI() {
		ctx.CLIFormatter().Muted("Watching reminders. Press Ctrl+C to stop.")
	}
	<-cmd.Context().Done()
	return nil
}

func isInteractive() bool {
	f, ok := stdout.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

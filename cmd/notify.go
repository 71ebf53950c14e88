package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/taskflow/internal/notify"
	"github.com/manav03panchal/taskflow/internal/output"
)

// notifyCmd groups notification permission commands.
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage reminder alerts outside the dashboard",
	Long: `Reminders always appear in 'taskflow watch'. When allowed, they also ring
the terminal and, with TASKFLOW_WEBHOOK_URL set, post to a Slack, Discord or
generic webhook.`,
	RunE: runNotifyStatus,
}

var notifyAllowCmd = &cobra.Command{
	Use:   "allow",
	Short: "Ask to enable alerts on every available platform",
	Args:  cobra.NoArgs,
	RunE:  runNotifyAllow,
}

var notifyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show alert permission per platform",
	Args:  cobra.NoArgs,
	RunE:  runNotifyStatus,
}

func init() {
	notifyCmd.AddCommand(notifyAllowCmd)
	notifyCmd.AddCommand(notifyStatusCmd)
	rootCmd.AddCommand(notifyCmd)
}

func runNotifyAllow(cmd *cobra.Command, args []string) error {
	if !ctx.Notifier.Supported() {
		return notAvailable()
	}

	perm, err := ctx.Notifier.RequestPermission(cmd.Context())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return runNotifyStatus(cmd, args)
	}
	if perm == notify.PermissionGranted {
		ctx.CLIFormatter().Success("Alerts enabled.")
	} else {
		ctx.CLIFormatter().Warning("Alerts stay off.")
	}
	return runNotifyStatus(cmd, args)
}

func runNotifyStatus(cmd *cobra.Command, args []string) error {
	platforms := ctx.Notifier.Platforms()

	if ctx.IsJSON() {
		status := make(map[string]string, len(platforms))
		for _, p := range platforms {
			status[p.Name()] = string(p.Permission())
		}
		return ctx.Formatter.JSON(map[string]interface{}{
			"permission": string(ctx.Notifier.Permission()),
			"platforms":  status,
		})
	}

	if len(platforms) == 0 {
		return notAvailable()
	}
	rows := make([]output.TableRow, 0, len(platforms))
	for _, p := range platforms {
		rows = append(rows, output.TableRow{Columns: []string{p.Name(), string(p.Permission())}})
	}
	ctx.CLIFormatter().PrintTable([]string{"PLATFORM", "PERMISSION"}, rows)
	return nil
}

func notAvailable() error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage(string(notify.PermissionDenied), "no notification platform available")
	}
	ctx.CLIFormatter().Muted("No alert platform available: output is not a terminal and TASKFLOW_WEBHOOK_URL is unset.")
	return nil
}

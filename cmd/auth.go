package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/validate"
)

// Auth command flags.
var (
	authFlagName     string
	authFlagEmail    string
	authFlagPassword string
	authFlagConfirm  string
)

// loginCmd signs in and loads the account's todos.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	Long: `Sign in with your email and password. Missing values are prompted for;
the password is read without echo.

Examples:
  taskflow login
  taskflow login --email you@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// signupCmd registers a new account.
var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create an account",
	Long: `Create an account. The password needs at least three of: 8+ characters,
an uppercase letter, a lowercase letter, a number, a special character.

Examples:
  taskflow signup --name Alice --email alice@example.com`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

// logoutCmd ends the session and drops the local todos.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove local data for this account",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd shows the current session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

// forgotPasswordCmd requests a reset code.
var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password EMAIL",
	Short: "Email a password reset code",
	Args:  cobra.ExactArgs(1),
	RunE:  runForgotPassword,
}

// resetPasswordCmd sets a new password using the emailed code.
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password EMAIL OTP",
	Short: "Set a new password with a reset code",
	Long: `Set a new password with the 6-digit code sent by 'taskflow forgot-password'.

Examples:
  taskflow reset-password alice@example.com 123456`,
	Args: cobra.ExactArgs(2),
	RunE: runResetPassword,
}

// refreshTokenCmd exchanges the refresh token for a new access token.
var refreshTokenCmd = &cobra.Command{
	Use:   "refresh-token",
	Short: "Renew the access token",
	Args:  cobra.NoArgs,
	RunE:  runRefreshToken,
}

func init() {
	loginCmd.Flags().StringVarP(&authFlagEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&authFlagPassword, "password", "p", "", "Account password (prompted when omitted)")

	signupCmd.Flags().StringVarP(&authFlagName, "name", "n", "", "Your name")
	signupCmd.Flags().StringVarP(&authFlagEmail, "email", "e", "", "Account email")
	signupCmd.Flags().StringVarP(&authFlagPassword, "password", "p", "", "Password (prompted when omitted)")
	signupCmd.Flags().StringVar(&authFlagConfirm, "confirm", "", "Password confirmation (prompted when omitted)")

	resetPasswordCmd.Flags().StringVarP(&authFlagPassword, "password", "p", "", "New password (prompted when omitted)")
	resetPasswordCmd.Flags().StringVar(&authFlagConfirm, "confirm", "", "Password confirmation (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(forgotPasswordCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(refreshTokenCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, err := prompt("Email", authFlagEmail)
	if err != nil {
		return err
	}
	password, err := promptSecret("Password", authFlagPassword)
	if err != nil {
		return err
	}

	user, err := ctx.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	return printWelcome("logged_in", user)
}

func runSignup(cmd *cobra.Command, args []string) error {
	name, err := prompt("Name", authFlagName)
	if err != nil {
		return err
	}
	email, err := prompt("Email", authFlagEmail)
	if err != nil {
		return err
	}
	password, err := promptSecret("Password", authFlagPassword)
	if err != nil {
		return err
	}
	confirm, err := promptSecret("Confirm password", authFlagConfirm)
	if err != nil {
		return err
	}

	user, err := ctx.Signup(cmd.Context(), name, email, password, confirm)
	if err != nil {
		if ctx.IsCLI() && password != "" && errors.IsValidationError(err) {
			ctx.CLIFormatter().Muted("Password strength: " + validate.CheckPassword(password).Label())
		}
		return err
	}
	return printWelcome("registered", user)
}

func printWelcome(status string, user *model.User) error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintUser(status, user)
	}

	cli := ctx.CLIFormatter()
	cli.Success("Welcome, " + user.DisplayName() + "!")
	counts := ctx.Todos.Counts()
	cli.Muted(pluralTasks(counts[model.FilterToday]) + " due today, " +
		pluralTasks(counts[model.FilterAll]) + " in total.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if ctx.Session.Current() == nil {
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintMessage("logged_out", "")
		}
		ctx.CLIFormatter().Muted("Not logged in.")
		return nil
	}

	if err := ctx.Session.Logout(cmd.Context()); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage("logged_out", "")
	}
	ctx.CLIFormatter().Success("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user := ctx.Session.Current()
	if ctx.IsJSON() {
		status := "logged_in"
		if user == nil {
			status = "logged_out"
		}
		return ctx.JSONFormatter().PrintUser(status, user)
	}
	ctx.CLIFormatter().PrintUser(user)
	return nil
}

func runForgotPassword(cmd *cobra.Command, args []string) error {
	msg, err := ctx.Session.ForgotPassword(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "If the account exists, a reset code is on its way."
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage("sent", msg)
	}
	ctx.CLIFormatter().Success(msg)
	ctx.CLIFormatter().Muted("Then run: taskflow reset-password " + args[0] + " <code>")
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	password, err := promptSecret("New password", authFlagPassword)
	if err != nil {
		return err
	}
	confirm, err := promptSecret("Confirm password", authFlagConfirm)
	if err != nil {
		return err
	}

	msg, err := ctx.Session.ResetPassword(cmd.Context(), args[0], args[1], password, confirm)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Password updated. You can log in now."
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage("reset", msg)
	}
	ctx.CLIFormatter().Success(msg)
	return nil
}

func runRefreshToken(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	if err := ctx.Session.RefreshToken(cmd.Context()); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMessage("refreshed", "")
	}
	ctx.CLIFormatter().Success("Access token refreshed.")
	return nil
}

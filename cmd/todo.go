package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/parser"
	"github.com/manav03panchal/taskflow/internal/validate"
)

// Todo command flags.
var (
	todoFlagTitle       string
	todoFlagDesc        string
	todoFlagPriority    string
	todoFlagCategory    string
	todoFlagDue         string
	todoFlagRemind      string
	todoFlagDone        bool
	todoFlagUndone      bool
	todoFlagClearDue    bool
	todoFlagClearRemind bool
	listFlagSearch      string
)

const whenHelp = `Dates and reminders accept:
  - Relative: +10m, +2h, +1d, +1w
  - Natural language: "tomorrow 9am", "friday 5pm", "in 2 hours"
  - Date: 2026-01-15`

// addCmd creates a todo.
var addCmd = &cobra.Command{
	Use:     "add TITLE",
	Aliases: []string{"new"},
	Short:   "Add a todo",
	Long: `Add a todo to the top of your list.

` + whenHelp + `

A reminder earlier today than now is moved to the same time tomorrow.

Examples:
  taskflow add "Buy milk" --category shopping
  taskflow add "Send proposal" --due friday --remind "friday 9am" --priority high
  taskflow add "Stretch" --remind +30m --category health`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

// listCmd lists todos in a view.
var listCmd = &cobra.Command{
	Use:     "list [FILTER]",
	Aliases: []string{"ls"},
	Short:   "List todos",
	Long: `List the todos of a view. FILTER is one of: all, today, upcoming,
completed, personal, work, shopping, health, other. Default: all.

Examples:
  taskflow list
  taskflow list today
  taskflow list work --search proposal`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: filterNames(),
	RunE:      runList,
}

// showCmd shows one todo.
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// editCmd changes fields of a todo.
var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a todo",
	Long: `Change the given fields of a todo. Fields without a flag are kept.

` + whenHelp + `

Examples:
  taskflow edit 1 --title "Welcome aboard"
  taskflow edit 2 --due "next monday" --priority low
  taskflow edit 2 --clear-remind`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

// doneCmd toggles completion.
var doneCmd = &cobra.Command{
	Use:     "done ID",
	Aliases: []string{"toggle"},
	Short:   "Toggle a todo between done and open",
	Args:    cobra.ExactArgs(1),
	RunE:    runDone,
}

// rmCmd removes a todo.
var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a todo",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

// countsCmd shows the size of every view.
var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Show how many todos each view holds",
	Args:  cobra.NoArgs,
	RunE:  runCounts,
}

func init() {
	addCmd.Flags().StringVarP(&todoFlagDesc, "desc", "d", "", "Description")
	addCmd.Flags().StringVarP(&todoFlagPriority, "priority", "p", "", "Priority: low, medium, high (default medium)")
	addCmd.Flags().StringVarP(&todoFlagCategory, "category", "c", "", "Category: personal, work, shopping, health, other (default personal)")
	addCmd.Flags().StringVar(&todoFlagDue, "due", "", "Due date")
	addCmd.Flags().StringVarP(&todoFlagRemind, "remind", "r", "", "Reminder time")
	addCmd.Flags().BoolVar(&todoFlagDone, "done", false, "Create as completed")

	editCmd.Flags().StringVarP(&todoFlagTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&todoFlagDesc, "desc", "d", "", "New description")
	editCmd.Flags().StringVarP(&todoFlagPriority, "priority", "p", "", "New priority")
	editCmd.Flags().StringVarP(&todoFlagCategory, "category", "c", "", "New category")
	editCmd.Flags().StringVar(&todoFlagDue, "due", "", "New due date")
	editCmd.Flags().StringVarP(&todoFlagRemind, "remind", "r", "", "New reminder time")
	editCmd.Flags().BoolVar(&todoFlagDone, "done", false, "Mark completed")
	editCmd.Flags().BoolVar(&todoFlagUndone, "undone", false, "Mark open")
	editCmd.Flags().BoolVar(&todoFlagClearDue, "clear-due", false, "Remove the due date")
	editCmd.Flags().BoolVar(&todoFlagClearRemind, "clear-remind", false, "Remove the reminder")
	editCmd.MarkFlagsMutuallyExclusive("done", "undone")
	editCmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	editCmd.MarkFlagsMutuallyExclusive("remind", "clear-remind")

	listCmd.Flags().StringVarP(&listFlagSearch, "search", "s", "", "Only todos whose title or description contains this text")

	// Dynamic completion
	showCmd.ValidArgsFunction = completeTodoIDs
	editCmd.ValidArgsFunction = completeTodoIDs
	doneCmd.ValidArgsFunction = completeTodoIDs
	rmCmd.ValidArgsFunction = completeTodoIDs
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.RegisterFlagCompletionFunc("priority", completePriorities)
		c.RegisterFlagCompletionFunc("category", completeCategories)
	}

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(countsCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	in := model.TodoInput{
		Title:       args[0],
		Description: todoFlagDesc,
		Completed:   todoFlagDone,
	}

	var err error
	if in.Priority, err = parsePriority(todoFlagPriority); err != nil {
		return err
	}
	if in.Category, err = parseCategory(todoFlagCategory); err != nil {
		return err
	}

	now := time.Now()
	if todoFlagDue != "" {
		if in.DueDate, err = parseDue(todoFlagDue, now); err != nil {
			return err
		}
	}
	if todoFlagRemind != "" {
		if in.Reminder, err = parseRemind(todoFlagRemind, now); err != nil {
			return err
		}
	}

	t, err := ctx.Todos.Add(in)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTodo("created", &t)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Added: " + t.Title)
	cli.Println(cli.TodoLine(&t))
	if t.Reminder != nil {
		cli.Muted("Reminders fire while 'taskflow watch' is running.")
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	filter := model.FilterAll
	if len(args) > 0 {
		filter = model.Filter(strings.ToLower(args[0]))
		if !filter.Known() {
			return errors.NewValidationError("filter",
				fmt.Sprintf("unknown view %q (use one of: %s)", args[0], strings.Join(filterNames(), ", ")))
		}
	}

	todos := ctx.Todos.Search(filter, listFlagSearch)
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTodos(filter, listFlagSearch, todos)
	}
	ctx.CLIFormatter().PrintTodoList(filter, todos)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	t, err := ctx.Todos.Get(args[0])
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTodo("ok", &t)
	}
	ctx.CLIFormatter().PrintTodo(&t)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	id := args[0]
	if _, err := ctx.Todos.Get(id); err != nil {
		return err
	}

	flags := cmd.Flags()
	var patch model.TodoPatch
	if flags.Changed("title") {
		patch.Title = &todoFlagTitle
	}
	if flags.Changed("desc") {
		patch.Description = &todoFlagDesc
	}
	if flags.Changed("priority") {
		p, err := parsePriority(todoFlagPriority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if flags.Changed("category") {
		c, err := parseCategory(todoFlagCategory)
		if err != nil {
			return err
		}
		patch.Category = &c
	}

	now := time.Now()
	if flags.Changed("due") {
		due, err := parseDue(todoFlagDue, now)
		if err != nil {
			return err
		}
		patch.DueDate = due
	}
	if flags.Changed("remind") {
		remind, err := parseRemind(todoFlagRemind, now)
		if err != nil {
			return err
		}
		patch.Reminder = remind
	}
	patch.ClearDueDate = todoFlagClearDue
	patch.ClearReminder = todoFlagClearRemind

	if todoFlagDone || todoFlagUndone {
		completed := todoFlagDone
		patch.Completed = &completed
	}

	if patch.IsEmpty() {
		return errors.NewValidationError("edit", "nothing to change (see --help for flags)")
	}

	if err := ctx.Todos.Update(id, patch); err != nil {
		return err
	}
	return printChanged("updated", id)
}

func runDone(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	id := args[0]
	if _, err := ctx.Todos.Get(id); err != nil {
		return err
	}
	if err := ctx.Todos.ToggleComplete(id); err != nil {
		return err
	}
	return printChanged("toggled", id)
}

func printChanged(status, id string) error {
	t, err := ctx.Todos.Get(id)
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTodo(status, &t)
	}

	cli := ctx.CLIFormatter()
	switch {
	case status == "toggled" && t.Completed:
		cli.Success("Completed: " + t.Title)
	case status == "toggled":
		cli.Success("Reopened: " + t.Title)
	default:
		cli.Success("Updated: " + t.Title)
	}
	cli.Println(cli.TodoLine(&t))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	t, err := ctx.Todos.Get(args[0])
	if err != nil {
		return err
	}
	if err := ctx.Todos.Remove(t.ID); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRemoved(t.ID)
	}
	ctx.CLIFormatter().Success("Removed: " + t.Title)
	return nil
}

func runCounts(cmd *cobra.Command, args []string) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	counts := ctx.Todos.Counts()
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintCounts(counts)
	}
	ctx.CLIFormatter().PrintCounts(counts)
	return nil
}

func parsePriority(s string) (model.Priority, error) {
	if s == "" {
		return "", nil
	}
	s = strings.ToLower(s)
	if err := validate.Priority(s); err != nil {
		return "", err
	}
	return model.Priority(s), nil
}

func parseCategory(s string) (model.Category, error) {
	if s == "" {
		return "", nil
	}
	s = strings.ToLower(s)
	if err := validate.Category(s); err != nil {
		return "", err
	}
	return model.Category(s), nil
}

func parseDue(s string, now time.Time) (*time.Time, error) {
	t, err := parser.ParseWhen(s, now)
	if err != nil {
		return nil, errors.NewValidationError("due", err.Error())
	}
	return &t, nil
}

func parseRemind(s string, now time.Time) (*time.Time, error) {
	t, err := parser.ParseReminder(s, now)
	if err != nil {
		return nil, errors.NewValidationError("remind", err.Error())
	}
	return &t, nil
}

func filterNames() []string {
	filters := model.Filters()
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = string(f)
	}
	return names
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

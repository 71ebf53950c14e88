package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/taskflow/internal/model"
	"github.com/manav03panchal/taskflow/internal/runtime"
)

// completeTodoIDs offers the ids of the logged-in user's todos.
func completeTodoIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Completion skips PersistentPreRunE
	if ctx == nil {
		opts := runtime.DefaultOptions()
		opts.In = stdin
		opts.Out = stdout
		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer closeContext()
	}
	if ctx.Session.Current() == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var suggestions []string
	for _, t := range ctx.Todos.Snapshot() {
		if strings.HasPrefix(t.ID, toComplete) {
			suggestions = append(suggestions, t.ID+"\t"+t.Title)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

func completePriorities(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, p := range model.Priorities() {
		if strings.HasPrefix(string(p), toComplete) {
			out = append(out, string(p))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range model.Categories() {
		if strings.HasPrefix(string(c), toComplete) {
			out = append(out, string(c))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

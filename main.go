// Command taskflow is a todo list with reminders for the terminal.
package main

import (
	"os"

	"github.com/manav03panchal/taskflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

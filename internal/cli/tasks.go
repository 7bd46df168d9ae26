package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revamp-labs/revamp/internal/ctxlog"
	"github.com/revamp-labs/revamp/internal/task"
)

func init() {
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks [name]",
	Short: "List registered tasks or show the run order of one task",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(flagCwd, map[string]any{}, io.Discard, ctxlog.Discard())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return printOrder(cmd.OutOrStdout(), a.Tasks(), args[0])
		}
		printTasks(cmd.OutOrStdout(), a.Tasks())
		return nil
	},
}

func printTasks(w io.Writer, g *task.Graph) {
	for _, name := range g.Names() {
		deps, _ := g.Dependencies(name)
		if len(deps) == 0 {
			fmt.Fprintf(w, "  %s\n", name)
			continue
		}
		fmt.Fprintf(w, "  %s -> %s\n", name, strings.Join(deps, ", "))
	}
}

func printOrder(w io.Writer, g *task.Graph, name string) error {
	order, err := g.Resolve(name)
	if err != nil {
		return err
	}
	for i, n := range order {
		fmt.Fprintf(w, "%2d. %s\n", i+1, n)
	}
	return nil
}

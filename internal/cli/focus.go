package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Pick the single most actionable task",
	Long: `Pick the single most actionable task from the local store.

Tasks assigned to you come first, then Critical priority, then the
oldest, then the largest estimate. Resolved, Done and ignored tasks
are never picked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		task := svc.Focus()
		if task == nil {
			fmt.Println("No actionable focus tasks found. 🎉")
			return nil
		}

		fmt.Println("🎯 Focus on this:")
		fmt.Println()
		printTaskDetail(task)
		fmt.Println()
		fmt.Printf("Start it with: fignotes task working %s\n", task.CommentID)
		return nil
	},
}

package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tkc/fignotes/internal/domain"
)

var (
	taskUnresolvedOnly bool
	taskBulkIDs        []string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage review tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks from the local store",
	Long: `List tasks from the local store without hitting the Figma API.
Run "fignotes sync" first to refresh the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		result := svc.GetState()
		tasks := result.Tasks
		if taskUnresolvedOnly {
			filtered := make([]*domain.Task, 0, len(tasks))
			for _, t := range tasks {
				if !t.Resolved {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found. Run: fignotes sync")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STATUS\tPRI\tAGE\tFLOW\tMESSAGE\tID")
		fmt.Fprintln(w, "------\t---\t---\t----\t-------\t--")

		for _, t := range tasks {
			status := statusIcon(t) + " " + string(t.InternalStatus)
			flow := fmt.Sprintf("%s / %s", t.Page, t.Frame)
			fmt.Fprintf(w, "%s\t%s\t%dd\t%s\t%s\t%s\n",
				status, t.Priority, t.AgeInDays, truncate(flow, 28), truncate(t.Message, 40), t.CommentID)
		}
		w.Flush()

		fmt.Println()
		fmt.Printf("Total: %d tasks (%d unresolved)\n", result.File.TotalTasks, result.File.TotalUnresolved)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		for _, t := range svc.GetState().Tasks {
			if t.CommentID == args[0] {
				printTaskDetail(t)
				return nil
			}
		}
		return fmt.Errorf("task not found: %s", args[0])
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id> <field> <value>",
	Short: "Update a locally-owned task field",
	Long: `Update a locally-owned task field.

Fields: effort (1-3 or small/medium/large), estimate (minutes),
assignee, priority (Critical/High/Medium/Low),
status (Pending/InProgress/Blocked/NeedsReview/Done), ignored (bool).

These fields survive the next sync; fields owned by Figma do not.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		if err := svc.UpdateTask(args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("✓ Updated %s: %s = %s\n", args[0], args[1], args[2])
		return nil
	},
}

var taskBulkCmd = &cobra.Command{
	Use:   "bulk <field> <value>",
	Short: "Apply one update to many tasks",
	Long: `Apply the same field update to every task passed via --ids.
If any id is unknown or the value is invalid, nothing is changed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(taskBulkIDs) == 0 {
			return fmt.Errorf("--ids is required")
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		updates := map[string]string{args[0]: args[1]}
		if err := svc.BulkUpdate(taskBulkIDs, updates); err != nil {
			return err
		}
		fmt.Printf("✓ Updated %d task(s): %s = %s\n", len(taskBulkIDs), args[0], args[1])
		return nil
	},
}

var taskResolveCmd = &cobra.Command{
	Use:   "resolve <task-id>",
	Short: "Mark a task resolved locally",
	Long: `Mark a task resolved in the local store.

The resolved flag is owned by Figma: the next sync overwrites it with
the live comment state. Use this for offline triage only.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.Resolve(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Resolved %s (until next sync)\n", args[0])
		return nil
	},
}

var taskUnresolveCmd = &cobra.Command{
	Use:   "unresolve <task-id>",
	Short: "Clear the local resolved flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.Unresolve(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Unresolved %s (until next sync)\n", args[0])
		return nil
	},
}

var taskWorkingClear bool

var taskWorkingCmd = &cobra.Command{
	Use:   "working [task-id]",
	Short: "Mark the task you are working on (at most one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		if taskWorkingClear {
			if err := svc.ClearWorking(); err != nil {
				return err
			}
			fmt.Println("✓ Cleared working task")
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("task-id is required (or use --clear)")
		}
		if err := svc.SetWorking(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Now working on %s\n", args[0])
		return nil
	},
}

var taskIgnoreOff bool

var taskIgnoreCmd = &cobra.Command{
	Use:   "ignore <task-id>",
	Short: "Ignore a task (keeps it out of focus selection)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		value := "true"
		if taskIgnoreOff {
			value = "false"
		}
		if err := svc.UpdateTask(args[0], "ignored", value); err != nil {
			return err
		}
		if taskIgnoreOff {
			fmt.Printf("✓ Unignored %s\n", args[0])
		} else {
			fmt.Printf("✓ Ignored %s\n", args[0])
		}
		return nil
	},
}

func printTaskDetail(t *domain.Task) {
	fmt.Printf("Task: %s\n", truncate(t.Message, 70))
	fmt.Printf("ID:       %s\n", t.CommentID)
	fmt.Printf("Status:   %s %s\n", statusIcon(t), t.InternalStatus)
	fmt.Printf("Priority: %s\n", t.Priority)
	fmt.Printf("Location: %s / %s\n", t.Page, t.Frame)
	fmt.Printf("Author:   @%s\n", t.Author)
	fmt.Printf("Age:      %d day(s)\n", t.AgeInDays)
	fmt.Println()

	if t.Assignee != "" {
		fmt.Printf("Assignee: @%s\n", t.Assignee)
	}
	if t.Effort != domain.EffortUnset {
		fmt.Printf("Effort:   %d (estimate %dm)\n", t.Effort, t.TimeEstimate())
	}
	if t.Resolved {
		by := t.ResolvedBy
		if by == "" {
			by = "unknown"
		}
		fmt.Printf("Resolved: yes (by @%s)\n", by)
	}
	if t.IsCurrentlyWorking {
		fmt.Println("⏳ Currently working on this task")
	}
	if t.IsAvoidance {
		fmt.Println("🐘 Large task aging unresolved. Likely being avoided.")
	}
	if t.Ignored {
		fmt.Println("🙈 Ignored")
	}
}

func statusIcon(t *domain.Task) string {
	if t.Resolved {
		return "●"
	}
	switch t.InternalStatus {
	case domain.StatusPending:
		return "○"
	case domain.StatusInProgress:
		return "◐"
	case domain.StatusBlocked:
		return "■"
	case domain.StatusNeedsReview:
		return "◍"
	case domain.StatusDone:
		return "●"
	default:
		return "?"
	}
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	taskListCmd.Flags().BoolVarP(&taskUnresolvedOnly, "unresolved", "u", false, "Show unresolved tasks only")
	taskBulkCmd.Flags().StringSliceVar(&taskBulkIDs, "ids", nil, "Comma-separated task ids")
	taskWorkingCmd.Flags().BoolVar(&taskWorkingClear, "clear", false, "Clear the working flag instead")
	taskIgnoreCmd.Flags().BoolVar(&taskIgnoreOff, "off", false, "Stop ignoring the task")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskBulkCmd)
	taskCmd.AddCommand(taskResolveCmd)
	taskCmd.AddCommand(taskUnresolveCmd)
	taskCmd.AddCommand(taskWorkingCmd)
	taskCmd.AddCommand(taskIgnoreCmd)
}

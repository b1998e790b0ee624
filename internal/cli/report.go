package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tkc/fignotes/internal/domain"
)

var (
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the review state as CSV or Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		result := svc.GetState()

		var content string
		switch reportFormat {
		case "csv":
			content, err = renderCSV(result)
			if err != nil {
				return fmt.Errorf("failed to render csv: %w", err)
			}
		case "markdown", "md":
			content = renderMarkdown(result)
		default:
			return fmt.Errorf("unknown format: %q (csv, markdown)", reportFormat)
		}

		if reportOut == "" {
			fmt.Print(content)
			return nil
		}
		if err := os.WriteFile(reportOut, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("✓ Report written to %s\n", reportOut)
		return nil
	},
}

func renderCSV(r *domain.SyncResult) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"ID", "Message", "Author", "Status", "Priority", "Estimate", "Page", "Frame"}); err != nil {
		return "", err
	}
	for _, t := range r.Tasks {
		record := []string{
			t.CommentID,
			t.Message,
			t.Author,
			string(t.InternalStatus),
			string(t.Priority),
			strconv.Itoa(t.TimeEstimate()),
			t.Page,
			t.Frame,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}

func renderMarkdown(r *domain.SyncResult) string {
	var sb strings.Builder

	sb.WriteString("# Design Review Executive Summary\n\n")
	sb.WriteString(r.WeeklySummary)
	sb.WriteString("\n\n")

	for _, t := range r.Tasks {
		assignee := "Unassigned"
		if t.Assignee != "" {
			assignee = "@" + t.Assignee
		}
		fmt.Fprintf(&sb, "### [%s] %s\n", t.InternalStatus, truncate(t.Message, 50))
		fmt.Fprintf(&sb, "- **Priority**: %s | **Time**: %dm | **Assigned**: %s\n", t.Priority, t.TimeEstimate(), assignee)
		fmt.Fprintf(&sb, "- **Location**: %s / %s\n\n", t.Page, t.Frame)
	}

	if len(r.ResolverBreakdown) > 0 {
		sb.WriteString("## Resolved By\n\n")
		for _, rc := range r.ResolverBreakdown {
			fmt.Fprintf(&sb, "- @%s: %d\n", rc.Handle, rc.Count)
		}
	}

	return sb.String()
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "markdown", "Output format (csv, markdown)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write to a file instead of stdout")
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tkc/fignotes/internal/domain"
	"github.com/tkc/fignotes/internal/notify"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull review comments and reconcile with local task data",
	Long: `Pull review comments from the Figma API and reconcile them with
locally stored task metadata.

Fields owned by Figma (message, location, resolved state) are refreshed
from the live fetch. Fields owned by you (status, effort, assignee,
priority) survive from the local store. Tasks that disappeared upstream
are dropped from the store on a full sync.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		fmt.Println("📥 Syncing review comments...")
		result, err := svc.Sync(context.Background())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printSyncSummary(result)

		if result.File.ShipReadiness == domain.ReadinessHighRisk {
			_ = notify.SendHighRisk(result.WeeklySummary)
		} else if !result.LiveFetchFailed {
			_ = notify.SendSyncComplete(result.File.TotalUnresolved, string(result.File.ShipReadiness))
		}
		return nil
	},
}

func printSyncSummary(r *domain.SyncResult) {
	if r.LiveFetchFailed {
		fmt.Println("⚠️  Live fetch failed. Showing stored tasks only (nothing was synced).")
		fmt.Println()
	}

	fmt.Printf("📋 %d tasks (%d unresolved)\n", r.File.TotalTasks, r.File.TotalUnresolved)
	fmt.Printf("   Completion: %.0f%%\n", r.File.CompletionPercentage)
	fmt.Printf("   Ship readiness: %s %s\n", readinessIcon(r.File.ShipReadiness), r.File.ShipReadiness)

	if r.File.TotalUnresolved > 0 {
		fmt.Printf("   Unresolved estimate: %dm\n", r.File.UnresolvedTimeEstimate)
		fmt.Printf("   Oldest unresolved: %d day(s)\n", r.File.OldestUnresolvedAgeDays)
	}

	if r.DroppedAnnotations > 0 {
		fmt.Printf("   ⚠️  %d annotated task(s) disappeared upstream and were dropped\n", r.DroppedAnnotations)
	}

	fmt.Println()
	fmt.Println(r.WeeklySummary)

	if verbose && len(r.ResolverBreakdown) > 0 {
		fmt.Println()
		fmt.Println("Resolved by:")
		for _, rc := range r.ResolverBreakdown {
			fmt.Printf("  @%-16s %d\n", rc.Handle, rc.Count)
		}
	}
}

func readinessIcon(r domain.ShipReadiness) string {
	switch r {
	case domain.ReadinessReady:
		return "🟢"
	case domain.ReadinessNeedsCleanup:
		return "🟡"
	case domain.ReadinessHighRisk:
		return "🔴"
	default:
		return "?"
	}
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Show per-flow health metrics",
	Long: `Show health metrics per flow (a page/frame grouping).

The health score starts from the flow's completion rate and loses
points for unresolved critical, stale, or heavy tasks. Intensity is
the unresolved ratio, usable as a heatmap signal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		result := svc.GetState()
		if len(result.Flows) == 0 {
			fmt.Println("No flows found. Run: fignotes sync")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "HEALTH\tOPEN\tTOTAL\tEST\tFLOW")
		fmt.Fprintln(w, "------\t----\t-----\t---\t----")

		for _, f := range result.Flows {
			fmt.Fprintf(w, "%s %d\t%d\t%d\t%dm\t%s\n",
				healthIcon(f.HealthScore), f.HealthScore,
				f.UnresolvedTasks, f.TotalTasks, f.TotalTimeEstimate,
				truncate(f.FlowName, 50))
		}
		w.Flush()

		fmt.Println()
		fmt.Printf("Ship readiness: %s %s\n", readinessIcon(result.File.ShipReadiness), result.File.ShipReadiness)
		return nil
	},
}

func healthIcon(score int) string {
	switch {
	case score >= 80:
		return "🟢"
	case score >= 50:
		return "🟡"
	default:
		return "🔴"
	}
}

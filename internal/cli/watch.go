package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tkc/fignotes/internal/domain"
	"github.com/tkc/fignotes/internal/engine"
	"github.com/tkc/fignotes/internal/notify"
)

var (
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the file and sync continuously",
	Long: `Poll the Figma file at regular intervals and sync review comments.

Triggers arriving while a sync is pending are collapsed into one run,
and triggers arriving while a sync is in flight are dropped. A
notification is sent when the file turns High Risk.

Press Ctrl+C to stop watching.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		fmt.Printf("👀 Watching %s for review activity...\n", cfg.FileKey)
		fmt.Printf("   Interval: %s\n", watchInterval)
		fmt.Println("   Press Ctrl+C to stop")
		fmt.Println()

		var lastReadiness domain.ShipReadiness

		debounce := engine.NewDebouncer(time.Duration(cfg.DebounceMillis)*time.Millisecond, func() {
			result, err := svc.Sync(ctx)
			if err != nil {
				fmt.Printf("⚠️  Sync failed: %v\n", err)
				return
			}

			timestamp := time.Now().Format("15:04:05")
			if result.LiveFetchFailed {
				fmt.Printf("[%s] fetch failed, store untouched\n", timestamp)
				return
			}

			fmt.Printf("[%s] %d tasks, %d unresolved, readiness: %s\n",
				timestamp, result.File.TotalTasks, result.File.TotalUnresolved, result.File.ShipReadiness)

			if result.File.ShipReadiness == domain.ReadinessHighRisk && lastReadiness != domain.ReadinessHighRisk {
				_ = notify.SendHighRisk(result.WeeklySummary)
			}
			lastReadiness = result.File.ShipReadiness
		})

		// シグナルハンドリング
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		// 初回実行
		debounce.Trigger()

		for {
			select {
			case <-ticker.C:
				debounce.Trigger()
			case <-sigCh:
				fmt.Println("\n👋 Stopping watch...")
				return nil
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 2*time.Minute, "Polling interval")
}

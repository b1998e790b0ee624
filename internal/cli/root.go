package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tkc/fignotes/internal/config"
	"github.com/tkc/fignotes/internal/engine"
	"github.com/tkc/fignotes/internal/figma"
	"github.com/tkc/fignotes/internal/store"
)

var (
	cfg     *config.Config
	verbose bool
)

// rootCmd はルートコマンド
var rootCmd = &cobra.Command{
	Use:   "fignotes",
	Short: "Design review command center for Figma files",
	Long: `fignotes is a CLI tool that turns Figma design review comments into tasks.

It pulls comments from the Figma API, reconciles them with locally stored
task metadata (status, effort, assignee, priority), and reports per-flow
health metrics and ship readiness for the file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithPrecedence()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute はCLIを実行する
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService は設定からsyncサービスを組み立てる
func newService() (*engine.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir, err := config.StoreDir()
	if err != nil {
		return nil, err
	}

	client := figma.NewClient(cfg.FigmaToken, cfg.FileKey, nil)
	taskStore := store.NewTaskStore(store.NewFileKV(dir), cfg.FileKey)
	return engine.NewService(client, taskStore, cfg.UserHandle), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
}

package cli

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tkc/fignotes/internal/figma"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage the target Figma file",
}

// fileURLPattern はfigma.comの共有URLからファイルキーを抜き出す
var fileURLPattern = regexp.MustCompile(`figma\.com/(?:file|design)/([A-Za-z0-9]+)`)

var fileSelectCmd = &cobra.Command{
	Use:   "select <file-key-or-url>",
	Short: "Select the Figma file to track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.FigmaToken == "" {
			return fmt.Errorf("not logged in. Run: fignotes auth login")
		}

		fileKey := parseFileKey(args[0])
		if fileKey == "" {
			return fmt.Errorf("invalid file key or URL: %s", args[0])
		}

		// ファイルが読めるか確認
		client := figma.NewClient(cfg.FigmaToken, fileKey, nil)
		ctx := context.Background()

		file, err := client.GetFile(ctx)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}

		cfg.FileKey = fileKey
		cfg.FileName = file.Name
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("✓ Selected file: %s\n", file.Name)
		fmt.Printf("  Key: %s\n", fileKey)
		fmt.Println()
		fmt.Println("Next step: fignotes sync")
		return nil
	},
}

var fileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		client := figma.NewClient(cfg.FigmaToken, cfg.FileKey, nil)
		ctx := context.Background()

		file, err := client.GetFile(ctx)
		if err != nil {
			return fmt.Errorf("failed to get file: %w", err)
		}

		fmt.Printf("Current File:\n")
		fmt.Printf("  Name: %s\n", file.Name)
		fmt.Printf("  Key:  %s\n", cfg.FileKey)
		if cfg.UserHandle != "" {
			fmt.Printf("  User: @%s\n", cfg.UserHandle)
		}
		return nil
	},
}

// parseFileKey はキーそのものか共有URLのどちらでも受け付ける
func parseFileKey(arg string) string {
	arg = strings.TrimSpace(arg)
	if m := fileURLPattern.FindStringSubmatch(arg); m != nil {
		return m[1]
	}
	if strings.ContainsAny(arg, "/:") {
		return ""
	}
	return arg
}

func init() {
	fileCmd.AddCommand(fileSelectCmd)
	fileCmd.AddCommand(fileShowCmd)
}

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a Figma access token",
	Long: `Save a Figma personal access token.

Generate a token at: https://www.figma.com/developers/api#access-tokens
  Required scopes:
    - File content (read)
    - Comments (read)

The token is stored in ~/.fignotes/config.json. It can also be supplied
per shell via the FIGMA_TOKEN environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Figma Personal Access Token を入力してください")
		fmt.Println("(必要なスコープ: file content read, comments read)")
		fmt.Println()
		fmt.Print("Token: ")

		reader := bufio.NewReader(os.Stdin)
		token, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(token)

		if token == "" {
			return fmt.Errorf("token cannot be empty")
		}

		cfg.FigmaToken = token
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Println("✓ Token saved successfully")
		fmt.Println()
		fmt.Println("Next step: fignotes file select <file-key-or-url>")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.FigmaToken == "" {
			fmt.Println("✗ Not logged in")
			fmt.Println()
			fmt.Println("Run: fignotes auth login")
			return nil
		}

		// トークンの一部を表示
		token := cfg.FigmaToken
		masked := token
		if len(token) > 8 {
			masked = token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
		}
		fmt.Printf("✓ Logged in (token: %s)\n", masked)

		if cfg.FileKey != "" {
			name := cfg.FileName
			if name == "" {
				name = cfg.FileKey
			}
			fmt.Printf("  File: %s (%s)\n", name, cfg.FileKey)
		}
		if cfg.UserHandle != "" {
			fmt.Printf("  User: @%s\n", cfg.UserHandle)
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved Figma token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.FigmaToken = ""
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Println("✓ Logged out successfully")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// Send sends a macOS notification using osascript
func Send(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "Glass"`, message, title)
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// SendSyncComplete sends a notification after a successful sync
func SendSyncComplete(unresolved int, readiness string) error {
	title := "✅ fignotes: Sync Complete"
	message := fmt.Sprintf("%d unresolved / %s", unresolved, readiness)
	return Send(title, message)
}

// SendHighRisk sends a notification when the file turns High Risk
func SendHighRisk(summary string) error {
	title := "🚨 fignotes: High Risk"
	return Send(title, truncate(summary, 80))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

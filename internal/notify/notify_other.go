//go:build !darwin

package notify

// Send is a no-op on non-darwin platforms
func Send(title, message string) error {
	return nil
}

// SendSyncComplete is a no-op on non-darwin platforms
func SendSyncComplete(unresolved int, readiness string) error {
	return nil
}

// SendHighRisk is a no-op on non-darwin platforms
func SendHighRisk(summary string) error {
	return nil
}

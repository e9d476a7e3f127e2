// Package platform labels the operating-system family a suggestion targets.
// Suggestions are only comparable across identical platforms, so the label is
// stamped onto every record.
package platform

import "runtime"

// Family returns the platform label for the current process.
func Family() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS"
	default:
		return runtime.GOOS
	}
}

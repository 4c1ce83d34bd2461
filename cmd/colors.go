package cmd

import (
	"github.com/fatih/color"

	"github.com/khanhnv2901/cybertools/internal/domain/integrity"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

const (
	verdictStrong = "strong"
	verdictWeak   = "weak"
)

// formatIntegrityStatus colours a controller outcome status.
func formatIntegrityStatus(status integrity.Status) string {
	switch status {
	case integrity.StatusIntact, integrity.StatusRecorded:
		return colorSuccess(string(status))
	case integrity.StatusCompromised:
		return colorError(string(status))
	case integrity.StatusListed:
		return colorInfo(string(status))
	default:
		return string(status)
	}
}

// formatVerdict colours password verdicts and port states.
func formatVerdict(verdict string) string {
	switch verdict {
	case verdictStrong, "open":
		return colorSuccess(verdict)
	case verdictWeak:
		return colorError(verdict)
	default:
		return verdict
	}
}

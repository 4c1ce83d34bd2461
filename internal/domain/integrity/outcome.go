package integrity

import (
	"fmt"
	"strings"

	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

// Mode selects what a controller run does with the current digest.
type Mode string

const (
	ModeRecord  Mode = "record"
	ModeVerify  Mode = "verify"
	ModeHistory Mode = "history"
)

// ParseMode maps CLI mode names onto a Mode. "calculate" is the CLI name for record.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "calculate", "record":
		return ModeRecord, nil
	case "verify":
		return ModeVerify, nil
	case "history":
		return ModeHistory, nil
	}
	return "", fmt.Errorf("%w: %q (expected calculate, verify or history)", sharedErrors.ErrInvalidMode, value)
}

// Status is the terminal result of a controller run.
type Status string

const (
	StatusRecorded    Status = "recorded"
	StatusIntact      Status = "intact"
	StatusCompromised Status = "compromised"
	StatusListed      Status = "listed"
)

// Outcome reports what a controller run observed. Verify outcomes always carry
// both digests so mismatches can be inspected by the operator.
type Outcome struct {
	Mode            Mode
	Path            string
	LedgerPath      string
	Algorithm       string
	CurrentDigest   string
	ReferenceDigest string
	Status          Status
	History         []*Record
}

// Intact reports whether a verify run found matching digests.
func (o *Outcome) Intact() bool {
	return o.Status == StatusIntact
}

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

func TestReportOperationError(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	tests := []struct {
		name     string
		err      error
		handled  bool
		contains string
	}{
		{"ledger missing", fmt.Errorf("%w: x", sharedErrors.ErrLedgerMissing), true, "--mode calculate"},
		{"no reference", fmt.Errorf("%w: a.txt", sharedErrors.ErrReferenceNotFound), true, "[!] Warning:"},
		{"file missing", fmt.Errorf("%w: a.txt", sharedErrors.ErrFileNotFound), true, "[-] Error:"},
		{"unresolvable", fmt.Errorf("%w: host", sharedErrors.ErrHostUnresolvable), true, "could not be resolved"},
		{"unreachable", fmt.Errorf("%w: host", sharedErrors.ErrHostUnreachable), true, "not responding"},
		{"other", errors.New("disk full"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := reportOperationError(&buf, tt.err); got != tt.handled {
				t.Fatalf("reportOperationError() = %v, want %v", got, tt.handled)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.contains)
			}
			if !tt.handled && buf.Len() != 0 {
				t.Errorf("unhandled errors must not print, got %q", buf.String())
			}
		})
	}
}

package cmd

import (
	"errors"
	"fmt"
	"io"

	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

// reportOperationError prints the expected operational failures of a single
// invocation and reports whether err was one of them. Anything else is left
// for cobra to surface.
func reportOperationError(out io.Writer, err error) bool {
	switch {
	case errors.Is(err, sharedErrors.ErrLedgerMissing):
		fmt.Fprintf(out, "%s %v\n", colorError("[-] Error:"), err)
		fmt.Fprintln(out, "    Record a reference first with --mode calculate.")
	case errors.Is(err, sharedErrors.ErrReferenceNotFound):
		fmt.Fprintf(out, "%s %v\n", colorWarn("[!] Warning:"), err)
	case errors.Is(err, sharedErrors.ErrFileNotFound),
		errors.Is(err, sharedErrors.ErrDigestFailed),
		errors.Is(err, sharedErrors.ErrHostUnresolvable),
		errors.Is(err, sharedErrors.ErrHostUnreachable):
		fmt.Fprintf(out, "%s %v\n", colorError("[-] Error:"), err)
	default:
		return false
	}
	return true
}

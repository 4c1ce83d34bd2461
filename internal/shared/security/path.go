package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanhnv2901/cybertools/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

var (
	// ErrPathEscape indicates the resolved path would escape the trusted root directory.
	ErrPathEscape = errors.New("path escapes base directory")
)

// ResolveWithin joins the provided path elements under the given base directory and ensures
// the resulting path never traverses outside of that base. The returned path is absolute.
func ResolveWithin(base string, elems ...string) (string, error) {
	if base == "" {
		return "", errors.New("base directory is required")
	}

	cleanBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}

	joined := filepath.Join(append([]string{cleanBase}, elems...)...)
	target, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("resolve target path: %w", err)
	}

	rel, err := filepath.Rel(cleanBase, target)
	if err != nil {
		return "", fmt.Errorf("relativize path: %w", err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, target)
	}

	return target, nil
}

// ResolveLedgerPath returns the absolute location of the integrity ledger.
// Absolute names are taken as configured; relative names must stay inside workDir.
func ResolveLedgerPath(workDir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("ledger file name is required")
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	return ResolveWithin(workDir, name)
}

// ValidateRecordPath rejects target paths that would break the one-line-per-record
// ledger format. The path itself is stored as supplied, never canonicalized.
func ValidateRecordPath(path string) error {
	if path == "" {
		return sharedErrors.ErrEmptyPath
	}
	if strings.ContainsAny(path, "\r\n") {
		return fmt.Errorf("%w: %q contains a line break", sharedErrors.ErrInvalidRecordPath, path)
	}
	if strings.Contains(path, constants.LedgerDelimiter) {
		return fmt.Errorf("%w: %q contains the ledger delimiter %q", sharedErrors.ErrInvalidRecordPath, path, constants.LedgerDelimiter)
	}
	// "x |" followed by the delimiter reads back as path "x".
	if strings.HasSuffix(path, strings.TrimRight(constants.LedgerDelimiter, " ")) {
		return fmt.Errorf("%w: %q ends with part of the ledger delimiter", sharedErrors.ErrInvalidRecordPath, path)
	}
	return nil
}

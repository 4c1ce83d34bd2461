package errors

import "errors"

// Domain errors
var (
	// Integrity errors
	ErrFileNotFound         = errors.New("file not found")
	ErrDigestFailed         = errors.New("could not compute digest")
	ErrLedgerMissing        = errors.New("integrity ledger not found - run record first")
	ErrReferenceNotFound    = errors.New("no reference found for this path")
	ErrInvalidRecordPath    = errors.New("path cannot be stored in the ledger")
	ErrInvalidHashAlgorithm = errors.New("unsupported hash algorithm")
	ErrInvalidMode          = errors.New("invalid integrity mode")
	ErrEmptyPath            = errors.New("file path cannot be empty")

	// Scanner errors
	ErrHostUnresolvable = errors.New("hostname could not be resolved")
	ErrHostUnreachable  = errors.New("host is not responding")
	ErrInvalidPortRange = errors.New("invalid port range")
	ErrEmptyHost        = errors.New("host cannot be empty")
)

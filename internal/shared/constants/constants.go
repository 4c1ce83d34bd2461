package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultLedgerFile is the integrity ledger written to the working directory.
	DefaultLedgerFile = "integrity_hashes.txt"
	// LedgerDelimiter separates the path, timestamp and digest fields of a ledger line.
	LedgerDelimiter = " | "
	// LedgerTimestampLayout renders record timestamps with second precision.
	LedgerTimestampLayout = "2006-01-02 15:04:05"
	// DigestChunkSize is the read buffer used while hashing files.
	DigestChunkSize = 4096
)

const (
	// DefaultScanTimeout bounds each TCP connect attempt.
	DefaultScanTimeout = 1 * time.Second
	// DefaultPasswordMinLength is the shortest password considered strong.
	DefaultPasswordMinLength = 8
	// DefaultPasswordSymbols is the punctuation set that satisfies the symbol rule.
	DefaultPasswordSymbols = `!@#$%^&*(),.?":{}|<>`
)

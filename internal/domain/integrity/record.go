package integrity

import (
	"errors"
	"regexp"
	"time"

	"github.com/khanhnv2901/cybertools/internal/shared/security"
)

var hexDigestPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// Record is a single ledger entry binding a path to the digest captured at Timestamp.
// Records are never mutated once appended; a later record for the same path supersedes it.
type Record struct {
	Path      string
	Timestamp time.Time
	Digest    string
}

// NewRecord creates a record with a second-precision timestamp.
func NewRecord(path string, timestamp time.Time, digest string) (*Record, error) {
	if err := security.ValidateRecordPath(path); err != nil {
		return nil, err
	}
	if err := ValidateDigest(digest); err != nil {
		return nil, err
	}

	return &Record{
		Path:      path,
		Timestamp: timestamp.Truncate(time.Second),
		Digest:    digest,
	}, nil
}

// ValidateDigest accepts lowercase hex only.
func ValidateDigest(digest string) error {
	if digest == "" {
		return errors.New("digest cannot be empty")
	}
	if len(digest)%2 != 0 || !hexDigestPattern.MatchString(digest) {
		return errors.New("digest must be lowercase hexadecimal")
	}
	return nil
}

// MatchMode controls how a queried path is compared with recorded paths.
type MatchMode int

const (
	// MatchSubstring selects any ledger line containing the query. This is the
	// historical lookup behaviour: "a.txt" also matches a stored "data.txt".
	MatchSubstring MatchMode = iota
	// MatchExact selects only records whose path equals the query.
	MatchExact
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	default:
		return "substring"
	}
}

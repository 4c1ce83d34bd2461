package ledger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/cybertools/internal/domain/integrity"
	"github.com/khanhnv2901/cybertools/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
	"github.com/khanhnv2901/cybertools/internal/shared/security"
)

// maxLineBytes bounds a single ledger line. Longer lines cannot be records
// and are skipped without failing the lookup.
const maxLineBytes = 1 << 20

// Repository implements the integrity.Repository interface on a flat text ledger.
// Each line is "path | YYYY-MM-DD HH:MM:SS | digest". Lines are only ever appended.
//
// The mutex serializes callers inside one process. Concurrent processes writing the
// same ledger are not coordinated.
type Repository struct {
	path string
	mu   sync.RWMutex
}

// NewRepository creates a ledger repository backed by the file at path.
// The file itself is created lazily by the first Append.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path cannot be empty")
	}
	return &Repository{path: path}, nil
}

// Location returns the ledger file path.
func (r *Repository) Location() string {
	return r.path
}

// Exists reports whether the ledger file has been created.
func (r *Repository) Exists() bool {
	info, err := os.Stat(r.path)
	return err == nil && !info.IsDir()
}

// Append writes record as a new line at the end of the ledger.
func (r *Repository) Append(ctx context.Context, record *integrity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil {
		return errors.New("record cannot be nil")
	}

	line, err := FormatLine(record)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}

	return nil
}

// FindLatest returns the digest from the last ledger line whose path matches.
func (r *Repository) FindLatest(ctx context.Context, path string, match integrity.MatchMode) (string, error) {
	var latest string
	found := false

	err := r.scan(ctx, func(fields []string) {
		if matchesPath(fields[0], path, match) {
			latest = fields[2]
			found = true
		}
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s", sharedErrors.ErrReferenceNotFound, path)
	}

	return latest, nil
}

// History returns every matching record in the order it was appended.
// Lines with an unparsable timestamp are still reported, with a zero Timestamp.
func (r *Repository) History(ctx context.Context, path string, match integrity.MatchMode) ([]*integrity.Record, error) {
	records := make([]*integrity.Record, 0)

	err := r.scan(ctx, func(fields []string) {
		if !matchesPath(fields[0], path, match) {
			return
		}
		ts, _ := time.ParseInLocation(constants.LedgerTimestampLayout, fields[1], time.Local)
		records = append(records, &integrity.Record{
			Path:      fields[0],
			Timestamp: ts,
			Digest:    fields[2],
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// scan calls fn with the fields of every valid ledger line, start to end.
func (r *Repository) scan(ctx context.Context, fn func(fields []string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", sharedErrors.ErrLedgerMissing, r.path)
		}
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, tooLong, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read ledger: %w", err)
		}
		if tooLong {
			continue
		}
		if fields, ok := ParseLine(line); ok {
			fn(fields)
		}
	}
}

// readLine returns the next line without its terminator. Lines over maxLineBytes
// are consumed and reported as tooLong with no content.
func readLine(reader *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, readErr := reader.ReadLine()
		if readErr != nil {
			return "", false, readErr
		}
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > maxLineBytes {
				tooLong = true
				buf = nil
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// FormatLine renders record as a newline-terminated ledger line.
func FormatLine(record *integrity.Record) (string, error) {
	if err := integrity.ValidateDigest(record.Digest); err != nil {
		return "", err
	}
	if err := security.ValidateRecordPath(record.Path); err != nil {
		return "", err
	}

	return strings.Join([]string{
		record.Path,
		record.Timestamp.Format(constants.LedgerTimestampLayout),
		record.Digest,
	}, constants.LedgerDelimiter) + "\n", nil
}

// ParseLine splits a ledger line on the delimiter. A line is a record only when
// it yields at least three fields. The path field keeps its surrounding
// whitespace since it is stored exactly as supplied.
func ParseLine(line string) ([]string, bool) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), constants.LedgerDelimiter)
	if len(fields) < 3 {
		return nil, false
	}
	fields[1] = strings.TrimSpace(fields[1])
	fields[2] = strings.TrimSpace(fields[2])
	return fields, true
}

func matchesPath(recorded, query string, match integrity.MatchMode) bool {
	if match == integrity.MatchExact {
		return recorded == query
	}
	return strings.Contains(recorded, query)
}

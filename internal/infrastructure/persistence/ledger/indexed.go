package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/khanhnv2901/cybertools/internal/domain/integrity"
	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

// IndexedRepository keeps a path -> latest digest map next to the ledger file so
// exact lookups avoid rescanning. The file stays the source of truth: the index
// is rebuilt from it on construction and only updated after a successful Append.
// Substring lookups and History still scan the file.
type IndexedRepository struct {
	*Repository

	mu     sync.RWMutex
	latest map[string]string
}

// NewIndexedRepository loads the ledger at path into memory.
func NewIndexedRepository(ctx context.Context, path string) (*IndexedRepository, error) {
	base, err := NewRepository(path)
	if err != nil {
		return nil, err
	}

	idx := &IndexedRepository{
		Repository: base,
		latest:     make(map[string]string),
	}

	err = base.scan(ctx, func(fields []string) {
		idx.latest[fields[0]] = fields[2]
	})
	if err != nil && !errors.Is(err, sharedErrors.ErrLedgerMissing) {
		return nil, fmt.Errorf("failed to build ledger index: %w", err)
	}

	return idx, nil
}

// Append writes the record and then indexes it.
func (r *IndexedRepository) Append(ctx context.Context, record *integrity.Record) error {
	if err := r.Repository.Append(ctx, record); err != nil {
		return err
	}

	r.mu.Lock()
	r.latest[record.Path] = record.Digest
	r.mu.Unlock()
	return nil
}

// FindLatest answers exact lookups from the index.
func (r *IndexedRepository) FindLatest(ctx context.Context, path string, match integrity.MatchMode) (string, error) {
	if match != integrity.MatchExact {
		return r.Repository.FindLatest(ctx, path, match)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !r.Exists() {
		return "", fmt.Errorf("%w: %s", sharedErrors.ErrLedgerMissing, r.Location())
	}

	r.mu.RLock()
	digest, ok := r.latest[path]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", sharedErrors.ErrReferenceNotFound, path)
	}
	return digest, nil
}

// Len returns the number of distinct paths in the index.
func (r *IndexedRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.latest)
}

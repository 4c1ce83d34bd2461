package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/cybertools/internal/domain/integrity"
	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

// Digester computes the content digest of a file
type Digester interface {
	Digest(path string) (string, error)
}

// Options tune a single controller run
type Options struct {
	Match integrity.MatchMode
}

// Service records and verifies file digests against the integrity ledger
type Service struct {
	repo      integrity.Repository
	digester  Digester
	algorithm string
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for new records
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithAlgorithm labels outcomes with the digest algorithm in use
func WithAlgorithm(name string) Option {
	return func(s *Service) {
		s.algorithm = name
	}
}

// NewService creates a new integrity service
func NewService(repo integrity.Repository, digester Digester, logger *zap.SugaredLogger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Service{
		repo:      repo,
		digester:  digester,
		algorithm: "sha256",
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run digests path and then records, verifies or lists it depending on mode.
// A digest failure aborts before the ledger is touched.
func (s *Service) Run(ctx context.Context, path string, mode integrity.Mode, opts Options) (*integrity.Outcome, error) {
	if path == "" {
		return nil, sharedErrors.ErrEmptyPath
	}

	switch mode {
	case integrity.ModeRecord, integrity.ModeVerify, integrity.ModeHistory:
	default:
		return nil, fmt.Errorf("%w: %q", sharedErrors.ErrInvalidMode, mode)
	}

	current, err := s.digester.Digest(path)
	if err != nil {
		s.logger.Warnw("digest failed", "path", path, "error", err)
		return nil, err
	}

	outcome := &integrity.Outcome{
		Mode:          mode,
		Path:          path,
		LedgerPath:    s.repo.Location(),
		Algorithm:     s.algorithm,
		CurrentDigest: current,
	}

	switch mode {
	case integrity.ModeRecord:
		return s.record(ctx, outcome)
	case integrity.ModeVerify:
		return s.verify(ctx, outcome, opts)
	default:
		return s.history(ctx, outcome, opts)
	}
}

// Record captures a new reference digest for path
func (s *Service) Record(ctx context.Context, path string) (*integrity.Outcome, error) {
	return s.Run(ctx, path, integrity.ModeRecord, Options{})
}

// Verify compares path against its most recent reference digest
func (s *Service) Verify(ctx context.Context, path string, opts Options) (*integrity.Outcome, error) {
	return s.Run(ctx, path, integrity.ModeVerify, opts)
}

func (s *Service) record(ctx context.Context, outcome *integrity.Outcome) (*integrity.Outcome, error) {
	rec, err := integrity.NewRecord(outcome.Path, s.now(), outcome.CurrentDigest)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record digest: %w", err)
	}

	outcome.Status = integrity.StatusRecorded
	s.logger.Infow("digest recorded", "path", rec.Path, "ledger", outcome.LedgerPath, "digest", rec.Digest)
	return outcome, nil
}

func (s *Service) verify(ctx context.Context, outcome *integrity.Outcome, opts Options) (*integrity.Outcome, error) {
	if !s.repo.Exists() {
		return nil, fmt.Errorf("%w: %s", sharedErrors.ErrLedgerMissing, outcome.LedgerPath)
	}

	reference, err := s.repo.FindLatest(ctx, outcome.Path, opts.Match)
	if err != nil {
		if errors.Is(err, sharedErrors.ErrReferenceNotFound) {
			s.logger.Warnw("no reference digest", "path", outcome.Path, "match", opts.Match.String())
		}
		return nil, err
	}

	outcome.ReferenceDigest = reference
	if outcome.CurrentDigest == reference {
		outcome.Status = integrity.StatusIntact
		s.logger.Infow("integrity intact", "path", outcome.Path, "match", opts.Match.String())
	} else {
		outcome.Status = integrity.StatusCompromised
		s.logger.Warnw("integrity compromised",
			"path", outcome.Path,
			"reference", reference,
			"current", outcome.CurrentDigest,
		)
	}

	return outcome, nil
}

func (s *Service) history(ctx context.Context, outcome *integrity.Outcome, opts Options) (*integrity.Outcome, error) {
	records, err := s.repo.History(ctx, outcome.Path, opts.Match)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", sharedErrors.ErrReferenceNotFound, outcome.Path)
	}

	outcome.History = records
	outcome.ReferenceDigest = records[len(records)-1].Digest
	outcome.Status = integrity.StatusListed
	return outcome, nil
}

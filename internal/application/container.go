package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	integrityapp "github.com/khanhnv2901/cybertools/internal/application/integrity"
	"github.com/khanhnv2901/cybertools/internal/checker"
	"github.com/khanhnv2901/cybertools/internal/domain/integrity"
	"github.com/khanhnv2901/cybertools/internal/infrastructure/digest"
	"github.com/khanhnv2901/cybertools/internal/infrastructure/persistence/ledger"
)

// Config carries the resolved settings the services are built from
type Config struct {
	LedgerPath    string
	HashAlgorithm string
	IndexLedger   bool
	ScanTimeout   time.Duration
	ScanRateLimit int
}

// Container holds all application services and repositories
// This is a simple dependency injection container
type Container struct {
	// Repositories
	IntegrityRepo integrity.Repository

	// Services
	Digester         *digest.Digester
	IntegrityService *integrityapp.Service
	PortScanner      *checker.PortScanner
}

// NewContainer creates a new application service container
func NewContainer(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	algorithm, err := digest.ParseAlgorithm(cfg.HashAlgorithm)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	var repo integrity.Repository
	if cfg.IndexLedger {
		repo, err = ledger.NewIndexedRepository(ctx, cfg.LedgerPath)
	} else {
		repo, err = ledger.NewRepository(cfg.LedgerPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create integrity repository: %w", err)
	}

	// Initialize services
	digester := digest.NewDigester(algorithm)
	integrityService := integrityapp.NewService(repo, digester, logger.Named("integrity"),
		integrityapp.WithAlgorithm(algorithm.String()),
	)

	scanner := checker.NewPortScanner()
	if cfg.ScanTimeout > 0 {
		scanner.Timeout = cfg.ScanTimeout
	}
	scanner.RateLimit = cfg.ScanRateLimit

	return &Container{
		IntegrityRepo:    repo,
		Digester:         digester,
		IntegrityService: integrityService,
		PortScanner:      scanner,
	}, nil
}

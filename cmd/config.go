package cmd

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/cybertools/internal/application"
	"github.com/khanhnv2901/cybertools/internal/checker"
	"github.com/khanhnv2901/cybertools/internal/infrastructure/digest"
	"github.com/khanhnv2901/cybertools/internal/shared/constants"
	"github.com/khanhnv2901/cybertools/internal/shared/security"
)

const (
	defaultLogLevel          = "warn"
	defaultScanTimeoutMillis = 1000
)

// CLIConfig captures runtime configuration shared across commands.
// It is resolved once per invocation and handed to each operation.
type CLIConfig struct {
	LogLevel  string
	Integrity IntegrityConfig
	Password  checker.PasswordPolicy
	Scan      ScanConfig
}

// IntegrityConfig controls where and how file digests are recorded.
type IntegrityConfig struct {
	LedgerFile    string
	HashAlgorithm string
	Index         bool
}

// ScanConfig captures port scanner runtime options.
type ScanConfig struct {
	TimeoutMillis int
	RateLimit     int
}

// envOverrides are read from the process environment and beat the config file.
type envOverrides struct {
	LogLevel          string `env:"CYBERTOOLS_LOG_LEVEL"`
	LedgerFile        string `env:"CYBERTOOLS_LEDGER_FILE"`
	HashAlgorithm     string `env:"CYBERTOOLS_HASH_ALGORITHM"`
	IndexLedger       *bool  `env:"CYBERTOOLS_INDEX_LEDGER"`
	PasswordMinLength *int   `env:"CYBERTOOLS_PASSWORD_MIN_LENGTH"`
	ScanTimeoutMillis *int   `env:"CYBERTOOLS_SCAN_TIMEOUT_MS"`
	ScanRateLimit     *int   `env:"CYBERTOOLS_SCAN_RATE_LIMIT"`
}

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		LogLevel: defaultLogLevel,
		Integrity: IntegrityConfig{
			LedgerFile:    constants.DefaultLedgerFile,
			HashAlgorithm: digest.AlgorithmSHA256.String(),
		},
		Password: checker.DefaultPasswordPolicy(),
		Scan: ScanConfig{
			TimeoutMillis: defaultScanTimeoutMillis,
		},
	}
}

// loadCLIConfig layers defaults, the config file, the environment and finally
// explicitly set flags.
func loadCLIConfig(v *viper.Viper, flags *pflag.FlagSet) (*CLIConfig, error) {
	cfg := newCLIConfig()
	if err := applyFileConfig(v, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if flags != nil {
		if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
			cfg.LogLevel = flag.Value.String()
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFileConfig(v *viper.Viper, cfg *CLIConfig) error {
	if v == nil {
		return nil
	}

	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("integrity.ledger_file") {
		cfg.Integrity.LedgerFile = v.GetString("integrity.ledger_file")
	}
	if v.IsSet("integrity.hash_algorithm") {
		cfg.Integrity.HashAlgorithm = v.GetString("integrity.hash_algorithm")
	}
	if v.IsSet("integrity.index") {
		cfg.Integrity.Index = v.GetBool("integrity.index")
	}
	if v.IsSet("password") {
		policy := cfg.Password
		if err := v.UnmarshalKey("password", &policy); err != nil {
			return fmt.Errorf("invalid password policy in config file: %w", err)
		}
		cfg.Password = policy
	}
	if v.IsSet("scan.timeout_ms") {
		cfg.Scan.TimeoutMillis = v.GetInt("scan.timeout_ms")
	}
	if v.IsSet("scan.rate_limit") {
		cfg.Scan.RateLimit = v.GetInt("scan.rate_limit")
	}
	return nil
}

func applyEnvOverrides(cfg *CLIConfig) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.LedgerFile != "" {
		cfg.Integrity.LedgerFile = overrides.LedgerFile
	}
	if overrides.HashAlgorithm != "" {
		cfg.Integrity.HashAlgorithm = overrides.HashAlgorithm
	}
	if overrides.IndexLedger != nil {
		cfg.Integrity.Index = *overrides.IndexLedger
	}
	if overrides.PasswordMinLength != nil {
		cfg.Password.MinLength = *overrides.PasswordMinLength
	}
	if overrides.ScanTimeoutMillis != nil {
		cfg.Scan.TimeoutMillis = *overrides.ScanTimeoutMillis
	}
	if overrides.ScanRateLimit != nil {
		cfg.Scan.RateLimit = *overrides.ScanRateLimit
	}
	return nil
}

func (c *CLIConfig) validate() error {
	if _, err := digest.ParseAlgorithm(c.Integrity.HashAlgorithm); err != nil {
		return err
	}
	if c.Password.MinLength < 1 {
		return fmt.Errorf("password min_length must be positive, got %d", c.Password.MinLength)
	}
	if c.Scan.TimeoutMillis <= 0 {
		return fmt.Errorf("scan timeout_ms must be positive, got %d", c.Scan.TimeoutMillis)
	}
	if c.Scan.RateLimit < 0 {
		return fmt.Errorf("scan rate_limit cannot be negative, got %d", c.Scan.RateLimit)
	}
	return nil
}

// containerConfig resolves file locations relative to workDir for the service container.
func (c *CLIConfig) containerConfig(workDir string) (application.Config, error) {
	ledgerPath, err := security.ResolveLedgerPath(workDir, c.Integrity.LedgerFile)
	if err != nil {
		return application.Config{}, fmt.Errorf("invalid ledger location: %w", err)
	}

	return application.Config{
		LedgerPath:    ledgerPath,
		HashAlgorithm: c.Integrity.HashAlgorithm,
		IndexLedger:   c.Integrity.Index,
		ScanTimeout:   time.Duration(c.Scan.TimeoutMillis) * time.Millisecond,
		ScanRateLimit: c.Scan.RateLimit,
	}, nil
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/khanhnv2901/cybertools/internal/application"
)

var cfgFile string
var logLevel string

// AppContext bundles everything a subcommand needs for one invocation.
type AppContext struct {
	Logger   *zap.SugaredLogger
	Config   *CLIConfig
	WorkDir  string
	Services *application.Container
}

var globalAppContext *AppContext

var rootCmd = &cobra.Command{
	Use:           "cybertools",
	Short:         "Essential security utilities: password strength, port scanning, file integrity",
	Long:          "cybertools bundles small security utilities. Use -h on each subcommand for details.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := newAppContext(cmd)
		if err != nil {
			return err
		}
		globalAppContext = appCtx
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func newAppContext(cmd *cobra.Command) (*AppContext, error) {
	// init config
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath("$HOME")
		v.SetConfigName(".cybertools")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		// only an explicitly requested config file must exist
		if cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := loadCLIConfig(v, cmd.Flags())
	if err != nil {
		return nil, err
	}

	// init logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not determine working directory: %w", err)
	}

	containerCfg, err := cfg.containerConfig(workDir)
	if err != nil {
		return nil, err
	}

	services, err := application.NewContainer(cmd.Context(), containerCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Debugw("configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"ledger", containerCfg.LedgerPath,
		"hash_algorithm", containerCfg.HashAlgorithm,
	)

	return &AppContext{
		Logger:   logger,
		Config:   cfg,
		WorkDir:  workDir,
		Services: services,
	}, nil
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = atomicLevel
	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.Sugar(), nil
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if globalAppContext == nil {
		panic(fmt.Sprintf("application context not initialized for %s", cmd.CommandPath()))
	}
	return globalAppContext
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cybertools.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	// add subcommands
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(integrityCmd)
	rootCmd.AddCommand(versionCmd)
}

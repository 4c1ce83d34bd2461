package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// setupTestEnv isolates config discovery and the ledger location for one test.
func setupTestEnv(t *testing.T) (dir string, ledgerPath string) {
	t.Helper()

	dir = t.TempDir()
	ledgerPath = filepath.Join(dir, "integrity_hashes.txt")

	t.Setenv("HOME", dir)
	t.Setenv("CYBERTOOLS_LEDGER_FILE", ledgerPath)
	t.Setenv("CYBERTOOLS_LOG_LEVEL", "error")

	originalNoColor := color.NoColor
	color.NoColor = true
	originalCtx := globalAppContext

	t.Cleanup(func() {
		color.NoColor = originalNoColor
		globalAppContext = originalCtx
		cfgFile = ""
		resetFlags(rootCmd)
		rootCmd.SetIn(nil)
	})

	return dir, ledgerPath
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns everything written to stdout.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(stdin)
	if stdin == nil {
		rootCmd.SetIn(strings.NewReader(""))
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

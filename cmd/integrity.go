package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	integrityapp "github.com/khanhnv2901/cybertools/internal/application/integrity"
	"github.com/khanhnv2901/cybertools/internal/domain/integrity"
	"github.com/khanhnv2901/cybertools/internal/shared/constants"
)

var (
	integrityFile  string
	integrityMode  string
	integrityExact bool
)

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Record and verify file digests",
	Long: `Record a file's digest in the integrity ledger, or verify the file against the
most recent digest recorded for it.

Modes:
  calculate  digest the file and append it to the ledger
  verify     compare the file with its latest ledger entry
  history    list every ledger entry for the file

Without --exact a ledger entry matches when its path contains the given path.`,
	Example: `  cybertools integrity --file /etc/hosts --mode calculate
  cybertools integrity --file /etc/hosts --mode verify --exact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		out := cmd.OutOrStdout()

		mode, err := integrity.ParseMode(integrityMode)
		if err != nil {
			return err
		}

		opts := integrityapp.Options{Match: integrity.MatchSubstring}
		if integrityExact {
			opts.Match = integrity.MatchExact
		}

		outcome, err := appCtx.Services.IntegrityService.Run(cmd.Context(), integrityFile, mode, opts)
		if err != nil {
			if reportOperationError(out, err) {
				return nil
			}
			return err
		}

		printIntegrityOutcome(out, outcome)
		return nil
	},
}

func printIntegrityOutcome(out io.Writer, outcome *integrity.Outcome) {
	switch outcome.Status {
	case integrity.StatusRecorded:
		fmt.Fprintf(out, "%s %s digest for '%s' saved to %s.\n", colorSuccess("[+]"), outcome.Algorithm, outcome.Path, outcome.LedgerPath)
		fmt.Fprintf(out, "    Hash: %s\n", outcome.CurrentDigest)

	case integrity.StatusIntact, integrity.StatusCompromised:
		fmt.Fprintf(out, "%s Reference hash: %s\n", colorInfo("[*]"), outcome.ReferenceDigest)
		fmt.Fprintf(out, "%s Current hash:   %s\n", colorInfo("[*]"), outcome.CurrentDigest)
		if outcome.Intact() {
			fmt.Fprintf(out, "\n%s Integrity %s. The file has NOT been modified.\n", colorSuccess("[+]"), formatIntegrityStatus(outcome.Status))
		} else {
			fmt.Fprintf(out, "\n%s WARNING! Integrity %s. The file MAY have been modified.\n", colorError("[!]"), formatIntegrityStatus(outcome.Status))
		}

	case integrity.StatusListed:
		fmt.Fprintf(out, "%s %d record(s) for '%s' in %s:\n", colorInfo("[*]"), len(outcome.History), outcome.Path, outcome.LedgerPath)
		for _, rec := range outcome.History {
			fmt.Fprintf(out, "    %s  %s  %s\n", rec.Timestamp.Format(constants.LedgerTimestampLayout), rec.Digest, rec.Path)
		}
		status := integrity.StatusCompromised
		if outcome.ReferenceDigest == outcome.CurrentDigest {
			status = integrity.StatusIntact
		}
		fmt.Fprintf(out, "%s Current hash:   %s (%s against latest)\n", colorInfo("[*]"), outcome.CurrentDigest, formatIntegrityStatus(status))
	}
}

func init() {
	integrityCmd.Flags().StringVar(&integrityFile, "file", "", "path of the file to process")
	integrityCmd.Flags().StringVar(&integrityMode, "mode", "", "operation mode: calculate, verify or history")
	integrityCmd.Flags().BoolVar(&integrityExact, "exact", false, "match ledger entries by exact path instead of substring")
	_ = integrityCmd.MarkFlagRequired("file")
	_ = integrityCmd.MarkFlagRequired("mode")
}

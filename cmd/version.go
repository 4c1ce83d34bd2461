package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/khanhnv2901/cybertools/cmd.Version=..." on release builds.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionVerbose bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		printVersion(cmd.OutOrStdout(), versionVerbose)
		return nil
	},
}

// resolveVersion falls back to the module version recorded by `go install`
// when no release version was linked in.
func resolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func printVersion(out io.Writer, verbose bool) {
	if !verbose {
		fmt.Fprintf(out, "cybertools version %s\n", resolveVersion())
		return
	}

	fmt.Fprintln(out, "cybertools build:")
	for _, row := range [][2]string{
		{"Version", resolveVersion()},
		{"Git Commit", GitCommit},
		{"Build Date", BuildDate},
		{"Go Version", runtime.Version()},
		{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
	} {
		fmt.Fprintf(out, "  %-11s %s\n", row[0]+":", row[1])
	}
}

func init() {
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "show build details")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/cybertools/internal/checker"
)

var (
	scanHost      string
	scanStartPort int
	scanEndPort   int
	scanRateLimit int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a host for open TCP ports",
	Long:  "Attempt a TCP connection to each port in the inclusive range, one port at a time. A reversed range is swapped before scanning.",
	Example: `  cybertools scan --host 127.0.0.1 --end 1024
  cybertools scan --host example.com --start 20 --end 80`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		out := cmd.OutOrStdout()

		scanner := *appCtx.Services.PortScanner
		applyIntDefault(cmd.Flags(), "rate", appCtx.Config.Scan.RateLimit, func(v int) {
			scanRateLimit = v
		})
		scanner.RateLimit = scanRateLimit
		scanner.OnOpen = func(p checker.PortInfo) {
			fmt.Fprintf(out, "%s Port %d %s (%s)\n", colorSuccess("[+]"), p.Port, formatVerdict(p.State), p.Service)
		}

		start, end, err := checker.NormalizePortRange(scanStartPort, scanEndPort)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%s Scanning %s from port %d to %d...\n", colorInfo("[*]"), scanHost, start, end)

		result, err := scanner.Scan(cmd.Context(), scanHost, start, end)
		if err != nil {
			if reportOperationError(out, err) {
				appCtx.Logger.Warnw("scan aborted", "host", scanHost, "error", err)
				return nil
			}
			return err
		}

		appCtx.Logger.Infow("scan finished",
			"host", result.Host,
			"address", result.Address,
			"scanned", result.ScannedPorts,
			"open", len(result.OpenPorts),
			"duration", result.Duration,
		)
		fmt.Fprintf(out, "%s Scan complete: %d open of %d scanned.\n", colorInfo("[*]"), len(result.OpenPorts), result.ScannedPorts)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanHost, "host", "", "target hostname or IP (e.g. 127.0.0.1)")
	scanCmd.Flags().IntVar(&scanStartPort, "start", 1, "first port to scan")
	scanCmd.Flags().IntVar(&scanEndPort, "end", 0, "last port to scan")
	scanCmd.Flags().IntVar(&scanRateLimit, "rate", 0, "maximum connection attempts per second (0 = unlimited)")
	_ = scanCmd.MarkFlagRequired("host")
	_ = scanCmd.MarkFlagRequired("end")
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/khanhnv2901/cybertools/internal/checker"
)

// promptPassword reads a password without echo when stdin is a terminal.
// Tests replace it.
var promptPassword = func(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Enter password: ")
	defer fmt.Fprintln(cmd.ErrOrStderr())

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var passwordCmd = &cobra.Command{
	Use:   "password [password]",
	Short: "Rate the strength of a password",
	Long:  "Rate a password against the configured policy. When no password argument is given it is read from a prompt without echo.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)

		var password string
		if len(args) == 1 {
			password = args[0]
		}
		if password == "" {
			var err error
			password, err = promptPassword(cmd)
			if err != nil {
				return err
			}
		}

		result := checker.CheckPassword(password, appCtx.Config.Password)
		appCtx.Logger.Debugw("password scored", "score", result.Score, "max_score", result.MaxScore)

		printPasswordResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func printPasswordResult(out io.Writer, result checker.PasswordResult) {
	if result.Strong {
		fmt.Fprintf(out, "\n%s Result: %s (%d/%d)\n", colorSuccess("[+]"), formatVerdict(verdictStrong), result.Score, result.MaxScore)
		return
	}

	fmt.Fprintf(out, "\n%s Result: %s. Score: %d/%d\n", colorWarn("[!]"), formatVerdict(verdictWeak), result.Score, result.MaxScore)
	fmt.Fprintln(out, "Recommendations:")
	for _, item := range result.Feedback {
		fmt.Fprintf(out, "[-] %s\n", item)
	}
}

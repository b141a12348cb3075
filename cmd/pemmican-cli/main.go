// Command pemmican-cli checks the Raspberry Pi 5's power status and
// prints message-of-the-day warnings if the last reset was caused by a
// brownout, or if the power supply failed to negotiate a 5A supply. It
// is intended to be run from the update-motd(5) mechanism; all output
// goes to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/waveform80/pemmican/internal/inhibit"
	"github.com/waveform80/pemmican/internal/power"
	"github.com/waveform80/pemmican/internal/warn"
)

var (
	// Version information (set by build flags)
	Version = "dev"

	verbose bool
	logger  *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pemmican-cli",
	Short: "Report Raspberry Pi 5 power problems on the console",
	Long: `Checks the Raspberry Pi 5's power status and reports if the last
reset occurred due to a brownout (undervolt) situation, or if the
current power supply failed to negotiate a 5A supply. This command is
intended to be run as part of the update-motd(5) process. To suppress
the warnings it generates, see pemmican-cli(1).`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
	},
	RunE: runCheck,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(suppressCmd)
}

// suppressible maps the user-facing warning names to their inhibit
// marker files.
var suppressible = map[string]string{
	"brownout":    inhibit.Brownout,
	"max_current": inhibit.MaxCurrent,
	"undervolt":   inhibit.Undervolt,
	"overcurrent": inhibit.Overcurrent,
}

var suppressCmd = &cobra.Command{
	Use:   "suppress WARNING",
	Short: "Permanently suppress a power warning",
	Long: `Suppress the named power warning for the current user by recording an
inhibit marker under the XDG configuration directory. Valid warnings
are: brownout, max_current, undervolt, overcurrent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, ok := suppressible[args[0]]
		if !ok {
			return fmt.Errorf("unknown warning %q (valid: brownout, max_current, undervolt, overcurrent)", args[0])
		}
		return inhibit.Suppress(name)
	},
}

func runCheck(cmd *cobra.Command, args []string) error {
	status, err := power.ReadStatus()
	if err != nil {
		// Probably not running on a Pi 5; stay silent.
		logger.WithError(err).Debug("power status unavailable")
		return nil
	}

	warnings := warn.ResetWarnings(status, inhibit.Inhibited)
	if banner := warn.MOTD(warnings); banner != "" {
		fmt.Fprint(cmd.OutOrStdout(), banner)
	}
	return nil
}

// Command copyrights rewrites the copyright headers of every tracked
// file in the enclosing git repository, deriving ownership from line
// level blame attribution.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/waveform80/pemmican/internal/config"
	"github.com/waveform80/pemmican/internal/copyright"
	"github.com/waveform80/pemmican/internal/header"
	"github.com/waveform80/pemmican/internal/updater"
	"github.com/waveform80/pemmican/internal/vcs"
)

var (
	// Version information (set by build flags)
	Version = "dev"

	cfgFile string
	verbose bool
	logger  *logrus.Logger

	flagInclude    []string
	flagExclude    []string
	flagAdditional []string
	flagLicense    string
	flagPreamble   []string
	flagSPDXPrefix string
	flagCopyPrefix string
	flagStrip      bool
	flagNoStrip    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "copyrights",
	Short: "Rewrite copyright headers from git blame attribution",
	Long: `Copyrights rewrites the leading comment block of every tracked file,
replacing any existing header (legacy full license text, SPDX tags,
accumulated copyright lines) with a canonical header derived from the
file's line-level git attribution. Shebang lines, encoding declarations,
and file bodies are preserved, and each file is replaced atomically.

Defaults come from the "copyrights" section of .pemmican.yaml, if
present; flags override per invocation.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
	},
	RunE: runUpdate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .pemmican.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringArrayVar(&flagInclude, "include", nil, "glob pattern of files to process (repeatable; default all)")
	rootCmd.Flags().StringArrayVar(&flagExclude, "exclude", nil, "glob pattern of files to skip (repeatable)")
	rootCmd.Flags().StringArrayVar(&flagAdditional, "additional", nil, `additional owner as "Name <email>" (repeatable)`)
	rootCmd.Flags().StringVar(&flagLicense, "license", "", "path to the license file")
	rootCmd.Flags().StringArrayVar(&flagPreamble, "preamble", nil, "preamble line for generated headers (repeatable)")
	rootCmd.Flags().StringVar(&flagSPDXPrefix, "spdx-prefix", "", "prefix of SPDX identifier lines")
	rootCmd.Flags().StringVar(&flagCopyPrefix, "copy-prefix", "", "prefix of copyright lines")
	rootCmd.Flags().BoolVar(&flagStrip, "strip-preamble", true, "remove stale preamble lines from existing headers")
	rootCmd.Flags().BoolVar(&flagNoStrip, "no-strip-preamble", false, "keep stale preamble lines in existing headers")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	root, err := vcs.FindRoot(ctx)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile, root)
	if err != nil {
		return err
	}
	opts := cfg.Copyrights

	// Flags override the config section.
	if cmd.Flags().Changed("include") {
		opts.Include = flagInclude
	}
	if cmd.Flags().Changed("exclude") {
		opts.Exclude = flagExclude
	}
	if cmd.Flags().Changed("additional") {
		opts.Additional = flagAdditional
	}
	if cmd.Flags().Changed("license") {
		opts.License = flagLicense
	}
	if cmd.Flags().Changed("preamble") {
		opts.Preamble = flagPreamble
	}
	if cmd.Flags().Changed("spdx-prefix") {
		opts.SPDXPrefix = flagSPDXPrefix
	}
	if cmd.Flags().Changed("copy-prefix") {
		opts.CopyPrefix = flagCopyPrefix
	}
	if cmd.Flags().Changed("strip-preamble") {
		opts.StripPreamble = flagStrip
	}
	if flagNoStrip {
		opts.StripPreamble = false
	}

	additional := make([]copyright.Owner, 0, len(opts.Additional))
	for _, s := range opts.Additional {
		owner, err := copyright.ParseOwner(s)
		if err != nil {
			return err
		}
		additional = append(additional, owner)
	}

	licensePath := opts.License
	if !filepath.IsAbs(licensePath) {
		licensePath = filepath.Join(root, licensePath)
	}
	license, err := copyright.LoadLicense(licensePath, opts.SPDXPrefix)
	if err != nil {
		return err
	}

	u := &updater.Updater{
		Root:       root,
		Client:     &vcs.GitClient{Dir: root},
		Include:    opts.Include,
		Exclude:    opts.Exclude,
		Additional: additional,
		Style: header.Style{
			Preamble:      opts.Preamble,
			SPDXPrefix:    opts.SPDXPrefix,
			CopyPrefix:    opts.CopyPrefix,
			StripPreamble: opts.StripPreamble,
			License:       license,
			Comments:      header.DefaultComments(),
		},
		Log: logger,
	}
	return u.Run(ctx)
}

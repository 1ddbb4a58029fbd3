package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version, Commit and BuildDate are set via LDFLAGS at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configFile string
	outputDir  string
)

// NewRootCmd creates the root cobra command. Without a subcommand it runs
// a check of the configured subjects.
func NewRootCmd() *cobra.Command {
	opts := &checkOptions{}

	root := &cobra.Command{
		Use:   "tux [subjects...]",
		Short: "Run code-readiness checks before committing",
		Long: `tux runs the structure, license, dependency, audit, test, formatting,
documentation, outdated and lint checks of each configured language one
after another, shows live progress, and exits non-zero when any of them fail.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default: tux.toml, tux.yml or tux.yaml)")
	root.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for captured output (default: from config, else zuu)")
	bindCheckFlags(root, opts)

	root.AddCommand(
		newCheckCmd(),
		newInitCmd(),
		newListCmd(),
		newLogsCmd(),
		newWatchCmd(),
		newUnlockCmd(),
		newVersionCmd(),
	)

	return root
}

func setupLogging(debug bool) {
	slog.SetDefault(newLogger(os.Stderr, debug))
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "tux",
	}))
}

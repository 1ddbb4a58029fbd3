package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tux/internal/catalog"
	"github.com/ppiankov/tux/internal/config"
	"github.com/ppiankov/tux/internal/reporter"
	"github.com/ppiankov/tux/internal/task"
)

// settings is the config file merged with command-line flags.
type settings struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	subjects  []task.Subject
	style     reporter.Style
	policy    task.Policy
	outputDir string
}

// loadConfig reads the config file. Without --config a missing file falls
// back to the defaults, so subjects named on the command line still run.
func loadConfig() (*config.Config, error) {
	path, err := config.Resolve(".", configFile)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) && configFile == "" {
			slog.Debug("no config file, using defaults")
			return config.Default(), nil
		}
		return nil, err
	}
	slog.Debug("loading config", "path", path)
	return config.Load(path)
}

func loadSettings(cmd *cobra.Command, opts *checkOptions, args []string) (*settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// flags override config only when explicitly set
	if opts != nil {
		if cmd.Flags().Changed("strict") {
			cfg.Strict = opts.strict
		}
		if cmd.Flags().Changed("style") {
			cfg.Style = opts.style
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout = opts.timeout
		}
		if cmd.Flags().Changed("guard") {
			cfg.Guard = opts.guard
		}
		if cmd.Flags().Changed("redact") {
			cfg.Redact = opts.redact
		}
	}

	style, err := reporter.ParseStyle(cfg.Style)
	if err != nil {
		return nil, err
	}

	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	names := args
	if len(names) == 0 {
		names = cfg.SubjectNames()
	}
	subjects, err := cat.Subjects(names)
	if err != nil {
		return nil, err
	}

	return &settings{
		cfg:       cfg,
		catalog:   cat,
		subjects:  subjects,
		style:     style,
		policy:    task.PolicyFor(cfg.Strict),
		outputDir: resolveOutputDir(cmd, cfg),
	}, nil
}

func resolveOutputDir(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("output-dir") && outputDir != "" {
		return outputDir
	}
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return config.DefaultOutputDir
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ppiankov/tux/internal/catalog"
	"github.com/ppiankov/tux/internal/config"
	"github.com/ppiankov/tux/internal/reporter"
	"github.com/ppiankov/tux/internal/wizard"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func newInitCmd() *cobra.Command {
	var (
		languages []string
		strict    bool
		force     bool
		style     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Init writes tux.toml (or the file given with --config; a .yml or .yaml
extension selects YAML). Without --languages it asks interactively which
languages to check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile
			if path == "" {
				path = config.DefaultPath
			}
			out := cmd.OutOrStdout()
			cat := catalog.New()

			cfg := config.Default()
			cfg.Strict = strict
			if cmd.Flags().Changed("style") {
				st, err := reporter.ParseStyle(style)
				if err != nil {
					return err
				}
				cfg.Style = string(st)
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.OutputDir = outputDir
			}

			overwrite := force
			if cmd.Flags().Changed("languages") {
				names, err := canonicalNames(cat, languages)
				if err != nil {
					return err
				}
				cfg.Languages = names
			} else {
				if !stdinIsTerminal() {
					return errors.New("no languages given: pass --languages or run `tux init` in a terminal")
				}
				opts := wizard.Options{Strict: strict}
				if config.Exists(path) && !force {
					opts.Existing = path
				}
				res, err := wizard.Run(cmd.Context(), cmd.InOrStdin(), out, cat.Names(), opts)
				if err != nil {
					return err
				}
				if res.Cancelled {
					fmt.Fprintln(out, "Aborted, nothing written.")
					return nil
				}
				cfg.Languages = res.Languages
				cfg.Strict = res.Strict
				overwrite = true
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Write(path, cfg, overwrite); err != nil {
				if errors.Is(err, config.ErrExists) {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}

			fmt.Fprintf(out, "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&languages, "languages", nil, "languages to check, e.g. Rust,Go")
	cmd.Flags().BoolVar(&strict, "strict", false, "stop a subject at its first failing task")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing config file")
	cmd.Flags().StringVar(&style, "style", "openrc", "status marker style: openrc or systemd")

	return cmd
}

// canonicalNames resolves aliases so the file always holds table names.
func canonicalNames(cat *catalog.Catalog, names []string) ([]string, error) {
	subjects, err := cat.Subjects(names)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, s.ID)
	}
	return out, nil
}

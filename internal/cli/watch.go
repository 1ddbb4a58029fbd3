package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tux/internal/reporter"
	"github.com/ppiankov/tux/internal/watch"
)

func newWatchCmd() *cobra.Command {
	opts := &checkOptions{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [subjects...]",
		Short: "Re-run the checks whenever project files change",
		Long: `Watch runs a check immediately and again after every burst of file changes
under the current directory. VCS, dependency and build directories as well
as the output directory are ignored. Failing checks do not stop watching.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// resolved once up front so that config errors fail fast
			s, err := loadSettings(cmd, opts, args)
			if err != nil {
				return err
			}
			if len(s.subjects) == 0 {
				return errNoSubjects
			}

			ignore := []string{s.outputDir}
			for _, p := range []string{opts.json, opts.sarif} {
				if p != "" {
					ignore = append(ignore, p)
				}
			}

			w, err := watch.New(watch.Config{
				Root:     ".",
				Debounce: debounce,
				Ignore:   ignore,
				Run: func(ctx context.Context) error {
					return watchRun(ctx, cmd, opts, args)
				},
			})
			if err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}

	bindCheckFlags(cmd, opts)
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before re-running after a change")

	return cmd
}

// watchRun performs one check. Only engine defects end the watch.
func watchRun(ctx context.Context, cmd *cobra.Command, opts *checkOptions, args []string) error {
	out := cmd.OutOrStdout()
	term := newTerminal(out, opts.plain)
	term.Clear()

	err := check(ctx, cmd, opts, args, out)
	var failed *CheckFailedError
	switch {
	case err == nil:
	case errors.As(err, &failed):
	case errors.Is(err, reporter.ErrRenderSync):
		return err
	case ctx.Err() != nil:
		return nil
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	fmt.Fprintf(out, "\nWatching for changes, press Ctrl-C to stop (last run %s)\n", time.Now().Format(time.Kitchen))
	return nil
}

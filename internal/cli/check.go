package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tux/internal/reporter"
	"github.com/ppiankov/tux/internal/runner"
	"github.com/ppiankov/tux/internal/task"
)

type checkOptions struct {
	strict  bool
	style   string
	timeout time.Duration
	json    string
	sarif   string
	plain   bool
	guard   bool
	redact  bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [subjects...]",
		Short: "Run the checks of the configured or named subjects",
		Long: `Check runs every task of each subject in order and prints a summary table.
Subjects default to the languages and custom subjects of the config file.
Output of each task is captured under <output-dir>/<subject>/{stdout,stderr}/.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	bindCheckFlags(cmd, opts)
	return cmd
}

func bindCheckFlags(cmd *cobra.Command, o *checkOptions) {
	f := cmd.Flags()
	f.BoolVar(&o.strict, "strict", false, "stop a subject at its first failing task")
	f.StringVar(&o.style, "style", "", "status marker style: openrc or systemd")
	f.DurationVar(&o.timeout, "timeout", 0, "per-task timeout, 0 disables")
	f.StringVar(&o.json, "json", "", "write a JSON report to this path")
	f.StringVar(&o.sarif, "sarif", "", "write a SARIF report to this path")
	f.BoolVar(&o.plain, "plain", false, "print one line per task instead of live progress")
	f.BoolVar(&o.guard, "guard", false, "refuse commands with shell operators, redirections or substitutions")
	f.BoolVar(&o.redact, "redact", false, "mask tokens and keys in captured output")
}

func runCheck(cmd *cobra.Command, opts *checkOptions, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return check(ctx, cmd, opts, args, cmd.OutOrStdout())
}

func check(ctx context.Context, cmd *cobra.Command, opts *checkOptions, args []string, out io.Writer) error {
	s, err := loadSettings(cmd, opts, args)
	if err != nil {
		return err
	}
	if len(s.subjects) == 0 {
		return errNoSubjects
	}

	if err := runner.Acquire(s.outputDir, "tux "+strings.Join(os.Args[1:], " ")); err != nil {
		return err
	}
	defer runner.Release(s.outputDir)

	term := newTerminal(out, opts.plain)
	defer term.ShowCursor()
	if term.Interactive() && stderrIsTerminal() {
		// log lines share the screen with the live rows
		defer slog.SetDefault(slog.Default())
		slog.SetDefault(newLogger(term.LogWriter(), verbose))
	}
	progress := reporter.NewProgress(term, s.style)

	exec := runner.NewExecutor(nil)
	exec.Timeout = s.cfg.Timeout
	exec.Redact = s.cfg.Redact
	if s.cfg.Guard {
		exec.Guard = runner.NewGuard()
	}

	controller := task.NewController(task.ControllerConfig{
		Executor: exec,
		Renderer: progress,
		OnOutcome: func(subject string, d task.Descriptor, o task.Outcome) {
			if o.Succeeded {
				return
			}
			_, stderr := exec.Store.Paths(d.CaptureName)
			slog.Info("task failed",
				"subject", subject,
				"task", d.Title,
				"failure", o.Failure,
				"exit_code", o.ExitCode,
				"stderr", stderr,
			)
		},
	})

	builder := &task.Builder{
		Controller: controller,
		Columns:    s.catalog.Columns(),
		BeforeSubject: func(subj task.Subject) {
			exec.Store = runner.NewStore(filepath.Join(s.outputDir, subj.ID))
			progress.Begin(subj.ID)
		},
	}

	startedAt := time.Now()
	report, err := builder.Build(ctx, s.subjects, s.policy)
	progress.Finish()
	if err != nil {
		return fmt.Errorf("check aborted: %w", err)
	}

	reporter.PrintSummary(term, report)

	if opts.json != "" || opts.sarif != "" {
		rr := reporter.NewRunReport(report, s.policy, startedAt, s.outputDir)
		if opts.json != "" {
			if err := reporter.WriteJSONReport(rr, opts.json); err != nil {
				return err
			}
			slog.Debug("wrote JSON report", "path", opts.json)
		}
		if opts.sarif != "" {
			if err := reporter.WriteSARIFReport(rr, Version, opts.sarif); err != nil {
				return err
			}
			slog.Debug("wrote SARIF report", "path", opts.sarif)
		}
	}

	if ctx.Err() != nil {
		return fmt.Errorf("check interrupted: %w", ctx.Err())
	}
	if !report.Success() {
		return &CheckFailedError{Failed: report.Failed()}
	}
	return nil
}

// newTerminal picks live rendering only when out is a terminal.
func newTerminal(out io.Writer, plain bool) *reporter.Terminal {
	if f, ok := out.(*os.File); ok && !plain {
		return reporter.DetectTerminal(f)
	}
	return reporter.NewTerminal(out, false, 0)
}

// CheckFailedError is returned when at least one subject failed.
type CheckFailedError struct {
	Failed []string
}

func (e *CheckFailedError) Error() string {
	noun := "subjects"
	if len(e.Failed) == 1 {
		noun = "subject"
	}
	return fmt.Sprintf("%d %s failed: %s", len(e.Failed), noun, strings.Join(e.Failed, ", "))
}

var errNoSubjects = errors.New("no subjects to check (run `tux init` or name one, e.g. `tux check Go`)")

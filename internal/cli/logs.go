package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tux/internal/runner"
	"github.com/ppiankov/tux/internal/task"
)

func newLogsCmd() *cobra.Command {
	var stderr bool

	cmd := &cobra.Command{
		Use:   "logs SUBJECT CATEGORY",
		Short: "Print the captured output of a task",
		Long:  "Logs prints what a task wrote during the last check. CATEGORY is a column name such as tests or lint, or the capture file name.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := cfg.Catalog()
			if err != nil {
				return err
			}
			subject, err := cat.Subject(args[0])
			if err != nil {
				return err
			}
			d, err := findTask(subject, args[1])
			if err != nil {
				return err
			}

			stream := runner.Stdout
			if stderr {
				stream = runner.Stderr
			}
			store := runner.NewStore(filepath.Join(resolveOutputDir(cmd, cfg), subject.ID))
			data, err := store.Read(d.CaptureName, stream)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("no %s captured for %s %s yet (run `tux check %s`)", stream, subject.ID, d.Category, subject.ID)
				}
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&stderr, "stderr", false, "print standard error instead of standard output")

	return cmd
}

// findTask matches a category, or a capture file name with or without its
// extension.
func findTask(s task.Subject, name string) (task.Descriptor, error) {
	for _, d := range s.Tasks {
		capture := strings.TrimSuffix(d.CaptureName, filepath.Ext(d.CaptureName))
		if strings.EqualFold(d.Category, name) || d.CaptureName == name || capture == name {
			return d, nil
		}
	}
	known := make([]string, 0, len(s.Tasks))
	for _, d := range s.Tasks {
		known = append(known, d.Category)
	}
	return task.Descriptor{}, fmt.Errorf("subject %s has no task %q (known: %s)", s.ID, name, strings.Join(known, ", "))
}

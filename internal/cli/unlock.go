package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/tux/internal/runner"
)

func newUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Remove a stale output directory lock",
		Long:  "Unlock removes the lock a crashed check left in the output directory. It does not check whether the owner is still running.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir := resolveOutputDir(cmd, cfg)
			out := cmd.OutOrStdout()

			info, err := runner.ReadLock(dir)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintf(out, "No lock found in %s\n", dir)
					return nil
				}
				return fmt.Errorf("read lock: %w", err)
			}

			runner.Release(dir)
			fmt.Fprintf(out, "Removed lock in %s (was PID %d, %s, since %s)\n",
				dir, info.PID, info.Command, info.StartedAt.Format(time.RFC3339))
			return nil
		},
	}
}

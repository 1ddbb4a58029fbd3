package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ppiankov/tux/internal/reporter"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list [subjects...]",
		Short: "Show the tasks a check would run",
		Long:  "List prints the task table of each subject without running anything. Without arguments it shows the configured subjects, or every known subject when none are configured.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := cfg.Catalog()
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = cfg.SubjectNames()
			}
			if all || len(names) == 0 {
				names = cat.Names()
			}
			subjects, err := cat.Subjects(names)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := lipgloss.NewRenderer(out)
			for i, s := range subjects {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, reporter.RenderPlan(r, s))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every known subject")

	return cmd
}

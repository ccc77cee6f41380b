package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geosimplify/internal/simplify"
	"geosimplify/internal/tui"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Preview original and simplified geometry in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			opts := tui.Options{
				Tolerance:   cfg.Tolerance,
				HighQuality: cfg.HighQuality,
				Simplifier:  simplify.New(simplify.WithMaxRepairIterations(cfg.MaxRepairIterations)),
			}
			var m tea.Model
			if len(args) > 0 {
				m = tui.NewWithPath(args[0], opts)
			} else {
				m = tui.New(opts)
			}
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}
}

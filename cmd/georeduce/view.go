package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"georeduce/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [location]",
	Short: "Preview reductions in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// the alt screen owns the terminal, logs only go to LOG_FILE
		a, err := setup(cmd, "discard")
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		rc, err := a.cfg.ReductionConfig()
		if err != nil {
			return err
		}
		opts := tui.Options{
			Service:    a.svc,
			Reduction:  rc,
			ExportDir:  ".",
			ExportName: a.cfg.ExportName,
			Log:        a.log,
		}
		var m tea.Model
		if len(args) > 0 {
			m = tui.NewWithLocation(opts, args[0])
		} else {
			m = tui.New(opts)
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}

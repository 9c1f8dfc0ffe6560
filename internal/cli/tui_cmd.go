package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/route"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen interface",
		Long: `Open the full-screen interface. Without a session it starts at the
login screen. --route opens a screen directly, e.g.
--route /companies/<id>/teams.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive {
				return errors.New("the interface needs a terminal")
			}
			r := route.ToCompanies()
			if start != "" {
				parsed, err := route.Parse(start)
				if err != nil {
					return err
				}
				r = parsed
			}
			return runTUI(app, r)
		},
	}
	cmd.Flags().StringVar(&start, "route", "", "Screen to open first")
	return public(cmd)
}

// runTUI blocks until the user quits.
func runTUI(app *App, start route.Route) error {
	p := tea.NewProgram(newAppModel(app, start), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

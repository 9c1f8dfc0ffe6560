package cli

import (
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"statistics"},
		Short:   "Progress statistics",
	}
	cmd.AddCommand(newStatsCompanyCmd(app), newStatsTeamCmd(app))
	return cmd
}

func newStatsCompanyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "company <company>",
		Short: "Statistics for a company's corporate OKRs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			s, err := busy(cmd, app, "Loading statistics...", func() (*domain.CompanyStats, error) {
				return app.Stats.Company(cmd.Context(), companyID)
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatCompanyStats(s))
			return nil
		},
	}
}

func newStatsTeamCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "team <team id>",
		Short: "Statistics for a team's OKRs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := busy(cmd, app, "Loading statistics...", func() (*domain.TeamStats, error) {
				return app.Stats.Team(cmd.Context(), args[0])
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatTeamStats(s))
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newCompanyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "company",
		Aliases: []string{"companies"},
		Short:   "List, create and inspect companies",
	}

	cmd.AddCommand(
		newCompanyListCmd(app),
		newCompanyCreateCmd(app),
		newCompanyShowCmd(app),
	)

	return cmd
}

func newCompanyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the companies you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := busy(cmd, app, "Loading companies...", func() ([]domain.CompanyCard, error) {
				return app.Companies.Cards(cmd.Context(), app.Session.Current())
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatCompanyCards(cards))
			return nil
		},
	}
}

func newCompanyCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a company; you become its creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Companies.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Created company %s (%s)", c.Name, c.ID)))
			return nil
		},
	}
}

func newCompanyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <company>",
		Short: "Show a company by id or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveCompanyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Companies.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatCompany(c, app.Session.Current()))
			return nil
		},
	}
}

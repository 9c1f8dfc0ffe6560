package cli

import (
	"context"
	"fmt"

	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/service"
	"github.com/spf13/cobra"
)

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "team",
		Aliases: []string{"teams"},
		Short:   "Manage teams",
	}

	cmd.AddCommand(
		newTeamListCmd(app),
		newTeamShowCmd(app),
		newTeamCreateCmd(app),
		newTeamDeleteCmd(app),
		newTeamMembersCmd(app),
		newTeamBulkCmd(app, "add-members", "Add users to a team (creator only)", "--users", app.teamAddMembers),
		newTeamBulkCmd(app, "remove-members", "Remove users from a team (creator only)", "--users", app.teamRemoveMembers),
		newTeamBulkCmd(app, "add-roles", "Require roles for a team (creator only)", "--roles", app.teamAddRoles),
		newTeamBulkCmd(app, "remove-roles", "Drop required roles from a team (creator only)", "--roles", app.teamRemoveRoles),
	)
	return cmd
}

func newTeamListCmd(app *App) *cobra.Command {
	var companyRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a company's teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, companyRef)
			if err != nil {
				return err
			}
			teams, err := app.Teams.List(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatTeams(teams))
			return nil
		},
	}
	cmd.Flags().StringVar(&companyRef, "company", "", "Company id or name")
	return cmd
}

func newTeamShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <team id>",
		Short: "Show a team with its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := busy(cmd, app, "Loading team...", func() (*service.TeamDetail, error) {
				return app.Teams.Detail(cmd.Context(), args[0])
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatTeamDetail(&detail.Team, detail.Members))
			return nil
		},
	}
}

func newTeamMembersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "members <team id>",
		Short: "List a team's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Teams.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatUsers(detail.Members))
			return nil
		},
	}
}

func newTeamCreateCmd(app *App) *cobra.Command {
	var companyRef, description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID, err := resolveCompanyID(ctx, app, companyRef)
			if err != nil {
				return err
			}
			if err := requireCreator(ctx, app, companyID); err != nil {
				return err
			}
			t, err := app.Teams.Create(ctx, companyID, args[0], description)
			if err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Created team %s (%s)", t.Name, t.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&companyRef, "company", "", "Company id or name")
	cmd.Flags().StringVar(&description, "description", "", "Team description")
	return cmd
}

func newTeamDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <team id>",
		Aliases: []string{"rm"},
		Short:   "Delete a team (creator only)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireTeamCreator(ctx, args[0]); err != nil {
				return err
			}
			if err := confirmDestructive(cmd, app, yes, "Delete team "+args[0]+"?"); err != nil {
				return err
			}
			if err := app.Teams.Delete(ctx, args[0]); err != nil {
				return err
			}
			writeln(cmd, formatter.Success("Deleted team "+args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

type teamBulkFunc func(ctx context.Context, teamID string, values []string) error

func newTeamBulkCmd(app *App, use, short, flag string, apply teamBulkFunc) *cobra.Command {
	var values string

	cmd := &cobra.Command{
		Use:   use + " <team id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list := splitList(values, ",")
			if len(list) == 0 {
				return fmt.Errorf("%s is required", flag)
			}
			if err := app.requireTeamCreator(ctx, args[0]); err != nil {
				return err
			}
			if err := apply(ctx, args[0], list); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Updated team %s", args[0])))
			return nil
		},
	}
	name := flag[2:]
	help := "Comma-separated role names"
	if name == "users" {
		help = "Comma-separated user ids or emails"
	}
	cmd.Flags().StringVar(&values, name, "", help)
	return cmd
}

func (app *App) requireTeamCreator(ctx context.Context, teamID string) error {
	companyID, err := companyOfTeam(ctx, app, teamID)
	if err != nil {
		return err
	}
	return requireCreator(ctx, app, companyID)
}

func (app *App) resolveUserIDs(ctx context.Context, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := resolveUserID(ctx, app, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (app *App) teamAddMembers(ctx context.Context, teamID string, refs []string) error {
	ids, err := app.resolveUserIDs(ctx, refs)
	if err != nil {
		return err
	}
	return app.Teams.AddMembers(ctx, teamID, ids)
}

func (app *App) teamRemoveMembers(ctx context.Context, teamID string, refs []string) error {
	ids, err := app.resolveUserIDs(ctx, refs)
	if err != nil {
		return err
	}
	return app.Teams.RemoveMembers(ctx, teamID, ids)
}

func (app *App) teamAddRoles(ctx context.Context, teamID string, roles []string) error {
	return app.Teams.AddRoles(ctx, teamID, roles)
}

func (app *App) teamRemoveRoles(ctx context.Context, teamID string, roles []string) error {
	return app.Teams.RemoveRoles(ctx, teamID, roles)
}

package cli

import (
	"fmt"

	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newMemberCmd(app *App) *cobra.Command {
	var companyRef string

	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members", "user"},
		Short:   "Manage company members and their roles",
	}
	cmd.PersistentFlags().StringVar(&companyRef, "company", "", "Company id or name")

	cmd.AddCommand(
		newMemberListCmd(app, &companyRef),
		newMemberAddCmd(app, &companyRef),
		newMemberRemoveCmd(app, &companyRef),
		newMemberRolesCmd(app, &companyRef, true),
		newMemberRolesCmd(app, &companyRef, false),
		newMemberSearchCmd(app),
	)
	return cmd
}

func newMemberListCmd(app *App, companyRef *string) *cobra.Command {
	var candidates bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List company members",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID, err := resolveCompanyID(ctx, app, *companyRef)
			if err != nil {
				return err
			}
			if candidates {
				users, err := app.Members.Candidates(ctx, companyID)
				if err != nil {
					return err
				}
				printf(cmd, "%s", formatter.FormatUsers(users))
				return nil
			}
			users, err := app.Members.List(ctx, companyID)
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatCompanyUsers(users))
			return nil
		},
	}
	cmd.Flags().BoolVar(&candidates, "candidates", false, "List users eligible for team membership")
	return cmd
}

func newMemberAddCmd(app *App, companyRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <user id or email>",
		Short: "Add a user to the company (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID, err := resolveCompanyID(ctx, app, *companyRef)
			if err != nil {
				return err
			}
			if err := requireCreator(ctx, app, companyID); err != nil {
				return err
			}
			userID, err := resolveUserID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Members.Add(ctx, companyID, userID); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Added %s", args[0])))
			return nil
		},
	}
}

func newMemberRemoveCmd(app *App, companyRef *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "remove <user id or email>",
		Aliases: []string{"rm"},
		Short:   "Remove a user from the company (creator only)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID, err := resolveCompanyID(ctx, app, *companyRef)
			if err != nil {
				return err
			}
			if err := requireCreator(ctx, app, companyID); err != nil {
				return err
			}
			userID, err := resolveUserID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := confirmDestructive(cmd, app, yes, fmt.Sprintf("Remove %s from the company?", args[0])); err != nil {
				return err
			}
			if err := app.Members.Remove(ctx, companyID, userID); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Removed %s", args[0])))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// newMemberRolesCmd builds assign-roles and remove-roles, which differ only
// in the service call.
func newMemberRolesCmd(app *App, companyRef *string, assign bool) *cobra.Command {
	var roles string

	use, short, verb := "assign-roles <user id or email>", "Grant company roles to a member (creator only)", "Assigned"
	if !assign {
		use, short, verb = "remove-roles <user id or email>", "Revoke company roles from a member (creator only)", "Removed"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			names := splitList(roles, ",")
			if len(names) == 0 {
				return fmt.Errorf("--roles is required")
			}
			companyID, err := resolveCompanyID(ctx, app, *companyRef)
			if err != nil {
				return err
			}
			if err := requireCreator(ctx, app, companyID); err != nil {
				return err
			}
			userID, err := resolveUserID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if assign {
				err = app.Members.AssignRoles(ctx, companyID, userID, names)
			} else {
				err = app.Members.RemoveRoles(ctx, companyID, userID, names)
			}
			if err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("%s %s for %s", verb, formatter.RoleList(names), args[0])))
			return nil
		},
	}
	cmd.Flags().StringVar(&roles, "roles", "", "Comma-separated role names")
	return cmd
}

func newMemberSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <partial email>",
		Short: "Search all users by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Members.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatUsers(users))
			return nil
		},
	}
}

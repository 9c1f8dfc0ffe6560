package cli

import (
	"fmt"

	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newRoleCmd(app *App) *cobra.Command {
	var companyRef string

	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage company roles",
	}
	cmd.PersistentFlags().StringVar(&companyRef, "company", "", "Company id or name")

	cmd.AddCommand(
		newRoleListCmd(app, &companyRef),
		newRoleAddCmd(app, &companyRef),
		newRoleRemoveCmd(app, &companyRef),
		newRoleRenameCmd(app, &companyRef),
	)
	return cmd
}

func newRoleListCmd(app *App, companyRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the company's roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, *companyRef)
			if err != nil {
				return err
			}
			roles, err := app.Roles.List(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatRoles(roles))
			return nil
		},
	}
}

func newRoleAddCmd(app *App, companyRef *string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Define a new role (creator only)",
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
			if err := app.Roles.Create(ctx, companyID, domain.Role{Name: args[0], Description: description}); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Added role %s", args[0])))
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Role description")
	return cmd
}

func newRoleRemoveCmd(app *App, companyRef *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a role (creator only)",
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
			if err := confirmDestructive(cmd, app, yes, fmt.Sprintf("Delete role %s?", args[0])); err != nil {
				return err
			}
			if err := app.Roles.Delete(ctx, companyID, args[0]); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Removed role %s", args[0])))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newRoleRenameCmd(app *App, companyRef *string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a role (creator only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID, err := resolveCompanyID(ctx, app, *companyRef)
			if err != nil {
				return err
			}
			if err := requireCreator(ctx, app, companyID); err != nil {
				return err
			}
			if err := app.Roles.Rename(ctx, companyID, args[0], domain.Role{Name: args[1], Description: description}); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Renamed role %s to %s", args[0], args[1])))
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Description for the renamed role")
	return cmd
}

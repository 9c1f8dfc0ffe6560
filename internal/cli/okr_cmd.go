package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newOKRCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "okr",
		Aliases: []string{"okrs"},
		Short:   "Corporate and team objectives",
	}

	corporate := &cobra.Command{
		Use:     "corporate",
		Aliases: []string{"corp"},
		Short:   "Company-level objectives",
	}
	corporate.AddCommand(
		newCorporateListCmd(app),
		newCorporateCreateCmd(app),
		newCorporateAssignTeamsCmd(app),
		newCorporateKeyResultCmd(app),
	)

	team := &cobra.Command{
		Use:   "team",
		Short: "Team-level objectives",
	}
	team.AddCommand(
		newTeamOKRListCmd(app),
		newTeamOKRCreateCmd(app),
		newTeamOKRStatusCmd(app),
		newTeamOKRLinkCmd(app),
		newTeamOKRAssignedCmd(app),
	)

	cmd.AddCommand(
		corporate,
		team,
		newOKRShowCmd(app),
		newOKRFreezeCmd(app, true),
		newOKRFreezeCmd(app, false),
	)
	return cmd
}

// objectiveFlags are shared by corporate and team OKR creation.
type objectiveFlags struct {
	objective   string
	description string
	deadline    string
	keyResults  []string
	file        string
}

func (f *objectiveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.objective, "objective", "", "Objective title")
	cmd.Flags().StringVar(&f.description, "description", "", "Objective description")
	cmd.Flags().StringVar(&f.deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&f.keyResults, "kr", nil, "Key result as title:start:target[:unit[:metric[:team|team]]] (repeatable)")
	cmd.Flags().StringVar(&f.file, "file", "", "Read the objective from a YAML file")
}

func (f *objectiveFlags) input() (api.ObjectiveInput, error) {
	var in api.ObjectiveInput
	if f.file != "" {
		var err error
		if in, err = loadObjectiveFile(f.file); err != nil {
			return in, err
		}
	}
	if f.objective != "" {
		in.Objective = f.objective
	}
	if f.description != "" {
		in.Description = f.description
	}
	if f.deadline != "" {
		in.Deadline = f.deadline
	}
	for _, spec := range f.keyResults {
		kr, err := parseKeyResultSpec(spec)
		if err != nil {
			return in, err
		}
		in.KeyResults = append(in.KeyResults, kr)
	}

	switch {
	case strings.TrimSpace(in.Objective) == "":
		return in, errors.New("an objective title is required (--objective or --file)")
	case len(in.KeyResults) == 0:
		return in, errors.New("at least one key result is required (--kr or --file)")
	}
	for i, kr := range in.KeyResults {
		if kr.MetricType == "" {
			in.KeyResults[i].MetricType = domain.MetricNumber
		}
	}
	return in, nil
}

func newCorporateListCmd(app *App) *cobra.Command {
	var companyRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a company's corporate OKRs",
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, companyRef)
			if err != nil {
				return err
			}
			okrs, err := busy(cmd, app, "Loading OKRs...", func() ([]domain.Objective, error) {
				return app.OKRs.ListCorporate(cmd.Context(), companyID)
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatCorporateOKRs(okrs))
			return nil
		},
	}
	cmd.Flags().StringVar(&companyRef, "company", "", "Company id or name")
	return cmd
}

func newCorporateCreateCmd(app *App) *cobra.Command {
	var companyRef string
	var flags objectiveFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a corporate OKR",
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := resolveCompanyID(cmd.Context(), app, companyRef)
			if err != nil {
				return err
			}
			in, err := flags.input()
			if err != nil {
				return err
			}
			o, err := app.OKRs.CreateCorporate(cmd.Context(), companyID, in)
			if err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Created corporate OKR %q (%s)", o.Objective, o.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&companyRef, "company", "", "Company id or name")
	flags.register(cmd)
	return cmd
}

func newCorporateAssignTeamsCmd(app *App) *cobra.Command {
	var krIndex int
	var teams string

	cmd := &cobra.Command{
		Use:   "assign-teams <corporate okr id>",
		Short: "Set the teams allowed to work on a key result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := splitList(teams, ",")
			if err := app.OKRs.AssignTeams(cmd.Context(), args[0], krIndex, ids); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Assigned %d team(s) to key result #%d", len(ids), krIndex)))
			return nil
		},
	}
	cmd.Flags().IntVar(&krIndex, "kr", 0, "Key result index")
	cmd.Flags().StringVar(&teams, "teams", "", "Comma-separated team ids")
	_ = cmd.MarkFlagRequired("teams")
	return cmd
}

func newCorporateKeyResultCmd(app *App) *cobra.Command {
	var krIndex int

	cmd := &cobra.Command{
		Use:   "key-result <corporate okr id>",
		Short: "Show a corporate key result and the team OKRs linked to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.OKRs.KeyResult(cmd.Context(), args[0], krIndex)
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatKeyResultView(v))
			return nil
		},
	}
	cmd.Flags().IntVar(&krIndex, "kr", 0, "Key result index")
	return cmd
}

func newTeamOKRListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <team id>",
		Short: "List a team's OKRs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			okrs, err := busy(cmd, app, "Loading OKRs...", func() ([]domain.TeamOKR, error) {
				return app.OKRs.ListTeam(cmd.Context(), args[0])
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatTeamOKRs(okrs))
			return nil
		},
	}
}

func newTeamOKRCreateCmd(app *App) *cobra.Command {
	var flags objectiveFlags
	var parent string
	var parentKR int

	cmd := &cobra.Command{
		Use:   "create <team id>",
		Short: "Create a team OKR, optionally under a corporate key result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			if parent != "" {
				in.ParentOKR = parent
				in.ParentKRIndex = &parentKR
			}
			o, err := app.OKRs.CreateTeam(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Created team OKR %q (%s)", o.Objective.Objective, o.ID)))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&parent, "parent", "", "Corporate OKR id to attach to")
	cmd.Flags().IntVar(&parentKR, "parent-kr", 0, "Key result index within --parent")
	return cmd
}

func newTeamOKRStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <okr id> <draft|active|done>",
		Short: "Change a team OKR's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := strings.ToLower(args[1])
			if !domain.ValidOKRStatuses[status] {
				return fmt.Errorf("unknown status %q: want draft, active or done", args[1])
			}
			if err := app.OKRs.SetStatus(cmd.Context(), args[0], domain.OKRStatus(status)); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Status set to %s", status)))
			return nil
		},
	}
}

func newTeamOKRLinkCmd(app *App) *cobra.Command {
	var corporate string
	var krIndex int

	cmd := &cobra.Command{
		Use:   "link <okr id>",
		Short: "Attach a team OKR to a corporate key result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.OKRs.Link(cmd.Context(), args[0], corporate, krIndex); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Linked to key result #%d", krIndex)))
			return nil
		},
	}
	cmd.Flags().StringVar(&corporate, "corporate", "", "Corporate OKR id")
	cmd.Flags().IntVar(&krIndex, "kr", 0, "Key result index")
	_ = cmd.MarkFlagRequired("corporate")
	return cmd
}

func newTeamOKRAssignedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assigned <team id>",
		Short: "List corporate key results the team may work on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			krs, err := app.Teams.AssignedKeyResults(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatAssignedKeyResults(krs))
			return nil
		},
	}
}

func newOKRShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <okr id>",
		Short: "Show an objective with its key results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := app.OKRs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatObjective(o))
			return nil
		},
	}
}

func newOKRFreezeCmd(app *App, frozen bool) *cobra.Command {
	var corporate bool

	use, short, done := "freeze <okr id>", "Freeze an objective", "Frozen"
	if !frozen {
		use, short, done = "unfreeze <okr id>", "Unfreeze an objective", "Unfrozen"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.OKRs.SetFrozen(cmd.Context(), args[0], frozen, corporate); err != nil {
				return err
			}
			writeln(cmd, formatter.Success(done))
			return nil
		},
	}
	cmd.Flags().BoolVar(&corporate, "corporate", false, "The objective is a corporate OKR")
	return cmd
}

package cli

import (
	"fmt"
	"sort"

	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/spf13/cobra"
)

func newCheckInCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkin",
		Aliases: []string{"check-in", "checkins"},
		Short:   "Record and review progress on an objective",
	}
	cmd.AddCommand(
		newCheckInListCmd(app),
		newCheckInCreateCmd(app),
	)
	return cmd
}

func newCheckInListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <okr id>",
		Short: "Show an objective's check-in history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := app.OKRs.Get(ctx, args[0])
			if err != nil {
				return err
			}
			checkIns, err := app.CheckIns.List(ctx, args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatCheckIns(checkIns, o.KeyResults))
			return nil
		},
	}
}

func newCheckInCreateCmd(app *App) *cobra.Command {
	var sets []string
	var comment string

	cmd := &cobra.Command{
		Use:   "create <okr id>",
		Short: "Submit new key-result values with a comment",
		Long: `Submit new key-result values with a comment.

Values are given per key result index with --set. A value below the
current one is rejected; percentage values are clamped into the key
result's range.`,
		Example: `  okrdesk checkin create 6f1c... --set 0=42 --set 1=80 --comment "Shipped beta"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := progress.RequireComment(comment); err != nil {
				return err
			}
			values, err := parseSetFlags(sets)
			if err != nil {
				return err
			}
			draft, err := app.CheckIns.Draft(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			indexes := make([]int, 0, len(values))
			for i := range values {
				indexes = append(indexes, i)
			}
			sort.Ints(indexes)
			for _, i := range indexes {
				held, ok, err := draft.Set(i, values[i])
				if err != nil {
					return err
				}
				if !ok {
					return belowCurrentError(i, values[i], held)
				}
				if held != values[i] {
					writeln(cmd, formatter.Dim(fmt.Sprintf("key result #%d: clamped to %s", i, formatter.FormatNumber(held))))
				}
			}
			draft.SetComment(comment)

			if _, err := app.CheckIns.Submit(cmd.Context(), draft); err != nil {
				return err
			}
			writeln(cmd, formatter.Success("Check-in recorded"))
			o, err := app.OKRs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatObjective(o))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "index=value for a key result (repeatable)")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Check-in comment (required)")
	return cmd
}

// belowCurrentError reports a proposed value the draft refused.
func belowCurrentError(index int, proposed, held float64) error {
	return fmt.Errorf("key result #%d: %s is below the current value %s",
		index, formatter.FormatNumber(proposed), formatter.FormatNumber(held))
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"github.com/okrdesk/okrdesk/internal/route"
	"golang.org/x/sync/errgroup"
)

type checkInData struct {
	okr     *domain.Objective
	history []domain.CheckIn
}

// checkInsView shows an OKR with its check-in history and records new
// check-ins.
type checkInsView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	teamID    string
	okrID     string
	data      checkInData
	loading   bool
	err       error
	status    statusLine

	editing bool
	form    textForm
	notes   []string
}

func newCheckInsView(state *SharedState, companyID, teamID, okrID string) *checkInsView {
	return &checkInsView{
		state:     state,
		scope:     newViewScope(),
		companyID: companyID,
		teamID:    teamID,
		okrID:     okrID,
		loading:   true,
	}
}

func (v *checkInsView) ID() ViewID          { return ViewCheckIns }
func (v *checkInsView) Route() route.Route  { return route.ToCheckIns(v.companyID, v.teamID, v.okrID) }
func (v *checkInsView) CapturesInput() bool { return v.editing }
func (v *checkInsView) Close()              { v.scope.Close() }

func (v *checkInsView) Title() string {
	if v.data.okr != nil {
		return formatter.Truncate(v.data.okr.Objective, 24)
	}
	return "Check-ins"
}

func (v *checkInsView) ShortHelp() []key.Binding {
	if v.editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		}
	}
	var keys []key.Binding
	if v.data.okr != nil && v.data.okr.CheckInAllowed() {
		keys = append(keys, key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "check in")))
	}
	return append(keys,
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	)
}

func (v *checkInsView) Init() tea.Cmd {
	app := v.state.App
	id := v.okrID
	return loadCmd(v.scope, func(ctx context.Context) (checkInData, error) {
		var data checkInData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			o, err := app.OKRs.Get(gctx, id)
			data.okr = o
			return err
		})
		g.Go(func() error {
			history, err := app.CheckIns.List(gctx, id)
			data.history = history
			return err
		})
		return data, g.Wait()
	})
}

func (v *checkInsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[checkInData]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.data = msg.data
		}
		return v, nil

	case actionMsg:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		if msg.err != nil {
			v.form.Fail(msg.err)
			return v, nil
		}
		v.editing = false
		v.status.ok(msg.done)
		return v, v.Init()

	case refreshViewMsg:
		if v.editing {
			return v, nil
		}
		return v, v.Init()

	case tea.KeyMsg:
		if v.editing {
			return v.updateEdit(msg)
		}
		switch msg.String() {
		case "c":
			if v.data.okr != nil && v.data.okr.CheckInAllowed() {
				return v, v.startEdit()
			}
		case "r":
			v.loading = true
			return v, v.Init()
		}
	}
	return v, nil
}

// startEdit opens one input per key result plus the comment.
func (v *checkInsView) startEdit() tea.Cmd {
	specs := make([]fieldSpec, 0, len(v.data.okr.KeyResults)+1)
	for i, kr := range v.data.okr.KeyResults {
		specs = append(specs, fieldSpec{
			label:       fmt.Sprintf("#%d %s", i, formatter.Truncate(kr.Title, 24)),
			placeholder: formatter.FormatNumber(kr.ActualValue),
		})
	}
	specs = append(specs, fieldSpec{label: "Comment", placeholder: "what changed?"})
	v.form = newTextForm(v.state, specs...)
	v.notes = nil
	v.editing = true
	v.status.clear()
	return v.form.Focus()
}

func (v *checkInsView) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.editing = false
		return v, nil
	}
	submit, cmd := v.form.Update(msg)
	if !submit {
		return v, cmd
	}
	draft, err := v.buildDraft()
	if err != nil {
		v.form.Fail(err)
		return v, nil
	}
	v.form.Start()
	checkIns := v.state.App.CheckIns
	return v, actionCmd(v.scope, "checkin", "Check-in recorded", func(ctx context.Context) error {
		_, err := checkIns.Submit(ctx, draft)
		return err
	})
}

// buildDraft applies the entered values to a fresh draft. Rejected values
// and a missing comment stop the submission before any request.
func (v *checkInsView) buildDraft() (*progress.Draft, error) {
	draft := progress.NewDraft(v.data.okr)
	v.notes = nil
	for i := 0; i < draft.Len(); i++ {
		raw := v.form.Value(i)
		if raw == "" {
			continue
		}
		value, err := progress.ParseValue("value", raw)
		if err != nil {
			return nil, &progress.ValidationError{Field: "value", Message: fmt.Sprintf("key result #%d: enter a finite number", i)}
		}
		held, ok, err := draft.Set(i, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, belowCurrentError(i, value, held)
		}
		if held != value {
			v.notes = append(v.notes, fmt.Sprintf("key result #%d: clamped to %s", i, formatter.FormatNumber(held)))
			v.form.SetValue(i, formatter.FormatNumber(held))
		}
	}
	draft.SetComment(v.form.Value(draft.Len()))
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return draft, nil
}

func (v *checkInsView) View() string {
	if v.loading && v.data.okr == nil {
		return "\n  " + formatter.Dim("Loading check-ins...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	o := v.data.okr
	var b strings.Builder
	b.WriteString("\n" + formatter.FormatObjective(o))

	if v.editing {
		b.WriteString("\n  " + formatter.Header("New check-in") + "\n\n")
		b.WriteString(v.form.View())
		for _, n := range v.notes {
			b.WriteString("  " + formatter.Dim(n) + "\n")
		}
	} else if !o.CheckInAllowed() {
		reason := "This OKR is complete."
		if o.IsFrozen {
			reason = "This OKR is frozen."
		}
		b.WriteString("\n  " + formatter.Dim(reason) + "\n")
	}

	b.WriteString("\n" + formatter.Header("History") + "\n")
	b.WriteString(formatter.FormatCheckIns(v.data.history, o.KeyResults))
	b.WriteString(v.status.View())
	return b.String()
}

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
)

// okrdeskHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func okrdeskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[x] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newWizardForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(okrdeskHuhTheme()).WithShowHelp(false)
}

func requiredText(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(label + " is required")
		}
		return nil
	}
}

func validNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func validDeadline(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

// objectiveWizard accumulates an objective across chained forms: the
// objective itself, then one form per key result.
type objectiveWizard struct {
	state  *SharedState
	title  string
	submit func(api.ObjectiveInput) tea.Cmd

	// optional parent key results for team OKRs
	parents []domain.AssignedKeyResult
	parent  string

	objective   string
	description string
	deadline    string
	keyResults  []api.KeyResultInput

	kr         krFields
	addAnother bool
}

type krFields struct {
	title       string
	description string
	metric      string
	start       string
	target      string
	unit        string
}

func (f krFields) input() api.KeyResultInput {
	start, _ := strconv.ParseFloat(strings.TrimSpace(f.start), 64)
	target, _ := strconv.ParseFloat(strings.TrimSpace(f.target), 64)
	return api.KeyResultInput{
		Title:       strings.TrimSpace(f.title),
		Description: strings.TrimSpace(f.description),
		MetricType:  domain.MetricType(domain.CoalesceStr(f.metric, string(domain.MetricNumber))),
		StartValue:  start,
		TargetValue: target,
		Unit:        strings.TrimSpace(f.unit),
	}
}

// startObjectiveWizard opens the objective form. On completion it chains
// key-result forms until the user declines another, then calls submit.
func startObjectiveWizard(state *SharedState, title string, parents []domain.AssignedKeyResult, submit func(api.ObjectiveInput) tea.Cmd) tea.Cmd {
	w := &objectiveWizard{state: state, title: title, parents: parents, submit: submit}
	return startWizardCmd(state, title, w.objectiveForm(), w.nextKeyResult)
}

func (w *objectiveWizard) objectiveForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().Title("Objective").Value(&w.objective).Validate(requiredText("objective")),
		huh.NewInput().Title("Description").Value(&w.description),
		huh.NewInput().Title("Deadline").Placeholder("YYYY-MM-DD").Value(&w.deadline).Validate(validDeadline),
	}
	if len(w.parents) > 0 {
		opts := []huh.Option[string]{huh.NewOption("None", "")}
		for _, p := range w.parents {
			label := fmt.Sprintf("%s → %s", p.CorporateOKR.Objective, p.Title)
			opts = append(opts, huh.NewOption(label, parentKey(p.CorporateOKRID, p.KRIndex)))
		}
		fields = append(fields, huh.NewSelect[string]().Title("Attach to corporate key result").Options(opts...).Value(&w.parent))
	}
	return newWizardForm(huh.NewGroup(fields...))
}

func (w *objectiveWizard) keyResultForm() *huh.Form {
	w.kr = krFields{metric: string(domain.MetricNumber), start: "0"}
	w.addAnother = false
	metrics := []huh.Option[string]{
		huh.NewOption("Number", string(domain.MetricNumber)),
		huh.NewOption("Percentage", string(domain.MetricPercentage)),
		huh.NewOption("Currency", string(domain.MetricCurrency)),
		huh.NewOption("Custom", string(domain.MetricCustom)),
	}
	n := len(w.keyResults) + 1
	return newWizardForm(
		huh.NewGroup(
			huh.NewInput().Title(fmt.Sprintf("Key result %d", n)).Value(&w.kr.title).Validate(requiredText("title")),
			huh.NewInput().Title("Description").Value(&w.kr.description),
			huh.NewSelect[string]().Title("Metric").Options(metrics...).Value(&w.kr.metric),
			huh.NewInput().Title("Start value").Value(&w.kr.start).Validate(validNumber),
			huh.NewInput().Title("Target value").Value(&w.kr.target).Validate(validNumber),
			huh.NewInput().Title("Unit").Value(&w.kr.unit),
			huh.NewConfirm().Title("Add another key result?").Value(&w.addAnother),
		),
	)
}

func (w *objectiveWizard) nextKeyResult() tea.Cmd {
	return startWizardCmd(w.state, w.title, w.keyResultForm(), w.collect)
}

func (w *objectiveWizard) collect() tea.Cmd {
	w.keyResults = append(w.keyResults, w.kr.input())
	if w.addAnother {
		return w.nextKeyResult()
	}
	return w.submit(w.input())
}

func (w *objectiveWizard) input() api.ObjectiveInput {
	in := api.ObjectiveInput{
		Objective:   strings.TrimSpace(w.objective),
		Description: strings.TrimSpace(w.description),
		Deadline:    strings.TrimSpace(w.deadline),
		KeyResults:  w.keyResults,
	}
	if id, idx, ok := splitParentKey(w.parent); ok {
		in.ParentOKR = id
		in.ParentKRIndex = &idx
	}
	return in
}

func parentKey(okrID string, krIndex int) string {
	return okrID + "#" + strconv.Itoa(krIndex)
}

func splitParentKey(key string) (string, int, bool) {
	id, idx, ok := strings.Cut(key, "#")
	if !ok || id == "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return "", 0, false
	}
	return id, n, true
}

// wizardSelectStatus creates a huh form to pick a team OKR status.
func wizardSelectStatus(current domain.OKRStatus, result *string) *huh.Form {
	*result = string(domain.OKRStatus(domain.CoalesceStr(string(current), string(domain.OKRDraft))))
	return newWizardForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Draft", string(domain.OKRDraft)),
					huh.NewOption("Active", string(domain.OKRActive)),
					huh.NewOption("Done", string(domain.OKRDone)),
				).
				Value(result),
		),
	)
}

// wizardSelectKeyResult creates a huh form to pick one key result of okr.
func wizardSelectKeyResult(okr *domain.Objective, result *int) *huh.Form {
	if okr == nil || len(okr.KeyResults) == 0 {
		return nil
	}
	opts := make([]huh.Option[int], len(okr.KeyResults))
	for i, kr := range okr.KeyResults {
		opts[i] = huh.NewOption(fmt.Sprintf("#%d %s", i, kr.Title), i)
	}
	return newWizardForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Which key result?").Options(opts...).Value(result),
		),
	)
}

// wizardSelectTeams creates a huh form to choose the teams permitted on a
// key result. Teams already permitted start selected.
func wizardSelectTeams(teams []domain.Team, selected *[]string) *huh.Form {
	if len(teams) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], len(teams))
	for i, t := range teams {
		opts[i] = huh.NewOption(t.Name, t.ID).Selected(domain.ContainsStr(*selected, t.ID))
	}
	return newWizardForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Teams").Options(opts...).Value(selected),
		),
	)
}

// wizardSelectParent creates a huh form to pick a corporate key result the
// team is permitted to attach to.
func wizardSelectParent(assigned []domain.AssignedKeyResult, result *string) *huh.Form {
	if len(assigned) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], len(assigned))
	for i, a := range assigned {
		label := fmt.Sprintf("%s → %s", a.CorporateOKR.Objective, a.Title)
		opts[i] = huh.NewOption(label, parentKey(a.CorporateOKRID, a.KRIndex))
	}
	return newWizardForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Link to corporate key result").Options(opts...).Value(result),
		),
	)
}

// wizardRenameRole creates a huh form to rename a role and edit its description.
func wizardRenameRole(role domain.Role, name, description *string) *huh.Form {
	*name, *description = role.Name, role.Description
	return newWizardForm(
		huh.NewGroup(
			huh.NewInput().Title("Role name").Value(name).Validate(requiredText("name")),
			huh.NewInput().Title("Description").Value(description),
		),
	)
}

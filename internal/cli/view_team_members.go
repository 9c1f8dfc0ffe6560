package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/route"
	"github.com/okrdesk/okrdesk/internal/service"
)

// searchResultMsg carries one user search response. Only the response to
// the latest query is applied.
type searchResultMsg struct {
	scope uint64
	seq   uint64
	query string
	users []domain.UserDetail
	err   error
}

type memberPane int

const (
	paneMembers memberPane = iota
	paneSearch
	paneResults
)

// teamMembersView adds and removes team members in bulk. New members are
// found by email search.
type teamMembersView struct {
	state     *SharedState
	scope     viewScope
	companyID string
	teamID    string
	detail    *service.TeamDetail
	loading   bool
	err       error

	pane         memberPane
	memberCursor int
	resultCursor int
	selected     map[string]bool
	search       textinput.Model
	seq          service.Sequencer
	results      []domain.UserDetail
	searching    bool
	searchErr    error
	rows         rowGuard
	status       statusLine
}

func newTeamMembersView(state *SharedState, companyID, teamID string) *teamMembersView {
	return &teamMembersView{
		state:     state,
		scope:     newViewScope(),
		companyID: companyID,
		teamID:    teamID,
		loading:   true,
		selected:  map[string]bool{},
		search:    state.newTextInput("search users by email"),
		rows:      newRowGuard(),
	}
}

func (v *teamMembersView) ID() ViewID         { return ViewTeamMembers }
func (v *teamMembersView) Route() route.Route { return route.ToTeamMembers(v.companyID, v.teamID) }
func (v *teamMembersView) Close()             { v.scope.Close() }
func (v *teamMembersView) CapturesInput() bool {
	return v.pane == paneSearch
}

func (v *teamMembersView) Title() string {
	return v.state.TeamName(v.teamID, "Team") + " members"
}

func (v *teamMembersView) ShortHelp() []key.Binding {
	if v.pane == paneSearch {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "results")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "select")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add selected")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove selected")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *teamMembersView) Init() tea.Cmd {
	teams := v.state.App.Teams
	id := v.teamID
	return loadCmd(v.scope, func(ctx context.Context) (*service.TeamDetail, error) {
		return teams.Detail(ctx, id)
	})
}

func (v *teamMembersView) searchCmd(query string) tea.Cmd {
	seq := v.seq.Next()
	members := v.state.App.Members
	s := v.scope
	v.searching = strings.TrimSpace(query) != ""
	return safe(func() tea.Msg {
		users, err := members.Search(s.ctx, query)
		return searchResultMsg{scope: s.id, seq: seq, query: query, users: users, err: err}
	})
}

func (v *teamMembersView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[*service.TeamDetail]:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.detail = msg.data
			v.state.rememberTeam(v.teamID, v.detail.Team.Name)
			v.memberCursor = min(v.memberCursor, max(len(v.detail.Members)-1, 0))
		}
		return v, nil

	case searchResultMsg:
		if !v.scope.owns(msg.scope) || !v.seq.IsLatest(msg.seq) {
			return v, nil
		}
		v.searching = false
		v.searchErr = msg.err
		if msg.err == nil {
			v.results = msg.users
			v.resultCursor = 0
		}
		return v, nil

	case actionMsg:
		if !v.scope.owns(msg.scope) {
			return v, nil
		}
		v.rows.Settle(msg.key)
		if msg.err != nil {
			v.status.fail(msg.err)
			return v, nil
		}
		v.status.ok(msg.done)
		v.selected = map[string]bool{}
		return v, v.Init()

	case refreshViewMsg:
		return v, v.Init()

	case tea.KeyMsg:
		if v.pane == paneSearch {
			return v.updateSearch(msg)
		}
		return v.updateLists(msg)
	}
	return v, nil
}

func (v *teamMembersView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.search.Blur()
		v.pane = paneMembers
		return v, nil
	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		v.search.Blur()
		v.pane = paneResults
		return v, nil
	}
	before := v.search.Value()
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if v.search.Value() != before {
		return v, tea.Batch(cmd, v.searchCmd(v.search.Value()))
	}
	return v, cmd
}

func (v *teamMembersView) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		v.pane = paneSearch
		return v, v.search.Focus()
	case "tab":
		if v.pane == paneMembers {
			v.pane = paneResults
		} else {
			v.pane = paneMembers
		}
	case "up", "k":
		if v.pane == paneMembers && v.memberCursor > 0 {
			v.memberCursor--
		}
		if v.pane == paneResults && v.resultCursor > 0 {
			v.resultCursor--
		}
	case "down", "j":
		if v.pane == paneMembers && v.detail != nil && v.memberCursor < len(v.detail.Members)-1 {
			v.memberCursor++
		}
		if v.pane == paneResults && v.resultCursor < len(v.results)-1 {
			v.resultCursor++
		}
	case " ", "space":
		if id := v.cursorUser(); id != "" {
			v.selected[id] = !v.selected[id]
		}
	case "a":
		return v, v.bulk(true)
	case "x":
		return v, v.bulk(false)
	case "r":
		v.loading = true
		return v, v.Init()
	}
	return v, nil
}

func (v *teamMembersView) cursorUser() string {
	switch v.pane {
	case paneMembers:
		if v.detail != nil && v.memberCursor < len(v.detail.Members) {
			return v.detail.Members[v.memberCursor].ID
		}
	case paneResults:
		if v.resultCursor < len(v.results) {
			return v.results[v.resultCursor].ID
		}
	}
	return ""
}

func (v *teamMembersView) isMember(id string) bool {
	return v.detail != nil && v.detail.Team.HasMember(id)
}

// bulk sends the selected users: non-members when adding, members when
// removing.
func (v *teamMembersView) bulk(add bool) tea.Cmd {
	var ids []string
	for id, on := range v.selected {
		if on && v.isMember(id) != add {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) == 0 {
		v.status.fail(errNoneSelected)
		return nil
	}
	if !v.rows.Start("members") {
		return nil
	}
	teams := v.state.App.Teams
	tid := v.teamID
	if add {
		return actionCmd(v.scope, "members", fmt.Sprintf("Added %d member(s)", len(ids)), func(ctx context.Context) error {
			return teams.AddMembers(ctx, tid, ids)
		})
	}
	return actionCmd(v.scope, "members", fmt.Sprintf("Removed %d member(s)", len(ids)), func(ctx context.Context) error {
		return teams.RemoveMembers(ctx, tid, ids)
	})
}

func (v *teamMembersView) View() string {
	if v.loading && v.detail == nil {
		return "\n  " + formatter.Dim("Loading members...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+userMessage(v.err))
	}

	var b strings.Builder
	b.WriteString("\n  " + v.sectionTitle("Members", paneMembers) + "\n")
	if len(v.detail.Members) == 0 {
		b.WriteString("  " + formatter.Dim("No members found.") + "\n")
	}
	for i, u := range v.detail.Members {
		b.WriteString(v.userRow(u, i == v.memberCursor && v.pane == paneMembers, ""))
	}

	b.WriteString("\n  " + v.sectionTitle("Add members", paneResults) + "\n")
	b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.search.View() + "\n")
	switch {
	case v.searching:
		b.WriteString("  " + formatter.Dim("Searching...") + "\n")
	case v.searchErr != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+userMessage(v.searchErr)) + "\n")
	case strings.TrimSpace(v.search.Value()) != "" && len(v.results) == 0:
		b.WriteString("  " + formatter.Dim("No users found.") + "\n")
	}
	for i, u := range v.results {
		note := ""
		if v.isMember(u.ID) {
			note = formatter.Dim("already a member")
		}
		b.WriteString(v.userRow(u, i == v.resultCursor && v.pane == paneResults, note))
	}
	if v.rows.Busy("members") {
		b.WriteString("\n  " + formatter.Dim("Saving...") + "\n")
	}
	b.WriteString(v.status.View())
	return b.String()
}

func (v *teamMembersView) sectionTitle(title string, pane memberPane) string {
	if v.pane == pane || (pane == paneResults && v.pane == paneSearch) {
		return formatter.StyleHeader.Render(title)
	}
	return formatter.Dim(title)
}

func (v *teamMembersView) userRow(u domain.UserDetail, active bool, note string) string {
	cursor := "  "
	if active {
		cursor = formatter.StyleGreen.Render("▸ ")
	}
	box := "[ ]"
	if v.selected[u.ID] {
		box = formatter.StyleGreen.Render("[x]")
	}
	return fmt.Sprintf("%s%s %s %s %s\n", cursor, box, padRight(u.DisplayName(), 22), formatter.Dim(padRight(u.Email, 28)), note)
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/route"
)

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack and a persistent command bar.
type appModel struct {
	state     *SharedState
	viewStack []View
	cmdBar    commandBar
	quitting  bool

	// One-line status, e.g. a redirect reason or a recovered panic.
	banner    string
	bannerErr bool

	// Transient output from the command bar, displayed in content area.
	lastOutput string

	// Scrollable viewport for command output that exceeds terminal height.
	outputVP     viewport.Model
	outputActive bool // true when lastOutput is being displayed in the viewport
}

func newAppModel(app *App, start route.Route) appModel {
	return newAppModelWithState(newSharedState(app), start)
}

func newAppModelWithState(state *SharedState, start route.Route) appModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = outputViewportKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := appModel{
		state:    state,
		cmdBar:   newCommandBar(state),
		outputVP: vp,
	}
	m.viewStack = m.initialStack(start)
	return m
}

// initialStack opens start above the company list, or the login screen
// when there is no session.
func (m *appModel) initialStack(start route.Route) []View {
	app := m.state.App
	if !app.Session.IsAuthenticated() {
		if start.Name == route.Register {
			return []View{newRegisterView(m.state)}
		}
		return []View{newLoginView(m.state)}
	}

	home := newCompaniesView(m.state)
	switch {
	case start.Name == route.Companies, start.Public():
		return []View{home}
	case app.Guard.NeedsFetch(start):
		return []View{home, newPendingView(m.state, start)}
	}
	if d := app.Guard.Check(context.Background(), start); !d.Allowed() {
		m.setBanner(d.Err())
		return []View{home}
	}
	return []View{home, viewFor(m.state, start)}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func closeView(v View) {
	if c, ok := v.(closer); ok {
		c.Close()
	}
}

// pop removes the top view, keeping at least one.
func (m *appModel) pop() {
	if len(m.viewStack) > 1 {
		closeView(m.activeView())
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
	}
}

// place pushes v, or swaps it in for the top view when replace is set.
func (m *appModel) place(v View, replace bool) tea.Cmd {
	m.cmdBar.Blur()
	m.clearOutput()
	if wv, ok := v.(*wizardView); ok {
		if top := m.activeView(); top != nil {
			wv.parent = top.Route()
		}
	}
	if replace && len(m.viewStack) > 0 {
		closeView(m.activeView())
		m.setActiveView(v)
	} else {
		m.viewStack = append(m.viewStack, v)
	}
	return v.Init()
}

// resetTo closes every view and starts over from v.
func (m *appModel) resetTo(v View) tea.Cmd {
	for _, old := range m.viewStack {
		closeView(old)
	}
	m.viewStack = []View{v}
	m.cmdBar.Blur()
	m.clearOutput()
	return v.Init()
}

func (m *appModel) setBanner(err error) {
	if err == nil {
		return
	}
	m.banner = userMessage(err)
	m.bannerErr = true
}

// navigate opens r through the access guard.
func (m *appModel) navigate(r route.Route, replace bool) tea.Cmd {
	m.banner = ""
	if r.Name == route.Companies {
		return m.resetTo(newCompaniesView(m.state))
	}
	g := m.state.App.Guard
	if g.NeedsFetch(r) {
		return m.place(newPendingView(m.state, r), replace)
	}
	d := g.Check(context.Background(), r)
	if !d.Allowed() {
		return m.redirect(d.Target, d.Err())
	}
	if r.Public() {
		return m.resetTo(viewFor(m.state, r))
	}
	return m.place(viewFor(m.state, r), replace)
}

// redirect leaves the current (pending) view for target.
func (m *appModel) redirect(target route.Route, reason error) tea.Cmd {
	if target.Name == route.Login {
		return m.resetTo(newLoginView(m.state))
	}
	m.setBanner(reason)
	if n := len(m.viewStack); n > 1 && m.viewStack[n-2].Route() == target {
		m.pop()
		return nil
	}
	if _, pending := m.activeView().(*pendingView); pending {
		return m.place(viewFor(m.state, target), true)
	}
	return m.place(viewFor(m.state, target), false)
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.viewStack))
	for _, v := range m.viewStack {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.cmdBar.SetWidth(msg.Width)
		// Resize the output viewport if active.
		if m.outputActive {
			m.outputVP.Width = msg.Width
			m.outputVP.Height = m.state.ContentHeight()
		}
		// Forward to active view
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.outputActive {
			var cmd tea.Cmd
			m.outputVP, cmd = m.outputVP.Update(msg)
			return m, cmd
		}

	// Navigation messages from views or command bar
	case pushViewMsg:
		return m, m.place(msg.view, false)

	case popViewMsg:
		m.pop()
		return m, nil

	case navigateMsg:
		return m, m.navigate(msg.route, msg.replace)

	case guardResultMsg:
		top, ok := m.activeView().(*pendingView)
		if !ok || !top.scope.owns(msg.scope) {
			return m, nil
		}
		if !msg.decision.Allowed() {
			return m, m.redirect(msg.decision.Target, msg.decision.Err())
		}
		return m, m.place(viewFor(m.state, msg.route), true)

	case sessionStartedMsg:
		m.banner = ""
		return m, m.resetTo(newCompaniesView(m.state))

	case sessionEndedMsg:
		return m, m.resetTo(newLoginView(m.state))

	case refreshViewMsg:
		// Broadcast to ALL views in the stack so underlying views reload
		// after mutations made in views above them.
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case bannerMsg:
		if msg.err != nil {
			m.setBanner(msg.err)
		} else {
			m.banner, m.bannerErr = msg.text, false
		}
		return m, nil

	case cmdOutputMsg:
		m.showOutput(msg.output)
		return m, nil

	case shellResultMsg:
		if !m.state.App.Session.IsAuthenticated() {
			return m, m.resetTo(newLoginView(m.state))
		}
		m.showOutput(msg.output)
		return m, refreshAll

	case cmdLoadingMsg:
		m.showOutput("\n  " + formatter.Dim(msg.message))
		return m, nil

	case wizardCompleteMsg:
		// Atomically pop the wizard view and execute the follow-up command.
		m.pop()
		m.clearOutput()
		// Batch the follow-up command with a refresh so the underlying view reloads.
		return m, tea.Batch(msg.nextCmd, refreshAll)

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	// Forward other messages to command bar (e.g., cursor blink)
	var barCmd tea.Cmd
	if m.cmdBar.Focused() {
		barCmd = m.cmdBar.UpdateNonKey(msg)
	}

	// Loaded and action results go to whichever view owns them, which
	// may sit below the top of the stack.
	if isScopedResult(msg) {
		cmds := []tea.Cmd{barCmd}
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, tea.Batch(barCmd, cmd)
	}

	return m, barCmd
}

// scopedResult is implemented by messages addressed to one view scope.
type scopedResult interface {
	scopeID() uint64
}

func (m loadedMsg[T]) scopeID() uint64 { return m.scope }
func (m actionMsg) scopeID() uint64    { return m.scope }
func (m searchResultMsg) scopeID() uint64 {
	return m.scope
}

func isScopedResult(msg tea.Msg) bool {
	_, ok := msg.(scopedResult)
	return ok
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// If command bar is focused, route keys there
	if m.cmdBar.Focused() {
		if msg.Type == tea.KeyEnter {
			m.clearOutput() // Clear stale output before new command runs
		}
		cmd := m.cmdBar.Update(msg)
		return m, cmd
	}

	// When output is displayed, intercept scroll keys for the viewport.
	// Non-scroll keys dismiss the output, then fall through to normal handling.
	if m.outputActive {
		if isOutputScrollKey(msg) {
			var cmd tea.Cmd
			m.outputVP, cmd = m.outputVP.Update(msg)
			return m, cmd
		}
		m.clearOutput()
		if msg.Type == tea.KeyEsc {
			return m, nil
		}
	}

	// If active view captures input (has its own text input), forward directly.
	// This bypasses global keybindings so forms receive all characters
	// including 'q', ':', etc.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	// Global keys when command bar is NOT focused
	switch {
	case msg.String() == ":":
		if v := m.activeView(); v != nil {
			m.cmdBar.SetRoute(v.Route())
		}
		m.cmdBar.Focus()
		return m, nil

	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		// Pop view stack (go back)
		m.banner = ""
		m.pop()
		return m, nil
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string

	// Header
	sections = append(sections, m.renderHeader())

	if m.banner != "" {
		if m.bannerErr {
			sections = append(sections, "  "+formatter.StyleRed.Render("Error: "+m.banner))
		} else {
			sections = append(sections, "  "+formatter.StyleGreen.Render(m.banner))
		}
	}

	// Content area: active view or scrollable command output
	if m.lastOutput != "" {
		if m.outputActive && m.state.Height > 0 {
			sections = append(sections, m.outputVP.View())
		} else {
			sections = append(sections, m.lastOutput)
		}
	} else if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}

	// Status/shortcut bar
	sections = append(sections, m.renderStatusBar())

	// Command bar
	sections = append(sections, m.cmdBar.View())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("okrdesk")

	// Breadcrumb from view stack
	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	breadcrumb := ""
	if len(crumbs) > 0 {
		breadcrumb = " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	header := title + breadcrumb
	if m.state.App.Session.IsAuthenticated() {
		u := m.state.App.Session.User()
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(u.Email) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string

	if m.outputActive && m.outputVP.TotalLineCount() > m.outputVP.Height {
		// Scrollable output: show scroll position and controls.
		hints = append(hints, scrollIndicator(m.outputVP))
		hints = append(hints, formatter.Dim("↑↓ pgup/pgdn: scroll"))
		hints = append(hints, formatter.Dim("esc: dismiss"))
	} else if v := m.activeView(); v != nil && !m.outputActive {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}

	// Show navigation hints
	if !m.cmdBar.Focused() && !m.outputActive && !viewCapturesInput(m.activeView()) {
		if len(m.viewStack) > 1 {
			hints = append(hints, formatter.Dim("esc: back"))
		}
		hints = append(hints, formatter.Dim(": command"))
	}

	bar := strings.Join(hints, "  ")
	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

// showOutput displays command output in the scrollable viewport.
func (m *appModel) showOutput(output string) {
	m.lastOutput = output
	m.outputActive = true
	m.outputVP.SetContent(output)
	m.outputVP.Width = m.state.Width
	m.outputVP.Height = m.state.ContentHeight()
	m.outputVP.GotoTop()
}

// clearOutput dismisses the transient command output and deactivates the viewport.
func (m *appModel) clearOutput() {
	m.lastOutput = ""
	m.outputActive = false
}

// outputViewportKeyMap returns a restricted keymap for the output viewport.
// Only arrow/page keys scroll; letter keys are left free so they can
// dismiss the output or trigger global shortcuts.
func outputViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

// isOutputScrollKey returns true if the key should scroll the output viewport
// rather than dismissing the output.
func isOutputScrollKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlD:
		return true
	}
	return false
}

// scrollIndicator returns a dim scroll position string for the status bar.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	pct := int(vp.ScrollPercent() * 100)
	return formatter.Dim(fmt.Sprintf("[%d%%]", pct))
}

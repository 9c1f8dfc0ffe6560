package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okrdesk/okrdesk/internal/guard"
	"github.com/okrdesk/okrdesk/internal/route"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// navigateMsg opens a route through the access guard. With replace set the
// target takes the place of the current top view.
type navigateMsg struct {
	route   route.Route
	replace bool
}

// guardResultMsg delivers a creator check started by a pending view.
type guardResultMsg struct {
	scope    uint64
	route    route.Route
	decision guard.Decision
}

// sessionStartedMsg follows a successful login or registration.
type sessionStartedMsg struct{}

// sessionEndedMsg follows a logout. Only the auth screens remain reachable.
type sessionEndedMsg struct{}

// refreshViewMsg asks every view on the stack to reload.
type refreshViewMsg struct{}

// bannerMsg shows a one-line status above the status bar.
type bannerMsg struct {
	text string
	err  error
}

// cmdOutputMsg carries text output from a command execution
// to be displayed transiently in the current view.
type cmdOutputMsg struct {
	output string
}

// cmdLoadingMsg shows a placeholder while a command bar command runs.
type cmdLoadingMsg struct {
	message string
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// quitMsg signals the app to quit.
type quitMsg struct{}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

// navigate returns a tea.Cmd that opens r on top of the stack.
func navigate(r route.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r} }
}

// navigateReplace opens r in place of the current view.
func navigateReplace(r route.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r, replace: true} }
}

func refreshAll() tea.Msg { return refreshViewMsg{} }

// outputCmd returns a tea.Cmd that sends a cmdOutputMsg.
func outputCmd(s string) tea.Cmd {
	if s == "" {
		return nil
	}
	return func() tea.Msg { return cmdOutputMsg{output: s} }
}

func loadingCmd(message string) tea.Cmd {
	return func() tea.Msg { return cmdLoadingMsg{message: message} }
}

func bannerCmd(text string) tea.Cmd {
	return func() tea.Msg { return bannerMsg{text: text} }
}

func errorBannerCmd(err error) tea.Cmd {
	return func() tea.Msg { return bannerMsg{err: err} }
}

// wizardCompleteOutput closes the wizard and shows s as command output.
func wizardCompleteOutput(s string) wizardCompleteMsg {
	return wizardCompleteMsg{nextCmd: outputCmd(s)}
}

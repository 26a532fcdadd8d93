// Package ui renders the dashboard from the shared state.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/clickup-tui/internal/tui/state"
	"github.com/hy4ri/clickup-tui/internal/tui/styles"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

// Renderer draws the current state.
type Renderer struct {
	*state.State
}

// NewRenderer returns a Renderer over s.
func NewRenderer(s *state.State) *Renderer {
	return &Renderer{State: s}
}

// View renders the whole screen.
func (r *Renderer) View() string {
	if r.Width == 0 {
		return "Loading..."
	}

	switch r.Phase {
	case workload.PhaseUnauthenticated:
		return r.renderLogin()
	case workload.PhaseLoading:
		return r.center(r.Spinner.View() + " Loading your ClickUp workspace...")
	case workload.PhaseFailed:
		return r.renderFailed()
	}

	switch r.Overlay {
	case state.OverlayDetail:
		return r.center(r.DetailComp.View())
	case state.OverlayHelp:
		return r.center(r.HelpComp.View())
	case state.OverlayShare:
		return r.center(r.renderShare())
	case state.OverlaySummary:
		return r.center(r.renderSummary())
	}
	return r.renderDashboard()
}

// renderLogin renders the landing page with the token prompt.
func (r *Renderer) renderLogin() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("ClickUp Dashboard"))
	b.WriteString("\n\n")
	b.WriteString("Paste a personal API token to get started.\n")
	b.WriteString(styles.Faint.Render("ClickUp → Settings → Apps → API Token"))
	b.WriteString("\n\n")
	b.WriteString(styles.InputFocused.Render(r.TokenInput.View()))
	b.WriteString("\n\n")
	if r.Err != nil {
		b.WriteString(styles.StatusBarError.UnsetBackground().Render(workload.UserMessage(r.Err)))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.HelpDesc.Render("enter connect • esc quit"))

	return r.center(styles.Dialog.Render(b.String()))
}

// renderFailed renders the retry screen after the initial load failed.
func (r *Renderer) renderFailed() string {
	msg := workload.UserMessage(r.Err)
	if msg == "" {
		msg = "Something went wrong."
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render("Unable to load"),
		"",
		msg,
		"",
		styles.HelpDesc.Render("r retry • L log out • q quit"),
	)
	return r.center(styles.DialogError.Render(body))
}

func (r *Renderer) center(content string) string {
	return lipgloss.Place(r.Width, r.Height, lipgloss.Center, lipgloss.Center, content)
}

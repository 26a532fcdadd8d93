package logic

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/config"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

// Message types
type errMsg struct{ err error }
type statusMsg struct{ msg string }
type startedMsg struct {
	snap *workload.Snapshot
	err  error
}
type snapshotMsg struct {
	snap    *workload.Snapshot
	trigger workload.Trigger
	err     error
}
type pollTickMsg struct {
	gen int
	at  time.Time
}
type commentsLoadedMsg struct {
	taskID   string
	comments []api.Comment
	err      error
}
type summaryMsg struct {
	text string
	err  error
}
type shareCopiedMsg struct{}
type loggedOutMsg struct{}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// startCmd loads the user, workspaces and first snapshot.
func (h *Handler) startCmd() tea.Cmd {
	session, ctx := h.Session, h.Ctx
	return func() tea.Msg {
		snap, err := session.Start(ctx)
		return startedMsg{snap: snap, err: err}
	}
}

// loginCmd stores the token and starts a session with it.
func (h *Handler) loginCmd(token string) tea.Cmd {
	session, ctx, newSource := h.Session, h.Ctx, h.NewSource
	return func() tea.Msg {
		if err := config.SaveToken(token); err != nil {
			log.Warn("failed to store token", "err", err)
		}
		session.Authenticate(newSource(token))
		snap, err := session.Start(ctx)
		return startedMsg{snap: snap, err: err}
	}
}

// refreshCmd runs one fetch cycle.
func (h *Handler) refreshCmd(trigger workload.Trigger) tea.Cmd {
	session, ctx := h.Session, h.Ctx
	return func() tea.Msg {
		snap, err := session.Refresh(ctx, trigger)
		return snapshotMsg{snap: snap, trigger: trigger, err: err}
	}
}

// pollCmd schedules the next poll tick.
func (h *Handler) pollCmd() tea.Cmd {
	gen := h.pollGen
	return tea.Tick(h.pollInterval(), func(t time.Time) tea.Msg {
		return pollTickMsg{gen: gen, at: t}
	})
}

func (h *Handler) pollInterval() time.Duration {
	if h.Config != nil && h.Config.Workspace.PollInterval > 0 {
		return h.Config.Workspace.PollInterval
	}
	return config.DefaultPollInterval
}

// loadCommentsCmd fetches the comments of a task for the detail panel.
func (h *Handler) loadCommentsCmd(taskID string) tea.Cmd {
	session, ctx := h.Session, h.Ctx
	return func() tea.Msg {
		comments, err := session.Comments(ctx, taskID)
		return commentsLoadedMsg{taskID: taskID, comments: comments, err: err}
	}
}

// summaryCmd asks the summarizer about the current snapshot.
func (h *Handler) summaryCmd() tea.Cmd {
	session, ctx := h.Session, h.Ctx
	return func() tea.Msg {
		text, err := session.Summarize(ctx)
		return summaryMsg{text: text, err: err}
	}
}

// copyCmd copies text to the system clipboard.
func copyCmd(text, done string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return errMsg{err}
		}
		return statusMsg{done}
	}
}

// shareCmd copies the share link from the share dialog.
func shareCmd(link string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(link); err != nil {
			return errMsg{err}
		}
		return shareCopiedMsg{}
	}
}

// saveThemeCmd persists the theme preference.
func saveThemeCmd(theme string) tea.Cmd {
	return func() tea.Msg {
		if err := config.SaveTheme(theme); err != nil {
			log.Warn("failed to save theme", "err", err)
			return statusMsg{"Theme applied but not saved"}
		}
		return nil
	}
}

// logoutCmd clears the stored token.
func logoutCmd() tea.Cmd {
	return func() tea.Msg {
		if err := config.ClearToken(); err != nil {
			log.Warn("failed to clear token", "err", err)
		}
		return loggedOutMsg{}
	}
}

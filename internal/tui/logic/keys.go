package logic

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/config"
	"github.com/hy4ri/clickup-tui/internal/tui/state"
	"github.com/hy4ri/clickup-tui/internal/tui/styles"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

func (h *Handler) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch h.Phase {
	case workload.PhaseUnauthenticated:
		return h.handleTokenInput(msg)
	case workload.PhaseLoading:
		if key.Matches(msg, h.Keys.Quit) {
			return tea.Quit
		}
		return nil
	case workload.PhaseFailed:
		return h.handleFailedKeys(msg)
	}

	if h.IsSearching {
		return h.handleSearchInput(msg)
	}

	switch h.Overlay {
	case state.OverlayDetail:
		return h.handleDetailKeys(msg)
	case state.OverlayHelp:
		_, cmd := h.HelpComp.Update(msg)
		return cmd
	case state.OverlayShare:
		switch msg.String() {
		case "enter", "y":
			return shareCmd(h.shareURL())
		case "esc", "q":
			h.Overlay = state.OverlayNone
		}
		return nil
	case state.OverlaySummary:
		switch msg.String() {
		case "esc", "q", "enter":
			h.Overlay = state.OverlayNone
		}
		return nil
	}

	return h.handleDashboardKeys(msg)
}

func (h *Handler) handleTokenInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyEnter:
		token := strings.TrimSpace(h.TokenInput.Value())
		if token == "" {
			h.Err = workload.ErrNotAuthenticated
			return nil
		}
		h.TokenInput.Reset()
		h.TokenInput.Blur()
		h.Err = nil
		h.Phase = workload.PhaseLoading
		return h.loginCmd(token)
	}

	var cmd tea.Cmd
	h.TokenInput, cmd = h.TokenInput.Update(msg)
	return cmd
}

func (h *Handler) handleFailedKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, h.Keys.Refresh):
		h.Err = nil
		h.Phase = workload.PhaseLoading
		return h.startCmd()
	case key.Matches(msg, h.Keys.Logout):
		return h.logout()
	case key.Matches(msg, h.Keys.Quit):
		return tea.Quit
	}
	return nil
}

func (h *Handler) handleSearchInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		h.IsSearching = false
		h.SearchInput.Blur()
		return nil
	case tea.KeyEsc:
		h.IsSearching = false
		h.SearchInput.Blur()
		h.SearchInput.Reset()
		h.Filter.Search = ""
		h.RebuildRows()
		return nil
	}

	var cmd tea.Cmd
	h.SearchInput, cmd = h.SearchInput.Update(msg)
	h.Filter.Search = h.SearchInput.Value()
	h.RebuildRows()
	return cmd
}

func (h *Handler) handleDetailKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, h.Keys.CopyURL) {
		return h.copySelectedURL()
	}
	_, cmd := h.DetailComp.Update(msg)
	return cmd
}

func (h *Handler) handleDashboardKeys(msg tea.KeyMsg) tea.Cmd {
	h.StatusMsg = ""

	switch {
	case key.Matches(msg, h.Keys.Quit):
		return tea.Quit

	case key.Matches(msg, h.Keys.Up):
		h.MoveCursor(-1)
	case key.Matches(msg, h.Keys.Down):
		h.MoveCursor(1)
	case key.Matches(msg, h.Keys.Top):
		h.Cursor = 0
	case key.Matches(msg, h.Keys.Bottom):
		h.MoveCursor(len(h.Rows))
	case key.Matches(msg, h.Keys.Collapse):
		if n := h.SelectedNode(); n != nil && len(n.Subtasks) > 0 {
			h.Collapsed[n.Task.ID] = !h.Collapsed[n.Task.ID]
			h.RebuildRows()
		}

	case key.Matches(msg, h.Keys.Select):
		return h.openDetail()
	case key.Matches(msg, h.Keys.Refresh):
		h.Fetching = true
		return h.refreshCmd(workload.TriggerManual)
	case key.Matches(msg, h.Keys.Workspace):
		team, ok := h.Session.NextTeam()
		if !ok {
			h.StatusMsg = "Only one workspace"
			return nil
		}
		h.Fetching = true
		h.StatusMsg = "Switching to " + team.Name
		return h.refreshCmd(workload.TriggerWorkspace)
	case key.Matches(msg, h.Keys.CopyURL):
		return h.copySelectedURL()
	case key.Matches(msg, h.Keys.Share):
		h.Overlay = state.OverlayShare
		h.ShareCopied = false
		return nil
	case key.Matches(msg, h.Keys.Summary):
		h.Overlay = state.OverlaySummary
		h.SummaryLoading = true
		h.Summary = ""
		return h.summaryCmd()

	case key.Matches(msg, h.Keys.Mine):
		h.Filter.OnlyMine = !h.Filter.OnlyMine
		h.RebuildRows()
	case key.Matches(msg, h.Keys.Created):
		h.Filter.IncludeCreated = !h.Filter.IncludeCreated
		h.RebuildRows()
	case key.Matches(msg, h.Keys.Following):
		h.Filter.IncludeFollowed = !h.Filter.IncludeFollowed
		h.RebuildRows()
	case key.Matches(msg, h.Keys.Search):
		h.IsSearching = true
		h.SearchInput.SetValue(h.Filter.Search)
		return tea.Batch(h.SearchInput.Focus(), textinput.Blink)

	case key.Matches(msg, h.Keys.Theme):
		h.Theme = styles.Apply(styles.Toggle(h.Theme))
		if h.Config != nil {
			h.Config.UI.Theme = h.Theme
		}
		return saveThemeCmd(h.Theme)
	case key.Matches(msg, h.Keys.Help):
		h.Overlay = state.OverlayHelp
	case key.Matches(msg, h.Keys.Logout):
		return h.logout()
	}
	return nil
}

func (h *Handler) openDetail() tea.Cmd {
	n := h.SelectedNode()
	if n == nil {
		return nil
	}
	h.Overlay = state.OverlayDetail
	h.CommentsFor = n.Task.ID
	h.Comments = nil
	h.LoadingComment = true
	h.DetailComp.SetTask(&n.Task)
	return h.loadCommentsCmd(n.Task.ID)
}

func (h *Handler) copySelectedURL() tea.Cmd {
	n := h.SelectedNode()
	if h.Overlay == state.OverlayDetail && h.DetailComp.Task() != nil {
		return copyCmd(h.DetailComp.Task().URL, "Task link copied")
	}
	if n == nil || n.Task.URL == "" {
		return nil
	}
	return copyCmd(n.Task.URL, "Task link copied")
}

func (h *Handler) shareURL() string {
	if h.Config != nil && h.Config.Share.URL != "" {
		return h.Config.Share.URL
	}
	return config.DefaultShareURL
}

func (h *Handler) logout() tea.Cmd {
	h.Session.Logout()
	h.polling = false
	h.pollGen++

	h.Phase = workload.PhaseUnauthenticated
	h.Snapshot = nil
	h.Rows = nil
	h.Cursor = 0
	h.Collapsed = make(map[string]bool)
	h.Filter = analytics.Filter{}
	h.Overlay = state.OverlayNone
	h.Err = nil
	h.Fetching = false

	return tea.Batch(logoutCmd(), h.TokenInput.Focus(), textinput.Blink)
}

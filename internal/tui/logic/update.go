// Package logic implements the dashboard's message handling.
package logic

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/tui/components"
	"github.com/hy4ri/clickup-tui/internal/tui/state"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

// Handler applies messages to the shared state.
type Handler struct {
	*state.State

	pollGen int
	polling bool
}

// NewHandler returns a Handler over s.
func NewHandler(s *state.State) *Handler {
	return &Handler{State: s}
}

// Init returns the startup commands: resume a stored session or wait for a
// token.
func (h *Handler) Init() tea.Cmd {
	if h.Session.Authenticated() {
		h.Phase = workload.PhaseLoading
		return tea.Batch(h.Spinner.Tick, h.startCmd())
	}
	h.Phase = workload.PhaseUnauthenticated
	return tea.Batch(h.Spinner.Tick, h.TokenInput.Focus(), textinput.Blink)
}

// Update handles one message.
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return h.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		h.Width = msg.Width
		h.Height = msg.Height
		h.DetailComp.SetSize(msg.Width, msg.Height-4)
		h.HelpComp.SetSize(msg.Width-8, msg.Height)
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.Spinner, cmd = h.Spinner.Update(msg)
		return cmd

	case errMsg:
		h.Err = msg.err
		return nil

	case statusMsg:
		h.StatusMsg = msg.msg
		return nil

	case startedMsg:
		return h.handleStarted(msg)

	case snapshotMsg:
		return h.handleSnapshot(msg)

	case pollTickMsg:
		if msg.gen != h.pollGen || !h.polling {
			return nil
		}
		return tea.Batch(h.pollCmd(), h.refreshCmd(workload.TriggerPoll))

	case commentsLoadedMsg:
		if msg.taskID == h.CommentsFor {
			h.Comments = msg.comments
			h.LoadingComment = false
			h.DetailComp.SetComments(msg.comments, msg.err)
		}
		return nil

	case summaryMsg:
		h.SummaryLoading = false
		if msg.err != nil {
			h.Summary = workload.UserMessage(msg.err)
			return nil
		}
		h.Summary = msg.text
		return nil

	case shareCopiedMsg:
		h.ShareCopied = true
		return nil

	case components.CloseRequestMsg:
		h.Overlay = state.OverlayNone
		return nil

	case loggedOutMsg:
		h.StatusMsg = "Logged out"
		return nil
	}

	// Forward non-key messages (like blink) to the active input
	if h.Phase == workload.PhaseUnauthenticated {
		var cmd tea.Cmd
		h.TokenInput, cmd = h.TokenInput.Update(msg)
		return cmd
	}
	if h.IsSearching {
		var cmd tea.Cmd
		h.SearchInput, cmd = h.SearchInput.Update(msg)
		return cmd
	}
	return nil
}

func (h *Handler) handleStarted(msg startedMsg) tea.Cmd {
	if errors.Is(msg.err, workload.ErrSuperseded) {
		return nil
	}
	h.Phase = h.Session.Phase()
	if msg.err != nil {
		h.Err = msg.err
		return nil
	}

	h.Err = nil
	h.StatusMsg = ""
	h.applySnapshot(msg.snap, true)

	h.pollGen++
	h.polling = true
	return h.pollCmd()
}

func (h *Handler) handleSnapshot(msg snapshotMsg) tea.Cmd {
	h.Fetching = h.Session.Busy()
	if workload.IsBenign(msg.err) {
		return nil
	}
	if msg.err != nil {
		h.Phase = h.Session.Phase()
		h.Err = msg.err
		return nil
	}

	prev := h.Snapshot
	h.Err = nil
	h.applySnapshot(msg.snap, msg.trigger == workload.TriggerWorkspace)

	if msg.trigger == workload.TriggerManual {
		h.StatusMsg = "Refreshed"
	}
	if msg.trigger == workload.TriggerPoll && h.Config != nil && h.Config.Notifications.Enabled {
		return notifyCmd(workload.NewAssignments(prev, msg.snap))
	}
	return nil
}

// applySnapshot installs a committed snapshot and refreshes derived state.
func (h *Handler) applySnapshot(snap *workload.Snapshot, resetView bool) {
	h.Phase = workload.PhaseReady
	h.Snapshot = snap
	if resetView {
		h.Cursor = 0
		h.Collapsed = make(map[string]bool)
		h.Rows = nil
	}
	h.RebuildRows()

	// Keep an open detail panel in sync with the new data.
	if h.Overlay == state.OverlayDetail && h.DetailComp.Task() != nil {
		if n, ok := organizer.Find(snap.Forest, h.DetailComp.Task().ID); ok {
			comments, loading := h.Comments, h.LoadingComment
			h.DetailComp.SetTask(&n.Task)
			if !loading {
				h.DetailComp.SetComments(comments, nil)
			}
		}
	}
}

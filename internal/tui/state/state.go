// Package state holds the dashboard UI state shared by the logic and ui
// packages.
package state

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/config"
	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/tui/components"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

// Overlay is the panel drawn on top of the dashboard.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDetail
	OverlayShare
	OverlaySummary
	OverlayHelp
)

// Row is one visible line of the task tree.
type Row struct {
	Node        *organizer.Node
	Depth       int
	HasChildren bool
	Collapsed   bool
}

// State holds the application state.
// All fields are exported to allow access from logic and ui packages.
type State struct {
	// Dependencies
	Ctx       context.Context
	Session   *workload.Session
	Config    *config.Config
	NewSource func(token string) workload.Source
	Now       func() time.Time

	// Session mirror, updated on the event loop
	Phase    workload.Phase
	Snapshot *workload.Snapshot
	Fetching bool

	// Tree
	Filter    analytics.Filter
	Rows      []Row
	Cursor    int
	Collapsed map[string]bool

	// Overlays
	Overlay        Overlay
	Comments       []api.Comment
	CommentsFor    string
	LoadingComment bool
	Summary        string
	SummaryLoading bool
	ShareCopied    bool

	// UI state
	Err       error
	StatusMsg string
	Width     int
	Height    int
	Theme     string

	// Inputs
	TokenInput  textinput.Model
	SearchInput textinput.Model
	IsSearching bool

	// Components
	Spinner    spinner.Model
	Keys       KeyMap
	HelpComp   *components.HelpModel
	DetailComp *components.DetailModel
}

// RebuildRows recomputes the visible rows from the snapshot, filter and
// collapsed set, keeping the cursor on the same task when possible.
func (s *State) RebuildRows() {
	var selectedID string
	if n := s.SelectedNode(); n != nil {
		selectedID = n.Task.ID
	}

	s.Rows = s.Rows[:0]
	if s.Snapshot != nil {
		s.appendRows(s.Snapshot.Filtered(s.Filter), 0)
	}

	s.Cursor = clamp(s.Cursor, len(s.Rows))
	if selectedID == "" {
		return
	}
	for i, r := range s.Rows {
		if r.Node.Task.ID == selectedID {
			s.Cursor = i
			return
		}
	}
}

func (s *State) appendRows(nodes []*organizer.Node, depth int) {
	for _, n := range nodes {
		collapsed := s.Collapsed[n.Task.ID]
		s.Rows = append(s.Rows, Row{
			Node:        n,
			Depth:       depth,
			HasChildren: len(n.Subtasks) > 0,
			Collapsed:   collapsed,
		})
		if !collapsed {
			s.appendRows(n.Subtasks, depth+1)
		}
	}
}

// SelectedNode returns the node under the cursor, or nil.
func (s *State) SelectedNode() *organizer.Node {
	if s.Cursor < 0 || s.Cursor >= len(s.Rows) {
		return nil
	}
	return s.Rows[s.Cursor].Node
}

// MoveCursor moves the cursor by delta, clamped to the rows.
func (s *State) MoveCursor(delta int) {
	s.Cursor = clamp(s.Cursor+delta, len(s.Rows))
}

// UserID returns the current user's id, or "" before the first snapshot.
func (s *State) UserID() string {
	if s.Snapshot == nil {
		return ""
	}
	return s.Snapshot.User.ID.String()
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/tui/components"
	"github.com/hy4ri/clickup-tui/internal/tui/state"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testSnapshot() *workload.Snapshot {
	me := api.User{ID: "7", Username: "ada"}
	tasks := []api.Task{
		{ID: "p", Name: "Launch website", Creator: api.User{ID: "9"}, Status: api.Status{Status: "open", Color: "#d3d3d3"}},
		{ID: "c", Name: "Write copy", Parent: strPtr("p"), Assignees: []api.User{me}, Status: api.Status{Status: "in progress", Color: "#4194f6"}},
		{ID: "x", Name: "Ship release", Creator: me, Priority: &api.Priority{ID: "1", Priority: "urgent"}},
	}
	forest := organizer.Organize(tasks, "7")
	return &workload.Snapshot{
		User:      me,
		Team:      api.Team{ID: "1", Name: "Acme"},
		Forest:    forest,
		RawCount:  len(tasks),
		Stats:     analytics.Compute(forest, "7", testNow),
		UpdatedAt: testNow.Add(-2 * time.Minute),
	}
}

func newTestRenderer() *Renderer {
	s := &state.State{
		Phase:      workload.PhaseReady,
		Snapshot:   testSnapshot(),
		Collapsed:  make(map[string]bool),
		Width:      120,
		Height:     30,
		Now:        func() time.Time { return testNow },
		Keys:       state.DefaultKeyMap(),
		DetailComp: components.NewDetail(),
		TokenInput: textinput.New(),
		Spinner:    spinner.New(),
	}
	s.HelpComp = components.NewHelp(s.Keys)
	s.RebuildRows()
	return &Renderer{State: s}
}

func TestViewBeforeWindowSize(t *testing.T) {
	r := newTestRenderer()
	r.Width = 0
	if got := r.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestRenderDashboard(t *testing.T) {
	r := newTestRenderer()
	out := r.View()

	for _, want := range []string{"Acme", "ada", "● Live", "updated 2 minutes ago", "Launch website", "Write copy", "Ship release", "▾"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard should contain %q", want)
		}
	}
	if strings.Contains(out, "Hidden by Filters") {
		t.Error("badge should not show without filters")
	}
}

func TestRenderDashboardIndentsSubtasks(t *testing.T) {
	r := newTestRenderer()
	var parent, child string
	for i, row := range r.Rows {
		line := r.renderRow(row, false, "7", testNow)
		switch row.Node.Task.ID {
		case "p":
			parent = line
		case "c":
			child = line
			if r.Rows[i].Depth != 1 {
				t.Fatalf("child depth = %d, want 1", r.Rows[i].Depth)
			}
		}
	}
	if strings.Index(child, "Write copy") <= strings.Index(parent, "Launch website") {
		t.Error("subtask should be indented further than its parent")
	}
}

func TestRenderDashboardCollapsed(t *testing.T) {
	r := newTestRenderer()
	r.Collapsed["p"] = true
	r.RebuildRows()

	out := r.View()
	if !strings.Contains(out, "▸") {
		t.Error("collapsed parent should show ▸")
	}
	if !strings.Contains(out, "+1") {
		t.Error("collapsed parent should show hidden count")
	}
	if strings.Contains(out, "Write copy") {
		t.Error("collapsed subtask should not be rendered")
	}
}

func TestRenderDashboardHiddenByFilters(t *testing.T) {
	r := newTestRenderer()
	r.Filter = analytics.Filter{Search: "nothing matches this"}
	r.RebuildRows()

	out := r.View()
	if !strings.Contains(out, "Hidden by Filters") {
		t.Error("expected Hidden by Filters badge")
	}
	if !strings.Contains(out, "hidden by the current filters") {
		t.Error("expected empty-state hint about filters")
	}
}

func TestRenderDashboardEmptyWorkspace(t *testing.T) {
	r := newTestRenderer()
	r.Snapshot = &workload.Snapshot{Team: api.Team{Name: "Acme"}}
	r.RebuildRows()

	out := r.View()
	if !strings.Contains(out, "No recently updated tasks") {
		t.Error("expected empty workspace message")
	}
	if strings.Contains(out, "Hidden by Filters") {
		t.Error("empty workspace is not hidden by filters")
	}
}

func TestRenderStatusBar(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *Renderer)
		want  string
	}{
		{
			name:  "error",
			setup: func(r *Renderer) { r.Err = workload.ErrFetchTasks },
			want:  workload.MsgFetchTasks,
		},
		{
			name:  "status",
			setup: func(r *Renderer) { r.StatusMsg = "Refreshed" },
			want:  "Refreshed",
		},
		{
			name: "search",
			setup: func(r *Renderer) {
				r.IsSearching = true
				r.SearchInput = textinput.New()
				r.SearchInput.SetValue("launch")
			},
			want: "launch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer()
			tt.setup(r)
			if out := r.renderStatusBar(); !strings.Contains(out, tt.want) {
				t.Errorf("status bar = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestRenderLogin(t *testing.T) {
	r := newTestRenderer()
	r.Phase = workload.PhaseUnauthenticated
	r.Err = workload.ErrNotAuthenticated

	out := r.View()
	if !strings.Contains(out, "API token") {
		t.Error("login should ask for an API token")
	}
	if !strings.Contains(out, workload.MsgConnect) {
		t.Errorf("login should show %q", workload.MsgConnect)
	}
}

func TestRenderFailed(t *testing.T) {
	r := newTestRenderer()
	r.Phase = workload.PhaseFailed
	r.Err = fmt.Errorf("start: %w", workload.ErrNoWorkspaces)

	out := r.View()
	if !strings.Contains(out, workload.MsgNoWorkspaces) {
		t.Errorf("failed view should show %q", workload.MsgNoWorkspaces)
	}
	if !strings.Contains(out, "r retry") {
		t.Error("failed view should offer retry")
	}
}

func TestRenderOverlays(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *Renderer)
		want  string
	}{
		{
			name: "summary loading",
			setup: func(r *Renderer) {
				r.Overlay = state.OverlaySummary
				r.SummaryLoading = true
			},
			want: "Summarizing",
		},
		{
			name: "summary text",
			setup: func(r *Renderer) {
				r.Overlay = state.OverlaySummary
				r.Summary = "Focus on the release."
			},
			want: "Focus on the release.",
		},
		{
			name:  "share not yet copied",
			setup: func(r *Renderer) { r.Overlay = state.OverlayShare },
			want:  "Press enter to copy",
		},
		{
			name: "share copied",
			setup: func(r *Renderer) {
				r.Overlay = state.OverlayShare
				r.ShareCopied = true
			},
			want: "Link copied",
		},
		{
			name:  "help",
			setup: func(r *Renderer) { r.Overlay = state.OverlayHelp },
			want:  "Keyboard Shortcuts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer()
			tt.setup(r)
			if out := r.View(); !strings.Contains(out, tt.want) {
				t.Errorf("view should contain %q", tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a longer name", 6, "a lon…"},
		{"anything", 0, ""},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

package logic

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/config"
	"github.com/hy4ri/clickup-tui/internal/tui/components"
	"github.com/hy4ri/clickup-tui/internal/tui/state"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

type stubSource struct {
	tasks    []api.Task
	tasksErr error
	comments []api.Comment
}

func (s *stubSource) GetUser(ctx context.Context) (*api.User, error) {
	return &api.User{ID: "7", Username: "ada"}, nil
}

func (s *stubSource) GetTeams(ctx context.Context) ([]api.Team, error) {
	return []api.Team{{ID: "t1", Name: "Alpha"}, {ID: "t2", Name: "Beta"}}, nil
}

func (s *stubSource) GetTasks(ctx context.Context, teamID string, q api.TaskQuery) ([]api.Task, error) {
	if s.tasksErr != nil {
		return nil, s.tasksErr
	}
	return s.tasks, nil
}

func (s *stubSource) GetTaskComments(ctx context.Context, taskID string) ([]api.Comment, error) {
	return s.comments, nil
}

func (s *stubSource) UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error) {
	return &api.Task{ID: id}, nil
}

func strPtr(s string) *string { return &s }

func defaultTasks() []api.Task {
	me := api.User{ID: "7"}
	return []api.Task{
		{ID: "p", Name: "Parent", OrderIndex: "1", Creator: api.User{ID: "9"}, URL: "https://app.clickup.com/t/p"},
		{ID: "c", Name: "Child", OrderIndex: "1", Parent: strPtr("p"), Assignees: []api.User{me}},
		{ID: "w", Name: "Watched", OrderIndex: "2", Watchers: []api.User{me}},
	}
}

func newTestHandler(t *testing.T, src workload.Source) *Handler {
	t.Helper()
	session := workload.New(workload.Options{
		Logger: log.New(io.Discard),
		Now:    func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
	})
	if src != nil {
		session.Authenticate(src)
	}
	cfg := config.DefaultConfig()
	keys := state.DefaultKeyMap()
	s := &state.State{
		Ctx:         context.Background(),
		Session:     session,
		Config:      cfg,
		NewSource:   func(string) workload.Source { return src },
		Collapsed:   make(map[string]bool),
		Width:       100,
		Height:      30,
		TokenInput:  textinput.New(),
		SearchInput: textinput.New(),
		Spinner:     spinner.New(),
		Keys:        keys,
		HelpComp:    components.NewHelp(keys),
		DetailComp:  components.NewDetail(),
	}
	return &Handler{State: s}
}

// started returns a handler whose first fetch cycle has completed.
func started(t *testing.T, src *stubSource) *Handler {
	t.Helper()
	h := newTestHandler(t, src)
	h.Init()
	h.Update(h.startCmd()())
	if h.Phase != workload.PhaseReady {
		t.Fatalf("phase after start = %v, want ready (err %v)", h.Phase, h.Err)
	}
	return h
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitWithoutToken(t *testing.T) {
	h := newTestHandler(t, nil)
	h.Init()

	if h.Phase != workload.PhaseUnauthenticated {
		t.Errorf("phase = %v, want unauthenticated", h.Phase)
	}
	if !h.TokenInput.Focused() {
		t.Error("token input should be focused")
	}
}

func TestEmptyTokenRejected(t *testing.T) {
	h := newTestHandler(t, nil)
	h.Init()

	if cmd := h.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("empty token should not start a login")
	}
	if !errors.Is(h.Err, workload.ErrNotAuthenticated) {
		t.Errorf("Err = %v, want ErrNotAuthenticated", h.Err)
	}
}

func TestStartPopulatesDashboard(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})

	if got := len(h.Rows); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
	if h.Rows[1].Node.Task.ID != "c" || h.Rows[1].Depth != 1 {
		t.Errorf("row 1 = %s depth %d, want child at depth 1", h.Rows[1].Node.Task.ID, h.Rows[1].Depth)
	}
	if !h.polling || h.pollGen != 1 {
		t.Errorf("polling = %v gen %d, want polling gen 1", h.polling, h.pollGen)
	}
}

func TestStartFailure(t *testing.T) {
	h := newTestHandler(t, &stubSource{tasksErr: errors.New("boom")})
	h.Init()
	h.Update(h.startCmd()())

	if h.Phase != workload.PhaseFailed {
		t.Errorf("phase = %v, want failed", h.Phase)
	}
	if workload.UserMessage(h.Err) != workload.MsgFetchTasks {
		t.Errorf("message = %q, want %q", workload.UserMessage(h.Err), workload.MsgFetchTasks)
	}
	if h.polling {
		t.Error("polling should not start after a failed load")
	}
}

func TestPollTickGeneration(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})

	if cmd := h.Update(pollTickMsg{gen: h.pollGen - 1}); cmd != nil {
		t.Error("stale poll tick should be dropped")
	}
	if cmd := h.Update(pollTickMsg{gen: h.pollGen}); cmd == nil {
		t.Error("current poll tick should schedule work")
	}
}

func TestSnapshotErrors(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})
	snap := h.Snapshot

	h.Update(snapshotMsg{trigger: workload.TriggerPoll, err: workload.ErrCycleInFlight})
	if h.Err != nil {
		t.Errorf("skipped poll should not surface an error, got %v", h.Err)
	}

	h.Update(snapshotMsg{trigger: workload.TriggerPoll, err: workload.ErrFetchTasks})
	if !errors.Is(h.Err, workload.ErrFetchTasks) {
		t.Errorf("Err = %v, want ErrFetchTasks", h.Err)
	}
	if h.Snapshot != snap || h.Phase != workload.PhaseReady {
		t.Error("failed refresh should keep the previous snapshot on screen")
	}
}

func TestManualRefresh(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})

	cmd := h.Update(keyRunes("r"))
	if cmd == nil || !h.Fetching {
		t.Fatal("r should start a refresh")
	}
	h.Update(cmd())
	if h.StatusMsg != "Refreshed" {
		t.Errorf("StatusMsg = %q, want Refreshed", h.StatusMsg)
	}
	if h.Fetching {
		t.Error("Fetching should clear after the cycle")
	}
}

func TestWorkspaceSwitch(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})
	h.MoveCursor(2)

	cmd := h.Update(keyRunes("w"))
	if cmd == nil {
		t.Fatal("w should switch workspace")
	}
	h.Update(cmd())

	if h.Snapshot.Team.ID != "t2" {
		t.Errorf("team = %s, want t2", h.Snapshot.Team.ID)
	}
	if h.Cursor != 0 {
		t.Errorf("cursor = %d, want reset to 0", h.Cursor)
	}
}

func TestFilterKeys(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})

	h.Update(keyRunes("m"))
	if !h.Filter.OnlyMine {
		t.Fatal("m should enable the mine filter")
	}
	// Parent stays as context for the assigned child; the watched task goes.
	if got := len(h.Rows); got != 2 {
		t.Errorf("rows with mine filter = %d, want 2", got)
	}

	h.Update(keyRunes("f"))
	if got := len(h.Rows); got != 3 {
		t.Errorf("rows with mine+following = %d, want 3", got)
	}

	h.Update(keyRunes("m"))
	if h.Filter.OnlyMine {
		t.Error("second m should disable the mine filter")
	}
}

func TestSearch(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})

	h.Update(keyRunes("/"))
	if !h.IsSearching {
		t.Fatal("/ should open the search input")
	}
	for _, r := range "watch" {
		h.Update(keyRunes(string(r)))
	}
	if h.Filter.Search != "watch" {
		t.Errorf("Search = %q, want watch", h.Filter.Search)
	}
	if len(h.Rows) != 1 || h.Rows[0].Node.Task.ID != "w" {
		t.Errorf("search rows = %d, want only the watched task", len(h.Rows))
	}

	h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if h.IsSearching || h.Filter.Search != "" || len(h.Rows) != 3 {
		t.Error("esc should clear the search")
	}
}

func TestCollapseKey(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})

	h.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !h.Collapsed["p"] {
		t.Fatal("space should collapse the selected parent")
	}
	if got := len(h.Rows); got != 2 {
		t.Errorf("rows = %d, want 2 after collapse", got)
	}
}

func TestOpenDetailLoadsComments(t *testing.T) {
	src := &stubSource{
		tasks:    defaultTasks(),
		comments: []api.Comment{{ID: "1", CommentText: "Looks good"}},
	}
	h := started(t, src)

	cmd := h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if h.Overlay != state.OverlayDetail || cmd == nil {
		t.Fatal("enter should open the detail panel")
	}
	h.Update(cmd())
	if h.LoadingComment || len(h.Comments) != 1 {
		t.Errorf("comments = %d loading %v, want 1 loaded", len(h.Comments), h.LoadingComment)
	}

	cmd = h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should request close")
	}
	h.Update(cmd())
	if h.Overlay != state.OverlayNone {
		t.Error("detail panel should close")
	}
}

func TestCopyURL(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	h := started(t, &stubSource{tasks: defaultTasks()})
	cmd := h.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("y should copy the task link")
	}
	h.Update(cmd())

	if copied != "https://app.clickup.com/t/p" {
		t.Errorf("copied %q", copied)
	}
	if h.StatusMsg != "Task link copied" {
		t.Errorf("StatusMsg = %q", h.StatusMsg)
	}
}

func TestShare(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	h := started(t, &stubSource{tasks: defaultTasks()})
	if cmd := h.Update(keyRunes("s")); cmd != nil {
		t.Error("opening the share dialog should not touch the clipboard")
	}
	if h.Overlay != state.OverlayShare {
		t.Fatal("s should open the share dialog")
	}
	if copied != "" || h.ShareCopied {
		t.Fatalf("clipboard written on open: %q", copied)
	}

	cmd := h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should copy the share link")
	}
	h.Update(cmd())
	if !h.ShareCopied || copied != config.DefaultShareURL {
		t.Errorf("copied %q (ShareCopied %v)", copied, h.ShareCopied)
	}
	if h.Overlay != state.OverlayShare {
		t.Error("dialog should stay open after copying")
	}

	h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if h.Overlay != state.OverlayNone {
		t.Error("esc should close the share dialog")
	}
}

func TestSummaryWithoutKey(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})

	cmd := h.Update(keyRunes("a"))
	if h.Overlay != state.OverlaySummary || !h.SummaryLoading {
		t.Fatal("a should open the summary dialog")
	}
	h.Update(cmd())

	if h.SummaryLoading {
		t.Error("summary should stop loading")
	}
	if h.Summary != workload.MsgNoAIKey {
		t.Errorf("Summary = %q, want %q", h.Summary, workload.MsgNoAIKey)
	}
}

func TestPollNotifiesNewAssignments(t *testing.T) {
	sent := captureNotifications(t, nil)
	src := &stubSource{tasks: defaultTasks()}
	h := started(t, src)
	h.Config.Notifications.Enabled = true

	src.tasks = append(defaultTasks(), api.Task{ID: "n", Name: "Fresh", Assignees: []api.User{{ID: "7"}}})
	cmd := h.Update(h.refreshCmd(workload.TriggerPoll)())
	if cmd == nil {
		t.Fatal("new assignment should notify")
	}
	cmd()

	if len(*sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*sent))
	}
}

func TestLogout(t *testing.T) {
	h := started(t, &stubSource{tasks: defaultTasks()})
	gen := h.pollGen

	if cmd := h.Update(keyRunes("L")); cmd == nil {
		t.Fatal("L should log out")
	}

	if h.Phase != workload.PhaseUnauthenticated {
		t.Errorf("phase = %v, want unauthenticated", h.Phase)
	}
	if h.Snapshot != nil || len(h.Rows) != 0 {
		t.Error("logout should clear the dashboard")
	}
	if h.Session.Authenticated() {
		t.Error("session should drop its source")
	}
	if h.Update(pollTickMsg{gen: gen}) != nil {
		t.Error("poll ticks from before logout should be ignored")
	}
}

func TestWindowSize(t *testing.T) {
	h := newTestHandler(t, nil)
	h.Update(tea.WindowSizeMsg{Width: 140, Height: 40})

	if h.Width != 140 || h.Height != 40 {
		t.Errorf("size = %dx%d, want 140x40", h.Width, h.Height)
	}
}

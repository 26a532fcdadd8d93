package workload

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/summary"
)

func snapshotOf(team string, tasks ...api.Task) *Snapshot {
	forest := organizer.Organize(tasks, "7")
	return &Snapshot{
		User:     api.User{ID: "7"},
		Team:     api.Team{ID: team},
		Forest:   forest,
		RawCount: len(tasks),
	}
}

func assigned(id string) api.Task {
	return api.Task{ID: id, Assignees: []api.User{{ID: "7"}}}
}

func TestNewAssignments(t *testing.T) {
	created := api.Task{ID: "x", Creator: api.User{ID: "7"}}
	createdThenAssigned := api.Task{ID: "x", Creator: api.User{ID: "7"}, Assignees: []api.User{{ID: "7"}}}

	tests := []struct {
		name string
		prev *Snapshot
		next *Snapshot
		want []string
	}{
		{"first load", nil, snapshotOf("t1", assigned("a")), nil},
		{"no change", snapshotOf("t1", assigned("a")), snapshotOf("t1", assigned("a")), nil},
		{"new task", snapshotOf("t1", assigned("a")), snapshotOf("t1", assigned("a"), assigned("b")), []string{"b"}},
		{"reassigned", snapshotOf("t1", created), snapshotOf("t1", createdThenAssigned), []string{"x"}},
		{"workspace change", snapshotOf("t1", assigned("a")), snapshotOf("t2", assigned("b")), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAssignments(tt.prev, tt.next)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d tasks", tt.want, len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("expected %q at %d, got %q", id, i, got[i].ID)
				}
			}
		})
	}
}

func TestHiddenByFilters(t *testing.T) {
	snap := snapshotOf("t1", api.Task{ID: "a", Name: "Alpha", Creator: api.User{ID: "7"}})

	if snap.HiddenByFilters(analytics.Filter{}) {
		t.Error("default filter should not hide anything")
	}
	if !snap.HiddenByFilters(analytics.Filter{Search: "zzz"}) {
		t.Error("expected search without matches to hide everything")
	}

	empty := snapshotOf("t1")
	if empty.HiddenByFilters(analytics.Filter{Search: "zzz"}) {
		t.Error("an empty workspace is not hidden by filters")
	}

	var nilSnap *Snapshot
	if nilSnap.HiddenByFilters(analytics.Filter{}) || nilSnap.Filtered(analytics.Filter{}) != nil {
		t.Error("nil snapshot should be inert")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotAuthenticated, MsgConnect},
		{fmt.Errorf("wrap: %w", &api.APIError{StatusCode: 401}), MsgConnect},
		{ErrNoWorkspaces, MsgNoWorkspaces},
		{fmt.Errorf("%w: %w", ErrFetchTasks, errors.New("timeout")), MsgFetchTasks},
		{summary.ErrNoAPIKey, MsgNoAIKey},
		{fmt.Errorf("%w: %w", ErrSummary, errors.New("quota")), MsgSummary},
		{errors.New("odd"), "odd"},
	}

	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

type fakeSummarizer struct {
	text  string
	err   error
	tasks []api.Task
	user  string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, tasks []api.Task, username string) (string, error) {
	f.tasks = tasks
	f.user = username
	return f.text, f.err
}

func TestSummarize(t *testing.T) {
	t.Run("no snapshot", func(t *testing.T) {
		s := newTestSession(newFakeSource(), Options{Summarizer: &fakeSummarizer{}})
		if _, err := s.Summarize(context.Background()); err == nil {
			t.Error("expected error before the first cycle")
		}
	})

	t.Run("no summarizer", func(t *testing.T) {
		s := newTestSession(newFakeSource(), Options{})
		if _, err := s.Start(context.Background()); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := s.Summarize(context.Background()); !errors.Is(err, summary.ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("ok", func(t *testing.T) {
		fs := &fakeSummarizer{text: "All good."}
		s := newTestSession(newFakeSource(), Options{Summarizer: fs})
		if _, err := s.Start(context.Background()); err != nil {
			t.Fatalf("start: %v", err)
		}
		got, err := s.Summarize(context.Background())
		if err != nil || got != "All good." {
			t.Fatalf("unexpected result %q %v", got, err)
		}
		if fs.user != "ada" || len(fs.tasks) != 1 {
			t.Errorf("unexpected summarizer input %q %d", fs.user, len(fs.tasks))
		}
	})

	t.Run("empty dashboard", func(t *testing.T) {
		src := newFakeSource()
		src.tasks["t1"] = nil
		fs := &fakeSummarizer{text: "unused"}
		s := newTestSession(src, Options{Summarizer: fs})
		if _, err := s.Start(context.Background()); err != nil {
			t.Fatalf("start: %v", err)
		}
		_, err := s.Summarize(context.Background())
		if !errors.Is(err, ErrNothingToSummarize) {
			t.Fatalf("expected ErrNothingToSummarize, got %v", err)
		}
		if fs.user != "" {
			t.Error("summarizer should not be called without tasks")
		}
		if UserMessage(err) != MsgNoTasks {
			t.Errorf("unexpected message %q", UserMessage(err))
		}
	})

	t.Run("failure", func(t *testing.T) {
		s := newTestSession(newFakeSource(), Options{Summarizer: &fakeSummarizer{err: errors.New("503")}})
		if _, err := s.Start(context.Background()); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := s.Summarize(context.Background()); !errors.Is(err, ErrSummary) {
			t.Errorf("expected ErrSummary, got %v", err)
		}
	})
}

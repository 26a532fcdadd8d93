package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

type fakeSource struct {
	updated  []api.UpdateTaskRequest
	comments map[string][]api.Comment
}

func (f *fakeSource) GetUser(ctx context.Context) (*api.User, error) {
	return &api.User{ID: "7", Username: "ada"}, nil
}

func (f *fakeSource) GetTeams(ctx context.Context) ([]api.Team, error) {
	return []api.Team{{ID: "t1", Name: "Alpha"}, {ID: "t2", Name: "Beta"}}, nil
}

func (f *fakeSource) GetTasks(ctx context.Context, teamID string, q api.TaskQuery) ([]api.Task, error) {
	parent := "p"
	return []api.Task{
		{ID: "p", Name: "Launch " + teamID, Creator: api.User{ID: "9"}},
		{ID: "c", Name: "Write copy", Parent: &parent, Assignees: []api.User{{ID: "7"}}},
		{ID: "w", Name: "Watched", Watchers: []api.User{{ID: "7"}}},
	}, nil
}

func (f *fakeSource) GetTaskComments(ctx context.Context, taskID string) ([]api.Comment, error) {
	c, ok := f.comments[taskID]
	if !ok {
		return nil, &api.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
	}
	return c, nil
}

func (f *fakeSource) UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error) {
	f.updated = append(f.updated, req)
	return &api.Task{ID: id, Status: api.Status{Status: *req.Status}}, nil
}

func newTestServer(t *testing.T, start bool) (*httptest.Server, *fakeSource) {
	t.Helper()
	src := &fakeSource{comments: map[string][]api.Comment{
		"c": {{ID: "1", CommentText: "done soon"}},
	}}
	logger := log.New(io.Discard)
	session := workload.New(workload.Options{
		Logger: logger,
		Now:    func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
	})
	session.Authenticate(src)
	if start {
		if _, err := session.Start(context.Background()); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	}

	srv := httptest.NewServer(NewServer(session, logger))
	t.Cleanup(srv.Close)
	return srv, src
}

func doJSON(t *testing.T, method, url string, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

type tasksResponse struct {
	Team            api.Team `json:"team"`
	RawCount        int      `json:"raw_count"`
	HiddenByFilters bool     `json:"hidden_by_filters"`
	Tasks           []struct {
		Task     api.Task          `json:"task"`
		Subtasks []json.RawMessage `json:"subtasks"`
	} `json:"tasks"`
}

func TestGetTasks(t *testing.T) {
	srv, _ := newTestServer(t, true)

	tests := []struct {
		name      string
		query     string
		wantRoots int
		wantIDs   []string
		hidden    bool
	}{
		{"all", "", 2, []string{"p", "w"}, false},
		{"mine", "?mine=true", 1, []string{"p"}, false},
		{"mine and following", "?mine=true&following=true", 2, []string{"p", "w"}, false},
		{"search", "?q=watched", 1, []string{"w"}, false},
		{"nothing matches", "?q=zzz", 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got tasksResponse
			if status := doJSON(t, http.MethodGet, srv.URL+"/api/tasks"+tt.query, "", &got); status != http.StatusOK {
				t.Fatalf("status = %d, want 200", status)
			}
			if len(got.Tasks) != tt.wantRoots {
				t.Fatalf("roots = %d, want %d", len(got.Tasks), tt.wantRoots)
			}
			for i, id := range tt.wantIDs {
				if got.Tasks[i].Task.ID != id {
					t.Errorf("root %d = %s, want %s", i, got.Tasks[i].Task.ID, id)
				}
			}
			if got.HiddenByFilters != tt.hidden {
				t.Errorf("hidden_by_filters = %v, want %v", got.HiddenByFilters, tt.hidden)
			}
			if got.RawCount != 3 || got.Team.ID != "t1" {
				t.Errorf("raw_count = %d team = %s", got.RawCount, got.Team.ID)
			}
		})
	}
}

func TestNotReady(t *testing.T) {
	srv, _ := newTestServer(t, false)

	for _, path := range []string{"/api/tasks", "/api/stats", "/api/me"} {
		var body errorBody
		if status := doJSON(t, http.MethodGet, srv.URL+path, "", &body); status != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, status)
		}
		if body.Error == "" {
			t.Errorf("%s should carry an error message", path)
		}
	}
}

func TestMeAndTeams(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var me api.User
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/me", "", &me); status != http.StatusOK || me.Username != "ada" {
		t.Errorf("me = %+v (status %d)", me, status)
	}

	var teams struct {
		Current string     `json:"current"`
		Teams   []api.Team `json:"teams"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/teams", "", &teams)
	if teams.Current != "t1" || len(teams.Teams) != 2 {
		t.Errorf("teams = %+v", teams)
	}
}

func TestSelectTeam(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var snap workload.Snapshot
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/teams/t2", "", &snap); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if snap.Team.ID != "t2" || snap.Trigger != workload.TriggerWorkspace {
		t.Errorf("snapshot team %s trigger %s", snap.Team.ID, snap.Trigger)
	}

	var body errorBody
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/teams/nope", "", &body); status != http.StatusNotFound {
		t.Errorf("unknown team status = %d, want 404", status)
	}
}

func TestRefresh(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var got struct {
		Generation uint64 `json:"generation"`
		RawCount   int    `json:"raw_count"`
	}
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/refresh", "", &got); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got.Generation < 2 || got.RawCount != 3 {
		t.Errorf("refresh = %+v", got)
	}

	if status := doJSON(t, http.MethodGet, srv.URL+"/api/refresh", "", nil); status != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/refresh status = %d, want 405", status)
	}
}

func TestSummaryWithoutKey(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var body errorBody
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/summary", "", &body); status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	if body.Error != workload.MsgNoAIKey {
		t.Errorf("error = %q, want %q", body.Error, workload.MsgNoAIKey)
	}
}

func TestComments(t *testing.T) {
	srv, _ := newTestServer(t, true)

	var comments []api.Comment
	if status := doJSON(t, http.MethodGet, srv.URL+"/api/tasks/c/comments", "", &comments); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(comments) != 1 || comments[0].CommentText != "done soon" {
		t.Errorf("comments = %+v", comments)
	}

	if status := doJSON(t, http.MethodGet, srv.URL+"/api/tasks/missing/comments", "", nil); status != http.StatusNotFound {
		t.Errorf("missing task status = %d, want 404", status)
	}
}

func TestUpdateTask(t *testing.T) {
	srv, src := newTestServer(t, true)

	if status := doJSON(t, http.MethodPut, srv.URL+"/api/tasks/c", "{not json", nil); status != http.StatusBadRequest {
		t.Errorf("bad payload status = %d, want 400", status)
	}

	var task api.Task
	if status := doJSON(t, http.MethodPut, srv.URL+"/api/tasks/c", `{"status":"complete"}`, &task); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if task.Status.Status != "complete" || len(src.updated) != 1 {
		t.Errorf("task = %+v, updates = %d", task, len(src.updated))
	}
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/?q=zzz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	for _, want := range []string{"Alpha", "ada", "Hidden by Filters"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("index should contain %q", want)
		}
	}
}

func TestRequestID(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response should carry a generated request id")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/stats", nil)
	req.Header.Set(requestIDHeader, "abc")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "abc" {
		t.Errorf("request id = %q, want the caller's", got)
	}
}

// Package web serves the dashboard over HTTP for a browser or scripts.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/summary"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

const requestIDHeader = "X-Request-ID"

var errNotReady = errors.New("dashboard is still loading")

// Server exposes a Session as JSON endpoints plus a small HTML page.
type Server struct {
	session *workload.Session
	log     *log.Logger
	router  *mux.Router
}

// NewServer creates a Server and registers its routes.
func NewServer(session *workload.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		session: session,
		log:     logger.WithPrefix("web"),
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	v := s.router.PathPrefix("/api").Subrouter()
	v.HandleFunc("/me", s.getMe).Methods(http.MethodGet)
	v.HandleFunc("/teams", s.getTeams).Methods(http.MethodGet)
	v.HandleFunc("/teams/{teamID}", s.selectTeam).Methods(http.MethodPost)
	v.HandleFunc("/tasks", s.getTasks).Methods(http.MethodGet)
	v.HandleFunc("/tasks/{taskID}", s.updateTask).Methods(http.MethodPut)
	v.HandleFunc("/tasks/{taskID}/comments", s.getComments).Methods(http.MethodGet)
	v.HandleFunc("/stats", s.getStats).Methods(http.MethodGet)
	v.HandleFunc("/refresh", s.refresh).Methods(http.MethodPost)
	v.HandleFunc("/summary", s.summarize).Methods(http.MethodPost)

	s.router.HandleFunc("/", s.index).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// getMe handles GET /api/me.
func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	user := s.session.User()
	if user == nil {
		s.writeError(w, errNotReady)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// getTeams handles GET /api/teams.
func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	current, _ := s.session.Team()
	writeJSON(w, http.StatusOK, map[string]any{
		"current": current.ID,
		"teams":   s.session.Teams(),
	})
}

// selectTeam handles POST /api/teams/{teamID}.
func (s *Server) selectTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SelectTeam(mux.Vars(r)["teamID"]); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.session.Refresh(r.Context(), workload.TriggerWorkspace)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// getTasks handles GET /api/tasks.
func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if snap == nil {
		s.writeError(w, errNotReady)
		return
	}
	f := parseFilter(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"team":              snap.Team,
		"updated_at":        snap.UpdatedAt,
		"generation":        snap.Generation,
		"raw_count":         snap.RawCount,
		"hidden_by_filters": snap.HiddenByFilters(f),
		"tasks":             nonNil(snap.Filtered(f)),
	})
}

// updateTask handles PUT /api/tasks/{taskID}.
func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"Invalid request payload"})
		return
	}
	task, err := s.session.UpdateTask(r.Context(), mux.Vars(r)["taskID"], req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// getComments handles GET /api/tasks/{taskID}/comments.
func (s *Server) getComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.session.Comments(r.Context(), mux.Vars(r)["taskID"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if comments == nil {
		comments = []api.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// getStats handles GET /api/stats.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if snap == nil {
		s.writeError(w, errNotReady)
		return
	}
	writeJSON(w, http.StatusOK, snap.Stats)
}

// refresh handles POST /api/refresh.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Refresh(r.Context(), workload.TriggerManual)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"generation": snap.Generation,
		"updated_at": snap.UpdatedAt,
		"raw_count":  snap.RawCount,
		"stats":      snap.Stats,
	})
}

// summarize handles POST /api/summary.
func (s *Server) summarize(w http.ResponseWriter, r *http.Request) {
	text, err := s.session.Summarize(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": text})
}

func parseFilter(r *http.Request) analytics.Filter {
	q := r.URL.Query()
	flag := func(name string) bool {
		v, _ := strconv.ParseBool(q.Get(name))
		return v
	}
	return analytics.Filter{
		OnlyMine:        flag("mine"),
		IncludeCreated:  flag("created"),
		IncludeFollowed: flag("following"),
		Search:          q.Get("q"),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError renders err as the message the TUI would show, with a status
// matching its kind.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{workload.UserMessage(err)})
}

func statusFor(err error) int {
	if apiErr, ok := api.IsAPIError(err); ok && apiErr.IsNotFound() {
		return http.StatusNotFound
	}
	switch {
	case errors.Is(err, errNotReady), errors.Is(err, summary.ErrNoAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, workload.ErrNotAuthenticated), errors.Is(err, workload.ErrConnect), api.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errors.Is(err, workload.ErrNoWorkspaces), errors.Is(err, workload.ErrUnknownTeam):
		return http.StatusNotFound
	case errors.Is(err, workload.ErrCycleInFlight), errors.Is(err, workload.ErrSuperseded),
		errors.Is(err, workload.ErrNothingToSummarize):
		return http.StatusConflict
	case errors.Is(err, workload.ErrFetchTasks), errors.Is(err, workload.ErrSummary):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Package workload drives the fetch cycles behind the dashboard: it loads
// the user and workspaces, runs serialized task refreshes and publishes
// immutable snapshots for the views to render.
package workload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/summary"
)

// Source is the subset of the ClickUp client the session needs.
type Source interface {
	GetUser(ctx context.Context) (*api.User, error)
	GetTeams(ctx context.Context) ([]api.Team, error)
	GetTasks(ctx context.Context, teamID string, q api.TaskQuery) ([]api.Task, error)
	GetTaskComments(ctx context.Context, taskID string) ([]api.Comment, error)
	UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (*api.Task, error)
}

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseUnauthenticated Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Trigger names what started a fetch cycle.
type Trigger string

const (
	TriggerInitial   Trigger = "initial"
	TriggerPoll      Trigger = "poll"
	TriggerManual    Trigger = "manual"
	TriggerWorkspace Trigger = "workspace"
)

// Options configures a Session.
type Options struct {
	TeamID     string // preferred workspace; falls back to the first team
	DaysBack   int
	Summarizer summary.Summarizer
	Logger     *log.Logger
	Now        func() time.Time
}

// Session owns the authenticated user, the workspace selection and the
// latest snapshot. All methods are safe for concurrent use.
type Session struct {
	opts Options
	log  *log.Logger

	mu       sync.Mutex
	src      Source
	phase    Phase
	user     *api.User
	teams    []api.Team
	teamIdx  int
	snapshot *Snapshot
	lastErr  error

	gen      uint64
	inflight context.CancelFunc
	inGen    uint64
}

// New returns an unauthenticated session.
func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Session{
		opts:    opts,
		log:     opts.Logger,
		teamIdx: -1,
	}
}

// Authenticate installs the client used by subsequent cycles.
func (s *Session) Authenticate(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.reset()
	s.src = src
}

// Logout cancels any running cycle and forgets the user.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.reset()
	s.log.Info("logged out")
}

func (s *Session) reset() {
	s.src = nil
	s.phase = PhaseUnauthenticated
	s.user = nil
	s.teams = nil
	s.teamIdx = -1
	s.snapshot = nil
	s.lastErr = nil
	s.gen++
}

func (s *Session) cancelLocked() {
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
}

// Start loads the user and workspaces, then runs the initial cycle.
func (s *Session) Start(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	src := s.src
	if src == nil {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	s.phase = PhaseLoading
	s.lastErr = nil
	s.mu.Unlock()

	var (
		user  *api.User
		teams []api.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := src.GetUser(gctx)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		t, err := src.GetTeams(gctx)
		if err != nil {
			return fmt.Errorf("get teams: %w", err)
		}
		teams = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(fmt.Errorf("%w: %w", ErrConnect, err))
	}

	s.mu.Lock()
	if s.src != src {
		// Logged out or re-authenticated while loading.
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.user = user
	if len(teams) == 0 {
		s.mu.Unlock()
		return nil, s.fail(ErrNoWorkspaces)
	}

	s.teams = teams
	s.teamIdx = 0
	for i, t := range teams {
		if t.ID == s.opts.TeamID {
			s.teamIdx = i
			break
		}
	}
	team := teams[s.teamIdx]
	s.mu.Unlock()

	s.log.Info("session started", "user", user.Username, "team", team.Name, "teams", len(teams))
	return s.Refresh(ctx, TriggerInitial)
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseFailed
	s.lastErr = err
	s.log.Error("load failed", "err", err)
	return err
}

// SelectTeam switches the active workspace. The caller runs a
// TriggerWorkspace refresh afterwards.
func (s *Session) SelectTeam(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.teams {
		if t.ID == id {
			s.teamIdx = i
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTeam, id)
}

// NextTeam selects the workspace after the current one, wrapping around.
func (s *Session) NextTeam() (api.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.teams) < 2 {
		return api.Team{}, false
	}
	s.teamIdx = (s.teamIdx + 1) % len(s.teams)
	return s.teams[s.teamIdx], true
}

// Refresh runs one fetch cycle and commits its snapshot.
//
// Only one cycle runs at a time. A poll that finds a cycle in flight is
// skipped with ErrCycleInFlight; any other trigger cancels the running
// cycle, which then returns ErrSuperseded. On failure the previous
// snapshot stays current.
func (s *Session) Refresh(ctx context.Context, trigger Trigger) (*Snapshot, error) {
	s.mu.Lock()
	if s.src == nil {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	if s.teamIdx < 0 || s.user == nil {
		s.mu.Unlock()
		return nil, ErrNoWorkspaces
	}
	if s.inflight != nil {
		if trigger == TriggerPoll {
			running := s.inGen
			s.mu.Unlock()
			s.log.Debug("poll skipped", "in_flight", running)
			return nil, ErrCycleInFlight
		}
		s.log.Debug("cancelling cycle", "generation", s.inGen, "trigger", trigger)
		s.inflight()
	}

	s.gen++
	gen := s.gen
	cctx, cancel := context.WithCancel(ctx)
	s.inflight = cancel
	s.inGen = gen
	src := s.src
	user := *s.user
	team := s.teams[s.teamIdx]
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inGen == gen {
			s.inflight = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	start := s.opts.Now()
	tasks, err := s.fetch(cctx, src, team.ID, user.ID.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.Debug("cycle superseded", "generation", gen, "latest", s.gen)
		return nil, ErrSuperseded
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetchTasks, err)
		s.lastErr = err
		if s.snapshot == nil {
			s.phase = PhaseFailed
		}
		s.log.Error("fetch cycle failed", "trigger", trigger, "generation", gen, "err", err)
		return nil, err
	}

	forest := organizer.Organize(tasks, user.ID.String())
	now := s.opts.Now()
	snap := &Snapshot{
		User:       user,
		Team:       team,
		Forest:     forest,
		RawCount:   len(tasks),
		Stats:      analytics.Compute(forest, user.ID.String(), now),
		UpdatedAt:  now,
		Generation: gen,
		Trigger:    trigger,
	}
	s.snapshot = snap
	s.lastErr = nil
	s.phase = PhaseReady

	s.log.Info("fetch cycle complete",
		"trigger", trigger,
		"generation", gen,
		"fetched", len(tasks),
		"kept", organizer.Count(forest),
		"took", now.Sub(start),
	)
	return snap, nil
}

// fetch runs the assigned-to-me and general queries in parallel and merges
// their results.
func (s *Session) fetch(ctx context.Context, src Source, teamID, userID string) ([]api.Task, error) {
	var assigned, general []api.Task

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assigned, err = src.GetTasks(gctx, teamID, api.TaskQuery{
			Assignees:     []string{userID},
			DaysBack:      s.opts.DaysBack,
			IncludeClosed: true,
			Subtasks:      true,
		})
		if err != nil {
			return fmt.Errorf("assigned tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		general, err = src.GetTasks(gctx, teamID, api.TaskQuery{
			DaysBack:      s.opts.DaysBack,
			IncludeClosed: true,
			Subtasks:      true,
		})
		if err != nil {
			return fmt.Errorf("recent tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return organizer.Merge(assigned, general), nil
}

// Comments loads the comments of a task.
func (s *Session) Comments(ctx context.Context, taskID string) ([]api.Comment, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	return src.GetTaskComments(ctx, taskID)
}

// UpdateTask applies req to a task.
func (s *Session) UpdateTask(ctx context.Context, taskID string, req api.UpdateTaskRequest) (*api.Task, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	return src.UpdateTask(ctx, taskID, req)
}

// Summarize asks the summarizer about the tasks of the current snapshot.
func (s *Session) Summarize(ctx context.Context) (string, error) {
	snap := s.Snapshot()
	if snap == nil {
		return "", ErrFetchTasks
	}
	if s.opts.Summarizer == nil {
		return "", summary.ErrNoAPIKey
	}

	tasks := organizer.Flatten(snap.Forest)
	if len(tasks) == 0 {
		return "", ErrNothingToSummarize
	}

	text, err := s.opts.Summarizer.Summarize(ctx, tasks, snap.User.Username)
	if err != nil {
		if errors.Is(err, summary.ErrNoAPIKey) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrSummary, err)
	}
	return text, nil
}

func (s *Session) source() (Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.src == nil {
		return nil, ErrNotAuthenticated
	}
	return s.src, nil
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Snapshot returns the latest committed snapshot, or nil.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Err returns the error of the most recent failed operation, if it has not
// been cleared by a successful cycle since.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// User returns the authenticated user, or nil before Start.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Teams returns the workspaces available to the user.
func (s *Session) Teams() []api.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Team(nil), s.teams...)
}

// Team returns the selected workspace.
func (s *Session) Team() (api.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teamIdx < 0 || s.teamIdx >= len(s.teams) {
		return api.Team{}, false
	}
	return s.teams[s.teamIdx], true
}

// Authenticated reports whether a client has been installed.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src != nil
}

// Busy reports whether a fetch cycle is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight != nil
}

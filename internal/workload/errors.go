package workload

import (
	"errors"

	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/summary"
)

var (
	// ErrNotAuthenticated is returned when no token has been supplied.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrConnect wraps failures while loading the user or workspaces.
	ErrConnect = errors.New("failed to connect to ClickUp")
	// ErrNoWorkspaces means the user belongs to no team.
	ErrNoWorkspaces = errors.New("no workspaces found")
	// ErrUnknownTeam is returned by SelectTeam for an id not in the team list.
	ErrUnknownTeam = errors.New("unknown workspace")
	// ErrFetchTasks wraps failures of the task queries.
	ErrFetchTasks = errors.New("failed to fetch tasks")
	// ErrCycleInFlight is returned to a poll tick while another cycle runs.
	ErrCycleInFlight = errors.New("fetch cycle already in flight")
	// ErrSuperseded is returned by a cycle that lost to a newer one.
	ErrSuperseded = errors.New("fetch cycle superseded")
	// ErrNothingToSummarize is returned by Summarize when the dashboard is empty.
	ErrNothingToSummarize = errors.New("no tasks to summarize")
	// ErrSummary wraps summarizer failures other than a missing key.
	ErrSummary = errors.New("failed to generate summary")
)

// User-facing messages.
const (
	MsgConnect      = "Failed to connect to ClickUp. Check your API Token."
	MsgNoWorkspaces = "No workspaces found for this user."
	MsgFetchTasks   = "Failed to fetch tasks. Ensure you have permissions."
	MsgNoAIKey      = "AI summary unavailable: set GEMINI_API_KEY."
	MsgSummary      = "Failed to generate AI summary."
	MsgNoTasks      = "No tasks to summarize."
)

// UserMessage maps an error to the single line shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrConnect), api.IsUnauthorized(err):
		return MsgConnect
	case errors.Is(err, ErrNoWorkspaces):
		return MsgNoWorkspaces
	case errors.Is(err, summary.ErrNoAPIKey):
		return MsgNoAIKey
	case errors.Is(err, ErrNothingToSummarize):
		return MsgNoTasks
	case errors.Is(err, ErrSummary):
		return MsgSummary
	case errors.Is(err, ErrFetchTasks):
		return MsgFetchTasks
	default:
		return err.Error()
	}
}

// IsBenign reports whether err only means a cycle was skipped or replaced.
func IsBenign(err error) bool {
	return errors.Is(err, ErrCycleInFlight) || errors.Is(err, ErrSuperseded)
}

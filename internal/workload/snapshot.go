package workload

import (
	"time"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/organizer"
)

// Snapshot is the committed result of one fetch cycle. It is never mutated
// after commit; callers may share it freely.
type Snapshot struct {
	User       api.User          `json:"user"`
	Team       api.Team          `json:"team"`
	Forest     []*organizer.Node `json:"tasks"`
	RawCount   int               `json:"raw_count"`
	Stats      analytics.Stats   `json:"stats"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Generation uint64            `json:"generation"`
	Trigger    Trigger           `json:"trigger"`
}

// Filtered returns the forest narrowed by f.
func (s *Snapshot) Filtered(f analytics.Filter) []*organizer.Node {
	if s == nil {
		return nil
	}
	return f.Apply(s.Forest, s.User.ID.String())
}

// HiddenByFilters reports whether tasks were fetched but f hides all of them.
func (s *Snapshot) HiddenByFilters(f analytics.Filter) bool {
	return s != nil && s.RawCount > 0 && len(s.Filtered(f)) == 0
}

// NewAssignments returns tasks in next assigned to the user that were not
// assigned to them in prev. A nil prev or a workspace change yields nothing
// so the first load never notifies.
func NewAssignments(prev, next *Snapshot) []api.Task {
	if prev == nil || next == nil || prev.Team.ID != next.Team.ID {
		return nil
	}

	userID := next.User.ID.String()
	before := make(map[string]bool)
	organizer.Walk(prev.Forest, func(n *organizer.Node, _ int) {
		if assignedTo(&n.Task, userID) {
			before[n.Task.ID] = true
		}
	})

	var fresh []api.Task
	organizer.Walk(next.Forest, func(n *organizer.Node, _ int) {
		if assignedTo(&n.Task, userID) && !before[n.Task.ID] {
			fresh = append(fresh, n.Task)
		}
	})
	return fresh
}

func assignedTo(t *api.Task, userID string) bool {
	for _, a := range t.Assignees {
		if a.ID.String() == userID {
			return true
		}
	}
	return false
}

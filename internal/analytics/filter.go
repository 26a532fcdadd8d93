package analytics

import (
	"strings"

	"github.com/hy4ri/clickup-tui/internal/organizer"
)

// Filter narrows the organized forest for display. The zero value shows
// every task the organizer kept.
type Filter struct {
	OnlyMine        bool // assigned to me
	IncludeCreated  bool // with OnlyMine: also tasks I created
	IncludeFollowed bool // with OnlyMine: also tasks I watch
	Search          string
}

// Active reports whether the filter hides anything.
func (f Filter) Active() bool {
	return f.OnlyMine || strings.TrimSpace(f.Search) != ""
}

// matches reports whether a single node passes the filter on its own.
func (f Filter) matches(n *organizer.Node, userID string) bool {
	if f.OnlyMine {
		switch Classify(&n.Task, userID) {
		case CategoryAssigned:
		case CategoryCreated:
			if !f.IncludeCreated {
				return false
			}
		case CategoryWatching:
			if !f.IncludeFollowed {
				return false
			}
		default:
			return false
		}
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		t := n.Task
		hay := strings.ToLower(t.Name + " " + t.Status.Status + " " + t.List.Name)
		if t.CustomID != nil {
			hay += " " + strings.ToLower(*t.CustomID)
		}
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// Apply returns a filtered copy of roots. A node is kept if it matches or a
// descendant matches; kept nodes carry only their kept subtasks. The input
// forest is not modified.
func (f Filter) Apply(roots []*organizer.Node, userID string) []*organizer.Node {
	if !f.Active() {
		return roots
	}

	var prune func(nodes []*organizer.Node) []*organizer.Node
	prune = func(nodes []*organizer.Node) []*organizer.Node {
		var out []*organizer.Node
		for _, n := range nodes {
			subs := prune(n.Subtasks)
			if len(subs) > 0 || f.matches(n, userID) {
				out = append(out, &organizer.Node{Task: n.Task, Subtasks: subs})
			}
		}
		return out
	}
	return prune(roots)
}

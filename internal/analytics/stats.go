// Package analytics computes dashboard counters and display filters over an
// organized task forest.
package analytics

import (
	"sort"
	"time"

	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/organizer"
)

// Category describes how a task relates to the current user.
type Category string

const (
	CategoryAssigned Category = "assigned"
	CategoryCreated  Category = "created"
	CategoryWatching Category = "watching"
	CategoryContext  Category = "context" // shown only because of a relevant relative
)

// dueSoonWindow is the horizon for the "due soon" counter.
const dueSoonWindow = 7 * 24 * time.Hour

// Bucket is a labelled counter.
type Bucket struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

// Stats summarises a forest for the dashboard header.
type Stats struct {
	Total      int              `json:"total"`
	Open       int              `json:"open"`
	Closed     int              `json:"closed"`
	Overdue    int              `json:"overdue"`
	DueSoon    int              `json:"due_soon"`
	ByStatus   []Bucket         `json:"by_status"`
	ByPriority []Bucket         `json:"by_priority"`
	ByCategory map[Category]int `json:"by_category"`
}

// Classify returns the strongest relation between t and userID.
// Assigned beats created, which beats watching.
func Classify(t *api.Task, userID string) Category {
	for _, u := range t.Assignees {
		if u.ID.String() == userID {
			return CategoryAssigned
		}
	}
	if t.Creator.ID.String() == userID {
		return CategoryCreated
	}
	for _, u := range t.Watchers {
		if u.ID.String() == userID {
			return CategoryWatching
		}
	}
	return CategoryContext
}

// Compute walks every node of roots and tallies the counters.
func Compute(roots []*organizer.Node, userID string, now time.Time) Stats {
	s := Stats{ByCategory: make(map[Category]int)}

	status := make(map[string]*Bucket)
	priority := make(map[string]*Bucket)

	organizer.Walk(roots, func(n *organizer.Node, _ int) {
		t := &n.Task
		s.Total++

		if t.IsClosed() {
			s.Closed++
		} else {
			s.Open++
			if due, ok := t.Due(); ok {
				switch {
				case due.Before(now):
					s.Overdue++
				case due.Sub(now) <= dueSoonWindow:
					s.DueSoon++
				}
			}
		}

		name := t.Status.Status
		if name == "" {
			name = "unknown"
		}
		if b, ok := status[name]; ok {
			b.Count++
		} else {
			status[name] = &Bucket{Label: name, Color: t.Status.Color, Count: 1}
		}

		pname := t.PriorityLabel()
		if b, ok := priority[pname]; ok {
			b.Count++
		} else {
			color := ""
			if t.Priority != nil {
				color = t.Priority.Color
			}
			priority[pname] = &Bucket{Label: pname, Color: color, Count: 1}
		}

		s.ByCategory[Classify(t, userID)]++
	})

	s.ByStatus = sortedBuckets(status)
	s.ByPriority = sortedBuckets(priority)
	return s
}

// sortedBuckets orders buckets by count, then label.
func sortedBuckets(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

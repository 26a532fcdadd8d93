// Package organizer rebuilds the parent/child hierarchy of a flat task list
// and narrows it to the tasks that matter to one user.
package organizer

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hy4ri/clickup-tui/internal/api"
)

// Node is a task placed in the hierarchy.
type Node struct {
	Task     api.Task `json:"task"`
	Subtasks []*Node  `json:"subtasks,omitempty"`
}

// Organize builds a forest from tasks and keeps only the roots that are
// relevant to userID or have a relevant descendant. Below a kept root nothing
// is pruned. Siblings are ordered by OrderValue at every level.
//
// tasks must already be de-duplicated by id (see Merge); on a duplicate id the
// last occurrence wins the index slot and earlier ones are dropped.
func Organize(tasks []api.Task, userID string) []*Node {
	roots := Build(tasks)

	kept := make([]*Node, 0, len(roots))
	for _, root := range roots {
		if HasRelevant(root, userID) {
			kept = append(kept, root)
		}
	}

	SortForest(kept)
	return kept
}

// Build links tasks into a forest without filtering or sorting. Tasks whose
// parent is missing from the input, or whose parent chain loops back on
// itself, become roots. Every input task appears exactly once.
func Build(tasks []api.Task) []*Node {
	nodes := make([]Node, len(tasks))
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		nodes[i].Task = t
		index[t.ID] = i
	}

	// parent[i] is the arena index of i's parent, or -1 for a root.
	parent := make([]int, len(tasks))
	for i, t := range tasks {
		parent[i] = -1
		if index[t.ID] != i {
			parent[i] = -2 // shadowed duplicate
			continue
		}
		if p, ok := index[t.ParentID()]; ok && t.ParentID() != "" {
			parent[i] = p
		}
	}

	breakCycles(parent)

	var roots []*Node
	for i := range nodes {
		switch p := parent[i]; {
		case p == -2:
		case p == -1:
			roots = append(roots, &nodes[i])
		default:
			nodes[p].Subtasks = append(nodes[p].Subtasks, &nodes[i])
		}
	}
	return roots
}

// breakCycles detaches any task whose ancestor walk returns to itself, in
// input order, so the first task reached in a loop becomes its root.
func breakCycles(parent []int) {
	// 0 = unvisited, 1 = on current walk, 2 = known to reach a root
	state := make([]uint8, len(parent))
	for start := range parent {
		var walk []int
		i := start
		for i >= 0 && state[i] == 0 {
			state[i] = 1
			walk = append(walk, i)
			i = parent[i]
		}
		if i >= 0 && state[i] == 1 {
			parent[i] = -1
		}
		for _, w := range walk {
			state[w] = 2
		}
	}
}

// IsRelevant reports whether userID is an assignee, the creator, or a
// watcher of t. Ids are compared as strings.
func IsRelevant(t *api.Task, userID string) bool {
	if userID == "" {
		return false
	}
	for _, u := range t.Assignees {
		if u.ID.String() == userID {
			return true
		}
	}
	if t.Creator.ID.String() == userID {
		return true
	}
	for _, u := range t.Watchers {
		if u.ID.String() == userID {
			return true
		}
	}
	return false
}

// HasRelevant reports whether n or any descendant is relevant to userID.
func HasRelevant(n *Node, userID string) bool {
	if IsRelevant(&n.Task, userID) {
		return true
	}
	for _, sub := range n.Subtasks {
		if HasRelevant(sub, userID) {
			return true
		}
	}
	return false
}

// SortForest orders every sibling list by ascending OrderValue, recursively.
func SortForest(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return OrderValue(nodes[i].Task.OrderIndex) < OrderValue(nodes[j].Task.OrderIndex)
	})
	for _, n := range nodes {
		if len(n.Subtasks) > 0 {
			SortForest(n.Subtasks)
		}
	}
}

// OrderValue parses the leading number of an order index, so "12abc" is 12
// and an overflowing exponent is ±Inf. Values with no leading number sort as 0.
func OrderValue(s api.FlexString) float64 {
	prefix := numericPrefix(strings.TrimSpace(string(s)))
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// numericPrefix returns the longest prefix of s that reads as a decimal
// number, or "" when there is none.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return s[:i] + "Inf"
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Flatten returns the forest in pre-order.
func Flatten(roots []*Node) []api.Task {
	var out []api.Task
	Walk(roots, func(n *Node, _ int) {
		out = append(out, n.Task)
	})
	return out
}

// Walk visits every node in pre-order with its depth (roots are 0).
func Walk(roots []*Node, fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, sub := range n.Subtasks {
			visit(sub, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	n := 0
	Walk(roots, func(*Node, int) { n++ })
	return n
}

// Find returns the node with the given task id.
func Find(roots []*Node, id string) (*Node, bool) {
	var found *Node
	Walk(roots, func(n *Node, _ int) {
		if found == nil && n.Task.ID == id {
			found = n
		}
	})
	return found, found != nil
}

package organizer

import "github.com/hy4ri/clickup-tui/internal/api"

// Merge combines the assigned-to-me and general task queries into one list
// de-duplicated by id. The assigned version wins on collision; order is the
// order in which ids were first seen (general first).
func Merge(assigned, general []api.Task) []api.Task {
	index := make(map[string]int, len(general)+len(assigned))
	merged := make([]api.Task, 0, len(general)+len(assigned))

	put := func(t api.Task) {
		if i, ok := index[t.ID]; ok {
			merged[i] = t
			return
		}
		index[t.ID] = len(merged)
		merged = append(merged, t)
	}

	for _, t := range general {
		put(t)
	}
	for _, t := range assigned {
		put(t)
	}
	return merged
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hy4ri/clickup-tui/internal/analytics"
	"github.com/hy4ri/clickup-tui/internal/organizer"
	"github.com/hy4ri/clickup-tui/internal/tui/state"
	"github.com/hy4ri/clickup-tui/internal/tui/styles"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// renderDashboard renders header, stats, task tree and status bar.
func (r *Renderer) renderDashboard() string {
	header := r.renderHeader()
	stats := r.renderStats()
	status := r.renderStatusBar()

	treeHeight := r.Height - lipgloss.Height(header) - lipgloss.Height(stats) - lipgloss.Height(status)
	tree := lipgloss.NewStyle().
		Height(max(treeHeight, 1)).
		MaxHeight(max(treeHeight, 1)).
		Render(r.renderTree(max(treeHeight, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, header, stats, tree, status)
}

// renderHeader renders the workspace, user, sync state and filter badges.
func (r *Renderer) renderHeader() string {
	snap := r.Snapshot
	parts := []string{styles.Workspace.Render(snap.Team.Name)}

	if r.Fetching {
		parts = append(parts, r.Spinner.View()+styles.Faint.Render(" syncing"))
	} else {
		parts = append(parts, styles.Live.Render("● Live"))
	}
	if !snap.UpdatedAt.IsZero() {
		parts = append(parts, styles.Faint.Render("updated "+humanize.RelTime(snap.UpdatedAt, r.now(), "ago", "from now")))
	}

	if chips := filterChips(r.Filter); chips != "" {
		parts = append(parts, styles.Faint.Render(chips))
	}
	if snap.HiddenByFilters(r.Filter) {
		parts = append(parts, styles.Badge.Render("Hidden by Filters"))
	}

	left := strings.Join(parts, "  ")
	right := styles.Subtitle.Render(snap.User.Username)
	if snap.User.Username == "" {
		right = ""
	}

	spacing := r.Width - lipgloss.Width(left) - lipgloss.Width(right) - styles.Header.GetHorizontalFrameSize()
	if spacing < 1 {
		spacing = 1
	}
	return styles.Header.Width(r.Width).Render(left + strings.Repeat(" ", spacing) + right)
}

func filterChips(f analytics.Filter) string {
	var chips []string
	if f.OnlyMine {
		chip := "mine"
		if f.IncludeCreated {
			chip += "+created"
		}
		if f.IncludeFollowed {
			chip += "+following"
		}
		chips = append(chips, "["+chip+"]")
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		chips = append(chips, fmt.Sprintf("[/%s]", q))
	}
	return strings.Join(chips, " ")
}

// renderStats renders the counters line.
func (r *Renderer) renderStats() string {
	s := r.Snapshot.Stats

	stat := func(label string, value int, style lipgloss.Style) string {
		return styles.Stat.Render(style.Render(fmt.Sprint(value)) + " " + styles.Faint.Render(label))
	}

	items := []string{
		stat("tasks", s.Total, styles.StatValue),
		stat("open", s.Open, styles.StatValue),
		stat("overdue", s.Overdue, styles.StatValue.Foreground(styles.ErrorColor)),
		stat("due soon", s.DueSoon, styles.StatValue.Foreground(styles.WarningColor)),
		stat("closed", s.Closed, styles.StatValue),
		stat("assigned", s.ByCategory[analytics.CategoryAssigned], styles.StatValue),
		stat("created", s.ByCategory[analytics.CategoryCreated], styles.StatValue),
		stat("watching", s.ByCategory[analytics.CategoryWatching], styles.StatValue),
	}

	line := " " + strings.Join(items, "")
	if len(s.ByStatus) > 0 {
		var statuses []string
		for i, b := range s.ByStatus {
			if i == 3 {
				break
			}
			statuses = append(statuses, styles.StatusDot(b.Color)+" "+b.Label+" "+fmt.Sprint(b.Count))
		}
		line += "\n " + strings.Join(statuses, "   ")
	}
	return line
}

// renderTree renders the visible window of task rows.
func (r *Renderer) renderTree(height int) string {
	if len(r.Rows) == 0 {
		return r.renderEmpty()
	}

	offset := 0
	if r.Cursor >= height {
		offset = r.Cursor - height + 1
	}
	end := min(offset+height, len(r.Rows))

	userID := r.UserID()
	now := r.now()
	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, r.renderRow(r.Rows[i], i == r.Cursor, userID, now))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderEmpty() string {
	var msg string
	switch {
	case r.Snapshot.HiddenByFilters(r.Filter):
		msg = "All tasks are hidden by the current filters. Press m, c, f or / to adjust."
	case r.Snapshot.RawCount == 0:
		msg = "No recently updated tasks in this workspace."
	default:
		msg = "Nothing here involves you right now."
	}
	return "\n  " + styles.Faint.Render(msg)
}

// renderRow renders a single tree line.
func (r *Renderer) renderRow(row state.Row, selected bool, userID string, now time.Time) string {
	t := &row.Node.Task

	fold := "  "
	if row.HasChildren {
		fold = "▾ "
		if row.Collapsed {
			fold = "▸ "
		}
	}
	prefix := strings.Repeat("  ", row.Depth) + fold + styles.StatusDot(t.Status.Color) + " "

	var meta []string
	if t.Priority != nil {
		meta = append(meta, styles.PriorityStyle(t.Priority.ID).Render("⚑ "+t.PriorityLabel()))
	}
	dueText := ""
	if due, ok := t.Due(); ok {
		dueText = due.Format("Jan 2")
		if t.IsOverdue(now) {
			meta = append(meta, styles.TaskDueOverdue.Render(dueText))
		} else {
			meta = append(meta, styles.TaskDue.Render(dueText))
		}
	}
	if row.Collapsed {
		meta = append(meta, styles.TaskMeta.Render(fmt.Sprintf("+%d", countBelow(row))))
	}
	suffix := strings.Join(meta, " ")

	available := r.Width - lipgloss.Width(prefix) - lipgloss.Width(suffix) - 6
	name := truncateString(t.Name, available)

	nameStyle := lipgloss.NewStyle()
	switch {
	case t.IsClosed():
		nameStyle = styles.TaskClosed
	case analytics.Classify(t, userID) == analytics.CategoryContext:
		nameStyle = styles.TaskContext
	}

	line := prefix + nameStyle.Render(padRight(name, max(available, 0))) + " " + suffix
	if selected {
		return styles.TaskSelected.Render(line)
	}
	return styles.TaskItem.Render(line)
}

func countBelow(row state.Row) int {
	return organizer.Count(row.Node.Subtasks)
}

// renderStatusBar renders errors, status messages, the search input and key hints.
func (r *Renderer) renderStatusBar() string {
	right := styles.StatusBarText.Render(r.HelpComp.ShortView())
	padding := styles.StatusBar.GetHorizontalFrameSize()
	room := max(r.Width-lipgloss.Width(right)-padding-2, 10)

	left := ""
	switch {
	case r.IsSearching:
		left = styles.StatusBarKey.Render("/") + styles.StatusBarText.Render(truncateString(r.SearchInput.Value(), room-2)+"▏")
	case r.Err != nil:
		left = styles.StatusBarError.Render(truncateString(workload.UserMessage(r.Err), room))
	case r.StatusMsg != "":
		left = styles.StatusBarSuccess.Render(truncateString(strings.ReplaceAll(r.StatusMsg, "\n", " "), room))
	}

	spacing := r.Width - lipgloss.Width(left) - lipgloss.Width(right) - padding
	if spacing < 0 {
		spacing = 0
	}
	return styles.StatusBar.Width(r.Width).Render(left + strings.Repeat(" ", spacing) + right)
}

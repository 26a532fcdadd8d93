package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/hy4ri/clickup-tui/internal/api"
)

// maxPromptTasks caps how many tasks are listed in the prompt.
const maxPromptTasks = 150

const systemPrompt = `You are a concise project analyst. Given a person's ClickUp tasks, write a short
briefing addressed to them: what needs attention first (overdue or urgent work),
what is in progress, and any obvious risks. Use at most 6 bullet points and no headings.`

// BuildPrompt renders tasks as one line each for the model.
func BuildPrompt(tasks []api.Task, username string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User: %s\n", username)
	fmt.Fprintf(&b, "Today: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Tasks (%d):\n", len(tasks))

	for i, t := range tasks {
		if i == maxPromptTasks {
			fmt.Fprintf(&b, "... and %d more\n", len(tasks)-maxPromptTasks)
			break
		}

		line := fmt.Sprintf("- %s [status: %s, priority: %s", t.Name, statusName(t), t.PriorityLabel())
		if due, ok := t.Due(); ok {
			line += ", due: " + due.In(now.Location()).Format("2006-01-02")
			if t.IsOverdue(now) {
				line += " (overdue)"
			}
		}
		if t.List.Name != "" {
			line += ", list: " + t.List.Name
		}
		if t.Parent != nil {
			line += ", subtask"
		}
		b.WriteString(line + "]\n")
	}

	return b.String()
}

func statusName(t api.Task) string {
	if t.Status.Status == "" {
		return "unknown"
	}
	return t.Status.Status
}

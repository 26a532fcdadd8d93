package logic

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"github.com/hy4ri/clickup-tui/internal/api"
)

// maxNotifications caps individual alerts per cycle; beyond it one summary
// notification is sent instead.
const maxNotifications = 3

const notifyTitle = "ClickUp"

// notify sends a desktop notification. Replaced in tests.
var notify = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// notifyCmd alerts the user about tasks newly assigned to them.
func notifyCmd(tasks []api.Task) tea.Cmd {
	if len(tasks) == 0 {
		return nil
	}

	var messages []string
	if len(tasks) > maxNotifications {
		messages = []string{fmt.Sprintf("%d new tasks assigned to you", len(tasks))}
	} else {
		for _, t := range tasks {
			messages = append(messages, "New task assigned: "+t.Name)
		}
	}

	return func() tea.Msg {
		for _, m := range messages {
			if err := notify(notifyTitle, m); err != nil {
				log.Warn("failed to send notification", "err", err)
			}
		}
		log.Debug("sent notifications", "tasks", len(tasks))
		return nil
	}
}

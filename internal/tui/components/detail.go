package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/tui/styles"
)

// DetailModel displays one task with its comments in a scrollable panel.
type DetailModel struct {
	task            *api.Task
	comments        []api.Comment
	loadingComments bool
	commentsErr     error
	now             func() time.Time

	viewport      viewport.Model
	width, height int
}

// NewDetail creates a new DetailModel.
func NewDetail() *DetailModel {
	return &DetailModel{
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
}

// Init implements Component.
func (d *DetailModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (d *DetailModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q":
			return d, func() tea.Msg { return CloseRequestMsg{} }
		case "j":
			d.viewport.LineDown(1)
			return d, nil
		case "k":
			d.viewport.LineUp(1)
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View implements Component.
func (d *DetailModel) View() string {
	if d.task == nil {
		return ""
	}
	footer := styles.HelpDesc.Render("j/k scroll • y copy link • esc close")
	return styles.DetailPanel.
		Width(d.width - 2).
		Render(d.viewport.View() + "\n" + footer)
}

// SetSize implements Component.
func (d *DetailModel) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.viewport.Width = max(width-4, 10)
	d.viewport.Height = max(height-3, 3)
	d.refresh()
}

// SetTask sets the task to display and resets comments.
func (d *DetailModel) SetTask(task *api.Task) {
	d.task = task
	d.comments = nil
	d.commentsErr = nil
	d.loadingComments = task != nil
	d.viewport.GotoTop()
	d.refresh()
}

// SetComments sets the comments for the task.
func (d *DetailModel) SetComments(comments []api.Comment, err error) {
	d.comments = comments
	d.commentsErr = err
	d.loadingComments = false
	d.refresh()
}

// SetClock overrides the time source used for relative dates.
func (d *DetailModel) SetClock(now func() time.Time) {
	d.now = now
	d.refresh()
}

// Task returns the current task.
func (d *DetailModel) Task() *api.Task {
	return d.task
}

// Content returns the unscrolled panel body.
func (d *DetailModel) Content() string {
	if d.task == nil {
		return ""
	}
	return d.render()
}

func (d *DetailModel) refresh() {
	d.viewport.SetContent(d.Content())
}

func (d *DetailModel) render() string {
	t := d.task
	now := d.now()
	wrap := lipgloss.NewStyle().Width(max(d.viewport.Width, 10))

	var b strings.Builder
	b.WriteString(styles.Title.Render(t.Name))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.DetailLabel.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("Status", styles.StatusDot(t.Status.Color)+" "+t.Status.Status)
	if t.Priority != nil {
		field("Priority", styles.PriorityStyle(t.Priority.ID).Render(t.PriorityLabel()))
	}
	if due, ok := t.Due(); ok {
		value := due.Format("Mon Jan 2 15:04") + " (" + humanize.RelTime(due, now, "ago", "from now") + ")"
		if t.IsOverdue(now) {
			value = styles.TaskDueOverdue.UnsetPaddingLeft().Render(value)
		}
		field("Due", value)
	}
	field("Assignees", userNames(t.Assignees))
	field("Creator", t.Creator.Username)
	field("Watchers", userNames(t.Watchers))
	field("List", location(t))
	if updated, ok := t.Updated(); ok {
		field("Updated", humanize.RelTime(updated, now, "ago", "from now"))
	}
	if len(t.Attachments) > 0 {
		field("Files", fmt.Sprintf("%d attached", len(t.Attachments)))
	}
	field("Link", t.URL)

	if desc := description(t); desc != "" {
		b.WriteString("\n")
		b.WriteString(styles.Subtitle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(styles.DetailDescription.Inherit(wrap).Render(desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case d.loadingComments:
		b.WriteString(styles.Subtitle.Render("Comments"))
		b.WriteString("\n")
		b.WriteString(styles.HelpDesc.Render("Loading comments..."))
	case d.commentsErr != nil:
		b.WriteString(styles.Subtitle.Render("Comments"))
		b.WriteString("\n")
		b.WriteString(styles.StatusBarError.UnsetBackground().Render("Could not load comments"))
	default:
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("Comments (%d)", len(d.comments))))
		b.WriteString("\n")
		for _, c := range d.comments {
			author := c.User.Username
			if posted, ok := api.ParseMillis(&c.Date); ok {
				author += " · " + humanize.RelTime(posted, now, "ago", "from now")
			}
			b.WriteString(styles.CommentAuthor.Render(author))
			b.WriteString("\n")
			b.WriteString(styles.CommentContent.Inherit(wrap).Render(strings.TrimSpace(c.Text())))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func description(t *api.Task) string {
	if t.TextContent != nil && strings.TrimSpace(*t.TextContent) != "" {
		return strings.TrimSpace(*t.TextContent)
	}
	if t.Description != nil {
		return strings.TrimSpace(*t.Description)
	}
	return ""
}

func userNames(users []api.User) string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return strings.Join(names, ", ")
}

func location(t *api.Task) string {
	parts := make([]string, 0, 3)
	for _, name := range []string{t.Project.Name, t.Folder.Name, t.List.Name} {
		if name != "" && name != "hidden" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " / ")
}

// Package styles provides Lip Gloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal-adaptive colors. The active theme decides which side is used.
var (
	// Subtle is a muted color for secondary text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Highlight is the accent color (ClickUp purple)
	Highlight = lipgloss.AdaptiveColor{Light: "#7B68EE", Dark: "#9D8CFF"}

	ErrorColor   = lipgloss.AdaptiveColor{Light: "#D0021B", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFCC66"}

	barBackground = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}
	selectedBg    = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"}
)

// ClickUp priority colors, keyed by priority id (1 = urgent).
var priorityColors = map[string]lipgloss.Color{
	"1": lipgloss.Color("#F50000"),
	"2": lipgloss.Color("#FFCC00"),
	"3": lipgloss.Color("#6FDDFF"),
	"4": lipgloss.Color("#D8D8D8"),
}

// Base styles
var (
	App = lipgloss.NewStyle().
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)

	Faint = lipgloss.NewStyle().
		Foreground(Subtle)
)

// Header styles
var (
	Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Subtle).
		PaddingLeft(1).
		PaddingRight(1)

	Workspace = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Highlight).
			Padding(0, 1)

	Live = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true)

	// Badge flags a state the user should notice, like filters hiding everything.
	Badge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(WarningColor).
		Padding(0, 1).
		Bold(true)

	Stat = lipgloss.NewStyle().
		PaddingRight(2)

	StatValue = lipgloss.NewStyle().
			Bold(true)
)

// Task tree styles
var (
	TaskItem = lipgloss.NewStyle().
			PaddingLeft(2)

	TaskSelected = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeftForeground(Highlight).
			Bold(true).
			Background(selectedBg)

	TaskClosed = lipgloss.NewStyle().
			Faint(true).
			Strikethrough(true)

	TaskContext = lipgloss.NewStyle().
			Foreground(Subtle)

	TaskDue = lipgloss.NewStyle().
		Foreground(Subtle).
		PaddingLeft(1)

	TaskDueOverdue = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(1)

	TaskMeta = lipgloss.NewStyle().
			Foreground(Subtle).
			PaddingLeft(1)
)

// StatusBar styles
var (
	StatusBar = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(barBackground).
			Padding(0, 1)

	StatusBarKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Background(barBackground)

	StatusBarText = lipgloss.NewStyle().
			Foreground(Subtle).
			Background(barBackground)

	StatusBarError = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Background(barBackground).
			Bold(true)

	StatusBarSuccess = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Background(barBackground).
				Bold(true)
)

// Help styles
var (
	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Subtle)
)

// Input styles
var (
	InputFocused = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	InputLabel = lipgloss.NewStyle().
			Bold(true)
)

// Dialog styles
var (
	Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Highlight).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight)

	DialogError = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(1, 2)
)

var (
	Spinner = lipgloss.NewStyle().
		Foreground(Highlight)

	SectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle).
			Underline(true)
)

// Task Detail styles
var (
	DetailPanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	DetailLabel = lipgloss.NewStyle().
			Foreground(Subtle).
			Bold(true).
			Width(10)

	DetailDescription = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#CCCCCC"})

	CommentAuthor = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true)

	CommentContent = lipgloss.NewStyle().
			PaddingLeft(2)
)

// StatusDot renders a bullet in a ClickUp status color.
func StatusDot(color string) string {
	if color == "" {
		return Faint.Render("●")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// PriorityStyle returns the style for a ClickUp priority id.
func PriorityStyle(id string) lipgloss.Style {
	if c, ok := priorityColors[id]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(Subtle)
}

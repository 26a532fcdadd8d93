package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/clickup-tui/internal/config"
	"github.com/hy4ri/clickup-tui/internal/tui/styles"
)

func (r *Renderer) dialogWidth() int {
	return min(max(r.Width-10, 20), 80)
}

// renderShare renders the share dialog.
func (r *Renderer) renderShare() string {
	url := config.DefaultShareURL
	if r.Config != nil && r.Config.Share.URL != "" {
		url = r.Config.Share.URL
	}

	status := styles.Faint.Render("Press enter to copy the link")
	if r.ShareCopied {
		status = styles.Live.Render("✓ Link copied to clipboard")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render("Share"),
		"",
		"Send this to a teammate:",
		styles.Subtitle.Render(url),
		"",
		status,
		"",
		styles.HelpDesc.Render("enter copy • esc close"),
	)
	return styles.Dialog.Render(body)
}

// renderSummary renders the AI summary dialog.
func (r *Renderer) renderSummary() string {
	width := r.dialogWidth() - styles.Dialog.GetHorizontalFrameSize()

	text := r.Summary
	if r.SummaryLoading {
		text = r.Spinner.View() + " Summarizing your tasks..."
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render("AI Summary"),
		"",
		lipgloss.NewStyle().Width(width).Render(text),
		"",
		styles.HelpDesc.Render("esc close"),
	)
	return styles.Dialog.Render(body)
}

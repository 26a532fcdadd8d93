package components

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/clickup-tui/internal/tui/styles"
)

// HelpModel renders every key binding in a dialog.
type HelpModel struct {
	help          help.Model
	keys          help.KeyMap
	width, height int
}

// NewHelp creates a new HelpModel for keys.
func NewHelp(keys help.KeyMap) *HelpModel {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = styles.HelpKey
	h.Styles.FullDesc = styles.HelpDesc
	h.Styles.ShortKey = styles.HelpKey
	h.Styles.ShortDesc = styles.HelpDesc
	return &HelpModel{help: h, keys: keys}
}

// Init implements Component.
func (h *HelpModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (h *HelpModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return CloseRequestMsg{} }
		}
	}
	return h, nil
}

// View implements Component.
func (h *HelpModel) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render("Keyboard Shortcuts"),
		"",
		h.help.View(h.keys),
	)
	return styles.Dialog.Render(body)
}

// ShortView renders the one-line hint used in the status bar.
func (h *HelpModel) ShortView() string {
	short := h.help
	short.ShowAll = false
	return short.View(h.keys)
}

// SetSize implements Component.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.help.Width = width
}

// Package tui provides the terminal dashboard for ClickUp.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/clickup-tui/internal/config"
	"github.com/hy4ri/clickup-tui/internal/tui/components"
	"github.com/hy4ri/clickup-tui/internal/tui/logic"
	"github.com/hy4ri/clickup-tui/internal/tui/state"
	"github.com/hy4ri/clickup-tui/internal/tui/styles"
	"github.com/hy4ri/clickup-tui/internal/tui/ui"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

// Model is the root Bubble Tea model. It routes messages to the logic
// handler and renders through the ui renderer; both share one State.
type Model struct {
	state    *state.State
	handler  *logic.Handler
	renderer *ui.Renderer
}

// New creates the dashboard model. newSource builds a ClickUp source from a
// token typed into the login screen.
func New(ctx context.Context, session *workload.Session, cfg *config.Config, newSource func(token string) workload.Source) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	tokenInput := textinput.New()
	tokenInput.Placeholder = "pk_..."
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.EchoCharacter = '•'
	tokenInput.CharLimit = 200
	tokenInput.Width = 48

	searchInput := textinput.New()
	searchInput.Placeholder = "Search tasks..."
	searchInput.Prompt = ""
	searchInput.CharLimit = 100
	searchInput.Width = 40

	keys := state.DefaultKeyMap()
	detail := components.NewDetail()
	detail.SetClock(time.Now)

	s := &state.State{
		Ctx:         ctx,
		Session:     session,
		Config:      cfg,
		NewSource:   newSource,
		Now:         time.Now,
		Collapsed:   make(map[string]bool),
		Theme:       styles.Apply(cfg.UI.Theme),
		TokenInput:  tokenInput,
		SearchInput: searchInput,
		Spinner:     sp,
		Keys:        keys,
		HelpComp:    components.NewHelp(keys),
		DetailComp:  detail,
	}

	return &Model{
		state:    s,
		handler:  logic.NewHandler(s),
		renderer: ui.NewRenderer(s),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.handler.Init()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.handler.Update(msg)
}

// View implements tea.Model.
func (m *Model) View() string {
	return m.renderer.View()
}

// Package main is the entry point for the ClickUp dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hy4ri/clickup-tui/internal/api"
	"github.com/hy4ri/clickup-tui/internal/auth"
	"github.com/hy4ri/clickup-tui/internal/config"
	"github.com/hy4ri/clickup-tui/internal/logging"
	"github.com/hy4ri/clickup-tui/internal/summary"
	"github.com/hy4ri/clickup-tui/internal/tui"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

var version = "0.1.0"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	team     string
	theme    string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "clickup-tui",
		Short:         "Terminal dashboard for your ClickUp tasks",
		Long:          "A live terminal dashboard of the ClickUp tasks assigned to, created by, or watched by you.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.team, "team", "", "Workspace (team) id to open")
	rootCmd.PersistentFlags().StringVar(&opts.theme, "theme", "", "Color theme: dark, light or auto")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (env "+logging.LevelEnv+")")

	rootCmd.AddCommand(
		newInitCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newTasksCmd(opts),
		newServeCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "clickup-tui version %s\n", version)
			},
		},
	)
	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.team != "" {
		cfg.Workspace.TeamID = opts.team
	}
	if opts.theme != "" {
		if !config.ValidTheme(opts.theme) {
			return nil, fmt.Errorf("invalid theme %q", opts.theme)
		}
		cfg.UI.Theme = opts.theme
	}
	return cfg, nil
}

// newSession builds a session from the config. The summarizer is only set
// when a Gemini key is available.
func newSession(cfg *config.Config, logger *log.Logger) *workload.Session {
	var summarizer summary.Summarizer
	if cfg.AI.GeminiAPIKey != "" {
		summarizer = summary.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.Model)
	}
	return workload.New(workload.Options{
		TeamID:     cfg.Workspace.TeamID,
		DaysBack:   cfg.Workspace.DaysBack,
		Summarizer: summarizer,
		Logger:     logger,
	})
}

func newSource(token string) workload.Source {
	return api.NewClient(token)
}

// runTUI starts the dashboard. Without a stored token it opens on the
// login screen.
func runTUI(opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	f, err := logging.OpenFile()
	if err != nil {
		return err
	}
	defer f.Close()
	logger, err := logging.New(f, opts.logLevel)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := newSession(cfg, logger)
	token, err := auth.GetAccessToken(ctx, cfg)
	switch {
	case err == nil:
		session.Authenticate(newSource(token))
	case errors.Is(err, auth.ErrNoAuth):
		logger.Info("no stored token, showing login")
	default:
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	p := tea.NewProgram(tui.New(ctx, session, cfg, newSource), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// startSession authenticates and loads the first snapshot for the
// non-interactive commands, which log to stderr.
func startSession(ctx context.Context, opts *rootOptions) (*workload.Session, *config.Config, *log.Logger, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.New(os.Stderr, opts.logLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	token, err := auth.GetAccessToken(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	session := newSession(cfg, logger)
	session.Authenticate(newSource(token))
	if _, err := session.Start(ctx); err != nil {
		return nil, nil, nil, errors.New(workload.UserMessage(err))
	}
	return session, cfg, logger, nil
}

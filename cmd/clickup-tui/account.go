package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hy4ri/clickup-tui/internal/config"
)

const configTemplate = `# ClickUp TUI Configuration
# Location: ~/.config/clickup-tui/config.yaml

auth:
  # Option 1: personal API token (recommended). Prefer 'clickup-tui login',
  # which keeps the token in the system keyring instead of this file.
  # ClickUp -> Settings -> Apps -> API Token
  # api_token: ""

  # Option 2: OAuth app (redirect URL http://localhost:8585/callback)
  # client_id: ""
  # client_secret: ""

ui:
  # dark, light or auto
  theme: auto

workspace:
  # Open this workspace instead of the first one
  # team_id: ""
  # Only tasks updated within this many days are fetched
  days_back: 5
  poll_interval: 60s

ai:
  # Or set GEMINI_API_KEY
  # gemini_api_key: ""
  # model: gemini-2.0-flash

share:
  url: https://github.com/hy4ri/clickup-tui

notifications:
  enabled: true
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a template config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createConfigTemplate(cmd)
		},
	}
}

// createConfigTemplate writes the template, asking before overwriting.
func createConfigTemplate(cmd *cobra.Command) error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Config file already exists: %s\n", path)
		if !confirm(cmd, "Overwrite? [y/N]: ") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if _, err := config.ConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintln(out, successStyle.Render("Config file created: "+path))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Run 'clickup-tui login' and paste your API token")
	fmt.Fprintln(out, "  2. Run 'clickup-tui' to start")
	return nil
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Store a ClickUp API token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "ClickUp API token: ")
				token = readSecret(cmd)
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("no token given")
			}
			if err := config.SaveToken(token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Token saved"))
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("Logged out"))
			return nil
		},
	}
}

func readLine(cmd *cobra.Command) string {
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line)
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(cmd *cobra.Command) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return readLine(cmd)
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	switch readLine(cmd) {
	case "y", "Y", "yes":
		return true
	}
	return false
}

// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appName = "clickup-tui"

// Defaults for the fetch cycle.
const (
	DefaultDaysBack     = 5
	DefaultPollInterval = 60 * time.Second
)

// Theme names accepted in ui.theme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Config represents the application configuration.
type Config struct {
	Auth          AuthConfig          `yaml:"auth"`
	UI            UIConfig            `yaml:"ui"`
	Workspace     WorkspaceConfig     `yaml:"workspace"`
	AI            AIConfig            `yaml:"ai"`
	Share         ShareConfig         `yaml:"share"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// AuthConfig holds authentication-related settings.
type AuthConfig struct {
	// APIToken is the personal API token (pk_...)
	APIToken string `yaml:"api_token,omitempty"`

	// OAuth2 app credentials
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`

	// AccessToken is obtained after a successful OAuth flow
	AccessToken string `yaml:"access_token,omitempty"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	Theme   string `yaml:"theme"` // "dark", "light" or "auto"
	VimMode bool   `yaml:"vim_mode"`
}

// WorkspaceConfig controls which tasks are fetched and how often.
type WorkspaceConfig struct {
	TeamID       string        `yaml:"team_id,omitempty"`
	DaysBack     int           `yaml:"days_back"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// AIConfig holds settings for the task summary.
type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key,omitempty"`
	Model        string `yaml:"model,omitempty"`
}

// ShareConfig holds the link offered by the share dialog.
type ShareConfig struct {
	URL string `yaml:"url,omitempty"`
}

// NotificationsConfig toggles desktop notifications for new assignments.
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultShareURL is offered when share.url is not configured.
const DefaultShareURL = "https://github.com/hy4ri/clickup-tui"

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Theme:   ThemeAuto,
			VimMode: true,
		},
		Workspace: WorkspaceConfig{
			DaysBack:     DefaultDaysBack,
			PollInterval: DefaultPollInterval,
		},
		Share: ShareConfig{
			URL: DefaultShareURL,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the path to the configuration directory.
// Uses XDG_CONFIG_HOME or defaults to ~/.config/clickup-tui/.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}

	configDir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadDotEnv loads a .env file from the working directory if present.
// Variables already set in the environment are not overridden.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads the configuration from the config file and applies
// environment overrides. If the file doesn't exist, defaults are used.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveTheme persists the theme preference without touching other settings
// that may have come from the environment.
func SaveTheme(theme string) error {
	if !ValidTheme(theme) {
		return fmt.Errorf("unknown theme %q", theme)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	onDisk := DefaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, onDisk); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	onDisk.UI.Theme = theme
	return Save(onDisk)
}

// ValidTheme reports whether name is a known theme.
func ValidTheme(name string) bool {
	return name == ThemeDark || name == ThemeLight || name == ThemeAuto
}

// applyEnv overlays environment variables onto the file settings.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.GeminiAPIKey = v
	}
	if v := os.Getenv("CLICKUP_TEAM_ID"); v != "" {
		c.Workspace.TeamID = v
	}
	if v := os.Getenv("CLICKUP_CLIENT_ID"); v != "" {
		c.Auth.ClientID = v
	}
	if v := os.Getenv("CLICKUP_CLIENT_SECRET"); v != "" {
		c.Auth.ClientSecret = v
	}
}

// normalize replaces invalid values with defaults.
func (c *Config) normalize() {
	if c.Workspace.DaysBack < 0 {
		c.Workspace.DaysBack = DefaultDaysBack
	}
	if c.Workspace.PollInterval < time.Second {
		c.Workspace.PollInterval = DefaultPollInterval
	}
	if !ValidTheme(c.UI.Theme) {
		c.UI.Theme = ThemeAuto
	}
	if c.Share.URL == "" {
		c.Share.URL = DefaultShareURL
	}
}

// HasValidAuth returns true if the config has a usable token.
func (c *Config) HasValidAuth() bool {
	return c.Auth.APIToken != "" || c.Auth.AccessToken != ""
}

// HasOAuthCredentials returns true if OAuth client credentials are configured.
func (c *Config) HasOAuthCredentials() bool {
	return c.Auth.ClientID != "" && c.Auth.ClientSecret != ""
}

// GetToken returns the best available token from the config file.
// Prefers AccessToken (from OAuth) over APIToken.
func (c *Config) GetToken() string {
	if c.Auth.AccessToken != "" {
		return c.Auth.AccessToken
	}
	return c.Auth.APIToken
}

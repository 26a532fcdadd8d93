// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hy4ri/clickup-tui/internal/config"
)

// FileName is the log file created under the data directory.
const FileName = "clickup-tui.log"

// LevelEnv overrides the default level when no flag is given.
const LevelEnv = "CLICKUP_LOG_LEVEL"

// New returns a logger writing to w at the named level and installs it as
// the default logger.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "clickup-tui",
		Level:           lvl,
	})
	log.SetDefault(logger)
	return logger, nil
}

// ParseLevel resolves a level name, falling back to CLICKUP_LOG_LEVEL and
// then to info.
func ParseLevel(level string) (log.Level, error) {
	if level == "" {
		level = os.Getenv(LevelEnv)
	}
	if level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// OpenFile opens the append-only log file used while the TUI owns the
// terminal.
func OpenFile() (*os.File, error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

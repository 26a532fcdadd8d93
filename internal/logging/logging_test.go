package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		env     string
		want    log.Level
		wantErr bool
	}{
		{"default", "", "", log.InfoLevel, false},
		{"flag", "debug", "", log.DebugLevel, false},
		{"upper case", "WARN", "", log.WarnLevel, false},
		{"env fallback", "", "error", log.ErrorLevel, false},
		{"flag beats env", "debug", "error", log.DebugLevel, false},
		{"invalid", "loud", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LevelEnv, tt.env)
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	t.Setenv(LevelEnv, "")
	defer log.SetDefault(log.New(os.Stderr))

	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	f, err := OpenFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	want := filepath.Join(dir, "clickup-tui", FileName)
	if f.Name() != want {
		t.Errorf("expected %s, got %s", want, f.Name())
	}
}

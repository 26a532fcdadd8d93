package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

// TokenKind tells a personal API token apart from one issued by OAuth.
// Each kind has its own keyring entry.
type TokenKind string

const (
	TokenPersonal TokenKind = "personal"
	TokenOAuth    TokenKind = "oauth"
)

// Where a stored token was found.
const (
	SourceEnv     = "env"
	SourceKeyring = "keyring"
	SourceFile    = "file"
)

const (
	keyringService      = appName
	personalTokenPrefix = "pk_"
	credFileName        = ".credentials"
)

// StoredToken is a token together with its kind and origin.
type StoredToken struct {
	Value  string
	Kind   TokenKind
	Source string
}

// KindOf classifies a token. ClickUp personal tokens start with "pk_".
func KindOf(token string) TokenKind {
	if strings.HasPrefix(strings.TrimSpace(token), personalTokenPrefix) {
		return TokenPersonal
	}
	return TokenOAuth
}

func (k TokenKind) keyringUser() string {
	return string(k) + "-token"
}

// DataDir returns the path to the data directory for secure storage and logs.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/clickup-tui/
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	dataDir := filepath.Join(dataHome, appName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}

// LoadToken finds the stored token. CLICKUP_TOKEN wins, then the keyring
// (a personal token before an OAuth one), then the credentials file.
// A zero StoredToken means nothing is stored.
func LoadToken() (StoredToken, error) {
	if token := strings.TrimSpace(os.Getenv("CLICKUP_TOKEN")); token != "" {
		return StoredToken{Value: token, Kind: KindOf(token), Source: SourceEnv}, nil
	}

	for _, kind := range []TokenKind{TokenPersonal, TokenOAuth} {
		token, err := keyring.Get(keyringService, kind.keyringUser())
		if err == nil && strings.TrimSpace(token) != "" {
			return StoredToken{Value: strings.TrimSpace(token), Kind: kind, Source: SourceKeyring}, nil
		}
	}

	dataDir, err := DataDir()
	if err != nil {
		return StoredToken{}, err
	}

	data, err := os.ReadFile(filepath.Join(dataDir, credFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return StoredToken{}, nil
		}
		return StoredToken{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return parseCredentials(string(data)), nil
}

// parseCredentials reads "<kind> <token>". A bare token has its kind inferred.
func parseCredentials(data string) StoredToken {
	data = strings.TrimSpace(data)
	if data == "" {
		return StoredToken{}
	}
	st := StoredToken{Value: data, Kind: KindOf(data), Source: SourceFile}
	if kind, token, ok := strings.Cut(data, " "); ok {
		switch TokenKind(kind) {
		case TokenPersonal, TokenOAuth:
			st.Kind = TokenKind(kind)
			st.Value = strings.TrimSpace(token)
		}
	}
	return st
}

// GetToken retrieves the stored token value.
func GetToken() (string, error) {
	st, err := LoadToken()
	return st.Value, err
}

// SaveToken stores a token under its kind and drops any token of the other
// kind, so logging in with a personal token replaces an OAuth grant and vice
// versa. Tries the system keyring first, falls back to the credentials file.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	kind := KindOf(token)

	if err := keyring.Set(keyringService, kind.keyringUser(), token); err == nil {
		for _, other := range []TokenKind{TokenPersonal, TokenOAuth} {
			if other != kind {
				_ = keyring.Delete(keyringService, other.keyringUser())
			}
		}
		return removeCredFile()
	}

	dataDir, err := DataDir()
	if err != nil {
		return err
	}

	credPath := filepath.Join(dataDir, credFileName)
	if err := os.WriteFile(credPath, []byte(string(kind)+" "+token), 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}

// ClearToken removes stored tokens of every kind from all locations.
func ClearToken() error {
	for _, kind := range []TokenKind{TokenPersonal, TokenOAuth} {
		_ = keyring.Delete(keyringService, kind.keyringUser())
	}
	return removeCredFile()
}

func removeCredFile() error {
	dataDir, err := DataDir()
	if err != nil {
		return err
	}

	credPath := filepath.Join(dataDir, credFileName)
	if err := os.Remove(credPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}

	return nil
}

// HasToken returns true if a token is available from any source.
func HasToken() bool {
	token, _ := GetToken()
	return token != ""
}

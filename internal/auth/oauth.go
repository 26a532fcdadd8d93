// Package auth resolves the ClickUp access token, running the OAuth2
// authorization-code flow when no token is stored.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hy4ri/clickup-tui/internal/config"
)

const (
	// ClickUp OAuth2 endpoints
	authorizationURL = "https://app.clickup.com/api"
	tokenURL         = "https://api.clickup.com/api/v2/oauth/token"

	callbackAddr    = "localhost:8585"
	callbackTimeout = 5 * time.Minute
)

// ErrNoAuth is returned when no token is stored and no OAuth app is configured.
var ErrNoAuth = errors.New("no authentication configured")

// TokenResponse represents the OAuth2 token response from ClickUp.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Flow runs the browser-based authorization-code exchange.
type Flow struct {
	ClientID     string
	ClientSecret string

	AuthorizeURL string
	TokenURL     string
	CallbackAddr string
	Timeout      time.Duration

	HTTPClient  *http.Client
	Out         io.Writer
	OpenBrowser func(string) error
}

// NewFlow returns a Flow against the production ClickUp endpoints.
func NewFlow(clientID, clientSecret string) *Flow {
	return &Flow{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthorizeURL: authorizationURL,
		TokenURL:     tokenURL,
		CallbackAddr: callbackAddr,
		Timeout:      callbackTimeout,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		Out:          os.Stdout,
		OpenBrowser:  openBrowser,
	}
}

// GetAccessToken retrieves a usable token. Stored credentials win over the
// config file; the OAuth flow only starts when neither has one.
func GetAccessToken(ctx context.Context, cfg *config.Config) (string, error) {
	stored, err := config.LoadToken()
	if err != nil {
		log.Warn("reading stored token", "err", err)
	}
	if stored.Value != "" {
		log.Debug("using stored token", "kind", stored.Kind, "source", stored.Source)
		return stored.Value, nil
	}

	if token := cfg.GetToken(); token != "" {
		return token, nil
	}

	if !cfg.HasOAuthCredentials() {
		return "", fmt.Errorf("%w: run `clickup-tui login <token>`, set CLICKUP_TOKEN, "+
			"or configure auth.client_id and auth.client_secret", ErrNoAuth)
	}

	token, err := NewFlow(cfg.Auth.ClientID, cfg.Auth.ClientSecret).Run(ctx)
	if err != nil {
		return "", fmt.Errorf("OAuth flow failed: %w", err)
	}

	if err := config.SaveToken(token); err != nil {
		log.Warn("failed to store token", "err", err)
	}
	return token, nil
}

type callbackResult struct {
	code string
	err  error
}

// Run opens the authorization page, waits for the callback and exchanges
// the code for an access token.
func (f *Flow) Run(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	ln, err := net.Listen("tcp", f.CallbackAddr)
	if err != nil {
		return "", fmt.Errorf("failed to start callback server: %w", err)
	}

	results := make(chan callbackResult, 1)
	server := &http.Server{Handler: f.callbackHandler(state, results)}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(results, callbackResult{err: fmt.Errorf("callback server error: %w", err)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	redirect := "http://" + ln.Addr().String() + "/callback"
	authURL := f.buildAuthorizationURL(redirect, state)

	fmt.Fprintln(f.Out, "Opening browser for ClickUp authorization...")
	fmt.Fprintf(f.Out, "If the browser doesn't open, please visit:\n%s\n\n", authURL)
	if f.OpenBrowser != nil {
		if err := f.OpenBrowser(authURL); err != nil {
			log.Warn("failed to open browser", "err", err)
		}
	}
	fmt.Fprintln(f.Out, "Waiting for authorization...")

	timer := time.NewTimer(f.Timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		return f.Exchange(ctx, res.code)
	case <-timer.C:
		return "", fmt.Errorf("authorization timed out after %v", f.Timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func deliver(ch chan<- callbackResult, res callbackResult) {
	select {
	case ch <- res:
	default:
	}
}

func (f *Flow) callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "text/html")

		fail := func(msg string) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `<html><body><h1>Authorization Failed</h1><p>%s</p><p>You can close this window.</p></body></html>`, html.EscapeString(msg))
		}

		if q.Get("state") != state {
			// Not ours; keep waiting for the real redirect.
			fail("state mismatch")
			return
		}
		if errMsg := q.Get("error"); errMsg != "" {
			fail(errMsg)
			deliver(results, callbackResult{err: fmt.Errorf("authorization denied: %s", errMsg)})
			return
		}
		code := q.Get("code")
		if code == "" {
			fail("No authorization code received.")
			deliver(results, callbackResult{err: errors.New("no authorization code received")})
			return
		}

		fmt.Fprint(w, `<html><body><h1>Authorization Successful!</h1><p>You can close this window and return to the terminal.</p></body></html>`)
		deliver(results, callbackResult{code: code})
	})
	return mux
}

func (f *Flow) buildAuthorizationURL(redirect, state string) string {
	params := url.Values{
		"client_id":    {f.ClientID},
		"redirect_uri": {redirect},
		"state":        {state},
	}
	return f.AuthorizeURL + "?" + params.Encode()
}

// Exchange trades an authorization code for an access token.
func (f *Flow) Exchange(ctx context.Context, code string) (string, error) {
	params := url.Values{
		"client_id":     {f.ClientID},
		"client_secret": {f.ClientSecret},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.TokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("received empty access token")
	}

	return tokenResp.AccessToken, nil
}

// generateState returns a random CSRF token for the authorization request.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// openBrowser opens the default browser to the given URL.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}

// Package google talks to the Google Tasks and Google Calendar REST
// APIs over an OAuth2 authorized HTTP client.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	tasksBaseURL    = "https://tasks.googleapis.com/tasks/v1"
	calendarBaseURL = "https://www.googleapis.com/calendar/v3"

	// ScopeTasks grants read and write access to task lists.
	ScopeTasks = "https://www.googleapis.com/auth/tasks"
	// ScopeCalendarReadOnly grants read access to calendars.
	ScopeCalendarReadOnly = "https://www.googleapis.com/auth/calendar.readonly"

	// DefaultTimeout bounds every single API call.
	DefaultTimeout = 30 * time.Second

	maxErrorBodyBytes = 4 << 10
)

// APIError carries the status and body of a non-2xx API response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google API error (status %d): %s", e.StatusCode, e.Body)
}

// clientSecrets mirrors the OAuth client JSON downloaded from the
// Google Cloud Console. Desktop clients use the "installed" key, web
// clients use "web".
type clientSecrets struct {
	Installed *clientCredentials `json:"installed"`
	Web       *clientCredentials `json:"web"`
}

type clientCredentials struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	RedirectURIs []string `json:"redirect_uris"`
}

// LoadOAuthConfig builds an OAuth2 config from a client secrets file.
func LoadOAuthConfig(path string, scopes []string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets %s: %w", path, err)
	}

	var secrets clientSecrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse client secrets %s: %w", path, err)
	}

	creds := secrets.Installed
	if creds == nil {
		creds = secrets.Web
	}
	if creds == nil || creds.ClientID == "" {
		return nil, fmt.Errorf("client secrets %s has no installed or web client", path)
	}

	redirectURL := ""
	if len(creds.RedirectURIs) > 0 {
		redirectURL = creds.RedirectURIs[0]
	}

	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  creds.AuthURI,
			TokenURL: creds.TokenURI,
		},
	}, nil
}

// TokenStorage persists the authorized OAuth2 token as JSON on disk.
type TokenStorage struct {
	path string
}

// NewTokenStorage creates storage backed by the given file path.
func NewTokenStorage(path string) *TokenStorage {
	return &TokenStorage{path: path}
}

// Load reads the stored token. A missing file is an error; the token
// must be provisioned by the authorize flow first.
func (s *TokenStorage) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token %s: %w", s.path, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token %s: %w", s.path, err)
	}
	return &tok, nil
}

// Save writes the token back to disk with owner-only permissions.
func (s *TokenStorage) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token %s: %w", s.path, err)
	}
	return nil
}

// persistingSource wraps a token source and writes refreshed tokens
// back to storage so the next run starts with a valid token.
type persistingSource struct {
	src     oauth2.TokenSource
	storage *TokenStorage
	last    string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if saveErr := p.storage.Save(tok); saveErr != nil {
			return nil, saveErr
		}
	}
	return tok, nil
}

// Client is an authorized JSON client for the Tasks and Calendar APIs.
type Client struct {
	http         *http.Client
	tasksBase    string
	calendarBase string
}

// NewClient builds a client from the credentials and token files. The
// token is refreshed transparently and persisted after refresh.
func NewClient(ctx context.Context, credentialsFile, tokenFile string) (*Client, error) {
	conf, err := LoadOAuthConfig(credentialsFile, []string{ScopeTasks, ScopeCalendarReadOnly})
	if err != nil {
		return nil, err
	}

	storage := NewTokenStorage(tokenFile)
	tok, err := storage.Load()
	if err != nil {
		return nil, err
	}

	src := &persistingSource{
		src:     conf.TokenSource(ctx, tok),
		storage: storage,
		last:    tok.AccessToken,
	}
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = DefaultTimeout

	return &Client{
		http:         httpClient,
		tasksBase:    tasksBaseURL,
		calendarBase: calendarBaseURL,
	}, nil
}

// NewClientWithHTTP builds a client over an already authorized HTTP
// client with both APIs rooted at baseURL. Tests use it with httptest
// servers.
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	return &Client{http: httpClient, tasksBase: base, calendarBase: base}
}

func (c *Client) tasksURL(path string) string    { return c.tasksBase + path }
func (c *Client) calendarURL(path string) string { return c.calendarBase + path }

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) putJSON(ctx context.Context, rawURL string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rawURL, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Package todoist talks to the Todoist REST v2 API with a bearer
// token.
package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the REST v2 endpoint root.
	DefaultBaseURL = "https://api.todoist.com/rest/v2"
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
	return fmt.Sprintf("todoist API error (status %d): %s", e.StatusCode, e.Body)
}

// Client is a bearer-token JSON client for the REST v2 API.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
}

// NewClient builds a client against the production endpoint.
func NewClient(apiToken string) *Client {
	return NewClientWithBaseURL(apiToken, DefaultBaseURL)
}

// NewClientWithBaseURL builds a client against a custom endpoint.
// Tests use it with httptest servers.
func NewClientWithBaseURL(apiToken, baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

// Projects returns all projects visible to the token.
func (c *Client) Projects(ctx context.Context) ([]map[string]any, error) {
	var projects []map[string]any
	if err := c.getJSON(ctx, "projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Tasks returns the active tasks, optionally scoped to one project.
func (c *Client) Tasks(ctx context.Context, projectID string) ([]map[string]any, error) {
	params := url.Values{}
	if projectID != "" {
		params.Set("project_id", projectID)
	}
	var tasks []map[string]any
	if err := c.getJSON(ctx, "tasks", params, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CloseTask marks the task completed.
func (c *Client) CloseTask(ctx context.Context, taskID string) error {
	return c.postEmpty(ctx, "tasks/"+url.PathEscape(taskID)+"/close")
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	rawURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postEmpty(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

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

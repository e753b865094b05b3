// Package api talks to the remote task management API and translates its
// wire records into the domain models.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultTasksPath is the collection endpoint for tasks
const DefaultTasksPath = "/tasks"

// maxErrorBody bounds how much of a failed response is kept as its message
const maxErrorBody = 4 << 10

// Client is an HTTP client for the API. It holds no credentials; every
// authenticated call receives the bearer token from the caller.
type Client struct {
	baseURL   string
	tasksPath string
	http      *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTasksPath sets the task list endpoint, e.g. "/tasks/gettasks"
func WithTasksPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.tasksPath = "/" + strings.Trim(path, "/")
		}
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tasksPath: DefaultTasksPath,
		http:      http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	op     string
	method string
	path   string
	token  string
	auth   bool
	body   any
}

// do performs one request. A 2xx response is decoded into out when out is
// non-nil and the body is not empty; anything else becomes an *Error.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.auth && r.token == "" {
		return fmt.Errorf("%s: %w", r.op, ErrNoToken)
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", r.op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Op: r.op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", r.op, err)
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%s: %w", r.op, errEmptyBody)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", r.op, err)
	}
	return nil
}

var errEmptyBody = errors.New("empty response body")

// errorMessage extracts a readable message from a failed response body:
// the "message", "error" or "title" field of a JSON object, or the text.
func errorMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Title   string `json:"title"`
	}
	if raw[0] == '{' && json.Unmarshal(raw, &obj) == nil {
		for _, m := range []string{obj.Message, obj.Error, obj.Title} {
			if m != "" {
				return m
			}
		}
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}
	return string(raw)
}

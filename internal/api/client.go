package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

const (
	taskAPIBase    = "/api"
	accountAPIBase = "/account/api"
	authAPIBase    = "/_allauth/app/v1"

	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// APIError is a non-2xx response from the server. Message prefers the body's
// "error" field, then "detail", then a generic status line. Fields carries
// per-field validation errors when the server provides them.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the dayplan server. All methods read the anti-forgery token
// fresh from the cookie jar on every request; nothing is cached client-side
// beyond the session cookies themselves.
type Client struct {
	base    *url.URL
	http    *http.Client
	session *sessionFile
	logf    func(format string, args ...any)
}

// Options configures a Client.
type Options struct {
	// ServerURL is the scheme://host[:port] of the dayplan server.
	ServerURL string
	// SessionFile persists cookies between invocations. Empty disables
	// persistence (in-memory session only).
	SessionFile string
	// Logf receives transport-level debug lines. Nil disables logging.
	Logf func(format string, args ...any)
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.ServerURL), "/")
	if raw == "" {
		return nil, errors.New("server url is empty")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http(s), got %q", raw)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base: base,
		http: &http.Client{Jar: jar},
		logf: opts.Logf,
	}
	if c.logf == nil {
		c.logf = func(string, ...any) {}
	}
	if opts.SessionFile != "" {
		c.session = &sessionFile{path: opts.SessionFile}
		if cookies, err := c.session.load(); err == nil && len(cookies) > 0 {
			jar.SetCookies(base, cookies)
		}
	}
	return c, nil
}

// SaveSession writes the current cookies to the session file, if configured.
func (c *Client) SaveSession() error {
	if c.session == nil {
		return nil
	}
	return c.session.save(c.http.Jar.Cookies(c.base))
}

// ClearSession drops all cookies and removes the session file.
func (c *Client) ClearSession() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.http.Jar = jar
	if c.session == nil {
		return nil
	}
	return c.session.remove()
}

func (c *Client) csrfToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) absURL(base, path string) string {
	return c.base.String() + base + path
}

// request performs one JSON round-trip against basePath+path.
//
// On 2xx the body is decoded into out (ignored when out is nil or the body is
// empty, e.g. 204). Non-2xx responses become *APIError. Transport and decode
// failures are returned wrapped and logged.
func (c *Client) request(ctx context.Context, method, basePath, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.absURL(basePath, path), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok := c.csrfToken(); tok != "" {
		req.Header.Set(csrfHeaderName, tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("api: %s %s: %v", method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logf("api: %s %s: read body: %v", method, path, err)
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	c.logf("api: %s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("request failed with status %d", status),
	}

	var body struct {
		Error  string            `json:"error"`
		Detail string            `json:"detail"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	switch {
	case strings.TrimSpace(body.Error) != "":
		apiErr.Message = body.Error
	case strings.TrimSpace(body.Detail) != "":
		apiErr.Message = body.Detail
	}
	if len(body.Errors) > 0 {
		apiErr.Fields = body.Errors
		if apiErr.Message == fmt.Sprintf("request failed with status %d", status) {
			apiErr.Message = "validation failed"
		}
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, base, path string, out any) error {
	return c.request(ctx, http.MethodGet, base, path, nil, out)
}

func (c *Client) post(ctx context.Context, base, path string, body, out any) error {
	return c.request(ctx, http.MethodPost, base, path, body, out)
}

func (c *Client) put(ctx context.Context, base, path string, body, out any) error {
	return c.request(ctx, http.MethodPut, base, path, body, out)
}

func (c *Client) del(ctx context.Context, base, path string, out any) error {
	return c.request(ctx, http.MethodDelete, base, path, nil, out)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FieldError is one entry of the auth API's structured error array.
// Param names the offending request field ("" for non-field errors).
type FieldError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Param   string `json:"param"`
}

// AuthResult is the normalized outcome of an auth endpoint call: the HTTP
// status, the decoded data object on success, and the per-field error array
// on failure. Transport failures are returned as plain errors instead.
type AuthResult struct {
	OK     bool
	Status int
	Data   map[string]any
	Errors []FieldError
}

// FirstError returns the first error message, or a generic status line.
func (r *AuthResult) FirstError() string {
	for _, e := range r.Errors {
		if strings.TrimSpace(e.Message) != "" {
			return e.Message
		}
	}
	return fmt.Sprintf("authentication request failed with status %d", r.Status)
}

// ErrorsByField groups error messages by their request field name.
// Non-field errors land under "".
func (r *AuthResult) ErrorsByField() map[string][]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := map[string][]string{}
	for _, e := range r.Errors {
		out[e.Param] = append(out[e.Param], e.Message)
	}
	return out
}

// authRequest is the auth-family counterpart of request: it never turns
// non-2xx into an error, it normalizes every response into an AuthResult.
func (c *Client) authRequest(ctx context.Context, method, path string, body any) (*AuthResult, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rd = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.absURL(authAPIBase, path), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok := c.csrfToken(); tok != "" {
		req.Header.Set(csrfHeaderName, tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("auth: %s %s: %v", method, path, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	c.logf("auth: %s %s -> %d", method, path, resp.StatusCode)

	res := &AuthResult{
		OK:     resp.StatusCode >= 200 && resp.StatusCode <= 299,
		Status: resp.StatusCode,
	}
	var envelope struct {
		Status int            `json:"status"`
		Data   map[string]any `json:"data"`
		Errors []FieldError   `json:"errors"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			// Unstructured body: keep the status-based result.
			return res, nil
		}
		res.Data = envelope.Data
		res.Errors = envelope.Errors
	}
	return res, nil
}

// Login starts a session with email + password. Cookies (session + CSRF) are
// captured by the jar; call SaveSession to persist them.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authRequest(ctx, http.MethodPost, "/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
}

// Signup registers a new account and starts a session.
func (c *Client) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authRequest(ctx, http.MethodPost, "/auth/signup", map[string]any{
		"email":    email,
		"password": password,
	})
}

// Logout ends the session. The server answers 401 once the session is gone
// (the now-anonymous caller is unauthorized), so 401 counts as success.
func (c *Client) Logout(ctx context.Context) (*AuthResult, error) {
	res, err := c.authRequest(ctx, http.MethodDelete, "/auth/session", nil)
	if err != nil {
		return nil, err
	}
	if res.Status == http.StatusUnauthorized {
		res.OK = true
		res.Errors = nil
	}
	return res, nil
}

// RequestPasswordReset asks the server to mail a reset key.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*AuthResult, error) {
	return c.authRequest(ctx, http.MethodPost, "/auth/password/request", map[string]any{
		"email": email,
	})
}

// ConfirmPasswordReset redeems a mailed reset key for a new password.
func (c *Client) ConfirmPasswordReset(ctx context.Context, key, password string) (*AuthResult, error) {
	return c.authRequest(ctx, http.MethodPost, "/auth/password/reset", map[string]any{
		"key":      key,
		"password": password,
	})
}

// ChangePassword replaces the current password inside an active session.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (*AuthResult, error) {
	return c.authRequest(ctx, http.MethodPost, "/account/password/change", map[string]any{
		"current_password": current,
		"new_password":     next,
	})
}

// UpdateEmail changes the account's address via the two-step protocol:
// register the new address, then promote it to primary. When the first step
// fails its result is returned and the promote request never runs.
func (c *Client) UpdateEmail(ctx context.Context, email string) (*AuthResult, error) {
	added, err := c.authRequest(ctx, http.MethodPost, "/account/email", map[string]any{
		"email": email,
	})
	if err != nil {
		return nil, err
	}
	if !added.OK {
		return added, nil
	}
	return c.authRequest(ctx, http.MethodPatch, "/account/email", map[string]any{
		"email":   email,
		"primary": true,
	})
}

// SessionUser returns the current session's user object, or nil when the
// session is anonymous. Used to bootstrap auth state on startup.
func (c *Client) SessionUser(ctx context.Context) (map[string]any, error) {
	res, err := c.authRequest(ctx, http.MethodGet, "/auth/session", nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		if res.Status == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, errors.New(res.FirstError())
	}
	user, _ := res.Data["user"].(map[string]any)
	return user, nil
}

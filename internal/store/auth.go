package store

import (
	"context"
	"errors"
	"strconv"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
)

// ErrNotAuthenticated means a credential flow was refused by the server;
// details live in the store's FormErrors.
var ErrNotAuthenticated = errors.New("not authenticated")

// loginFieldNames maps the auth API's parameter names onto the login form's
// field names (the server validates "email", the form calls it "login").
var loginFieldNames = map[string]string{
	"email": "login",
}

// Auth holds the session identity: a user plus an authenticated flag.
// The identity is seeded from the persisted session (Bootstrap) rather than
// owned by this store; login/signup/logout keep it in sync.
type Auth struct {
	status
	client *api.Client
	ui     UI
	rec    Recorder

	user          *model.User
	authenticated bool

	// FormErrors holds the last credential flow's per-field messages,
	// keyed by form field name. Non-field errors land under "".
	FormErrors map[string][]string
}

func NewAuth(client *api.Client, ui UI, rec Recorder) *Auth {
	return &Auth{client: client, ui: orNopUI(ui), rec: orNopRecorder(rec)}
}

// User returns the session identity, nil when anonymous.
func (s *Auth) User() *model.User { return s.user }

// Authenticated reports whether a session is active.
func (s *Auth) Authenticated() bool { return s.authenticated }

// SetUser seeds the identity externally (e.g. from bootstrap data).
func (s *Auth) SetUser(u *model.User) {
	s.user = u
	s.authenticated = u != nil
}

// Bootstrap restores the identity from the persisted session cookie, if the
// server still honors it. An anonymous answer is not an error.
func (s *Auth) Bootstrap(ctx context.Context) error {
	defer s.begin()()
	raw, err := s.client.SessionUser(ctx)
	if err != nil {
		s.err = err
		return err
	}
	if raw == nil {
		s.SetUser(nil)
		return nil
	}
	s.SetUser(userFromPayload(raw))
	return nil
}

func userFromPayload(raw map[string]any) *model.User {
	u := &model.User{}
	if v, ok := raw["id"].(string); ok {
		u.ID = v
	} else if v, ok := raw["id"].(float64); ok {
		u.ID = strconv.Itoa(int(v))
	}
	if v, ok := raw["email"].(string); ok {
		u.Email = v
	}
	if v, ok := raw["display"].(string); ok {
		u.Display = v
	}
	if u.Display == "" {
		u.Display = u.Email
	}
	return u
}

func (s *Auth) flattenErrors(res *api.AuthResult, remap map[string]string) {
	s.FormErrors = map[string][]string{}
	for field, msgs := range res.ErrorsByField() {
		if mapped, ok := remap[field]; ok {
			field = mapped
		}
		s.FormErrors[field] = append(s.FormErrors[field], msgs...)
	}
}

// Login starts a session. Per-field server errors are remapped onto the
// login form's field names and kept in FormErrors.
func (s *Auth) Login(ctx context.Context, email, password string) error {
	defer s.begin()()
	s.FormErrors = nil

	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Login failed: "+err.Error())
		return err
	}
	if !res.OK {
		s.flattenErrors(res, loginFieldNames)
		s.ui.Toast(ToastError, res.FirstError())
		return ErrNotAuthenticated
	}

	s.adoptSession(res)
	s.rec.Record("auth.login", "", map[string]any{"email": email})
	s.ui.Toast(ToastSuccess, "Signed in")
	return nil
}

// Signup registers an account and starts a session.
func (s *Auth) Signup(ctx context.Context, email, password string) error {
	defer s.begin()()
	s.FormErrors = nil

	res, err := s.client.Signup(ctx, email, password)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Signup failed: "+err.Error())
		return err
	}
	if !res.OK {
		s.flattenErrors(res, nil)
		s.ui.Toast(ToastError, res.FirstError())
		return ErrNotAuthenticated
	}

	s.adoptSession(res)
	s.rec.Record("auth.signup", "", map[string]any{"email": email})
	s.ui.Toast(ToastSuccess, "Account created")
	return nil
}

func (s *Auth) adoptSession(res *api.AuthResult) {
	if raw, ok := res.Data["user"].(map[string]any); ok {
		s.SetUser(userFromPayload(raw))
	} else {
		s.SetUser(&model.User{})
	}
	if err := s.client.SaveSession(); err != nil {
		s.ui.Toast(ToastWarning, "Session not persisted: "+err.Error())
	}
}

// Logout ends the session. Local auth state and the persisted session are
// cleared even when the network call fails: logout fails open.
func (s *Auth) Logout(ctx context.Context) error {
	defer s.begin()()

	_, err := s.client.Logout(ctx)

	s.SetUser(nil)
	if cerr := s.client.ClearSession(); cerr != nil && err == nil {
		err = cerr
	}
	s.rec.Record("auth.logout", "", nil)
	if err != nil {
		s.ui.Toast(ToastWarning, "Signed out locally; server call failed: "+err.Error())
		return nil
	}
	s.ui.Toast(ToastSuccess, "Signed out")
	return nil
}

// ChangePassword replaces the password inside the active session.
func (s *Auth) ChangePassword(ctx context.Context, current, next string) error {
	res, err := s.client.ChangePassword(ctx, current, next)
	if err != nil {
		s.ui.Toast(ToastError, "Password change failed: "+err.Error())
		return err
	}
	if !res.OK {
		s.flattenErrors(res, nil)
		s.ui.Toast(ToastError, res.FirstError())
		return ErrNotAuthenticated
	}
	s.ui.Toast(ToastSuccess, "Password changed")
	return nil
}

// RequestPasswordReset asks the server to mail a reset key.
func (s *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	res, err := s.client.RequestPasswordReset(ctx, email)
	if err != nil {
		s.ui.Toast(ToastError, "Reset request failed: "+err.Error())
		return err
	}
	if !res.OK {
		s.flattenErrors(res, nil)
		s.ui.Toast(ToastError, res.FirstError())
		return ErrNotAuthenticated
	}
	s.ui.Toast(ToastInfo, "Check your email for a reset key")
	return nil
}

// ConfirmPasswordReset redeems a mailed reset key.
func (s *Auth) ConfirmPasswordReset(ctx context.Context, key, password string) error {
	res, err := s.client.ConfirmPasswordReset(ctx, key, password)
	if err != nil {
		s.ui.Toast(ToastError, "Password reset failed: "+err.Error())
		return err
	}
	if !res.OK {
		s.flattenErrors(res, nil)
		s.ui.Toast(ToastError, res.FirstError())
		return ErrNotAuthenticated
	}
	s.ui.Toast(ToastSuccess, "Password reset; sign in with the new password")
	return nil
}

package store

import (
	"context"
	"errors"
	"strings"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
)

// ErrEmailUpdate means the two-step email change was refused; the rest of
// the profile save is aborted when it happens.
var ErrEmailUpdate = errors.New("email update refused")

// Profile caches the account profile. The working copy (Current) is edited
// in place by the UI; Save diffs it against the last-loaded snapshot and
// sends only changed fields, Reset throws edits away.
type Profile struct {
	status
	client *api.Client
	ui     UI
	rec    Recorder

	profile  model.Profile
	snapshot model.Profile
	loaded   bool

	// FieldErrors holds per-field validation messages from the last save.
	FieldErrors map[string]string
}

func NewProfile(client *api.Client, ui UI, rec Recorder) *Profile {
	return &Profile{client: client, ui: orNopUI(ui), rec: orNopRecorder(rec)}
}

// Init loads the profile once; repeated calls are no-ops.
func (s *Profile) Init(ctx context.Context) error {
	if s.inited {
		return nil
	}
	s.inited = true
	return s.Load(ctx)
}

// Load refreshes the profile and snapshots it.
func (s *Profile) Load(ctx context.Context) error {
	defer s.begin()()
	p, err := s.client.GetProfile(ctx)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Failed to load profile: "+err.Error())
		return err
	}
	s.profile = *p
	s.snapshot = *p
	s.loaded = true
	s.FieldErrors = nil
	return nil
}

// Current returns the editable working copy.
func (s *Profile) Current() *model.Profile { return &s.profile }

// Loaded reports whether a profile has been fetched.
func (s *Profile) Loaded() bool { return s.loaded }

// Dirty reports whether the working copy differs from the snapshot.
func (s *Profile) Dirty() bool {
	return s.diff() != (api.ProfileUpdate{}) || s.emailChanged()
}

// Reset restores the working copy to the last-loaded snapshot wholesale.
func (s *Profile) Reset() {
	s.profile = s.snapshot
	s.FieldErrors = nil
}

func (s *Profile) emailChanged() bool {
	return strings.TrimSpace(s.profile.Email) != strings.TrimSpace(s.snapshot.Email)
}

// diff compares trimmed values, since trimmed values are what Save sends:
// a whitespace-only edit is not a change.
func (s *Profile) diff() api.ProfileUpdate {
	var u api.ProfileUpdate
	if v := strings.TrimSpace(s.profile.FirstName); v != strings.TrimSpace(s.snapshot.FirstName) {
		u.FirstName = &v
	}
	if v := strings.TrimSpace(s.profile.LastName); v != strings.TrimSpace(s.snapshot.LastName) {
		u.LastName = &v
	}
	if v := strings.TrimSpace(s.profile.Avatar); v != strings.TrimSpace(s.snapshot.Avatar) {
		u.Avatar = &v
	}
	return u
}

// Save persists the working copy: an email change goes through the two-step
// add/promote flow first and aborts the whole save if refused (no partial
// commit of the other fields); the remaining diff is then sent in one PUT.
// Zero changed fields means no network call, just an informational toast.
func (s *Profile) Save(ctx context.Context) error {
	s.FieldErrors = nil
	update := s.diff()

	if !s.emailChanged() && update.Empty() {
		s.ui.Toast(ToastInfo, "No changes to save")
		return nil
	}

	if s.emailChanged() {
		email := strings.TrimSpace(s.profile.Email)
		res, err := s.client.UpdateEmail(ctx, email)
		if err != nil {
			s.ui.Toast(ToastError, "Failed to update email: "+err.Error())
			return err
		}
		if !res.OK {
			msg := res.FirstError()
			s.FieldErrors = map[string]string{"email": msg}
			s.ui.Toast(ToastError, "Failed to update email: "+msg)
			return ErrEmailUpdate
		}
		s.snapshot.Email = email
		s.rec.Record("profile.email", "", map[string]any{"email": email})
	}

	if !update.Empty() {
		updated, err := s.client.UpdateProfile(ctx, update)
		if err != nil {
			var apiErr *api.APIError
			if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
				s.FieldErrors = apiErr.Fields
			}
			s.ui.Toast(ToastError, "Failed to save profile: "+err.Error())
			return err
		}
		s.profile.FirstName = updated.FirstName
		s.profile.LastName = updated.LastName
		s.profile.Avatar = updated.Avatar
		s.profile.LastActivity = updated.LastActivity
		s.rec.Record("profile.update", "", map[string]any{
			"first_name": updated.FirstName,
			"last_name":  updated.LastName,
		})
	}

	s.snapshot = s.profile
	s.ui.Toast(ToastSuccess, "Profile saved")
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"dayplan-cli/internal/model"
)

// profileServer serves a fixed profile; puts counts profile PUT requests.
func profileServer(t *testing.T) (s *Profile, ui *fakeUI, mux *http.ServeMux, puts *int) {
	t.Helper()
	puts = new(int)
	mux = http.NewServeMux()
	mux.HandleFunc("/account/api/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, model.Profile{
				ID: "u1", Email: "ada@example.org",
				FirstName: "Ada", LastName: "Lovelace", Username: "ada",
			})
			return
		}
		*puts++
		var update map[string]any
		json.NewDecoder(r.Body).Decode(&update)
		writeJSON(w, map[string]any{"success": true, "data": model.Profile{
			ID: "u1", Email: "ada@example.org",
			FirstName: str(update, "first_name", "Ada"),
			LastName:  str(update, "last_name", "Lovelace"),
			Avatar:    str(update, "avatar", ""),
		}})
	})
	ui = &fakeUI{answer: true}
	return NewProfile(newTestClient(t, mux), ui, nil), ui, mux, puts
}

func str(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}

func TestProfileSaveWithoutChangesSkipsNetwork(t *testing.T) {
	s, ui, _, puts := profileServer(t)

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Dirty() {
		t.Fatal("Dirty = true right after load")
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if *puts != 0 {
		t.Fatalf("profile PUT ran %d times for a no-op save", *puts)
	}
	ui.hasToast(t, "No changes to save")
}

func TestProfileWhitespaceOnlyEditIsNoChange(t *testing.T) {
	s, ui, _, puts := profileServer(t)

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Current().FirstName = "  Ada "
	if s.Dirty() {
		t.Fatal("Dirty = true for a whitespace-only edit")
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if *puts != 0 {
		t.Fatalf("profile PUT ran %d times for a whitespace-only edit", *puts)
	}
	ui.hasToast(t, "No changes to save")
}

func TestProfileSaveSendsOnlyChangedFields(t *testing.T) {
	s, ui, _, _ := profileServer(t)

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Current().FirstName = "Augusta"
	if !s.Dirty() {
		t.Fatal("Dirty = false after edit")
	}

	update := s.diff()
	if update.FirstName == nil || *update.FirstName != "Augusta" {
		t.Fatalf("diff.FirstName = %v", update.FirstName)
	}
	if update.LastName != nil || update.Avatar != nil {
		t.Fatalf("diff carries unchanged fields: %+v", update)
	}

	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty() {
		t.Fatal("Dirty = true after save")
	}
	if s.Current().FirstName != "Augusta" {
		t.Fatalf("first name = %q", s.Current().FirstName)
	}
	ui.hasToast(t, "Profile saved")
}

func TestProfileRefusedEmailChangeAbortsWholeSave(t *testing.T) {
	s, ui, mux, puts := profileServer(t)
	mux.HandleFunc("/_allauth/app/v1/account/email", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{
			"status": 400,
			"errors": []map[string]any{
				{"message": "A user is already registered with this email address.", "code": "email_taken", "param": "email"},
			},
		})
	})

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Current().Email = "taken@example.org"
	s.Current().FirstName = "Augusta"

	err := s.Save(ctx)
	if !errors.Is(err, ErrEmailUpdate) {
		t.Fatalf("err = %v, want ErrEmailUpdate", err)
	}
	if *puts != 0 {
		t.Fatal("profile PUT ran after refused email change")
	}
	if got := s.FieldErrors["email"]; got == "" {
		t.Fatalf("FieldErrors = %v", s.FieldErrors)
	}
	ui.hasToast(t, "Failed to update email")
	// Still dirty: nothing was committed.
	if !s.Dirty() {
		t.Fatal("Dirty = false after aborted save")
	}
}

func TestProfileResetRestoresSnapshot(t *testing.T) {
	s, _, _, _ := profileServer(t)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Current().FirstName = "Augusta"
	s.Current().Email = "other@example.org"
	s.FieldErrors = map[string]string{"email": "stale"}

	s.Reset()

	if s.Dirty() {
		t.Fatal("Dirty = true after reset")
	}
	if s.Current().FirstName != "Ada" || s.Current().Email != "ada@example.org" {
		t.Fatalf("profile = %+v", s.Current())
	}
	if s.FieldErrors != nil {
		t.Fatalf("FieldErrors = %v", s.FieldErrors)
	}
}

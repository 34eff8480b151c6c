package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"dayplan-cli/internal/api"
)

// fakeUI records toasts and answers confirmations with a canned response.
type fakeUI struct {
	toasts   []string
	confirms []string
	answer   bool
}

func (u *fakeUI) Toast(kind ToastKind, msg string) {
	u.toasts = append(u.toasts, string(kind)+": "+msg)
}

func (u *fakeUI) Confirm(title, body string) bool {
	u.confirms = append(u.confirms, title+": "+body)
	return u.answer
}

func (u *fakeUI) hasToast(t *testing.T, substr string) {
	t.Helper()
	for _, toast := range u.toasts {
		if strings.Contains(toast, substr) {
			return
		}
	}
	t.Fatalf("no toast containing %q in %v", substr, u.toasts)
}

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c, err := api.New(api.Options{
		ServerURL:   ts.URL,
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
	})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// sessionFile persists the session's cookies as JSON so the CLI keeps its
// server session between invocations (the terminal equivalent of the
// browser's cookie store).
type sessionFile struct {
	path string
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func (s *sessionFile) load() ([]*http.Cookie, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var stored []storedCookie
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil, err
	}
	now := time.Now()
	var out []*http.Cookie
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: sc.Name, Value: sc.Value, Expires: sc.Expires})
	}
	return out, nil
}

func (s *sessionFile) save(cookies []*http.Cookie) error {
	stored := make([]storedCookie, 0, len(cookies))
	for _, ck := range cookies {
		stored = append(stored, storedCookie{Name: ck.Name, Value: ck.Value, Expires: ck.Expires})
	}
	b, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	// 0600: the session cookie is a credential.
	return os.WriteFile(s.path, b, 0o600)
}

func (s *sessionFile) remove() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

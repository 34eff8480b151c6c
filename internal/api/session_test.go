package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	sf := &sessionFile{path: filepath.Join(t.TempDir(), "session.json")}

	in := []*http.Cookie{
		{Name: "sessionid", Value: "abc"},
		{Name: "csrftoken", Value: "tok", Expires: time.Now().Add(time.Hour)},
	}
	if err := sf.save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(sf.path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("perm = %o, want 600", got)
	}

	out, err := sf.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("loaded %d cookies, want 2", len(out))
	}
	if out[0].Name != "sessionid" || out[0].Value != "abc" {
		t.Fatalf("cookie = %+v", out[0])
	}
}

func TestSessionLoadSkipsExpired(t *testing.T) {
	sf := &sessionFile{path: filepath.Join(t.TempDir(), "session.json")}
	err := sf.save([]*http.Cookie{
		{Name: "stale", Value: "x", Expires: time.Now().Add(-time.Hour)},
		{Name: "fresh", Value: "y", Expires: time.Now().Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := sf.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].Name != "fresh" {
		t.Fatalf("cookies = %+v", out)
	}
}

func TestSessionMissingFileAndRemove(t *testing.T) {
	sf := &sessionFile{path: filepath.Join(t.TempDir(), "nope.json")}

	out, err := sf.load()
	if err != nil || out != nil {
		t.Fatalf("load missing = %v, %v", out, err)
	}
	if err := sf.remove(); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

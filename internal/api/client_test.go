package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := New(Options{
		ServerURL:   ts.URL,
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, ts
}

func TestCSRFTokenAttachedAfterCookieIsSet(t *testing.T) {
	var sawHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		// First GET hands out the anti-forgery cookie, Django style.
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-123", Path: "/"})
		json.NewEncoder(w).Encode([]any{})
	})
	mux.HandleFunc("/api/tasks/create/", func(w http.ResponseWriter, r *http.Request) {
		sawHeader = r.Header.Get("X-CSRFToken")
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "title": "x"})
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	if _, err := c.ListTasks(ctx); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if _, err := c.CreateTask(ctx, "x"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if sawHeader != "tok-123" {
		t.Fatalf("X-CSRFToken = %q, want tok-123", sawHeader)
	}
}

func TestErrorMessagePrefersErrorField(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "title is required"})
	}))

	_, err := c.CreateTask(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "title is required" {
		t.Fatalf("message = %q", err.Error())
	}
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("IsStatus(400) = false for %v", err)
	}
}

func TestErrorFallsBackToDetailThenStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"detail": "authentication required"})
	}))
	_, err := c.ListTasks(context.Background())
	if err == nil || err.Error() != "authentication required" {
		t.Fatalf("err = %v", err)
	}

	c2, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>nope</html>"))
	}))
	_, err = c2.ListTasks(context.Background())
	if err == nil || err.Error() != "request failed with status 502" {
		t.Fatalf("err = %v", err)
	}
}

func TestErrorCarriesFieldMap(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  map[string]string{"first_name": "too long"},
		})
	}))

	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Fields["first_name"] != "too long" {
		t.Fatalf("fields = %v", apiErr.Fields)
	}
	if apiErr.Message != "validation failed" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestDeleteToleratesEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := c.DeleteTemplate(context.Background(), 3); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}
}

func TestScheduleByDateMapsNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  "No daily task list found for this date",
			"exists": false,
		})
	}))

	_, err := c.ScheduleByDate(context.Background(), "2026-09-01")
	if err != ErrNoSchedule {
		t.Fatalf("err = %v, want ErrNoSchedule", err)
	}
}

func TestNewRejectsBadServerURL(t *testing.T) {
	if _, err := New(Options{ServerURL: ""}); err == nil {
		t.Fatal("empty url accepted")
	}
	if _, err := New(Options{ServerURL: "ftp://example.org"}); err == nil {
		t.Fatal("non-http scheme accepted")
	}
}

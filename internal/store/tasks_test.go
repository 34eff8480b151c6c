package store

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func tasksServer(t *testing.T) (*Tasks, *fakeUI, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"id": 1, "title": "Water plants", "template_count": 0},
			{"id": 2, "title": "Review inbox", "template_count": 2,
				"template_names": []string{"Morning", "Evening"}},
		})
	})
	ui := &fakeUI{answer: true}
	s := NewTasks(newTestClient(t, mux), ui, nil)
	return s, ui, mux
}

func TestTasksInitLoadsOnce(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, []map[string]any{{"id": 1, "title": "Water plants"}})
	})
	s := NewTasks(newTestClient(t, mux), nil, nil)

	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init again: %v", err)
	}
	if calls != 1 {
		t.Fatalf("list fetched %d times, want 1", calls)
	}
}

func TestTasksFilterIsCaseInsensitive(t *testing.T) {
	s, _, _ := tasksServer(t)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.SetQuery("WATER")
	if got := s.Filtered(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("filtered = %v", got)
	}
	s.SetQuery("  ")
	if got := s.Filtered(); len(got) != 2 {
		t.Fatalf("blank query filtered = %d items", len(got))
	}
}

func TestTasksCreateTrimsAndSorts(t *testing.T) {
	s, ui, mux := tasksServer(t)
	mux.HandleFunc("/api/tasks/create/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, map[string]any{"id": 3, "title": body["title"]})
	})

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	created, err := s.Create(ctx, "  Answer email  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Answer email" {
		t.Fatalf("title = %q", created.Title)
	}
	// Alphabetical merge puts the new task first.
	if all := s.All(); all[0].ID != 3 {
		t.Fatalf("all[0] = %+v", all[0])
	}
	ui.hasToast(t, "Task created")
}

func TestTasksCreateRejectsBlankTitleWithoutNetwork(t *testing.T) {
	// No create route registered: a network call would 404 and fail loudly.
	s, ui, _ := tasksServer(t)
	if _, err := s.Create(context.Background(), "   "); err == nil {
		t.Fatal("blank title accepted")
	}
	ui.hasToast(t, "Task title is required")
}

func TestTasksDeleteConfirmDeclinedSkipsNetwork(t *testing.T) {
	s, ui, _ := tasksServer(t)
	ui.answer = false

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// No DELETE route registered; reaching the network would error.
	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("declined delete returned error: %v", err)
	}
	if len(s.All()) != 2 {
		t.Fatal("task removed despite declined confirmation")
	}
}

func TestTasksDeleteWarnsAboutTemplateUsage(t *testing.T) {
	s, ui, mux := tasksServer(t)
	mux.HandleFunc("/api/tasks/2/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		writeJSON(w, map[string]any{"message": "Task deleted successfully", "template_count": 2})
	})

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(ui.confirms) != 1 {
		t.Fatalf("confirms = %v", ui.confirms)
	}
	for _, want := range []string{"Morning", "Evening", "2 template"} {
		if !strings.Contains(ui.confirms[0], want) {
			t.Fatalf("confirmation %q missing %q", ui.confirms[0], want)
		}
	}
	if len(s.All()) != 1 {
		t.Fatal("task not removed from cache")
	}
	ui.hasToast(t, "Task deleted successfully")
}

package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
)

func templatesServer(t *testing.T) (*Templates, *fakeUI, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/templates/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"templates": []model.Template{
			{ID: 1, Title: "Morning", Weekdays: []string{model.Monday, model.Tuesday},
				Tasks: []model.TemplateTask{
					{ID: 11, Title: "Stretch", Order: 10},
					{ID: 12, Title: "Journal", Order: 20},
				}},
		}})
	})
	ui := &fakeUI{answer: true}
	return NewTemplates(newTestClient(t, mux), ui, nil), ui, mux
}

func TestTemplatesDuplicateCopiesTasksNotWeekdays(t *testing.T) {
	s, ui, mux := templatesServer(t)
	var payload api.TemplateInput
	mux.HandleFunc("/api/templates/create/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		writeJSON(w, model.Template{ID: 2, Title: payload.Title, Weekdays: payload.Weekdays})
	})

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	created, err := s.Duplicate(ctx, 1)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}

	if payload.Title != "Morning (copy)" {
		t.Fatalf("title = %q", payload.Title)
	}
	if len(payload.Weekdays) != 0 {
		t.Fatalf("weekdays copied: %v", payload.Weekdays)
	}
	want := []api.TemplateTaskRef{{TaskID: 11, Order: 10}, {TaskID: 12, Order: 20}}
	if len(payload.Tasks) != 2 || payload.Tasks[0] != want[0] || payload.Tasks[1] != want[1] {
		t.Fatalf("tasks = %+v", payload.Tasks)
	}
	if _, ok := s.Find(created.ID); !ok {
		t.Fatal("copy not merged into cache")
	}
	ui.hasToast(t, "Template duplicated")
}

func TestTemplatesReorderTasksRoundTripsWholeTemplate(t *testing.T) {
	s, _, mux := templatesServer(t)
	var payload api.TemplateInput
	mux.HandleFunc("/api/templates/1/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		writeJSON(w, model.Template{ID: 1, Title: payload.Title, Weekdays: payload.Weekdays,
			Tasks: []model.TemplateTask{
				{ID: 12, Title: "Journal", Order: 10},
				{ID: 11, Title: "Stretch", Order: 20},
			}})
	})

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	session, err := s.ReorderTasks(ctx, 1)
	if err != nil {
		t.Fatalf("ReorderTasks: %v", err)
	}

	session.Move(0, 1)
	if err := session.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The server replaces the association set on every write, so the payload
	// must carry title and weekdays too.
	if payload.Title != "Morning" || len(payload.Weekdays) != 2 {
		t.Fatalf("payload = %+v", payload)
	}
	want := []api.TemplateTaskRef{{TaskID: 12, Order: 10}, {TaskID: 11, Order: 20}}
	if len(payload.Tasks) != 2 || payload.Tasks[0] != want[0] || payload.Tasks[1] != want[1] {
		t.Fatalf("tasks = %+v", payload.Tasks)
	}

	tmpl, _ := s.Find(1)
	if tmpl.Tasks[0].ID != 12 {
		t.Fatalf("cache tasks = %+v", tmpl.Tasks)
	}
}

func TestTemplatesDeleteDeclinedKeepsCache(t *testing.T) {
	s, ui, _ := templatesServer(t)
	ui.answer = false

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// No DELETE route registered; reaching the network would error.
	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("declined delete returned error: %v", err)
	}
	if len(s.All()) != 1 {
		t.Fatal("template removed despite declined confirmation")
	}
}

func TestTemplatesWeekdayIndex(t *testing.T) {
	s, _, _ := templatesServer(t)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	idx := s.WeekdayIndex()
	if idx[model.Monday] == nil || idx[model.Monday].ID != 1 {
		t.Fatalf("index = %v", idx)
	}
	if idx[model.Sunday] != nil {
		t.Fatalf("unclaimed weekday mapped: %v", idx[model.Sunday])
	}
	if _, ok := s.ByWeekday(model.Friday); ok {
		t.Fatal("ByWeekday matched an unclaimed weekday")
	}
}

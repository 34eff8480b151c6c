package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
)

// builderServer backs a builder with a task library and one existing template
// that claims Wednesday.
func builderServer(t *testing.T) (*Builder, *Templates, *fakeUI, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.Task{
			{ID: 1, Title: "Stretch"},
			{ID: 2, Title: "Journal"},
			{ID: 3, Title: "Run"},
		})
	})
	mux.HandleFunc("/api/templates/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"templates": []model.Template{
			{ID: 5, Title: "Evening", Weekdays: []string{model.Wednesday},
				Tasks: []model.TemplateTask{{ID: 3, Title: "Run", Order: 10}}},
		}})
	})
	mux.HandleFunc("/api/templates/available-weekdays/", func(w http.ResponseWriter, r *http.Request) {
		days := []string{model.Monday, model.Tuesday}
		if r.URL.Query().Get("exclude") == "5" {
			days = append(days, model.Wednesday)
		}
		writeJSON(w, map[string]any{"available_weekdays": days})
	})

	client := newTestClient(t, mux)
	ui := &fakeUI{answer: true}
	templates := NewTemplates(client, ui, nil)
	tasks := NewTasks(client, ui, nil)
	return NewBuilder(client, ui, templates, tasks), templates, ui, mux
}

func TestBuilderRefusesClaimedWeekday(t *testing.T) {
	b, templates, ui, _ := builderServer(t)

	ctx := context.Background()
	if err := templates.Load(ctx); err != nil {
		t.Fatalf("Load templates: %v", err)
	}
	if err := b.Open(ctx, nil); err != nil {
		t.Fatalf("Open: %v", err)
	}

	b.ToggleWeekday(model.Wednesday)
	if len(b.Weekdays()) != 0 {
		t.Fatalf("weekdays = %v", b.Weekdays())
	}
	ui.hasToast(t, "Wednesday is already assigned to another template (used by Evening)")

	b.ToggleWeekday(model.Monday)
	if got := b.Weekdays(); len(got) != 1 || got[0] != model.Monday {
		t.Fatalf("weekdays = %v", got)
	}
}

func TestBuilderEditKeepsOwnWeekdaysSelectable(t *testing.T) {
	b, templates, _, _ := builderServer(t)

	ctx := context.Background()
	if err := templates.Load(ctx); err != nil {
		t.Fatalf("Load templates: %v", err)
	}
	evening, _ := templates.Find(5)
	if err := b.Open(ctx, evening); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if id, editing := b.Editing(); !editing || id != 5 {
		t.Fatalf("Editing = %d, %v", id, editing)
	}
	if !b.WeekdayAvailable(model.Wednesday) {
		t.Fatal("own weekday not selectable in edit mode")
	}
	b.ToggleWeekday(model.Wednesday) // deselect
	b.ToggleWeekday(model.Wednesday) // reselect
	if got := b.Weekdays(); len(got) != 1 || got[0] != model.Wednesday {
		t.Fatalf("weekdays = %v", got)
	}
}

func TestBuilderValidationReportsEachFailure(t *testing.T) {
	b, _, ui, _ := builderServer(t)

	if err := b.Open(context.Background(), nil); err != nil {
		t.Fatalf("Open: %v", err)
	}
	saved, err := b.Save(context.Background())
	if err != nil || saved != nil {
		t.Fatalf("Save = %v, %v", saved, err)
	}
	for _, want := range []string{
		"Template name is required",
		"Select at least one weekday",
		"Add at least one task",
	} {
		ui.hasToast(t, want)
	}
}

func TestBuilderSaveRenumbersChosenTasks(t *testing.T) {
	b, templates, ui, mux := builderServer(t)
	var payload api.TemplateInput
	mux.HandleFunc("/api/templates/create/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		writeJSON(w, model.Template{ID: 8, Title: payload.Title, Weekdays: payload.Weekdays,
			Tasks: []model.TemplateTask{
				{ID: 1, Title: "Stretch", Order: 10},
				{ID: 2, Title: "Journal", Order: 20},
			}})
	})

	ctx := context.Background()
	if err := templates.Load(ctx); err != nil {
		t.Fatalf("Load templates: %v", err)
	}
	if err := b.Open(ctx, nil); err != nil {
		t.Fatalf("Open: %v", err)
	}

	b.SetName("  Morning  ")
	b.ToggleWeekday(model.Monday)
	b.AddTask(2)
	b.AddTask(1)
	b.MoveChosen(1, 0)

	saved, err := b.Save(ctx)
	if err != nil || saved == nil {
		t.Fatalf("Save = %v, %v", saved, err)
	}
	if payload.Title != "Morning" {
		t.Fatalf("title = %q", payload.Title)
	}
	want := []api.TemplateTaskRef{{TaskID: 1, Order: 10}, {TaskID: 2, Order: 20}}
	if len(payload.Tasks) != 2 || payload.Tasks[0] != want[0] || payload.Tasks[1] != want[1] {
		t.Fatalf("tasks = %+v", payload.Tasks)
	}
	if _, ok := templates.Find(8); !ok {
		t.Fatal("saved template not merged into cache")
	}
	ui.hasToast(t, "Template created")
}

func TestBuilderCreateTaskInjectsIntoChosen(t *testing.T) {
	b, _, _, mux := builderServer(t)
	mux.HandleFunc("/api/tasks/create/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.Task{ID: 9, Title: "Meditate"})
	})

	ctx := context.Background()
	if err := b.Open(ctx, nil); err != nil {
		t.Fatalf("Open: %v", err)
	}
	b.AddTask(1)
	if err := b.CreateTask(ctx, "Meditate"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	chosen := b.Chosen()
	if len(chosen) != 2 || chosen[1].ID != 9 || chosen[1].Order != 20 {
		t.Fatalf("chosen = %+v", chosen)
	}
	for _, task := range b.AvailableTasks() {
		if task.ID == 9 || task.ID == 1 {
			t.Fatalf("picked task %d still listed as available", task.ID)
		}
	}
}

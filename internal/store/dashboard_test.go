package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"dayplan-cli/internal/model"
)

// dashboardServer wires a dashboard with its templates and adhoc stores over
// one mux. One template claims Saturday; 2026-03-14 is a Saturday.
func dashboardServer(t *testing.T) (*Dashboard, *fakeUI, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/templates/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"templates": []model.Template{
			{ID: 1, Title: "Morning", Weekdays: []string{model.Saturday}},
		}})
	})
	mux.HandleFunc("/api/adhoc-tasks/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"adhoc_tasks": []model.DailyTask{}})
	})
	mux.HandleFunc("/api/daily-task-lists/date/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"error": "No daily task list found"})
	})

	client := newTestClient(t, mux)
	ui := &fakeUI{answer: true}
	templates := NewTemplates(client, ui, nil)
	adhoc := NewAdhoc(client, ui, nil)
	return NewDashboard(client, ui, nil, templates, adhoc), ui, mux
}

func TestDashboardMissingScheduleIsEmptyStateNotError(t *testing.T) {
	s, ui, _ := dashboardServer(t)

	if err := s.LoadDate(context.Background(), "2026-03-14"); err != nil {
		t.Fatalf("LoadDate: %v", err)
	}
	if s.Schedule() != nil {
		t.Fatalf("schedule = %+v, want nil", s.Schedule())
	}
	if len(ui.toasts) != 0 {
		t.Fatalf("toasts = %v", ui.toasts)
	}
	if tmpl, ok := s.TemplateForSelectedDate(); !ok || tmpl.ID != 1 {
		t.Fatalf("template for Saturday = %+v, %v", tmpl, ok)
	}
}

func TestDashboardCreateScheduleRequiresCoveringTemplate(t *testing.T) {
	s, ui, _ := dashboardServer(t)

	ctx := context.Background()
	// 2026-03-13 is a Friday; nothing claims it.
	if err := s.LoadDate(ctx, "2026-03-13"); err != nil {
		t.Fatalf("LoadDate: %v", err)
	}
	if err := s.CreateSchedule(ctx); err == nil {
		t.Fatal("expected create error without a covering template")
	}
	ui.hasToast(t, "No template covers this weekday")
}

func TestDashboardCreateScheduleFromWeekdayTemplate(t *testing.T) {
	s, ui, mux := dashboardServer(t)
	mux.HandleFunc("/api/daily-task-lists/create/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["date"] != "2026-03-14" || body["template_id"] != float64(1) {
			t.Errorf("body = %v", body)
		}
		writeJSON(w, model.Schedule{
			ID: 9, Date: "2026-03-14",
			Template: model.TemplateRef{ID: 1, Title: "Morning"},
			Tasks:    []model.DailyTask{{ID: 7, Title: "Stretch", Order: 10}},
		})
	})

	ctx := context.Background()
	if err := s.LoadDate(ctx, "2026-03-14"); err != nil {
		t.Fatalf("LoadDate: %v", err)
	}
	if err := s.CreateSchedule(ctx); err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
	if s.Schedule() == nil || s.Schedule().ID != 9 {
		t.Fatalf("schedule = %+v", s.Schedule())
	}
	ui.hasToast(t, "Schedule created from Morning")
}

func TestDashboardToggleTaskFlipsBothCompletionFields(t *testing.T) {
	serverAt := localStamp(t, "2026-03-14 11:00")
	fail := true
	s, ui, mux := dashboardServer(t)
	mux.HandleFunc("/api/daily-task-lists/date/2026-03-14/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.Schedule{
			ID: 9, Date: "2026-03-14",
			Template: model.TemplateRef{ID: 1, Title: "Morning"},
			Tasks:    []model.DailyTask{{ID: 7, Title: "Stretch", Order: 10}},
		})
	})
	mux.HandleFunc("/api/daily-tasks/7/complete/", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(w, map[string]string{"error": "boom"})
			return
		}
		writeJSON(w, model.DailyTask{ID: 7, Title: "Stretch", Order: 10, Completed: true, CompletedAt: serverAt})
	})

	ctx := context.Background()
	if err := s.LoadDate(ctx, "2026-03-14"); err != nil {
		t.Fatalf("LoadDate: %v", err)
	}

	if err := s.ToggleTask(ctx, 7); err == nil {
		t.Fatal("expected toggle error")
	}
	task := s.Schedule().Tasks[0]
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("rollback left %+v", task)
	}
	ui.hasToast(t, "Failed to update task")

	fail = false
	if err := s.ToggleTask(ctx, 7); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	task = s.Schedule().Tasks[0]
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(*serverAt) {
		t.Fatalf("task = %+v, want server stamp %v", task, serverAt)
	}
}

func TestDashboardNavigationRederivesFromSelectedDate(t *testing.T) {
	s, _, _ := dashboardServer(t)
	s.today = "2026-03-14"

	ctx := context.Background()
	if err := s.LoadDate(ctx, "2026-03-14"); err != nil {
		t.Fatalf("LoadDate: %v", err)
	}
	if err := s.NextDay(ctx); err != nil {
		t.Fatalf("NextDay: %v", err)
	}
	if s.SelectedDate() != "2026-03-15" {
		t.Fatalf("selected = %s", s.SelectedDate())
	}
	if err := s.PrevDay(ctx); err != nil {
		t.Fatalf("PrevDay: %v", err)
	}
	if err := s.PrevDay(ctx); err != nil {
		t.Fatalf("PrevDay: %v", err)
	}
	if s.SelectedDate() != "2026-03-13" {
		t.Fatalf("selected = %s", s.SelectedDate())
	}
	if err := s.GoToday(ctx); err != nil {
		t.Fatalf("GoToday: %v", err)
	}
	if s.SelectedDate() != s.Today() {
		t.Fatalf("selected = %s, today = %s", s.SelectedDate(), s.Today())
	}
	if s.Err() != nil {
		t.Fatalf("Err = %v", s.Err())
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestGetScheduleDecodesTasks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/daily-task-lists/4/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":       4,
			"date":     "2026-09-01",
			"template": map[string]any{"id": 1, "title": "Morning"},
			"tasks": []map[string]any{
				{"id": 40, "title": "Stretch", "order": 10, "completed": false},
				{"id": 41, "title": "Journal", "order": 20, "completed": true},
			},
		})
	})

	c, _ := newTestClient(t, mux)
	sched, err := c.GetSchedule(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if sched.Date != "2026-09-01" || sched.Template.Title != "Morning" {
		t.Fatalf("schedule = %+v", sched)
	}
	if len(sched.Tasks) != 2 || sched.Tasks[1].Order != 20 || !sched.Tasks[1].Completed {
		t.Fatalf("tasks = %+v", sched.Tasks)
	}
}

func TestTodayScheduleMapsNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/daily-task-lists/today/" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "No daily task list found for today"})
	}))

	if _, err := c.TodaySchedule(context.Background()); err != ErrNoSchedule {
		t.Fatalf("err = %v, want ErrNoSchedule", err)
	}
}

func TestGetDailyTaskCarriesLabels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/daily-tasks/77/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": 77, "title": "Buy stamps", "order": 10, "is_adhoc": true,
			"due_date": "2026-09-01",
			"labels":   []map[string]any{{"id": "lbl-1", "name": "errands", "color": "#aa3311"}},
		})
	})

	c, _ := newTestClient(t, mux)
	task, err := c.GetDailyTask(context.Background(), 77)
	if err != nil {
		t.Fatalf("GetDailyTask: %v", err)
	}
	if !task.IsAdhoc || task.DueDate != "2026-09-01" {
		t.Fatalf("task = %+v", task)
	}
	if !task.HasLabel("lbl-1") {
		t.Fatalf("labels = %+v", task.Labels)
	}
}

package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
)

// Tasks caches the master task library and a live search filter over it.
type Tasks struct {
	status
	client *api.Client
	ui     UI
	rec    Recorder

	tasks []model.Task
	query string
}

func NewTasks(client *api.Client, ui UI, rec Recorder) *Tasks {
	return &Tasks{client: client, ui: orNopUI(ui), rec: orNopRecorder(rec)}
}

// Init loads the library once; repeated calls are no-ops.
func (s *Tasks) Init(ctx context.Context) error {
	if s.inited {
		return nil
	}
	s.inited = true
	return s.Load(ctx)
}

// Load refreshes the library from the server.
func (s *Tasks) Load(ctx context.Context) error {
	defer s.begin()()
	tasks, err := s.client.ListTasks(ctx)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Failed to load tasks: "+err.Error())
		return err
	}
	s.tasks = tasks
	return nil
}

// All returns every library task.
func (s *Tasks) All() []model.Task { return s.tasks }

// Find returns the cached task with the given id.
func (s *Tasks) Find(id int) (*model.Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i], true
		}
	}
	return nil, false
}

// SetQuery updates the live search query.
func (s *Tasks) SetQuery(q string) { s.query = q }

// Query returns the live search query.
func (s *Tasks) Query() string { return s.query }

// Filtered returns the tasks whose title contains the query,
// case-insensitively. An empty query matches everything.
func (s *Tasks) Filtered() []model.Task {
	q := strings.ToLower(strings.TrimSpace(s.query))
	if q == "" {
		return s.tasks
	}
	var out []model.Task
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, t)
		}
	}
	return out
}

// Create adds a task to the library and merges it into the cache.
func (s *Tasks) Create(ctx context.Context, title string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		s.ui.Toast(ToastWarning, "Task title is required")
		return nil, fmt.Errorf("task title is required")
	}
	created, err := s.client.CreateTask(ctx, title)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to create task: "+err.Error())
		return nil, err
	}
	s.tasks = append(s.tasks, *created)
	sort.SliceStable(s.tasks, func(i, j int) bool { return s.tasks[i].Title < s.tasks[j].Title })
	s.rec.Record("task.create", strconv.Itoa(created.ID), map[string]any{"title": created.Title})
	s.ui.Toast(ToastSuccess, "Task created")
	return created, nil
}

// Rename updates a task's title and merges the returned record.
func (s *Tasks) Rename(ctx context.Context, id int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		s.ui.Toast(ToastWarning, "Task title is required")
		return fmt.Errorf("task title is required")
	}
	updated, err := s.client.UpdateTask(ctx, id, title)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to update task: "+err.Error())
		return err
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = *updated
			break
		}
	}
	s.rec.Record("task.rename", strconv.Itoa(id), map[string]any{"title": title})
	s.ui.Toast(ToastSuccess, "Task updated")
	return nil
}

// Delete removes a task after confirmation. When templates still reference
// the task the confirmation spells out which ones; the server removes those
// references along with the task.
func (s *Tasks) Delete(ctx context.Context, id int) error {
	t, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("task %d not found", id)
	}

	body := fmt.Sprintf("Delete %q from the task library?", t.Title)
	if t.TemplateCount > 0 {
		body = fmt.Sprintf("%q is used by %d template(s): %s. Deleting it removes it from them too. Continue?",
			t.Title, t.TemplateCount, strings.Join(t.TemplateNames, ", "))
	}
	if !s.ui.Confirm("Delete task", body) {
		return nil
	}

	res, err := s.client.DeleteTask(ctx, id)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to delete task: "+err.Error())
		return err
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.rec.Record("task.delete", strconv.Itoa(id), map[string]any{"template_count": res.TemplateCount})
	s.ui.Toast(ToastSuccess, res.Message)
	return nil
}

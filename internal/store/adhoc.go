package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/order"
)

// Adhoc caches adhoc tasks in two disjoint slices: incomplete tasks
// (global, not filtered by date) and tasks completed on the selected date.
type Adhoc struct {
	status
	client *api.Client
	ui     UI
	rec    Recorder
	now    func() time.Time

	date       string // selected date the completed slice is filtered to
	incomplete []model.DailyTask
	completed  []model.DailyTask

	activeLabels map[string]bool
}

func NewAdhoc(client *api.Client, ui UI, rec Recorder) *Adhoc {
	return &Adhoc{
		client:       client,
		ui:           orNopUI(ui),
		rec:          orNopRecorder(rec),
		now:          time.Now,
		activeLabels: map[string]bool{},
	}
}

// LoadForDate refreshes both slices for a selected date.
//
// The completed slice fetches the server buckets for date AND the following
// day, then keeps only tasks whose completion timestamp falls on date in
// local time: the server buckets by its own day boundary, which need not
// agree with the client's around midnight, so the two-day overlap plus a
// local re-filter is the defensive middle ground.
func (s *Adhoc) LoadForDate(ctx context.Context, date string) error {
	defer s.begin()()
	s.date = date

	incomplete, err := s.client.ListAdhocTasks(ctx, false, "")
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Failed to load adhoc tasks: "+err.Error())
		return err
	}
	order.Sort(incomplete, func(t model.DailyTask) int { return t.Order }, true)
	s.incomplete = incomplete

	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		s.err = err
		return fmt.Errorf("parse date %q: %w", date, err)
	}
	next := day.AddDate(0, 0, 1).Format("2006-01-02")

	sameDay, err := s.client.ListAdhocTasks(ctx, true, date)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Failed to load completed adhoc tasks: "+err.Error())
		return err
	}
	nextDay, err := s.client.ListAdhocTasks(ctx, true, next)
	if err != nil {
		s.err = err
		s.ui.Toast(ToastError, "Failed to load completed adhoc tasks: "+err.Error())
		return err
	}

	seen := map[int]bool{}
	var completed []model.DailyTask
	for _, t := range append(sameDay, nextDay...) {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		if t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.In(time.Local).Format("2006-01-02") != date {
			continue
		}
		completed = append(completed, t)
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})
	s.completed = completed
	return nil
}

// Date returns the date the completed slice is filtered to.
func (s *Adhoc) Date() string { return s.date }

// Incomplete returns all incomplete adhoc tasks.
func (s *Adhoc) Incomplete() []model.DailyTask { return s.incomplete }

// Completed returns the tasks completed on the selected date.
func (s *Adhoc) Completed() []model.DailyTask { return s.completed }

// ToggleLabelFilter adds or removes a label id from the active filter set.
func (s *Adhoc) ToggleLabelFilter(labelID string) {
	if s.activeLabels[labelID] {
		delete(s.activeLabels, labelID)
		return
	}
	s.activeLabels[labelID] = true
}

// ClearLabelFilters resets the filter set.
func (s *Adhoc) ClearLabelFilters() { s.activeLabels = map[string]bool{} }

// ActiveLabelFilters returns the active label ids.
func (s *Adhoc) ActiveLabelFilters() []string {
	out := make([]string, 0, len(s.activeLabels))
	for id := range s.activeLabels {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LabelFilterActive reports whether a label id is in the filter set.
func (s *Adhoc) LabelFilterActive(labelID string) bool { return s.activeLabels[labelID] }

// FilteredIncomplete applies the label filter with OR semantics: a task
// matches when it carries any active label. No active filters matches all.
func (s *Adhoc) FilteredIncomplete() []model.DailyTask {
	if len(s.activeLabels) == 0 {
		return s.incomplete
	}
	var out []model.DailyTask
	for _, t := range s.incomplete {
		for id := range s.activeLabels {
			if t.HasLabel(id) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Create adds an adhoc task due on dueDate, optionally labeled, and appends
// it with the server-assigned order.
func (s *Adhoc) Create(ctx context.Context, title, dueDate, labelID string) (*model.DailyTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		s.ui.Toast(ToastWarning, "Task title is required")
		return nil, fmt.Errorf("task title is required")
	}
	if dueDate == "" {
		s.ui.Toast(ToastWarning, "Due date is required")
		return nil, fmt.Errorf("due date is required")
	}
	created, err := s.client.CreateAdhocTask(ctx, title, dueDate, labelID)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to create task: "+err.Error())
		return nil, err
	}
	s.incomplete = append(s.incomplete, *created)
	s.rec.Record("adhoc.create", strconv.Itoa(created.ID), map[string]any{"title": created.Title, "due_date": dueDate})
	s.ui.Toast(ToastSuccess, "Task added")
	return created, nil
}

// Toggle flips an adhoc task's completion optimistically, moving it between
// the incomplete and completed slices. On failure the move and both
// completion fields revert to their prior values.
func (s *Adhoc) Toggle(ctx context.Context, id int) error {
	if idx := indexOfTask(s.incomplete, id); idx >= 0 {
		return s.complete(ctx, idx)
	}
	if idx := indexOfTask(s.completed, id); idx >= 0 {
		return s.uncomplete(ctx, idx)
	}
	return fmt.Errorf("adhoc task %d not found", id)
}

func (s *Adhoc) complete(ctx context.Context, idx int) error {
	task := s.incomplete[idx]
	prevIncomplete := s.incomplete
	prevCompleted := s.completed

	err := optimistic(
		func() func() {
			return func() {
				s.incomplete = prevIncomplete
				s.completed = prevCompleted
			}
		},
		func() {
			now := s.now()
			task.Completed = true
			task.CompletedAt = &now
			s.incomplete = removeTaskAt(s.incomplete, idx)
			if now.In(time.Local).Format("2006-01-02") == s.date {
				s.completed = append([]model.DailyTask{task}, s.completed...)
			}
		},
		func() error {
			res, err := s.client.CompleteDailyTask(ctx, task.ID)
			if err != nil {
				return err
			}
			// Adopt the server's completion stamp.
			for i := range s.completed {
				if s.completed[i].ID == task.ID {
					s.completed[i].CompletedAt = res.CompletedAt
					s.completed[i].Order = res.Order
				}
			}
			return nil
		},
	)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to complete task: "+err.Error())
		return err
	}
	s.rec.Record("adhoc.complete", strconv.Itoa(task.ID), nil)
	return nil
}

func (s *Adhoc) uncomplete(ctx context.Context, idx int) error {
	task := s.completed[idx]
	prevIncomplete := s.incomplete
	prevCompleted := s.completed

	err := optimistic(
		func() func() {
			return func() {
				s.incomplete = prevIncomplete
				s.completed = prevCompleted
			}
		},
		func() {
			task.Completed = false
			task.CompletedAt = nil
			s.completed = removeTaskAt(s.completed, idx)
			s.incomplete = append(s.incomplete, task)
		},
		func() error {
			res, err := s.client.IncompleteDailyTask(ctx, task.ID)
			if err != nil {
				return err
			}
			// The server re-orders revived tasks to the bottom of the list.
			for i := range s.incomplete {
				if s.incomplete[i].ID == task.ID {
					s.incomplete[i].Order = res.Order
				}
			}
			return nil
		},
	)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to reopen task: "+err.Error())
		return err
	}
	s.rec.Record("adhoc.incomplete", strconv.Itoa(task.ID), nil)
	return nil
}

// SetLabel replaces a task's label assignment ("" clears it).
func (s *Adhoc) SetLabel(ctx context.Context, id int, labelID string) error {
	updated, err := s.client.UpdateDailyTask(ctx, id, api.DailyTaskUpdate{LabelID: &labelID})
	if err != nil {
		s.ui.Toast(ToastError, "Failed to update task: "+err.Error())
		return err
	}
	for i := range s.incomplete {
		if s.incomplete[i].ID == id {
			s.incomplete[i].Labels = updated.Labels
		}
	}
	for i := range s.completed {
		if s.completed[i].ID == id {
			s.completed[i].Labels = updated.Labels
		}
	}
	return nil
}

// Delete removes an adhoc task after confirmation.
func (s *Adhoc) Delete(ctx context.Context, id int) error {
	title := ""
	if idx := indexOfTask(s.incomplete, id); idx >= 0 {
		title = s.incomplete[idx].Title
	} else if idx := indexOfTask(s.completed, id); idx >= 0 {
		title = s.completed[idx].Title
	} else {
		return fmt.Errorf("adhoc task %d not found", id)
	}
	if !s.ui.Confirm("Delete task", fmt.Sprintf("Delete %q?", title)) {
		return nil
	}
	if err := s.client.DeleteDailyTask(ctx, id); err != nil {
		s.ui.Toast(ToastError, "Failed to delete task: "+err.Error())
		return err
	}
	if idx := indexOfTask(s.incomplete, id); idx >= 0 {
		s.incomplete = removeTaskAt(s.incomplete, idx)
	}
	if idx := indexOfTask(s.completed, id); idx >= 0 {
		s.completed = removeTaskAt(s.completed, idx)
	}
	s.rec.Record("adhoc.delete", strconv.Itoa(id), nil)
	s.ui.Toast(ToastSuccess, "Task deleted")
	return nil
}

// ReorderIncomplete starts a reorder session over the incomplete list.
// Saving persists each changed order key individually.
func (s *Adhoc) ReorderIncomplete(ctx context.Context) *Reorder[model.DailyTask] {
	prior := map[int]int{}
	for _, t := range s.incomplete {
		prior[t.ID] = t.Order
	}
	return NewReorder(s.incomplete,
		func(t model.DailyTask) int { return t.ID },
		func(t *model.DailyTask, key int) { t.Order = key },
		func(items []model.DailyTask) error {
			for _, t := range items {
				if prior[t.ID] == t.Order {
					continue
				}
				o := t.Order
				if _, err := s.client.UpdateDailyTask(ctx, t.ID, api.DailyTaskUpdate{Order: &o}); err != nil {
					return err
				}
				prior[t.ID] = t.Order
			}
			s.incomplete = append([]model.DailyTask(nil), items...)
			s.rec.Record("adhoc.reorder", "", map[string]any{"count": len(items)})
			return nil
		},
	)
}

func indexOfTask(tasks []model.DailyTask, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func removeTaskAt(tasks []model.DailyTask, idx int) []model.DailyTask {
	out := append([]model.DailyTask(nil), tasks[:idx]...)
	return append(out, tasks[idx+1:]...)
}

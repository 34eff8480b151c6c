package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dayplan-cli/internal/api"
	"dayplan-cli/internal/model"
)

const dateLayout = "2006-01-02"

// Dashboard tracks the selected calendar date and that date's schedule.
//
// Today is captured once at construction and kept separate from the selected
// date, so "jump to today" stays correct even when the clock date rolls over
// mid-session. Date navigation always re-derives from the selected date and
// never accumulates drift.
type Dashboard struct {
	status
	client    *api.Client
	ui        UI
	rec       Recorder
	templates *Templates
	adhoc     *Adhoc
	now       func() time.Time

	today    string
	selected string
	schedule *model.Schedule // nil: no schedule exists for the selected date
}

func NewDashboard(client *api.Client, ui UI, rec Recorder, templates *Templates, adhoc *Adhoc) *Dashboard {
	d := &Dashboard{
		client:    client,
		ui:        orNopUI(ui),
		rec:       orNopRecorder(rec),
		templates: templates,
		adhoc:     adhoc,
		now:       time.Now,
	}
	d.today = d.now().Format(dateLayout)
	d.selected = d.today
	return d
}

// Init loads today's schedule once; repeated calls are no-ops.
func (s *Dashboard) Init(ctx context.Context) error {
	if s.inited {
		return nil
	}
	s.inited = true
	return s.LoadDate(ctx, s.selected)
}

// Today returns the fixed reference date captured at construction.
func (s *Dashboard) Today() string { return s.today }

// SelectedDate returns the date the dashboard is showing.
func (s *Dashboard) SelectedDate() string { return s.selected }

// Schedule returns the selected date's schedule, or nil when none exists.
func (s *Dashboard) Schedule() *model.Schedule { return s.schedule }

// TemplateForSelectedDate returns the template covering the selected date's
// weekday, if any. This is a snapshot read of the templates store's cache.
func (s *Dashboard) TemplateForSelectedDate() (*model.Template, bool) {
	day, err := time.ParseInLocation(dateLayout, s.selected, time.Local)
	if err != nil {
		return nil, false
	}
	return s.templates.ByWeekday(model.WeekdayOf(day))
}

// LoadDate selects a date and refreshes everything shown for it: weekday
// coverage from the templates store, the date's schedule (an absent schedule
// is a valid empty state, not a failure), and the adhoc store's slices.
func (s *Dashboard) LoadDate(ctx context.Context, date string) error {
	defer s.begin()()
	if _, err := time.ParseInLocation(dateLayout, date, time.Local); err != nil {
		s.err = err
		return fmt.Errorf("parse date %q: %w", date, err)
	}
	s.selected = date

	if err := s.templates.Init(ctx); err != nil {
		s.err = err
		return err
	}

	sched, err := s.client.ScheduleByDate(ctx, date)
	switch {
	case errors.Is(err, api.ErrNoSchedule):
		s.schedule = nil
	case err != nil:
		s.err = err
		s.ui.Toast(ToastError, "Failed to load schedule: "+err.Error())
		return err
	default:
		s.schedule = sched
	}

	return s.adhoc.LoadForDate(ctx, date)
}

// Reload refreshes the selected date.
func (s *Dashboard) Reload(ctx context.Context) error {
	return s.LoadDate(ctx, s.selected)
}

// PrevDay moves the selection one day back.
func (s *Dashboard) PrevDay(ctx context.Context) error {
	return s.LoadDate(ctx, s.shiftSelected(-1))
}

// NextDay moves the selection one day forward.
func (s *Dashboard) NextDay(ctx context.Context) error {
	return s.LoadDate(ctx, s.shiftSelected(1))
}

// GoToday jumps back to the fixed reference date.
func (s *Dashboard) GoToday(ctx context.Context) error {
	return s.LoadDate(ctx, s.today)
}

func (s *Dashboard) shiftSelected(days int) string {
	day, err := time.ParseInLocation(dateLayout, s.selected, time.Local)
	if err != nil {
		return s.selected
	}
	return day.AddDate(0, 0, days).Format(dateLayout)
}

// CreateSchedule materializes the selected date's schedule from the template
// covering its weekday.
func (s *Dashboard) CreateSchedule(ctx context.Context) error {
	t, ok := s.TemplateForSelectedDate()
	if !ok {
		s.ui.Toast(ToastWarning, "No template covers this weekday yet")
		return fmt.Errorf("no template for %s", s.selected)
	}
	sched, err := s.client.CreateSchedule(ctx, s.selected, t.ID)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to create schedule: "+err.Error())
		return err
	}
	s.schedule = sched
	s.rec.Record("schedule.create", strconv.Itoa(sched.ID), map[string]any{"date": s.selected, "template": t.ID})
	s.ui.Toast(ToastSuccess, "Schedule created from "+t.Title)
	return nil
}

// DeleteSchedule removes the selected date's schedule after confirmation,
// then reloads the date.
func (s *Dashboard) DeleteSchedule(ctx context.Context) error {
	if s.schedule == nil {
		return nil
	}
	if !s.ui.Confirm("Delete schedule", fmt.Sprintf("Delete the schedule for %s and all its tasks?", s.selected)) {
		return nil
	}
	id := s.schedule.ID
	if err := s.client.DeleteSchedule(ctx, id); err != nil {
		s.ui.Toast(ToastError, "Failed to delete schedule: "+err.Error())
		return err
	}
	s.rec.Record("schedule.delete", strconv.Itoa(id), map[string]any{"date": s.selected})
	s.ui.Toast(ToastSuccess, "Schedule deleted")
	return s.Reload(ctx)
}

// ToggleTask flips a schedule task's completion optimistically: completed
// and completed_at change together before the call and revert together on
// failure.
func (s *Dashboard) ToggleTask(ctx context.Context, taskID int) error {
	if s.schedule == nil {
		return fmt.Errorf("no schedule loaded")
	}
	var task *model.DailyTask
	for i := range s.schedule.Tasks {
		if s.schedule.Tasks[i].ID == taskID {
			task = &s.schedule.Tasks[i]
			break
		}
	}
	if task == nil {
		return fmt.Errorf("task %d not in schedule", taskID)
	}

	completing := !task.Completed
	err := optimistic(
		func() func() {
			prevCompleted := task.Completed
			prevAt := task.CompletedAt
			return func() {
				task.Completed = prevCompleted
				task.CompletedAt = prevAt
			}
		},
		func() {
			if completing {
				now := s.now()
				task.Completed = true
				task.CompletedAt = &now
			} else {
				task.Completed = false
				task.CompletedAt = nil
			}
		},
		func() error {
			var res *model.DailyTask
			var err error
			if completing {
				res, err = s.client.CompleteDailyTask(ctx, taskID)
			} else {
				res, err = s.client.IncompleteDailyTask(ctx, taskID)
			}
			if err != nil {
				return err
			}
			task.CompletedAt = res.CompletedAt
			return nil
		},
	)
	if err != nil {
		s.ui.Toast(ToastError, "Failed to update task: "+err.Error())
		return err
	}
	s.rec.Record("daily.toggle", strconv.Itoa(taskID), map[string]any{"completed": completing})
	return nil
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"dayplan-cli/internal/model"
)

// ErrNoSchedule means no daily task list exists for the requested date.
// The by-date and today lookups answer 404 for an absent list; callers treat
// that as a valid empty state, not a failure.
var ErrNoSchedule = errors.New("no schedule for date")

// ScheduleSummary is one row of the schedule index (no tasks).
type ScheduleSummary struct {
	ID       int               `json:"id"`
	Date     string            `json:"date"`
	Template model.TemplateRef `json:"template"`
}

// ListSchedules returns schedule summaries, optionally bounded by dates
// (YYYY-MM-DD, inclusive). Empty bounds are omitted.
func (c *Client) ListSchedules(ctx context.Context, startDate, endDate string) ([]ScheduleSummary, error) {
	path := "/daily-task-lists/"
	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out struct {
		DailyTaskLists []ScheduleSummary `json:"daily_task_lists"`
	}
	if err := c.get(ctx, taskAPIBase, path, &out); err != nil {
		return nil, err
	}
	return out.DailyTaskLists, nil
}

// CreateSchedule materializes a template into a daily task list for date.
// The server refuses when a list already exists for that date.
func (c *Client) CreateSchedule(ctx context.Context, date string, templateID int) (*model.Schedule, error) {
	var out model.Schedule
	body := map[string]any{"date": date, "template_id": templateID}
	if err := c.post(ctx, taskAPIBase, "/daily-task-lists/create/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSchedule fetches one schedule with its ordered tasks.
func (c *Client) GetSchedule(ctx context.Context, id int) (*model.Schedule, error) {
	var out model.Schedule
	if err := c.get(ctx, taskAPIBase, fmt.Sprintf("/daily-task-lists/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSchedule removes a schedule and its generated tasks.
func (c *Client) DeleteSchedule(ctx context.Context, id int) error {
	return c.del(ctx, taskAPIBase, fmt.Sprintf("/daily-task-lists/%d/", id), nil)
}

// ScheduleByDate fetches the schedule for a calendar date, or ErrNoSchedule
// when none exists.
func (c *Client) ScheduleByDate(ctx context.Context, date string) (*model.Schedule, error) {
	var out model.Schedule
	err := c.get(ctx, taskAPIBase, "/daily-task-lists/date/"+date+"/", &out)
	if err != nil {
		if IsStatus(err, 404) {
			return nil, ErrNoSchedule
		}
		return nil, err
	}
	return &out, nil
}

// TodaySchedule fetches the schedule for the server's current date, or
// ErrNoSchedule when none exists.
func (c *Client) TodaySchedule(ctx context.Context) (*model.Schedule, error) {
	var out model.Schedule
	err := c.get(ctx, taskAPIBase, "/daily-task-lists/today/", &out)
	if err != nil {
		if IsStatus(err, 404) {
			return nil, ErrNoSchedule
		}
		return nil, err
	}
	return &out, nil
}

// DailyTaskUpdate is a partial update for a daily task; nil fields are
// omitted from the payload. LabelID distinguishes "unset" (nil) from
// "clear" (pointer to empty string).
type DailyTaskUpdate struct {
	Title   *string `json:"title,omitempty"`
	Order   *int    `json:"order,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
	LabelID *string `json:"label_id,omitempty"`
}

// GetDailyTask fetches one daily task with its labels.
func (c *Client) GetDailyTask(ctx context.Context, id int) (*model.DailyTask, error) {
	var out model.DailyTask
	if err := c.get(ctx, taskAPIBase, fmt.Sprintf("/daily-tasks/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDailyTask applies a partial update to a daily task.
func (c *Client) UpdateDailyTask(ctx context.Context, id int, in DailyTaskUpdate) (*model.DailyTask, error) {
	var out model.DailyTask
	if err := c.put(ctx, taskAPIBase, fmt.Sprintf("/daily-tasks/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDailyTask removes a daily task.
func (c *Client) DeleteDailyTask(ctx context.Context, id int) error {
	return c.del(ctx, taskAPIBase, fmt.Sprintf("/daily-tasks/%d/", id), nil)
}

// CompleteDailyTask marks a task complete. The response carries the
// server-stamped completion time.
func (c *Client) CompleteDailyTask(ctx context.Context, id int) (*model.DailyTask, error) {
	var out model.DailyTask
	if err := c.post(ctx, taskAPIBase, fmt.Sprintf("/daily-tasks/%d/complete/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IncompleteDailyTask clears a task's completion. Adhoc tasks get re-ordered
// to the bottom of the incomplete list by the server.
func (c *Client) IncompleteDailyTask(ctx context.Context, id int) (*model.DailyTask, error) {
	var out model.DailyTask
	if err := c.post(ctx, taskAPIBase, fmt.Sprintf("/daily-tasks/%d/incomplete/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompletionStats returns per-template-task completion analytics.
func (c *Client) CompletionStats(ctx context.Context) ([]model.CompletionStat, error) {
	var out struct {
		Stats []model.CompletionStat `json:"stats"`
	}
	if err := c.get(ctx, taskAPIBase, "/analytics/completion-stats/", &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

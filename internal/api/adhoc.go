package api

import (
	"context"
	"net/url"
	"strconv"

	"dayplan-cli/internal/model"
)

// ListAdhocTasks returns adhoc tasks.
//
// completed=false ignores date and returns all incomplete tasks ordered by
// their sort key. completed=true with a date filters by the server's
// completion-date bucket for that date; callers that care about local-time
// day boundaries re-filter the result themselves.
func (c *Client) ListAdhocTasks(ctx context.Context, completed bool, date string) ([]model.DailyTask, error) {
	q := url.Values{"completed": {strconv.FormatBool(completed)}}
	if date != "" {
		q.Set("date", date)
	}
	var out struct {
		AdhocTasks []model.DailyTask `json:"adhoc_tasks"`
	}
	if err := c.get(ctx, taskAPIBase, "/adhoc-tasks/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.AdhocTasks, nil
}

// CreateAdhocTask creates an adhoc task due on dueDate (YYYY-MM-DD),
// optionally tagged with one label. The server assigns the next order key.
func (c *Client) CreateAdhocTask(ctx context.Context, title, dueDate, labelID string) (*model.DailyTask, error) {
	body := map[string]any{"title": title, "due_date": dueDate}
	if labelID != "" {
		body["label_id"] = labelID
	}
	var out model.DailyTask
	if err := c.post(ctx, taskAPIBase, "/adhoc-tasks/create/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

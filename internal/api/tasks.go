package api

import (
	"context"
	"fmt"

	"dayplan-cli/internal/model"
)

// ListTasks returns the master task library, sorted by the server (title).
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.get(ctx, taskAPIBase, "/tasks/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask adds a task to the master library.
func (c *Client) CreateTask(ctx context.Context, title string) (*model.Task, error) {
	var out model.Task
	body := map[string]any{"title": title}
	if err := c.post(ctx, taskAPIBase, "/tasks/create/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTask fetches one library task.
func (c *Client) GetTask(ctx context.Context, id int) (*model.Task, error) {
	var out model.Task
	if err := c.get(ctx, taskAPIBase, fmt.Sprintf("/tasks/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask renames a library task. The response carries refreshed template
// usage info.
func (c *Client) UpdateTask(ctx context.Context, id int, title string) (*model.Task, error) {
	var out model.Task
	body := map[string]any{"title": title}
	if err := c.put(ctx, taskAPIBase, fmt.Sprintf("/tasks/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TaskDeleteResult reports how many template references were removed along
// with the task.
type TaskDeleteResult struct {
	Message       string `json:"message"`
	TemplateCount int    `json:"template_count"`
}

// DeleteTask removes a library task. Template references cascade; generated
// daily tasks survive with their link cleared.
func (c *Client) DeleteTask(ctx context.Context, id int) (*TaskDeleteResult, error) {
	var out TaskDeleteResult
	if err := c.del(ctx, taskAPIBase, fmt.Sprintf("/tasks/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"dayplan-cli/internal/model"
)

// TemplateTaskRef is the minimal (task id, order) pair submitted when
// creating or updating a template.
type TemplateTaskRef struct {
	TaskID int `json:"task_id"`
	Order  int `json:"order"`
}

// TemplateInput is the create/update payload for a template. The server
// replaces the whole task association set on every write.
type TemplateInput struct {
	Title    string            `json:"title"`
	Weekdays []string          `json:"weekdays"`
	Tasks    []TemplateTaskRef `json:"tasks"`
}

// ListTemplates returns all of the user's templates with their ordered tasks.
func (c *Client) ListTemplates(ctx context.Context) ([]model.Template, error) {
	var out struct {
		Templates []model.Template `json:"templates"`
	}
	if err := c.get(ctx, taskAPIBase, "/templates/", &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// CreateTemplate creates a template together with its task associations.
func (c *Client) CreateTemplate(ctx context.Context, in TemplateInput) (*model.Template, error) {
	var out model.Template
	if err := c.post(ctx, taskAPIBase, "/templates/create/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTemplate fetches one template with its ordered tasks.
func (c *Client) GetTemplate(ctx context.Context, id int) (*model.Template, error) {
	var out model.Template
	if err := c.get(ctx, taskAPIBase, fmt.Sprintf("/templates/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTemplate replaces a template's title, weekdays and task set.
func (c *Client) UpdateTemplate(ctx context.Context, id int, in TemplateInput) (*model.Template, error) {
	var out model.Template
	if err := c.put(ctx, taskAPIBase, fmt.Sprintf("/templates/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTemplate removes a template. The server refuses when generated
// schedules still reference it.
func (c *Client) DeleteTemplate(ctx context.Context, id int) error {
	return c.del(ctx, taskAPIBase, fmt.Sprintf("/templates/%d/", id), nil)
}

// AvailableWeekdays returns the weekdays not yet claimed by any template.
// excludeTemplateID > 0 ignores that template's own claims (edit mode).
func (c *Client) AvailableWeekdays(ctx context.Context, excludeTemplateID int) ([]string, error) {
	path := "/templates/available-weekdays/"
	if excludeTemplateID > 0 {
		q := url.Values{"exclude": {strconv.Itoa(excludeTemplateID)}}
		path += "?" + q.Encode()
	}
	var out struct {
		AvailableWeekdays []string `json:"available_weekdays"`
	}
	if err := c.get(ctx, taskAPIBase, path, &out); err != nil {
		return nil, err
	}
	return out.AvailableWeekdays, nil
}

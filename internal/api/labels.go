package api

import (
	"context"

	"dayplan-cli/internal/model"
)

// ListLabels returns the user's labels, sorted by the server (name).
func (c *Client) ListLabels(ctx context.Context) ([]model.Label, error) {
	var out struct {
		Labels []model.Label `json:"labels"`
	}
	if err := c.get(ctx, taskAPIBase, "/labels/", &out); err != nil {
		return nil, err
	}
	return out.Labels, nil
}

// CreateLabel creates a label. Color is "#RRGGBB"; the server validates the
// format and rejects duplicate names.
func (c *Client) CreateLabel(ctx context.Context, name, color string) (*model.Label, error) {
	var out model.Label
	body := map[string]any{"name": name, "color": color}
	if err := c.post(ctx, taskAPIBase, "/labels/create/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLabel renames and/or recolors a label; empty fields are left as-is.
func (c *Client) UpdateLabel(ctx context.Context, id string, name, color string) (*model.Label, error) {
	body := map[string]any{}
	if name != "" {
		body["name"] = name
	}
	if color != "" {
		body["color"] = color
	}
	var out model.Label
	if err := c.put(ctx, taskAPIBase, "/labels/"+id+"/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLabel removes a label; tagged tasks just lose the tag.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.del(ctx, taskAPIBase, "/labels/"+id+"/", nil)
}

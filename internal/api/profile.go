package api

import (
	"context"

	"dayplan-cli/internal/model"
)

// GetProfile fetches the account's profile.
func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.get(ctx, accountAPIBase, "/profile/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate is a partial profile update; nil fields are omitted.
// Email changes do NOT go through here: they use the two-step auth flow
// (AddEmail + PromoteEmail) so the address gets verified.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// Empty reports whether the update contains no changed fields.
func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Avatar == nil
}

// UpdateProfile applies a partial update and returns the refreshed fields.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*model.Profile, error) {
	var out struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Data    model.Profile `json:"data"`
	}
	if err := c.put(ctx, accountAPIBase, "/profile/", in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

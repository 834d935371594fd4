package api

import (
	"context"
	"fmt"

	"github.com/siahsang/blogclient/models"
)

// CurrentProfile returns the profile of the user owning the token.
func (c *Client) CurrentProfile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.get(ctx, opGetProfile, "/users/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.get(ctx, opGetUser, fmt.Sprintf("/users/%d", userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.put(ctx, opUpdateProfile, "/users/profile", input, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

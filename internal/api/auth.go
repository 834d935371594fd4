package api

import (
	"context"

	"github.com/siahsang/blogclient/models"
)

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, opLogin, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, opRegister, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the backend. Tokens are stateless, so this is best effort only.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, opLogout, "/auth/logout", nil, nil)
}

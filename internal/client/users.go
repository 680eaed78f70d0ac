package client

import (
	"context"
	"net/http"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// ListUsers returns every account, for super admins.
func (c *Client) ListUsers(ctx context.Context) ([]domain.AdminUser, error) {
	var users []domain.AdminUser
	if _, err := c.do(ctx, call{
		op:     "listUsers",
		method: http.MethodGet,
		path:   "/users",
		out:    &users,
	}); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserActive activates or deactivates an account.
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) (*domain.AdminUser, error) {
	var u domain.AdminUser
	if _, err := c.do(ctx, call{
		op:     "setUserActive",
		method: http.MethodPut,
		path:   pathf("/users/%s", id),
		json:   map[string]bool{"isActive": active},
		out:    &u,
	}); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangeUserRole assigns a new role to an account.
func (c *Client) ChangeUserRole(ctx context.Context, id string, role domain.Role) (*domain.AdminUser, error) {
	var u domain.AdminUser
	if _, err := c.do(ctx, call{
		op:     "changeUserRole",
		method: http.MethodPatch,
		path:   pathf("/users/%s/role", id),
		json:   map[string]domain.Role{"role": role},
		out:    &u,
	}); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		op:     "deleteUser",
		method: http.MethodDelete,
		path:   pathf("/users/%s", id),
	})
	return err
}

// InviteUser emails an account setup link and returns the server's message.
func (c *Client) InviteUser(ctx context.Context, in domain.InviteInput) (string, error) {
	return c.do(ctx, call{
		op:     "inviteUser",
		method: http.MethodPost,
		path:   "/users/invite",
		json:   in,
	})
}

// DashboardStats returns the super admin overview.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if _, err := c.do(ctx, call{
		op:     "dashboardStats",
		method: http.MethodGet,
		path:   "/stats",
		out:    &stats,
	}); err != nil {
		return nil, err
	}
	return &stats, nil
}

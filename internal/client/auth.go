package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// LoginResult is the login response. The user here is informational; the
// profile endpoint is authoritative.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	_, err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		json:   map[string]string{"email": email, "password": password},
		out:    &res,
	})
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, &Error{Op: "login", Method: http.MethodPost, Path: "/auth/login", Status: http.StatusOK,
			Err: fmt.Errorf("%w: missing token", ErrDecode)}
	}
	return &res, nil
}

// Signup registers an account and returns the server's message.
func (c *Client) Signup(ctx context.Context, username, email, password string) (string, error) {
	return c.do(ctx, call{
		op:     "signup",
		method: http.MethodPost,
		path:   "/auth/signup",
		json:   map[string]string{"username": username, "email": email, "password": password},
	})
}

// ForgotPassword asks the server to email a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.do(ctx, call{
		op:     "forgotPassword",
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		json:   map[string]string{"email": email},
	})
}

// ResetPassword sets a new password using an emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return c.do(ctx, call{
		op:     "resetPassword",
		method: http.MethodPost,
		path:   pathf("/auth/reset-password/%s", token),
		json:   map[string]string{"newPassword": newPassword},
	})
}

// SetupAccount activates an invited account.
func (c *Client) SetupAccount(ctx context.Context, token, password string) (string, error) {
	return c.do(ctx, call{
		op:     "setupAccount",
		method: http.MethodPost,
		path:   pathf("/auth/setup-account/%s", token),
		json:   map[string]string{"password": password},
	})
}

// GetProfile returns the session user.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if _, err := c.do(ctx, call{
		op:     "getProfile",
		method: http.MethodGet,
		path:   "/users/profile/me",
		out:    &u,
	}); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile edits the session user.
func (c *Client) UpdateProfile(ctx context.Context, in domain.ProfileInput) (*domain.User, error) {
	f := newForm().
		add("username", in.Username).
		add("email", in.Email).
		add("bio", in.Bio).
		attach(in.Picture)

	var u domain.User
	if _, err := c.do(ctx, call{
		op:     "updateProfile",
		method: http.MethodPut,
		path:   "/users/profile/me",
		form:   f,
		out:    &u,
	}); err != nil {
		return nil, err
	}
	return &u, nil
}

package state

import (
	"context"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// UpdateMyProfile edits the session user and refreshes the cached copy.
func (a *App) UpdateMyProfile(ctx context.Context, in domain.ProfileInput) (*domain.User, error) {
	if _, err := a.requireSession(); err != nil {
		return nil, err
	}
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}

	u, err := a.remote.UpdateProfile(ctx, in)
	if err != nil {
		return nil, a.fail("update profile", err)
	}
	if err := a.session.SetUser(ctx, u); err != nil {
		a.logger.Warn("cache session user", "error", err)
	}
	return u, a.settle(ctx, OpUpdateProfile, UserUpdated{User: u})
}

// The operations below are for super admins. Their results go back to the
// caller; the snapshot is not touched.

// FetchAllUsers lists every account.
func (a *App) FetchAllUsers(ctx context.Context) ([]domain.AdminUser, error) {
	if err := a.requireUserManager(); err != nil {
		return nil, err
	}
	users, err := a.remote.ListUsers(ctx)
	if err != nil {
		return nil, a.fail("fetch users", err)
	}
	return users, nil
}

// ChangeUserRole assigns user or admin to an account.
func (a *App) ChangeUserRole(ctx context.Context, id string, in domain.RoleInput) (*domain.AdminUser, error) {
	if err := a.requireUserManager(); err != nil {
		return nil, err
	}
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}
	u, err := a.remote.ChangeUserRole(ctx, id, in.Role)
	if err != nil {
		return nil, a.fail("change user role", err)
	}
	return u, nil
}

// DeleteUser removes an account.
func (a *App) DeleteUser(ctx context.Context, id string) error {
	if err := a.requireUserManager(); err != nil {
		return err
	}
	if err := a.remote.DeleteUser(ctx, id); err != nil {
		return a.fail("delete user", err)
	}
	return nil
}

// ToggleUserActiveState flips an account between active and inactive.
// isActive is the state the caller last saw.
func (a *App) ToggleUserActiveState(ctx context.Context, id string, isActive bool) (*domain.AdminUser, error) {
	if err := a.requireUserManager(); err != nil {
		return nil, err
	}
	u, err := a.remote.SetUserActive(ctx, id, !isActive)
	if err != nil {
		return nil, a.fail("toggle user active", err)
	}
	return u, nil
}

// InviteUser creates an inactive account and emails a setup link.
func (a *App) InviteUser(ctx context.Context, in domain.InviteInput) (string, error) {
	if err := a.requireUserManager(); err != nil {
		return "", err
	}
	if err := a.validator.Validate(in); err != nil {
		return "", err
	}
	msg, err := a.remote.InviteUser(ctx, in)
	if err != nil {
		return "", a.fail("invite user", err)
	}
	return msg, nil
}

// DashboardStats returns the platform totals.
func (a *App) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	if err := a.requireUserManager(); err != nil {
		return nil, err
	}
	stats, err := a.remote.DashboardStats(ctx)
	if err != nil {
		return nil, a.fail("dashboard stats", err)
	}
	return stats, nil
}

package store

import (
	"context"
	"encoding/json"

	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

// Session gives typed access to the persisted session values.
type Session struct {
	kv KV
}

// NewSession wraps a KV.
func NewSession(kv KV) *Session {
	return &Session{kv: kv}
}

// Token returns the persisted bearer token, or "" when logged out.
// It satisfies client.TokenSource, so every request reads storage.
func (s *Session) Token(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return "", domainerrors.Storage(err, "read token")
	}
	return v, nil
}

// SetToken persists the bearer token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, KeyToken, token); err != nil {
		return domainerrors.Storage(err, "write token")
	}
	return nil
}

// User returns the cached session user, or nil when none is stored.
// A corrupt entry is reported as a session error.
func (s *Session) User(ctx context.Context) (*domain.User, error) {
	v, ok, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return nil, domainerrors.Storage(err, "read user")
	}
	if !ok || v == "" {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, domainerrors.Session("cached user is unreadable").WithCause(err)
	}
	return &u, nil
}

// SetUser caches the session user.
func (s *Session) SetUser(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return domainerrors.Storage(err, "encode user")
	}
	if err := s.kv.Set(ctx, KeyUser, string(data)); err != nil {
		return domainerrors.Storage(err, "write user")
	}
	return nil
}

// Theme returns the persisted theme, defaulting to light.
func (s *Session) Theme(ctx context.Context) (domain.Theme, error) {
	v, _, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		return domain.ThemeLight, domainerrors.Storage(err, "read theme")
	}
	if t := domain.Theme(v); t.Valid() {
		return t, nil
	}
	return domain.ThemeLight, nil
}

// SetTheme persists the theme.
func (s *Session) SetTheme(ctx context.Context, t domain.Theme) error {
	if !t.Valid() {
		return domainerrors.Validationf("unknown theme %q", t)
	}
	if err := s.kv.Set(ctx, KeyTheme, string(t)); err != nil {
		return domainerrors.Storage(err, "write theme")
	}
	return nil
}

// Purge removes the token, cached user, and theme together.
func (s *Session) Purge(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionKeys...); err != nil {
		return domainerrors.Storage(err, "purge session")
	}
	return nil
}

// Close closes the underlying KV.
func (s *Session) Close() error {
	return s.kv.Close()
}

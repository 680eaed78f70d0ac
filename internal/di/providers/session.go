package providers

import (
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/recipebook/recipebook-client/internal/config"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
	"github.com/recipebook/recipebook-client/internal/logger"
	"github.com/recipebook/recipebook-client/internal/store"
	"github.com/recipebook/recipebook-client/internal/store/sqlite"
)

// SessionHandle wraps the persisted session with shutdown capability.
type SessionHandle struct {
	*store.Session
}

// Shutdown implements do.Shutdownable.
func (h *SessionHandle) Shutdown() error {
	return h.Close()
}

// ProvideSession opens the configured local store.
func ProvideSession(i do.Injector) (*SessionHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o700); err != nil {
		return nil, domainerrors.Storage(err, "create data dir")
	}

	var kv store.KV
	switch cfg.Storage.Backend {
	case config.StorageSQLite:
		path := filepath.Join(cfg.Storage.DataDir, "session.db")
		s, err := sqlite.Open(path, log.Logger)
		if err != nil {
			return nil, domainerrors.Storage(err, "open session store")
		}
		kv = s
	default:
		path := filepath.Join(cfg.Storage.DataDir, "session.badger")
		b, err := store.OpenBadger(path, log.Logger)
		if err != nil {
			return nil, domainerrors.Storage(err, "open session store")
		}
		kv = b
	}

	log.WithField("backend", cfg.Storage.Backend).Debug("Session store opened")

	return &SessionHandle{Session: store.NewSession(kv)}, nil
}

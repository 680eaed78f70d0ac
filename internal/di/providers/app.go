package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/recipebook/recipebook-client/internal/client"
	"github.com/recipebook/recipebook-client/internal/config"
	"github.com/recipebook/recipebook-client/internal/logger"
	"github.com/recipebook/recipebook-client/internal/search"
	"github.com/recipebook/recipebook-client/internal/state"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.New(search.Options{Logger: log.Logger})
	if err != nil {
		return nil, err
	}
	return &SearchIndexHandle{Index: index}, nil
}

// AppHandle wraps the state app and the goroutine keeping the search index
// current.
type AppHandle struct {
	*state.App
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *AppHandle) Shutdown() error {
	h.cancel()
	<-h.done
	h.Store().Close()
	return nil
}

// ProvideApp provides the state app and starts indexing its snapshots.
func ProvideApp(i do.Injector) (*AppHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	session := do.MustInvoke[*SessionHandle](i)
	remote := do.MustInvoke[*client.Client](i)
	index := do.MustInvoke[*SearchIndexHandle](i)

	app := state.New(remote, session.Session, log.Logger,
		state.WithPageSize(cfg.API.PageSize),
		state.WithIndex(index.Index),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sub := app.Store().Subscribe(state.DefaultSubscriptionBuffer)
	go func() {
		defer close(done)
		defer sub.Close()
		if err := index.Follow(ctx, sub); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("search indexing stopped", "error", err)
		}
	}()

	return &AppHandle{App: app, cancel: cancel, done: done}, nil
}

package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/recipebook/recipebook-client/internal/state"
)

// Index wraps an in-memory Bleve index of the loaded collections.
//
// Thread safety: All public methods are safe for concurrent use. Rebuild
// swaps in a complete new index, so a query never sees a half-built one.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	limit  int
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	Logger *slog.Logger // Logger for operations (uses discard if nil)
	Limit  int          // Maximum hits per query (default 50)
}

const defaultLimit = 50

// New creates an empty index.
func New(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: index, logger: logger, limit: limit}, nil
}

// Close closes the index and releases resources.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Close()
}

// DocumentCount returns the total number of indexed documents.
func (x *Index) DocumentCount() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

// Rebuild replaces the indexed documents with the recipes and newsletters
// of s.
func (x *Index) Rebuild(s state.State) error {
	docs := make([]*Document, 0, len(s.Recipes)+len(s.Newsletters))
	for _, r := range s.Recipes {
		docs = append(docs, RecipeDocument(r))
	}
	for _, n := range s.Newsletters {
		docs = append(docs, NewsletterDocument(n))
	}

	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	batch := fresh.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.key(), doc.ToMap()); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("batch index %s: %w", doc.key(), err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		_ = fresh.Close()
		return fmt.Errorf("commit batch: %w", err)
	}

	x.mu.Lock()
	old := x.index
	x.index = fresh
	x.mu.Unlock()

	if err := old.Close(); err != nil {
		x.logger.Warn("close replaced search index", "error", err)
	}
	x.logger.Debug("rebuilt search index",
		"recipes", len(s.Recipes),
		"newsletters", len(s.Newsletters),
		"version", s.Version,
	)
	return nil
}

// Follow rebuilds the index from every snapshot delivered on sub until ctx
// is done or the subscription is closed. Snapshots whose collections did not
// change are skipped.
func (x *Index) Follow(ctx context.Context, sub *state.Subscription) error {
	var last state.State
	first := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-sub.C:
			if !ok {
				return nil
			}
			if !first && sameCollections(last, s) {
				continue
			}
			if err := x.Rebuild(s); err != nil {
				x.logger.Warn("search index rebuild failed", "error", err, "version", s.Version)
				continue
			}
			last, first = s, false
		}
	}
}

// sameCollections reports whether a and b share their recipe and newsletter
// slices. Reduce replaces a slice whenever its contents change.
func sameCollections(a, b state.State) bool {
	return sameSlice(a.Recipes, b.Recipes) && sameSlice(a.Newsletters, b.Newsletters)
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

package state

import (
	"context"

	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

var errNoIndex = domainerrors.Internal("search is not available")

// RefreshNewsletters reloads the first page of newsletters.
func (a *App) RefreshNewsletters(ctx context.Context) error {
	page, err := a.remote.ListNewsletters(ctx, 1, a.pageSize)
	if err != nil {
		return err
	}
	a.store.Dispatch(NewslettersLoaded{Posts: page.Posts, Total: page.Total})
	return nil
}

// LoadMoreNewsletters appends the next page. It reports false when every
// newsletter is already loaded.
func (a *App) LoadMoreNewsletters(ctx context.Context) (bool, error) {
	s := a.store.Snapshot()
	if s.NewsletterPage > 0 && !s.HasMoreNewsletters() {
		return false, nil
	}
	next := s.NewsletterPage + 1
	page, err := a.remote.ListNewsletters(ctx, next, a.pageSize)
	if err != nil {
		return false, err
	}
	a.store.Dispatch(NewslettersAppended{Posts: page.Posts, Page: next, Total: page.Total})
	return len(page.Posts) > 0, nil
}

// AddNewsletter publishes a newsletter. Admins and super admins only. Build
// in.Content from a content.Draft so pending uploads never reach the server.
func (a *App) AddNewsletter(ctx context.Context, in domain.NewsletterInput) (*domain.Newsletter, error) {
	if err := a.requireContentManager(); err != nil {
		return nil, err
	}
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}
	n, err := a.remote.CreateNewsletter(ctx, in)
	if err != nil {
		return nil, a.fail("add newsletter", err)
	}
	return n, a.settle(ctx, OpAddNewsletter, NewsletterAdded{Newsletter: *n})
}

// UpdateNewsletter replaces a newsletter. Admins and super admins only.
func (a *App) UpdateNewsletter(ctx context.Context, id string, in domain.NewsletterInput) (*domain.Newsletter, error) {
	if err := a.requireContentManager(); err != nil {
		return nil, err
	}
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}
	n, err := a.remote.UpdateNewsletter(ctx, id, in)
	if err != nil {
		return nil, a.fail("update newsletter", err)
	}
	return n, a.settle(ctx, OpUpdateNewsletter, NewsletterUpdated{Newsletter: *n})
}

// DeleteNewsletter removes a newsletter. Admins and super admins only.
func (a *App) DeleteNewsletter(ctx context.Context, id string) error {
	if err := a.requireContentManager(); err != nil {
		return err
	}
	if err := a.remote.DeleteNewsletter(ctx, id); err != nil {
		return a.fail("delete newsletter", err)
	}
	return a.settle(ctx, OpDeleteNewsletter, NewsletterRemoved{ID: id})
}

// SearchNewsletters returns the loaded newsletters matching query.
func (a *App) SearchNewsletters(query string) ([]domain.Newsletter, error) {
	if a.index == nil {
		return nil, errNoIndex
	}
	ids, err := a.index.Newsletters(query)
	if err != nil {
		return nil, err
	}
	s := a.store.Snapshot()
	out := make([]domain.Newsletter, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.Newsletter(id); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

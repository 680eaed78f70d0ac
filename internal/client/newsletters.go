package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/recipebook/recipebook-client/internal/domain"
)

const defaultPageSize = 10

// NewsletterPage is one page of posts.
type NewsletterPage struct {
	Posts []domain.Newsletter `json:"posts"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
	Total int                 `json:"total"`
}

// ListNewsletters returns one page of newsletters. Pages start at 1.
func (c *Client) ListNewsletters(ctx context.Context, page, limit int) (*NewsletterPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	var res struct {
		Posts *[]domain.Newsletter `json:"posts"`
		Page  int                  `json:"page"`
		Limit int                  `json:"limit"`
		Total int                  `json:"total"`
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	if _, err := c.do(ctx, call{
		op:     "listNewsletters",
		method: http.MethodGet,
		path:   "/posts/get",
		query:  query,
		out:    &res,
	}); err != nil {
		return nil, err
	}
	if res.Posts == nil {
		return nil, &Error{Op: "listNewsletters", Method: http.MethodGet, Path: "/posts/get", Status: http.StatusOK,
			Err: fmt.Errorf("%w: missing posts", ErrDecode)}
	}
	return &NewsletterPage{Posts: *res.Posts, Page: res.Page, Limit: res.Limit, Total: res.Total}, nil
}

func newsletterForm(in domain.NewsletterInput) (*form, error) {
	body, err := in.Content.BlocksJSON()
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return newForm().
		add("title", in.Title).
		add("content", body).
		attach(in.Image), nil
}

// CreateNewsletter publishes a newsletter.
func (c *Client) CreateNewsletter(ctx context.Context, in domain.NewsletterInput) (*domain.Newsletter, error) {
	f, err := newsletterForm(in)
	if err != nil {
		return nil, &Error{Op: "createNewsletter", Method: http.MethodPost, Path: "/posts/add", Err: err}
	}
	var n domain.Newsletter
	if _, err := c.do(ctx, call{
		op:     "createNewsletter",
		method: http.MethodPost,
		path:   "/posts/add",
		form:   f,
		out:    &n,
	}); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNewsletter replaces a newsletter's title, body, and optionally image.
func (c *Client) UpdateNewsletter(ctx context.Context, id string, in domain.NewsletterInput) (*domain.Newsletter, error) {
	path := pathf("/posts/%s", id)
	f, err := newsletterForm(in)
	if err != nil {
		return nil, &Error{Op: "updateNewsletter", Method: http.MethodPut, Path: path, Err: err}
	}
	var n domain.Newsletter
	if _, err := c.do(ctx, call{
		op:     "updateNewsletter",
		method: http.MethodPut,
		path:   path,
		form:   f,
		out:    &n,
	}); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNewsletter removes a newsletter.
func (c *Client) DeleteNewsletter(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		op:     "deleteNewsletter",
		method: http.MethodDelete,
		path:   pathf("/posts/%s", id),
	})
	return err
}

package client

import (
	"context"
	"net/http"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// ShoppingList returns the session user's shopping list.
func (c *Client) ShoppingList(ctx context.Context) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if _, err := c.do(ctx, call{
		op:     "shoppingList",
		method: http.MethodGet,
		path:   "/shopping",
		out:    &items,
	}); err != nil {
		return nil, err
	}
	return items, nil
}

// AddShoppingItems appends items and returns the items created.
func (c *Client) AddShoppingItems(ctx context.Context, names []string) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if _, err := c.do(ctx, call{
		op:     "addShoppingItems",
		method: http.MethodPost,
		path:   "/shopping/add",
		json:   map[string][]string{"items": names},
		out:    &items,
	}); err != nil {
		return nil, err
	}
	return items, nil
}

// ToggleShoppingItem flips an item's checked flag and returns the item as
// stored by the server.
func (c *Client) ToggleShoppingItem(ctx context.Context, id string) (*domain.ShoppingListItem, error) {
	var item domain.ShoppingListItem
	if _, err := c.do(ctx, call{
		op:     "toggleShoppingItem",
		method: http.MethodPatch,
		path:   pathf("/shopping/%s/toggle", id),
		out:    &item,
	}); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteShoppingItem removes an item.
func (c *Client) DeleteShoppingItem(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		op:     "deleteShoppingItem",
		method: http.MethodDelete,
		path:   pathf("/shopping/%s", id),
	})
	return err
}

package state

import (
	"context"

	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

// RefreshShoppingList reloads the session user's shopping list.
func (a *App) RefreshShoppingList(ctx context.Context) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	items, err := a.remote.ShoppingList(ctx)
	if err != nil {
		return err
	}
	a.store.Dispatch(ShoppingListLoaded{Items: items})
	return nil
}

// AddToShoppingList adds the ingredient names of lines. Each line is cut at
// its first comma and trimmed; blank names are dropped.
func (a *App) AddToShoppingList(ctx context.Context, lines []string) ([]domain.ShoppingListItem, error) {
	if _, err := a.requireSession(); err != nil {
		return nil, err
	}
	names := domain.IngredientNames(lines)
	if len(names) == 0 {
		return nil, domainerrors.ValidationWithDetails("invalid items",
			map[string]string{"items": "must contain at least one ingredient"})
	}

	items, err := a.remote.AddShoppingItems(ctx, names)
	if err != nil {
		return nil, a.fail("add to shopping list", err)
	}
	var patch Action
	if items != nil {
		patch = ShoppingItemsAdded{Items: items}
	}
	return items, a.settle(ctx, OpAddShopping, patch)
}

// ToggleShoppingListItem flips an item's checked flag. The snapshot takes
// the item as the server returned it.
func (a *App) ToggleShoppingListItem(ctx context.Context, id string) (*domain.ShoppingListItem, error) {
	if _, err := a.requireSession(); err != nil {
		return nil, err
	}
	item, err := a.remote.ToggleShoppingItem(ctx, id)
	if err != nil {
		return nil, a.fail("toggle shopping item", err)
	}
	return item, a.settle(ctx, OpToggleShopping, ShoppingItemUpdated{Item: *item})
}

// DeleteShoppingListItem removes an item.
func (a *App) DeleteShoppingListItem(ctx context.Context, id string) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	if err := a.remote.DeleteShoppingItem(ctx, id); err != nil {
		return a.fail("delete shopping item", err)
	}
	return a.settle(ctx, OpDeleteShopping, ShoppingItemRemoved{ID: id})
}

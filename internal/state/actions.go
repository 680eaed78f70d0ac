package state

import (
	"github.com/recipebook/recipebook-client/internal/domain"
)

// Action is a state transition handled by Reduce.
type Action interface {
	Kind() string
}

// Session lifecycle.
type (
	// LoadingChanged sets the global loading flag.
	LoadingChanged struct{ Loading bool }

	// SessionStarted enters the authenticated phase with fresh data.
	SessionStarted struct {
		User *domain.User
		Data Collections
	}

	// SessionEnded enters the anonymous phase. The shopping list is always
	// cleared. When Data is nil the public collections are kept.
	SessionEnded struct{ Data *Collections }

	// UserUpdated replaces the session user.
	UserUpdated struct{ User *domain.User }

	// ThemeChanged sets the theme.
	ThemeChanged struct{ Theme domain.Theme }
)

// Recipes.
type (
	RecipesLoaded struct{ Recipes []domain.Recipe }
	RecipeAdded   struct{ Recipe domain.Recipe }
	RecipeUpdated struct{ Recipe domain.Recipe }
	RecipeRemoved struct{ ID string }

	// LikeToggled sets UserID's membership in a recipe's likes.
	LikeToggled struct {
		RecipeID string
		UserID   string
		Liked    bool
	}

	CommentAdded struct {
		RecipeID string
		Comment  domain.Comment
	}
	CommentUpdated struct {
		RecipeID string
		Comment  domain.Comment
	}
	CommentRemoved struct {
		RecipeID  string
		CommentID string
	}
)

// Newsletters.
type (
	// NewslettersLoaded replaces the list with the first page.
	NewslettersLoaded struct {
		Posts []domain.Newsletter
		Total int
	}
	// NewslettersAppended adds a further page.
	NewslettersAppended struct {
		Posts []domain.Newsletter
		Page  int
		Total int
	}
	NewsletterAdded   struct{ Newsletter domain.Newsletter }
	NewsletterUpdated struct{ Newsletter domain.Newsletter }
	NewsletterRemoved struct{ ID string }
)

// Shopping list.
type (
	ShoppingListLoaded  struct{ Items []domain.ShoppingListItem }
	ShoppingItemsAdded  struct{ Items []domain.ShoppingListItem }
	ShoppingItemUpdated struct{ Item domain.ShoppingListItem }
	ShoppingItemRemoved struct{ ID string }
)

func (LoadingChanged) Kind() string      { return "loading_changed" }
func (SessionStarted) Kind() string      { return "session_started" }
func (SessionEnded) Kind() string        { return "session_ended" }
func (UserUpdated) Kind() string         { return "user_updated" }
func (ThemeChanged) Kind() string        { return "theme_changed" }
func (RecipesLoaded) Kind() string       { return "recipes_loaded" }
func (RecipeAdded) Kind() string         { return "recipe_added" }
func (RecipeUpdated) Kind() string       { return "recipe_updated" }
func (RecipeRemoved) Kind() string       { return "recipe_removed" }
func (LikeToggled) Kind() string         { return "like_toggled" }
func (CommentAdded) Kind() string        { return "comment_added" }
func (CommentUpdated) Kind() string      { return "comment_updated" }
func (CommentRemoved) Kind() string      { return "comment_removed" }
func (NewslettersLoaded) Kind() string   { return "newsletters_loaded" }
func (NewslettersAppended) Kind() string { return "newsletters_appended" }
func (NewsletterAdded) Kind() string     { return "newsletter_added" }
func (NewsletterUpdated) Kind() string   { return "newsletter_updated" }
func (NewsletterRemoved) Kind() string   { return "newsletter_removed" }
func (ShoppingListLoaded) Kind() string  { return "shopping_list_loaded" }
func (ShoppingItemsAdded) Kind() string  { return "shopping_items_added" }
func (ShoppingItemUpdated) Kind() string { return "shopping_item_updated" }
func (ShoppingItemRemoved) Kind() string { return "shopping_item_removed" }

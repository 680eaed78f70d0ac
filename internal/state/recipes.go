package state

import (
	"context"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// RefreshRecipes replaces the recipe collection with the server's.
func (a *App) RefreshRecipes(ctx context.Context) error {
	recipes, err := a.remote.ListRecipes(ctx)
	if err != nil {
		return err
	}
	a.store.Dispatch(RecipesLoaded{Recipes: recipes})
	return nil
}

// AddRecipe creates a recipe. Admins and super admins only.
func (a *App) AddRecipe(ctx context.Context, in domain.RecipeInput) (*domain.Recipe, error) {
	if err := a.requireContentManager(); err != nil {
		return nil, err
	}
	in = in.Normalized()
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}

	r, err := a.remote.CreateRecipe(ctx, in)
	if err != nil {
		return nil, a.fail("add recipe", err)
	}
	return r, a.settle(ctx, OpAddRecipe, RecipeAdded{Recipe: *r})
}

// UpdateRecipe replaces a recipe's fields. Admins and super admins only.
func (a *App) UpdateRecipe(ctx context.Context, id string, in domain.RecipeInput) (*domain.Recipe, error) {
	if err := a.requireContentManager(); err != nil {
		return nil, err
	}
	in = in.Normalized()
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}

	r, err := a.remote.UpdateRecipe(ctx, id, in)
	if err != nil {
		return nil, a.fail("update recipe", err)
	}
	return r, a.settle(ctx, OpUpdateRecipe, RecipeUpdated{Recipe: *r})
}

// DeleteRecipe removes a recipe. Admins and super admins only.
func (a *App) DeleteRecipe(ctx context.Context, id string) error {
	if err := a.requireContentManager(); err != nil {
		return err
	}
	if err := a.remote.DeleteRecipe(ctx, id); err != nil {
		return a.fail("delete recipe", err)
	}
	return a.settle(ctx, OpDeleteRecipe, RecipeRemoved{ID: id})
}

// ToggleLike flips the session user's like on a recipe and reports whether
// the recipe is now liked.
func (a *App) ToggleLike(ctx context.Context, recipeID string) (bool, error) {
	u, err := a.requireSession()
	if err != nil {
		return false, err
	}
	liked, err := a.remote.ToggleLike(ctx, recipeID)
	if err != nil {
		return false, a.fail("toggle like", err)
	}
	return liked, a.settle(ctx, OpToggleLike, LikeToggled{RecipeID: recipeID, UserID: u.ID, Liked: liked})
}

// AddComment posts a comment on a recipe.
func (a *App) AddComment(ctx context.Context, recipeID string, in domain.CommentInput) (*domain.Comment, error) {
	if _, err := a.requireSession(); err != nil {
		return nil, err
	}
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}
	c, err := a.remote.AddComment(ctx, recipeID, in.Text)
	if err != nil {
		return nil, a.fail("add comment", err)
	}
	return c, a.settle(ctx, OpAddComment, CommentAdded{RecipeID: recipeID, Comment: *c})
}

// UpdateComment edits a comment. The server checks authorship.
func (a *App) UpdateComment(ctx context.Context, recipeID, commentID string, in domain.CommentInput) (*domain.Comment, error) {
	if _, err := a.requireSession(); err != nil {
		return nil, err
	}
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}
	c, err := a.remote.UpdateComment(ctx, recipeID, commentID, in.Text)
	if err != nil {
		return nil, a.fail("update comment", err)
	}
	return c, a.settle(ctx, OpUpdateComment, CommentUpdated{RecipeID: recipeID, Comment: *c})
}

// DeleteComment removes a comment. The server allows the author or an admin.
func (a *App) DeleteComment(ctx context.Context, recipeID, commentID string) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	if err := a.remote.DeleteComment(ctx, recipeID, commentID); err != nil {
		return a.fail("delete comment", err)
	}
	return a.settle(ctx, OpDeleteComment, CommentRemoved{RecipeID: recipeID, CommentID: commentID})
}

// SearchRecipes returns the loaded recipes matching query, best match first.
func (a *App) SearchRecipes(query string) ([]domain.Recipe, error) {
	if a.index == nil {
		return nil, errNoIndex
	}
	ids, err := a.index.Recipes(query)
	if err != nil {
		return nil, err
	}
	s := a.store.Snapshot()
	out := make([]domain.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.Recipe(id); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

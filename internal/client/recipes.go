package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// ListRecipes returns every recipe.
func (c *Client) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	if _, err := c.do(ctx, call{
		op:     "listRecipes",
		method: http.MethodGet,
		path:   "/recipes/get",
		out:    &recipes,
	}); err != nil {
		return nil, err
	}
	return recipes, nil
}

func recipeForm(in domain.RecipeInput) *form {
	return newForm().
		add("title", in.Title).
		add("cookTime", in.CookTime).
		addAll("ingredients[]", in.Ingredients).
		addAll("instructions[]", in.Instructions).
		attach(in.Image)
}

// CreateRecipe uploads a new recipe.
func (c *Client) CreateRecipe(ctx context.Context, in domain.RecipeInput) (*domain.Recipe, error) {
	var r domain.Recipe
	if _, err := c.do(ctx, call{
		op:     "createRecipe",
		method: http.MethodPost,
		path:   "/recipes/create",
		form:   recipeForm(in),
		out:    &r,
	}); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRecipe replaces a recipe's fields.
func (c *Client) UpdateRecipe(ctx context.Context, id string, in domain.RecipeInput) (*domain.Recipe, error) {
	var r domain.Recipe
	if _, err := c.do(ctx, call{
		op:     "updateRecipe",
		method: http.MethodPut,
		path:   pathf("/recipes/update/%s", id),
		form:   recipeForm(in),
		out:    &r,
	}); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRecipe removes a recipe.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		op:     "deleteRecipe",
		method: http.MethodDelete,
		path:   pathf("/recipes/delete/%s", id),
	})
	return err
}

// ToggleLike flips the session user's like and reports the new membership.
func (c *Client) ToggleLike(ctx context.Context, recipeID string) (bool, error) {
	var res struct {
		Liked *bool `json:"liked"`
	}
	path := pathf("/recipes/%s/like", recipeID)
	if _, err := c.do(ctx, call{
		op:     "toggleLike",
		method: http.MethodPost,
		path:   path,
		out:    &res,
	}); err != nil {
		return false, err
	}
	if res.Liked == nil {
		return false, &Error{Op: "toggleLike", Method: http.MethodPost, Path: path, Status: http.StatusOK,
			Err: fmt.Errorf("%w: missing liked", ErrDecode)}
	}
	return *res.Liked, nil
}

// AddComment posts a comment on a recipe.
func (c *Client) AddComment(ctx context.Context, recipeID, text string) (*domain.Comment, error) {
	var cm domain.Comment
	if _, err := c.do(ctx, call{
		op:     "addComment",
		method: http.MethodPost,
		path:   pathf("/recipes/%s/comments", recipeID),
		json:   map[string]string{"text": text},
		out:    &cm,
	}); err != nil {
		return nil, err
	}
	return &cm, nil
}

// UpdateComment edits a comment.
func (c *Client) UpdateComment(ctx context.Context, recipeID, commentID, text string) (*domain.Comment, error) {
	var cm domain.Comment
	if _, err := c.do(ctx, call{
		op:     "updateComment",
		method: http.MethodPut,
		path:   pathf("/recipes/%s/comments/%s", recipeID, commentID),
		json:   map[string]string{"text": text},
		out:    &cm,
	}); err != nil {
		return nil, err
	}
	return &cm, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, recipeID, commentID string) error {
	_, err := c.do(ctx, call{
		op:     "deleteComment",
		method: http.MethodDelete,
		path:   pathf("/recipes/%s/comments/%s", recipeID, commentID),
	})
	return err
}

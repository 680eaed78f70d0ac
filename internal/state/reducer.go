package state

import (
	"slices"

	"github.com/recipebook/recipebook-client/internal/domain"
)

// Reduce returns the state that results from applying a to s. It is pure:
// s is never modified and unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadingChanged:
		s.IsLoading = a.Loading

	case SessionStarted:
		s.Phase = PhaseAuthenticated
		s.User = a.User
		s = withCollections(s, a.Data)
		s.ShoppingList = orEmpty(a.Data.ShoppingList)

	case SessionEnded:
		s.Phase = PhaseAnonymous
		s.User = nil
		s.ShoppingList = []domain.ShoppingListItem{}
		if a.Data != nil {
			s = withCollections(s, *a.Data)
		}

	case UserUpdated:
		s.User = a.User

	case ThemeChanged:
		s.Theme = a.Theme

	case RecipesLoaded:
		s.Recipes = normalizeRecipes(a.Recipes)

	case RecipeAdded:
		s.Recipes = append(slices.Clone(s.Recipes), a.Recipe.Normalized())

	case RecipeUpdated:
		s.Recipes = replaceByID(s.Recipes, a.Recipe.Normalized(), recipeID)

	case RecipeRemoved:
		s.Recipes = removeByID(s.Recipes, a.ID, recipeID)

	case LikeToggled:
		s.Recipes = mapRecipe(s.Recipes, a.RecipeID, func(r domain.Recipe) domain.Recipe {
			likes := slices.DeleteFunc(slices.Clone(r.Likes), func(l domain.Like) bool {
				return l.UserID == a.UserID
			})
			if a.Liked {
				likes = append(likes, domain.Like{UserID: a.UserID})
			}
			r.Likes = likes
			return r
		})

	case CommentAdded:
		s.Recipes = mapRecipe(s.Recipes, a.RecipeID, func(r domain.Recipe) domain.Recipe {
			r.Comments = append(slices.Clone(r.Comments), a.Comment)
			return r
		})

	case CommentUpdated:
		s.Recipes = mapRecipe(s.Recipes, a.RecipeID, func(r domain.Recipe) domain.Recipe {
			r.Comments = replaceByID(r.Comments, a.Comment, commentID)
			return r
		})

	case CommentRemoved:
		s.Recipes = mapRecipe(s.Recipes, a.RecipeID, func(r domain.Recipe) domain.Recipe {
			r.Comments = removeByID(r.Comments, a.CommentID, commentID)
			return r
		})

	case NewslettersLoaded:
		s.Newsletters = orEmpty(slices.Clone(a.Posts))
		s.NewsletterTotal = a.Total
		s.NewsletterPage = 1

	case NewslettersAppended:
		posts := slices.Clone(s.Newsletters)
		for _, p := range a.Posts {
			if !slices.ContainsFunc(posts, func(n domain.Newsletter) bool { return n.ID == p.ID }) {
				posts = append(posts, p)
			}
		}
		s.Newsletters = posts
		s.NewsletterTotal = a.Total
		s.NewsletterPage = a.Page

	case NewsletterAdded:
		// Newest first, as the server lists them.
		s.Newsletters = append([]domain.Newsletter{a.Newsletter}, s.Newsletters...)
		s.NewsletterTotal++

	case NewsletterUpdated:
		s.Newsletters = replaceByID(s.Newsletters, a.Newsletter, newsletterID)

	case NewsletterRemoved:
		before := len(s.Newsletters)
		s.Newsletters = removeByID(s.Newsletters, a.ID, newsletterID)
		if len(s.Newsletters) < before && s.NewsletterTotal > 0 {
			s.NewsletterTotal--
		}

	case ShoppingListLoaded:
		s.ShoppingList = orEmpty(slices.Clone(a.Items))

	case ShoppingItemsAdded:
		s.ShoppingList = append(slices.Clone(s.ShoppingList), a.Items...)

	case ShoppingItemUpdated:
		s.ShoppingList = replaceByID(s.ShoppingList, a.Item, shoppingItemID)

	case ShoppingItemRemoved:
		s.ShoppingList = removeByID(s.ShoppingList, a.ID, shoppingItemID)
	}
	return s
}

func withCollections(s State, c Collections) State {
	s.Recipes = normalizeRecipes(c.Recipes)
	s.Newsletters = orEmpty(slices.Clone(c.Newsletters))
	s.NewsletterTotal = c.NewsletterTotal
	s.NewsletterPage = 1
	return s
}

// normalizeRecipes copies the list and collapses duplicate likes.
func normalizeRecipes(in []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, len(in))
	for i, r := range in {
		out[i] = r.Normalized()
	}
	return out
}

func mapRecipe(recipes []domain.Recipe, id string, fn func(domain.Recipe) domain.Recipe) []domain.Recipe {
	i := slices.IndexFunc(recipes, func(r domain.Recipe) bool { return r.ID == id })
	if i < 0 {
		return recipes
	}
	out := slices.Clone(recipes)
	out[i] = fn(out[i])
	return out
}

func recipeID(r domain.Recipe) string                 { return r.ID }
func commentID(c domain.Comment) string               { return c.ID }
func newsletterID(n domain.Newsletter) string         { return n.ID }
func shoppingItemID(i domain.ShoppingListItem) string { return i.ID }

// replaceByID swaps in v for the element with the same id. Lists without a
// match are returned as is.
func replaceByID[T any](list []T, v T, idOf func(T) string) []T {
	i := slices.IndexFunc(list, func(e T) bool { return idOf(e) == idOf(v) })
	if i < 0 {
		return list
	}
	out := slices.Clone(list)
	out[i] = v
	return out
}

func removeByID[T any](list []T, id string, idOf func(T) string) []T {
	if !slices.ContainsFunc(list, func(e T) bool { return idOf(e) == id }) {
		return list
	}
	return slices.DeleteFunc(slices.Clone(list), func(e T) bool { return idOf(e) == id })
}

func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

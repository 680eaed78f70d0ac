package domain

import "strings"

// Author identifies the user who wrote a recipe, comment, or newsletter.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Like records one user's like on a recipe.
type Like struct {
	UserID string `json:"userId"`
}

// Comment is a remark left on a recipe.
type Comment struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author Author `json:"author"`
}

// Recipe is a dish with its ingredients and steps.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CookTime     string    `json:"cookTime"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Likes        []Like    `json:"likes"`
	Comments     []Comment `json:"comments"`
	Author       Author    `json:"author"`
}

// LikedBy reports whether userID has liked the recipe.
func (r Recipe) LikedBy(userID string) bool {
	for _, l := range r.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// LikeCount returns the number of distinct users who liked the recipe.
func (r Recipe) LikeCount() int {
	return len(dedupeLikes(r.Likes))
}

// Normalized returns a copy with at most one like per user.
func (r Recipe) Normalized() Recipe {
	r.Likes = dedupeLikes(r.Likes)
	return r
}

func dedupeLikes(likes []Like) []Like {
	seen := make(map[string]struct{}, len(likes))
	out := make([]Like, 0, len(likes))
	for _, l := range likes {
		if _, ok := seen[l.UserID]; ok {
			continue
		}
		seen[l.UserID] = struct{}{}
		out = append(out, l)
	}
	return out
}

// IngredientName reduces an ingredient line to the name used on the shopping
// list: the text before the first comma, trimmed.
//
//	"2 cups flour, sifted" -> "2 cups flour"
func IngredientName(line string) string {
	name, _, _ := strings.Cut(line, ",")
	return strings.TrimSpace(name)
}

// IngredientNames maps lines through IngredientName and drops empty results.
func IngredientNames(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if name := IngredientName(line); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ShoppingListItem is one entry on the user's shopping list.
type ShoppingListItem struct {
	ID        string `json:"id"`
	Item      string `json:"item"`
	IsChecked bool   `json:"isChecked"`
}

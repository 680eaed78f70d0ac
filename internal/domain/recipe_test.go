package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-client/internal/content"
)

func TestIngredientNames(t *testing.T) {
	got := IngredientNames([]string{"2 cups flour, sifted", " 1 egg "})
	assert.Equal(t, []string{"2 cups flour", "1 egg"}, got)
}

func TestIngredientName_EdgeCases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"salt", "salt"},
		{"  Butter , softened, cubed", "Butter"},
		{", garnish", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IngredientName(tt.in))
		})
	}

	assert.Empty(t, IngredientNames([]string{"", " , x", "  "}))
}

func TestRecipe_Likes(t *testing.T) {
	r := Recipe{Likes: []Like{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u1"}}}

	assert.True(t, r.LikedBy("u1"))
	assert.False(t, r.LikedBy("u3"))
	assert.Equal(t, 2, r.LikeCount())

	n := r.Normalized()
	assert.Equal(t, []Like{{UserID: "u1"}, {UserID: "u2"}}, n.Likes)
	assert.Len(t, r.Likes, 3, "original untouched")
}

func TestRecipeInput_Normalized(t *testing.T) {
	in := RecipeInput{
		Title:        "  Pancakes ",
		CookTime:     "20 minutes",
		Ingredients:  []string{"flour", " ", " milk "},
		Instructions: []string{"", "mix", "fry"},
	}.Normalized()

	assert.Equal(t, "Pancakes", in.Title)
	assert.Equal(t, []string{"flour", "milk"}, in.Ingredients)
	assert.Equal(t, []string{"mix", "fry"}, in.Instructions)
}

func TestNewsletterInput_CheckFields(t *testing.T) {
	assert.Nil(t, NewsletterInput{Content: content.FromText("twenty characters ok!")}.CheckFields())
	assert.Contains(t, NewsletterInput{Content: content.FromText("short")}.CheckFields(), "content")
	assert.Contains(t, NewsletterInput{Content: content.FromBlocks()}.CheckFields(), "content")
	assert.Nil(t, NewsletterInput{Content: content.FromBlocks(content.Image("https://img.example/a.png"))}.CheckFields())
}

func TestNewsletter_DecodeBothContentShapes(t *testing.T) {
	raw := `[
		{"id":"p1","title":"Plain","content":"Just text","author":{"id":"a","username":"ann"},"created_at":"2025-03-01T10:00:00Z"},
		{"id":"p2","title":"Blocks","content":[{"type":"heading","text":"Hi"}],"author":{"id":"a","username":"ann"},"created_at":"2025-03-02T10:00:00Z"}
	]`

	var posts []Newsletter
	require.NoError(t, json.Unmarshal([]byte(raw), &posts))
	require.Len(t, posts, 2)

	assert.False(t, posts[0].Content.IsBlocks())
	assert.Equal(t, "Just text", posts[0].Content.Text)
	assert.True(t, posts[1].Content.IsBlocks())
	assert.Equal(t, 2025, posts[1].CreatedAt.Year())
}

func TestNewsletter_DecodeRejectsLoadingBlock(t *testing.T) {
	raw := `{"id":"p1","title":"Bad","content":[{"type":"loading","id":"tmp"}]}`

	var post Newsletter
	assert.Error(t, json.Unmarshal([]byte(raw), &post))
}

func TestUser_JSONFieldNames(t *testing.T) {
	raw := `{"id":"u1","username":"ann","email":"ann@example.com","role":"admin","profilePictureUrl":"https://img.example/ann.png"}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, "https://img.example/ann.png", u.ProfilePictureURL)
}

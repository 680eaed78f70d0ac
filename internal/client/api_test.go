package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-client/internal/apitest"
	"github.com/recipebook/recipebook-client/internal/content"
	"github.com/recipebook/recipebook-client/internal/domain"
)

type fixture struct {
	api    *apitest.Server
	tokens *tokenBox
	client *Client

	user, admin, owner domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	api := apitest.New(apitest.WithClock(func() time.Time { return clock }))
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	f := &fixture{api: api, tokens: &tokenBox{}}
	c, err := New(Options{BaseURL: server.URL, Tokens: f.tokens})
	require.NoError(t, err)
	f.client = c

	f.user = api.AddUser(domain.User{Username: "sarah", Email: "sarah@example.com", Role: domain.RoleUser}, "password1")
	f.admin = api.AddUser(domain.User{Username: "chef", Email: "chef@example.com", Role: domain.RoleAdmin}, "password1")
	f.owner = api.AddUser(domain.User{Username: "owner", Email: "owner@example.com", Role: domain.RoleSuperAdmin}, "password1")
	return f
}

func (f *fixture) as(u domain.User) {
	f.tokens.set(f.api.IssueToken(u.ID))
}

func TestAPI_AuthFlows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.client.Signup(ctx, "newbie", "new@example.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, "Registration successful. Please log in.", msg)

	_, err = f.client.Signup(ctx, "again", "new@example.com", "secret12")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User already exists", Message(err, ""))

	res, err := f.client.Login(ctx, "new@example.com", "secret12")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "newbie", res.User.Username)

	_, err = f.client.Login(ctx, "new@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", Message(err, ""))

	_, err = f.client.ForgotPassword(ctx, "new@example.com")
	require.NoError(t, err)
	token := f.api.ResetToken("new@example.com")
	require.NotEmpty(t, token)

	_, err = f.client.ResetPassword(ctx, token, "changed12")
	require.NoError(t, err)
	_, err = f.client.ResetPassword(ctx, token, "changed12")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = f.client.Login(ctx, "new@example.com", "changed12")
	assert.NoError(t, err)
}

func TestAPI_ProfileWithoutTokenIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.GetProfile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAPI_DeactivatedAccountIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.as(f.user)
	f.api.SetActive(f.user.ID, false)

	_, err := f.client.GetProfile(context.Background())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Account is deactivated", Message(err, ""))
}

func TestAPI_UpdateProfileMultipart(t *testing.T) {
	f := newFixture(t)
	f.as(f.user)

	u, err := f.client.UpdateProfile(context.Background(), domain.ProfileInput{
		Username: "sarah2",
		Email:    "sarah2@example.com",
		Bio:      "Cooks a lot",
		Picture:  &domain.Attachment{Filename: "me.png", ContentType: "image/png", Data: strings.NewReader("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "sarah2", u.Username)
	assert.Equal(t, "https://images.recipebook.test/me.png", u.ProfilePictureURL)

	reqs := f.api.RequestsTo(http.MethodPut, "/users/profile/me")
	require.Len(t, reqs, 1)
	form, err := reqs[0].Multipart()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cooks a lot"}, form.Value["bio"])
	require.Len(t, form.File["image"], 1)
	assert.Equal(t, "image/png", form.File["image"][0].Header.Get("Content-Type"))
}

func TestAPI_RecipeLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := domain.RecipeInput{
		Title:        "Soup",
		CookTime:     "30 minutes",
		Ingredients:  []string{"1 onion, diced", "2 carrots"},
		Instructions: []string{"Chop", "Simmer"},
		Image:        &domain.Attachment{Data: strings.NewReader("jpeg")},
	}

	f.as(f.user)
	_, err := f.client.CreateRecipe(ctx, in)
	require.ErrorIs(t, err, ErrForbidden)

	f.as(f.admin)
	in.Image = &domain.Attachment{Data: strings.NewReader("jpeg")}
	created, err := f.client.CreateRecipe(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Soup", created.Title)
	assert.Equal(t, "https://images.recipebook.test/photo.jpg", created.ImageURL)
	assert.Equal(t, f.admin.ID, created.Author.ID)

	form, err := f.api.RequestsTo(http.MethodPost, "/recipes/create")[1].Multipart()
	require.NoError(t, err)
	assert.Equal(t, []string{"1 onion, diced", "2 carrots"}, form.Value["ingredients[]"])
	assert.Equal(t, []string{"Chop", "Simmer"}, form.Value["instructions[]"])
	assert.Equal(t, []string{"30 minutes"}, form.Value["cookTime"])

	in.Title, in.Image = "Better soup", nil
	updated, err := f.client.UpdateRecipe(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Better soup", updated.Title)
	assert.Equal(t, created.ImageURL, updated.ImageURL)

	f.as(f.user)
	liked, err := f.client.ToggleLike(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = f.client.ToggleLike(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	cm, err := f.client.AddComment(ctx, created.ID, "Lovely")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, cm.Author.ID)

	cm, err = f.client.UpdateComment(ctx, created.ID, cm.ID, "Lovely, really")
	require.NoError(t, err)
	assert.Equal(t, "Lovely, really", cm.Text)

	recipes, err := f.client.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.Len(t, recipes[0].Comments, 1)
	assert.Equal(t, "Lovely, really", recipes[0].Comments[0].Text)

	require.NoError(t, f.client.DeleteComment(ctx, created.ID, cm.ID))

	f.as(f.admin)
	require.NoError(t, f.client.DeleteRecipe(ctx, created.ID))
	err = f.client.DeleteRecipe(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAPI_NewsletterBlocksRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.as(f.admin)

	body := content.FromBlocks(
		content.Heading("Spring"),
		content.Paragraph("Asparagus season is here."),
		content.Image("https://cdn.example.com/a.jpg"),
	)
	created, err := f.client.CreateNewsletter(ctx, domain.NewsletterInput{Title: "Spring menu", Content: body})
	require.NoError(t, err)
	require.True(t, created.Content.IsBlocks())
	assert.Equal(t, body.Blocks, created.Content.Blocks)
	assert.Equal(t, time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC), created.CreatedAt)

	_, err = f.client.CreateNewsletter(ctx, domain.NewsletterInput{
		Title:   "Plain post",
		Content: content.FromText("Just a plain text newsletter body."),
	})
	require.NoError(t, err)

	page, err := f.client.ListNewsletters(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Plain post", page.Posts[0].Title)
	assert.False(t, page.Posts[0].Content.IsBlocks())

	page, err = f.client.ListNewsletters(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, created.ID, page.Posts[0].ID)

	upd, err := f.client.UpdateNewsletter(ctx, created.ID, domain.NewsletterInput{
		Title:   "Spring menu v2",
		Content: content.FromText("Rewritten as a long text body."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rewritten as a long text body.", upd.Content.Text)

	require.NoError(t, f.client.DeleteNewsletter(ctx, created.ID))
}

func TestAPI_ShoppingList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.as(f.user)

	items, err := f.client.ShoppingList(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	added, err := f.client.AddShoppingItems(ctx, []string{"Milk", "Eggs"})
	require.NoError(t, err)
	require.Len(t, added, 2)

	item, err := f.client.ToggleShoppingItem(ctx, added[1].ID)
	require.NoError(t, err)
	assert.True(t, item.IsChecked)

	require.NoError(t, f.client.DeleteShoppingItem(ctx, added[0].ID))

	items, err = f.client.ShoppingList(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Item)

	// Lists are per user.
	f.as(f.admin)
	items, err = f.client.ShoppingList(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAPI_UserManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.as(f.admin)
	_, err := f.client.ListUsers(ctx)
	require.ErrorIs(t, err, ErrForbidden)

	f.as(f.owner)
	users, err := f.client.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	u, err := f.client.SetUserActive(ctx, f.user.ID, false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	u, err = f.client.ChangeUserRole(ctx, f.user.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = f.client.ChangeUserRole(ctx, f.owner.ID, domain.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)

	msg, err := f.client.InviteUser(ctx, domain.InviteInput{Username: "guest", Email: "guest@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "Invitation sent to guest@example.com", msg)

	setup := f.api.SetupToken("guest@example.com")
	require.NotEmpty(t, setup)
	_, err = f.client.SetupAccount(ctx, setup, "welcome1")
	require.NoError(t, err)
	_, err = f.client.Login(ctx, "guest@example.com", "welcome1")
	require.NoError(t, err)

	require.NoError(t, f.client.DeleteUser(ctx, f.user.ID))

	stats, err := f.client.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Users.Total)
	assert.Zero(t, stats.Recipes.Total)
}

func TestAPI_FailInjection(t *testing.T) {
	f := newFixture(t)
	f.api.Fail(http.MethodGet, "/recipes/get", http.StatusServiceUnavailable, "maintenance")

	_, err := f.client.ListRecipes(context.Background())
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, "maintenance", Message(err, ""))

	f.api.ClearOverrides()
	_, err = f.client.ListRecipes(context.Background())
	assert.NoError(t, err)
}

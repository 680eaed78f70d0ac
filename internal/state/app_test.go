package state_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-client/internal/apitest"
	"github.com/recipebook/recipebook-client/internal/client"
	"github.com/recipebook/recipebook-client/internal/content"
	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
	"github.com/recipebook/recipebook-client/internal/id"
	"github.com/recipebook/recipebook-client/internal/search"
	"github.com/recipebook/recipebook-client/internal/state"
	"github.com/recipebook/recipebook-client/internal/store"
)

type harness struct {
	api     *apitest.Server
	kv      *store.Memory
	session *store.Session
	remote  *client.Client
	app     *state.App
}

func newHarness(t *testing.T, opts ...state.Option) *harness {
	t.Helper()
	clock := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	api := apitest.New(apitest.WithClock(func() time.Time { return clock }))
	api.Seed()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	kv := store.NewMemory()
	session := store.NewSession(kv)
	remote, err := client.New(client.Options{BaseURL: server.URL, Tokens: session})
	require.NoError(t, err)

	return &harness{
		api:     api,
		kv:      kv,
		session: session,
		remote:  remote,
		app:     state.New(remote, session, nil, opts...),
	}
}

// restart builds a fresh App over the same persisted session, as a relaunch
// would.
func (h *harness) restart(opts ...state.Option) *state.App {
	return state.New(h.remote, h.session, nil, opts...)
}

func (h *harness) login(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := h.app.Login(context.Background(), domain.LoginInput{Email: email, Password: apitest.DemoPassword})
	require.NoError(t, err)
	return u
}

func (h *harness) token(t *testing.T) string {
	t.Helper()
	token, err := h.session.Token(context.Background())
	require.NoError(t, err)
	return token
}

func TestBootstrap_Anonymous(t *testing.T) {
	h := newHarness(t)

	s := h.app.Bootstrap(context.Background())

	assert.Equal(t, state.PhaseAnonymous, s.Phase)
	assert.Nil(t, s.User)
	assert.False(t, s.IsLoading)
	assert.Len(t, s.Recipes, 3)
	assert.Len(t, s.Newsletters, 1)
	require.NotNil(t, s.ShoppingList)
	assert.Empty(t, s.ShoppingList)
	assert.Empty(t, h.api.RequestsTo(http.MethodGet, "/users/profile/me"))
	assert.Empty(t, h.api.RequestsTo(http.MethodGet, "/shopping"))

	assert.Equal(t, h.app.Snapshot(), s)
}

func TestBootstrap_RestoresSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.login(t, apitest.DemoUserEmail)

	app := h.restart()
	s := app.Bootstrap(ctx)

	assert.Equal(t, state.PhaseAuthenticated, s.Phase)
	require.NotNil(t, s.User)
	assert.Equal(t, user.ID, s.User.ID)
	assert.Len(t, s.ShoppingList, 2)
	assert.False(t, s.IsLoading)
	assert.Equal(t, app.Snapshot().Version, s.Version)

	cached, err := h.session.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cached.ID)
}

func TestBootstrap_RejectedTokenIsPurged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.session.SetToken(ctx, "stale-token"))
	require.NoError(t, h.session.SetTheme(ctx, domain.ThemeDark))

	s := h.app.Bootstrap(ctx)

	assert.Equal(t, state.PhaseAnonymous, s.Phase)
	assert.Equal(t, domain.ThemeLight, s.Theme)
	assert.Len(t, s.Recipes, 3)
	assert.Empty(t, h.token(t))

	theme, err := h.session.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)
}

func TestBootstrap_CorruptCachedUserIsPurged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, apitest.DemoUserEmail)
	require.NoError(t, h.kv.Set(ctx, store.KeyUser, "{not json"))
	h.api.ClearRequests()

	s := h.restart().Bootstrap(ctx)

	assert.Equal(t, state.PhaseAnonymous, s.Phase)
	assert.Nil(t, s.User)
	assert.Empty(t, h.token(t))
	assert.Empty(t, h.api.RequestsTo(http.MethodGet, "/users/profile/me"))
}

func TestBootstrap_KeepsPersistedTheme(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.session.SetTheme(ctx, domain.ThemeDark))

	s := h.app.Bootstrap(ctx)
	assert.Equal(t, domain.ThemeDark, s.Theme)
}

func TestBootstrap_FailedLoadFallsBackToAnonymous(t *testing.T) {
	h := newHarness(t)
	h.login(t, apitest.DemoUserEmail)
	h.api.Fail(http.MethodGet, "/shopping", http.StatusInternalServerError, "boom")

	s := h.restart().Bootstrap(context.Background())

	assert.Equal(t, state.PhaseAnonymous, s.Phase)
	assert.Empty(t, h.token(t))
}

func TestBootstrap_PublicFailureDegradesToEmpty(t *testing.T) {
	h := newHarness(t)
	h.api.Fail(http.MethodGet, "/recipes/get", http.StatusInternalServerError, "boom")

	s := h.app.Bootstrap(context.Background())

	assert.Equal(t, state.PhaseAnonymous, s.Phase)
	require.NotNil(t, s.Recipes)
	assert.Empty(t, s.Recipes)
	assert.Len(t, s.Newsletters, 1)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.app.Bootstrap(context.Background())

	u := h.login(t, apitest.DemoUserEmail)

	assert.Equal(t, "sarah", u.Username)
	assert.NotEmpty(t, u.Bio, "user should come from the profile endpoint")
	assert.NotEmpty(t, h.token(t))
	assert.Len(t, h.api.RequestsTo(http.MethodGet, "/users/profile/me"), 1)

	s := h.app.Snapshot()
	assert.Equal(t, state.PhaseAuthenticated, s.Phase)
	assert.Equal(t, u.ID, s.User.ID)
	assert.Len(t, s.ShoppingList, 2)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.app.Bootstrap(context.Background())

	_, err := h.app.Login(context.Background(), domain.LoginInput{Email: apitest.DemoUserEmail, Password: "not-it-at-all"})

	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", client.Message(err, ""))
	assert.Equal(t, state.PhaseAnonymous, h.app.Snapshot().Phase)
	assert.Empty(t, h.token(t))
}

func TestLogin_ValidatesBeforeRequest(t *testing.T) {
	h := newHarness(t)

	_, err := h.app.Login(context.Background(), domain.LoginInput{Email: "not-an-email", Password: "x"})

	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Empty(t, h.api.RequestsTo(http.MethodPost, "/auth/login"))
}

func TestLogin_WhileAuthenticated(t *testing.T) {
	h := newHarness(t)
	h.login(t, apitest.DemoUserEmail)

	_, err := h.app.Login(context.Background(), domain.LoginInput{Email: apitest.DemoAdminEmail, Password: apitest.DemoPassword})

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	assert.Len(t, h.api.RequestsTo(http.MethodPost, "/auth/login"), 1)
}

func TestLogin_ProfileFailurePurgesToken(t *testing.T) {
	h := newHarness(t)
	h.api.Fail(http.MethodGet, "/users/profile/me", http.StatusInternalServerError, "boom")

	_, err := h.app.Login(context.Background(), domain.LoginInput{Email: apitest.DemoUserEmail, Password: apitest.DemoPassword})

	require.ErrorIs(t, err, client.ErrServer)
	assert.Empty(t, h.token(t))
	assert.NotEqual(t, state.PhaseAuthenticated, h.app.Snapshot().Phase)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, apitest.DemoUserEmail)
	_, err := h.app.ToggleTheme(ctx)
	require.NoError(t, err)

	require.NoError(t, h.app.Logout(ctx))

	s := h.app.Snapshot()
	assert.Equal(t, state.PhaseAnonymous, s.Phase)
	assert.Nil(t, s.User)
	assert.Len(t, s.Recipes, 3, "public data survives logout")
	assert.Empty(t, s.ShoppingList)
	assert.Equal(t, domain.ThemeLight, s.Theme)
	assert.Empty(t, h.token(t))

	cached, err := h.session.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	assert.NoError(t, h.app.Logout(ctx))
}

func TestGuards_RejectBeforeRequest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.app.Bootstrap(ctx)
	h.api.ClearRequests()

	_, err := h.app.AddRecipe(ctx, domain.RecipeInput{Title: "Soup"})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = h.app.ToggleLike(ctx, "recipe-4")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = h.app.AddToShoppingList(ctx, []string{"1 egg"})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	err = h.app.RefreshShoppingList(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	h.login(t, apitest.DemoUserEmail)
	h.api.ClearRequests()

	_, err = h.app.AddRecipe(ctx, domain.RecipeInput{Title: "Soup"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.app.AddNewsletter(ctx, domain.NewsletterInput{
		Title:   "Weekly news",
		Content: content.FromText("This week in the kitchen we bake bread."),
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Equal(t, "Not authorized", err.Error())

	err = h.app.DeleteNewsletter(ctx, "post-7")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = h.app.FetchAllUsers(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	assert.Empty(t, h.api.Requests())
}

func TestAdminCannotManageUsers(t *testing.T) {
	h := newHarness(t)
	h.login(t, apitest.DemoAdminEmail)
	h.api.ClearRequests()

	_, err := h.app.DashboardStats(context.Background())

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Empty(t, h.api.Requests())
}

func TestRecipeLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, apitest.DemoAdminEmail)
	h.api.ClearRequests()

	r, err := h.app.AddRecipe(ctx, domain.RecipeInput{
		Title:        "  Tomato Soup ",
		CookTime:     "40 minutes",
		Ingredients:  []string{"6 tomatoes", " ", "1 onion, diced"},
		Instructions: []string{"Roast", "Blend"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", r.Title)

	s := h.app.Snapshot()
	require.Len(t, s.Recipes, 4)
	got, ok := s.Recipe(r.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"6 tomatoes", "1 onion, diced"}, got.Ingredients)
	assert.Empty(t, h.api.RequestsTo(http.MethodGet, "/recipes/get"), "patch policy should not refetch")

	_, err = h.app.UpdateRecipe(ctx, r.ID, domain.RecipeInput{
		Title:        "Roast Tomato Soup",
		CookTime:     "45 minutes",
		Ingredients:  []string{"6 tomatoes"},
		Instructions: []string{"Roast", "Blend"},
	})
	require.NoError(t, err)
	got, _ = h.app.Snapshot().Recipe(r.ID)
	assert.Equal(t, "Roast Tomato Soup", got.Title)

	require.NoError(t, h.app.DeleteRecipe(ctx, r.ID))
	_, ok = h.app.Snapshot().Recipe(r.ID)
	assert.False(t, ok)
	assert.Len(t, h.api.Recipes(), 3)
}

func TestAddRecipe_Validation(t *testing.T) {
	h := newHarness(t)
	h.login(t, apitest.DemoAdminEmail)

	_, err := h.app.AddRecipe(context.Background(), domain.RecipeInput{
		Title:        "Soup",
		CookTime:     "5 minutes",
		Ingredients:  []string{" ", ""},
		Instructions: []string{"Stir"},
	})

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domainerrors.CodeValidation, de.Code)
	assert.Contains(t, de.FieldErrors(), "ingredients")
	assert.Empty(t, h.api.RequestsTo(http.MethodPost, "/recipes/create"))
}

func TestToggleLike_RefetchesRecipes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.login(t, apitest.DemoUserEmail)
	recipeID := h.app.Snapshot().Recipes[0].ID
	h.api.ClearRequests()

	liked, err := h.app.ToggleLike(ctx, recipeID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Len(t, h.api.RequestsTo(http.MethodGet, "/recipes/get"), 1)

	r, _ := h.app.Snapshot().Recipe(recipeID)
	assert.True(t, r.LikedBy(u.ID))
	assert.Equal(t, 2, r.LikeCount())

	liked, err = h.app.ToggleLike(ctx, recipeID)
	require.NoError(t, err)
	assert.False(t, liked)

	r, _ = h.app.Snapshot().Recipe(recipeID)
	assert.False(t, r.LikedBy(u.ID))
	assert.Equal(t, 1, r.LikeCount())
}

func TestToggleLike_PatchPolicy(t *testing.T) {
	h := newHarness(t, state.WithPolicy(state.OpToggleLike, state.Policy{
		Update:     state.UpdatePatch,
		Collection: state.CollectionRecipes,
	}))
	u := h.login(t, apitest.DemoUserEmail)
	recipeID := h.app.Snapshot().Recipes[1].ID
	h.api.ClearRequests()

	_, err := h.app.ToggleLike(context.Background(), recipeID)
	require.NoError(t, err)

	assert.Empty(t, h.api.RequestsTo(http.MethodGet, "/recipes/get"))
	r, _ := h.app.Snapshot().Recipe(recipeID)
	assert.True(t, r.LikedBy(u.ID))
	assert.Equal(t, state.UpdatePatch, h.app.Policy(state.OpToggleLike).Update)
}

func TestRefetchFailureIsReported(t *testing.T) {
	h := newHarness(t)
	u := h.login(t, apitest.DemoUserEmail)
	recipeID := h.app.Snapshot().Recipes[1].ID
	h.api.Fail(http.MethodGet, "/recipes/get", http.StatusInternalServerError, "boom")

	liked, err := h.app.ToggleLike(context.Background(), recipeID)

	assert.True(t, liked)
	require.ErrorIs(t, err, client.ErrServer)
	rec := h.api.Recipes()[1]
	assert.True(t, rec.LikedBy(u.ID), "the mutation itself succeeded")
}

func TestComments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.login(t, apitest.DemoUserEmail)
	recipeID := h.app.Snapshot().Recipes[1].ID

	c, err := h.app.AddComment(ctx, recipeID, domain.CommentInput{Text: "Fluffy!"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.Author.ID)

	r, _ := h.app.Snapshot().Recipe(recipeID)
	require.Len(t, r.Comments, 1)

	_, err = h.app.UpdateComment(ctx, recipeID, c.ID, domain.CommentInput{Text: "Very fluffy!"})
	require.NoError(t, err)
	r, _ = h.app.Snapshot().Recipe(recipeID)
	assert.Equal(t, "Very fluffy!", r.Comments[0].Text)

	_, err = h.app.AddComment(ctx, recipeID, domain.CommentInput{Text: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	require.NoError(t, h.app.DeleteComment(ctx, recipeID, c.ID))
	r, _ = h.app.Snapshot().Recipe(recipeID)
	assert.Empty(t, r.Comments)
}

func TestComments_OthersCannotEdit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	msg, err := h.app.Signup(ctx, domain.SignupInput{
		Username: "tom", Email: "tom@example.com",
		Password: "secret12", ConfirmPassword: "secret12",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	_, err = h.app.Login(ctx, domain.LoginInput{Email: "tom@example.com", Password: "secret12"})
	require.NoError(t, err)

	carbonara := h.app.Snapshot().Recipes[0]
	require.NotEmpty(t, carbonara.Comments)

	_, err = h.app.UpdateComment(ctx, carbonara.ID, carbonara.Comments[0].ID, domain.CommentInput{Text: "mine now"})
	assert.ErrorIs(t, err, client.ErrForbidden)
}

func TestShoppingList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, apitest.DemoUserEmail)
	h.api.ClearRequests()

	items, err := h.app.AddToShoppingList(ctx, []string{"2 cups flour, sifted", "  ", "1 egg"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	reqs := h.api.RequestsTo(http.MethodPost, "/shopping/add")
	require.Len(t, reqs, 1)
	var body struct {
		Items []string `json:"items"`
	}
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, []string{"2 cups flour", "1 egg"}, body.Items)
	assert.Len(t, h.api.RequestsTo(http.MethodGet, "/shopping"), 1, "add re-fetches the list")

	s := h.app.Snapshot()
	require.Len(t, s.ShoppingList, 4)
	milk := s.ShoppingList[0]
	assert.Equal(t, "Milk", milk.Item)
	assert.False(t, milk.IsChecked)

	toggled, err := h.app.ToggleShoppingListItem(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsChecked)
	assert.True(t, h.app.Snapshot().ShoppingList[0].IsChecked)

	require.NoError(t, h.app.DeleteShoppingListItem(ctx, milk.ID))
	assert.Len(t, h.app.Snapshot().ShoppingList, 3)
}

func TestAddToShoppingList_NothingToAdd(t *testing.T) {
	h := newHarness(t)
	h.login(t, apitest.DemoUserEmail)
	h.api.ClearRequests()

	_, err := h.app.AddToShoppingList(context.Background(), []string{" ", ", pinch"})

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domainerrors.CodeValidation, de.Code)
	assert.Contains(t, de.FieldErrors(), "items")
	assert.Empty(t, h.api.Requests())
}

func TestNewsletterLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, apitest.DemoAdminEmail)

	draft := content.NewDraft(content.Content{})
	require.NoError(t, draft.SetText(draft.Items()[0].ID, "Asparagus is back."))
	draft.AppendHeading("Spring menu")
	pending := draft.BeginUpload()
	require.Equal(t, 1, draft.Pending())
	h.api.ClearRequests()

	n, err := h.app.AddNewsletter(ctx, domain.NewsletterInput{Title: "Spring news", Content: draft.Content()})
	require.NoError(t, err)
	require.True(t, n.Content.IsBlocks())
	require.Len(t, n.Content.Blocks, 2)
	assert.Equal(t, "Asparagus is back.", n.Content.Blocks[0].Text)
	assert.Equal(t, "Spring menu", n.Content.Blocks[1].Text)

	reqs := h.api.RequestsTo(http.MethodPost, "/posts/add")
	require.Len(t, reqs, 1)
	form, err := reqs[0].Multipart()
	require.NoError(t, err)
	require.Len(t, form.Value["content"], 1)
	assert.NotContains(t, form.Value["content"][0], pending)
	assert.NotContains(t, form.Value["content"][0], id.PrefixPending+"-")
	assert.Len(t, h.api.RequestsTo(http.MethodGet, "/posts/get"), 1, "add re-fetches newsletters")

	s := h.app.Snapshot()
	require.Len(t, s.Newsletters, 2)
	assert.Equal(t, n.ID, s.Newsletters[0].ID)
	assert.Equal(t, 2, s.NewsletterTotal)

	_, err = h.app.UpdateNewsletter(ctx, n.ID, domain.NewsletterInput{
		Title:   "Spring news, revised",
		Content: content.FromText("Asparagus and peas are both back this week."),
	})
	require.NoError(t, err)
	got, ok := h.app.Snapshot().Newsletter(n.ID)
	require.True(t, ok)
	assert.Equal(t, "Spring news, revised", got.Title)
	assert.False(t, got.Content.IsBlocks())

	require.NoError(t, h.app.DeleteNewsletter(ctx, n.ID))
	_, ok = h.app.Snapshot().Newsletter(n.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, h.app.Snapshot().NewsletterTotal)
}

func TestAddNewsletter_Validation(t *testing.T) {
	h := newHarness(t)
	h.login(t, apitest.DemoAdminEmail)
	h.api.ClearRequests()

	_, err := h.app.AddNewsletter(context.Background(), domain.NewsletterInput{
		Title:   "Short news",
		Content: content.FromText("too short"),
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = h.app.AddNewsletter(context.Background(), domain.NewsletterInput{
		Title:   "Empty blocks",
		Content: content.FromBlocks(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Empty(t, h.api.Requests())
}

func TestLoadMoreNewsletters(t *testing.T) {
	h := newHarness(t, state.WithPageSize(1))
	for i := range 2 {
		h.api.AddNewsletter(domain.Newsletter{
			Title:     "Extra " + string(rune('A'+i)),
			Content:   content.FromText("More things to cook this week."),
			CreatedAt: time.Date(2024, time.April, 1+i, 9, 0, 0, 0, time.UTC),
		})
	}
	ctx := context.Background()

	s := h.app.Bootstrap(ctx)
	require.Len(t, s.Newsletters, 1)
	assert.Equal(t, 3, s.NewsletterTotal)
	assert.True(t, s.HasMoreNewsletters())

	more, err := h.app.LoadMoreNewsletters(ctx)
	require.NoError(t, err)
	assert.True(t, more)
	more, err = h.app.LoadMoreNewsletters(ctx)
	require.NoError(t, err)
	assert.True(t, more)

	s = h.app.Snapshot()
	assert.Len(t, s.Newsletters, 3)
	assert.Equal(t, 3, s.NewsletterPage)
	assert.False(t, s.HasMoreNewsletters())

	h.api.ClearRequests()
	more, err = h.app.LoadMoreNewsletters(ctx)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Empty(t, h.api.Requests())
}

func TestUpdateMyProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, apitest.DemoUserEmail)

	u, err := h.app.UpdateMyProfile(ctx, domain.ProfileInput{
		Username: "sarah_cooks",
		Email:    apitest.DemoUserEmail,
		Bio:      "Bakes on Sundays",
		Picture:  &domain.Attachment{Filename: "me.png", ContentType: "image/png", Data: strings.NewReader("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "sarah_cooks", u.Username)
	assert.NotEmpty(t, u.ProfilePictureURL)
	assert.Equal(t, "sarah_cooks", h.app.Snapshot().User.Username)

	cached, err := h.session.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bakes on Sundays", cached.Bio)

	_, err = h.app.UpdateMyProfile(ctx, domain.ProfileInput{Username: "x", Email: apitest.DemoUserEmail})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUserManagement(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, apitest.DemoOwnerEmail)

	users, err := h.app.FetchAllUsers(ctx)
	require.NoError(t, err)
	rows := domain.FilterUsers(users, domain.RoleFilterAll, "sarah")
	require.Len(t, rows, 1)
	sarah := rows[0]
	require.True(t, sarah.IsActive)

	updated, err := h.app.ToggleUserActiveState(ctx, sarah.ID, sarah.IsActive)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	_, active, ok := h.api.User(sarah.ID)
	require.True(t, ok)
	assert.False(t, active)

	users, err = h.app.FetchAllUsers(ctx)
	require.NoError(t, err)
	rows = domain.FilterUsers(users, domain.RoleFilterAll, "sarah")
	require.Len(t, rows, 1)
	assert.Equal(t, sarah.ID, rows[0].ID)
	assert.False(t, rows[0].IsActive)

	promoted, err := h.app.ChangeUserRole(ctx, sarah.ID, domain.RoleInput{Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	_, err = h.app.ChangeUserRole(ctx, sarah.ID, domain.RoleInput{Role: domain.RoleSuperAdmin})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	msg, err := h.app.InviteUser(ctx, domain.InviteInput{Username: "newcook", Email: "newcook@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "Invitation sent to newcook@example.com", msg)

	setup, err := h.app.SetupAccount(ctx, domain.SetupAccountInput{
		Token:           h.api.SetupToken("newcook@example.com"),
		Password:        "secret12",
		ConfirmPassword: "secret12",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, setup)

	stats, err := h.app.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Users.Total)
	assert.Equal(t, 3, stats.Recipes.Total)

	require.NoError(t, h.app.DeleteUser(ctx, sarah.ID))
	_, _, ok = h.api.User(sarah.ID)
	assert.False(t, ok)
}

func TestPasswordReset(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.app.ForgotPassword(ctx, domain.ForgotPasswordInput{Email: apitest.DemoUserEmail})
	require.NoError(t, err)

	_, err = h.app.ResetPassword(ctx, domain.ResetPasswordInput{
		Token:    h.api.ResetToken(apitest.DemoUserEmail),
		Password: "brandnew1",
	})
	require.NoError(t, err)

	_, err = h.app.Login(ctx, domain.LoginInput{Email: apitest.DemoUserEmail, Password: "brandnew1"})
	assert.NoError(t, err)
}

func TestSubscribersSeeEveryPhase(t *testing.T) {
	h := newHarness(t)
	sub := h.app.Store().Subscribe(64)
	defer sub.Close()

	h.app.Bootstrap(context.Background())
	h.login(t, apitest.DemoUserEmail)

	var phases []state.Phase
	var last state.State
	for len(sub.C) > 0 {
		last = <-sub.C
		if n := len(phases); n == 0 || phases[n-1] != last.Phase {
			phases = append(phases, last.Phase)
		}
	}
	assert.Equal(t, []state.Phase{state.PhaseBootstrapping, state.PhaseAnonymous, state.PhaseAuthenticated}, phases)
	assert.Equal(t, h.app.Snapshot().Version, last.Version)
}

func TestToggleTheme(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	theme, err := h.app.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)

	persisted, err := h.session.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, persisted)

	assert.ErrorIs(t, h.app.SetTheme(ctx, "sepia"), domainerrors.ErrValidation)
	assert.Equal(t, domain.ThemeDark, h.app.Snapshot().Theme)
}

func TestSearchWithoutIndex(t *testing.T) {
	h := newHarness(t)

	_, err := h.app.SearchRecipes("pasta")
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
}

func TestSearch(t *testing.T) {
	idx, err := search.New(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	h := newHarness(t, state.WithIndex(idx))
	s := h.app.Bootstrap(context.Background())
	require.NoError(t, idx.Rebuild(s))

	recipes, err := h.app.SearchRecipes("carbonara")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Spaghetti Carbonara", recipes[0].Title)

	posts, err := h.app.SearchNewsletters("seasonal")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, s.Newsletters[0].ID, posts[0].ID)
}

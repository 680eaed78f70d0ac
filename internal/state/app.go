package state

import (
	"context"
	"errors"
	"log/slog"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/recipebook/recipebook-client/internal/client"
	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
	"github.com/recipebook/recipebook-client/internal/validation"
)

const defaultPageSize = 10

// Remote is the API surface App calls. *client.Client implements it.
type Remote interface {
	Login(ctx context.Context, email, password string) (*client.LoginResult, error)
	Signup(ctx context.Context, username, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	SetupAccount(ctx context.Context, token, password string) (string, error)
	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, in domain.ProfileInput) (*domain.User, error)

	ListRecipes(ctx context.Context) ([]domain.Recipe, error)
	CreateRecipe(ctx context.Context, in domain.RecipeInput) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, in domain.RecipeInput) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, recipeID string) (bool, error)
	AddComment(ctx context.Context, recipeID, text string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, recipeID, commentID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, recipeID, commentID string) error

	ListNewsletters(ctx context.Context, page, limit int) (*client.NewsletterPage, error)
	CreateNewsletter(ctx context.Context, in domain.NewsletterInput) (*domain.Newsletter, error)
	UpdateNewsletter(ctx context.Context, id string, in domain.NewsletterInput) (*domain.Newsletter, error)
	DeleteNewsletter(ctx context.Context, id string) error

	ShoppingList(ctx context.Context) ([]domain.ShoppingListItem, error)
	AddShoppingItems(ctx context.Context, names []string) ([]domain.ShoppingListItem, error)
	ToggleShoppingItem(ctx context.Context, id string) (*domain.ShoppingListItem, error)
	DeleteShoppingItem(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]domain.AdminUser, error)
	SetUserActive(ctx context.Context, id string, active bool) (*domain.AdminUser, error)
	ChangeUserRole(ctx context.Context, id string, role domain.Role) (*domain.AdminUser, error)
	DeleteUser(ctx context.Context, id string) error
	InviteUser(ctx context.Context, in domain.InviteInput) (string, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// Persistence is the durable session storage. *store.Session implements it.
type Persistence interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	User(ctx context.Context) (*domain.User, error)
	SetUser(ctx context.Context, u *domain.User) error
	Theme(ctx context.Context) (domain.Theme, error)
	SetTheme(ctx context.Context, t domain.Theme) error
	Purge(ctx context.Context) error
}

// Index answers full-text queries with ids ordered by relevance.
type Index interface {
	Recipes(query string) ([]string, error)
	Newsletters(query string) ([]string, error)
}

// App runs the operations screens invoke.
type App struct {
	remote    Remote
	session   Persistence
	store     *Store
	validator *validation.Validator
	logger    *slog.Logger
	index     Index
	policies  map[Op]Policy
	pageSize  int
}

// Option configures an App.
type Option func(*App)

// WithPageSize sets how many newsletters a page holds.
func WithPageSize(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// WithIndex enables the search operations.
func WithIndex(idx Index) Option {
	return func(a *App) { a.index = idx }
}

// WithPolicy overrides the update policy of one operation.
func WithPolicy(op Op, p Policy) Option {
	return func(a *App) { a.policies[op] = p }
}

// WithStore uses an existing store instead of a fresh one.
func WithStore(s *Store) Option {
	return func(a *App) { a.store = s }
}

// New creates an App in the bootstrapping phase.
func New(remote Remote, session Persistence, logger *slog.Logger, opts ...Option) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		remote:    remote,
		session:   session,
		validator: validation.New(),
		logger:    logger,
		policies:  maps.Clone(Policies),
		pageSize:  defaultPageSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.store == nil {
		a.store = NewStore(Initial(), logger)
	}
	return a
}

// Store returns the store screens subscribe to.
func (a *App) Store() *Store {
	return a.store
}

// Snapshot returns the current state.
func (a *App) Snapshot() State {
	return a.store.Snapshot()
}

// Policy returns the update rule App applies after op succeeds.
func (a *App) Policy(op Op) Policy {
	return a.policies[op]
}

// Guards. Each runs before any request is made.

var (
	errNotLoggedIn   = domainerrors.Unauthorized("not logged in")
	errNotAuthorized = domainerrors.Forbidden("Not authorized")
)

func (a *App) requireSession() (*domain.User, error) {
	u := a.store.Snapshot().User
	if !domain.IsAuthenticated(u) {
		return nil, errNotLoggedIn
	}
	return u, nil
}

func (a *App) requireContentManager() error {
	u, err := a.requireSession()
	if err != nil {
		return err
	}
	if !domain.CanManageContent(u) {
		return errNotAuthorized
	}
	return nil
}

func (a *App) requireUserManager() error {
	u, err := a.requireSession()
	if err != nil {
		return err
	}
	if !domain.CanManageUsers(u) {
		return errNotAuthorized
	}
	return nil
}

// fail logs a failed mutation and returns err unchanged.
func (a *App) fail(op string, err error) error {
	if !errors.Is(err, context.Canceled) {
		a.logger.Error(op+" failed", "error", err)
	}
	return err
}

// settle brings the snapshot up to date after op succeeded. patch is the
// action built from the server's response, or nil when it carried nothing
// to apply.
func (a *App) settle(ctx context.Context, op Op, patch Action) error {
	p := a.policies[op]
	switch p.Update {
	case UpdatePatch:
		if patch != nil {
			a.store.Dispatch(patch)
			return nil
		}
		fallthrough
	case UpdateRefetch:
		if err := a.refresh(ctx, p.Collection); err != nil {
			return a.fail(string(op)+" refresh", err)
		}
	case UpdateNone:
	}
	return nil
}

func (a *App) refresh(ctx context.Context, c Collection) error {
	switch c {
	case CollectionRecipes:
		return a.RefreshRecipes(ctx)
	case CollectionNewsletters:
		return a.RefreshNewsletters(ctx)
	case CollectionShoppingList:
		return a.RefreshShoppingList(ctx)
	default:
		return nil
	}
}

// loadAll fetches every collection concurrently. The first failure cancels
// the others and is returned.
func (a *App) loadAll(ctx context.Context, withShopping bool) (Collections, error) {
	var c Collections
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recipes, err := a.remote.ListRecipes(gctx)
		c.Recipes = recipes
		return err
	})
	g.Go(func() error {
		page, err := a.remote.ListNewsletters(gctx, 1, a.pageSize)
		if err != nil {
			return err
		}
		c.Newsletters, c.NewsletterTotal = page.Posts, page.Total
		return nil
	})
	if withShopping {
		g.Go(func() error {
			items, err := a.remote.ShoppingList(gctx)
			c.ShoppingList = items
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return Collections{}, err
	}
	return c, nil
}

// loadPublic fetches the public collections concurrently. A failed fetch
// leaves its collection empty.
func (a *App) loadPublic(ctx context.Context) Collections {
	var c Collections
	var g errgroup.Group

	g.Go(func() error {
		recipes, err := a.remote.ListRecipes(ctx)
		if err != nil {
			a.logger.Warn("load public recipes", "error", err)
			return nil
		}
		c.Recipes = recipes
		return nil
	})
	g.Go(func() error {
		page, err := a.remote.ListNewsletters(ctx, 1, a.pageSize)
		if err != nil {
			a.logger.Warn("load public newsletters", "error", err)
			return nil
		}
		c.Newsletters, c.NewsletterTotal = page.Posts, page.Total
		return nil
	})
	_ = g.Wait()
	return c
}

// Bootstrap restores the persisted session, or falls back to an anonymous
// one. It never fails: an unusable session is purged and logged.
func (a *App) Bootstrap(ctx context.Context) State {
	a.store.Dispatch(LoadingChanged{Loading: true})
	a.restore(ctx)
	return a.store.Dispatch(LoadingChanged{Loading: false})
}

func (a *App) restore(ctx context.Context) {
	if theme, err := a.session.Theme(ctx); err != nil {
		a.logger.Warn("read theme", "error", err)
	} else {
		a.store.Dispatch(ThemeChanged{Theme: theme})
	}

	token, err := a.session.Token(ctx)
	if err != nil {
		a.logger.Warn("read persisted token", "error", err)
		a.anonymous(ctx, true)
		return
	}
	if token == "" {
		a.anonymous(ctx, false)
		return
	}
	if _, err := a.session.User(ctx); errors.Is(err, domainerrors.ErrSession) {
		a.logger.Warn("cached session user unreadable", "error", err)
		a.anonymous(ctx, true)
		return
	}

	user, err := a.remote.GetProfile(ctx)
	if err != nil {
		a.logger.Warn("persisted session rejected", "error", err)
		a.anonymous(ctx, true)
		return
	}

	data, err := a.loadAll(ctx, true)
	if err != nil {
		a.logger.Warn("session bootstrap load failed", "error", err)
		a.anonymous(ctx, true)
		return
	}

	if err := a.session.SetUser(ctx, user); err != nil {
		a.logger.Warn("cache session user", "error", err)
	}
	a.logger.Info("session restored", "user_id", user.ID, "role", string(user.Role))
	a.store.Dispatch(SessionStarted{User: user, Data: data})
}

// anonymous enters the anonymous phase with public data, purging the
// persisted session first when purge is set.
func (a *App) anonymous(ctx context.Context, purge bool) {
	if purge {
		if err := a.session.Purge(ctx); err != nil {
			a.logger.Warn("purge session", "error", err)
		}
		a.store.Dispatch(ThemeChanged{Theme: domain.ThemeLight})
	}
	data := a.loadPublic(ctx)
	a.store.Dispatch(SessionEnded{Data: &data})
}

// Login exchanges credentials for a session. The session user comes from
// the profile endpoint, not the login response.
func (a *App) Login(ctx context.Context, in domain.LoginInput) (*domain.User, error) {
	if a.store.Snapshot().Phase == PhaseAuthenticated {
		return nil, domainerrors.Conflict("already logged in")
	}
	if err := a.validator.Validate(in); err != nil {
		return nil, err
	}

	res, err := a.remote.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, a.fail("login", err)
	}
	if err := a.session.SetToken(ctx, res.Token); err != nil {
		return nil, a.fail("login", err)
	}

	user, err := a.remote.GetProfile(ctx)
	if err != nil {
		a.purgeAfterFailedLogin(ctx)
		return nil, a.fail("login profile", err)
	}

	data, err := a.loadAll(ctx, true)
	if err != nil {
		a.purgeAfterFailedLogin(ctx)
		return nil, a.fail("login load", err)
	}

	if err := a.session.SetUser(ctx, user); err != nil {
		a.logger.Warn("cache session user", "error", err)
	}
	a.store.Dispatch(SessionStarted{User: user, Data: data})
	a.logger.Info("logged in", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

func (a *App) purgeAfterFailedLogin(ctx context.Context) {
	if err := a.session.Purge(ctx); err != nil {
		a.logger.Warn("purge session", "error", err)
	}
}

// Logout ends the session. Public collections are kept; the shopping list
// and every persisted session value are cleared. Calling it while logged
// out is not an error.
func (a *App) Logout(ctx context.Context) error {
	a.store.Dispatch(SessionEnded{})
	a.store.Dispatch(ThemeChanged{Theme: domain.ThemeLight})
	if err := a.session.Purge(ctx); err != nil {
		return a.fail("logout", err)
	}
	a.logger.Info("logged out")
	return nil
}

// Signup registers an account. The server sends its verification email out
// of band; the returned message is for display.
func (a *App) Signup(ctx context.Context, in domain.SignupInput) (string, error) {
	if err := a.validator.Validate(in); err != nil {
		return "", err
	}
	msg, err := a.remote.Signup(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		return "", a.fail("signup", err)
	}
	return msg, nil
}

// ForgotPassword requests a password reset email.
func (a *App) ForgotPassword(ctx context.Context, in domain.ForgotPasswordInput) (string, error) {
	if err := a.validator.Validate(in); err != nil {
		return "", err
	}
	msg, err := a.remote.ForgotPassword(ctx, in.Email)
	if err != nil {
		return "", a.fail("forgot password", err)
	}
	return msg, nil
}

// ResetPassword sets a new password from an emailed token.
func (a *App) ResetPassword(ctx context.Context, in domain.ResetPasswordInput) (string, error) {
	if err := a.validator.Validate(in); err != nil {
		return "", err
	}
	msg, err := a.remote.ResetPassword(ctx, in.Token, in.Password)
	if err != nil {
		return "", a.fail("reset password", err)
	}
	return msg, nil
}

// SetupAccount activates an invited account.
func (a *App) SetupAccount(ctx context.Context, in domain.SetupAccountInput) (string, error) {
	if err := a.validator.Validate(in); err != nil {
		return "", err
	}
	msg, err := a.remote.SetupAccount(ctx, in.Token, in.Password)
	if err != nil {
		return "", a.fail("setup account", err)
	}
	return msg, nil
}

// SetTheme persists and applies t.
func (a *App) SetTheme(ctx context.Context, t domain.Theme) error {
	if err := a.session.SetTheme(ctx, t); err != nil {
		return err
	}
	a.store.Dispatch(ThemeChanged{Theme: t})
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (a *App) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	next := a.store.Snapshot().Theme.Toggle()
	if err := a.SetTheme(ctx, next); err != nil {
		return a.store.Snapshot().Theme, err
	}
	return next, nil
}

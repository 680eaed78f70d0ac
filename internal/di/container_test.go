package di

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebook/recipebook-client/internal/apitest"
	"github.com/recipebook/recipebook-client/internal/config"
	"github.com/recipebook/recipebook-client/internal/di/providers"
	"github.com/recipebook/recipebook-client/internal/domain"
	"github.com/recipebook/recipebook-client/internal/state"
)

func testFlags(t *testing.T, backend string) config.Flags {
	t.Helper()
	api := apitest.New()
	api.Seed()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	return config.Flags{
		Env:        "staging",
		LogLevel:   "error",
		APIBaseURL: server.URL,
		Storage:    backend,
		DataDir:    dir,
		EnvFile:    filepath.Join(dir, "missing.env"),
	}
}

func TestContainer(t *testing.T) {
	for _, backend := range []string{config.StorageBadger, config.StorageSQLite} {
		t.Run(backend, func(t *testing.T) {
			injector := NewContainer(testFlags(t, backend))
			require.NoError(t, Bootstrap(injector))

			app := do.MustInvoke[*providers.AppHandle](injector)
			ctx := context.Background()

			s := app.Bootstrap(ctx)
			assert.Equal(t, state.PhaseAnonymous, s.Phase)
			assert.Len(t, s.Recipes, 3)

			_, err := app.Login(ctx, domain.LoginInput{Email: apitest.DemoUserEmail, Password: apitest.DemoPassword})
			require.NoError(t, err)

			session := do.MustInvoke[*providers.SessionHandle](injector)
			token, err := session.Token(ctx)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			// The index follows the store in the background.
			require.Eventually(t, func() bool {
				recipes, err := app.SearchRecipes("pancakes")
				return err == nil && len(recipes) == 1
			}, 2*time.Second, 10*time.Millisecond)

			assert.NoError(t, app.Shutdown())
			assert.NoError(t, do.MustInvoke[*providers.SearchIndexHandle](injector).Shutdown())
			assert.NoError(t, session.Shutdown())
		})
	}
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	flags := testFlags(t, "floppy")

	err := Bootstrap(NewContainer(flags))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

package main

import (
	"bufio"
	"context"
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/recipebook/recipebook-client/internal/config"
	"github.com/recipebook/recipebook-client/internal/di"
	"github.com/recipebook/recipebook-client/internal/di/providers"
	"github.com/recipebook/recipebook-client/internal/logger"
)

// cli holds what every command shares. The container is built on first use,
// so help output and flag errors never open storage or reach the network.
type cli struct {
	flags config.Flags

	in    io.Reader
	out   io.Writer
	lines *bufio.Reader

	injector *do.RootScope
	log      *logger.Logger
	app      *providers.AppHandle
}

// run executes one command line and releases everything it opened.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{in: in, out: out}
	defer c.close()

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "recipebook",
		Short:         "Recipes, newsletters and your shopping list from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.Env, "env", "", "Environment: development, staging or production")
	pf.StringVar(&c.flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&c.flags.APIBaseURL, "api-url", "", "Backend base URL")
	pf.StringVar(&c.flags.APITimeout, "api-timeout", "", "Per-request timeout, e.g. 30s")
	pf.StringVar(&c.flags.RateLimit, "rate-limit", "", "Outbound requests per second, 0 disables throttling")
	pf.StringVar(&c.flags.Storage, "storage", "", "Local session store: badger or sqlite")
	pf.StringVar(&c.flags.DataDir, "data-dir", "", "Directory holding the local session store")
	pf.StringVar(&c.flags.EnvFile, "env-file", "", "Path to a .env file")

	root.AddGroup(
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "manage", Title: "Management:"},
	)

	for _, cmd := range []*cobra.Command{
		newLoginCmd(c), newLogoutCmd(c), newSignupCmd(c), newPasswordCmd(c),
		newSetupCmd(c), newProfileCmd(c), newThemeCmd(c),
	} {
		cmd.GroupID = "account"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newRecipesCmd(c), newNewslettersCmd(c), newShoppingCmd(c), newSearchCmd(c),
	} {
		cmd.GroupID = "content"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{newAdminCmd(c), newDebugCmd(c)} {
		cmd.GroupID = "manage"
		root.AddCommand(cmd)
	}

	return root
}

// open builds the container and restores the persisted session. Later calls
// return the same app.
func (c *cli) open(ctx context.Context) (*providers.AppHandle, error) {
	if c.app != nil {
		return c.app, nil
	}

	c.injector = di.NewContainer(c.flags)
	if err := di.Bootstrap(c.injector); err != nil {
		return nil, err
	}
	c.log = do.MustInvoke[*logger.Logger](c.injector)
	c.app = do.MustInvoke[*providers.AppHandle](c.injector)

	s := c.app.Bootstrap(ctx)
	c.log.WithFields(map[string]any{"phase": s.Phase, "version": s.Version}).Debug("Session restored")
	return c.app, nil
}

// close shuts the container down. The injector closes the app, the search
// index and the session store in reverse dependency order.
func (c *cli) close() {
	if c.injector == nil {
		return
	}
	if err := c.injector.Shutdown(); err != nil && c.log != nil {
		c.log.WithError(err).Error("Shutdown error")
	}
}

// syncIndex rebuilds the search index from the current snapshot. A one-shot
// command cannot wait for the background follower to catch up.
func (c *cli) syncIndex() error {
	index, err := do.Invoke[*providers.SearchIndexHandle](c.injector)
	if err != nil {
		return err
	}
	return index.Rebuild(c.app.Snapshot())
}

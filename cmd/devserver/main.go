// Package main runs the fake recipebook backend with demo data, for trying
// the client without the real API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/recipebook/recipebook-client/internal/apitest"
	"github.com/recipebook/recipebook-client/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "devserver: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		level    string
		empty    bool
		logins   int
		shutdown time.Duration
	)
	cmd := &cobra.Command{
		Use:          "devserver",
		Short:        "Serve the fake recipebook API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(logger.Config{
				Environment: "development",
				Level:       logger.ParseLevel(level),
			})

			opts := []apitest.Option{apitest.WithLogger(log.Logger)}
			if logins > 0 {
				opts = append(opts, apitest.WithLoginLimit(float64(logins)/60, logins))
			}
			api := apitest.New(opts...)
			if !empty {
				api.Seed()
				log.Info("Seeded demo accounts",
					"user", apitest.DemoUserEmail,
					"admin", apitest.DemoAdminEmail,
					"owner", apitest.DemoOwnerEmail,
					"password", apitest.DemoPassword,
				)
			}

			handler, err := newHandler(api, log)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("HTTP server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			log.Info("Shutting down server gracefully...")
			ctx, cancel := context.WithTimeout(context.Background(), shutdown)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&level, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start without demo data")
	cmd.Flags().IntVar(&logins, "login-attempts", 10, "Login attempts allowed per email per minute, 0 disables throttling")
	cmd.Flags().DurationVar(&shutdown, "shutdown-timeout", 5*time.Second, "Grace period for open requests")
	return cmd
}

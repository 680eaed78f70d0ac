// Package di provides dependency injection configuration for the recipebook
// client.
package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"

	"github.com/recipebook/recipebook-client/internal/client"
	"github.com/recipebook/recipebook-client/internal/config"
	"github.com/recipebook/recipebook-client/internal/di/providers"
	"github.com/recipebook/recipebook-client/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer(flags config.Flags) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, flags)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideRegistry)

	// Local storage
	do.Provide(injector, providers.ProvideSession)

	// Remote access
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideClient)

	// State and search
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideApp)

	return injector
}

// Bootstrap initializes every service so configuration and storage errors
// surface before the first command runs.
func Bootstrap(injector *do.RootScope) error {
	steps := []struct {
		name   string
		invoke func() error
	}{
		{"config", invoke[*config.Config](injector)},
		{"logger", invoke[*logger.Logger](injector)},
		{"metrics registry", invoke[*prometheus.Registry](injector)},
		{"session store", invoke[*providers.SessionHandle](injector)},
		{"client metrics", invoke[*client.Metrics](injector)},
		{"api client", invoke[*client.Client](injector)},
		{"search index", invoke[*providers.SearchIndexHandle](injector)},
		{"app", invoke[*providers.AppHandle](injector)},
	}
	for _, s := range steps {
		if err := s.invoke(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func invoke[T any](injector *do.RootScope) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}

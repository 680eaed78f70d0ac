// Package providers contains dependency injection providers for the
// recipebook client.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/recipebook/recipebook-client/internal/config"
	"github.com/recipebook/recipebook-client/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	flags := do.MustInvoke[config.Flags](i)
	return config.Load(flags)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("Starting RecipeBook client",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"api_base_url", cfg.API.BaseURL,
		"storage", cfg.Storage.Backend,
		"data_dir", cfg.Storage.DataDir,
	)

	return log, nil
}

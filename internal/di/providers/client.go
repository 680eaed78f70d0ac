package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"
	"golang.org/x/time/rate"

	"github.com/recipebook/recipebook-client/internal/client"
	"github.com/recipebook/recipebook-client/internal/config"
	"github.com/recipebook/recipebook-client/internal/logger"
)

// ProvideRegistry provides the metrics registry reported by "debug metrics".
func ProvideRegistry(i do.Injector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	return reg, nil
}

// ProvideMetrics provides the API request metrics.
func ProvideMetrics(i do.Injector) (*client.Metrics, error) {
	reg := do.MustInvoke[*prometheus.Registry](i)
	return client.NewMetrics(reg)
}

// ProvideClient provides the remote API client. Every request reads its
// bearer token from the persisted session.
func ProvideClient(i do.Injector) (*client.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	session := do.MustInvoke[*SessionHandle](i)
	metrics := do.MustInvoke[*client.Metrics](i)

	var limiter *rate.Limiter
	if cfg.API.RateRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.API.RateRPS), cfg.API.Burst)
	}

	return client.New(client.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Limiter: limiter,
		Tokens:  session.Session,
		Logger:  log.Logger,
		Metrics: metrics,
	})
}

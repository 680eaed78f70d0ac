package client

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded in metrics.
const (
	outcomeOK      = "ok"
	outcomeHTTP    = "http_error"
	outcomeNetwork = "network_error"
	outcomeDecode  = "decode_error"
)

// Metrics counts API requests. A nil *Metrics records nothing.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the client metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipebook_client_requests_total",
				Help: "API requests by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recipebook_client_request_duration_seconds",
				Help:    "API request latency by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}

	for _, c := range []prometheus.Collector{m.Requests, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op, outcome(err)).Inc()
	m.Duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrNetwork):
		return outcomeNetwork
	case errors.Is(err, ErrDecode):
		return outcomeDecode
	default:
		return outcomeHTTP
	}
}

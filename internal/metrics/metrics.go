package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for the OAuth callback flow.
type Collector struct {
	registry *prometheus.Registry

	exchangesTotal   *prometheus.CounterVec
	exchangeDuration *prometheus.HistogramVec
	callbacksTotal   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go and process collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		exchangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopify_oauth_token_exchanges_total",
				Help: "Token exchange attempts by outcome",
			},
			[]string{"outcome"},
		),
		exchangeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopify_oauth_token_exchange_duration_seconds",
				Help:    "Token exchange latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),
		callbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopify_oauth_callbacks_total",
				Help: "OAuth callback responses by status code",
			},
			[]string{"status_code"},
		),
	}
	reg.MustRegister(
		c.exchangesTotal,
		c.exchangeDuration,
		c.callbacksTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// RecordExchange records one token exchange attempt. Safe on a nil Collector.
func (c *Collector) RecordExchange(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.exchangesTotal.WithLabelValues(outcome).Inc()
	c.exchangeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordCallback records the status code returned by the callback. Safe on a nil Collector.
func (c *Collector) RecordCallback(status int) {
	if c == nil {
		return
	}
	c.callbacksTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

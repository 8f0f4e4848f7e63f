// Package metrics exposes Prometheus metrics for batch runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	namespace = "cubegym"
	subsystem = "runner"
)

// Collector owns the runner's metrics on a private registry, so repeated
// runs in one process never collide with default-registry state.
type Collector struct {
	registry *prometheus.Registry

	episodesTotal *prometheus.CounterVec
	stepsTotal    prometheus.Counter
	episodeSteps  prometheus.Histogram
	episodeReward prometheus.Histogram
}

// NewCollector creates and registers the runner metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		episodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "episodes_total",
				Help:      "Episodes finished, labelled by outcome",
			},
			[]string{"outcome"},
		),

		stepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "steps_total",
				Help:      "Steps applied across all episodes",
			},
		),

		episodeSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "episode_steps",
				Help:      "Steps per finished episode",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),

		episodeReward: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "episode_reward",
				Help:      "Total reward per finished episode",
				Buckets:   prometheus.LinearBuckets(-100, 10, 12),
			},
		),
	}

	c.registry.MustRegister(
		c.episodesTotal,
		c.stepsTotal,
		c.episodeSteps,
		c.episodeReward,
	)

	return c
}

// RecordStep counts one applied step.
func (c *Collector) RecordStep() {
	c.stepsTotal.Inc()
}

// RecordEpisode records a finished episode.
func (c *Collector) RecordEpisode(outcome string, steps int, totalReward float64) {
	c.episodesTotal.WithLabelValues(outcome).Inc()
	c.episodeSteps.Observe(float64(steps))
	c.episodeReward.Observe(totalReward)
}

// Handler returns the HTTP handler for the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// Serve starts an HTTP server exposing the collector at path and returns
// the server. Shutting it down is the caller's job.
func (c *Collector) Serve(addr, path string, log *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, c.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr": addr,
		"path": path,
	}).Info("metrics server listening")

	return srv
}

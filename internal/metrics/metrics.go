package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder captures ingestion metrics on its own Prometheus registry.
// A nil Recorder is valid and records nothing.
type Recorder struct {
	registry       *prometheus.Registry
	fetches        *prometheus.CounterVec
	messages       *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_feed_fetch_total",
			Help: "Standings feed fetches by league and result.",
		}, []string{"league", "result"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_messages_rendered_total",
			Help: "Standings messages rendered by league.",
		}, []string{"league"}),
		ingestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "standings_ingest_duration_seconds",
			Help:    "Time to fetch, render and deliver a league's standings.",
			Buckets: prometheus.DefBuckets,
		}, []string{"league"}),
	}

	reg.MustRegister(r.fetches, r.messages, r.ingestDuration)
	return r
}

// RecordFetch counts one feed fetch attempt for a league
func (r *Recorder) RecordFetch(league string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.fetches.WithLabelValues(league, result).Inc()
}

// RecordMessages adds rendered message count for a league
func (r *Recorder) RecordMessages(league string, count int) {
	if r == nil || count <= 0 {
		return
	}
	r.messages.WithLabelValues(league).Add(float64(count))
}

// ObserveIngest records the duration of one ingestion cycle
func (r *Recorder) ObserveIngest(league string, d time.Duration) {
	if r == nil {
		return
	}
	r.ingestDuration.WithLabelValues(league).Observe(d.Seconds())
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

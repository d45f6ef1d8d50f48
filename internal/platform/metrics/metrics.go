package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the bridge.
// All methods are no-ops on a nil *Metrics so callers can run without a registry.
type Metrics struct {
	registry             *prometheus.Registry
	requestsTotal        prometheus.Counter
	votesStartedTotal    prometheus.Counter
	votesPassedTotal     prometheus.Counter
	votesFailedTotal     prometheus.Counter
	generationAttempts   prometheus.Counter
	generationFailures   prometheus.Counter
	generationFaults     prometheus.Counter
	generationsSucceeded prometheus.Counter
	layoutChangesTotal   prometheus.Counter
	inconsistenciesTotal prometheus.Counter
	authenticated        prometheus.Gauge
}

// New creates and registers Prometheus metrics for the bridge.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	}

	m := &Metrics{
		registry:             registry,
		requestsTotal:        counter("bridge_http_requests_total", "Total number of HTTP requests to the status server"),
		votesStartedTotal:    counter("bridge_votes_started_total", "Total number of votes observed starting"),
		votesPassedTotal:     counter("bridge_votes_passed_total", "Total number of votes observed passing"),
		votesFailedTotal:     counter("bridge_votes_failed_total", "Total number of votes observed failing"),
		generationAttempts:   counter("bridge_generation_attempts_total", "Total number of generation attempts, retries included"),
		generationFailures:   counter("bridge_generation_failures_total", "Total number of attempts the engine reported as failed"),
		generationFaults:     counter("bridge_generation_faults_total", "Total number of attempts that crashed the engine"),
		generationsSucceeded: counter("bridge_generations_succeeded_total", "Total number of maps generated and loaded"),
		layoutChangesTotal:   counter("bridge_layout_changes_total", "Total number of map layout changes"),
		inconsistenciesTotal: counter("bridge_inconsistencies_total", "Total number of recovered logical inconsistencies"),
		authenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bridge_authenticated",
			Help: "1 while the console session is authenticated",
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.votesStartedTotal,
		m.votesPassedTotal,
		m.votesFailedTotal,
		m.generationAttempts,
		m.generationFailures,
		m.generationFaults,
		m.generationsSucceeded,
		m.layoutChangesTotal,
		m.inconsistenciesTotal,
		m.authenticated,
	)
	return m
}

// IncRequests increments the status server request counter.
func (m *Metrics) IncRequests() {
	if m != nil {
		m.requestsTotal.Inc()
	}
}

// IncVotesStarted increments the started votes counter.
func (m *Metrics) IncVotesStarted() {
	if m != nil {
		m.votesStartedTotal.Inc()
	}
}

// IncVotesPassed increments the passed votes counter.
func (m *Metrics) IncVotesPassed() {
	if m != nil {
		m.votesPassedTotal.Inc()
	}
}

// IncVotesFailed increments the failed votes counter.
func (m *Metrics) IncVotesFailed() {
	if m != nil {
		m.votesFailedTotal.Inc()
	}
}

// IncGenerationAttempts increments the generation attempts counter.
func (m *Metrics) IncGenerationAttempts() {
	if m != nil {
		m.generationAttempts.Inc()
	}
}

// IncGenerationFailures increments the engine failure counter.
func (m *Metrics) IncGenerationFailures() {
	if m != nil {
		m.generationFailures.Inc()
	}
}

// IncGenerationFaults increments the engine crash counter.
func (m *Metrics) IncGenerationFaults() {
	if m != nil {
		m.generationFaults.Inc()
	}
}

// IncGenerationsSucceeded increments the successful generation counter.
func (m *Metrics) IncGenerationsSucceeded() {
	if m != nil {
		m.generationsSucceeded.Inc()
	}
}

// IncLayoutChanges increments the layout change counter.
func (m *Metrics) IncLayoutChanges() {
	if m != nil {
		m.layoutChangesTotal.Inc()
	}
}

// IncInconsistencies increments the recovered inconsistency counter.
func (m *Metrics) IncInconsistencies() {
	if m != nil {
		m.inconsistenciesTotal.Inc()
	}
}

// SetAuthenticated sets the authenticated gauge.
func (m *Metrics) SetAuthenticated(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.authenticated.Set(1)
	} else {
		m.authenticated.Set(0)
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics exposes Prometheus collectors for the session flow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reading_space_web"

// Metrics groups the web tier collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	guardDecisions *prometheus.CounterVec
	verifications  *prometheus.CounterVec
	refreshes      *prometheus.CounterVec
	linkRequests   *prometheus.CounterVec
	requests       *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Edge route guard decisions by outcome.",
		}, []string{"decision"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "magiclink",
			Name:      "verifications_total",
			Help:      "Magic-link verification outcomes by terminal state.",
		}, []string{"state"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "refreshes_total",
			Help:      "Identity refreshes by result.",
		}, []string{"result"}),
		linkRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "magiclink",
			Name:      "link_requests_total",
			Help:      "Sign-in link requests forwarded to the auth backend by result.",
		}, []string{"result"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
	if reg != nil {
		reg.MustRegister(m.guardDecisions, m.verifications, m.refreshes, m.linkRequests, m.requests)
	}
	return m
}

// GuardDecision counts one route guard decision ("allow" or "redirect").
func (m *Metrics) GuardDecision(decision string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(decision).Inc()
}

// Verification counts one terminal magic-link outcome.
func (m *Metrics) Verification(state string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(state).Inc()
}

// Refresh counts one completed identity refresh.
func (m *Metrics) Refresh(signedIn bool) {
	if m == nil {
		return
	}
	result := "signed_out"
	if signedIn {
		result = "signed_in"
	}
	m.refreshes.WithLabelValues(result).Inc()
}

// LinkRequest counts one forwarded sign-in link request.
func (m *Metrics) LinkRequest(ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "accepted"
	}
	m.linkRequests.WithLabelValues(result).Inc()
}

// Request records one served HTTP request.
func (m *Metrics) Request(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Package metrics holds the portal's prometheus collectors. They live on a
// private registry so tests can build as many as they like.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

type Metrics struct {
	Registry *prometheus.Registry

	transitions     *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	mailFailures    prometheus.Counter
	overrides       prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_transitions_total",
			Help:      "Submission status transitions by kind and target status.",
		}, []string{"kind", "from", "to"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "ForRevision records reconciled by a resubmission, by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications written, by event.",
		}, []string{"event"}),
		mailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_failures_total",
			Help:      "Notification e-mails that could not be delivered.",
		}),
		overrides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deadline_overrides_total",
			Help:      "Deadline overrides written by approved appeals.",
		}),
	}
	reg.MustRegister(
		m.transitions, m.reconciliations, m.notifications, m.mailFailures, m.overrides,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// The recorders below accept a nil receiver so usecases can run without metrics.

func (m *Metrics) Transition(kind, from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind, from, to).Inc()
}

func (m *Metrics) Reconciled(outcome string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Notified(event string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.notifications.WithLabelValues(event).Add(float64(n))
}

func (m *Metrics) MailFailed() {
	if m == nil {
		return
	}
	m.mailFailures.Inc()
}

func (m *Metrics) OverrideWritten() {
	if m == nil {
		return
	}
	m.overrides.Inc()
}

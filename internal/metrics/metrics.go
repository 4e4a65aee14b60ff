// Package metrics exposes Prometheus counters for pipeline outcomes.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the relay's counters. A nil *Metrics is valid and records
// nothing, so tests can leave it out.
type Metrics struct {
	ticketsCreated     *prometheus.CounterVec
	ticketFailures     *prometheus.CounterVec
	escalations        prometheus.Counter
	escalationFailures prometheus.Counter
	notifyFailures     prometheus.Counter
}

// New creates and registers the relay's metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bugbot_tickets_created_total",
			Help: "Tickets created in the tracker, by category.",
		}, []string{"category"}),
		ticketFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bugbot_ticket_failures_total",
			Help: "Ticket creation failures, by pipeline stage.",
		}, []string{"stage"}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bugbot_escalations_total",
			Help: "Red alerts raised successfully.",
		}),
		escalationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bugbot_escalation_failures_total",
			Help: "Red alerts that failed before the ticket was updated.",
		}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bugbot_notification_failures_total",
			Help: "Slack posts that failed. Never fatal to the pipeline.",
		}),
	}
	reg.MustRegister(m.ticketsCreated, m.ticketFailures, m.escalations, m.escalationFailures, m.notifyFailures)
	return m
}

// TicketCreated records a successful ticket creation.
func (m *Metrics) TicketCreated(category string) {
	if m == nil {
		return
	}
	m.ticketsCreated.WithLabelValues(category).Inc()
}

// TicketFailed records a creation pipeline failure at the given stage.
func (m *Metrics) TicketFailed(stage string) {
	if m == nil {
		return
	}
	m.ticketFailures.WithLabelValues(stage).Inc()
}

// EscalationRaised records a completed escalation.
func (m *Metrics) EscalationRaised() {
	if m == nil {
		return
	}
	m.escalations.Inc()
}

// EscalationFailed records an escalation that did not complete.
func (m *Metrics) EscalationFailed() {
	if m == nil {
		return
	}
	m.escalationFailures.Inc()
}

// NotifyFailed records a failed Slack post.
func (m *Metrics) NotifyFailed() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}

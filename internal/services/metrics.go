package services

import "github.com/prometheus/client_golang/prometheus"

var (
	ticketsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tickets_created_total",
		Help: "Tickets created.",
	})
	ticketsUpdated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticket_updates_total",
		Help: "Ticket status updates by outcome.",
	}, []string{"outcome"})
	assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticket_assignments_total",
		Help: "Agent assignment attempts by outcome.",
	}, []string{"outcome"})
	agentsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agents_created_total",
		Help: "Agent creation attempts by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(ticketsCreated, ticketsUpdated, assignments, agentsCreated)
}

const (
	outcomeOK            = "ok"
	outcomeNotFound      = "not_found"
	outcomeAgentNotFound = "agent_not_found"
	outcomeMismatch      = "group_mismatch"
	outcomeDuplicate     = "duplicate"
	outcomeError         = "error"
)

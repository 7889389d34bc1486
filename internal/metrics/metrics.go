package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krelay_messages_total",
			Help: "Relayed messages by sender and initial status",
		},
		[]string{"sender", "status"}, // user|bot , pending|delivered_to_user
	)

	PollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krelay_polls_total",
			Help: "Bot poll cycles by outcome",
		},
		[]string{"outcome"}, // drained|empty
	)

	DrainedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "krelay_drained_messages_total",
			Help: "Messages handed to the bot across all poll cycles",
		},
	)

	AccessChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krelay_access_checks_total",
			Help: "WhatsApp access checks by lookup kind and outcome",
		},
		[]string{"via", "outcome"}, // phone|id , granted|denied|not_found|error
	)
)

var registerOnce sync.Once

func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			MessagesTotal,
			PollsTotal,
			DrainedTotal,
			AccessChecksTotal,
		)
	})
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// DecodeOutcomes counts payload decodes by the tier that produced the
	// record (strict, double, repaired, backslash, recovered, ...).
	DecodeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bidpilot_payload_decodes_total",
			Help: "Payload decode attempts by winning tier.",
		},
		[]string{"tier"},
	)

	// WebhookCalls counts outbound automation webhook calls.
	WebhookCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bidpilot_webhook_calls_total",
			Help: "Outbound webhook calls by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(DecodeOutcomes, WebhookCalls)
}

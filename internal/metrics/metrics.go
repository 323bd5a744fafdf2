package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokensGenerated counts every token produced by the generator. It is
	// incremented before the send is attempted, so it counts attempts,
	// not confirmed deliveries.
	TokensGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenmail_tokens_generated_total",
		Help: "Number of tokens generated, including ones whose delivery later failed.",
	})

	TokensDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenmail_tokens_delivered_total",
		Help: "Number of tokens whose email was sent and whose record was committed.",
	})

	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenmail_token_delivery_failures_total",
		Help: "Number of token emails the mail sender failed to deliver.",
	})

	TokenLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenmail_token_lookups_total",
		Help: "Number of token lookups by result.",
	}, []string{"result"})

	TokensSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenmail_tokens_swept_total",
		Help: "Number of expired records removed by the background sweeper.",
	})
)

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messageProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "vigil_message_duration_sec",
	Help: "Total duration of message decision processing",
})

var messageProcessCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "vigil_messages_processed",
	Help: "Number of messages processed",
})

var messageErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "vigil_message_errors",
	Help: "Number of messages which failed processing",
})

var decisionActionCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vigil_decision_actions",
	Help: "Number of decisions issued, by action",
}, []string{"action"})

var instantBanCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vigil_instant_bans",
	Help: "Number of zero-tolerance rule matches, by category",
}, []string{"category"})

var mercyDowngradeCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "vigil_mercy_downgrades",
	Help: "Number of bans downgraded to warnings after history review",
})

var fusedScoreHist = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "vigil_fused_score",
	Help:    "Distribution of fused spam scores",
	Buckets: prometheus.LinearBuckets(0, 0.1, 11),
})

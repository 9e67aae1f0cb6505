// ABOUTME: Prometheus collectors for points actions, badge unlocks and AI calls
// ABOUTME: Registered once at init; Handler serves them for scraping
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	aiAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growth_tribe",
			Subsystem: "ai",
			Name:      "attempts_total",
			Help:      "Generation attempts by classified outcome.",
		},
		[]string{"outcome"},
	)

	aiResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growth_tribe",
			Subsystem: "ai",
			Name:      "results_total",
			Help:      "Final results of generation requests.",
		},
		[]string{"kind"},
	)

	aiBackoff = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "growth_tribe",
			Subsystem: "ai",
			Name:      "backoff_seconds",
			Help:      "Delay inserted before a retry.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1s to ~2m
		},
	)

	pointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growth_tribe",
			Subsystem: "ledger",
			Name:      "actions_total",
			Help:      "Point actions applied by kind.",
		},
		[]string{"kind"},
	)

	badgesUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growth_tribe",
			Subsystem: "ledger",
			Name:      "badges_unlocked_total",
			Help:      "Badge unlocks by tier.",
		},
		[]string{"tier"},
	)

	storeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "growth_tribe",
			Subsystem: "ledger",
			Name:      "store_failures_total",
			Help:      "Points writes that failed and were swallowed.",
		},
		[]string{"op"},
	)
)

func init() {
	Registry.MustRegister(
		aiAttempts,
		aiResults,
		aiBackoff,
		pointsAwarded,
		badgesUnlocked,
		storeFailures,
	)
}

// Handler exposes the registry over HTTP.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordAIAttempt counts one attempt against the generation endpoint.
func RecordAIAttempt(outcome string) {
	aiAttempts.WithLabelValues(outcome).Inc()
}

// RecordAIResult counts a finished generation request.
func RecordAIResult(kind string) {
	aiResults.WithLabelValues(kind).Inc()
}

// ObserveBackoff records a retry delay.
func ObserveBackoff(seconds float64) {
	aiBackoff.Observe(seconds)
}

// RecordAction counts an applied point action.
func RecordAction(kind string) {
	pointsAwarded.WithLabelValues(kind).Inc()
}

// RecordBadgeUnlock counts a tier unlock.
func RecordBadgeUnlock(tier string) {
	badgesUnlocked.WithLabelValues(tier).Inc()
}

// RecordStoreFailure counts a swallowed store write failure.
func RecordStoreFailure(op string) {
	storeFailures.WithLabelValues(op).Inc()
}

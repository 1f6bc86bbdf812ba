package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rowResolutionDuration tracks how long a full row resolution takes.
	rowResolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "resolver_row_duration_seconds",
		Help:    "Time taken to resolve one day row",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	// matchTier counts catalog matches by field and fallback tier.
	matchTier = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolver_match_tier_total",
		Help: "Catalog matches by field and fallback tier",
	}, []string{"field", "tier"})

	// looseRows counts rows that needed a name-only cross-city match.
	looseRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resolver_loose_rows_total",
		Help: "Rows resolved with at least one loose name-only match",
	})
)

func recordRowResolution(d time.Duration, m RowMatch) {
	rowResolutionDuration.Observe(d.Seconds())
	if m.Hotel != TierNone {
		matchTier.WithLabelValues("hotel", m.Hotel.String()).Inc()
	}
	for _, t := range m.Tickets {
		matchTier.WithLabelValues("ticket", t.Tier.String()).Inc()
	}
	for _, a := range m.Activities {
		matchTier.WithLabelValues("activity", a.Tier.String()).Inc()
	}
	if m.Loose() {
		looseRows.Inc()
	}
}

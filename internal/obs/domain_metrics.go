package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteEvaluationsTotal counts quote evaluations by outcome.
	QuoteEvaluationsTotal *prometheus.CounterVec
	// OfferAppliedTotal counts applied offers by variant.
	OfferAppliedTotal *prometheus.CounterVec
	// EvaluationDuration records engine evaluation latency in milliseconds.
	EvaluationDuration prometheus.Histogram
	// OfferCacheTotal counts offer catalog cache lookups by result.
	OfferCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers the promotion domain
// Prometheus collectors. Safe to call more than once.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_evaluations_total",
			Help:      "Count of promotion evaluations by outcome.",
		}, []string{"result"})
		OfferAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_applied_total",
			Help:      "Count of offers that contributed a discount, by variant.",
		}, []string{"offer_type"})
		EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_ms",
			Help:      "Latency of one engine evaluation pass in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		OfferCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_cache_total",
			Help:      "Offer catalog cache lookups by result.",
		}, []string{"result"})

		QuoteEvaluationsTotal = registerCounterVec(reg, QuoteEvaluationsTotal)
		OfferAppliedTotal = registerCounterVec(reg, OfferAppliedTotal)
		EvaluationDuration = registerDomainHistogram(reg, EvaluationDuration)
		OfferCacheTotal = registerCounterVec(reg, OfferCacheTotal)
	})
}

func registerDomainHistogram(reg prometheus.Registerer, h prometheus.Histogram) prometheus.Histogram {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register histogram: %w", err))
	}
	return h
}

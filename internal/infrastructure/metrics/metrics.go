// Package metrics exposes Prometheus instrumentation for the lifecycle
// engine and the notification dispatcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pbx"

// Collector implements the engine's and the notifier's metric hooks.
type Collector struct {
	projectsCreated      prometheus.Counter
	bidsSubmitted        prometheus.Counter
	bidAmounts           prometheus.Histogram
	awardsResolved       prometheus.Counter
	bidsPerAward         prometheus.Histogram
	notificationFailures prometheus.Counter
}

// NewCollector registers all collectors with the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		projectsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projects_created_total",
			Help:      "Number of projects posted.",
		}),
		bidsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_submitted_total",
			Help:      "Number of bids accepted into the book.",
		}),
		bidAmounts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bid_amount",
			Help:      "Distribution of submitted bid amounts.",
			Buckets:   prometheus.ExponentialBuckets(100_000, 4, 10),
		}),
		awardsResolved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "awards_resolved_total",
			Help:      "Number of projects awarded to a winning bid.",
		}),
		bidsPerAward: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bids_per_award",
			Help:      "Number of bids present when a project was awarded.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
		notificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notification deliveries that failed and were dropped.",
		}),
	}
}

func (c *Collector) RecordProjectCreated() {
	c.projectsCreated.Inc()
}

func (c *Collector) RecordBidSubmitted(amount float64) {
	c.bidsSubmitted.Inc()
	c.bidAmounts.Observe(amount)
}

func (c *Collector) RecordAwardResolved(totalBids int) {
	c.awardsResolved.Inc()
	c.bidsPerAward.Observe(float64(totalBids))
}

func (c *Collector) RecordNotificationFailure() {
	c.notificationFailures.Inc()
}

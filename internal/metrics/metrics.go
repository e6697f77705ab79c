// Package metrics exposes Prometheus collectors for the collection service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal        prometheus.Counter
	entriesTotal       *prometheus.CounterVec
	fetchFailuresTotal *prometheus.CounterVec
	duplicatesTotal    prometheus.Counter
	evictionsTotal     prometheus.Counter
	collectionSize     prometheus.Gauge

	once sync.Once
)

// Init registers the collectors. It is safe to call multiple times.
func Init() {
	once.Do(func() {
		cyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "numharvest_cycles_total",
			Help: "Total number of completed collection cycles.",
		})
		entriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numharvest_entries_total",
				Help: "Total entries appended, labeled by source.",
			},
			[]string{"source"},
		)
		fetchFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numharvest_fetch_failures_total",
				Help: "Total source fetch failures, labeled by source.",
			},
			[]string{"source"},
		)
		duplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "numharvest_duplicates_removed_total",
			Help: "Total duplicate entries removed by retention passes.",
		})
		evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "numharvest_entries_evicted_total",
			Help: "Total entries evicted to enforce the collection size cap.",
		})
		collectionSize = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "numharvest_collection_size",
			Help: "Current number of entries in the collection.",
		})
	})
}

// CycleCompleted increments the cycle counter.
func CycleCompleted() {
	if cyclesTotal != nil {
		cyclesTotal.Inc()
	}
}

// EntriesAppended records n entries appended from a source.
func EntriesAppended(source string, n int) {
	if entriesTotal != nil && n > 0 {
		entriesTotal.WithLabelValues(source).Add(float64(n))
	}
}

// FetchFailure records one failed fetch for a source.
func FetchFailure(source string) {
	if fetchFailuresTotal != nil {
		fetchFailuresTotal.WithLabelValues(source).Inc()
	}
}

// RetentionPass records the outcome of a retention pass and the new size.
func RetentionPass(duplicates, evicted, size int) {
	if duplicatesTotal != nil && duplicates > 0 {
		duplicatesTotal.Add(float64(duplicates))
	}
	if evictionsTotal != nil && evicted > 0 {
		evictionsTotal.Add(float64(evicted))
	}
	if collectionSize != nil {
		collectionSize.Set(float64(size))
	}
}

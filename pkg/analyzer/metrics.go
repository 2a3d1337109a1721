package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every heron metric. It is separate from the default
// registry so a textfile dump contains only analysis counters.
var Registry = prometheus.NewRegistry()

var (
	factory = promauto.With(Registry)

	elementsCollected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heron",
		Subsystem: "analyzer",
		Name:      "elements_collected_total",
		Help:      "Elements collected, by element kind.",
	}, []string{"kind"})

	connectionsEmitted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heron",
		Subsystem: "analyzer",
		Name:      "connections_emitted_total",
		Help:      "Connections added to the graph, by connection kind.",
	}, []string{"kind"})

	referencesDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heron",
		Subsystem: "analyzer",
		Name:      "references_dropped_total",
		Help:      "Type references that did not resolve to a collected element, by reason.",
	}, []string{"reason"})

	analysisDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heron",
		Subsystem: "analyzer",
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each analysis stage.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"stage"})
)

// WriteMetrics dumps the registry to path in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the analysis pipeline
type Registry struct {
	// Pipeline metrics
	FilesTotal    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	// Graph metrics
	GraphVertices prometheus.Gauge
	GraphEdges    prometheus.Gauge

	// Artifact filter metrics
	CliquesDetected     prometheus.Counter
	CliqueEdgesDeleted  prometheus.Counter
	CliquesUnclassified prometheus.Counter
	FilterPasses        prometheus.Histogram
	SegmentsPruned      prometheus.Counter
	SegmentsFiltered    prometheus.Counter

	// Quality-audit counters
	LoopApproximations prometheus.Counter
	RadiusSaturations  prometheus.Counter

	// Correction table metrics
	TableRebuilds      prometheus.Counter
	TableCacheHits     prometheus.Counter
	TableCacheMisses   prometheus.Counter
	TableCacheFailures prometheus.Counter

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry creates a registry with all pipeline metrics registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initPipelineMetrics()
	r.initGraphMetrics()
	r.initFilterMetrics()
	r.initTableMetrics()
	return r
}

// Default returns the process-wide registry instance
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Gatherer exposes the underlying prometheus registry for HTTP exposition
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

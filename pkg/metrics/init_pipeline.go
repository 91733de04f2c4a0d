package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.FilesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselgraph_files_total",
			Help: "Total number of files processed, by terminal status",
		},
		[]string{"status"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vesselgraph_stage_duration_seconds",
			Help:    "Per-file pipeline stage duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"stage"},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphVertices = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vesselgraph_graph_vertices",
			Help: "Vertex count of the most recently built graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "vesselgraph_graph_edges",
			Help: "Edge count of the most recently built graph",
		},
	)
}

func (r *Registry) initFilterMetrics() {
	r.CliquesDetected = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_cliques_detected_total",
			Help: "Branch-point cliques detected across all filter passes",
		},
	)

	r.CliqueEdgesDeleted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_clique_edges_deleted_total",
			Help: "Spurious edges removed by clique filtering",
		},
	)

	r.CliquesUnclassified = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_cliques_unclassified_total",
			Help: "Cliques whose shape matched no classification rule",
		},
	)

	r.FilterPasses = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vesselgraph_filter_passes",
			Help:    "Clique filter passes needed to reach convergence",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	r.SegmentsPruned = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_segments_pruned_total",
			Help: "Short endpoint segments removed by pruning",
		},
	)

	r.SegmentsFiltered = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_segments_filtered_total",
			Help: "Isolated segments removed by length filtering",
		},
	)

	r.LoopApproximations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_loop_approximations_total",
			Help: "Closed-loop segments measured with the approximate fallback",
		},
	)

	r.RadiusSaturations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_radius_saturations_total",
			Help: "Skeleton points whose radius search hit the max-radius cap",
		},
	)
}

func (r *Registry) initTableMetrics() {
	r.TableRebuilds = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_correction_table_rebuilds_total",
			Help: "Correction table rebuilds due to missing or insufficient cache",
		},
	)

	r.TableCacheHits = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_correction_table_cache_hits_total",
			Help: "Correction table loads served from the disk cache",
		},
	)

	r.TableCacheMisses = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_correction_table_cache_misses_total",
			Help: "Correction table loads that required a rebuild",
		},
	)

	r.TableCacheFailures = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "vesselgraph_correction_table_cache_failures_total",
			Help: "Correction table cache read/write failures (non-fatal)",
		},
	)
}

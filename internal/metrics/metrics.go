// Package metrics defines the Prometheus metrics exported by degrees-go.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BFSRunsTotal counts single-source BFS runs, by analysis.
	BFSRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degrees_bfs_runs_total",
			Help: "Total number of single-source BFS runs",
		},
		[]string{"analysis"},
	)

	// AnalysisDuration tracks the wall-clock time of each analysis.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "degrees_analysis_duration_seconds",
			Help:    "Duration of all-sources analyses",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"analysis"},
	)

	// AnalysisErrorsTotal counts failed analyses, by analysis and reason.
	AnalysisErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degrees_analysis_errors_total",
			Help: "Total number of failed analyses",
		},
		[]string{"analysis", "reason"}, // "empty_graph" | "canceled"
	)

	// GraphNodes reports the row count of the most recently loaded graph.
	GraphNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "degrees_graph_nodes",
			Help: "Number of nodes (max ID + 1) in the loaded graph",
		},
	)

	// GraphEdges reports the edge count of the most recently loaded graph.
	GraphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "degrees_graph_edges",
			Help: "Number of undirected edges in the loaded graph",
		},
	)

	// EdgeLinesSkippedTotal counts malformed edge-list lines dropped by the reader.
	EdgeLinesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "degrees_edge_lines_skipped_total",
			Help: "Total number of malformed edge-list lines skipped",
		},
	)

	// LogEntriesTotal counts log entries by level.
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degrees_log_entries_total",
			Help: "Total number of log entries by level",
		},
		[]string{"level"},
	)
)

// Package ingestion turns edge-list files into adjacency structures.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/Benny93/degrees-go/internal/graph"
	"github.com/Benny93/degrees-go/internal/metrics"
	"github.com/Benny93/degrees-go/internal/storage"
)

// LoadResult summarizes a load run.
type LoadResult struct {
	Lines        int     `json:"lines"`
	Edges        int     `json:"edges"`
	Skipped      int     `json:"skipped"`
	Nodes        int     `json:"nodes"`
	UniqueEdges  int     `json:"unique_edges"`
	DurationSecs float64 `json:"duration_secs"`
}

// ProgressCallback is called with phase name and progress (0.0-1.0).
type ProgressCallback func(phase string, progress float64)

// LoadGraph reads the edge list at path and builds its adjacency structure.
// When store is non-nil the result is also snapshotted into it.
func LoadGraph(
	ctx context.Context,
	path string,
	store storage.StorageBackend,
	progress ProgressCallback,
) (graph.Adjacency, *LoadResult, error) {
	started := time.Now()
	result := &LoadResult{}

	report := func(phase string, pct float64) {
		if progress != nil {
			progress(phase, pct)
		}
	}

	// Phase 1: Reading
	report("Reading edge list", 0.0)
	list, err := ReadEdgeList(path)
	if err != nil {
		return nil, nil, err
	}
	result.Lines = list.Lines
	result.Edges = list.Len()
	result.Skipped = list.Skipped
	metrics.EdgeLinesSkippedTotal.Add(float64(list.Skipped))
	report("Reading edge list", 1.0)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Phase 2: Building
	report("Building adjacency", 0.0)
	adj, err := graph.BuildAdjacency(list.Sources, list.Targets)
	if err != nil {
		return nil, nil, fmt.Errorf("building adjacency from %s: %w", path, err)
	}
	result.Nodes = adj.Len()
	result.UniqueEdges = adj.EdgeCount()
	metrics.GraphNodes.Set(float64(result.Nodes))
	metrics.GraphEdges.Set(float64(result.UniqueEdges))
	report("Building adjacency", 1.0)

	// Phase 3: Storage
	if store != nil {
		report("Loading to storage", 0.0)
		if err := store.BulkLoad(ctx, adj, path); err != nil {
			return nil, nil, fmt.Errorf("bulk load: %w", err)
		}
		report("Loading to storage", 1.0)
	}

	result.DurationSecs = time.Since(started).Seconds()
	return adj, result, nil
}

package analysis

import (
	"context"

	"github.com/Benny93/degrees-go/internal/graph"
	"github.com/Benny93/degrees-go/internal/metrics"
)

// Report bundles the four analyses with a short graph summary.
type Report struct {
	// Nodes is the number of rows in the adjacency structure (max ID + 1).
	Nodes int `json:"nodes"`

	// Edges is the number of distinct undirected edges.
	Edges int `json:"edges"`

	// Isolated is the number of nodes whose connectivity is 1.
	Isolated int `json:"isolated"`

	// Diameter is the largest finite separation between two distinct nodes.
	Diameter int `json:"diameter"`

	Connectivity      []int         `json:"connectivity"`
	AveragePathLength float64       `json:"average_path_length"`
	Distribution      *Distribution `json:"distribution"`
	Statistics        Statistics    `json:"statistics"`
}

// Report runs every analysis against adj. The first failure aborts the run;
// no partial report is returned.
func (e *Engine) Report(ctx context.Context, adj graph.Adjacency) (*Report, error) {
	if len(adj) == 0 {
		return nil, ErrEmptyGraph
	}
	metrics.GraphNodes.Set(float64(adj.Len()))
	metrics.GraphEdges.Set(float64(adj.EdgeCount()))

	connectivity, err := e.Connectivity(ctx, adj)
	if err != nil {
		return nil, err
	}
	avg, err := e.AveragePathLength(ctx, adj)
	if err != nil {
		return nil, err
	}
	distribution, err := e.SeparationDistribution(ctx, adj)
	if err != nil {
		return nil, err
	}
	stats, err := e.SeparationStatistics(ctx, adj)
	if err != nil {
		return nil, err
	}

	isolated := 0
	for _, c := range connectivity {
		if c == 1 {
			isolated++
		}
	}

	return &Report{
		Nodes:             adj.Len(),
		Edges:             adj.EdgeCount(),
		Isolated:          isolated,
		Diameter:          distribution.Diameter(),
		Connectivity:      connectivity,
		AveragePathLength: avg,
		Distribution:      distribution,
		Statistics:        stats,
	}, nil
}

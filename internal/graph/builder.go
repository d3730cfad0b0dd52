package graph

import (
	"fmt"
	"math"
)

// BuildAdjacency converts parallel (source, target) sequences into an
// adjacency structure sized max(all IDs)+1.
//
// Pairs with source == target are dropped. Pairs with an ID outside the sized
// range (only possible for negative IDs here) are skipped. Duplicate pairs
// collapse into a single edge. An ID of math.MaxInt cannot be sized and is
// rejected with ErrInvalidInput.
func BuildAdjacency(sources, targets []int) (Adjacency, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("empty node list: %w", ErrInvalidInput)
	}
	if len(sources) != len(targets) {
		return nil, fmt.Errorf("node list has %d entries, edge list has %d: %w",
			len(sources), len(targets), ErrInvalidInput)
	}

	maxID := sources[0]
	for i := range sources {
		maxID = max(maxID, sources[i], targets[i])
	}

	if maxID == math.MaxInt {
		return nil, fmt.Errorf("node id %d too large: %w", maxID, ErrInvalidInput)
	}

	adj := NewAdjacency(maxID + 1)
	for i, u := range sources {
		adj.AddEdge(u, targets[i])
	}
	return adj, nil
}

// FromEdges builds an adjacency structure from a list of edges using the same
// rules as BuildAdjacency.
func FromEdges(edges []Edge) (Adjacency, error) {
	sources := make([]int, len(edges))
	targets := make([]int, len(edges))
	for i, e := range edges {
		sources[i] = e.Source
		targets[i] = e.Target
	}
	return BuildAdjacency(sources, targets)
}

// WithSize builds an adjacency structure pre-sized to size rows and inserts
// the given edges. Edges referencing IDs outside [0, size) are skipped.
func WithSize(size int, edges []Edge) Adjacency {
	adj := NewAdjacency(size)
	for _, e := range edges {
		adj.AddEdge(e.Source, e.Target)
	}
	return adj
}

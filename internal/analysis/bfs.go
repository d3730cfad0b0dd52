// Package analysis implements the BFS analytics engine: connectivity counts,
// average shortest path length, separation distribution and separation
// statistics over an undirected, unweighted graph.
//
// Every analysis runs a single-source BFS from each node in turn, so the cost
// is O(V·(V+E)). Distance tables are allocated per run and never shared.
package analysis

import (
	"errors"

	"github.com/Benny93/degrees-go/internal/graph"
)

// Unreachable marks a node that a BFS run never discovered.
const Unreachable = -1

// ErrEmptyGraph is returned by every analysis when the adjacency structure
// has no nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// ShortestPaths returns the hop distance from start to every node of adj.
// Nodes not connected to start hold Unreachable; start itself holds 0.
// Returns nil when start is out of range.
func ShortestPaths(adj graph.Adjacency, start int) []int {
	if !adj.InRange(start) {
		return nil
	}

	dist := make([]int, len(adj))
	for i := range dist {
		dist[i] = Unreachable
	}

	queue := make([]int, 0, len(adj))
	dist[start] = 0
	queue = append(queue, start)

	for head := 0; head < len(queue); head++ {
		node := queue[head]
		for neighbor := range adj[node] {
			if dist[neighbor] == Unreachable {
				dist[neighbor] = dist[node] + 1
				queue = append(queue, neighbor)
			}
		}
	}

	return dist
}

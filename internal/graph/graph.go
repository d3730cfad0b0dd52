package graph

import (
	"fmt"
	"sort"
)

// Adjacency is an undirected graph stored as one neighbor set per node ID.
//
// Invariants maintained by AddEdge:
//   - symmetry: v is in a[u] if and only if u is in a[v]
//   - no self-membership: u is never in a[u]
//
// An Adjacency is built once and then treated as read-only; analyses share
// it across goroutines without locking.
type Adjacency []NodeSet

// NewAdjacency creates an adjacency structure with size empty rows.
// A negative size yields an empty structure.
func NewAdjacency(size int) Adjacency {
	if size < 0 {
		size = 0
	}
	adj := make(Adjacency, size)
	for i := range adj {
		adj[i] = make(NodeSet)
	}
	return adj
}

// Len returns the number of rows, i.e. max(ID)+1.
func (a Adjacency) Len() int {
	return len(a)
}

// InRange reports whether id indexes a row of the structure.
func (a Adjacency) InRange(id int) bool {
	return id >= 0 && id < len(a)
}

// AddEdge inserts the unordered pair (u, v).
// Self-loops and out-of-range IDs are skipped silently; the return value
// reports whether the pair was accepted. Re-adding an existing pair is a no-op
// that still returns true.
func (a Adjacency) AddEdge(u, v int) bool {
	if u == v {
		return false
	}
	if !a.InRange(u) || !a.InRange(v) {
		return false
	}
	a[u][v] = struct{}{}
	a[v][u] = struct{}{}
	return true
}

// HasEdge reports whether u and v are directly connected.
func (a Adjacency) HasEdge(u, v int) bool {
	if !a.InRange(u) || !a.InRange(v) {
		return false
	}
	_, ok := a[u][v]
	return ok
}

// Neighbors returns the neighbors of u in ascending order.
// Returns nil when u is out of range.
func (a Adjacency) Neighbors(u int) []int {
	if !a.InRange(u) {
		return nil
	}
	result := make([]int, 0, len(a[u]))
	for v := range a[u] {
		result = append(result, v)
	}
	sort.Ints(result)
	return result
}

// Degree returns the number of neighbors of u.
func (a Adjacency) Degree(u int) int {
	if !a.InRange(u) {
		return 0
	}
	return len(a[u])
}

// EdgeCount returns the number of distinct undirected edges.
func (a Adjacency) EdgeCount() int {
	total := 0
	for _, row := range a {
		total += len(row)
	}
	return total / 2
}

// Edges returns every undirected edge once, in canonical form, sorted by
// source then target.
func (a Adjacency) Edges() []Edge {
	edges := make([]Edge, 0, a.EdgeCount())
	for u := range a {
		for _, v := range a.Neighbors(u) {
			if u < v {
				edges = append(edges, Edge{Source: u, Target: v})
			}
		}
	}
	return edges
}

// Validate checks the symmetry and no-self-loop invariants. Violations wrap
// ErrInvalidInput.
func (a Adjacency) Validate() error {
	for u, row := range a {
		for v := range row {
			if v == u {
				return fmt.Errorf("node %d is its own neighbor: %w", u, ErrInvalidInput)
			}
			if !a.InRange(v) {
				return fmt.Errorf("node %d has out-of-range neighbor %d: %w", u, v, ErrInvalidInput)
			}
			if _, ok := a[v][u]; !ok {
				return fmt.Errorf("edge %d-%d is not symmetric: %w", u, v, ErrInvalidInput)
			}
		}
	}
	return nil
}

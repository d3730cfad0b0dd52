// Package graph provides the undirected graph data model for degrees-go.
//
// Nodes are identified by non-negative integer IDs. An Adjacency is a slice
// indexed by node ID, sized to max(ID)+1, where each row holds the set of
// neighbors of that node. Sparse or very high IDs waste rows; that is an
// accepted limitation of the ID-indexed layout.
package graph

import "errors"

// ErrInvalidInput is returned when an edge list cannot size an adjacency
// structure (no pairs at all, or source/target sequences of unequal length).
var ErrInvalidInput = errors.New("invalid input")

// NodeSet is a set of neighbor node IDs.
type NodeSet map[int]struct{}

// Edge is an unordered pair of node IDs.
type Edge struct {
	// Source is one endpoint of the edge.
	Source int `json:"source"`

	// Target is the other endpoint of the edge.
	Target int `json:"target"`
}

// Canonical returns the edge with the smaller ID first.
func (e Edge) Canonical() Edge {
	if e.Source > e.Target {
		return Edge{Source: e.Target, Target: e.Source}
	}
	return e
}

// IsSelfLoop reports whether both endpoints are the same node.
func (e Edge) IsSelfLoop() bool {
	return e.Source == e.Target
}

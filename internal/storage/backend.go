// Package storage persists graph snapshots for degrees-go.
//
// A snapshot is the canonical edge set of an adjacency structure plus its
// size, so that a graph indexed once can be analysed again without
// re-parsing the edge list. Analysis results are never stored.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Benny93/degrees-go/internal/graph"
)

// ErrNotIndexed is returned when a backend holds no snapshot.
var ErrNotIndexed = errors.New("no graph snapshot indexed")

// SnapshotInfo describes the stored snapshot.
type SnapshotInfo struct {
	// Source is the edge-list path the snapshot was built from.
	Source string `json:"source"`

	// Nodes is the adjacency size (max ID + 1).
	Nodes int `json:"nodes"`

	// Edges is the number of distinct undirected edges.
	Edges int `json:"edges"`

	// IndexedAt is when the snapshot was written.
	IndexedAt time.Time `json:"indexed_at"`
}

// StorageBackend defines the interface for snapshot stores.
//
// Implementations must be safe for concurrent use.
type StorageBackend interface {
	// Initialize opens or creates the backend at the given path.
	// If readOnly is true, the backend is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the backend.
	Close() error

	// BulkLoad replaces the stored snapshot with adj.
	BulkLoad(ctx context.Context, adj graph.Adjacency, source string) error

	// LoadAdjacency rebuilds the stored snapshot. Returns ErrNotIndexed when
	// nothing has been loaded yet.
	LoadAdjacency(ctx context.Context) (graph.Adjacency, error)

	// Info describes the stored snapshot. Returns ErrNotIndexed when nothing
	// has been loaded yet.
	Info(ctx context.Context) (*SnapshotInfo, error)

	// NodeCount returns the stored adjacency size.
	NodeCount() int

	// EdgeCount returns the number of stored edges.
	EdgeCount() int
}

package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Benny93/degrees-go/internal/graph"
)

// MemoryBackend is an in-memory implementation of StorageBackend for testing.
type MemoryBackend struct {
	mu    sync.RWMutex
	info  *SnapshotInfo
	edges []graph.Edge
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Initialize implements StorageBackend.
func (m *MemoryBackend) Initialize(path string, readOnly bool) error {
	return nil
}

// Close implements StorageBackend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info = nil
	m.edges = nil
	return nil
}

// BulkLoad implements StorageBackend.
func (m *MemoryBackend) BulkLoad(ctx context.Context, adj graph.Adjacency, source string) error {
	if err := adj.Validate(); err != nil {
		return fmt.Errorf("refusing snapshot: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.edges = adj.Edges()
	m.info = &SnapshotInfo{
		Source:    source,
		Nodes:     adj.Len(),
		Edges:     len(m.edges),
		IndexedAt: time.Now().UTC(),
	}
	return nil
}

// LoadAdjacency implements StorageBackend.
func (m *MemoryBackend) LoadAdjacency(ctx context.Context) (graph.Adjacency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.info == nil {
		return nil, ErrNotIndexed
	}
	return graph.WithSize(m.info.Nodes, m.edges), nil
}

// Info implements StorageBackend.
func (m *MemoryBackend) Info(ctx context.Context) (*SnapshotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.info == nil {
		return nil, ErrNotIndexed
	}
	info := *m.info
	return &info, nil
}

// NodeCount implements StorageBackend.
func (m *MemoryBackend) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.info == nil {
		return 0
	}
	return m.info.Nodes
}

// EdgeCount implements StorageBackend.
func (m *MemoryBackend) EdgeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.edges)
}

package ingestion

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Benny93/degrees-go/internal/graph"
	"github.com/Benny93/degrees-go/internal/storage"
)

// FileSource serves the adjacency structure of an edge-list file, reloading
// it whenever the file's size or modification time changes.
type FileSource struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	adj     graph.Adjacency
	result  *LoadResult
}

// NewFileSource creates a source for the edge list at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the edge-list path.
func (s *FileSource) Path() string {
	return s.path
}

// LoadAdjacency returns the current adjacency structure.
func (s *FileSource) LoadAdjacency(ctx context.Context) (graph.Adjacency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.adj, nil
}

// Info describes the currently loaded file.
func (s *FileSource) Info(ctx context.Context) (*storage.SnapshotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return &storage.SnapshotInfo{
		Source:    s.path,
		Nodes:     s.result.Nodes,
		Edges:     s.result.UniqueEdges,
		IndexedAt: s.modTime.UTC(),
	}, nil
}

func (s *FileSource) refresh(ctx context.Context) error {
	stat, err := os.Stat(s.path)
	if err != nil {
		return &ReadError{Path: s.path, Err: err}
	}
	if s.adj != nil && stat.ModTime().Equal(s.modTime) && stat.Size() == s.size {
		return nil
	}

	adj, result, err := LoadGraph(ctx, s.path, nil, nil)
	if err != nil {
		return fmt.Errorf("loading %s: %w", s.path, err)
	}

	s.adj = adj
	s.result = result
	s.modTime = stat.ModTime()
	s.size = stat.Size()
	return nil
}

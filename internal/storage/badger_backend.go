package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Benny93/degrees-go/internal/graph"
)

// Key layout.
const (
	prefixEdge = "e:" // e:<u uint64><v uint64>, u < v, empty value
	keyInfo    = "m:info"
)

// BadgerBackend is a BadgerDB-backed snapshot store.
type BadgerBackend struct {
	db          *badger.DB
	initialized bool
	mu          sync.RWMutex
	nodeCount   int
	edgeCount   int
}

// NewBadgerBackend creates a new BadgerDB backend.
func NewBadgerBackend() *BadgerBackend {
	return &BadgerBackend{}
}

// Initialize opens or creates the BadgerDB database at the given path.
func (b *BadgerBackend) Initialize(path string, readOnly bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithNumMemtables(5).
		WithLoggingLevel(badger.ERROR)

	if readOnly {
		opts = opts.WithReadOnly(true)
	}

	var err error
	b.db, err = badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger DB: %w", err)
	}
	b.initialized = true

	info, err := b.readInfo()
	switch {
	case errors.Is(err, ErrNotIndexed):
		b.nodeCount, b.edgeCount = 0, 0
	case err != nil:
		_ = b.db.Close()
		b.db = nil
		b.initialized = false
		return err
	default:
		b.nodeCount, b.edgeCount = info.Nodes, info.Edges
	}

	return nil
}

// Close releases all resources held by the backend.
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.initialized = false
	return err
}

// BulkLoad replaces the stored snapshot with adj.
func (b *BadgerBackend) BulkLoad(ctx context.Context, adj graph.Adjacency, source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return errors.New("badger backend not initialized")
	}
	if err := adj.Validate(); err != nil {
		return fmt.Errorf("refusing snapshot: %w", err)
	}

	if err := b.db.DropPrefix([]byte(prefixEdge), []byte(keyInfo)); err != nil {
		return fmt.Errorf("dropping previous snapshot: %w", err)
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	edges := adj.Edges()
	for i, e := range edges {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := wb.Set(edgeKey(e), []byte{}); err != nil {
			return fmt.Errorf("setting edge: %w", err)
		}
	}

	info := SnapshotInfo{
		Source:    source,
		Nodes:     adj.Len(),
		Edges:     len(edges),
		IndexedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling snapshot info: %w", err)
	}
	if err := wb.Set([]byte(keyInfo), data); err != nil {
		return fmt.Errorf("setting snapshot info: %w", err)
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}

	b.nodeCount = info.Nodes
	b.edgeCount = info.Edges
	return nil
}

// LoadAdjacency rebuilds the stored snapshot.
func (b *BadgerBackend) LoadAdjacency(ctx context.Context) (graph.Adjacency, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, errors.New("badger backend not initialized")
	}

	info, err := b.readInfo()
	if err != nil {
		return nil, err
	}

	adj := graph.NewAdjacency(info.Nodes)

	txn := b.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixEdge)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	loaded := 0
	for it.Rewind(); it.Valid(); it.Next() {
		if loaded%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		e, ok := parseEdgeKey(it.Item().Key())
		if !ok {
			return nil, fmt.Errorf("corrupt edge key %x", it.Item().Key())
		}
		if !adj.AddEdge(e.Source, e.Target) {
			return nil, fmt.Errorf("stored edge %d-%d outside snapshot of %d nodes", e.Source, e.Target, info.Nodes)
		}
		loaded++
	}

	if loaded != info.Edges {
		return nil, fmt.Errorf("snapshot lists %d edges, found %d", info.Edges, loaded)
	}
	return adj, nil
}

// Info describes the stored snapshot.
func (b *BadgerBackend) Info(ctx context.Context) (*SnapshotInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, errors.New("badger backend not initialized")
	}
	return b.readInfo()
}

// NodeCount returns the stored adjacency size.
func (b *BadgerBackend) NodeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nodeCount
}

// EdgeCount returns the number of stored edges.
func (b *BadgerBackend) EdgeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.edgeCount
}

// readInfo must be called with the lock held.
func (b *BadgerBackend) readInfo() (*SnapshotInfo, error) {
	var info SnapshotInfo
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyInfo))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotIndexed
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot info: %w", err)
	}
	return &info, nil
}

// edgeKey encodes a canonical edge so that keys sort by (source, target).
func edgeKey(e graph.Edge) []byte {
	e = e.Canonical()
	key := make([]byte, len(prefixEdge)+16)
	copy(key, prefixEdge)
	binary.BigEndian.PutUint64(key[len(prefixEdge):], uint64(e.Source))
	binary.BigEndian.PutUint64(key[len(prefixEdge)+8:], uint64(e.Target))
	return key
}

func parseEdgeKey(key []byte) (graph.Edge, bool) {
	if len(key) != len(prefixEdge)+16 || string(key[:len(prefixEdge)]) != prefixEdge {
		return graph.Edge{}, false
	}
	return graph.Edge{
		Source: int(binary.BigEndian.Uint64(key[len(prefixEdge):])),
		Target: int(binary.BigEndian.Uint64(key[len(prefixEdge)+8:])),
	}, true
}

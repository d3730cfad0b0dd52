package analysis

import (
	"context"

	"github.com/Benny93/degrees-go/internal/graph"
)

// Connectivity counts, for every node in ID order, the nodes reachable from
// it. The start node counts itself, so every value is at least 1 and an
// isolated node reports exactly 1.
func (e *Engine) Connectivity(ctx context.Context, adj graph.Adjacency) ([]int, error) {
	var connectivity []int
	err := e.track(NameConnectivity, adj, func() error {
		connectivity = make([]int, len(adj))
		// Each start writes only its own slot.
		return e.sweep(ctx, NameConnectivity, adj, e.workerCount(len(adj)), func(_, start int, dist []int) {
			reached := 0
			for _, d := range dist {
				if d != Unreachable {
					reached++
				}
			}
			connectivity[start] = reached
		})
	})
	if err != nil {
		return nil, err
	}
	return connectivity, nil
}

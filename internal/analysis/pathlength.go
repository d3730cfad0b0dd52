package analysis

import (
	"context"

	"github.com/Benny93/degrees-go/internal/graph"
)

type pathTotals struct {
	sum   int64
	count int64
}

// AveragePathLength sums every finite distance from every start (self-pairs
// at distance 0 included, each unordered pair seen once per direction) and
// divides by the number of finite distances. Returns 0 when there are none.
func (e *Engine) AveragePathLength(ctx context.Context, adj graph.Adjacency) (float64, error) {
	var avg float64
	err := e.track(NamePathLength, adj, func() error {
		workers := e.workerCount(len(adj))
		totals := make([]pathTotals, workers)
		err := e.sweep(ctx, NamePathLength, adj, workers, func(w, _ int, dist []int) {
			for _, d := range dist {
				if d != Unreachable {
					totals[w].sum += int64(d)
					totals[w].count++
				}
			}
		})
		if err != nil {
			return err
		}

		var merged pathTotals
		for _, t := range totals {
			merged.sum += t.sum
			merged.count += t.count
		}
		if merged.count > 0 {
			avg = float64(merged.sum) / float64(merged.count)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return avg, nil
}

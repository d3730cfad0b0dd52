package analysis

import (
	"context"
	"math"
	"math/bits"

	"github.com/Benny93/degrees-go/internal/graph"
)

// Statistics summarizes all finite separations, self-pairs included.
type Statistics struct {
	// Mean is the average separation.
	Mean float64 `json:"mean"`

	// StdDev is the population standard deviation.
	StdDev float64 `json:"std_dev"`

	// Count is the number of finite observations.
	Count int64 `json:"count"`
}

type moments struct {
	sum   int64
	sumSq uint128
	count int64
}

// uint128 accumulates squared distances, which outgrow 64 bits on long paths
// in large graphs.
type uint128 struct {
	hi, lo uint64
}

func (u *uint128) add(x uint64) {
	var carry uint64
	u.lo, carry = bits.Add64(u.lo, x, 0)
	u.hi += carry
}

func (u *uint128) merge(v uint128) {
	var carry uint64
	u.lo, carry = bits.Add64(u.lo, v.lo, 0)
	u.hi += v.hi + carry
}

func (u uint128) toFloat() float64 {
	return float64(u.hi)*0x1p64 + float64(u.lo)
}

// SeparationStatistics computes the mean and population standard deviation
// of every finite distance (distance >= 0) across all starts, using
// sqrt((Σx² - (Σx)²/n) / n). Cancellation can push the variance slightly
// below zero for uniform distances; it is clamped to 0.
func (e *Engine) SeparationStatistics(ctx context.Context, adj graph.Adjacency) (Statistics, error) {
	var stats Statistics
	err := e.track(NameStatistics, adj, func() error {
		workers := e.workerCount(len(adj))
		partial := make([]moments, workers)
		err := e.sweep(ctx, NameStatistics, adj, workers, func(w, _ int, dist []int) {
			for _, d := range dist {
				if d >= 0 {
					x := int64(d)
					partial[w].sum += x
					partial[w].sumSq.add(uint64(x * x))
					partial[w].count++
				}
			}
		})
		if err != nil {
			return err
		}

		var m moments
		for _, p := range partial {
			m.sum += p.sum
			m.sumSq.merge(p.sumSq)
			m.count += p.count
		}
		stats = m.statistics()
		return nil
	})
	if err != nil {
		return Statistics{}, err
	}
	return stats, nil
}

func (m moments) statistics() Statistics {
	if m.count == 0 {
		return Statistics{}
	}
	sum := float64(m.sum)
	count := float64(m.count)

	variance := (m.sumSq.toFloat() - sum*sum/count) / count
	if variance < 0 {
		variance = 0
	}

	return Statistics{
		Mean:   sum / count,
		StdDev: math.Sqrt(variance),
		Count:  m.count,
	}
}

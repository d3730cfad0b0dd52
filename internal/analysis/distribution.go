package analysis

import (
	"context"

	"github.com/Benny93/degrees-go/internal/graph"
)

// Distribution is the share of node pairs at each degree of separation.
//
// Counts and Percentages are indexed by degree; index 0 is always zero since
// self-pairs are not counted. Every unordered pair is observed from both
// ends while TotalPairs counts it once, so percentages may sum past 100.
type Distribution struct {
	// Counts holds the number of (start, node) observations per degree.
	Counts []int64 `json:"counts"`

	// Percentages holds 100·Counts[d]/TotalPairs.
	Percentages []float64 `json:"percentages"`

	// TotalPairs is V(V-1)/2.
	TotalPairs int64 `json:"total_pairs"`

	// PeakDegree is the first degree reaching the highest percentage.
	PeakDegree int `json:"peak_degree"`

	// PeakPercentage is the percentage at PeakDegree.
	PeakPercentage float64 `json:"peak_percentage"`
}

// Diameter returns the largest degree with a non-zero count, or 0 when no
// two distinct nodes are connected.
func (d *Distribution) Diameter() int {
	for i := len(d.Counts) - 1; i > 0; i-- {
		if d.Counts[i] != 0 {
			return i
		}
	}
	return 0
}

// SeparationDistribution counts every observation with 0 < distance < V and
// converts the counts to percentages of V(V-1)/2. For a single-node graph
// there are no pairs and every percentage is 0.
func (e *Engine) SeparationDistribution(ctx context.Context, adj graph.Adjacency) (*Distribution, error) {
	var result *Distribution
	err := e.track(NameDistribution, adj, func() error {
		n := len(adj)
		workers := e.workerCount(n)
		histograms := make([][]int64, workers)
		for w := range histograms {
			histograms[w] = make([]int64, n)
		}

		err := e.sweep(ctx, NameDistribution, adj, workers, func(w, _ int, dist []int) {
			for _, d := range dist {
				if d > 0 && d < n {
					histograms[w][d]++
				}
			}
		})
		if err != nil {
			return err
		}

		counts := make([]int64, n)
		for _, h := range histograms {
			for d, c := range h {
				counts[d] += c
			}
		}

		result = newDistribution(counts, int64(n)*int64(n-1)/2)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func newDistribution(counts []int64, totalPairs int64) *Distribution {
	dist := &Distribution{
		Counts:      counts,
		Percentages: make([]float64, len(counts)),
		TotalPairs:  totalPairs,
	}
	if totalPairs > 0 {
		for d, c := range counts {
			dist.Percentages[d] = 100 * float64(c) / float64(totalPairs)
		}
	}

	// Strict comparison keeps the first degree on ties.
	for d, p := range dist.Percentages {
		if d == 0 || p > dist.PeakPercentage {
			dist.PeakDegree = d
			dist.PeakPercentage = p
		}
	}
	return dist
}

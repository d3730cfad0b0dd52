package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/degrees-go/internal/graph"
)

func TestConnectivity(t *testing.T) {
	t.Parallel()

	t.Run("IsolatedNode", func(t *testing.T) {
		t.Parallel()
		// Node 3 only appears in a self-loop, which is dropped.
		adj, err := graph.BuildAdjacency([]int{1, 3}, []int{2, 3})
		require.NoError(t, err)
		require.Empty(t, adj[3])

		connectivity, err := Connectivity(adj)
		require.NoError(t, err)

		assert.Equal(t, 1, connectivity[3])
		assert.Equal(t, []int{1, 2, 2, 1}, connectivity)
	})

	t.Run("PathWithoutNodeOne", func(t *testing.T) {
		t.Parallel()
		// 2-3-4-5 with no edge to 1. Connectivity counts the start itself.
		adj, err := graph.BuildAdjacency([]int{2, 3, 4}, []int{3, 4, 5})
		require.NoError(t, err)

		connectivity, err := Connectivity(adj)
		require.NoError(t, err)

		assert.Equal(t, 1, connectivity[1], "node 1 reaches only itself")
		assert.Equal(t, 4, connectivity[2], "node 2 reaches 2, 3, 4 and 5")
		assert.Equal(t, 3, connectivity[2]-1, "three other nodes are reachable from node 2")
		assert.Equal(t, []int{1, 1, 4, 4, 4, 4}, connectivity)
	})

	t.Run("LowerBound", func(t *testing.T) {
		t.Parallel()
		connectivity, err := Connectivity(randomGraph(t, 3, 40, 25))
		require.NoError(t, err)

		for start, c := range connectivity {
			assert.GreaterOrEqual(t, c, 1, "node %d", start)
		}
	})
}

func TestAveragePathLength(t *testing.T) {
	t.Parallel()

	t.Run("Path", func(t *testing.T) {
		t.Parallel()
		// Distances from 0, 1, 2: {0,1,2}, {1,0,1}, {2,1,0}.
		avg, err := AveragePathLength(pathGraph(t, 3))
		require.NoError(t, err)

		assert.InDelta(t, 8.0/9.0, avg, 1e-12)
	})

	t.Run("SingleNode", func(t *testing.T) {
		t.Parallel()
		adj, err := graph.BuildAdjacency([]int{0}, []int{0})
		require.NoError(t, err)

		avg, err := AveragePathLength(adj)
		require.NoError(t, err)

		assert.Equal(t, 0.0, avg)
	})

	t.Run("MatchesStatisticsMean", func(t *testing.T) {
		t.Parallel()
		adj := randomGraph(t, 11, 80, 90)

		avg, err := AveragePathLength(adj)
		require.NoError(t, err)
		stats, err := SeparationStatistics(adj)
		require.NoError(t, err)

		assert.InDelta(t, stats.Mean, avg, 1e-12)
	})
}

func TestSeparationDistribution(t *testing.T) {
	t.Parallel()

	t.Run("Path", func(t *testing.T) {
		t.Parallel()
		dist, err := SeparationDistribution(pathGraph(t, 3))
		require.NoError(t, err)

		assert.Equal(t, []int64{0, 4, 2}, dist.Counts)
		assert.Equal(t, int64(3), dist.TotalPairs)
		require.Len(t, dist.Percentages, 3)
		assert.InDelta(t, 0.0, dist.Percentages[0], 1e-12)
		assert.InDelta(t, 400.0/3.0, dist.Percentages[1], 1e-9)
		assert.InDelta(t, 200.0/3.0, dist.Percentages[2], 1e-9)
		assert.Equal(t, 1, dist.PeakDegree)
		assert.InDelta(t, 400.0/3.0, dist.PeakPercentage, 1e-9)
		assert.Equal(t, 2, dist.Diameter())
	})

	t.Run("TieKeepsFirstDegree", func(t *testing.T) {
		t.Parallel()
		// Star with center 0: six ordered pairs at degree 1 and six at degree 2.
		adj, err := graph.BuildAdjacency([]int{0, 0, 0}, []int{1, 2, 3})
		require.NoError(t, err)

		dist, err := SeparationDistribution(adj)
		require.NoError(t, err)

		assert.Equal(t, []int64{0, 6, 6, 0}, dist.Counts)
		assert.Equal(t, 1, dist.PeakDegree)
		assert.InDelta(t, 100.0, dist.PeakPercentage, 1e-12)
	})

	t.Run("SingleNode", func(t *testing.T) {
		t.Parallel()
		adj, err := graph.BuildAdjacency([]int{0}, []int{0})
		require.NoError(t, err)

		dist, err := SeparationDistribution(adj)
		require.NoError(t, err)

		assert.Equal(t, int64(0), dist.TotalPairs)
		assert.Equal(t, []float64{0}, dist.Percentages)
		assert.Equal(t, 0, dist.PeakDegree)
		assert.Equal(t, 0.0, dist.PeakPercentage)
		assert.Equal(t, 0, dist.Diameter())
	})

	t.Run("NoEdges", func(t *testing.T) {
		t.Parallel()
		dist, err := SeparationDistribution(graph.NewAdjacency(5))
		require.NoError(t, err)

		assert.Equal(t, 0, dist.PeakDegree)
		for _, p := range dist.Percentages {
			assert.Equal(t, 0.0, p)
		}
	})
}

func TestSeparationStatistics(t *testing.T) {
	t.Parallel()

	t.Run("Path", func(t *testing.T) {
		t.Parallel()
		// Observations 0,1,2,1,0,1,2,1,0: sum 8, sum of squares 12, n 9.
		stats, err := SeparationStatistics(pathGraph(t, 3))
		require.NoError(t, err)

		assert.Equal(t, int64(9), stats.Count)
		assert.InDelta(t, 8.0/9.0, stats.Mean, 1e-12)
		assert.InDelta(t, math.Sqrt(44)/9, stats.StdDev, 1e-12)
	})

	t.Run("PopulationNotSample", func(t *testing.T) {
		t.Parallel()
		// Two nodes, one edge: observations 0,1,1,0. Population std-dev is 0.5;
		// the sample formula would give ~0.577.
		stats, err := SeparationStatistics(pathGraph(t, 2))
		require.NoError(t, err)

		assert.InDelta(t, 0.5, stats.Mean, 1e-12)
		assert.InDelta(t, 0.5, stats.StdDev, 1e-12)
	})

	t.Run("UniformDistancesAreZeroNotNaN", func(t *testing.T) {
		t.Parallel()
		stats, err := SeparationStatistics(graph.NewAdjacency(6))
		require.NoError(t, err)

		assert.Equal(t, 0.0, stats.Mean)
		assert.Equal(t, 0.0, stats.StdDev)
		assert.False(t, math.IsNaN(stats.StdDev))
	})
}

func TestMoments_ClampsNegativeVariance(t *testing.T) {
	t.Parallel()

	// sumSq below sum²/count cannot come from real data but mirrors what
	// floating-point cancellation produces for near-uniform samples.
	stats := moments{sum: 3, sumSq: uint128{lo: 2}, count: 3}.statistics()

	assert.Equal(t, 1.0, stats.Mean)
	assert.Equal(t, 0.0, stats.StdDev)
	assert.False(t, math.IsNaN(stats.StdDev))

	assert.Equal(t, Statistics{}, moments{}.statistics())
}

func TestMoments_SquaresBeyondInt64(t *testing.T) {
	t.Parallel()

	// Three observations of 2^31.5 each square to just under 2^63; their sum
	// no longer fits an int64.
	x := uint64(3_037_000_499)
	var m moments
	for i := 0; i < 3; i++ {
		m.sum += int64(x)
		m.sumSq.add(x * x)
		m.count++
	}
	require.NotZero(t, m.sumSq.hi)

	stats := m.statistics()
	assert.InDelta(t, float64(x), stats.Mean, 1e-3)
	assert.InDelta(t, 0.0, stats.StdDev, 1e-3*float64(x))
	assert.False(t, math.IsNaN(stats.StdDev))
}

func TestUint128(t *testing.T) {
	t.Parallel()

	var a uint128
	a.add(math.MaxUint64)
	a.add(1)
	assert.Equal(t, uint128{hi: 1, lo: 0}, a)

	b := uint128{hi: 2, lo: math.MaxUint64}
	a.merge(b)
	assert.Equal(t, uint128{hi: 3, lo: math.MaxUint64}, a)

	assert.Equal(t, 0x1p64, uint128{hi: 1}.toFloat())
	assert.Equal(t, 5.0, uint128{lo: 5}.toFloat())
}

func TestEmptyGraph(t *testing.T) {
	t.Parallel()

	empty := graph.NewAdjacency(0)

	_, err := Connectivity(empty)
	assert.ErrorIs(t, err, ErrEmptyGraph)

	_, err = AveragePathLength(empty)
	assert.ErrorIs(t, err, ErrEmptyGraph)

	_, err = SeparationDistribution(empty)
	assert.ErrorIs(t, err, ErrEmptyGraph)

	_, err = SeparationStatistics(empty)
	assert.ErrorIs(t, err, ErrEmptyGraph)

	_, err = NewEngine().Report(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

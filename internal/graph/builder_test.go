package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAdjacency(t *testing.T) {
	t.Parallel()

	t.Run("SelfLoopDropped", func(t *testing.T) {
		t.Parallel()
		adj, err := BuildAdjacency([]int{1, 1, 2}, []int{1, 2, 3})
		require.NoError(t, err)

		assert.Equal(t, 4, adj.Len())
		assert.NotContains(t, adj[1], 1)
		assert.Equal(t, []int{2}, adj.Neighbors(1))
		assert.Equal(t, []int{1, 3}, adj.Neighbors(2))
		assert.Equal(t, []int{2}, adj.Neighbors(3))
	})

	t.Run("NoConnection", func(t *testing.T) {
		t.Parallel()
		adj, err := BuildAdjacency([]int{1, 3}, []int{2, 3})
		require.NoError(t, err)

		assert.Equal(t, 4, adj.Len())
		assert.Empty(t, adj[3])
		assert.Empty(t, adj[0])
	})

	t.Run("SizedByTargetsToo", func(t *testing.T) {
		t.Parallel()
		adj, err := BuildAdjacency([]int{1}, []int{9})
		require.NoError(t, err)

		assert.Equal(t, 10, adj.Len())
		assert.True(t, adj.HasEdge(9, 1))
	})

	t.Run("DuplicatesCollapse", func(t *testing.T) {
		t.Parallel()
		adj, err := BuildAdjacency([]int{1, 2, 1}, []int{2, 1, 2})
		require.NoError(t, err)

		assert.Equal(t, 1, adj.EdgeCount())
	})

	t.Run("NegativeIDsSkipped", func(t *testing.T) {
		t.Parallel()
		adj, err := BuildAdjacency([]int{-1, 0}, []int{2, 2})
		require.NoError(t, err)

		assert.Equal(t, 3, adj.Len())
		assert.Equal(t, []Edge{{Source: 0, Target: 2}}, adj.Edges())
	})

	t.Run("AllNegativeYieldsEmpty", func(t *testing.T) {
		t.Parallel()
		adj, err := BuildAdjacency([]int{-4}, []int{-2})
		require.NoError(t, err)

		assert.Equal(t, 0, adj.Len())
	})

	t.Run("EmptyNodeList", func(t *testing.T) {
		t.Parallel()
		_, err := BuildAdjacency(nil, nil)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		t.Parallel()
		_, err := BuildAdjacency([]int{1, 2, 3}, []int{1, 1, 2, 3})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("MaxIntIDRejected", func(t *testing.T) {
		t.Parallel()
		adj, err := BuildAdjacency([]int{1, 2, math.MaxInt}, []int{2, 3, 1})

		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "too large")
		assert.Nil(t, adj)
	})

	t.Run("MaxIntTargetRejected", func(t *testing.T) {
		t.Parallel()
		_, err := BuildAdjacency([]int{1}, []int{math.MaxInt})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestBuildAdjacency_Invariants(t *testing.T) {
	t.Parallel()

	sources := []int{0, 1, 2, 3, 4, 5, 5, 6, 7, 2, 8, 8}
	targets := []int{1, 2, 0, 3, 5, 4, 6, 6, 2, 7, 8, 0}

	adj, err := BuildAdjacency(sources, targets)
	require.NoError(t, err)
	require.NoError(t, adj.Validate())

	for u := range adj {
		assert.NotContains(t, adj[u], u, "node %d must not neighbor itself", u)
		for v := range adj[u] {
			assert.Contains(t, adj[v], u, "edge %d-%d must be symmetric", u, v)
		}
	}
}

func TestFromEdges(t *testing.T) {
	t.Parallel()

	adj, err := FromEdges([]Edge{{Source: 2, Target: 3}, {Source: 3, Target: 4}})
	require.NoError(t, err)

	assert.Equal(t, 5, adj.Len())
	assert.Equal(t, 2, adj.EdgeCount())

	_, err = FromEdges(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWithSize(t *testing.T) {
	t.Parallel()

	adj := WithSize(3, []Edge{{Source: 0, Target: 1}, {Source: 1, Target: 5}})

	assert.Equal(t, 3, adj.Len())
	assert.Equal(t, []Edge{{Source: 0, Target: 1}}, adj.Edges())
}

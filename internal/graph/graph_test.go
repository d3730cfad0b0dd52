package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAdjacency(t *testing.T) {
	t.Parallel()

	t.Run("Sized", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(4)

		assert.Equal(t, 4, adj.Len())
		assert.Equal(t, 0, adj.EdgeCount())
		for u := range adj {
			assert.NotNil(t, adj[u])
			assert.Empty(t, adj[u])
		}
	})

	t.Run("NegativeSize", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(-3)

		assert.Equal(t, 0, adj.Len())
	})
}

func TestAdjacency_AddEdge(t *testing.T) {
	t.Parallel()

	t.Run("Symmetric", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(3)

		ok := adj.AddEdge(0, 2)

		assert.True(t, ok)
		assert.True(t, adj.HasEdge(0, 2))
		assert.True(t, adj.HasEdge(2, 0))
		assert.Equal(t, 1, adj.EdgeCount())
	})

	t.Run("SelfLoopDropped", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(3)

		ok := adj.AddEdge(1, 1)

		assert.False(t, ok)
		assert.False(t, adj.HasEdge(1, 1))
		assert.Empty(t, adj[1])
	})

	t.Run("OutOfRangeSkipped", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(3)

		assert.False(t, adj.AddEdge(1, 3))
		assert.False(t, adj.AddEdge(-1, 2))
		assert.Equal(t, 0, adj.EdgeCount())
	})

	t.Run("DuplicateIsIdempotent", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(3)

		adj.AddEdge(0, 1)
		before := adj.Edges()
		adj.AddEdge(1, 0)
		adj.AddEdge(0, 1)

		assert.Equal(t, before, adj.Edges())
		assert.Equal(t, 1, adj.Degree(0))
		assert.Equal(t, 1, adj.Degree(1))
	})
}

func TestAdjacency_Neighbors(t *testing.T) {
	t.Parallel()

	adj := NewAdjacency(5)
	adj.AddEdge(2, 4)
	adj.AddEdge(2, 0)
	adj.AddEdge(2, 3)

	assert.Equal(t, []int{0, 3, 4}, adj.Neighbors(2))
	assert.Equal(t, []int{2}, adj.Neighbors(4))
	assert.Empty(t, adj.Neighbors(1))
	assert.Nil(t, adj.Neighbors(7))
	assert.Equal(t, 0, adj.Degree(7))
}

func TestAdjacency_Edges(t *testing.T) {
	t.Parallel()

	adj := NewAdjacency(4)
	adj.AddEdge(3, 1)
	adj.AddEdge(0, 2)
	adj.AddEdge(1, 0)

	assert.Equal(t, []Edge{
		{Source: 0, Target: 1},
		{Source: 0, Target: 2},
		{Source: 1, Target: 3},
	}, adj.Edges())
}

func TestAdjacency_Validate(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(3)
		adj.AddEdge(0, 1)
		adj.AddEdge(1, 2)

		assert.NoError(t, adj.Validate())
	})

	t.Run("Asymmetric", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(3)
		adj[0][1] = struct{}{}

		assert.ErrorIs(t, adj.Validate(), ErrInvalidInput)
	})

	t.Run("SelfMembership", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(3)
		adj[2][2] = struct{}{}

		assert.ErrorIs(t, adj.Validate(), ErrInvalidInput)
	})

	t.Run("OutOfRangeNeighbor", func(t *testing.T) {
		t.Parallel()
		adj := NewAdjacency(2)
		adj[0][5] = struct{}{}

		assert.ErrorIs(t, adj.Validate(), ErrInvalidInput)
	})
}

package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	t.Parallel()

	t.Run("LoadsAndCaches", func(t *testing.T) {
		t.Parallel()
		path := writeEdgeList(t, "0,1\n1,2\n")
		src := NewFileSource(path)
		ctx := context.Background()

		first, err := src.LoadAdjacency(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, first.Len())

		second, err := src.LoadAdjacency(ctx)
		require.NoError(t, err)
		assert.Same(t, &first[0], &second[0], "unchanged file must not be reloaded")

		info, err := src.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, path, info.Source)
		assert.Equal(t, 3, info.Nodes)
		assert.Equal(t, 2, info.Edges)
		assert.Equal(t, path, src.Path())
	})

	t.Run("ReloadsOnChange", func(t *testing.T) {
		t.Parallel()
		path := writeEdgeList(t, "0,1\n")
		src := NewFileSource(path)
		ctx := context.Background()

		adj, err := src.LoadAdjacency(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, adj.Len())

		require.NoError(t, os.WriteFile(path, []byte("0,1\n1,2\n2,3\n"), 0o644))
		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(path, later, later))

		adj, err = src.LoadAdjacency(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, adj.Len())
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		src := NewFileSource(filepath.Join(t.TempDir(), "missing.csv"))

		_, err := src.LoadAdjacency(context.Background())
		var readErr *ReadError
		assert.ErrorAs(t, err, &readErr)

		_, err = src.Info(context.Background())
		assert.ErrorAs(t, err, &readErr)
	})
}

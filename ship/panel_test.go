package ship

import (
	"testing"

	"github.com/aukilabs/shipyard/collision"
	"github.com/stretchr/testify/require"
)

func TestTriangleCells(t *testing.T) {
	t.Run("single cell", func(t *testing.T) {
		cells := TriangleCells([3]collision.Cell{{}, {X: 1, Z: 1}, {Y: 1, Z: 1}})
		require.Equal(t, []collision.Cell{{}}, cells)
	})

	t.Run("larger triangle", func(t *testing.T) {
		cells := TriangleCells([3]collision.Cell{{}, {X: 2, Z: 2}, {Y: 2, Z: 2}})
		require.Contains(t, cells, collision.Cell{})
		require.Contains(t, cells, collision.Cell{Z: 1})
		require.NotContains(t, cells, collision.Cell{X: 1, Y: 1})
	})

	t.Run("flat triangle", func(t *testing.T) {
		cells := TriangleCells([3]collision.Cell{{}, {X: 2}, {Y: 2}})
		require.Empty(t, cells)
	})

	t.Run("collinear vertices", func(t *testing.T) {
		cells := TriangleCells([3]collision.Cell{{}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}})
		require.Empty(t, cells)
	})
}

func TestPanelDegenerate(t *testing.T) {
	require.True(t, Panel{Vertices: [3]collision.Cell{{}, {}, {X: 1}}}.Degenerate())
	require.False(t, Panel{Vertices: [3]collision.Cell{{}, {Y: 1}, {X: 1}}}.Degenerate())
}

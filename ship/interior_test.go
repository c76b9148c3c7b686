package ship

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shipyard/collision"
	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

// Three cells along x: a fuel cell at the origin then a two block cuboid.
func newTestInterior(t *testing.T, body *models.Body) *Interior {
	i := NewInterior(body)

	id, err := i.AddPart(FuelCell(), Layout{})
	require.NoError(t, err)
	require.Equal(t, 1, id)

	id, err = i.AddPart(Cuboid(2, 1, 1), Layout{X: 2})
	require.NoError(t, err)
	require.Equal(t, 2, id)
	return i
}

func TestInteriorParts(t *testing.T) {
	t.Run("placing", func(t *testing.T) {
		i := newTestInterior(t, nil)

		id, ok := i.Occupant(collision.Cell{X: 1})
		require.True(t, ok)
		require.Equal(t, 2, id)

		_, ok = i.Occupant(collision.Cell{X: 3})
		require.False(t, ok)

		parts := i.Parts()
		require.Len(t, parts, 2)
		require.Equal(t, 1, parts[0].ID)
		require.Equal(t, "box", parts[1].Part.Model())
	})

	t.Run("blocked placement", func(t *testing.T) {
		i := newTestInterior(t, nil)

		require.False(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 1}))
		_, err := i.AddPart(Cuboid(2, 1, 1), Layout{X: 1})
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypePlacementBlocked))
		require.Len(t, i.Parts(), 2)
	})

	t.Run("removing reuses ids", func(t *testing.T) {
		i := newTestInterior(t, nil)

		require.True(t, i.RemovePart(1))
		require.False(t, i.RemovePart(1))
		_, ok := i.Occupant(collision.Cell{})
		require.False(t, ok)

		id, err := i.AddPart(Tank(2), Layout{Z: 5})
		require.NoError(t, err)
		require.Equal(t, 1, id)

		p, ok := i.Part(1)
		require.True(t, ok)
		require.Equal(t, "tank", p.Part.Model())
	})

	t.Run("closing drops the part gauge", func(t *testing.T) {
		i := newTestInterior(t, nil)

		i.Close()
		require.False(t, partCount.DeleteLabelValues(i.ID))
		require.Len(t, i.Parts(), 2)
	})
}

func TestInteriorExactBoxTest(t *testing.T) {
	corner := BlockPart{
		Name:    "corner",
		Offsets: []Layout{{}, {X: 1}, {Y: 1}},
	}

	t.Run("part boxes block placement", func(t *testing.T) {
		i := NewInterior(nil)
		i.ExactBoxTest = true
		_, err := i.AddPart(corner, Layout{})
		require.NoError(t, err)

		require.False(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 1, Y: 1}))
		require.True(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 2}))
	})

	t.Run("grid only", func(t *testing.T) {
		i := NewInterior(nil)
		_, err := i.AddPart(corner, Layout{})
		require.NoError(t, err)

		require.True(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 1, Y: 1}))
	})

	t.Run("configured after placing", func(t *testing.T) {
		i := NewInterior(nil)
		_, err := i.AddPart(corner, Layout{})
		require.NoError(t, err)

		i.Configure(true, false)
		require.False(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 1, Y: 1}))

		i.Configure(true, true)
		require.True(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 1, Y: 1}))
	})

	t.Run("without tree", func(t *testing.T) {
		i := NewInterior(nil)
		i.ExactBoxTest = true
		i.SkipTreeRebuild = true
		_, err := i.AddPart(corner, Layout{})
		require.NoError(t, err)

		require.True(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 1, Y: 1}))
	})
}

func TestInteriorPanels(t *testing.T) {
	i := newTestInterior(t, nil)

	id, err := i.AddPanel(Panel{Vertices: [3]collision.Cell{
		{X: 5, Y: 5, Z: 5},
		{X: 6, Y: 5, Z: 6},
		{X: 5, Y: 6, Z: 6},
	}})
	require.NoError(t, err)
	require.Equal(t, 3, id)

	occupant, ok := i.Occupant(collision.Cell{X: 5, Y: 5, Z: 5})
	require.True(t, ok)
	require.Equal(t, id, occupant)
	require.False(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 5, Y: 5, Z: 5}))

	require.True(t, i.RemovePanel(id))
	require.False(t, i.RemovePanel(id))
	require.True(t, i.IsNewPartAllowed(FuelCell(), Layout{X: 5, Y: 5, Z: 5}))

	_, err = i.AddPanel(Panel{})
	require.True(t, errors.IsType(err, ErrTypeInvalidPanel))
}

func TestInteriorPickCell(t *testing.T) {
	t.Run("from the low side", func(t *testing.T) {
		i := newTestInterior(t, nil)

		c, id, ok := i.PickCell(collision.Ray(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}))
		require.True(t, ok)
		require.Equal(t, collision.Cell{}, c)
		require.Equal(t, 1, id)
	})

	t.Run("from the high side", func(t *testing.T) {
		i := newTestInterior(t, nil)

		c, id, ok := i.PickCell(collision.Ray(mgl64.Vec3{10, 0.5, 0.5}, mgl64.Vec3{-1, 0, 0}))
		require.True(t, ok)
		require.Equal(t, collision.Cell{X: 2}, c)
		require.Equal(t, 2, id)
	})

	t.Run("moved ship", func(t *testing.T) {
		body := models.NewBody(models.Pose{Position: mgl64.Vec3{0, 0, 10}})
		i := newTestInterior(t, body)

		c, id, ok := i.PickCell(collision.Ray(mgl64.Vec3{-5, 0.5, 10.5}, mgl64.Vec3{1, 0, 0}))
		require.True(t, ok)
		require.Equal(t, collision.Cell{}, c)
		require.Equal(t, 1, id)
	})

	t.Run("miss", func(t *testing.T) {
		i := newTestInterior(t, nil)

		_, _, ok := i.PickCell(collision.Ray(mgl64.Vec3{-5, 3.5, 0.5}, mgl64.Vec3{1, 0, 0}))
		require.False(t, ok)
	})

	t.Run("corner", func(t *testing.T) {
		i := newTestInterior(t, nil)

		c, ok := i.Corner(collision.Ray(mgl64.Vec3{-5, 0.4, 0.4}, mgl64.Vec3{1, 0, 0}))
		require.True(t, ok)
		require.Equal(t, collision.Cell{}, c)
	})
}

func TestInteriorPlacementCell(t *testing.T) {
	i := newTestInterior(t, nil)

	t.Run("looking along x", func(t *testing.T) {
		c, ok := i.PlacementCell(mgl64.Vec3{-3, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}, PlacementReach)
		require.True(t, ok)
		require.Equal(t, collision.Cell{X: -1}, c)
		require.True(t, i.IsNewPartAllowed(FuelCell(), At(c)))
	})

	t.Run("looking against x", func(t *testing.T) {
		c, ok := i.PlacementCell(mgl64.Vec3{6, 0.5, 0.5}, mgl64.Vec3{-1, 0, 0}, PlacementReach)
		require.True(t, ok)
		require.Equal(t, collision.Cell{X: 3}, c)
	})

	t.Run("out of reach", func(t *testing.T) {
		_, ok := i.PlacementCell(mgl64.Vec3{-10, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}, PlacementReach)
		require.False(t, ok)
	})
}

func TestInteriorOverlaps(t *testing.T) {
	a := NewInterior(nil)
	_, err := a.AddPart(FuelCell(), Layout{})
	require.NoError(t, err)

	b := NewInterior(models.NewBody(models.Pose{Position: mgl64.Vec3{0.5, 0.5, 0.5}}))
	_, err = b.AddPart(FuelCell(), Layout{})
	require.NoError(t, err)

	c := NewInterior(models.NewBody(models.Pose{Position: mgl64.Vec3{5, 0, 0}}))
	_, err = c.AddPart(FuelCell(), Layout{})
	require.NoError(t, err)

	require.True(t, a.Overlaps(b))
	require.True(t, b.Overlaps(a))
	require.False(t, a.Overlaps(c))
	require.True(t, a.Overlaps(a))
	require.False(t, NewInterior(nil).Overlaps(a))
}

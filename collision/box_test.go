package collision

import (
	"testing"

	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

var unitBox = Box{Dimensions: mgl64.Vec3{1, 1, 1}}

func requireVec(t *testing.T, expected, actual mgl64.Vec3) {
	t.Helper()
	require.True(t, expected.ApproxEqualThreshold(actual, 1e-9), "expected %v, got %v", expected, actual)
}

func TestBoxCheckPoint(t *testing.T) {
	t.Run("center of a unit box", func(t *testing.T) {
		r := unitBox.CheckPoint(mgl64.Vec3{0.5, 0.5, 0.5})
		require.True(t, r.Collision())
		require.Equal(t, 1, r.Len())
		require.InDelta(t, 0.5, r.Depths[0].Len(), 1e-12)
		requireVec(t, mgl64.Vec3{-0.5, 0, 0}, r.Depths[0])
		requireVec(t, mgl64.Vec3{0.25, 0.5, 0.5}, r.Positions[0])
	})

	t.Run("depth goes to the nearest face", func(t *testing.T) {
		r := unitBox.CheckPoint(mgl64.Vec3{0.5, 0.9, 0.5})
		require.True(t, r.Collision())
		requireVec(t, mgl64.Vec3{0, 0.1, 0}, r.Depths[0])
		requireVec(t, mgl64.Vec3{0.5, 0.95, 0.5}, r.Positions[0])
	})

	t.Run("outside or on the boundary", func(t *testing.T) {
		points := []mgl64.Vec3{
			{-0.1, 0.5, 0.5},
			{1, 0.5, 0.5},
			{0.5, 1.2, 0.5},
			{0.5, 0.5, -3},
			{0, 0.5, 0.5},
		}
		for _, p := range points {
			require.False(t, unitBox.CheckPoint(p).Collision(), "%v", p)
		}
	})

	t.Run("box away from the origin", func(t *testing.T) {
		b := Box{Corner: mgl64.Vec3{2, 2, 2}, Dimensions: mgl64.Vec3{1, 2, 3}}
		require.True(t, b.CheckPoint(mgl64.Vec3{2.5, 3, 4}).Collision())
		require.False(t, b.CheckPoint(mgl64.Vec3{0.5, 0.5, 0.5}).Collision())
	})
}

func TestBoxCheckRay(t *testing.T) {
	t.Run("ray entering through the low x face", func(t *testing.T) {
		r := unitBox.CheckRay(Ray(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}))
		require.True(t, r.Collision())
		require.Equal(t, 1, r.Len())
		requireVec(t, mgl64.Vec3{0, 0.5, 0.5}, r.Positions[0])
		requireVec(t, mgl64.Vec3{-1, 0, 0}, r.Depths[0])
	})

	t.Run("ray pointing away", func(t *testing.T) {
		r := unitBox.CheckRay(Ray(mgl64.Vec3{5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}))
		require.False(t, r.Collision())
	})

	t.Run("ray entering through the high y face", func(t *testing.T) {
		r := unitBox.CheckRay(Ray(mgl64.Vec3{0.5, 4, 0.5}, mgl64.Vec3{0, -2, 0}))
		require.True(t, r.Collision())
		requireVec(t, mgl64.Vec3{0.5, 1, 0.5}, r.Positions[0])
		requireVec(t, mgl64.Vec3{0, 1, 0}, r.Depths[0])
	})

	t.Run("segment too short", func(t *testing.T) {
		r := unitBox.CheckRay(Segment(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{4, 0, 0}))
		require.False(t, r.Collision())
	})

	t.Run("segment ending inside", func(t *testing.T) {
		r := unitBox.CheckRay(Segment(mgl64.Vec3{-1, 0.5, 0.5}, mgl64.Vec3{1.25, 0, 0}))
		require.True(t, r.Collision())
		requireVec(t, mgl64.Vec3{0, 0.5, 0.5}, r.Positions[0])
		requireVec(t, mgl64.Vec3{-0.25, 0, 0}, r.Depths[0])
	})

	t.Run("segment starting inside", func(t *testing.T) {
		r := unitBox.CheckRay(Ray(mgl64.Vec3{0.5, 0.5, 0.2}, mgl64.Vec3{1, 0, 0}))
		require.True(t, r.Collision())
		requireVec(t, mgl64.Vec3{0.5, 0.5, 0.2}, r.Positions[0])
		requireVec(t, mgl64.Vec3{0, 0, -0.2}, r.Depths[0])
	})

	t.Run("ray passing beside the box", func(t *testing.T) {
		r := unitBox.CheckRay(Ray(mgl64.Vec3{-5, 2, 0.5}, mgl64.Vec3{1, 0, 0}))
		require.False(t, r.Collision())
	})

	t.Run("zero direction behaves like a point", func(t *testing.T) {
		require.True(t, unitBox.CheckRay(Ray(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{})).Collision())
		require.False(t, unitBox.CheckRay(Ray(mgl64.Vec3{5, 0.5, 0.5}, mgl64.Vec3{})).Collision())
	})
}

func TestBoxCheckLine(t *testing.T) {
	t.Run("line through the box", func(t *testing.T) {
		r := unitBox.CheckLine(Segment(mgl64.Vec3{-1, 0.5, 0.3}, mgl64.Vec3{3, 0, 0}))
		require.True(t, r.Collision())
		require.InDelta(t, 0.5, r.Depths[0].Len(), 1e-9)
		require.True(t, unitBox.Contains(r.Positions[0]))
	})

	t.Run("diagonal line through a corner region", func(t *testing.T) {
		r := unitBox.CheckLine(Segment(mgl64.Vec3{0.5, -0.3, 0.1}, mgl64.Vec3{1, 1, 0}))
		require.True(t, r.Collision())
		requireVec(t, mgl64.Vec3{0.1, -0.1, 0}, r.Depths[0])
		requireVec(t, mgl64.Vec3{0.9, 0.1, 0.1}, r.Positions[0])
	})

	t.Run("line missing the box", func(t *testing.T) {
		r := unitBox.CheckLine(Segment(mgl64.Vec3{-1, 2, 0.5}, mgl64.Vec3{3, 0, 0}))
		require.False(t, r.Collision())
	})

	t.Run("line lying on a face", func(t *testing.T) {
		r := unitBox.CheckLine(Segment(mgl64.Vec3{-1, 0, 0.5}, mgl64.Vec3{3, 0, 0}))
		require.False(t, r.Collision())
	})

	t.Run("segment stopping before the box", func(t *testing.T) {
		r := unitBox.CheckLine(Segment(mgl64.Vec3{-3, 0.5, 0.5}, mgl64.Vec3{2, 0, 0}))
		require.False(t, r.Collision())
	})
}

func TestBoxCheckBox(t *testing.T) {
	t.Run("corner overlap", func(t *testing.T) {
		other := models.NewBody(models.Pose{Position: mgl64.Vec3{0.5, 0.5, 0.5}})
		r := unitBox.CheckBox(nil, unitBox, other)
		require.True(t, r.Collision())
	})

	t.Run("identical boxes", func(t *testing.T) {
		require.True(t, unitBox.CheckBox(nil, unitBox, nil).Collision())
	})

	t.Run("far apart", func(t *testing.T) {
		other := models.NewBody(models.Pose{Position: mgl64.Vec3{3, 0, 0}})
		require.False(t, unitBox.CheckBox(nil, unitBox, other).Collision())
	})

	t.Run("face aligned overlap is missed by sampling", func(t *testing.T) {
		other := models.NewBody(models.Pose{Position: mgl64.Vec3{0.5, 0, 0}})
		require.False(t, unitBox.CheckBox(nil, unitBox, other).Collision())
		require.True(t, unitBox.CheckBoxExact(nil, unitBox, other).Collision())
	})
}

func TestBoxPointsAndEdges(t *testing.T) {
	b := Box{Corner: mgl64.Vec3{1, 2, 3}, Dimensions: mgl64.Vec3{2, 3, 4}}

	points := b.Points()
	seen := map[mgl64.Vec3]bool{}
	for _, p := range points {
		require.True(t, b.Contains(p))
		seen[p] = true
	}
	require.Len(t, seen, 8)
	require.True(t, seen[b.Corner])
	require.True(t, seen[b.Max()])

	lengths := map[float64]int{}
	for _, e := range b.Edges() {
		require.True(t, b.Contains(e.At(0)))
		require.True(t, b.Contains(e.At(1)))
		lengths[e.V.Len()]++
	}
	require.Equal(t, map[float64]int{2: 4, 3: 4, 4: 4}, lengths)
}

func TestSuperbox(t *testing.T) {
	t.Run("tiling boxes are full", func(t *testing.T) {
		box, full := Superbox([]Box{
			unitBox,
			{Corner: mgl64.Vec3{1, 0, 0}, Dimensions: mgl64.Vec3{1, 1, 1}},
		})
		require.True(t, full)
		require.Equal(t, mgl64.Vec3{}, box.Corner)
		require.Equal(t, mgl64.Vec3{2, 1, 1}, box.Dimensions)
	})

	t.Run("gap", func(t *testing.T) {
		box, full := Superbox([]Box{
			unitBox,
			{Corner: mgl64.Vec3{2, 0, 0}, Dimensions: mgl64.Vec3{1, 1, 1}},
		})
		require.False(t, full)
		require.Equal(t, mgl64.Vec3{3, 1, 1}, box.Dimensions)
	})

	t.Run("empty list panics", func(t *testing.T) {
		require.Panics(t, func() { Superbox(nil) })
	})
}

func TestSubdivide(t *testing.T) {
	row := func(n int) []Box {
		boxes := make([]Box, n)
		for i := range boxes {
			boxes[i] = UnitBox(Cell{X: i})
		}
		return boxes
	}

	t.Run("two boxes split one one", func(t *testing.T) {
		left, right := Subdivide(row(2))
		require.Len(t, left, 1)
		require.Len(t, right, 1)
	})

	t.Run("split along the spread axis", func(t *testing.T) {
		left, right := Subdivide(row(4))
		require.Equal(t, []Box{UnitBox(Cell{X: 2}), UnitBox(Cell{X: 3})}, left)
		require.Equal(t, []Box{UnitBox(Cell{X: 0}), UnitBox(Cell{X: 1})}, right)
	})

	t.Run("equal centers still split", func(t *testing.T) {
		left, right := Subdivide([]Box{unitBox, unitBox, unitBox})
		require.Len(t, left, 1)
		require.Len(t, right, 2)
	})

	t.Run("less than two boxes panics", func(t *testing.T) {
		require.Panics(t, func() { Subdivide([]Box{unitBox}) })
	})
}

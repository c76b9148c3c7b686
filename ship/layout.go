package ship

import (
	"math"

	"github.com/aukilabs/shipyard/collision"
	"github.com/aukilabs/shipyard/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

// Layout is the placement of a part, or of a block within a part, on the
// ship lattice.
type Layout struct {
	X           int                     `json:"x"`
	Y           int                     `json:"y"`
	Z           int                     `json:"z"`
	Orientation orientation.Orientation `json:"orientation"`
}

// At returns the identity layout at the given cell.
func At(c collision.Cell) Layout {
	return Layout{X: c.X, Y: c.Y, Z: c.Z}
}

// Place moves a layout expressed relative to a part origin onto the ship: the
// offset is rotated by the part orientation and translated to the part
// position, and both orientations are composed.
func (l Layout) Place(at Layout) Layout {
	x, y, z := at.Orientation.RotateInteger(l.X, l.Y, l.Z)
	return Layout{
		X:           at.X + x,
		Y:           at.Y + y,
		Z:           at.Z + z,
		Orientation: orientation.Compose(at.Orientation, l.Orientation),
	}
}

// Add translates by o and composes the orientations without rotating the
// offset.
func (l Layout) Add(o Layout) Layout {
	return Layout{
		X:           l.X + o.X,
		Y:           l.Y + o.Y,
		Z:           l.Z + o.Z,
		Orientation: orientation.Compose(l.Orientation, o.Orientation),
	}
}

func (l Layout) Cell() collision.Cell {
	return collision.Cell{X: l.X, Y: l.Y, Z: l.Z}
}

// Physical returns the position and rotation of the layout in the ship frame.
func (l Layout) Physical() (mgl64.Vec3, mgl64.Quat) {
	return l.Cell().Vec3(), l.Orientation.Quat()
}

// GridShrink snaps a point to a cell corner, rounding each coordinate down
// when looking along the positive axis and up otherwise.
func GridShrink(v, forward mgl64.Vec3) mgl64.Vec3 {
	for a := 0; a < 3; a++ {
		if forward[a] > 0 {
			v[a] = math.Floor(v[a])
		} else {
			v[a] = math.Ceil(v[a])
		}
	}
	return v
}

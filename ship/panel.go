package ship

import (
	"github.com/aukilabs/shipyard/collision"
	"github.com/go-gl/mathgl/mgl64"
)

// Panel is a flat triangular hull plate spanning three lattice points.
type Panel struct {
	Vertices [3]collision.Cell `json:"vertices"`
	Model    string            `json:"model"`
}

// Degenerate reports whether two vertices of the panel are the same.
func (p Panel) Degenerate() bool {
	v := p.Vertices
	return v[0] == v[1] || v[0] == v[2] || v[1] == v[2]
}

func (p Panel) Cells() []collision.Cell {
	return TriangleCells(p.Vertices)
}

// TriangleCells returns the cells crossed by a triangle, labeled by their
// lowest corner. A cell is crossed when its corners lie on both sides of the
// triangle plane and, on each of the three axis projections, one of its
// corners falls inside the projected triangle. Triangles lying on a lattice
// plane cross no cell.
func TriangleCells(vertices [3]collision.Cell) []collision.Cell {
	min, max := vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		min.X, max.X = intMin(min.X, v.X), intMax(max.X, v.X)
		min.Y, max.Y = intMin(min.Y, v.Y), intMax(max.Y, v.Y)
		min.Z, max.Z = intMin(min.Z, v.Z), intMax(max.Z, v.Z)
	}

	origin := vertices[0].Vec3()
	normal := vertices[1].Vec3().Sub(origin).Cross(vertices[2].Vec3().Sub(origin))
	d := normal.Dot(origin)

	type corner struct {
		side     int
		inside   [3]bool
		computed bool
	}
	nx, ny, nz := max.X-min.X+1, max.Y-min.Y+1, max.Z-min.Z+1
	corners := make([]corner, nx*ny*nz)

	lattice := func(c collision.Cell) corner {
		i := (c.X - min.X) + (c.Y-min.Y)*nx + (c.Z-min.Z)*nx*ny
		if corners[i].computed {
			return corners[i]
		}

		height := normal.Dot(c.Vec3()) - d
		switch {
		case height < -1e-8:
			corners[i].side = -1
		case height > 1e-8:
			corners[i].side = 1
		}
		corners[i].inside = [3]bool{
			insideProjection(vertices, c, 2, 1),
			insideProjection(vertices, c, 2, 0),
			insideProjection(vertices, c, 0, 1),
		}
		corners[i].computed = true
		return corners[i]
	}

	var cells []collision.Cell
	for x := min.X; x < max.X; x++ {
		for y := min.Y; y < max.Y; y++ {
			for z := min.Z; z < max.Z; z++ {
				var above, below bool
				var inside [3]bool
				for i := 0; i < 8; i++ {
					c := lattice(collision.Cell{X: x + i&1, Y: y + (i>>1)&1, Z: z + (i>>2)&1})
					above = above || c.side == 1
					below = below || c.side == -1
					for a := range inside {
						inside[a] = inside[a] || c.inside[a]
					}
				}

				if above && below && inside[0] && inside[1] && inside[2] {
					cells = append(cells, collision.Cell{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return cells
}

// insideProjection reports whether c falls inside the triangle once both are
// projected on the plane of axes u and v, boundary included.
func insideProjection(vertices [3]collision.Cell, c collision.Cell, u, v int) bool {
	var positive, negative bool
	for i := range vertices {
		a, b := vertices[i], vertices[(i+1)%3]
		edge := mgl64.Vec2{coord(b, u) - coord(a, u), coord(b, v) - coord(a, v)}
		to := mgl64.Vec2{coord(c, u) - coord(a, u), coord(c, v) - coord(a, v)}

		cross := edge[0]*to[1] - edge[1]*to[0]
		positive = positive || cross > 0
		negative = negative || cross < 0
	}
	return !(positive && negative)
}

func coord(c collision.Cell, axis int) float64 {
	switch axis {
	case 0:
		return float64(c.X)
	case 1:
		return float64(c.Y)
	default:
		return float64(c.Z)
	}
}

package ship

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shipyard/collision"
	"github.com/aukilabs/shipyard/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

// Part is something that can be placed in a ship interior.
type Part interface {
	// The model name of the part.
	Model() string

	// The blocks the part is made of once placed at the given layout.
	Blocks(at Layout) []Layout
}

// BlockPart is a part made of unit blocks laid out around the part origin.
type BlockPart struct {
	Name    string   `json:"name"`
	Offsets []Layout `json:"offsets"`
}

func (p BlockPart) Model() string {
	return p.Name
}

func (p BlockPart) Blocks(at Layout) []Layout {
	blocks := make([]Layout, len(p.Offsets))
	for i, o := range p.Offsets {
		blocks[i] = o.Place(at)
	}
	return blocks
}

// Half turn around x, used to flip the first cap of a tank.
var flipped = orientation.FromQuat(mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0}))

// Tank returns a tank of the given length along z, centered on the origin,
// with a cap at each end.
func Tank(length int) BlockPart {
	if length < 2 {
		panic(errors.New("tank shorter than two blocks").
			WithTag("length", length))
	}

	z0 := -length / 2
	offsets := make([]Layout, 0, length)
	offsets = append(offsets, Layout{Z: z0, Orientation: flipped})
	for i := 1; i < length; i++ {
		offsets = append(offsets, Layout{Z: z0 + i})
	}

	return BlockPart{
		Name:    "tank",
		Offsets: offsets,
	}
}

// Cuboid returns a solid box of blocks centered on the origin.
func Cuboid(length, width, height int) BlockPart {
	if length < 1 || width < 1 || height < 1 {
		panic(errors.New("cuboid with an empty side").
			WithTag("length", length).
			WithTag("width", width).
			WithTag("height", height))
	}

	x0, y0, z0 := -length/2, -width/2, -height/2
	offsets := make([]Layout, 0, length*width*height)
	for i := 0; i < length; i++ {
		for j := 0; j < width; j++ {
			for k := 0; k < height; k++ {
				offsets = append(offsets, Layout{X: x0 + i, Y: y0 + j, Z: z0 + k})
			}
		}
	}

	return BlockPart{
		Name:    "box",
		Offsets: offsets,
	}
}

func FuelCell() BlockPart {
	return BlockPart{
		Name:    "fuel_cell",
		Offsets: []Layout{{}},
	}
}

// Cells returns the cells occupied by a part placed at the given layout.
func Cells(p Part, at Layout) []collision.Cell {
	blocks := p.Blocks(at)
	cells := make([]collision.Cell, len(blocks))
	for i, b := range blocks {
		cells[i] = b.Cell()
	}
	return cells
}

// BoundingBox returns the inclusive range of cells covered by a part placed
// at the given layout.
func BoundingBox(p Part, at Layout) (min, max collision.Cell) {
	cells := Cells(p, at)
	if len(cells) == 0 {
		return at.Cell(), at.Cell()
	}

	min, max = cells[0], cells[0]
	for _, c := range cells[1:] {
		min.X, max.X = intMin(min.X, c.X), intMax(max.X, c.X)
		min.Y, max.Y = intMin(min.Y, c.Y), intMax(max.Y, c.Y)
		min.Z, max.Z = intMin(min.Z, c.Z), intMax(max.Z, c.Z)
	}
	return min, max
}

// Box returns the collision box covering the cells of a placed part.
func Box(p Part, at Layout) collision.Box {
	min, max := BoundingBox(p, at)
	return collision.Box{
		Corner: min.Vec3(),
		Dimensions: mgl64.Vec3{
			float64(max.X - min.X + 1),
			float64(max.Y - min.Y + 1),
			float64(max.Z - min.Z + 1),
		},
	}
}

func intMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func intMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

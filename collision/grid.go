package collision

import (
	"iter"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
)

// Empty is the value of a grid cell that has no occupant.
const Empty = -1

// Cell is an integer grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

func (c Cell) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(c.X), float64(c.Y), float64(c.Z)}
}

// Center returns the center of the unit cube of the cell.
func (c Cell) Center() mgl64.Vec3 {
	return c.Vec3().Add(mgl64.Vec3{0.5, 0.5, 0.5})
}

// Grid is a dense voxel grid that grows on demand. Cells hold an occupant id
// or Empty. A cell c is stored at (c.X+cx) + (c.Y+cy)*x + (c.Z+cz)*x*y.
type Grid struct {
	cells      []int
	x, y, z    int
	cx, cy, cz int

	tree *Tree
}

func NewGrid() *Grid {
	return &Grid{}
}

func (g *Grid) kind() Kind {
	return KindGrid
}

// Bounds returns the size of the backing array on each axis.
func (g *Grid) Bounds() (x, y, z int) {
	return g.x, g.y, g.z
}

// Offset returns the translation from grid coordinates to array coordinates.
func (g *Grid) Offset() (cx, cy, cz int) {
	return g.cx, g.cy, g.cz
}

// Min returns the lowest grid coordinate covered by the grid.
func (g *Grid) Min() Cell {
	return Cell{X: -g.cx, Y: -g.cy, Z: -g.cz}
}

// Max returns the grid coordinate just past the highest covered cell.
func (g *Grid) Max() Cell {
	return Cell{X: g.x - g.cx, Y: g.y - g.cy, Z: g.z - g.cz}
}

// Box returns the region covered by the grid.
func (g *Grid) Box() Box {
	return Box{
		Corner:     g.Min().Vec3(),
		Dimensions: mgl64.Vec3{float64(g.x), float64(g.y), float64(g.z)},
	}
}

func (g *Grid) Len() int {
	return len(g.cells)
}

func (g *Grid) index(c Cell) (int, bool) {
	x, y, z := c.X+g.cx, c.Y+g.cy, c.Z+g.cz
	if x < 0 || x >= g.x || y < 0 || y >= g.y || z < 0 || z >= g.z {
		return 0, false
	}
	return x + y*g.x + z*g.x*g.y, true
}

// Get returns the occupant of a cell. Cells outside the grid are Empty.
func (g *Grid) Get(c Cell) int {
	i, ok := g.index(c)
	if !ok {
		return Empty
	}
	return g.cells[i]
}

// Set writes a single cell. The cell must be inside the grid.
func (g *Grid) Set(c Cell, id int) {
	i, ok := g.index(c)
	if !ok {
		panic(errors.New("grid cell out of bounds").
			WithTag("cell", c).
			WithTag("min", g.Min()).
			WithTag("max", g.Max()))
	}
	g.cells[i] = id
	g.tree = nil
}

// Reshape reallocates the grid with new bounds and offset, keeping every
// occupant at its grid coordinate. The new bounds must cover all occupants.
func (g *Grid) Reshape(x, y, z, cx, cy, cz int) {
	if x < 0 || y < 0 || z < 0 {
		panic(errors.New("negative grid bounds").
			WithTag("x", x).
			WithTag("y", y).
			WithTag("z", z))
	}

	reshaped := &Grid{
		cells: make([]int, x*y*z),
		x:     x,
		y:     y,
		z:     z,
		cx:    cx,
		cy:    cy,
		cz:    cz,
	}
	for i := range reshaped.cells {
		reshaped.cells[i] = Empty
	}

	for c, id := range g.Cells() {
		if id == Empty {
			continue
		}
		reshaped.Set(c, id)
	}

	logs.WithTag("from", [3]int{g.x, g.y, g.z}).
		WithTag("to", [3]int{x, y, z}).
		WithTag("offset", [3]int{cx, cy, cz}).
		Debug("grid reshaped")

	g.cells = reshaped.cells
	g.x, g.y, g.z = x, y, z
	g.cx, g.cy, g.cz = cx, cy, cz
	g.tree = nil
	instrumentGridReshape(g)
}

// Fit grows the grid until it covers the inclusive range of cells [min, max].
// It returns whether the grid had to be reshaped.
func (g *Grid) Fit(min, max Cell) bool {
	if len(g.cells) == 0 {
		g.Reshape(max.X-min.X+1, max.Y-min.Y+1, max.Z-min.Z+1, -min.X, -min.Y, -min.Z)
		return true
	}

	lo := Cell{
		X: intMin(min.X+g.cx, 0),
		Y: intMin(min.Y+g.cy, 0),
		Z: intMin(min.Z+g.cz, 0),
	}
	hi := Cell{
		X: intMax(max.X+g.cx, g.x-1),
		Y: intMax(max.Y+g.cy, g.y-1),
		Z: intMax(max.Z+g.cz, g.z-1),
	}
	if lo == (Cell{}) && hi == (Cell{X: g.x - 1, Y: g.y - 1, Z: g.z - 1}) {
		return false
	}

	g.Reshape(
		hi.X-lo.X+1,
		hi.Y-lo.Y+1,
		hi.Z-lo.Z+1,
		g.cx-lo.X,
		g.cy-lo.Y,
		g.cz-lo.Z,
	)
	return true
}

// Insert writes id into every given cell, growing the grid first when a cell
// falls outside of it.
func (g *Grid) Insert(cells []Cell, id int) {
	if len(cells) == 0 {
		return
	}

	min, max := cells[0], cells[0]
	for _, c := range cells[1:] {
		min = Cell{X: intMin(min.X, c.X), Y: intMin(min.Y, c.Y), Z: intMin(min.Z, c.Z)}
		max = Cell{X: intMax(max.X, c.X), Y: intMax(max.Y, c.Y), Z: intMax(max.Z, c.Z)}
	}
	g.Fit(min, max)

	for _, c := range cells {
		g.Set(c, id)
	}
}

// Clear empties the given cells and returns how many were occupied. The grid
// never shrinks.
func (g *Grid) Clear(cells []Cell) int {
	cleared := 0
	for _, c := range cells {
		i, ok := g.index(c)
		if !ok || g.cells[i] == Empty {
			continue
		}
		g.cells[i] = Empty
		cleared++
	}
	if cleared != 0 {
		g.tree = nil
	}
	return cleared
}

// Occupied returns the number of non empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, id := range g.cells {
		if id != Empty {
			n++
		}
	}
	return n
}

// Cells iterates over every backing cell, empty ones included, with its grid
// coordinate.
func (g *Grid) Cells() iter.Seq2[Cell, int] {
	return func(yield func(Cell, int) bool) {
		for i, id := range g.cells {
			c := Cell{
				X: i%g.x - g.cx,
				Y: (i/g.x)%g.y - g.cy,
				Z: i/(g.x*g.y) - g.cz,
			}
			if !yield(c, id) {
				return
			}
		}
	}
}

// Tree returns a box tree of the occupied cells, one unit box per cell with
// the cell occupant as leaf id. It is rebuilt after any change to the grid.
// It returns nil when the grid is empty.
func (g *Grid) Tree() *Tree {
	if g.tree != nil {
		return g.tree
	}

	var boxes []Box
	var ids []int
	for c, id := range g.Cells() {
		if id == Empty {
			continue
		}
		boxes = append(boxes, UnitBox(c))
		ids = append(ids, id)
	}
	if len(boxes) == 0 {
		return nil
	}

	g.tree = NewTreeWithIDs(boxes, ids)
	return g.tree
}

// CheckPoint reports the occupant of the cell containing p. The report has
// a zero depth and p as position.
func (g *Grid) CheckPoint(p mgl64.Vec3) Report {
	id := g.Get(floorVec(p))
	if id == Empty {
		return NoCollision()
	}

	r := NewReport(mgl64.Vec3{}, p)
	r.Occupants = []int{id}
	return r
}

// CheckLine walks the cells crossed by the line, clipped to the grid, and
// reports the first occupied cell the line actually enters.
//
// The walk is driven by the axis with the largest displacement. Each step
// moves one cell along the driving axis. The two other axes keep the line
// parameter at which they cross their next cell boundary and step whenever
// that comes before the next driving boundary.
func (g *Grid) CheckLine(l Line) Report {
	if len(g.cells) == 0 {
		return NoCollision()
	}
	if l.Degenerate() {
		if l.Start <= 0 && l.Stop >= 0 {
			return g.CheckPoint(l.P)
		}
		return NoCollision()
	}

	bounds := g.Box()
	max := bounds.Max()
	lo, hi := l.Start, l.Stop
	for a := 0; a < 3; a++ {
		var ok bool
		if lo, hi, ok = slab(l.P[a], l.V[a], bounds.Corner[a], max[a], lo, hi); !ok {
			return NoCollision()
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return NoCollision()
	}

	from := l.At(lo)
	delta := l.At(hi).Sub(from)
	segment := Segment(from, delta)

	cell := g.clamp(floorVec(from))
	last := g.clamp(floorVec(from.Add(delta)))

	var step [3]int
	var next, span [3]float64
	for a := 0; a < 3; a++ {
		next[a], span[a] = math.Inf(1), math.Inf(1)
		if math.Abs(delta[a]) < PlaneEpsilon {
			continue
		}

		step[a] = 1
		boundary := float64(cellAxis(cell, a) + 1)
		if delta[a] < 0 {
			step[a] = -1
			boundary = float64(cellAxis(cell, a))
		}
		next[a] = (boundary - from[a]) / delta[a]
		span[a] = 1 / math.Abs(delta[a])
	}

	driving := largestAxis(delta)
	i, j := (driving+1)%3, (driving+2)%3
	limit := (g.x + g.y + g.z) * 2

	visit := func(c Cell) (Report, bool) {
		id := g.Get(c)
		if id == Empty {
			return Report{}, false
		}
		r := UnitBox(c).CheckRay(segment)
		if !r.Collision() {
			return Report{}, false
		}
		return r.withOccupant(id), true
	}

	for n := 0; n < limit; n++ {
		if r, ok := visit(cell); ok {
			return r
		}
		if cell == last {
			break
		}

		// Minor axes crossing before the next driving boundary.
		for m := 0; m < 2; m++ {
			a := i
			if next[j] < next[i] {
				a = j
			}
			if next[a] >= next[driving] || next[a] > 1 {
				break
			}
			cell = stepCell(cell, a, step[a])
			next[a] += span[a]
			if r, ok := visit(cell); ok {
				return r
			}
		}

		if next[driving] > 1 {
			break
		}
		cell = stepCell(cell, driving, step[driving])
		next[driving] += span[driving]
	}
	return NoCollision()
}

func (g *Grid) clamp(c Cell) Cell {
	min, max := g.Min(), g.Max()
	return Cell{
		X: intMin(intMax(c.X, min.X), max.X-1),
		Y: intMin(intMax(c.Y, min.Y), max.Y-1),
		Z: intMin(intMax(c.Z, min.Z), max.Z-1),
	}
}

func cellAxis(c Cell, axis int) int {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

func stepCell(c Cell, axis, step int) Cell {
	switch axis {
	case 0:
		c.X += step
	case 1:
		c.Y += step
	default:
		c.Z += step
	}
	return c
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

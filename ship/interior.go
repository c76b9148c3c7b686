package ship

import (
	"math"
	"sort"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/shipyard/collision"
	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

const (
	ErrTypePlacementBlocked = "placement_blocked"
	ErrTypeInvalidPanel     = "invalid_panel"
	ErrTypeInvalidSave      = "invalid_save"
)

// PlacementReach is how far from the viewer parts can be placed.
const PlacementReach = 5

// Offset used to step back from a hit position into the cell in front of it.
const placementNudge = 0.001

// PlacedPart is a part placed in an interior.
type PlacedPart struct {
	ID     int
	Part   Part
	Layout Layout
	Cells  []collision.Cell
}

// PlacedPanel is a panel placed in an interior.
type PlacedPanel struct {
	ID    int
	Panel Panel
	Cells []collision.Cell
}

// Interior is the buildable inside of a ship. Parts and panels occupy the
// cells of a grid, labeled with their id, and parts are also indexed by
// their bounding boxes in a box tree.
type Interior struct {
	ID   string
	Body *models.Body

	// Checks new parts against the part boxes with an exact box test in
	// addition to the grid.
	ExactBoxTest bool

	// Leaves the part tree empty, placement checks only use the grid.
	SkipTreeRebuild bool

	mutex  sync.RWMutex
	ids    models.SequentialIDGenerator
	parts  map[int]*PlacedPart
	panels map[int]*PlacedPanel
	grid   *collision.Grid
	tree   *collision.Tree
}

// NewInterior creates an empty interior attached to the given body. A nil
// body places the interior at the world origin.
func NewInterior(body *models.Body) *Interior {
	if body == nil {
		body = models.NewBody(models.IdentityPose())
	}

	return &Interior{
		ID:     uuid.NewString(),
		Body:   body,
		parts:  make(map[int]*PlacedPart),
		panels: make(map[int]*PlacedPanel),
		grid:   collision.NewGrid(),
	}
}

// Configure sets the placement options and rebuilds the part tree to match.
func (i *Interior) Configure(exactBoxTest, skipTreeRebuild bool) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.ExactBoxTest = exactBoxTest
	i.SkipTreeRebuild = skipTreeRebuild
	i.rebuildTree()
}

// Close drops the metrics kept for the interior. The interior stays usable
// but is no longer reported.
func (i *Interior) Close() {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	forgetParts(i)
}

// AddPart places a part at the given layout and returns its id. It returns
// an error with ErrTypePlacementBlocked when a cell the part needs is
// already taken.
func (i *Interior) AddPart(p Part, at Layout) (int, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if !i.isNewPartAllowed(p, at) {
		instrumentPlacement(false)
		return 0, errors.New("part placement blocked").
			WithType(ErrTypePlacementBlocked).
			WithTag("model", p.Model()).
			WithTag("layout", at)
	}

	id := i.ids.New()
	cells := Cells(p, at)
	i.grid.Insert(cells, id)
	i.parts[id] = &PlacedPart{
		ID:     id,
		Part:   p,
		Layout: at,
		Cells:  cells,
	}
	i.rebuildTree()

	logs.WithTag("interior_id", i.ID).
		WithTag("part_id", id).
		WithTag("model", p.Model()).
		WithTag("layout", at).
		Info("part placed")
	instrumentPlacement(true)
	instrumentParts(i)
	return id, nil
}

// RemovePart removes the part with the given id. It returns false when
// there is no such part.
func (i *Interior) RemovePart(id int) bool {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	p, ok := i.parts[id]
	if !ok {
		return false
	}

	i.grid.Clear(p.Cells)
	delete(i.parts, id)
	i.ids.Reuse(id)
	i.rebuildTree()

	logs.WithTag("interior_id", i.ID).
		WithTag("part_id", id).
		WithTag("model", p.Part.Model()).
		Info("part removed")
	instrumentParts(i)
	return true
}

// AddPanel places a panel and returns its id. Panels only take the cells
// they cross that are still empty and block nothing but each other.
func (i *Interior) AddPanel(p Panel) (int, error) {
	if p.Degenerate() {
		return 0, errors.New("degenerate panel").
			WithType(ErrTypeInvalidPanel).
			WithTag("vertices", p.Vertices)
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()

	var cells []collision.Cell
	for _, c := range p.Cells() {
		if i.grid.Get(c) == collision.Empty {
			cells = append(cells, c)
		}
	}

	id := i.ids.New()
	i.grid.Insert(cells, id)
	i.panels[id] = &PlacedPanel{
		ID:    id,
		Panel: p,
		Cells: cells,
	}
	i.grid.Tree()

	logs.WithTag("interior_id", i.ID).
		WithTag("panel_id", id).
		WithTag("cells", len(cells)).
		Info("panel placed")
	return id, nil
}

// RemovePanel removes the panel with the given id. It returns false when
// there is no such panel.
func (i *Interior) RemovePanel(id int) bool {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	p, ok := i.panels[id]
	if !ok {
		return false
	}

	i.grid.Clear(p.Cells)
	delete(i.panels, id)
	i.ids.Reuse(id)
	i.grid.Tree()

	logs.WithTag("interior_id", i.ID).
		WithTag("panel_id", id).
		Info("panel removed")
	return true
}

// IsNewPartAllowed reports whether a part can be placed at the given layout
// without overlapping what is already there.
func (i *Interior) IsNewPartAllowed(p Part, at Layout) bool {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	return i.isNewPartAllowed(p, at)
}

func (i *Interior) isNewPartAllowed(p Part, at Layout) bool {
	for _, c := range Cells(p, at) {
		if i.grid.Get(c) != collision.Empty {
			return false
		}
	}

	if !i.ExactBoxTest || i.tree == nil {
		return true
	}

	r := collision.CheckIntersection(
		collision.Package{Collider: Box(p, at), Exact: true},
		collision.Package{Collider: i.tree},
	)
	return !r.Collision()
}

// Part returns the part with the given id.
func (i *Interior) Part(id int) (PlacedPart, bool) {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	p, ok := i.parts[id]
	if !ok {
		return PlacedPart{}, false
	}
	return *p, true
}

// Parts returns the placed parts ordered by id.
func (i *Interior) Parts() []PlacedPart {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	parts := make([]PlacedPart, 0, len(i.parts))
	for _, p := range i.parts {
		parts = append(parts, *p)
	}
	sort.Slice(parts, func(a, b int) bool {
		return parts[a].ID < parts[b].ID
	})
	return parts
}

// Panels returns the placed panels ordered by id.
func (i *Interior) Panels() []PlacedPanel {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	panels := make([]PlacedPanel, 0, len(i.panels))
	for _, p := range i.panels {
		panels = append(panels, *p)
	}
	sort.Slice(panels, func(a, b int) bool {
		return panels[a].ID < panels[b].ID
	})
	return panels
}

// Occupant returns the id of the part or panel in the given cell.
func (i *Interior) Occupant(c collision.Cell) (int, bool) {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	id := i.grid.Get(c)
	return id, id != collision.Empty
}

// Package returns the interior grid as a collider in the ship frame.
//
// The grid is shared with the interior: it must not be used while the
// interior is being modified.
func (i *Interior) Package() collision.Package {
	return collision.Package{
		Collider: i.grid,
		Body:     i.Body,
		Exact:    i.ExactBoxTest,
	}
}

// Check tests the interior against a collider. The report is expressed in
// the ship frame and carries the ids of the parts and panels hit.
func (i *Interior) Check(other collision.Package) collision.Report {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	return collision.CheckIntersection(i.Package(), other)
}

// PickCell returns the first occupied cell crossed by a world frame line,
// with its occupant.
func (i *Interior) PickCell(l collision.Line) (collision.Cell, int, bool) {
	r := i.Check(collision.Package{Collider: l})
	id, ok := r.Occupant()
	if !ok {
		return collision.Cell{}, collision.Empty, false
	}

	v := collision.ReorientRot(l.V, nil, i.Body)
	if v.LenSqr() > 0 {
		v = v.Normalize()
	}
	return cellOf(r.Positions[0].Add(v.Mul(placementNudge))), id, true
}

// Corner returns the lattice point nearest to where a world frame line
// first hits the interior, in the ship frame.
func (i *Interior) Corner(l collision.Line) (collision.Cell, bool) {
	return i.Check(collision.Package{Collider: l}).Cell()
}

// PlacementCell returns the empty cell in front of the first occupied cell
// seen from origin looking at forward, within reach. Both vectors are in the
// world frame.
func (i *Interior) PlacementCell(origin, forward mgl64.Vec3, reach float64) (collision.Cell, bool) {
	if forward.LenSqr() == 0 {
		return collision.Cell{}, false
	}
	forward = forward.Normalize()

	r := i.Check(collision.Package{
		Collider: collision.Segment(origin, forward.Mul(reach)),
	})
	if !r.Collision() {
		return collision.Cell{}, false
	}

	local := collision.ReorientRot(forward, nil, i.Body)
	corner := GridShrink(r.Positions[0].Sub(local.Mul(placementNudge)), local)

	// The shrunk corner is the one facing the viewer. The cell extends away
	// from it along the viewing direction.
	c := cellOf(corner)
	if local.X() <= 0 {
		c.X--
	}
	if local.Y() <= 0 {
		c.Y--
	}
	if local.Z() <= 0 {
		c.Z--
	}
	return c, true
}

// Overlaps reports whether the cells of two interiors overlap in the world.
func (i *Interior) Overlaps(other *Interior) bool {
	if i == other {
		i.mutex.RLock()
		defer i.mutex.RUnlock()
		return i.grid.Occupied() != 0
	}

	first, second := i, other
	if second.ID < first.ID {
		first, second = second, first
	}
	first.mutex.RLock()
	defer first.mutex.RUnlock()
	second.mutex.RLock()
	defer second.mutex.RUnlock()

	return collision.CheckIntersection(i.Package(), other.Package()).Collision()
}

func (i *Interior) rebuildTree() {
	// Readers share the grid, its cell tree is built here under the write
	// lock.
	i.grid.Tree()

	if i.SkipTreeRebuild || len(i.parts) == 0 {
		i.tree = nil
		return
	}

	boxes := make([]collision.Box, 0, len(i.parts))
	ids := make([]int, 0, len(i.parts))
	for id, p := range i.parts {
		boxes = append(boxes, Box(p.Part, p.Layout))
		ids = append(ids, id)
	}
	i.tree = collision.NewTreeWithIDs(boxes, ids)
}

func cellOf(v mgl64.Vec3) collision.Cell {
	return collision.Cell{
		X: int(math.Floor(v.X())),
		Y: int(math.Floor(v.Y())),
		Z: int(math.Floor(v.Z())),
	}
}

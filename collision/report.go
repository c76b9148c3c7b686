package collision

import (
	"math"

	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
)

// Report is the result of a collision query. Depths and Positions are
// parallel. Occupants is either empty or parallel to them, holding the grid
// cell value or tree leaf id that produced each contact.
type Report struct {
	// Vectors pointing from the contact to the nearest surface exit.
	Depths    []mgl64.Vec3
	Positions []mgl64.Vec3
	Occupants []int
}

// NoCollision returns an empty report.
func NoCollision() Report {
	return Report{}
}

func NewReport(depth, position mgl64.Vec3) Report {
	return Report{
		Depths:    []mgl64.Vec3{depth},
		Positions: []mgl64.Vec3{position},
	}
}

func (r Report) Collision() bool {
	return len(r.Positions) != 0
}

func (r Report) Len() int {
	return len(r.Positions)
}

// Append concatenates o at the end of r.
func (r *Report) Append(o Report) {
	if len(r.Occupants) != 0 || len(o.Occupants) != 0 {
		r.Occupants = append(r.paddedOccupants(), o.paddedOccupants()...)
	}
	r.Depths = append(r.Depths, o.Depths...)
	r.Positions = append(r.Positions, o.Positions...)
}

// Deeper reports whether the deepest contact of r goes further than the
// deepest contact of o. An empty report is never deeper than anything.
//
// Contacts are compared by the squared length of their depth vectors. Contact
// positions play no part, so the order is the same in every frame.
func (r Report) Deeper(o Report) bool {
	if !r.Collision() {
		return false
	}
	if !o.Collision() {
		return true
	}
	return r.deepestMag2() > o.deepestMag2()
}

func (r Report) deepestMag2() float64 {
	var deepest float64
	for _, d := range r.Depths {
		deepest = math.Max(deepest, d.LenSqr())
	}
	return deepest
}

// Occupant returns the occupant of the first contact.
func (r Report) Occupant() (int, bool) {
	if len(r.Occupants) == 0 || r.Occupants[0] == Empty {
		return Empty, false
	}
	return r.Occupants[0], true
}

// Cell rounds the first contact position to the nearest lattice point.
func (r Report) Cell() (Cell, bool) {
	if !r.Collision() {
		return Cell{}, false
	}
	p := r.Positions[0]
	return Cell{
		X: int(math.Round(p.X())),
		Y: int(math.Round(p.Y())),
		Z: int(math.Round(p.Z())),
	}, true
}

// Transform moves the report from one body frame into another. A nil body is
// the world frame.
func (r Report) Transform(from, to *models.Body) Report {
	if from == to {
		return r
	}

	out := Report{
		Depths:    make([]mgl64.Vec3, len(r.Depths)),
		Positions: make([]mgl64.Vec3, len(r.Positions)),
		Occupants: r.Occupants,
	}
	for i, d := range r.Depths {
		out.Depths[i] = ReorientRot(d, from, to)
	}
	for i, p := range r.Positions {
		out.Positions[i] = Reorient(p, from, to)
	}
	return out
}

// Reorient moves the report from the frame of a body into the world frame.
func (r Report) Reorient(from *models.Body) Report {
	return r.Transform(from, nil)
}

// Orient moves the report from the world frame into the frame of a body.
func (r Report) Orient(to *models.Body) Report {
	return r.Transform(nil, to)
}

func (r Report) withOccupant(id int) Report {
	occupants := make([]int, len(r.Positions))
	for i := range occupants {
		occupants[i] = id
	}
	r.Occupants = occupants
	return r
}

func (r Report) paddedOccupants() []int {
	occupants := r.Occupants
	for len(occupants) < len(r.Positions) {
		occupants = append(occupants, Empty)
	}
	return occupants
}

// Reorient transforms a point between body frames: into world coordinates
// through from, then into the frame of to. A nil body is the world frame.
func Reorient(v mgl64.Vec3, from, to *models.Body) mgl64.Vec3 {
	switch {
	case from != nil && to != nil:
		return to.ToLocal(from.ToGlobal(v))
	case to != nil:
		return to.ToLocal(v)
	case from != nil:
		return from.ToGlobal(v)
	default:
		return v
	}
}

// ReorientRot is Reorient without translation, for direction vectors.
func ReorientRot(v mgl64.Vec3, from, to *models.Body) mgl64.Vec3 {
	switch {
	case from != nil && to != nil:
		return to.Orientation().Inverse().Rotate(from.Orientation().Rotate(v))
	case to != nil:
		return to.Orientation().Inverse().Rotate(v)
	case from != nil:
		return from.Orientation().Rotate(v)
	default:
		return v
	}
}

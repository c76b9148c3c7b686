package collision

import (
	"math"

	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
)

// orientedBox is a box expressed in world frame by its center, half extents
// and rotated axes.
type orientedBox struct {
	center mgl64.Vec3
	half   mgl64.Vec3
	axes   [3]mgl64.Vec3
}

func newOrientedBox(b Box, body *models.Body) orientedBox {
	o := orientedBox{
		center: Reorient(b.Center(), body, nil),
		half:   b.Dimensions.Mul(0.5),
	}
	for a := range axes {
		o.axes[a] = ReorientRot(axes[a], body, nil)
	}
	return o
}

func (o orientedBox) project(axis mgl64.Vec3) float64 {
	return o.half[0]*math.Abs(o.axes[0].Dot(axis)) +
		o.half[1]*math.Abs(o.axes[1].Dot(axis)) +
		o.half[2]*math.Abs(o.axes[2].Dot(axis))
}

// separatingAxes returns the 15 candidate axes of two boxes: the face normals
// of each box and the cross products of their edges. Parallel edge pairs are
// skipped.
func separatingAxes(a, b orientedBox) []mgl64.Vec3 {
	candidates := make([]mgl64.Vec3, 0, 15)
	candidates = append(candidates, a.axes[:]...)
	candidates = append(candidates, b.axes[:]...)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := a.axes[i].Cross(b.axes[j])
			if axis.Len() < 1e-4 {
				continue
			}
			candidates = append(candidates, axis.Normalize())
		}
	}
	return candidates
}

// Separated reports whether a separating axis exists between the two boxes.
// Boxes only touching along a face, an edge or a corner are separated.
func (b Box) Separated(body *models.Body, other Box, otherBody *models.Body) bool {
	_, ok := b.penetration(body, other, otherBody)
	return !ok
}

// penetration returns the minimum translation moving b out of other, in world
// frame.
func (b Box) penetration(body *models.Body, other Box, otherBody *models.Body) (mgl64.Vec3, bool) {
	ob := newOrientedBox(b, body)
	oo := newOrientedBox(other, otherBody)
	t := oo.center.Sub(ob.center)

	var mtv mgl64.Vec3
	shallowest := math.Inf(1)
	for _, axis := range separatingAxes(ob, oo) {
		distance := t.Dot(axis)
		depth := ob.project(axis) + oo.project(axis) - math.Abs(distance)
		if depth <= PlaneEpsilon {
			return mgl64.Vec3{}, false
		}
		if depth < shallowest {
			shallowest = depth
			if distance < 0 {
				mtv = axis.Mul(depth)
			} else {
				mtv = axis.Mul(-depth)
			}
		}
	}
	return mtv, true
}

// CheckBoxExact is CheckBox backed by a separating axis test. When sampling
// finds nothing but the boxes overlap, it reports a single contact halfway
// between the box centers with the minimum translation as depth.
func (b Box) CheckBoxExact(body *models.Body, other Box, otherBody *models.Body) Report {
	mtv, ok := b.penetration(body, other, otherBody)
	if !ok {
		return NoCollision()
	}

	if r := b.CheckBox(body, other, otherBody); r.Collision() {
		return r
	}

	center := Reorient(b.Center(), body, nil).
		Add(Reorient(other.Center(), otherBody, nil)).
		Mul(0.5)
	return NewReport(mtv, center)
}

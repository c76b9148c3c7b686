package collision

import (
	"math"

	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
)

// Line is the parametric line P + V*t restricted to t in [Start, Stop]. An
// infinite Start or Stop leaves the line unbounded on that side.
type Line struct {
	P     mgl64.Vec3
	V     mgl64.Vec3
	Start float64
	Stop  float64
}

// Segment returns the segment from p to p+v.
func Segment(p, v mgl64.Vec3) Line {
	return Line{P: p, V: v, Start: 0, Stop: 1}
}

// Ray returns the half line starting at p and going along v.
func Ray(p, v mgl64.Vec3) Line {
	return Line{P: p, V: v, Start: 0, Stop: math.Inf(1)}
}

// InfiniteLine returns the line through p along v, unbounded both ways.
func InfiniteLine(p, v mgl64.Vec3) Line {
	return Line{P: p, V: v, Start: math.Inf(-1), Stop: math.Inf(1)}
}

func (l Line) kind() Kind {
	return KindLine
}

func (l Line) At(t float64) mgl64.Vec3 {
	return l.P.Add(l.V.Mul(t))
}

// Clamp restricts t to the line bounds.
func (l Line) Clamp(t float64) float64 {
	return math.Min(math.Max(t, l.Start), l.Stop)
}

// Degenerate reports whether the line has no usable direction.
func (l Line) Degenerate() bool {
	return l.V.LenSqr() < PlaneEpsilon*PlaneEpsilon
}

// Reorient moves the line from one body frame into another. A nil body is the
// world frame.
func (l Line) Reorient(from, to *models.Body) Line {
	return Line{
		P:     Reorient(l.P, from, to),
		V:     ReorientRot(l.V, from, to),
		Start: l.Start,
		Stop:  l.Stop,
	}
}

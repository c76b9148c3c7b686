package orientation

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is one of the 24 axis-aligned rotations of a cube. Codes 0..3 are
// quarter turns about +z, every following group of four is a base rotation
// followed by the same quarter turns about +z.
type Orientation uint8

const (
	Identity Orientation = 0

	// Count is the number of supported orientations.
	Count = 24
)

var (
	table   [Count]mgl64.Quat
	compose [Count][Count]Orientation
	inverse [Count]Orientation
)

func init() {
	bases := []mgl64.Quat{
		mgl64.QuatIdent(),
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}),
		mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
		mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0}),
		mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0}),
		mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 1, 0}),
	}

	for i, base := range bases {
		for k := 0; k < 4; k++ {
			spin := mgl64.QuatRotate(float64(k)*math.Pi/2, mgl64.Vec3{0, 0, 1})
			table[i*4+k] = canonical(base.Mul(spin))
		}
	}

	for a := range table {
		inverse[a] = FromQuat(table[a].Conjugate())
		for b := range table {
			compose[a][b] = FromQuat(table[a].Mul(table[b]))
		}
	}
}

// FromQuat returns the orientation closest to the given rotation. Distance is
// the squared difference over the four quaternion components, measured against
// both signs of each table entry. Ties resolve to the lowest code.
func FromQuat(q mgl64.Quat) Orientation {
	best := Identity
	bestDist := math.Inf(1)

	for i, r := range table {
		d := quatDist2(q, r)
		if neg := quatDist2(q, r.Scale(-1)); neg < d {
			d = neg
		}

		if d < bestDist {
			best = Orientation(i)
			bestDist = d
		}
	}
	return best
}

// Compose returns the orientation of rotating by b and then by a.
func Compose(a, b Orientation) Orientation {
	a.mustBeValid()
	b.mustBeValid()
	return compose[a][b]
}

// All returns every supported orientation in code order.
func All() []Orientation {
	all := make([]Orientation, Count)
	for i := range all {
		all[i] = Orientation(i)
	}
	return all
}

// FromAxis returns the quarter turn about the dominant signed axis of v.
func FromAxis(v mgl64.Vec3) Orientation {
	ax, ay, az := math.Abs(v.X()), math.Abs(v.Y()), math.Abs(v.Z())

	switch {
	case ax > ay && ax > az:
		return FromQuat(mgl64.QuatRotate(sign(v.X())*math.Pi/2, mgl64.Vec3{1, 0, 0}))
	case ay > ax && ay > az:
		return FromQuat(mgl64.QuatRotate(sign(v.Y())*math.Pi/2, mgl64.Vec3{0, 1, 0}))
	default:
		return FromQuat(mgl64.QuatRotate(sign(v.Z())*math.Pi/2, mgl64.Vec3{0, 0, 1}))
	}
}

func (o Orientation) Valid() bool {
	return o < Count
}

// Quat returns the canonical unit quaternion of the orientation.
func (o Orientation) Quat() mgl64.Quat {
	o.mustBeValid()
	return table[o]
}

func (o Orientation) Inverse() Orientation {
	o.mustBeValid()
	return inverse[o]
}

// RotateByQuat applies an arbitrary rotation after o and snaps the result back
// onto the table.
func (o Orientation) RotateByQuat(q mgl64.Quat) Orientation {
	return FromQuat(o.Quat().Mul(q))
}

// RotateInteger rotates a lattice point around the origin.
func (o Orientation) RotateInteger(x, y, z int) (int, int, int) {
	p := o.Quat().Rotate(mgl64.Vec3{float64(x), float64(y), float64(z)})
	return int(math.Round(p.X())), int(math.Round(p.Y())), int(math.Round(p.Z()))
}

// Dimensions returns the axis extents of an x*y*z block after rotation.
func (o Orientation) Dimensions(x, y, z int) (int, int, int) {
	rx, ry, rz := o.RotateInteger(x, y, z)
	return abs(rx), abs(ry), abs(rz)
}

func (o Orientation) mustBeValid() {
	if !o.Valid() {
		panic(errors.New("orientation not supported").WithTag("code", uint8(o)))
	}
}

func canonical(q mgl64.Quat) mgl64.Quat {
	q = mgl64.Quat{
		W: snap(q.W),
		V: mgl64.Vec3{snap(q.V[0]), snap(q.V[1]), snap(q.V[2])},
	}

	for _, c := range []float64{q.W, q.V[0], q.V[1], q.V[2]} {
		if c > 0 {
			return q
		}
		if c < 0 {
			return q.Scale(-1)
		}
	}
	return q
}

// snap pulls values that are within rounding noise of the exact cube rotation
// components back onto them.
func snap(v float64) float64 {
	for _, exact := range []float64{0, 0.5, math.Sqrt2 / 2, 1} {
		if math.Abs(math.Abs(v)-exact) < 1e-9 {
			return math.Copysign(exact, v)
		}
	}
	return v
}

func quatDist2(a, b mgl64.Quat) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

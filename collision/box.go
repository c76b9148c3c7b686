package collision

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
)

// Box is the axis aligned box [Corner, Corner+Dimensions] expressed in the
// frame of its owning body.
type Box struct {
	Corner     mgl64.Vec3
	Dimensions mgl64.Vec3
}

// UnitBox returns the box of the grid cell c.
func UnitBox(c Cell) Box {
	return Box{
		Corner:     c.Vec3(),
		Dimensions: mgl64.Vec3{1, 1, 1},
	}
}

func (b Box) kind() Kind {
	return KindBox
}

func (b Box) Max() mgl64.Vec3 {
	return b.Corner.Add(b.Dimensions)
}

func (b Box) Center() mgl64.Vec3 {
	return b.Corner.Add(b.Dimensions.Mul(0.5))
}

func (b Box) Volume() float64 {
	return b.Dimensions.X() * b.Dimensions.Y() * b.Dimensions.Z()
}

// Contains reports whether p lies inside the box, boundary included.
func (b Box) Contains(p mgl64.Vec3) bool {
	max := b.Max()
	for a := 0; a < 3; a++ {
		if !InRangeWithEpsilon(p[a], b.Corner[a], max[a], PlaneEpsilon) {
			return false
		}
	}
	return true
}

// Overlaps reports whether the interiors of two boxes of the same frame
// intersect.
func (b Box) Overlaps(o Box) bool {
	bmax, omax := b.Max(), o.Max()
	for a := 0; a < 3; a++ {
		if bmax[a] <= o.Corner[a]+PlaneEpsilon || omax[a] <= b.Corner[a]+PlaneEpsilon {
			return false
		}
	}
	return true
}

// Points returns the 8 corners of the box.
func (b Box) Points() [8]mgl64.Vec3 {
	var points [8]mgl64.Vec3
	for i := range points {
		p := b.Corner
		for a := 0; a < 3; a++ {
			if i&(1<<a) != 0 {
				p[a] += b.Dimensions[a]
			}
		}
		points[i] = p
	}
	return points
}

// Edges returns the 12 edges of the box as segments.
func (b Box) Edges() [12]Line {
	var edges [12]Line
	points := b.Points()
	n := 0
	for i, p := range points {
		for a := 0; a < 3; a++ {
			if i&(1<<a) == 0 {
				edges[n] = Segment(p, axes[a].Mul(b.Dimensions[a]))
				n++
			}
		}
	}
	return edges
}

// CheckPoint reports a collision when p lies strictly inside the box. The
// depth goes to the nearest face and the position is p moved halfway there.
func (b Box) CheckPoint(p mgl64.Vec3) Report {
	depth, ok := b.exit(p.Sub(b.Corner))
	if !ok {
		return NoCollision()
	}
	return NewReport(depth, p.Add(depth.Mul(0.5)))
}

// exit returns the shortest vector taking the corner relative point q out of
// the box.
func (b Box) exit(q mgl64.Vec3) (mgl64.Vec3, bool) {
	for a := 0; a < 3; a++ {
		if q[a] <= 0 || q[a] >= b.Dimensions[a] {
			return mgl64.Vec3{}, false
		}
	}

	var depth mgl64.Vec3
	shortest := math.Inf(1)
	for a := 0; a < 3; a++ {
		if q[a] < shortest {
			shortest = q[a]
			depth = axes[a].Mul(-q[a])
		}
		if far := b.Dimensions[a] - q[a]; far < shortest {
			shortest = far
			depth = axes[a].Mul(far)
		}
	}
	return depth, true
}

// CheckRay tests the line against the six face planes of the box and keeps the
// nearest entry. The depth follows the outward normal of the entry face and
// measures how far the line goes past that face, capped by the box size. A
// line starting inside the box reports its start point like CheckPoint.
func (b Box) CheckRay(l Line) Report {
	if l.Degenerate() {
		if l.Start <= 0 && l.Stop >= 0 {
			return b.CheckPoint(l.P)
		}
		return NoCollision()
	}

	if !math.IsInf(l.Start, 0) {
		start := l.At(l.Start)
		if depth, ok := b.exit(start.Sub(b.Corner)); ok {
			return NewReport(depth, start)
		}
	}

	max := b.Max()
	hit := math.Inf(1)
	leave := math.Inf(1)
	axis := -1
	var face float64
	var normal mgl64.Vec3

	for a := 0; a < 3; a++ {
		v := l.V[a]
		if math.Abs(v) < PlaneEpsilon {
			continue
		}

		enter, exit, n := b.Corner[a], max[a], -1.0
		if v < 0 {
			enter, exit, n = max[a], b.Corner[a], 1.0
		}
		leave = math.Min(leave, (exit-l.P[a])/v)

		t := (enter - l.P[a]) / v
		if t < l.Start-PlaneEpsilon || t > l.Stop+PlaneEpsilon || t >= hit {
			continue
		}
		if !b.onFace(l.At(t), a) {
			continue
		}
		hit, axis, face = t, a, enter
		normal = axes[a].Mul(n)
	}

	if axis < 0 || leave < hit-PlaneEpsilon {
		return NoCollision()
	}

	far := math.Min(leave, l.Stop)
	penetration := math.Min(math.Abs(l.At(far)[axis]-face), b.Dimensions[axis])
	return NewReport(normal.Mul(penetration), l.At(hit))
}

func (b Box) onFace(p mgl64.Vec3, axis int) bool {
	max := b.Max()
	for a := 0; a < 3; a++ {
		if a == axis {
			continue
		}
		if !InRangeWithEpsilon(p[a], b.Corner[a], max[a], PlaneEpsilon) {
			return false
		}
	}
	return true
}

// CheckLine measures how deep a line cuts through the box. The line is
// projected on the xy, yz and zx planes. In each plane the rectangle corners
// are split by the side of the line they fall on and the line has to move
// past the farthest corner of the smaller side to leave the rectangle. The
// depth is that move, along the in plane normal of the line, and the position
// is the point of the line closest to that corner. The deepest plane wins.
func (b Box) CheckLine(l Line) Report {
	if l.Degenerate() {
		if l.Start <= 0 && l.Stop >= 0 {
			return b.CheckPoint(l.P)
		}
		return NoCollision()
	}

	lo, hi := l.Start, l.Stop
	max := b.Max()
	for a := 0; a < 3; a++ {
		if math.Abs(l.V[a]) < PlaneEpsilon {
			if l.P[a] <= b.Corner[a]+PlaneEpsilon || l.P[a] >= max[a]-PlaneEpsilon {
				return NoCollision()
			}
			continue
		}

		var ok bool
		if lo, hi, ok = slab(l.P[a], l.V[a], b.Corner[a], max[a], lo, hi); !ok {
			return NoCollision()
		}
	}
	if hi-lo <= PlaneEpsilon {
		return NoCollision()
	}

	var deepest Report
	for k := 0; k < 3; k++ {
		r := b.checkLineInPlane(l, lo, hi, (k+1)%3, (k+2)%3, k)
		if r.Deeper(deepest) {
			deepest = r
		}
	}
	return deepest
}

func (b Box) checkLineInPlane(l Line, lo, hi float64, i, j, k int) Report {
	vi, vj := l.V[i], l.V[j]
	inPlane := vi*vi + vj*vj
	if inPlane < PlaneEpsilon*PlaneEpsilon {
		return NoCollision()
	}
	normal := l.V.Cross(axes[k]).Normalize()

	max := b.Max()
	var positive, negative float64
	var positiveCorner, negativeCorner mgl64.Vec3
	for _, ci := range [2]float64{b.Corner[i], max[i]} {
		for _, cj := range [2]float64{b.Corner[j], max[j]} {
			var c mgl64.Vec3
			c[i], c[j], c[k] = ci, cj, l.P[k]

			s := c.Sub(l.P).Dot(normal)
			if s > positive {
				positive, positiveCorner = s, c
			}
			if -s > negative {
				negative, negativeCorner = -s, c
			}
		}
	}
	if positive <= PlaneEpsilon || negative <= PlaneEpsilon {
		return NoCollision()
	}

	distance, corner := positive, positiveCorner
	if negative < positive {
		distance, corner = negative, negativeCorner
		normal = normal.Mul(-1)
	}

	t := ((corner[i]-l.P[i])*vi + (corner[j]-l.P[j])*vj) / inPlane
	t = math.Min(math.Max(t, lo), hi)
	return NewReport(normal.Mul(distance), l.At(t))
}

// CheckBox approximates the overlap of two boxes owned by different bodies by
// sampling: the corners and center of each box are tested against the other
// with CheckPoint and the edges with CheckLine. The deepest sample is kept
// and reported in world frame. Face to face overlaps where no sample lands
// inside the other box are missed, see CheckBoxExact.
func (b Box) CheckBox(body *models.Body, other Box, otherBody *models.Body) Report {
	var deepest Report
	keep := func(r Report) {
		if r.Deeper(deepest) {
			deepest = r
		}
	}

	sample := func(from Box, fromBody *models.Body, to Box, toBody *models.Body) {
		for _, p := range from.Points() {
			keep(to.CheckPoint(Reorient(p, fromBody, toBody)).Reorient(toBody))
		}
		keep(to.CheckPoint(Reorient(from.Center(), fromBody, toBody)).Reorient(toBody))
		for _, e := range from.Edges() {
			keep(to.CheckLine(e.Reorient(fromBody, toBody)).Reorient(toBody))
		}
	}

	sample(b, body, other, otherBody)
	sample(other, otherBody, b, body)
	return deepest
}

// Superbox returns the smallest box enclosing all the given boxes and whether
// the boxes exactly fill it.
func Superbox(boxes []Box) (Box, bool) {
	if len(boxes) == 0 {
		panic(errors.New("superbox of an empty box list"))
	}

	min := boxes[0].Corner
	max := boxes[0].Max()
	var volume float64
	for _, b := range boxes {
		min = minVec(min, b.Corner)
		max = maxVec(max, b.Max())
		volume += b.Volume()
	}

	super := Box{Corner: min, Dimensions: max.Sub(min)}
	return super, EqualWithEpsilon(super.Volume(), volume, VolumeEpsilon)
}

// Subdivide splits boxes in two by comparing their centers with the mean
// center along the axis where centers vary the most.
func Subdivide(boxes []Box) (left, right []Box) {
	members := make([]int, len(boxes))
	for i := range members {
		members[i] = i
	}

	l, r := subdivide(boxes, members)
	for _, i := range l {
		left = append(left, boxes[i])
	}
	for _, i := range r {
		right = append(right, boxes[i])
	}
	return left, right
}

func subdivide(boxes []Box, members []int) (left, right []int) {
	if len(members) < 2 {
		panic(errors.New("subdivide needs at least two boxes").
			WithTag("count", len(members)))
	}
	if len(members) == 2 {
		return members[:1], members[1:]
	}

	var mean mgl64.Vec3
	for _, m := range members {
		mean = mean.Add(boxes[m].Center())
	}
	mean = mean.Mul(1 / float64(len(members)))

	var variance mgl64.Vec3
	for _, m := range members {
		d := boxes[m].Center().Sub(mean)
		variance = variance.Add(mgl64.Vec3{d[0] * d[0], d[1] * d[1], d[2] * d[2]})
	}
	axis := largestAxis(variance)

	for _, m := range members {
		if boxes[m].Center()[axis] > mean[axis] {
			left = append(left, m)
		} else {
			right = append(right, m)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		half := len(members) / 2
		return members[:half], members[half:]
	}
	return left, right
}

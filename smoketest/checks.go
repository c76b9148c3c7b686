package smoketest

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shipyard/collision"
	"github.com/aukilabs/shipyard/models"
	"github.com/aukilabs/shipyard/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

// Checks returns the collision self checks. Each one runs against freshly
// built colliders.
func Checks() []Check {
	return []Check{
		{Name: "orientation_round_trip", Run: checkOrientationRoundTrip},
		{Name: "orientation_lattice", Run: checkOrientationLattice},
		{Name: "grid_reshape", Run: checkGridReshape},
		{Name: "grid_line", Run: checkGridLine},
		{Name: "box_point", Run: checkBoxPoint},
		{Name: "tree_tiling", Run: checkTreeTiling},
		{Name: "report_reorient", Run: checkReportReorient},
		{Name: "box_ray", Run: checkBoxRay},
		{Name: "grid_point", Run: checkGridPoint},
	}
}

func checkOrientationRoundTrip() error {
	for _, o := range orientation.All() {
		if got := orientation.FromQuat(o.Quat()); got != o {
			return errors.New("orientation does not survive a quaternion round trip").
				WithTag("orientation", o).
				WithTag("got", got)
		}
		if c := orientation.Compose(o, o.Inverse()); c != orientation.Identity {
			return errors.New("orientation composed with its inverse is not the identity").
				WithTag("orientation", o).
				WithTag("got", c)
		}
	}
	return nil
}

func checkOrientationLattice() error {
	for _, o := range orientation.All() {
		x, y, z := o.RotateInteger(1, 2, 3)
		if x*x+y*y+z*z != 14 {
			return errors.New("rotated lattice point changed length").
				WithTag("orientation", o).
				WithTag("point", [3]int{x, y, z})
		}

		v := o.Quat().Rotate(mgl64.Vec3{1, 2, 3})
		if !v.ApproxEqualThreshold(mgl64.Vec3{float64(x), float64(y), float64(z)}, 1e-9) {
			return errors.New("lattice rotation does not match the quaternion").
				WithTag("orientation", o).
				WithTag("point", [3]int{x, y, z}).
				WithTag("expected", v)
		}
	}
	return nil
}

func checkGridReshape() error {
	g := collision.NewGrid()
	g.Insert([]collision.Cell{{}}, 7)
	g.Insert([]collision.Cell{{X: -3, Y: 2, Z: 5}}, 8)

	if id := g.Get(collision.Cell{}); id != 7 {
		return errors.New("grid lost a cell when growing").WithTag("got", id)
	}
	if id := g.Get(collision.Cell{X: -3, Y: 2, Z: 5}); id != 8 {
		return errors.New("grid did not store a cell").WithTag("got", id)
	}
	if id := g.Get(collision.Cell{X: 1, Y: 1, Z: 1}); id != collision.Empty {
		return errors.New("grid filled an untouched cell").WithTag("got", id)
	}
	if n := g.Occupied(); n != 2 {
		return errors.New("unexpected occupied cell count").WithTag("got", n)
	}
	return nil
}

func checkGridLine() error {
	g := collision.NewGrid()
	g.Insert([]collision.Cell{{}, {X: 1}, {X: 2}}, 1)
	g.Insert([]collision.Cell{{X: 1, Y: 1}}, 2)

	r := g.CheckLine(collision.Ray(mgl64.Vec3{1.5, 10, 0.5}, mgl64.Vec3{0, -1, 0}))
	if r.Len() != 1 {
		return errors.New("grid line did not report a single hit").WithTag("hits", r.Len())
	}
	if id, _ := r.Occupant(); id != 2 {
		return errors.New("grid line hit the wrong occupant").WithTag("got", id)
	}

	r = g.CheckLine(collision.Ray(mgl64.Vec3{5.5, 10, 0.5}, mgl64.Vec3{0, -1, 0}))
	if r.Collision() {
		return errors.New("grid line hit beside the grid")
	}
	return nil
}

func checkBoxPoint() error {
	b := collision.UnitBox(collision.Cell{})

	r := b.CheckPoint(mgl64.Vec3{0.5, 0.5, 0.5})
	if !r.Collision() {
		return errors.New("box center is not inside the box")
	}
	if d := r.Depths[0].Len(); math.Abs(d-0.5) > 1e-9 {
		return errors.New("unexpected box center depth").WithTag("depth", d)
	}

	if b.CheckPoint(mgl64.Vec3{2, 2, 2}).Collision() {
		return errors.New("point outside of the box collides")
	}
	return nil
}

func checkTreeTiling() error {
	var boxes []collision.Box
	for i := 0; i < 8; i++ {
		boxes = append(boxes, collision.UnitBox(collision.Cell{X: i & 1, Y: (i >> 1) & 1, Z: (i >> 2) & 1}))
	}

	tree := collision.MakeTree(boxes)
	if !tree.Full() || tree.Len() != 1 {
		return errors.New("tiling boxes did not make a single full node").
			WithTag("nodes", tree.Len())
	}

	r := tree.Check(func(b collision.Box) collision.Report {
		return b.CheckPoint(mgl64.Vec3{0.5, 0.5, 0.5})
	})
	if r.Len() != 1 {
		return errors.New("point in a tiling did not hit exactly one box").
			WithTag("hits", r.Len())
	}
	return nil
}

func checkReportReorient() error {
	body := models.NewBody(models.Pose{
		Position:    mgl64.Vec3{3, -2, 7},
		Orientation: mgl64.QuatRotate(1.1, mgl64.Vec3{1, 2, 3}.Normalize()),
	})

	r := collision.NewReport(mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{1, 2, 3})
	back := r.Reorient(body).Orient(body)
	if !back.Positions[0].ApproxEqualThreshold(r.Positions[0], 1e-9) ||
		!back.Depths[0].ApproxEqualThreshold(r.Depths[0], 1e-9) {
		return errors.New("report does not survive a frame round trip").
			WithTag("position", back.Positions[0]).
			WithTag("depth", back.Depths[0])
	}
	return nil
}

func checkBoxRay() error {
	box := collision.Package{Collider: collision.UnitBox(collision.Cell{})}

	hit := collision.CheckIntersection(collision.Package{
		Collider: collision.Ray(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}),
	}, box)
	if !hit.Collision() {
		return errors.New("ray toward the box missed")
	}
	if hit.Depths[0].X() >= 0 {
		return errors.New("ray depth does not point out of the entry face").
			WithTag("depth", hit.Depths[0])
	}

	miss := collision.CheckIntersection(collision.Package{
		Collider: collision.Ray(mgl64.Vec3{5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}),
	}, box)
	if miss.Collision() {
		return errors.New("ray away from the box hit")
	}
	return nil
}

func checkGridPoint() error {
	g := collision.NewGrid()
	g.Insert([]collision.Cell{{}}, 3)
	grid := collision.Package{Collider: g}

	r := collision.CheckIntersection(collision.Package{
		Collider: collision.Point{P: mgl64.Vec3{0.5, 0.5, 0.5}},
	}, grid)
	if id, ok := r.Occupant(); !ok || id != 3 {
		return errors.New("point in an occupied cell missed").WithTag("got", id)
	}

	r = collision.CheckIntersection(collision.Package{
		Collider: collision.Point{P: mgl64.Vec3{1.5, 0.5, 0.5}},
	}, grid)
	if r.Collision() {
		return errors.New("point in an empty cell collides")
	}
	return nil
}

package collision

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies a collider variant.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindGrid
	KindBox
	KindBoxTree
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindGrid:
		return "grid"
	case KindBox:
		return "box"
	case KindBoxTree:
		return "box_tree"
	default:
		return "unknown"
	}
}

// Collider is a shape that can be tested with CheckIntersection. It is
// implemented by Point, Line, Box, *Grid and *Tree.
type Collider interface {
	kind() Kind
}

// Point is a single point collider.
type Point struct {
	P mgl64.Vec3
}

func (p Point) kind() Kind {
	return KindPoint
}

// Package is a collider with the body whose frame it is expressed in. A nil
// body is the world frame.
type Package struct {
	Collider Collider
	Body     *models.Body

	// Use a separating axis test for box against box pairs.
	Exact bool
}

// CheckIntersection tests two colliders against each other. The report is
// expressed in the frame of a. Pairs that cannot overlap, like a point
// against a line, never collide.
func CheckIntersection(a, b Package) Report {
	start := time.Now()

	r, frame := intersect(a, b)
	r = r.Transform(frame, a.Body)

	instrumentQuery(a.Collider.kind(), b.Collider.kind(), start, r)
	return r
}

// intersect returns the report of a against b and the frame it is expressed
// in.
func intersect(a, b Package) (Report, *models.Body) {
	switch q := a.Collider.(type) {
	case Point:
		p := Reorient(q.P, a.Body, b.Body)

		switch t := b.Collider.(type) {
		case Point, Line:
			return NoCollision(), nil
		case Box:
			return t.CheckPoint(p), b.Body
		case *Grid:
			return t.CheckPoint(p), b.Body
		case *Tree:
			return t.Check(func(x Box) Report {
				return x.CheckPoint(p)
			}), b.Body
		}

	case Line:
		l := q.Reorient(a.Body, b.Body)

		switch t := b.Collider.(type) {
		case Point, Line:
			return NoCollision(), nil
		case Box:
			return t.CheckRay(l), b.Body
		case *Grid:
			return t.CheckLine(l), b.Body
		case *Tree:
			return t.Check(func(x Box) Report {
				return x.CheckRay(l)
			}), b.Body
		}

	case Box:
		check := boxCheck(a, b)

		switch t := b.Collider.(type) {
		case Point, Line:
			return intersect(b, a)
		case Box:
			return check(q, t), nil
		case *Tree:
			return t.Check(func(x Box) Report {
				return check(q, x)
			}), nil
		case *Grid:
			tree := t.Tree()
			if tree == nil {
				return NoCollision(), nil
			}
			return tree.Check(func(x Box) Report {
				return check(q, x)
			}), nil
		}

	case *Tree:
		switch t := b.Collider.(type) {
		case Point, Line, Box:
			return intersect(b, a)
		case *Tree:
			return checkTrees(a, q, b, t), nil
		case *Grid:
			tree := t.Tree()
			if tree == nil {
				return NoCollision(), nil
			}
			return checkTrees(a, q, b, tree), nil
		}

	case *Grid:
		switch t := b.Collider.(type) {
		case Point, Line, Box, *Tree:
			return intersect(b, a)
		case *Grid:
			outer, inner := q.Tree(), t.Tree()
			if outer == nil || inner == nil {
				return NoCollision(), nil
			}
			return checkTrees(a, outer, b, inner), nil
		}
	}

	panic(errors.New("unsupported collider pair").
		WithTag("a", a.Collider).
		WithTag("b", b.Collider))
}

// boxCheck returns the box against box test to use for a pair of packages.
// Reports are in world frame.
func boxCheck(a, b Package) func(x, y Box) Report {
	if a.Exact || b.Exact {
		return func(x, y Box) Report {
			return x.CheckBoxExact(a.Body, y, b.Body)
		}
	}
	return func(x, y Box) Report {
		return x.CheckBox(a.Body, y, b.Body)
	}
}

// checkTrees runs a nested traversal: the inner tree is checked against every
// box of the outer tree the traversal opens.
func checkTrees(a Package, outer *Tree, b Package, inner *Tree) Report {
	check := boxCheck(a, b)
	return outer.Check(func(x Box) Report {
		return inner.Check(func(y Box) Report {
			return check(x, y)
		})
	})
}

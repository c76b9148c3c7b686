package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// PlaneEpsilon is the tolerance used by plane and slab tests.
	PlaneEpsilon = 1e-8

	// VolumeEpsilon is the tolerance used when comparing box volumes.
	VolumeEpsilon = 1e-5
)

var axes = [3]mgl64.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

func EqualWithEpsilon(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

func InRangeWithEpsilon(value, min, max, epsilon float64) bool {
	return value+epsilon >= min && value-epsilon <= max
}

func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

func floorVec(v mgl64.Vec3) Cell {
	return Cell{
		X: int(math.Floor(v[0])),
		Y: int(math.Floor(v[1])),
		Z: int(math.Floor(v[2])),
	}
}

// largestAxis returns the axis with the largest absolute component.
func largestAxis(v mgl64.Vec3) int {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// slab clips the parameter interval [lo, hi] of p+v*t against the slab
// [min, max] on one axis. A direction component within PlaneEpsilon of zero is
// treated as parallel to the slab.
func slab(p, v, min, max, lo, hi float64) (float64, float64, bool) {
	if math.Abs(v) < PlaneEpsilon {
		if p < min-PlaneEpsilon || p > max+PlaneEpsilon {
			return lo, hi, false
		}
		return lo, hi, true
	}

	t0 := (min - p) / v
	t1 := (max - p) / v
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo = math.Max(lo, t0)
	hi = math.Min(hi, t1)
	return lo, hi, lo <= hi+PlaneEpsilon
}

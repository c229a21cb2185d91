package motorengine

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
)

// trackerEpsilon is the minimum selection-unit distance from the
// rotation axis a tracker atom must have (§4.3.4).
const trackerEpsilon = 0.01

// axisAngleTracker measures the signed rotation, in degrees, of a single
// tracker atom about a unit axis, relative to an initial offset vector
// captured on the motor's first RUNNING cycle (§4.3.4, §4.3.5). It is
// shared by Torque (pivot recomputed every cycle from the selection's
// current centroid) and Rotate (pivot fixed at construction).
type axisAngleTracker struct {
	axis       [3]float64 // normalized
	initOffset [3]float64 // perpendicular-to-axis component of the tracker's initial offset
	prevDeg    float64
	wrapCount  int
	captured   bool
}

// normalizeAxis mirrors math.go's Unit(): the zero vector normalizes to
// zero rather than producing NaN.
func normalizeAxis(x, y, z float64) (nx, ny, nz float64) {
	n := math.Sqrt(x*x + y*y + z*z)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return 0, 0, 0
	}
	return x / n, y / n, z / n
}

func dot3(ax, ay, az, bx, by, bz float64) float64 {
	a := mat64.NewVector(3, []float64{ax, ay, az})
	b := mat64.NewVector(3, []float64{bx, by, bz})
	return mat64.Dot(a, b)
}

func norm3(x, y, z float64) float64 {
	v := mat64.NewVector(3, []float64{x, y, z})
	return mat64.Norm(v, 2)
}

func cross3(ax, ay, az, bx, by, bz float64) (x, y, z float64) {
	return ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx
}

// perp returns the component of (x,y,z) perpendicular to the unit axis.
func perp(axis [3]float64, x, y, z float64) (px, py, pz float64) {
	d := dot3(x, y, z, axis[0], axis[1], axis[2])
	return x - d*axis[0], y - d*axis[1], z - d*axis[2]
}

// distanceToAxis returns the perpendicular distance from point (x,y,z)
// (already expressed relative to the pivot) to the axis line.
func distanceToAxis(axis [3]float64, x, y, z float64) float64 {
	px, py, pz := perp(axis, x, y, z)
	return norm3(px, py, pz)
}

// capture records the initial offset (already pivot-relative) as the
// zero-angle reference.
func (t *axisAngleTracker) capture(ox, oy, oz float64) {
	px, py, pz := perp(t.axis, ox, oy, oz)
	t.initOffset = [3]float64{px, py, pz}
	t.captured = true
	t.prevDeg = 0
	t.wrapCount = 0
}

// update computes the current signed offset (ox,oy,oz, pivot-relative)
// angle relative to the captured reference, maintains the wrap counter
// (§4.3.4: a crossing from >250° to <90° counts one revolution forward,
// the reverse crossing counts one back), and returns the total signed
// degrees traveled since capture.
func (t *axisAngleTracker) update(ox, oy, oz float64) float64 {
	px, py, pz := perp(t.axis, ox, oy, oz)

	cx, cy, cz := cross3(t.initOffset[0], t.initOffset[1], t.initOffset[2], px, py, pz)
	sinComp := dot3(cx, cy, cz, t.axis[0], t.axis[1], t.axis[2])
	cosComp := dot3(t.initOffset[0], t.initOffset[1], t.initOffset[2], px, py, pz)

	angle := math.Atan2(sinComp, cosComp) // (-pi, pi]
	deg := angle * rad2deg
	if deg < 0 {
		deg += 360
	}

	if t.prevDeg > 250 && deg < 90 {
		t.wrapCount++
	} else if t.prevDeg < 90 && deg > 250 {
		t.wrapCount--
	}
	t.prevDeg = deg

	return float64(t.wrapCount)*360 + deg
}

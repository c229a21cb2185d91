package motorengine

import "math"

// axisTarget is the per-axis completion configuration shared by Move and
// Force (§4.3.2, §4.3.3): a target displacement and whether that axis is
// checked at all. The observed centroid displacement is passed in
// separately by the callers.
type axisTarget struct {
	Check  bool
	Target float64
}

// axisSatisfied implements the per-axis completion predicate common to
// Move and Force:
//
//	!check_a OR (d_a<0 AND delta_a<=d_a) OR (d_a>=0 AND delta_a>=d_a)
func axisSatisfied(a axisTarget, delta float64) bool {
	if !a.Check {
		return true
	}
	if a.Target < 0 {
		return delta <= a.Target
	}
	return delta >= a.Target
}

// axisProgressPct returns this axis's normalized progress toward its
// target, clamped to [0, 100]. An unchecked axis always reports 100 (it
// never blocks completion). A zero target is fully satisfied by any
// delta on the correct side of zero (or already at zero).
func axisProgressPct(a axisTarget, delta float64) float64 {
	if !a.Check {
		return 100
	}
	if a.Target == 0 {
		if axisSatisfied(a, delta) {
			return 100
		}
		return 0
	}
	return clampProgress(100 * delta / a.Target)
}

// rescaleCentroid re-homes an already-captured initial-reference point
// from one unit system to another, using the distance conversion table
// directly rather than routing through a Quantity per component (§4.5:
// "re-homes initial-reference quantities if already captured").
func rescaleCentroid(x, y, z *float64, from, to UnitSystem, logger Logger) {
	q := Distance(1, from)
	if err := Convert(&q, to, logger); err != nil {
		return
	}
	*x *= q.Value
	*y *= q.Value
	*z *= q.Value
}

// minProgress is the aggregate-progress redefinition decided in
// DESIGN.md for the open question in spec.md §9: the bottleneck axis,
// not a sum that can overflow past 100%.
func minProgress(vals ...float64) float64 {
	m := math.Inf(1)
	for _, v := range vals {
		if v < m {
			m = v
		}
	}
	if math.IsInf(m, 1) {
		return 0
	}
	return clampProgress(m)
}

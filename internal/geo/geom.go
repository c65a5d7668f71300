package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// FinitePoint reports whether both coordinates are finite.
func FinitePoint(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

// PointDistance returns the Euclidean distance between two points.
func PointDistance(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

// DedupLine collapses consecutive vertices closer than tol. The first
// vertex of each run is kept, so input order is preserved.
func DedupLine(ls orb.LineString, tol float64) orb.LineString {
	if len(ls) == 0 {
		return nil
	}
	out := orb.LineString{ls[0]}
	for _, p := range ls[1:] {
		if PointDistance(out[len(out)-1], p) > tol {
			out = append(out, p)
		}
	}
	return out
}

// DedupRing collapses consecutive vertices closer than tol and re-closes
// the ring. A collapsed ring with fewer than 3 distinct vertices is
// returned as-is for the caller to reject.
func DedupRing(r orb.Ring, tol float64) orb.Ring {
	if len(r) == 0 {
		return nil
	}
	open := orb.LineString(r)
	if r.Closed() {
		open = open[:len(open)-1]
	}
	deduped := DedupLine(open, tol)
	// The last vertex may have drifted onto the first.
	for len(deduped) > 1 && PointDistance(deduped[len(deduped)-1], deduped[0]) <= tol {
		deduped = deduped[:len(deduped)-1]
	}
	out := orb.Ring(deduped)
	if len(out) >= 3 {
		out = append(out, out[0])
	}
	return out
}

// OrientRing returns the ring wound counter-clockwise when ccw is true,
// clockwise otherwise.
func OrientRing(r orb.Ring, ccw bool) orb.Ring {
	isCCW := r.Orientation() == orb.CCW
	if isCCW == ccw {
		return r
	}
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// RingArea returns the absolute planar area of the ring.
func RingArea(r orb.Ring) float64 {
	return math.Abs(planar.Area(r))
}

// LineLength returns the planar length of the polyline.
func LineLength(ls orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(ls); i++ {
		total += PointDistance(ls[i-1], ls[i])
	}
	return total
}

// segmentIntersection returns the proper intersection point of segments
// (a1,a2) and (b1,b2), if any. Intersections at shared endpoints do not
// count: rings legitimately chain segments end to end.
func segmentIntersection(a1, a2, b1, b2 orb.Point) (orb.Point, bool) {
	const eps = 1e-12

	d1 := orb.Point{a2[0] - a1[0], a2[1] - a1[1]}
	d2 := orb.Point{b2[0] - b1[0], b2[1] - b1[1]}
	denom := d1[0]*d2[1] - d1[1]*d2[0]
	if math.Abs(denom) < eps {
		return orb.Point{}, false // parallel or collinear
	}

	w := orb.Point{b1[0] - a1[0], b1[1] - a1[1]}
	t := (w[0]*d2[1] - w[1]*d2[0]) / denom
	u := (w[0]*d1[1] - w[1]*d1[0]) / denom
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return orb.Point{}, false
	}

	return orb.Point{a1[0] + t*d1[0], a1[1] + t*d1[1]}, true
}

// RingSelfIntersection finds the first proper self-intersection of the
// ring, returning the indices of the two crossing segments and the crossing
// point. Segment i spans r[i] to r[i+1]; the ring must be closed.
func RingSelfIntersection(r orb.Ring) (i, j int, at orb.Point, found bool) {
	n := len(r) - 1 // segment count for a closed ring
	for i = 0; i < n; i++ {
		for j = i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // first and last segments share the closing vertex
			}
			if p, ok := segmentIntersection(r[i], r[i+1], r[j], r[j+1]); ok {
				return i, j, p, true
			}
		}
	}
	return 0, 0, orb.Point{}, false
}

// RingSimple reports whether the closed ring has no proper
// self-intersections.
func RingSimple(r orb.Ring) bool {
	_, _, _, found := RingSelfIntersection(r)
	return !found
}

// RingContains reports whether the point lies inside the ring, using the
// even-odd ray cast rule. Boundary points are not guaranteed either way.
func RingContains(r orb.Ring, p orb.Point) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := r[i], r[j]
		if (vi[1] > p[1]) != (vj[1] > p[1]) &&
			p[0] < (vj[0]-vi[0])*(p[1]-vi[1])/(vj[1]-vi[1])+vi[0] {
			inside = !inside
		}
	}
	return inside
}

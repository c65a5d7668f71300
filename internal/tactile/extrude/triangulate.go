package extrude

import (
	"sort"

	"github.com/paulmach/orb"

	"github.com/banshee-data/tactile.map/internal/geo"
)

const triEps = 1e-12

// Triangulate tessellates a simple polygon with optional holes into
// triangles. The outer ring must be counter-clockwise and the holes
// clockwise; holes are joined to the outer boundary with bridge edges
// before ear clipping. Returns nil when the polygon is degenerate.
func Triangulate(outer orb.Ring, holes []orb.Ring) [][3]orb.Point {
	poly := openRing(geo.OrientRing(outer, true))
	if len(poly) < 3 {
		return nil
	}
	for _, h := range sortHolesByMaxX(holes) {
		poly = bridgeHole(poly, openRing(geo.OrientRing(h, false)))
	}
	return earClip(poly)
}

// openRing drops the closing duplicate vertex.
func openRing(r orb.Ring) []orb.Point {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

// sortHolesByMaxX orders holes by their rightmost vertex, descending.
// Bridging right-to-left keeps earlier bridges from blocking later ones.
func sortHolesByMaxX(holes []orb.Ring) []orb.Ring {
	out := make([]orb.Ring, len(holes))
	copy(out, holes)
	sort.SliceStable(out, func(i, j int) bool {
		return maxX(out[i]) > maxX(out[j])
	})
	return out
}

func maxX(r orb.Ring) float64 {
	m := r[0][0]
	for _, p := range r[1:] {
		if p[0] > m {
			m = p[0]
		}
	}
	return m
}

// bridgeHole splices a clockwise hole into the counter-clockwise polygon
// through a mutually visible vertex pair, producing one simple polygon
// with a zero-width cut.
func bridgeHole(poly, hole []orb.Point) []orb.Point {
	if len(hole) < 3 {
		return poly
	}

	// Rightmost hole vertex is guaranteed to see the outer boundary.
	m := 0
	for i, p := range hole {
		if p[0] > hole[m][0] {
			m = i
		}
	}
	M := hole[m]

	vis := visibleVertex(poly, M)
	if vis < 0 {
		return poly
	}

	// poly[0..vis] + M..hole..M + poly[vis..].
	out := make([]orb.Point, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:vis+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(m+i)%len(hole)])
	}
	out = append(out, poly[vis:]...)
	return out
}

// visibleVertex finds a polygon vertex visible from M by casting a ray in
// the +X direction, after Eberly's hole-bridging construction.
func visibleVertex(poly []orb.Point, M orb.Point) int {
	n := len(poly)

	// Closest intersection of the ray with polygon edges whose interior
	// side faces M.
	bestT := -1.0
	bestEdge := -1
	var hit orb.Point
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if (a[1] > M[1]) == (b[1] > M[1]) {
			continue
		}
		t := a[0] + (M[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
		if t >= M[0]-triEps && (bestEdge < 0 || t < bestT) {
			bestT = t
			bestEdge = i
			hit = orb.Point{t, M[1]}
		}
	}
	if bestEdge < 0 {
		return -1
	}

	// If the intersection lands on a vertex, use it directly.
	a, b := poly[bestEdge], poly[(bestEdge+1)%n]
	if pointNear(hit, a) {
		return bestEdge
	}
	if pointNear(hit, b) {
		return (bestEdge + 1) % n
	}

	// Otherwise take the edge endpoint with the larger X; any reflex
	// vertex inside triangle (M, hit, P) is closer to the ray and must
	// be preferred.
	p := bestEdge
	if b[0] > a[0] {
		p = (bestEdge + 1) % n
	}
	best := p
	bestDx := poly[p][0] - M[0]
	for i := 0; i < n; i++ {
		if i == p || !reflex(poly, i) {
			continue
		}
		if !pointInTriangle(poly[i], M, hit, poly[p]) {
			continue
		}
		if dx := poly[i][0] - M[0]; dx >= 0 && dx < bestDx {
			best = i
			bestDx = dx
		}
	}
	return best
}

func pointNear(a, b orb.Point) bool {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx+dy*dy < triEps
}

func cross2(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func reflex(poly []orb.Point, i int) bool {
	n := len(poly)
	return cross2(poly[(i+n-1)%n], poly[i], poly[(i+1)%n]) < 0
}

func pointInTriangle(p, a, b, c orb.Point) bool {
	d1 := cross2(p, a, b)
	d2 := cross2(p, b, c)
	d3 := cross2(p, c, a)
	neg := d1 < -triEps || d2 < -triEps || d3 < -triEps
	pos := d1 > triEps || d2 > triEps || d3 > triEps
	return !(neg && pos)
}

// earClip tessellates a counter-clockwise simple polygon by repeatedly
// cutting ears. O(n^2), fine at footprint vertex counts.
func earClip(poly []orb.Point) [][3]orb.Point {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var tris [][3]orb.Point
	guard := 0
	for len(idx) > 3 {
		clipped := false
		for k := 0; k < len(idx); k++ {
			if isEar(poly, idx, k) {
				prev := idx[(k+len(idx)-1)%len(idx)]
				next := idx[(k+1)%len(idx)]
				tris = append(tris, [3]orb.Point{poly[prev], poly[idx[k]], poly[next]})
				idx = append(idx[:k], idx[k+1:]...)
				clipped = true
				break
			}
		}
		if !clipped {
			// Numerically stuck; clip any strictly convex vertex so
			// progress continues rather than abandoning the footprint.
			k := firstConvex(poly, idx)
			if k < 0 {
				return tris
			}
			prev := idx[(k+len(idx)-1)%len(idx)]
			next := idx[(k+1)%len(idx)]
			tris = append(tris, [3]orb.Point{poly[prev], poly[idx[k]], poly[next]})
			idx = append(idx[:k], idx[k+1:]...)
		}
		if guard++; guard > 4*n {
			return tris
		}
	}
	if len(idx) == 3 {
		t := [3]orb.Point{poly[idx[0]], poly[idx[1]], poly[idx[2]]}
		if cross2(t[0], t[1], t[2]) > triEps {
			tris = append(tris, t)
		}
	}
	return tris
}

func isEar(poly []orb.Point, idx []int, k int) bool {
	n := len(idx)
	a := poly[idx[(k+n-1)%n]]
	b := poly[idx[k]]
	c := poly[idx[(k+1)%n]]
	if cross2(a, b, c) <= triEps {
		return false
	}
	for _, i := range idx {
		p := poly[i]
		if p == a || p == b || p == c {
			continue
		}
		if strictlyInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

func strictlyInTriangle(p, a, b, c orb.Point) bool {
	return cross2(a, b, p) > triEps && cross2(b, c, p) > triEps && cross2(c, a, p) > triEps
}

func firstConvex(poly []orb.Point, idx []int) int {
	n := len(idx)
	for k := 0; k < n; k++ {
		a := poly[idx[(k+n-1)%n]]
		b := poly[idx[k]]
		c := poly[idx[(k+1)%n]]
		if cross2(a, b, c) > triEps {
			return k
		}
	}
	return -1
}

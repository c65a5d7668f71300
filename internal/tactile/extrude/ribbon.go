package extrude

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/banshee-data/tactile.map/internal/geo"
	"github.com/banshee-data/tactile.map/internal/geo/sanitize"
	"github.com/banshee-data/tactile.map/internal/tactile/mesh"
)

// Ribbon sweeps a flat-topped band of the given width along the
// centreline and extrudes it to the given height. Corners are mitred up
// to miterLimit (ratio of miter length to half-width) and bevelled past
// it; ends get square caps extending half a width beyond the endpoints.
//
// A sharp zigzag can make the outline self-intersect. The outline is then
// split into simple loops and each loop becomes its own fragment. The
// loops share the crossing point, so extruding them into one fragment
// would put four walls on the vertical edge there and fail the manifold
// check; kept apart, every fragment stays watertight.
func Ribbon(line orb.LineString, width, height, miterLimit, weldTol float64) ([]*mesh.Fragment, error) {
	if len(line) < 2 {
		return nil, fmt.Errorf("ribbon needs at least 2 points, got %d: %w", len(line), ErrDegenerate)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ribbon width %g height %g: %w", width, height, ErrDegenerate)
	}

	pts := dropRepeats(line)
	if len(pts) < 2 {
		return nil, fmt.Errorf("ribbon collapsed to a point: %w", ErrDegenerate)
	}

	outline := ribbonOutline(pts, width/2, miterLimit)
	rings := []orb.Ring{outline}
	if !geo.RingSimple(outline) {
		rings = sanitize.RepairRing(outline)
		if len(rings) == 0 {
			return nil, fmt.Errorf("ribbon outline irreparable: %w", ErrDegenerate)
		}
	}

	frags := make([]*mesh.Fragment, 0, len(rings))
	for _, r := range rings {
		frag := mesh.NewFragment(weldTol)
		if err := addPrism(frag, geo.OrientRing(r, true), nil, height); err != nil {
			return nil, err
		}
		frags = append(frags, frag)
	}
	return frags, nil
}

func dropRepeats(line orb.LineString) []orb.Point {
	out := make([]orb.Point, 0, len(line))
	for _, p := range line {
		if len(out) > 0 && geo.PointDistance(out[len(out)-1], p) < 1e-9 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ribbonOutline offsets the centreline by half on each side and returns
// the closed outline: left side forward, right side backward.
func ribbonOutline(pts []orb.Point, half, miterLimit float64) orb.Ring {
	left := offsetSide(pts, half, miterLimit, +1)
	right := offsetSide(pts, half, miterLimit, -1)

	ring := make(orb.Ring, 0, len(left)+len(right)+1)
	ring = append(ring, left...)
	for i := len(right) - 1; i >= 0; i-- {
		ring = append(ring, right[i])
	}
	ring = append(ring, ring[0])
	return ring
}

// offsetSide walks the polyline emitting join points offset to one side.
// sign +1 is the left of travel, -1 the right. Endpoints are pushed out
// along the line direction to form the square cap corners.
func offsetSide(pts []orb.Point, half, miterLimit float64, sign float64) []orb.Point {
	n := len(pts)
	out := make([]orb.Point, 0, n+2)

	d0 := direction(pts[0], pts[1])
	n0 := leftNormal(d0)
	out = append(out, orb.Point{
		pts[0][0] - d0[0]*half + sign*n0[0]*half,
		pts[0][1] - d0[1]*half + sign*n0[1]*half,
	})

	for i := 1; i < n-1; i++ {
		din := direction(pts[i-1], pts[i])
		dout := direction(pts[i], pts[i+1])
		nin := scale(leftNormal(din), sign)
		nout := scale(leftNormal(dout), sign)

		mx, my := nin[0]+nout[0], nin[1]+nout[1]
		mlen := math.Hypot(mx, my)
		if mlen < 1e-9 {
			// Full reversal; fall back to a bevel pair.
			out = append(out, offset(pts[i], nin, half), offset(pts[i], nout, half))
			continue
		}
		m := orb.Point{mx / mlen, my / mlen}
		cosHalf := m[0]*nin[0] + m[1]*nin[1]
		if cosHalf < 1e-9 || 1/cosHalf > miterLimit {
			out = append(out, offset(pts[i], nin, half), offset(pts[i], nout, half))
			continue
		}
		out = append(out, offset(pts[i], m, half/cosHalf))
	}

	dn := direction(pts[n-2], pts[n-1])
	nn := leftNormal(dn)
	out = append(out, orb.Point{
		pts[n-1][0] + dn[0]*half + sign*nn[0]*half,
		pts[n-1][1] + dn[1]*half + sign*nn[1]*half,
	})
	return out
}

func direction(a, b orb.Point) orb.Point {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	return orb.Point{dx / l, dy / l}
}

func leftNormal(d orb.Point) orb.Point {
	return orb.Point{-d[1], d[0]}
}

func scale(p orb.Point, s float64) orb.Point {
	return orb.Point{p[0] * s, p[1] * s}
}

func offset(p, dir orb.Point, dist float64) orb.Point {
	return orb.Point{p[0] + dir[0]*dist, p[1] + dir[1]*dist}
}

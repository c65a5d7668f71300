// Package sanitize repairs and simplifies ingested features so every
// survivor is numerically safe to extrude. Features are never mutated;
// repaired copies are returned. A feature that cannot be repaired is
// dropped and counted, never fatal.
package sanitize

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/banshee-data/tactile.map/internal/geo"
)

// Options holds the sanitizer tolerances. All values are in the same units
// as the feature coordinates (degrees before projection); the pipeline
// converts its metric configuration at the dataset's reference latitude.
type Options struct {
	DedupeTolerance  float64
	BuildingSimplify float64
	PathSimplify     float64
	MinRingArea      float64
	MinPathLength    float64
}

// Stats counts the sanitizer's repairs and drops.
type Stats struct {
	Repaired           int // features whose ring needed intersection repair
	Split              int // extra features emitted by repairs
	DroppedDegenerate  int // collapsed below minimum vertex counts or area zero
	DroppedIrreparable int // self-intersections repair could not resolve
	DroppedSmall       int // below the minimum area/length thresholds
}

// Sanitize repairs, simplifies and filters the features. Footprint repair
// can split one feature into several simple polygons; each becomes its own
// feature, inserted at the original's position so order stays
// deterministic.
func Sanitize(features []geo.Feature, opts Options) ([]geo.Feature, Stats) {
	var stats Stats

	out := make([]geo.Feature, 0, len(features))
	for _, f := range features {
		switch f.Kind {
		case geo.KindBuilding:
			out = append(out, sanitizeBuilding(f, opts, &stats)...)
		case geo.KindWalkway:
			if w, ok := sanitizeWalkway(f, opts, &stats); ok {
				out = append(out, w)
			}
		}
	}
	return out, stats
}

func sanitizeBuilding(f geo.Feature, opts Options, stats *Stats) []geo.Feature {
	ring := geo.DedupRing(f.Ring, opts.DedupeTolerance)
	if len(ring) < 4 {
		stats.DroppedDegenerate++
		return nil
	}

	rings := []orb.Ring{ring}
	if !geo.RingSimple(ring) {
		repaired := RepairRing(ring)
		if len(repaired) == 0 {
			stats.DroppedIrreparable++
			return nil
		}
		stats.Repaired++
		if len(repaired) > 1 {
			stats.Split += len(repaired) - 1
		}
		rings = repaired
	}

	holes := sanitizeHoles(f.Holes, opts)

	var result []geo.Feature
	for _, r := range rings {
		r = simplifyRing(r, opts.BuildingSimplify)
		r = geo.DedupRing(r, opts.DedupeTolerance)
		if len(r) < 4 {
			stats.DroppedDegenerate++
			continue
		}
		area := geo.RingArea(r)
		if area == 0 {
			stats.DroppedDegenerate++
			continue
		}
		if area < opts.MinRingArea {
			stats.DroppedSmall++
			continue
		}
		result = append(result, geo.Feature{
			Kind:   geo.KindBuilding,
			Ring:   geo.OrientRing(r, true),
			Holes:  holesWithin(r, holes),
			Height: f.Height,
		})
	}
	return result
}

func sanitizeWalkway(f geo.Feature, opts Options, stats *Stats) (geo.Feature, bool) {
	line := geo.DedupLine(f.Line, opts.DedupeTolerance)
	if len(line) < 2 {
		stats.DroppedDegenerate++
		return geo.Feature{}, false
	}
	if opts.PathSimplify > 0 {
		line = simplify.DouglasPeucker(opts.PathSimplify).LineString(line)
	}
	if len(line) < 2 || geo.LineLength(line) < opts.MinPathLength {
		stats.DroppedSmall++
		return geo.Feature{}, false
	}
	return geo.Feature{Kind: geo.KindWalkway, Line: line}, true
}

// sanitizeHoles cleans interior rings independently. A hole that collapses
// or self-intersects is dropped; the footprint survives without it.
func sanitizeHoles(holes []orb.Ring, opts Options) []orb.Ring {
	var out []orb.Ring
	for _, h := range holes {
		h = geo.DedupRing(h, opts.DedupeTolerance)
		if len(h) < 4 || !geo.RingSimple(h) {
			continue
		}
		h = simplifyRing(h, opts.BuildingSimplify)
		if len(h) < 4 || geo.RingArea(h) < opts.MinRingArea {
			continue
		}
		out = append(out, geo.OrientRing(h, false))
	}
	return out
}

// holesWithin keeps the holes whose vertices fall inside the ring. After a
// split repair each piece only keeps its own holes.
func holesWithin(ring orb.Ring, holes []orb.Ring) []orb.Ring {
	var out []orb.Ring
	for _, h := range holes {
		if geo.RingContains(ring, h[0]) {
			out = append(out, h)
		}
	}
	return out
}

// simplifyRing runs Douglas-Peucker but falls back to the input when
// simplification would corrupt the ring (too few vertices or a new
// self-intersection, which the algorithm can introduce on rare inputs).
func simplifyRing(r orb.Ring, tol float64) orb.Ring {
	if tol <= 0 {
		return r
	}
	s := simplify.DouglasPeucker(tol).Ring(r.Clone())
	if len(s) < 4 || !s.Closed() || !geo.RingSimple(s) {
		return r
	}
	return s
}

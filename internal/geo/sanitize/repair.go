package sanitize

import (
	"github.com/paulmach/orb"

	"github.com/banshee-data/tactile.map/internal/geo"
)

// maxSplitDepth bounds the recursive ring splitting. A ring that still
// self-intersects after this many splits is treated as irreparable.
const maxSplitDepth = 10

// RepairRing resolves self-intersections by splitting the closed ring at
// each crossing point into sub-loops, recursively, until every loop is
// simple. The union of the returned rings covers the same region the
// original ring outlined (the buffer-by-zero behaviour: a bowtie becomes
// two triangles). Returns nil when the ring cannot be repaired.
//
// All returned rings are closed, counter-clockwise, and have non-zero
// area; slivers collapse and are discarded.
func RepairRing(r orb.Ring) []orb.Ring {
	return splitRing(r, maxSplitDepth)
}

func splitRing(r orb.Ring, depth int) []orb.Ring {
	if len(r) < 4 {
		return nil
	}

	i, j, at, found := geo.RingSelfIntersection(r)
	if !found {
		if geo.RingArea(r) == 0 {
			return nil
		}
		return []orb.Ring{geo.OrientRing(r, true)}
	}
	if depth == 0 {
		return nil
	}

	// Segment i spans r[i]..r[i+1], segment j spans r[j]..r[j+1], i < j.
	// Cutting at the crossing point yields one loop that skips the span
	// between the segments and one loop made of that span.
	n := len(r) - 1

	first := make(orb.Ring, 0, i+2+(n-j))
	first = append(first, r[:i+1]...)
	first = append(first, at)
	first = append(first, r[j+1:n]...)
	first = append(first, first[0])

	second := make(orb.Ring, 0, j-i+2)
	second = append(second, at)
	second = append(second, r[i+1:j+1]...)
	second = append(second, at)

	var out []orb.Ring
	out = append(out, splitRing(first, depth-1)...)
	out = append(out, splitRing(second, depth-1)...)
	return out
}

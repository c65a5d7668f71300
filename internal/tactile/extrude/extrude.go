// Package extrude turns planar footprints and paths into watertight solid
// fragments. Buildings become vertical prisms over their (possibly holed)
// footprints; walkways become low ribbons swept along their centreline.
//
// Winding convention: caps and walls are emitted counter-clockwise seen
// from outside the solid, so face normals always point outward.
package extrude

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/tactile.map/internal/geo"
	"github.com/banshee-data/tactile.map/internal/tactile/mesh"
)

// ErrDegenerate reports geometry too collapsed to form a solid.
var ErrDegenerate = errors.New("degenerate geometry")

func vec(p orb.Point, z float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: z}
}

// Prism extrudes the footprint vertically from z = 0 to z = height.
// The outer ring is normalized to counter-clockwise and holes to
// clockwise before tessellation, so callers can pass either orientation.
func Prism(outer orb.Ring, holes []orb.Ring, height, weldTol float64) (*mesh.Fragment, error) {
	if height <= 0 {
		return nil, fmt.Errorf("prism height %g: %w", height, ErrDegenerate)
	}
	outer = geo.OrientRing(outer, true)
	oriented := make([]orb.Ring, len(holes))
	for i, h := range holes {
		oriented[i] = geo.OrientRing(h, false)
	}

	frag := mesh.NewFragment(weldTol)
	if err := addPrism(frag, outer, oriented, height); err != nil {
		return nil, err
	}
	return frag, nil
}

// addPrism tessellates the footprint and emits caps and walls into frag.
// Rings must already be oriented (outer counter-clockwise, holes
// clockwise).
func addPrism(frag *mesh.Fragment, outer orb.Ring, holes []orb.Ring, height float64) error {
	tris := Triangulate(outer, holes)
	if len(tris) == 0 {
		return fmt.Errorf("footprint tessellation: %w", ErrDegenerate)
	}
	for _, t := range tris {
		// Bottom cap faces down, top cap faces up.
		frag.AddTriangle(vec(t[0], 0), vec(t[2], 0), vec(t[1], 0))
		frag.AddTriangle(vec(t[0], height), vec(t[1], height), vec(t[2], height))
	}
	wallRing(frag, outer, height)
	for _, h := range holes {
		wallRing(frag, h, height)
	}
	return nil
}

// wallRing emits side quads along the ring. With the outer ring wound
// counter-clockwise and holes clockwise, the same quad winding yields
// outward normals on both.
func wallRing(frag *mesh.Fragment, r orb.Ring, height float64) {
	for i := 0; i+1 < len(r); i++ {
		b0, b1 := vec(r[i], 0), vec(r[i+1], 0)
		t0, t1 := vec(r[i], height), vec(r[i+1], height)
		frag.AddTriangle(b0, b1, t1)
		frag.AddTriangle(b0, t1, t0)
	}
}

// Feature extrudes a planar feature into solid fragments using the given
// path dimensions for walkways. Building heights come from the feature.
// Buildings yield one fragment; a walkway yields one per simple outline
// loop.
func Feature(f geo.PlanarFeature, pathWidth, pathHeight, miterLimit, weldTol float64) ([]*mesh.Fragment, error) {
	switch f.Kind {
	case geo.KindBuilding:
		frag, err := Prism(f.Ring, f.Holes, f.Height, weldTol)
		if err != nil {
			return nil, err
		}
		return []*mesh.Fragment{frag}, nil
	case geo.KindWalkway:
		return Ribbon(f.Line, pathWidth, pathHeight, miterLimit, weldTol)
	default:
		return nil, fmt.Errorf("unknown feature kind %d: %w", f.Kind, ErrDegenerate)
	}
}

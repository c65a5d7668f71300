// Package project maps geographic features into a local planar frame with
// metre units, using an equirectangular projection anchored at the
// dataset's centroid. Over a neighbourhood-scale extent the distortion is
// well under a percent, which is far below print resolution.
package project

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/banshee-data/tactile.map/internal/geo"
	"github.com/banshee-data/tactile.map/internal/units"
)

// Context holds the projection anchor. The same Context must be used for
// every feature of a dataset so they share one planar frame.
type Context struct {
	// Reference is the geographic anchor (lon, lat). It maps to (0, 0)
	// in the planar frame.
	Reference orb.Point

	cosLat float64
}

// NewContext returns a projection anchored at the given geographic point.
func NewContext(reference orb.Point) *Context {
	return &Context{
		Reference: reference,
		cosLat:    cosDeg(reference[1]),
	}
}

// ForFeatures anchors the projection at the vertex centroid of the
// features. Returns ErrEmptyDataset when no feature has a vertex.
func ForFeatures(features []geo.Feature) (*Context, error) {
	var sumLon, sumLat float64
	var n int
	for _, f := range features {
		for _, p := range ringAndLinePoints(f) {
			sumLon += p[0]
			sumLat += p[1]
			n++
		}
	}
	if n == 0 {
		return nil, geo.ErrEmptyDataset
	}
	return NewContext(orb.Point{sumLon / float64(n), sumLat / float64(n)}), nil
}

// ToPlanar projects a geographic point to planar metres relative to the
// reference.
func (c *Context) ToPlanar(p orb.Point) orb.Point {
	x := units.EarthRadiusMeters * c.cosLat * units.DegToRad(p[0]-c.Reference[0])
	y := units.EarthRadiusMeters * units.DegToRad(p[1]-c.Reference[1])
	return orb.Point{x, y}
}

// ToGeographic is the inverse of ToPlanar.
func (c *Context) ToGeographic(p orb.Point) orb.Point {
	lon := c.Reference[0] + units.RadToDeg(p[0]/(units.EarthRadiusMeters*c.cosLat))
	lat := c.Reference[1] + units.RadToDeg(p[1]/units.EarthRadiusMeters)
	return orb.Point{lon, lat}
}

// Feature projects every vertex of f, preserving kind, holes and height.
func (c *Context) Feature(f geo.Feature) geo.PlanarFeature {
	out := geo.PlanarFeature{
		Kind:   f.Kind,
		Height: f.Height,
		Origin: c.Reference,
	}
	if f.Ring != nil {
		out.Ring = c.ring(f.Ring)
	}
	for _, h := range f.Holes {
		out.Holes = append(out.Holes, c.ring(h))
	}
	if f.Line != nil {
		out.Line = make(orb.LineString, len(f.Line))
		for i, p := range f.Line {
			out.Line[i] = c.ToPlanar(p)
		}
	}
	return out
}

// Features projects the whole dataset in input order.
func (c *Context) Features(features []geo.Feature) []geo.PlanarFeature {
	out := make([]geo.PlanarFeature, len(features))
	for i, f := range features {
		out[i] = c.Feature(f)
	}
	return out
}

func (c *Context) ring(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = c.ToPlanar(p)
	}
	return out
}

func ringAndLinePoints(f geo.Feature) []orb.Point {
	if f.Ring != nil {
		return f.Ring
	}
	return f.Line
}

func cosDeg(deg float64) float64 {
	// Avoid a degenerate frame at the poles; datasets there are not
	// meaningful inputs anyway.
	c := math.Cos(units.DegToRad(deg))
	if c < 1e-6 {
		return 1e-6
	}
	return c
}

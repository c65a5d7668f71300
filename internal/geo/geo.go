// Package geo defines the feature model shared by all pipeline stages and
// the ingest boundary that turns raw data-source records into features.
//
// Coordinates are geographic (longitude, latitude) until the projector
// derives PlanarFeatures in a local metric frame. Features are immutable
// once produced; downstream stages return new values instead of mutating.
package geo

import (
	"errors"

	"github.com/paulmach/orb"
)

// Kind tags a record or feature as a building footprint or walkway path.
type Kind int

const (
	KindBuilding Kind = iota
	KindWalkway
)

// String returns the lowercase tag used in logs and reports.
func (k Kind) String() string {
	switch k {
	case KindBuilding:
		return "building"
	case KindWalkway:
		return "walkway"
	default:
		return "unknown"
	}
}

// ErrEmptyDataset reports that no usable features survived a stage. The
// pipeline driver treats it as ordinary control flow and switches to the
// fallback scene.
var ErrEmptyDataset = errors.New("no usable geometry in dataset")

// RawRecord is one record from the data-acquisition boundary: a kind tag
// and a vertex sequence in geographic coordinates. Holes carries optional
// interior rings for building footprints. Height is metres when the source
// provided one, 0 when unknown.
type RawRecord struct {
	Kind     Kind
	Vertices []orb.Point
	Holes    [][]orb.Point
	Height   float64
}

// Feature is a validated geographic feature. Buildings carry a closed Ring
// (first and last point coincide) and optional Holes; walkways carry an
// open Line. Exactly one of Ring/Line is populated, per Kind.
type Feature struct {
	Kind   Kind
	Ring   orb.Ring
	Holes  []orb.Ring
	Line   orb.LineString
	Height float64
}

// PlanarFeature is a Feature projected into the local planar metric frame.
// Origin records the projection's geographic reference point.
type PlanarFeature struct {
	Kind   Kind
	Ring   orb.Ring
	Holes  []orb.Ring
	Line   orb.LineString
	Height float64
	Origin orb.Point
}

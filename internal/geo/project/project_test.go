package project

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/banshee-data/tactile.map/internal/geo"
)

func TestToPlanarDistanceAgainstHaversine(t *testing.T) {
	tests := []struct {
		name   string
		ref    orb.Point
		target orb.Point
	}{
		{"equator east", orb.Point{0, 0}, orb.Point{0.01, 0}},
		{"equator north", orb.Point{0, 0}, orb.Point{0, 0.01}},
		{"mid latitude", orb.Point{-122.4, 37.77}, orb.Point{-122.39, 37.775}},
		{"high latitude", orb.Point{10, 60}, orb.Point{10.01, 60.005}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(tt.ref)
			p := c.ToPlanar(tt.target)
			planar := math.Hypot(p[0], p[1])
			great := orbgeo.Distance(tt.ref, tt.target)

			// Within a couple of percent at neighbourhood scale.
			if math.Abs(planar-great)/great > 0.02 {
				t.Errorf("planar %f vs great-circle %f", planar, great)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := NewContext(orb.Point{-0.1276, 51.5072})
	in := orb.Point{-0.1300, 51.5100}
	out := c.ToGeographic(c.ToPlanar(in))
	if math.Abs(out[0]-in[0]) > 1e-9 || math.Abs(out[1]-in[1]) > 1e-9 {
		t.Errorf("round trip %v -> %v", in, out)
	}
}

func TestReferenceMapsToOrigin(t *testing.T) {
	ref := orb.Point{13.4, 52.52}
	c := NewContext(ref)
	p := c.ToPlanar(ref)
	if p[0] != 0 || p[1] != 0 {
		t.Errorf("reference projected to %v, want origin", p)
	}
}

func TestForFeaturesCentroid(t *testing.T) {
	features := []geo.Feature{
		{Kind: geo.KindWalkway, Line: orb.LineString{{0, 0}, {2, 0}}},
		{Kind: geo.KindWalkway, Line: orb.LineString{{2, 2}, {0, 2}}},
	}
	c, err := ForFeatures(features)
	if err != nil {
		t.Fatalf("ForFeatures failed: %v", err)
	}
	if c.Reference[0] != 1 || c.Reference[1] != 1 {
		t.Errorf("centroid = %v, want (1,1)", c.Reference)
	}
}

func TestForFeaturesEmpty(t *testing.T) {
	if _, err := ForFeatures(nil); err != geo.ErrEmptyDataset {
		t.Errorf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestFeatureProjection(t *testing.T) {
	c := NewContext(orb.Point{0, 0})
	f := geo.Feature{
		Kind:   geo.KindBuilding,
		Ring:   orb.Ring{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0}},
		Holes:  []orb.Ring{{{0.0002, 0.0002}, {0.0002, 0.0004}, {0.0004, 0.0004}, {0.0004, 0.0002}, {0.0002, 0.0002}}},
		Height: 12,
	}

	pf := c.Feature(f)
	if pf.Height != 12 {
		t.Errorf("height = %f, want 12", pf.Height)
	}
	if len(pf.Ring) != len(f.Ring) || len(pf.Holes) != 1 {
		t.Fatal("geometry counts changed during projection")
	}
	// 0.001 degree of latitude is roughly 111 metres.
	if math.Abs(pf.Ring[2][1]-111.19) > 1 {
		t.Errorf("projected extent = %f m, want about 111", pf.Ring[2][1])
	}
	if pf.Origin != c.Reference {
		t.Errorf("origin = %v, want %v", pf.Origin, c.Reference)
	}
}

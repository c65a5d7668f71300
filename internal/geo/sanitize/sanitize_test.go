package sanitize

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	"github.com/banshee-data/tactile.map/internal/geo"
)

func defaultOptions() Options {
	return Options{
		DedupeTolerance:  0.001,
		BuildingSimplify: 0.01,
		PathSimplify:     0.01,
		MinRingArea:      0.5,
		MinPathLength:    0.5,
	}
}

func square(size float64) orb.Ring {
	return orb.Ring{{0, 0}, {size, 0}, {size, size}, {0, size}, {0, 0}}
}

func TestSanitizeKeepsValidFeatures(t *testing.T) {
	features := []geo.Feature{
		{Kind: geo.KindBuilding, Ring: square(10), Height: 8},
		{Kind: geo.KindWalkway, Line: orb.LineString{{0, 0}, {5, 5}}},
	}

	out, stats := Sanitize(features, defaultOptions())
	if len(out) != 2 {
		t.Fatalf("got %d features, want 2 (stats %+v)", len(out), stats)
	}
	if out[0].Height != 8 {
		t.Errorf("height not carried through: %f", out[0].Height)
	}
	if out[0].Ring.Orientation() != orb.CCW {
		t.Error("footprint not normalized to CCW")
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	features := []geo.Feature{
		{Kind: geo.KindBuilding, Ring: geo.OrientRing(square(10), true)},
		{Kind: geo.KindWalkway, Line: orb.LineString{{0, 0}, {3, 0}, {3, 7}}},
	}

	once, _ := Sanitize(features, defaultOptions())
	twice, _ := Sanitize(once, defaultOptions())

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("sanitize not idempotent (-once +twice):\n%s", diff)
	}
}

func TestSanitizeRepairsBowtie(t *testing.T) {
	// A bowtie self-intersects at (5,5) and splits into two triangles.
	bowtie := orb.Ring{{0, 0}, {10, 10}, {10, 0}, {0, 10}, {0, 0}}
	features := []geo.Feature{{Kind: geo.KindBuilding, Ring: bowtie}}

	out, stats := Sanitize(features, defaultOptions())
	if len(out) != 2 {
		t.Fatalf("got %d features, want 2 (stats %+v)", len(out), stats)
	}
	if stats.Repaired != 1 || stats.Split != 1 {
		t.Errorf("stats = %+v, want Repaired 1 Split 1", stats)
	}

	totalArea := 0.0
	for _, f := range out {
		if !geo.RingSimple(f.Ring) {
			t.Error("repaired ring still self-intersects")
		}
		if f.Ring.Orientation() != orb.CCW {
			t.Error("repaired ring not CCW")
		}
		totalArea += geo.RingArea(f.Ring)
	}
	// Each triangle of the 10x10 bowtie covers 25.
	if math.Abs(totalArea-50) > 1e-9 {
		t.Errorf("total repaired area = %f, want 50", totalArea)
	}
}

func TestSanitizeDropsDegenerateFootprint(t *testing.T) {
	collinear := orb.Ring{{0, 0}, {5, 0}, {10, 0}, {0, 0}}
	features := []geo.Feature{
		{Kind: geo.KindBuilding, Ring: collinear},
		{Kind: geo.KindBuilding, Ring: square(10)},
	}

	out, stats := Sanitize(features, defaultOptions())
	if len(out) != 1 {
		t.Fatalf("got %d features, want 1 (stats %+v)", len(out), stats)
	}
	if stats.DroppedDegenerate+stats.DroppedSmall != 1 {
		t.Errorf("degenerate footprint not counted: %+v", stats)
	}
}

func TestSanitizeDropsSmallFeatures(t *testing.T) {
	features := []geo.Feature{
		{Kind: geo.KindBuilding, Ring: square(0.1)}, // area 0.01 < 0.5
		{Kind: geo.KindWalkway, Line: orb.LineString{{0, 0}, {0.1, 0}}},
	}

	out, stats := Sanitize(features, defaultOptions())
	if len(out) != 0 {
		t.Fatalf("got %d features, want 0", len(out))
	}
	if stats.DroppedSmall != 2 {
		t.Errorf("DroppedSmall = %d, want 2", stats.DroppedSmall)
	}
}

func TestSanitizeSimplifiesCollinearRuns(t *testing.T) {
	// Extra vertices along the bottom edge collapse under simplification.
	ring := orb.Ring{{0, 0}, {2, 0.001}, {4, 0}, {6, 0.001}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	features := []geo.Feature{{Kind: geo.KindBuilding, Ring: ring}}

	out, _ := Sanitize(features, defaultOptions())
	if len(out) != 1 {
		t.Fatalf("got %d features, want 1", len(out))
	}
	if len(out[0].Ring) >= len(ring) {
		t.Errorf("ring not simplified: %d -> %d vertices", len(ring), len(out[0].Ring))
	}
}

func TestSanitizeDropsSelfIntersectingHole(t *testing.T) {
	holeBowtie := orb.Ring{{2, 2}, {4, 4}, {4, 2}, {2, 4}, {2, 2}}
	holeGood := orb.Ring{{6, 6}, {8, 6}, {8, 8}, {6, 8}, {6, 6}}
	features := []geo.Feature{{
		Kind:  geo.KindBuilding,
		Ring:  square(10),
		Holes: []orb.Ring{holeBowtie, holeGood},
	}}

	out, _ := Sanitize(features, defaultOptions())
	if len(out) != 1 {
		t.Fatalf("got %d features, want 1", len(out))
	}
	if len(out[0].Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(out[0].Holes))
	}
	if out[0].Holes[0].Orientation() != orb.CW {
		t.Error("hole not normalized to CW")
	}
}

func TestRepairRingSimpleInputUnchanged(t *testing.T) {
	r := geo.OrientRing(square(5), true)
	out := RepairRing(r)
	if len(out) != 1 {
		t.Fatalf("got %d rings, want 1", len(out))
	}
	if math.Abs(geo.RingArea(out[0])-25) > 1e-9 {
		t.Errorf("area = %f, want 25", geo.RingArea(out[0]))
	}
}

package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestRingSelfIntersection(t *testing.T) {
	tests := []struct {
		name  string
		ring  orb.Ring
		found bool
	}{
		{
			"simple square",
			orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
			false,
		},
		{
			"bowtie",
			orb.Ring{{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0}},
			true,
		},
		{
			"triangle",
			orb.Ring{{0, 0}, {4, 0}, {2, 3}, {0, 0}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, found := RingSelfIntersection(tt.ring)
			if found != tt.found {
				t.Errorf("found = %v, want %v", found, tt.found)
			}
		})
	}
}

func TestBowtieCrossingPoint(t *testing.T) {
	// The bowtie's diagonals cross at (1,1).
	ring := orb.Ring{{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0}}
	_, _, at, found := RingSelfIntersection(ring)
	if !found {
		t.Fatal("expected a self-intersection")
	}
	if math.Abs(at[0]-1) > 1e-9 || math.Abs(at[1]-1) > 1e-9 {
		t.Errorf("crossing at %v, want (1,1)", at)
	}
}

func TestDedupRing(t *testing.T) {
	ring := orb.Ring{{0, 0}, {0, 0}, {1, 0}, {1, 0.0000001}, {1, 1}, {0, 1}, {0, 0}}
	out := DedupRing(ring, 0.001)
	if !out.Closed() {
		t.Fatal("deduped ring not closed")
	}
	if len(out) != 5 {
		t.Errorf("deduped ring has %d vertices, want 5", len(out))
	}
}

func TestOrientRing(t *testing.T) {
	cw := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	ccw := OrientRing(cw, true)
	if ccw.Orientation() != orb.CCW {
		t.Error("expected CCW orientation")
	}
	// Already correct orientation is returned unchanged.
	same := OrientRing(ccw, true)
	if &same[0] != &ccw[0] {
		t.Error("expected no copy for already-oriented ring")
	}
}

func TestRingContains(t *testing.T) {
	square := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	if !RingContains(square, orb.Point{5, 5}) {
		t.Error("center should be inside")
	}
	if RingContains(square, orb.Point{15, 5}) {
		t.Error("outside point reported inside")
	}
}

func TestLineLength(t *testing.T) {
	ls := orb.LineString{{0, 0}, {3, 0}, {3, 4}}
	if got := LineLength(ls); math.Abs(got-7) > 1e-12 {
		t.Errorf("LineLength = %f, want 7", got)
	}
}

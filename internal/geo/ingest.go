package geo

import (
	"github.com/paulmach/orb"
)

// IngestStats counts what the ingestor did with the raw records.
type IngestStats struct {
	Records          int
	Accepted         int
	DroppedTooFew    int
	DroppedNonFinite int
}

// exactTol treats only effectively identical consecutive vertices as
// duplicates during ingest; real cleanup happens in the sanitizer.
const exactTol = 1e-12

// Ingest normalizes raw records into Features. Invalid records are dropped
// and counted, never fatal. Input order is preserved so downstream output
// is reproducible.
func Ingest(records []RawRecord) ([]Feature, IngestStats) {
	stats := IngestStats{Records: len(records)}

	features := make([]Feature, 0, len(records))
	for _, rec := range records {
		f, ok := ingestOne(rec, &stats)
		if !ok {
			continue
		}
		features = append(features, f)
		stats.Accepted++
	}
	return features, stats
}

func ingestOne(rec RawRecord, stats *IngestStats) (Feature, bool) {
	for _, p := range rec.Vertices {
		if !FinitePoint(p) {
			stats.DroppedNonFinite++
			return Feature{}, false
		}
	}
	for _, hole := range rec.Holes {
		for _, p := range hole {
			if !FinitePoint(p) {
				stats.DroppedNonFinite++
				return Feature{}, false
			}
		}
	}

	switch rec.Kind {
	case KindBuilding:
		ring := closeRing(rec.Vertices)
		ring = DedupRing(ring, exactTol)
		if len(ring) < 4 { // 3 distinct vertices plus the closing one
			stats.DroppedTooFew++
			return Feature{}, false
		}

		// Holes that collapse are dropped individually; the footprint
		// itself survives.
		var holes []orb.Ring
		for _, h := range rec.Holes {
			hr := DedupRing(closeRing(h), exactTol)
			if len(hr) >= 4 {
				holes = append(holes, hr)
			}
		}

		return Feature{Kind: KindBuilding, Ring: ring, Holes: holes, Height: rec.Height}, true

	case KindWalkway:
		line := DedupLine(orb.LineString(rec.Vertices), exactTol)
		if len(line) < 2 {
			stats.DroppedTooFew++
			return Feature{}, false
		}
		return Feature{Kind: KindWalkway, Line: line}, true

	default:
		stats.DroppedTooFew++
		return Feature{}, false
	}
}

// closeRing returns the vertices as a closed ring, appending the first
// vertex when the source left the ring open.
func closeRing(vertices []orb.Point) orb.Ring {
	if len(vertices) == 0 {
		return nil
	}
	ring := make(orb.Ring, len(vertices), len(vertices)+1)
	copy(ring, vertices)
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

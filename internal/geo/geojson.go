package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// HeightDefaults controls how attribute-derived building heights are
// resolved from GeoJSON properties.
type HeightDefaults struct {
	LevelHeight float64 // metres per building level
}

// ReadGeoJSON parses a GeoJSON FeatureCollection into raw records.
// Polygons and MultiPolygons become building footprints (one record per
// polygon, interior rings preserved as holes); LineStrings and
// MultiLineStrings become walkway paths. Other geometry types are skipped.
// Record order follows the file, so runs are reproducible.
func ReadGeoJSON(data []byte, hd HeightDefaults) ([]RawRecord, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	var records []RawRecord
	for _, f := range fc.Features {
		height := heightFromProperties(f.Properties, hd)
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			records = append(records, polygonRecord(g, height))
		case orb.MultiPolygon:
			for _, poly := range g {
				records = append(records, polygonRecord(poly, height))
			}
		case orb.LineString:
			records = append(records, RawRecord{Kind: KindWalkway, Vertices: g})
		case orb.MultiLineString:
			for _, ls := range g {
				records = append(records, RawRecord{Kind: KindWalkway, Vertices: ls})
			}
		}
	}
	return records, nil
}

func polygonRecord(poly orb.Polygon, height float64) RawRecord {
	rec := RawRecord{Kind: KindBuilding, Height: height}
	if len(poly) == 0 {
		return rec
	}
	rec.Vertices = poly[0]
	for _, hole := range poly[1:] {
		rec.Holes = append(rec.Holes, hole)
	}
	return rec
}

// heightFromProperties resolves a building height in metres from OSM-style
// tags: "height" wins, then "building:levels" scaled by the configured
// level height. Returns 0 when neither parses.
func heightFromProperties(props geojson.Properties, hd HeightDefaults) float64 {
	if h, ok := numericProperty(props, "height"); ok && h > 0 {
		return h
	}
	if levels, ok := numericProperty(props, "building:levels"); ok && levels > 0 {
		return levels * hd.LevelHeight
	}
	return 0
}

// numericProperty reads a property that sources encode either as a JSON
// number or as a string, sometimes with a unit suffix ("12 m").
func numericProperty(props geojson.Properties, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "m"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

package units

import (
	"math"
	"testing"
)

func TestMetersPerDegreeLat(t *testing.T) {
	// One degree of latitude is ~111.19 km on the spherical model.
	if math.Abs(MetersPerDegreeLat-111194.9) > 1.0 {
		t.Errorf("MetersPerDegreeLat = %f, want ~111194.9", MetersPerDegreeLat)
	}
}

func TestMetersPerDegreeLon(t *testing.T) {
	tests := []struct {
		name     string
		latDeg   float64
		expected float64
	}{
		{"equator matches latitude spacing", 0.0, MetersPerDegreeLat},
		{"60 degrees north is half", 60.0, MetersPerDegreeLat / 2},
		{"45 degrees", 45.0, MetersPerDegreeLat * math.Sqrt2 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MetersPerDegreeLon(tt.latDeg)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("MetersPerDegreeLon(%f) = %f, want %f", tt.latDeg, result, tt.expected)
			}
		})
	}
}

func TestDegreeConversionRoundTrip(t *testing.T) {
	for _, lat := range []float64{0, 30, 51.5, -45} {
		meters := 1000.0
		deg := MetersToDegreesLon(meters, lat)
		back := deg * MetersPerDegreeLon(lat)
		if math.Abs(back-meters) > 1e-6 {
			t.Errorf("lat %f: round trip %f != %f", lat, back, meters)
		}
	}
}

func TestDegRadRoundTrip(t *testing.T) {
	if got := RadToDeg(DegToRad(123.45)); math.Abs(got-123.45) > 1e-12 {
		t.Errorf("RadToDeg(DegToRad(123.45)) = %f", got)
	}
}

// Package units provides shared geometric constants and conversions between
// geographic degrees and model metres
package units

import "math"

// EarthRadiusMeters is the mean Earth radius used by the local projection.
const EarthRadiusMeters = 6371000.0

// MetersPerDegreeLat is the length of one degree of latitude. It is the same
// at every latitude on the spherical model.
const MetersPerDegreeLat = EarthRadiusMeters * math.Pi / 180.0

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// MetersPerDegreeLon returns the length of one degree of longitude at the
// given latitude. Shrinks towards the poles.
func MetersPerDegreeLon(latDeg float64) float64 {
	return MetersPerDegreeLat * math.Cos(DegToRad(latDeg))
}

// MetersToDegreesLat converts a metric distance to degrees of latitude.
func MetersToDegreesLat(meters float64) float64 {
	return meters / MetersPerDegreeLat
}

// MetersToDegreesLon converts a metric distance to degrees of longitude at
// the given latitude.
func MetersToDegreesLon(meters, latDeg float64) float64 {
	return meters / MetersPerDegreeLon(latDeg)
}

package entity

import "math"

// EarthRadiusKm is the sphere radius used for great-circle distances.
const EarthRadiusKm = 6371.0

type GeoPoint struct {
	Lat float64
	Lon float64
}

// DistanceKm computes the great-circle distance between two points with the
// spherical law of cosines, the same formula the postgres backend evaluates
// as a query predicate.
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	lat1 := radians(p.Lat)
	lat2 := radians(other.Lat)
	dLon := radians(other.Lon) - radians(p.Lon)

	cosine := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon) + math.Sin(lat1)*math.Sin(lat2)
	// rounding can push the cosine a hair outside [-1, 1]
	cosine = math.Max(-1, math.Min(1, cosine))

	return EarthRadiusKm * math.Acos(cosine)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

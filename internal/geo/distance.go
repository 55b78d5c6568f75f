// Package geo provides great-circle distance math for ranking listings
// against nearby points of interest.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the haversine distance between two points in kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*(math.Pi/180.0))*math.Cos(lat2*(math.Pi/180.0))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Nearest scans candidates linearly and returns the index of the one closest
// to from, together with its distance. Ties resolve to the first candidate in
// iteration order. ok is false only when candidates is empty.
func Nearest(from Point, candidates []Point) (index int, km float64, ok bool) {
	if len(candidates) == 0 {
		return 0, 0, false
	}

	index = 0
	km = DistanceKm(from.Lat, from.Lon, candidates[0].Lat, candidates[0].Lon)
	for i := 1; i < len(candidates); i++ {
		d := DistanceKm(from.Lat, from.Lon, candidates[i].Lat, candidates[i].Lon)
		if d < km {
			index = i
			km = d
		}
	}
	return index, km, true
}

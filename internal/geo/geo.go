// Package geo provides the geodesic primitives the routing and composition
// layers are built on. Everything here is a pure function of its inputs and
// safe for concurrent use.
package geo

import (
	"math"

	"github.com/communitytransit/directions-backend/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between two coordinates in
// kilometers, computed with the haversine formula. NaN inputs propagate.
func Distance(a, b models.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Centroid returns the arithmetic mean of the latitudes and longitudes of a
// point set. This is a flat-Euclidean approximation of the true spherical
// centroid: fine for the small clusters a single directions query produces,
// but it degrades near the antimeridian and the poles. The caller must
// guarantee a non-empty slice.
func Centroid(points []models.Coordinate) models.Coordinate {
	var latSum, lonSum float64
	for _, p := range points {
		latSum += p.Lat
		lonSum += p.Lon
	}
	n := float64(len(points))
	return models.Coordinate{Lat: latSum / n, Lon: lonSum / n}
}

package geo

import (
	"math"
	"testing"

	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Run("Zero For Identical Points", func(t *testing.T) {
		points := []models.Coordinate{
			{Lat: 0, Lon: 0},
			{Lat: 13.7853, Lon: 121.07339},
			{Lat: -89.9, Lon: 179.9},
		}
		for _, p := range points {
			assert.Equal(t, 0.0, Distance(p, p))
		}
	})

	t.Run("Symmetry", func(t *testing.T) {
		a := models.Coordinate{Lat: 13.7853, Lon: 121.07339}
		b := models.Coordinate{Lat: 14.5995, Lon: 120.9842}
		assert.Equal(t, Distance(a, b), Distance(b, a))
	})

	t.Run("Quarter Great Circle", func(t *testing.T) {
		// (0,0) to (0,90) spans a quarter of the equator.
		d := Distance(models.Coordinate{Lat: 0, Lon: 0}, models.Coordinate{Lat: 0, Lon: 90})
		assert.InDelta(t, math.Pi/2*EarthRadiusKm, d, 1e-9)
	})

	t.Run("Known City Pair", func(t *testing.T) {
		// Batangas City to Manila is roughly 95 km as the crow flies.
		d := Distance(
			models.Coordinate{Lat: 13.7565, Lon: 121.0583},
			models.Coordinate{Lat: 14.5995, Lon: 120.9842},
		)
		assert.Greater(t, d, 85.0)
		assert.Less(t, d, 105.0)
	})

	t.Run("NaN Propagates", func(t *testing.T) {
		d := Distance(models.Coordinate{Lat: math.NaN(), Lon: 0}, models.Coordinate{Lat: 0, Lon: 0})
		assert.True(t, math.IsNaN(d))
	})
}

func TestCentroid(t *testing.T) {
	t.Run("Single Point", func(t *testing.T) {
		p := models.Coordinate{Lat: 13.7853, Lon: 121.07339}
		assert.Equal(t, p, Centroid([]models.Coordinate{p}))
	})

	t.Run("Symmetric Set", func(t *testing.T) {
		center := models.Coordinate{Lat: 10, Lon: 20}
		points := []models.Coordinate{
			{Lat: 9, Lon: 19},
			{Lat: 11, Lon: 21},
			{Lat: 9, Lon: 21},
			{Lat: 11, Lon: 19},
		}
		got := Centroid(points)
		assert.InDelta(t, center.Lat, got.Lat, 1e-12)
		assert.InDelta(t, center.Lon, got.Lon, 1e-12)
	})

	t.Run("Pair Midpoint", func(t *testing.T) {
		got := Centroid([]models.Coordinate{
			{Lat: 0, Lon: 0},
			{Lat: 2, Lon: 4},
		})
		assert.Equal(t, models.Coordinate{Lat: 1, Lon: 2}, got)
	})
}

package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in kilometres
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// BoundingBox is a lat/lng rectangle enclosing a circle
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBoxAround returns a box containing every point within radiusKm of (lat, lng).
// Longitude spans the full range when the circle reaches a pole.
func BoundingBoxAround(lat, lng, radiusKm float64) BoundingBox {
	angular := radiusKm / earthRadiusKm
	dLat := angular * 180 / math.Pi
	box := BoundingBox{
		MinLat: math.Max(-90, lat-dLat),
		MaxLat: math.Min(90, lat+dLat),
		MinLng: -180,
		MaxLng: 180,
	}

	ratio := math.Sin(angular) / math.Cos(lat*math.Pi/180)
	if box.MaxLat < 90 && box.MinLat > -90 && ratio < 1 {
		dLng := math.Asin(ratio) * 180 / math.Pi
		// a box crossing the antimeridian keeps the full range
		if lng-dLng >= -180 && lng+dLng <= 180 {
			box.MinLng = lng - dLng
			box.MaxLng = lng + dLng
		}
	}
	return box
}

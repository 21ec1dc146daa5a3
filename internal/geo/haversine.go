package geo

import "math"

const earthRadiusM = 6_371_000

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// HaversineDistance returns the great-circle distance in meters between two
// lat/lng points. Used for the "still near the previous stop" gate.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

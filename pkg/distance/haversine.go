package distance

import (
	"math"

	"github.com/jftuga/geodist"
)

const (
	EarthRadiusKm = 6367.0
	KmPerMile     = 1.609344
)

// Miles returns the great-circle distance between two points in whole miles
// using the haversine formula. Degrees outside the usual ranges are used as
// given. Non-finite input, or a result that is not a number, yields 0, which
// callers cannot tell apart from a genuine zero distance.
func Miles(latOrigin, lonOrigin, latDest, lonDest float64) int {
	if !finite(latOrigin, lonOrigin, latDest, lonDest) {
		return 0
	}

	lat1 := toRadians(latOrigin)
	lat2 := toRadians(latDest)
	dLat := lat2 - lat1
	dLon := toRadians(lonDest) - toRadians(lonOrigin)

	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	miles := EarthRadiusKm * c / KmPerMile

	if math.IsNaN(miles) || math.IsInf(miles, 0) {
		return 0
	}
	return int(miles)
}

// VincentyMiles measures on the WGS-84 ellipsoid. The ellipsoid formulas need
// real coordinates, so out-of-range degrees and non-convergence also yield 0.
func VincentyMiles(latOrigin, lonOrigin, latDest, lonDest float64) int {
	if !validCoord(latOrigin, lonOrigin) || !validCoord(latDest, lonDest) {
		return 0
	}

	origin := geodist.Coord{Lat: latOrigin, Lon: lonOrigin}
	dest := geodist.Coord{Lat: latDest, Lon: lonDest}
	mi, _, err := geodist.VincentyDistance(origin, dest)
	if err != nil || math.IsNaN(mi) {
		return 0
	}
	return int(mi)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validCoord(lat, lon float64) bool {
	if !finite(lat, lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

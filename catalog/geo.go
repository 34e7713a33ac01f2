package catalog

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// FormatOrigin renders coordinates the way ListLocations expects them.
func FormatOrigin(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// ParseOrigin parses a "lat,lng" pair.
func ParseOrigin(origin string) (lat, lng float64, ok bool) {
	latStr, lngStr, found := strings.Cut(origin, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// DistanceKm is the haversine distance between two points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// SortByDistance orders locations nearest first when origin parses and
// leaves them untouched otherwise. The sort is stable.
func SortByDistance(locations []Location, origin string) []Location {
	lat, lng, ok := ParseOrigin(origin)
	if !ok {
		return locations
	}
	slices.SortStableFunc(locations, func(a, b Location) int {
		da := DistanceKm(lat, lng, a.Latitude, a.Longitude)
		db := DistanceKm(lat, lng, b.Latitude, b.Longitude)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return locations
}

package geo

import (
	"math"

	"github.com/barriolab/vecino/pkg/domain/model"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance in kilometers between two
// coordinate pairs.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := radians(lat1)
	rlat2 := radians(lat2)
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// RecordDistanceKm returns the distance from the user's location to the
// record, or nil when the record has no coordinates.
func RecordDistanceKm(loc *model.Location, rec *model.Record) *float64 {
	if loc == nil || !rec.HasCoordinates() {
		return nil
	}
	d := DistanceKm(loc.Latitude, loc.Longitude, *rec.Latitude, *rec.Longitude)
	return &d
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

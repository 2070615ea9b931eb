package parser

import (
	"math"
)

// ValidateCoordinate checks a WGS-84 coordinate in decimal degrees.
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return &ErrInvalidCoordinate{Lat: lat, Lon: lon}
	}
	if lat < -90.0 || lat > 90.0 {
		return &ErrInvalidCoordinate{Lat: lat, Lon: lon}
	}
	if lon < -180.0 || lon > 180.0 {
		return &ErrInvalidCoordinate{Lat: lat, Lon: lon}
	}
	return nil
}

// InvalidGeographic counts vertices that are not valid lon/lat degrees.
//
// Invalid vertices are never dropped: the vertex sequence is correlated with
// the attribute table by position, so removing one would shift every label
// after it.
func (s *PointSet) InvalidGeographic() int {
	n := 0
	for _, v := range s.Vertices {
		if ValidateCoordinate(v.XY.Lat(), v.XY.Lon()) != nil {
			n++
		}
	}
	return n
}

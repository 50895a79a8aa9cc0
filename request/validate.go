package request

import "github.com/dcsaferoutes/saferoute/geomath"

// Washington DC service-area bounding box.
const (
	serviceAreaNorth = 38.995
	serviceAreaSouth = 38.791
	serviceAreaEast  = -76.909
	serviceAreaWest  = -77.119
)

// ValidateCoordinate rejects NaN/out-of-range coordinates (ErrInvalidCoordinates)
// and coordinates outside the Washington DC service area (ErrOutsideServiceArea).
func ValidateCoordinate(c geomath.Coord) error {
	if !c.Valid() {
		return &CoordinateError{Coord: c, Sentinel: ErrInvalidCoordinates}
	}

	if c.Lat() > serviceAreaNorth || c.Lat() < serviceAreaSouth ||
		c.Lon() > serviceAreaEast || c.Lon() < serviceAreaWest {
		return &CoordinateError{Coord: c, Sentinel: ErrOutsideServiceArea}
	}

	return nil
}

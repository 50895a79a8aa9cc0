package request

import (
	"errors"
	"fmt"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/pathsearch"
	"github.com/dcsaferoutes/saferoute/routing"
	"github.com/dcsaferoutes/saferoute/walkmask"
)

// Sentinel errors forming the Request API's error taxonomy. Errors returned
// by the request layer wrap one of these sentinels (via %w), so callers
// match them with errors.Is; the lower-level error they originate from is
// kept in the message text only.
var (
	// ErrInvalidCoordinates is returned when a coordinate is NaN, +-Inf, or
	// out of the [-90,90]/[-180,180] range.
	ErrInvalidCoordinates = errors.New("request: invalid coordinates")

	// ErrOutsideServiceArea is returned when a coordinate is well-formed
	// but outside the configured city bounding box.
	ErrOutsideServiceArea = errors.New("request: outside service area")

	// ErrNoWalkableNearby is returned when walkability expansion, or the
	// nearest-graph-node search that follows it, fails to find anywhere to
	// enter the graph near the requested point.
	ErrNoWalkableNearby = errors.New("request: no walkable location nearby")

	// ErrNoRouteFound is returned when the search exhausted its open set
	// without reaching the destination.
	ErrNoRouteFound = errors.New("request: no route found")

	// ErrInfeasibleDetour is returned when the requested detour percent
	// cannot be satisfied.
	ErrInfeasibleDetour = errors.New("request: requested detour is infeasible")

	// ErrSearchTimeout is returned when the search exceeded its wall-clock
	// budget.
	ErrSearchTimeout = errors.New("request: search timed out")

	// ErrGraphCorrupt is returned when the loaded graph fails its
	// integrity check. Fatal for the process.
	ErrGraphCorrupt = errors.New("request: graph data is corrupt")

	// ErrDataUnavailable is returned when a required artifact file is
	// missing at startup. Fatal for the process.
	ErrDataUnavailable = errors.New("request: required data artifact is unavailable")

	// ErrInvalidRouteKind is returned when a route_kind string does not
	// name a recognized kind or a valid detour percent.
	ErrInvalidRouteKind = errors.New("request: invalid route_kind")
)

// CoordinateError carries the offending coordinate alongside either
// ErrInvalidCoordinates or ErrOutsideServiceArea.
type CoordinateError struct {
	Coord    geomath.Coord
	Sentinel error
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s: lat=%.6f lon=%.6f", e.Sentinel, e.Coord.Lat(), e.Coord.Lon())
}

// Unwrap lets errors.Is/errors.As match against e.Sentinel.
func (e *CoordinateError) Unwrap() error { return e.Sentinel }

// WalkabilityError carries the original query point and the radius
// searched, alongside ErrNoWalkableNearby.
type WalkabilityError struct {
	Coord           geomath.Coord
	SearchedRadiusM float64
}

func (e *WalkabilityError) Error() string {
	return fmt.Sprintf("%s: lat=%.6f lon=%.6f radius_m=%.0f",
		ErrNoWalkableNearby, e.Coord.Lat(), e.Coord.Lon(), e.SearchedRadiusM)
}

// Unwrap lets errors.Is match against ErrNoWalkableNearby.
func (e *WalkabilityError) Unwrap() error { return ErrNoWalkableNearby }

// wrapSearchError maps a pathsearch error into the request taxonomy.
func wrapSearchError(err error) error {
	switch {
	case errors.Is(err, pathsearch.ErrInfeasibleDetour):
		return fmt.Errorf("%w: %v", ErrInfeasibleDetour, err)
	case errors.Is(err, pathsearch.ErrSearchTimeout):
		return fmt.Errorf("%w: %v", ErrSearchTimeout, err)
	case errors.Is(err, pathsearch.ErrNoRouteFound):
		return fmt.Errorf("%w: %v", ErrNoRouteFound, err)
	default:
		return err
	}
}

// wrapLoadError maps a routing.Load/walkmask.Load error into the request
// taxonomy.
func wrapLoadError(err error) error {
	switch {
	case errors.Is(err, routing.ErrDataUnavailable), errors.Is(err, walkmask.ErrDataUnavailable):
		return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	case errors.Is(err, routing.ErrGraphCorrupt):
		return fmt.Errorf("%w: %v", ErrGraphCorrupt, err)
	default:
		return err
	}
}

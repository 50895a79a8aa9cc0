package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dcsaferoutes/saferoute/pathsearch"
)

// ParseRouteKind resolves a route_kind string ("quickest", "balanced",
// "safest", or "detour{P}" for P in 5/10/15/20/25/30) into a
// pathsearch.RouteKind.
func ParseRouteKind(s string) (pathsearch.RouteKind, error) {
	switch s {
	case "quickest":
		return pathsearch.Quickest(), nil
	case "balanced":
		return pathsearch.Balanced(), nil
	case "safest":
		return pathsearch.Safest(), nil
	}

	if rest, ok := strings.CutPrefix(s, "detour"); ok {
		percent, err := strconv.Atoi(rest)
		if err != nil {
			return pathsearch.RouteKind{}, fmt.Errorf("%w: %q", ErrInvalidRouteKind, s)
		}
		kind, err := pathsearch.Detour(percent)
		if err != nil {
			return pathsearch.RouteKind{}, fmt.Errorf("%w: %q: %v", ErrInvalidRouteKind, s, err)
		}

		return kind, nil
	}

	return pathsearch.RouteKind{}, fmt.Errorf("%w: %q", ErrInvalidRouteKind, s)
}

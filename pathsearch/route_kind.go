package pathsearch

import "fmt"

// validDetourPercents enumerates the detour budgets AStar accepts; any
// other percentage is rejected by Detour rather than silently rounded.
var validDetourPercents = map[int]struct{}{
	5: {}, 10: {}, 15: {}, 20: {}, 25: {}, 30: {},
}

// RouteKind names a blend of distance and safety cost, plus the optional
// extra-distance budget a detour kind allows itself relative to the
// quickest route.
type RouteKind struct {
	name          string
	alpha         float64
	detourPercent int
}

// String returns the route kind's name, for logging and debug fields.
func (k RouteKind) String() string { return k.name }

// Alpha returns the blend factor: 1.0 weighs distance only, 0.0 weighs
// safety only.
func (k RouteKind) Alpha() float64 { return k.alpha }

// IsDetour reports whether this kind carries a detour budget.
func (k RouteKind) IsDetour() bool { return k.detourPercent > 0 }

// DetourPercent returns the extra-distance percentage a detour kind
// allows; zero for non-detour kinds.
func (k RouteKind) DetourPercent() int { return k.detourPercent }

// Quickest weighs distance only (alpha = 1.0).
func Quickest() RouteKind { return RouteKind{name: "quickest", alpha: 1.0} }

// Balanced weighs distance and safety evenly (alpha = 0.5).
func Balanced() RouteKind { return RouteKind{name: "balanced", alpha: 0.5} }

// Safest weighs safety only (alpha = 0.0).
func Safest() RouteKind { return RouteKind{name: "safest", alpha: 0.0} }

// Detour weighs safety only (alpha = 0.0, same as Safest) but additionally
// caps the search to routes no more than percent% longer than the
// quickest route between the same two points. percent must be one of
// 5, 10, 15, 20, 25, 30.
func Detour(percent int) (RouteKind, error) {
	if _, ok := validDetourPercents[percent]; !ok {
		return RouteKind{}, fmt.Errorf("pathsearch: invalid detour percent %d, must be one of 5/10/15/20/25/30", percent)
	}

	return RouteKind{name: fmt.Sprintf("detour_%d", percent), alpha: 0.0, detourPercent: percent}, nil
}

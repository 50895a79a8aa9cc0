package graphbuild

import "github.com/dcsaferoutes/saferoute/safety"

// RoadTypeFilter decides which segments are eligible for graph
// construction purely by road type, independent of walkability. It is an
// injectable allow-list so an operator can extend the walkable road-type
// corpus without touching Build's code.
type RoadTypeFilter struct {
	denied map[safety.RoadType]struct{}
}

// DefaultRoadTypeFilter denies alleys, driveways, and private ways —
// every other road type is eligible, subject to the walkability check
// Build applies separately.
func DefaultRoadTypeFilter() RoadTypeFilter {
	return RoadTypeFilter{
		denied: map[safety.RoadType]struct{}{
			safety.RoadTypeAlley:    {},
			safety.RoadTypeDriveway: {},
			safety.RoadTypePrivate:  {},
		},
	}
}

// Deny adds a road type to the filter's deny list and returns the
// receiver, so callers can chain configuration.
func (f RoadTypeFilter) Deny(rt safety.RoadType) RoadTypeFilter {
	f.denied[rt] = struct{}{}

	return f
}

// Allow reports whether segments of the given road type are eligible.
func (f RoadTypeFilter) Allow(rt safety.RoadType) bool {
	_, denied := f.denied[rt]

	return !denied
}

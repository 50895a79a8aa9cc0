package routing

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/dcsaferoutes/saferoute/geomath"
)

// DebugTileZoom is the zoom level TileHintAt stamps a coordinate at. It
// matches the zoom an external vector-tile packer would request for a
// single pedestrian route's bounding box.
const DebugTileZoom maptile.Zoom = 14

// TileHint identifies the web-mercator tile a coordinate falls in at
// DebugTileZoom — the hook an external vector-tile packer consumes;
// saferoute never renders or serves tiles itself.
type TileHint struct {
	X, Y uint32
	Z    maptile.Zoom
}

// TileHintAt returns the TileHint for c at DebugTileZoom.
func TileHintAt(c geomath.Coord) TileHint {
	t := maptile.At(orb.Point{c.Lon(), c.Lat()}, DebugTileZoom)

	return TileHint{X: t.X, Y: t.Y, Z: t.Z}
}

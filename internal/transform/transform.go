package transform

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/palworld-go/palmap/pkg/core"
)

// WORLD CONSTANTS
// The game reports positions in engine units on a flat plane. The playable
// area maps onto a [-1000,1000] square of in-game map coordinates through a
// fixed shift and scale; both projections below start from that relationship.
// The constants are specific to this one world and this one map image.

const (
	// WorldShiftX and WorldShiftY translate engine units so the map square is
	// centered on the origin.
	WorldShiftX = 123888.0
	WorldShiftY = 158000.0

	// WorldScale is the number of engine units per in-game map unit.
	WorldScale = 459.0

	// WorldBound is the half-extent of the map square in in-game units.
	WorldBound = 1000.0
)

// Projection converts a raw world coordinate into a display coordinate for
// one rendering backend, and back. Implementations are stateless: identical
// inputs always yield identical outputs.
type Projection interface {
	WorldToDisplay(p core.Position2D) geom.XY
	DisplayToWorld(d geom.XY) core.Position2D
}

// worldToLocal maps an engine-unit coordinate onto the [-1000,1000] map
// square. No clamping; positions outside the playable area project outside
// the square.
func worldToLocal(p core.Position2D) (x, y float64) {
	return (p.X + WorldShiftX) / WorldScale, (p.Y + WorldShiftY) / WorldScale
}

// localToWorld is the exact inverse of worldToLocal.
func localToWorld(x, y float64) core.Position2D {
	return core.Position2D{
		X: x*WorldScale - WorldShiftX,
		Y: y*WorldScale - WorldShiftY,
	}
}

package transform

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/palworld-go/palmap/pkg/core"
)

// Affine constants of the tile layer, reverse-engineered from the map tiles.
// X and Y carry distinct scale and offset values; Y scale is negative because
// the tile origin sits at the top-left while world Y grows northward.
const (
	leafletScaleX  = 0.128
	leafletOffsetX = 123.096
	leafletScaleY  = -0.128
	leafletOffsetY = 157.438
)

// LeafletProjection maps world coordinates onto the tile layer's projected
// coordinate space. The forward path first snaps the position to an integer
// map-grid cell (rounding division by WorldScale); that snap is a deliberate
// lossy step, so round trips recover the world position only within half a
// grid cell.
type LeafletProjection struct{}

// NewLeafletProjection returns the tile-layer projection.
func NewLeafletProjection() LeafletProjection {
	return LeafletProjection{}
}

// WorldToGrid converts a world position into integer map-grid coordinates.
func (LeafletProjection) WorldToGrid(pos core.Position2D) (gx, gy int) {
	gx = int(math.Round((pos.X + WorldShiftX) / WorldScale))
	gy = int(math.Round((pos.Y + WorldShiftY) / WorldScale))
	return gx, gy
}

// GridToWorld converts integer map-grid coordinates back into the world
// position at the center of the cell.
func (LeafletProjection) GridToWorld(gx, gy int) core.Position2D {
	return core.Position2D{
		X: float64(gx)*WorldScale - WorldShiftX,
		Y: float64(gy)*WorldScale - WorldShiftY,
	}
}

// WorldToDisplay converts a world position into projected tile-layer
// coordinates via the integer map grid.
func (p LeafletProjection) WorldToDisplay(pos core.Position2D) geom.XY {
	gx, gy := p.WorldToGrid(pos)
	return geom.XY{
		X: float64(gx)*leafletScaleX + leafletOffsetX,
		Y: float64(gy)*leafletScaleY + leafletOffsetY,
	}
}

// DisplayToWorld converts projected tile-layer coordinates back into a world
// position. The grid snap is mirrored here, so coordinates that came out of
// WorldToDisplay land back on the cell center.
func (p LeafletProjection) DisplayToWorld(d geom.XY) core.Position2D {
	gx := int(math.Round((d.X - leafletOffsetX) / leafletScaleX))
	gy := int(math.Round((d.Y - leafletOffsetY) / leafletScaleY))
	return p.GridToWorld(gx, gy)
}

package transform

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/palworld-go/palmap/pkg/core"
)

// Default dimensions of the bundled map image in pixels.
const (
	DefaultImageWidth  = 2048.0
	DefaultImageHeight = 2048.0
)

// ImageProjection maps world coordinates onto pixel coordinates of the flat
// map image. World units shift/scale into [-1000,1000] map-local units, then
// scale linearly into pixels with the Y axis inverted (image origin is the
// top-left corner, world origin is the bottom-left).
type ImageProjection struct {
	Width  float64
	Height float64
}

// NewImageProjection returns a projection for the bundled map image.
func NewImageProjection() ImageProjection {
	return ImageProjection{Width: DefaultImageWidth, Height: DefaultImageHeight}
}

// WorldToDisplay converts a world position into image pixel coordinates.
func (p ImageProjection) WorldToDisplay(pos core.Position2D) geom.XY {
	lx, ly := worldToLocal(pos)
	return geom.XY{
		X: (lx + WorldBound) / (2 * WorldBound) * p.Width,
		Y: (WorldBound - ly) / (2 * WorldBound) * p.Height,
	}
}

// DisplayToWorld converts image pixel coordinates back into a world position.
// Exact inverse of WorldToDisplay up to floating-point error.
func (p ImageProjection) DisplayToWorld(d geom.XY) core.Position2D {
	lx := d.X/p.Width*(2*WorldBound) - WorldBound
	ly := WorldBound - d.Y/p.Height*(2*WorldBound)
	return localToWorld(lx, ly)
}

package transform

import (
	"math"
	"testing"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/palworld-go/palmap/pkg/core"
)

func TestImageProjection_Center(t *testing.T) {
	p := NewImageProjection()

	// The world point that maps onto local (0,0) must land in the middle of
	// the image.
	d := p.WorldToDisplay(core.Position2D{X: -WorldShiftX, Y: -WorldShiftY})

	if d.X != DefaultImageWidth/2 {
		t.Errorf("expected X=%f, got %f", DefaultImageWidth/2, d.X)
	}
	if d.Y != DefaultImageHeight/2 {
		t.Errorf("expected Y=%f, got %f", DefaultImageHeight/2, d.Y)
	}
}

func TestImageProjection_YInverted(t *testing.T) {
	p := NewImageProjection()

	south := p.WorldToDisplay(core.Position2D{X: 0, Y: -WorldShiftY - 400*WorldScale})
	north := p.WorldToDisplay(core.Position2D{X: 0, Y: -WorldShiftY + 400*WorldScale})

	if north.Y >= south.Y {
		t.Errorf("expected northern point above southern, got north=%f south=%f", north.Y, south.Y)
	}
}

func TestImageProjection_RoundTrip(t *testing.T) {
	p := NewImageProjection()

	positions := []core.Position2D{
		{X: 0, Y: 0},
		{X: -123888, Y: -158000},
		{X: 212345.5, Y: -301000},
		{X: -582888, Y: 301000},
		{X: 100, Y: 200},
	}

	for _, pos := range positions {
		got := p.DisplayToWorld(p.WorldToDisplay(pos))
		if math.Abs(got.X-pos.X) > 1e-6 || math.Abs(got.Y-pos.Y) > 1e-6 {
			t.Errorf("round trip of %+v gave %+v", pos, got)
		}
	}
}

func TestImageProjection_Stateless(t *testing.T) {
	p := NewImageProjection()
	pos := core.Position2D{X: 4711.25, Y: -980.5}

	first := p.WorldToDisplay(pos)
	second := p.WorldToDisplay(pos)

	if first != second {
		t.Errorf("expected identical outputs for identical inputs, got %+v and %+v", first, second)
	}
}

func TestLeafletProjection_GridRounding(t *testing.T) {
	p := NewLeafletProjection()

	// Anything within half a cell of the cell center snaps to the same grid
	// coordinate.
	center := core.Position2D{X: 10*WorldScale - WorldShiftX, Y: -20*WorldScale - WorldShiftY}
	nudged := core.Position2D{X: center.X + WorldScale*0.49, Y: center.Y - WorldScale*0.49}

	gx1, gy1 := p.WorldToGrid(center)
	gx2, gy2 := p.WorldToGrid(nudged)

	if gx1 != 10 || gy1 != -20 {
		t.Fatalf("expected grid (10,-20), got (%d,%d)", gx1, gy1)
	}
	if gx1 != gx2 || gy1 != gy2 {
		t.Errorf("expected nudged position to share the cell, got (%d,%d) and (%d,%d)", gx1, gy1, gx2, gy2)
	}
}

func TestLeafletProjection_RoundTripWithinCellTolerance(t *testing.T) {
	p := NewLeafletProjection()

	// The grid snap loses at most half a cell per axis.
	const tolerance = WorldScale/2 + 1e-6

	positions := []core.Position2D{
		{X: 0, Y: 0},
		{X: -123888, Y: -158000},
		{X: 150000.75, Y: -90000.5},
		{X: -400000, Y: 250000},
	}

	for _, pos := range positions {
		got := p.DisplayToWorld(p.WorldToDisplay(pos))
		if math.Abs(got.X-pos.X) > tolerance || math.Abs(got.Y-pos.Y) > tolerance {
			t.Errorf("round trip of %+v gave %+v, beyond half-cell tolerance", pos, got)
		}
	}
}

func TestLeafletProjection_GridCentersRoundTripExactly(t *testing.T) {
	p := NewLeafletProjection()

	for _, g := range [][2]int{{0, 0}, {10, -20}, {-999, 999}, {431, 7}} {
		pos := p.GridToWorld(g[0], g[1])
		got := p.DisplayToWorld(p.WorldToDisplay(pos))
		if math.Abs(got.X-pos.X) > 1e-6 || math.Abs(got.Y-pos.Y) > 1e-6 {
			t.Errorf("cell center (%d,%d) round trip gave %+v, want %+v", g[0], g[1], got, pos)
		}
	}
}

func TestLeafletProjection_DistinctAxisConstants(t *testing.T) {
	p := NewLeafletProjection()

	d := p.WorldToDisplay(core.Position2D{X: -WorldShiftX, Y: -WorldShiftY})

	// Grid (0,0) projects onto the raw offsets; X and Y offsets differ.
	if d.X == d.Y {
		t.Errorf("expected distinct X/Y offsets, both %f", d.X)
	}
	if d.X != leafletOffsetX || d.Y != leafletOffsetY {
		t.Errorf("expected grid origin at offsets (%f,%f), got %+v", leafletOffsetX, leafletOffsetY, d)
	}
}

func TestProjectionsImplementInterface(t *testing.T) {
	var _ Projection = NewImageProjection()
	var _ Projection = NewLeafletProjection()
}

func TestDisplayToWorld_PointerReadout(t *testing.T) {
	// Pointer positions never pass through WorldToDisplay first; the inverse
	// must still produce a sensible world coordinate for any display point.
	img := NewImageProjection()

	got := img.DisplayToWorld(geom.XY{X: 0, Y: 0})
	want := localToWorld(-WorldBound, WorldBound)
	if got != want {
		t.Errorf("top-left pixel gave %+v, want %+v", got, want)
	}

	got = img.DisplayToWorld(geom.XY{X: DefaultImageWidth, Y: DefaultImageHeight})
	want = localToWorld(WorldBound, -WorldBound)
	if got != want {
		t.Errorf("bottom-right pixel gave %+v, want %+v", got, want)
	}
}

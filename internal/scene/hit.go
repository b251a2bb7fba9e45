package scene

import "simlibrary/internal/canvas"

// FloorRegion is the clickable band of a ready floor.
type FloorRegion struct {
	FloorID string
	Bounds  canvas.Rect
}

// Regions are the click targets recorded by the most recent frame. They go
// stale as soon as the state changes and are refreshed by the next Draw.
type Regions struct {
	BuildSlot    canvas.Rect
	HasBuildSlot bool
	Floors       []FloorRegion // topmost first
}

type HitKind uint8

const (
	HitNone HitKind = iota
	HitBuildSlot
	HitFloor
)

type Hit struct {
	Kind    HitKind
	FloorID string
}

// HitTest resolves a canvas point: the build slot wins, then floors from the
// top down. Edges count as inside.
func HitTest(r Regions, x, y float64) Hit {
	if r.HasBuildSlot && r.BuildSlot.Contains(x, y) {
		return Hit{Kind: HitBuildSlot}
	}
	for _, f := range r.Floors {
		if f.Bounds.Contains(x, y) {
			return Hit{Kind: HitFloor, FloorID: f.FloorID}
		}
	}
	return Hit{}
}

// Listener receives the result of a click.
type Listener interface {
	OpenBuildDialog()
	OpenFloorDetail(floorID string)
}

package curve

import "math"

// MinHandleOffset is the closest a handle may get to its anchor along x (mm).
const MinHandleOffset = 0.1

// Anchor is a user-placed point on the curve with its two Bézier handles.
// All coordinates are physical: X in mm from the mirror centre, Y in waves.
// Handles are stored as absolute positions but move with the anchor.
type Anchor struct {
	X, Y   float64
	LX, LY float64 // left handle
	RX, RY float64 // right handle

	saved    [6]float64
	hasSaved bool
}

// NewAnchor creates an anchor with flat handles handleDist mm either side.
func NewAnchor(x, y, handleDist float64) Anchor {
	return Anchor{
		X: x, Y: y,
		LX: x - handleDist, LY: y,
		RX: x + handleDist, RY: y,
	}
}

// Pos returns the anchor position.
func (a *Anchor) Pos() Point { return Point{a.X, a.Y} }

// Left returns the left handle position.
func (a *Anchor) Left() Point { return Point{a.LX, a.LY} }

// Right returns the right handle position.
func (a *Anchor) Right() Point { return Point{a.RX, a.RY} }

// Handle returns the handle on the given side.
func (a *Anchor) Handle(side Side) Point {
	if side == SideLeft {
		return a.Left()
	}
	return a.Right()
}

// SetX moves the anchor horizontally, carrying both handles with it.
func (a *Anchor) SetX(x float64) {
	dx := x - a.X
	a.X = x
	a.LX += dx
	a.RX += dx
}

// SetY moves the anchor vertically, carrying both handles with it.
func (a *Anchor) SetY(y float64) {
	dy := y - a.Y
	a.Y = y
	a.LY += dy
	a.RY += dy
}

// SetLeft places the left handle and swings the right handle onto the new
// tangent line, keeping the right handle's distance from the anchor.
// ratio is the view's AspectRatio.
func (a *Anchor) SetLeft(lx, ly, ratio float64) {
	if lx > a.X-MinHandleOffset {
		lx = a.X - MinHandleOffset
	}
	a.LX, a.LY = lx, ly

	dx, dy := Isotropic(a.X-a.LX, a.Y-a.LY, ratio)
	if dx == 0 {
		dx = 1
	}
	slope := dy / dx

	ox, oy := swing(a.HandleLength(SideRight, ratio), slope)
	a.RX = a.X + ox
	a.RY = a.Y + oy*ratio
}

// SetRight is the mirror image of SetLeft.
func (a *Anchor) SetRight(rx, ry, ratio float64) {
	if rx < a.X+MinHandleOffset {
		rx = a.X + MinHandleOffset
	}
	a.RX, a.RY = rx, ry

	dx, dy := Isotropic(a.X-a.RX, a.Y-a.RY, ratio)
	if dx == 0 {
		dx = -1
	}
	slope := dy / dx

	ox, oy := swing(a.HandleLength(SideLeft, ratio), slope)
	a.LX = a.X - ox
	a.LY = a.Y - oy*ratio
}

// swing returns the isotropic offset, away from the anchor, of a handle of
// length dist laid on a tangent of the given slope. The x offset never drops
// below MinHandleOffset. When a near-vertical tangent forces that floor, the
// handle leaves the tangent rather than grow past max(dist, MinHandleOffset).
func swing(dist, slope float64) (dx, dy float64) {
	cos := 1 / math.Sqrt(1+slope*slope)
	dx, dy = dist*cos, dist*cos*slope
	if dx >= MinHandleOffset {
		return dx, dy
	}
	dx, dy = MinHandleOffset, MinHandleOffset*slope
	limit := math.Max(dist, MinHandleOffset)
	if math.Hypot(dx, dy) > limit {
		dy = math.Copysign(math.Sqrt(limit*limit-dx*dx), slope)
	}
	return dx, dy
}

// SetHandle dispatches to SetLeft or SetRight.
func (a *Anchor) SetHandle(side Side, p Point, ratio float64) {
	if side == SideLeft {
		a.SetLeft(p.X, p.Y, ratio)
	} else {
		a.SetRight(p.X, p.Y, ratio)
	}
}

// HandleLength returns the isotropic distance from the anchor to a handle.
func (a *Anchor) HandleLength(side Side, ratio float64) float64 {
	d := a.Pos().Sub(a.Handle(side))
	return math.Hypot(Isotropic(d.X, d.Y, ratio))
}

// Save snapshots the anchor so a speculative edit can be undone.
func (a *Anchor) Save() {
	a.saved = [6]float64{a.X, a.Y, a.LX, a.LY, a.RX, a.RY}
	a.hasSaved = true
}

// Restore rolls back to the last Save and discards the snapshot.
// It reports false if there was nothing to restore.
func (a *Anchor) Restore() bool {
	if !a.hasSaved {
		return false
	}
	a.SetX(a.saved[0])
	a.SetY(a.saved[1])
	a.LX, a.LY = a.saved[2], a.saved[3]
	a.RX, a.RY = a.saved[4], a.saved[5]
	a.hasSaved = false
	return true
}

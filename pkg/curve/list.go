package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidCurve is returned when a loaded anchor set breaks the list invariants.
var ErrInvalidCurve = errors.New("invalid curve")

const (
	// DefaultHitTolerance is the half-size, in device units, of the hit box
	// around anchors and handles.
	DefaultHitTolerance = 8.0

	// HandleDistanceRatio divides the mirror radius to give the handle
	// length of a freshly created anchor.
	HandleDistanceRatio = 12.0

	// LastHandleOffset is the right handle length (mm) given to an anchor
	// inserted past every other anchor.
	LastHandleOffset = 10.0

	// seedInset places the second seed anchor one inch inside the edge.
	seedInset = 25.4
	seedY     = 0.125
)

// PointList is the ordered set of anchors that defines the curve.
// Anchors are kept sorted by X; anchor 0 is pinned at X = 0 and the list
// never holds fewer than two anchors.
//
// Indices are positions, not identities: anything that sorts the list
// invalidates indices held by the caller.
type PointList struct {
	pts        []Anchor
	handleDist float64
}

// NewPointList creates the default two-anchor curve for a mirror.
func NewPointList(mirrorRadius float64) *PointList {
	d := defaultHandleDist(mirrorRadius)
	seedX := mirrorRadius - seedInset
	if seedX <= MinHandleOffset {
		seedX = mirrorRadius / 2
	}
	return &PointList{
		pts:        []Anchor{NewAnchor(0, 0, d), NewAnchor(seedX, seedY, d)},
		handleDist: d,
	}
}

// defaultHandleDist is the handle length of a freshly created anchor.
func defaultHandleDist(mirrorRadius float64) float64 {
	return math.Max(mirrorRadius/HandleDistanceRatio, MinHandleOffset)
}

// PointListFromAnchors validates loaded anchors and wraps them in a list.
// Anchor 0's handles are flattened onto its height, since the curve always
// leaves the mirror centre level.
func PointListFromAnchors(mirrorRadius float64, anchors []Anchor) (*PointList, error) {
	if len(anchors) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 anchors, got %d", ErrInvalidCurve, len(anchors))
	}
	if anchors[0].X != 0 {
		return nil, fmt.Errorf("%w: first anchor at x=%g, want 0", ErrInvalidCurve, anchors[0].X)
	}
	for i := range anchors {
		a := &anchors[i]
		if i > 0 && a.X < anchors[i-1].X {
			return nil, fmt.Errorf("%w: anchor %d at x=%g is left of x=%g", ErrInvalidCurve, i, a.X, anchors[i-1].X)
		}
		if a.LX > a.X-MinHandleOffset+1e-9 || a.RX < a.X+MinHandleOffset-1e-9 {
			return nil, fmt.Errorf("%w: anchor %d handles collapse onto x=%g", ErrInvalidCurve, i, a.X)
		}
	}
	pts := make([]Anchor, len(anchors))
	copy(pts, anchors)
	pts[0].LY, pts[0].RY = pts[0].Y, pts[0].Y
	return &PointList{pts: pts, handleDist: defaultHandleDist(mirrorRadius)}, nil
}

// Len returns the number of anchors.
func (l *PointList) Len() int { return len(l.pts) }

// At returns the anchor at index i. The pointer is valid until the next
// Insert, RemoveAt or Sort.
func (l *PointList) At(i int) *Anchor { return &l.pts[i] }

// Last returns the index of the last anchor.
func (l *PointList) Last() int { return len(l.pts) - 1 }

// Anchors returns a copy of the anchors.
func (l *PointList) Anchors() []Anchor {
	out := make([]Anchor, len(l.pts))
	copy(out, l.pts)
	return out
}

// FindNear returns the index of the first anchor whose device position is
// within tol of p, or -1.
func (l *PointList) FindNear(v *ViewTransform, p Point, tol float64) int {
	for i := range l.pts {
		if v.ToDevice(l.pts[i].Pos()).Near(p, tol) {
			return i
		}
	}
	return -1
}

// FindHandleNear returns the first handle whose device position is within
// tol of p. The left handle of anchor 0 is unused and never matches.
func (l *PointList) FindHandleNear(v *ViewTransform, p Point, tol float64) (int, Side, bool) {
	for i := range l.pts {
		a := &l.pts[i]
		if i > 0 && v.ToDevice(a.Left()).Near(p, tol) {
			return i, SideLeft, true
		}
		if v.ToDevice(a.Right()).Near(p, tol) {
			return i, SideRight, true
		}
	}
	return -1, SideLeft, false
}

// Insert adds an anchor at (x, y), sorts the list and returns the new
// anchor's index. Handles default to half the distance to each neighbour
// (the neighbours' facing handles are extended to match); a new last
// anchor gets a LastHandleOffset right handle. ratio is the view's
// AspectRatio.
func (l *PointList) Insert(x, y, ratio float64) int {
	if x < 0 {
		x = 0
	}
	for l.indexOfX(x) >= 0 {
		x += MinHandleOffset
	}

	l.pts = append(l.pts, NewAnchor(x, y, l.handleDist))
	l.Sort()
	idx := l.indexOfX(x)

	if idx > 0 {
		me, left := &l.pts[idx], &l.pts[idx-1]
		d := math.Max(math.Abs(me.X-left.X)/2, MinHandleOffset)
		me.LX = me.X - d
		left.SetRight(left.X+d, left.RY, ratio)
	}
	if idx == l.Last() {
		me := &l.pts[idx]
		me.RX = me.X + LastHandleOffset
	} else {
		me, next := &l.pts[idx], &l.pts[idx+1]
		d := math.Max(math.Abs(me.X-next.X)/2, MinHandleOffset)
		me.RX = me.X + d
		next.SetLeft(next.X-d, next.LY, ratio)
	}
	return idx
}

// RemoveAt deletes anchor i. Anchor 0 cannot be removed, and neither can
// an anchor that would leave fewer than two.
func (l *PointList) RemoveAt(i int) bool {
	if i <= 0 || i >= len(l.pts) || len(l.pts) <= 2 {
		return false
	}
	l.pts = append(l.pts[:i], l.pts[i+1:]...)
	return true
}

// Sort orders the anchors by ascending X. It is stable, so the pinned
// anchor at X = 0 stays first.
func (l *PointList) Sort() {
	sort.SliceStable(l.pts, func(i, j int) bool {
		return l.pts[i].X < l.pts[j].X
	})
}

func (l *PointList) indexOfPos(p Point) int {
	for i := range l.pts {
		if l.pts[i].X == p.X && l.pts[i].Y == p.Y {
			return i
		}
	}
	return -1
}

func (l *PointList) indexOfX(x float64) int {
	for i := range l.pts {
		if l.pts[i].X == x {
			return i
		}
	}
	return -1
}

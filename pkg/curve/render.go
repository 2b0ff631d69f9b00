// Curve evaluation and drawing: the zero-slope cubic splice, the cubic
// Bézier spline, the axis grid and the anchor/handle markers.

package curve

import (
	"fmt"
	"math"
)

const (
	// BezierSteps is the number of line segments per Bézier segment (t step 0.01).
	BezierSteps = 100

	// DefaultMinGridSpacing is the minimum device distance between vertical gridlines.
	DefaultMinGridSpacing = 150.0
)

// Scene is everything Render needs to draw a curve.
type Scene struct {
	View   *ViewTransform
	Points *PointList
	Mode   Mode
	Unit   Unit

	MinGridSpacing float64 // 0 means DefaultMinGridSpacing
	NoGrid         bool    // skip border, gridlines and labels
}

// Render draws the grid, the markers and the curve.
func Render(p Painter, s Scene) {
	if !s.NoGrid {
		drawGrid(p, s)
	}
	drawMarkers(p, s)

	p.SetPen(PenCurve)
	switch s.Mode {
	case ModeCubic:
		drawCubic(p, s)
	case ModeBezier:
		drawBezier(p, s)
	}
}

// spliceY evaluates the zero-slope cubic splice between l and r at x.
// Each half is y = jerk·d³ measured from its own endpoint, so the slope is
// zero at both ends and the halves meet at the midpoint.
func spliceY(l, r Point, x float64) float64 {
	halfDist := (r.X - l.X) / 2
	halfHeight := (r.Y - l.Y) / 2
	jerk := halfHeight / (halfDist * halfDist * halfDist)
	if x <= l.X+halfDist {
		d := x - l.X
		return jerk*d*d*d + l.Y
	}
	d := r.X - x
	return r.Y - jerk*d*d*d
}

// ZeroSlopeSplice samples the splice between two device points at every
// integer x from l to r, rounding y to the nearest integer. The endpoints
// are truncated to whole device units first.
func ZeroSlopeSplice(l, r Point) []Point {
	l, r = l.Trunc(), r.Trunc()
	if r.X <= l.X {
		return []Point{l, r}
	}
	pts := make([]Point, 0, int(r.X-l.X)+1)
	for ix := l.X; ix <= r.X; ix++ {
		pts = append(pts, Point{ix, math.Floor(spliceY(l, r, ix) + 0.5)})
	}
	return pts
}

// BezierAt evaluates the cubic Bézier (p0, p1, p2, p3) at t.
func BezierAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*p0.X + 3*mt2*t*p1.X + 3*mt*t2*p2.X + t3*p3.X,
		Y: mt3*p0.Y + 3*mt2*t*p1.Y + 3*mt*t2*p2.Y + t3*p3.Y,
	}
}

// SampleBezier returns steps+1 points at uniform t from 0 to 1.
func SampleBezier(p0, p1, p2, p3 Point, steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	pts := make([]Point, steps+1)
	for i := 0; i <= steps; i++ {
		pts[i] = BezierAt(p0, p1, p2, p3, float64(i)/float64(steps))
	}
	return pts
}

// Segment returns the Bézier control points between anchors i and i+1.
func (l *PointList) Segment(i int) (p0, p1, p2, p3 Point) {
	a, b := l.At(i), l.At(i+1)
	return a.Pos(), a.Right(), b.Left(), b.Pos()
}

// Profile returns the curve as a physical-space polyline. Bézier segments
// use steps samples each; cubic splices use steps samples per segment and
// are continued flat to the mirror edge.
func Profile(l *PointList, mode Mode, mirrorRadius float64, steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	var out []Point
	for i := 0; i < l.Last(); i++ {
		var seg []Point
		if mode == ModeBezier {
			p0, p1, p2, p3 := l.Segment(i)
			seg = SampleBezier(p0, p1, p2, p3, steps)
		} else {
			seg = splicePhysical(l.At(i).Pos(), l.At(i+1).Pos(), steps)
		}
		if len(out) > 0 {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	if mode == ModeCubic {
		last := l.At(l.Last())
		if last.X < mirrorRadius {
			out = append(out, Point{mirrorRadius, last.Y})
		}
	}
	return out
}

func splicePhysical(l, r Point, steps int) []Point {
	if r.X <= l.X {
		return []Point{l, r}
	}
	pts := make([]Point, steps+1)
	for i := 0; i <= steps; i++ {
		x := l.X + (r.X-l.X)*float64(i)/float64(steps)
		pts[i] = Point{x, spliceY(l, r, x)}
	}
	return pts
}

func drawCubic(p Painter, s Scene) {
	v, l := s.View, s.Points
	left := v.ToDevice(l.At(0).Pos())
	right := left
	for i := 1; i < l.Len(); i++ {
		right = v.ToDevice(l.At(i).Pos())
		drawPolyline(p, ZeroSlopeSplice(left, right))
		left = right
	}
	// Continue flat to the device's right edge.
	if math.Trunc(right.X) < math.Trunc(v.DeviceX(v.MirrorRadius())) {
		drawPolyline(p, ZeroSlopeSplice(left, Point{v.Width(), left.Y}))
	}
}

func drawBezier(p Painter, s Scene) {
	v, l := s.View, s.Points
	radius := v.MirrorRadius()
	pen := PenCurve
	for i := 0; i < l.Last(); i++ {
		p0, p1, p2, p3 := l.Segment(i)
		pts := SampleBezier(p0, p1, p2, p3, BezierSteps)
		for j := 1; j < len(pts); j++ {
			want := PenCurve
			if pts[j-1].X > radius {
				want = PenMuted
			}
			if want != pen {
				p.SetPen(want)
				pen = want
			}
			a, b := v.ToDevice(pts[j-1]), v.ToDevice(pts[j])
			p.DrawLine(a.X, a.Y, b.X, b.Y)
		}
	}
}

func drawMarkers(p Painter, s Scene) {
	v, l := s.View, s.Points
	p.SetAntialias(true)
	p.SetPen(PenGrid)
	for i := 0; i < l.Len(); i++ {
		a := l.At(i)
		pos := v.ToDevice(a.Pos())
		if s.Mode == ModeBezier {
			// Anchor 0's left handle is unused.
			if i > 0 {
				drawHandle(p, pos, v.ToDevice(a.Left()))
			}
			drawHandle(p, pos, v.ToDevice(a.Right()))
		}
		p.DrawEllipse(pos.X-4, pos.Y-4, 8, 8)
	}
}

func drawHandle(p Painter, anchor, h Point) {
	p.DrawLine(anchor.X, anchor.Y, h.X, h.Y)
	p.DrawRect(h.X-2, h.Y-2, 4, 4)
}

// HorizontalGridSpacing returns the wave spacing between horizontal gridlines.
func HorizontalGridSpacing(waveHeight float64) float64 {
	switch {
	case waveHeight/0.125 > 12:
		return 1
	case waveHeight/0.125 > 6:
		return 0.25
	}
	return 0.125
}

// VerticalGridSpacing returns the mm spacing between vertical gridlines:
// the unit's base spacing multiplied until lines are at least minSpacing
// device units apart.
func VerticalGridSpacing(v *ViewTransform, u Unit, minSpacing float64) float64 {
	base := u.GridSpacing()
	count := 1.0
	for v.DeviceX(base*count)-v.GraphLeft() < minSpacing && base*count < v.MirrorRadius() {
		count++
	}
	return base * count
}

func drawGrid(p Painter, s Scene) {
	v := s.View
	w, h := v.Width(), v.Height()
	left, edge, graphHeight := v.GraphLeft(), v.Edge(), v.GraphHeight()
	lw, lh := v.Layout().LabelWidth, v.Layout().LabelHeight

	p.SetPen(PenAxis)
	p.DrawLine(0, 0, 0, h-1)
	p.DrawLine(0, h-1, w-1, h-1)
	p.DrawLine(w-1, h-1, w-1, 0)
	p.DrawLine(w-1, 0, 0, 0)

	wave := v.WaveHeight()
	spacing := HorizontalGridSpacing(wave)
	for k := 0; float64(k)*spacing < wave; k++ {
		y := float64(k) * spacing
		if k == 0 {
			p.SetPen(PenAxis)
		} else {
			p.SetPen(PenGrid)
		}
		for _, yy := range []float64{y, -y} {
			iy := math.Round(v.DeviceY(yy))
			p.DrawLine(left, iy, edge, iy)
			p.DrawText(Rect{2, iy - lh*0.4, left, lh}, AlignLeft, fmt.Sprintf("%.3f", yy))
			if k == 0 {
				break
			}
		}
	}

	minSpacing := s.MinGridSpacing
	if minSpacing <= 0 {
		minSpacing = DefaultMinGridSpacing
	}
	xSpacing := VerticalGridSpacing(v, s.Unit, minSpacing)

	p.SetPen(PenAxis)
	p.DrawLine(math.Round(edge), 0, math.Round(edge), graphHeight)
	for k := 0; float64(k)*xSpacing <= v.MirrorRadius(); k++ {
		x := float64(k) * xSpacing
		if k == 0 {
			p.SetPen(PenAxis)
		} else {
			p.SetPen(PenGrid)
		}
		ix := math.Round(v.DeviceX(x))
		p.DrawLine(ix, 0, ix, graphHeight)
		p.DrawText(Rect{ix - lw/2, graphHeight + 1, lw, lh}, AlignCenter, s.Unit.Label(x))
	}
}

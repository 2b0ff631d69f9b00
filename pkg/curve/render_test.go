package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type op struct {
	kind string
	pen  Pen
	args [4]float64
	text string
}

// recorder is a Painter that remembers every call.
type recorder struct {
	pen       Pen
	antialias bool
	ops       []op
}

func (r *recorder) SetPen(p Pen)         { r.pen = p }
func (r *recorder) SetAntialias(on bool) { r.antialias = on }

func (r *recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, op{kind: "line", pen: r.pen, args: [4]float64{x1, y1, x2, y2}})
}

func (r *recorder) DrawPoint(x, y float64) {
	r.ops = append(r.ops, op{kind: "point", pen: r.pen, args: [4]float64{x, y}})
}

func (r *recorder) DrawRect(x, y, w, h float64) {
	r.ops = append(r.ops, op{kind: "rect", pen: r.pen, args: [4]float64{x, y, w, h}})
}

func (r *recorder) DrawEllipse(x, y, w, h float64) {
	r.ops = append(r.ops, op{kind: "ellipse", pen: r.pen, args: [4]float64{x, y, w, h}})
}

func (r *recorder) DrawText(rect Rect, _ Align, s string) {
	r.ops = append(r.ops, op{kind: "text", pen: r.pen, args: [4]float64{rect.X, rect.Y, rect.W, rect.H}, text: s})
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) withPen(pen Pen) []op {
	var out []op
	for _, o := range r.ops {
		if o.pen == pen {
			out = append(out, o)
		}
	}
	return out
}

func (r *recorder) texts() []string {
	var out []string
	for _, o := range r.ops {
		if o.kind == "text" {
			out = append(out, o.text)
		}
	}
	return out
}

func TestZeroSlopeSplice(t *testing.T) {
	pts := ZeroSlopeSplice(Point{0, 100}, Point{200, 0})

	require.Len(t, pts, 201)
	assert.Equal(t, Point{0, 100}, pts[0])
	assert.Equal(t, Point{100, 50}, pts[100])
	assert.Equal(t, Point{200, 0}, pts[200])

	// Flat at both ends.
	assert.Equal(t, 100.0, pts[1].Y)
	assert.Equal(t, 0.0, pts[199].Y)

	for i := 1; i < len(pts); i++ {
		assert.Equal(t, pts[i-1].X+1, pts[i].X)
		assert.LessOrEqual(t, pts[i].Y, pts[i-1].Y, "monotone at x=%v", pts[i].X)
	}
}

func TestZeroSlopeSpliceTruncatesEndpoints(t *testing.T) {
	pts := ZeroSlopeSplice(Point{10.4, 20.6}, Point{19.6, 20.6})
	require.Len(t, pts, 10)
	assert.Equal(t, Point{10, 20}, pts[0])
	assert.Equal(t, Point{19, 20}, pts[9])

	pts = ZeroSlopeSplice(Point{-3.7, 0}, Point{2.9, 10.9})
	assert.Equal(t, Point{-3, 0}, pts[0], "toward zero, not down")
	assert.Equal(t, Point{2, 10}, pts[len(pts)-1])
}

func TestZeroSlopeSpliceDegenerate(t *testing.T) {
	assert.Equal(t, []Point{{50, 10}, {50, 30}}, ZeroSlopeSplice(Point{50, 10}, Point{50, 30}))
	assert.Len(t, ZeroSlopeSplice(Point{60, 0}, Point{40, 0}), 2)
}

func TestSampleBezier(t *testing.T) {
	p0, p1, p2, p3 := Point{0, 0}, Point{10, 20}, Point{30, 20}, Point{40, 0}
	pts := SampleBezier(p0, p1, p2, p3, BezierSteps)

	require.Len(t, pts, BezierSteps+1)
	assert.Equal(t, p0, pts[0])
	assert.Equal(t, p3, pts[BezierSteps])
	mid := pts[BezierSteps/2]
	assert.InDelta(t, 20, mid.X, 1e-9)
	assert.InDelta(t, 15, mid.Y, 1e-9)
}

func TestRenderCubic(t *testing.T) {
	v := bareView(t)
	l := twoAnchors(t, 100)
	var r recorder

	Render(&r, Scene{View: v, Points: l, Mode: ModeCubic, NoGrid: true})

	assert.True(t, r.antialias)
	assert.Equal(t, 0, r.count("rect"), "no handles in cubic mode")
	assert.Equal(t, 2, r.count("ellipse"))
	assert.Equal(t, op{kind: "ellipse", pen: PenGrid, args: [4]float64{-4, 196, 8, 8}}, r.ops[0])

	curve := r.withPen(PenCurve)
	require.NotEmpty(t, curve)
	assert.Equal(t, op{kind: "point", pen: PenCurve, args: [4]float64{0, 200}}, curve[0])

	// One splice to the second anchor, then flat to the right edge.
	assert.Equal(t, 2, r.count("point"))
	last := curve[len(curve)-1]
	assert.Equal(t, [4]float64{599, 200, 600, 200}, last.args)
	assert.Len(t, curve, 2+200+400)
}

func TestRenderCubicNoContinuationAtEdge(t *testing.T) {
	v := bareView(t)
	l := twoAnchors(t, 300)
	var r recorder

	Render(&r, Scene{View: v, Points: l, Mode: ModeCubic, NoGrid: true})

	assert.Equal(t, 1, r.count("point"))
}

func TestRenderBezierMarkers(t *testing.T) {
	v := bareView(t)
	l := twoAnchors(t, 100)
	var r recorder

	Render(&r, Scene{View: v, Points: l, Mode: ModeBezier, NoGrid: true})

	// Anchor 0 draws only its right handle.
	assert.Equal(t, 3, r.count("rect"))
	assert.Contains(t, r.ops, op{kind: "rect", pen: PenGrid, args: [4]float64{48, 198, 4, 4}})
	assert.NotContains(t, r.ops, op{kind: "rect", pen: PenGrid, args: [4]float64{-52, 198, 4, 4}})

	curve := r.withPen(PenCurve)
	assert.Len(t, curve, BezierSteps)
	assert.Empty(t, r.withPen(PenMuted))
	assert.Equal(t, 0, r.count("point"))
}

func TestRenderBezierMutedPastRadius(t *testing.T) {
	v := bareView(t)
	l, err := PointListFromAnchors(300, []Anchor{NewAnchor(0, 0, 25), NewAnchor(350, 0.1, 25)})
	require.NoError(t, err)
	var r recorder

	Render(&r, Scene{View: v, Points: l, Mode: ModeBezier, NoGrid: true})

	curve := r.withPen(PenCurve)
	muted := r.withPen(PenMuted)
	require.NotEmpty(t, curve)
	require.NotEmpty(t, muted)
	assert.Equal(t, BezierSteps, len(curve)+len(muted))

	// Every muted segment starts beyond the mirror edge.
	for _, o := range muted {
		assert.Greater(t, o.args[0], v.DeviceX(300))
	}
	for _, o := range curve {
		assert.LessOrEqual(t, o.args[0], v.DeviceX(300))
	}
}

func TestGridSpacing(t *testing.T) {
	assert.Equal(t, 0.125, HorizontalGridSpacing(0.3))
	assert.Equal(t, 0.25, HorizontalGridSpacing(1))
	assert.Equal(t, 1.0, HorizontalGridSpacing(2))

	v := bareView(t) // 2 device units per mm
	assert.InDelta(t, 76.2, VerticalGridSpacing(v, UnitInches, 150), 1e-9)
	assert.InDelta(t, 80, VerticalGridSpacing(v, UnitMillimeters, 150), 1e-9)
	assert.InDelta(t, 10, VerticalGridSpacing(v, UnitCentimeters, 10), 1e-9)
}

func TestRenderGridLabels(t *testing.T) {
	v, err := NewViewTransform(DefaultLayout(), 1045, 422, 300, 0.3)
	require.NoError(t, err)
	var r recorder

	Render(&r, Scene{View: v, Points: NewPointList(300), Mode: ModeBezier, Unit: UnitMillimeters})

	texts := r.texts()
	for _, want := range []string{"0.000", "0.125", "-0.125", "0.250", "-0.250", "0 mm", "50 mm", "300 mm"} {
		assert.Contains(t, texts, want)
	}
	assert.NotContains(t, texts, "-0.000")
	assert.NotContains(t, texts, "0.375")

	// The vertical zero axis and the edge line use the axis pen.
	assert.Contains(t, r.ops, op{kind: "line", pen: PenAxis, args: [4]float64{45, 0, 45, 400}})
	assert.Contains(t, r.ops, op{kind: "line", pen: PenAxis, args: [4]float64{995, 0, 995, 400}})
}

func TestProfile(t *testing.T) {
	l := twoAnchors(t, 100)

	cubic := Profile(l, ModeCubic, 300, 10)
	require.Len(t, cubic, 12)
	assert.Equal(t, Point{0, 0}, cubic[0])
	assert.Equal(t, Point{300, 0}, cubic[len(cubic)-1])

	l.Insert(50, 0.1, 0.003)
	bez := Profile(l, ModeBezier, 300, 10)
	require.Len(t, bez, 21)
	assert.Equal(t, Point{50, 0.1}, bez[10])
	assert.Equal(t, Point{100, 0}, bez[20])
}

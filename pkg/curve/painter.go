package curve

import "image/color"

// Align controls horizontal text placement inside a rectangle.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Pen is a stroke colour and width in device units.
type Pen struct {
	Color color.RGBA
	Width float64
}

// Pens used by Render.
var (
	PenAxis  = Pen{color.RGBA{0, 0, 0, 255}, 1}       // zero lines, border
	PenGrid  = Pen{color.RGBA{160, 160, 164, 255}, 1} // gridlines, handles, anchors
	PenCurve = Pen{color.RGBA{0, 0, 255, 255}, 1.5}   // the curve
	PenMuted = Pen{color.RGBA{160, 160, 164, 255}, 1.5}
)

// Painter is the drawing surface supplied by the host. All coordinates
// are device coordinates. Rectangles and ellipses are outlined with the
// current pen; text is drawn in the pen colour.
type Painter interface {
	SetPen(p Pen)
	SetAntialias(on bool)
	DrawLine(x1, y1, x2, y2 float64)
	DrawPoint(x, y float64)
	DrawRect(x, y, w, h float64)
	DrawEllipse(x, y, w, h float64)
	DrawText(r Rect, align Align, s string)
}

// drawPolyline emits a point for the first sample and a segment for
// every sample after it.
func drawPolyline(p Painter, pts []Point) {
	for i, pt := range pts {
		if i == 0 {
			p.DrawPoint(pt.X, pt.Y)
			continue
		}
		prev := pts[i-1]
		p.DrawLine(prev.X, prev.Y, pt.X, pt.Y)
	}
}

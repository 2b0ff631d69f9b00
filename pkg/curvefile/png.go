// Native PNG rendering for correction curves.
// Draws through the curve.Painter interface onto a supersampled image.

package curvefile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/wavecurve/pkg/curve"
)

// PNGOptions configures PNG rendering. The image size is the scene view's
// width and height.
type PNGOptions struct {
	FontSize float64 // label size in points at 72 DPI
	Scale    int     // supersampling factor
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		FontSize: 11,
		Scale:    4,
	}
}

var colorWhite = color.RGBA{255, 255, 255, 255}

// pngPainter rasterises painter calls onto an image scale times larger
// than the device area.
type pngPainter struct {
	img   *image.RGBA
	scale float64
	pen   curve.Pen
	face  font.Face
}

func newPNGPainter(img *image.RGBA, scale int, fontSize float64) (*pngPainter, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	// No hinting: the supersampling smooths the glyphs instead.
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    fontSize * float64(scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return &pngPainter{img: img, scale: float64(scale), pen: curve.PenAxis, face: face}, nil
}

// RenderPNG renders a scene to PNG format.
func RenderPNG(w io.Writer, s curve.Scene, opts PNGOptions) error {
	img, err := RenderImage(s, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage renders a scene to an image the size of the scene's view.
func RenderImage(s curve.Scene, opts PNGOptions) (*image.RGBA, error) {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultPNGOptions().FontSize
	}
	width := int(math.Round(s.View.Width()))
	height := int(math.Round(s.View.Height()))

	large := image.NewRGBA(image.Rect(0, 0, width*opts.Scale, height*opts.Scale))
	draw.Draw(large, large.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	p, err := newPNGPainter(large, opts.Scale, opts.FontSize)
	if err != nil {
		return nil, err
	}
	curve.Render(p, s)

	if opts.Scale == 1 {
		return large, nil
	}
	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

func (p *pngPainter) SetPen(pen curve.Pen) { p.pen = pen }

// SetAntialias is a no-op; supersampling smooths every primitive.
func (p *pngPainter) SetAntialias(bool) {}

func (p *pngPainter) thickness() float64 {
	return math.Max(p.pen.Width, 1) * p.scale
}

// DrawLine draws a line between two points with the pen's thickness.
func (p *pngPainter) DrawLine(x1, y1, x2, y2 float64) {
	s := p.scale
	x1, y1, x2, y2 = x1*s, y1*s, x2*s, y2*s
	c := p.pen.Color
	halfThick := p.thickness() / 2

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		p.dot(x1, y1, halfThick)
		return
	}
	steps := math.Max(math.Abs(dx), math.Abs(dy))

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t
		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			p.img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

func (p *pngPainter) DrawPoint(x, y float64) {
	p.dot(x*p.scale, y*p.scale, p.thickness()/2)
}

func (p *pngPainter) dot(x, y, half float64) {
	for ty := -half; ty <= half; ty++ {
		for tx := -half; tx <= half; tx++ {
			p.img.Set(int(x+tx), int(y+ty), p.pen.Color)
		}
	}
}

func (p *pngPainter) DrawRect(x, y, w, h float64) {
	p.DrawLine(x, y, x+w, y)
	p.DrawLine(x+w, y, x+w, y+h)
	p.DrawLine(x+w, y+h, x, y+h)
	p.DrawLine(x, y+h, x, y)
}

// DrawEllipse outlines the ellipse inscribed in the given box.
func (p *pngPainter) DrawEllipse(x, y, w, h float64) {
	s := p.scale
	rx, ry := w*s/2, h*s/2
	cx, cy := x*s+rx, y*s+ry
	half := p.thickness() / 2

	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		ex, ey := cx+rx*nx, cy+ry*ny
		for t := -half; t <= half; t += 0.5 {
			p.img.Set(int(ex+nx*t), int(ey+ny*t), p.pen.Color)
		}
	}
}

// DrawText draws s inside r, vertically centred.
func (p *pngPainter) DrawText(r curve.Rect, align curve.Align, s string) {
	sc := p.scale
	width := float64(font.MeasureString(p.face, s).Ceil())

	x := r.X * sc
	switch align {
	case curve.AlignCenter:
		x += (r.W*sc - width) / 2
	case curve.AlignRight:
		x += r.W*sc - width
	}
	// Cap height is roughly 0.7 of the ascent.
	ascent := float64(p.face.Metrics().Ascent.Ceil())
	baseline := r.Center().Y*sc + ascent*0.35

	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(p.pen.Color),
		Face: p.face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x)), Y: fixed.I(int(baseline))},
	}
	d.DrawString(s)
}

package curvefile

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strings"

	"github.com/ha1tch/wavecurve/pkg/curve"
)

// SVGOptions controls SVG rendering. The canvas size is the scene view's
// width and height.
type SVGOptions struct {
	FontSize float64 // label font size in pixels
	Title    string  // optional document title
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{FontSize: 11}
}

// svgPainter writes painter calls as SVG elements. Runs of connected
// lines in one pen are merged into a single polyline.
type svgPainter struct {
	sb        *strings.Builder
	pen       curve.Pen
	antialias bool
	fontSize  float64
	run       []curve.Point
}

// RenderSVG renders a scene to an SVG document.
func RenderSVG(s curve.Scene, opts SVGOptions) string {
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultSVGOptions().FontSize
	}
	w, h := s.View.Width(), s.View.Height()

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(w), num(h), num(w), num(h)))
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("  <title>%s</title>\n", html.EscapeString(opts.Title)))
	}
	sb.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	p := &svgPainter{sb: &sb, pen: curve.PenAxis, fontSize: opts.FontSize}
	curve.Render(p, s)
	p.flush()

	sb.WriteString("</svg>\n")
	return sb.String()
}

func (p *svgPainter) SetPen(pen curve.Pen) {
	if pen != p.pen {
		p.flush()
	}
	p.pen = pen
}

func (p *svgPainter) SetAntialias(on bool) {
	if on != p.antialias {
		p.flush()
	}
	p.antialias = on
}

func (p *svgPainter) DrawLine(x1, y1, x2, y2 float64) {
	start, end := curve.Pt(x1, y1), curve.Pt(x2, y2)
	if n := len(p.run); n > 0 && p.run[n-1] == start {
		p.run = append(p.run, end)
		return
	}
	p.flush()
	p.run = append(p.run, start, end)
}

func (p *svgPainter) DrawPoint(x, y float64) {
	p.flush()
	p.sb.WriteString(fmt.Sprintf(`  <circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
		num(x), num(y), num(math.Max(p.pen.Width, 1)/2), hexColor(p.pen.Color)))
}

func (p *svgPainter) DrawRect(x, y, w, h float64) {
	p.flush()
	p.sb.WriteString(fmt.Sprintf(`  <rect x="%s" y="%s" width="%s" height="%s" fill="none" %s/>`+"\n",
		num(x), num(y), num(w), num(h), p.stroke()))
}

func (p *svgPainter) DrawEllipse(x, y, w, h float64) {
	p.flush()
	p.sb.WriteString(fmt.Sprintf(`  <ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="none" %s/>`+"\n",
		num(x+w/2), num(y+h/2), num(w/2), num(h/2), p.stroke()))
}

func (p *svgPainter) DrawText(r curve.Rect, align curve.Align, s string) {
	p.flush()
	anchor, x := "start", r.X
	switch align {
	case curve.AlignCenter:
		anchor, x = "middle", r.Center().X
	case curve.AlignRight:
		anchor, x = "end", r.X+r.W
	}
	p.sb.WriteString(fmt.Sprintf(`  <text x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="%s" dominant-baseline="central" fill="%s">%s</text>`+"\n",
		num(x), num(r.Center().Y), num(p.fontSize), anchor, hexColor(p.pen.Color), html.EscapeString(s)))
}

// flush writes the pending line run.
func (p *svgPainter) flush() {
	switch len(p.run) {
	case 0:
		return
	case 2:
		a, b := p.run[0], p.run[1]
		p.sb.WriteString(fmt.Sprintf(`  <line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`+"\n",
			num(a.X), num(a.Y), num(b.X), num(b.Y), p.stroke()))
	default:
		pts := make([]string, len(p.run))
		for i, pt := range p.run {
			pts[i] = num(pt.X) + "," + num(pt.Y)
		}
		p.sb.WriteString(fmt.Sprintf(`  <polyline points="%s" fill="none" %s/>`+"\n",
			strings.Join(pts, " "), p.stroke()))
	}
	p.run = p.run[:0]
}

func (p *svgPainter) stroke() string {
	rendering := "crispEdges"
	if p.antialias {
		rendering = "geometricPrecision"
	}
	return fmt.Sprintf(`stroke="%s" stroke-width="%s" shape-rendering="%s"`,
		hexColor(p.pen.Color), num(p.pen.Width), rendering)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/wavecurve/pkg/curve"
)

// Styles
var (
	styleDefault  = tcell.StyleDefault
	styleAxis     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGrid     = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleCurve    = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleMuted    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMarker   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHandle   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// terminalLayout reserves room for the Y labels and one row of X labels.
func terminalLayout() curve.Layout {
	return curve.Layout{
		GraphLeft:     7,
		BottomReserve: 2,
		EdgeReserve:   0.05,
		LabelWidth:    8,
		LabelHeight:   1,
	}
}

// barRows is the number of rows below the canvas (help and status bars).
const barRows = 2

// cellPainter draws onto a tcell screen, one cell per device unit.
// Markers are buffered and drawn last so the curve never hides them.
type cellPainter struct {
	screen tcell.Screen
	w, h   int // canvas size in cells
	pen    curve.Pen

	markers []marker
}

type marker struct {
	x, y  int
	r     rune
	style tcell.Style
}

func newCellPainter(s tcell.Screen, w, h int) *cellPainter {
	return &cellPainter{screen: s, w: w, h: h, pen: curve.PenAxis}
}

func (p *cellPainter) SetPen(pen curve.Pen) { p.pen = pen }

// SetAntialias has no meaning on a character grid.
func (p *cellPainter) SetAntialias(bool) {}

func (p *cellPainter) style() tcell.Style {
	switch p.pen {
	case curve.PenAxis:
		return styleAxis
	case curve.PenGrid:
		return styleGrid
	case curve.PenCurve:
		return styleCurve
	case curve.PenMuted:
		return styleMuted
	}
	c := p.pen.Color
	return styleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// glyph picks the character for a line in the current pen.
func (p *cellPainter) glyph(horizontal, vertical bool) rune {
	switch p.pen {
	case curve.PenCurve, curve.PenMuted:
		return '•'
	case curve.PenGrid:
		return '·'
	}
	switch {
	case horizontal:
		return '─'
	case vertical:
		return '│'
	}
	return '·'
}

func (p *cellPainter) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return
	}
	p.screen.SetContent(x, y, r, nil, style)
}

func cell(v float64) int { return int(math.Round(v)) }

// DrawLine rasterises a line with Bresenham's algorithm.
func (p *cellPainter) DrawLine(x1, y1, x2, y2 float64) {
	x0, y0, xe, ye := cell(x1), cell(y1), cell(x2), cell(y2)
	r := p.glyph(y0 == ye, x0 == xe)
	style := p.style()

	dx := abs(xe - x0)
	dy := -abs(ye - y0)
	sx, sy := 1, 1
	if x0 > xe {
		sx = -1
	}
	if y0 > ye {
		sy = -1
	}
	e := dx + dy
	for {
		p.set(x0, y0, r, style)
		if x0 == xe && y0 == ye {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (p *cellPainter) DrawPoint(x, y float64) {
	p.set(cell(x), cell(y), p.glyph(false, false), p.style())
}

// DrawRect marks a handle at the rectangle's centre.
func (p *cellPainter) DrawRect(x, y, w, h float64) {
	c := curve.Rect{X: x, Y: y, W: w, H: h}.Center()
	p.markers = append(p.markers, marker{cell(c.X), cell(c.Y), '□', styleHandle})
}

// DrawEllipse marks an anchor at the ellipse's centre.
func (p *cellPainter) DrawEllipse(x, y, w, h float64) {
	c := curve.Rect{X: x, Y: y, W: w, H: h}.Center()
	p.markers = append(p.markers, marker{cell(c.X), cell(c.Y), '●', styleMarker})
}

// DrawText writes s on the rectangle's middle row.
func (p *cellPainter) DrawText(r curve.Rect, align curve.Align, s string) {
	width := float64(runewidth.StringWidth(s))
	x := r.X
	switch align {
	case curve.AlignCenter:
		x += (r.W - width) / 2
	case curve.AlignRight:
		x += r.W - width
	}
	row := int(math.Floor(r.Center().Y))
	col := cell(x)
	for _, ch := range s {
		p.set(col, row, ch, p.style())
		col += runewidth.RuneWidth(ch)
	}
}

// Flush draws the buffered markers.
func (p *cellPainter) Flush() {
	for _, m := range p.markers {
		p.set(m.x, m.y, m.r, m.style)
	}
	p.markers = p.markers[:0]
}

func (a *app) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()

	p := newCellPainter(a.screen, w, h-barRows)
	a.ed.Render(p)
	p.Flush()

	a.drawStatusBar(w, h)
}

func (a *app) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if a.filename != "" {
		if len(a.filename) > 30 {
			fileInfo = filepath.Base(a.filename)
		} else {
			fileInfo = a.filename
		}
	}
	if a.modified {
		fileInfo += " *"
	}
	a.drawString(1, y, fileInfo, styleStatus)

	// Mode
	modeStr := a.modeString()
	a.drawString(w/2-runewidth.StringWidth(modeStr)/2, y, modeStr, styleStatus)

	// Message
	if a.message != "" {
		style := styleMsgInfo
		if a.messageType == msgError {
			style = styleMsgError
		}
		a.drawString(w-runewidth.StringWidth(a.message)-2, y, a.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	a.drawString(1, y, helpString, styleHelp)
}

func (a *app) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (a *app) modeString() string {
	overhang := "off"
	if a.ed.OverhangLimit() {
		overhang = "on"
	}
	s := fmt.Sprintf("%s  %s  wave ±%.3f  overhang %s",
		a.ed.Mode(), a.ed.Unit(), a.ed.View().WaveHeight(), overhang)
	if st := a.ed.State(); st.Kind != curve.StateIdle {
		s += "  " + st.Kind.String()
	}
	return s
}

const helpString = "Drag:Edit  Right:Delete  Wheel,+/-:Zoom  B:Bezier/Cubic  O:Overhang  U:Unit  S:Save  Q:Quit"

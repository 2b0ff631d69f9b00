// Mapping between physical space (mm along the radius, normalised wave
// height) and device space (pixels or terminal cells, Y pointing down).

package curve

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDegenerateLayout is returned when a resize leaves no usable drawing area.
	ErrDegenerateLayout = errors.New("degenerate layout")
	// ErrInvalidScale is returned for a non-positive mirror radius or wave height.
	ErrInvalidScale = errors.New("invalid scale")
)

// Layout holds the device-space margins reserved around the graph.
type Layout struct {
	GraphLeft     float64 // reserved on the left for Y axis labels
	BottomReserve float64 // reserved at the bottom for X axis labels
	EdgeReserve   float64 // fraction of usable width drawn past the mirror edge

	LabelWidth  float64 // box width for X axis labels
	LabelHeight float64 // box height for axis labels
}

// DefaultLayout returns the margins used by pixel hosts.
func DefaultLayout() Layout {
	return Layout{
		GraphLeft:     45,
		BottomReserve: 22,
		EdgeReserve:   0.05,
		LabelWidth:    50,
		LabelHeight:   20,
	}
}

// ViewTransform converts between physical and device coordinates.
// The zero value is not usable; create one with NewViewTransform.
type ViewTransform struct {
	layout Layout

	width, height float64
	graphHeight   float64
	y0            float64 // device y of wave height 0
	edge          float64 // device x of the mirror edge

	mirrorRadius float64 // mm
	waveHeight   float64 // half-height of the graph in waves
}

// NewViewTransform creates a transform for a width×height device area.
func NewViewTransform(layout Layout, width, height, mirrorRadius, waveHeight float64) (*ViewTransform, error) {
	v := &ViewTransform{layout: layout}
	if err := v.SetScale(mirrorRadius, waveHeight); err != nil {
		return nil, err
	}
	if err := v.Resize(width, height); err != nil {
		return nil, err
	}
	return v, nil
}

// Resize recomputes the layout for a new device area. On error the
// previous layout is kept.
func (v *ViewTransform) Resize(width, height float64) error {
	graphHeight := height - v.layout.BottomReserve
	y0 := graphHeight / 2
	edge := width - (width-v.layout.GraphLeft)*v.layout.EdgeReserve

	if edge-v.layout.GraphLeft <= 0 || graphHeight-y0 <= 0 {
		return fmt.Errorf("%w: %gx%g leaves %g×%g graph area", ErrDegenerateLayout,
			width, height, edge-v.layout.GraphLeft, graphHeight)
	}

	v.width, v.height = width, height
	v.graphHeight = graphHeight
	v.y0 = y0
	v.edge = edge
	return nil
}

// SetScale sets the physical extents shown by the graph.
func (v *ViewTransform) SetScale(mirrorRadius, waveHeight float64) error {
	if !(mirrorRadius > 0) || !(waveHeight > 0) {
		return fmt.Errorf("%w: radius %g, wave height %g", ErrInvalidScale, mirrorRadius, waveHeight)
	}
	v.mirrorRadius = mirrorRadius
	v.waveHeight = waveHeight
	return nil
}

// SetWaveHeight changes the vertical scale only.
func (v *ViewTransform) SetWaveHeight(waveHeight float64) error {
	return v.SetScale(v.mirrorRadius, waveHeight)
}

func (v *ViewTransform) Layout() Layout        { return v.layout }
func (v *ViewTransform) MirrorRadius() float64 { return v.mirrorRadius }
func (v *ViewTransform) WaveHeight() float64   { return v.waveHeight }
func (v *ViewTransform) Width() float64        { return v.width }
func (v *ViewTransform) Height() float64       { return v.height }
func (v *ViewTransform) GraphLeft() float64    { return v.layout.GraphLeft }
func (v *ViewTransform) GraphHeight() float64  { return v.graphHeight }
func (v *ViewTransform) Edge() float64         { return v.edge }

// DeviceX maps a distance from the mirror centre (mm) to a device x.
func (v *ViewTransform) DeviceX(r float64) float64 {
	return (r/v.mirrorRadius)*(v.edge-v.layout.GraphLeft) + v.layout.GraphLeft
}

// DeviceY maps a wave height to a device y. Device y grows downward.
func (v *ViewTransform) DeviceY(y float64) float64 {
	return -y/v.waveHeight*(v.graphHeight-v.y0) + v.y0
}

// PhysicalX is the inverse of DeviceX.
func (v *ViewTransform) PhysicalX(x float64) float64 {
	return (x - v.layout.GraphLeft) * v.mirrorRadius / (v.edge - v.layout.GraphLeft)
}

// PhysicalY is the inverse of DeviceY.
func (v *ViewTransform) PhysicalY(y float64) float64 {
	return (y - v.y0) * (-v.waveHeight) / (v.graphHeight - v.y0)
}

// ToDevice maps a physical point to device space.
func (v *ViewTransform) ToDevice(p Point) Point {
	return Point{v.DeviceX(p.X), v.DeviceY(p.Y)}
}

// ToPhysical maps a device point to physical space.
func (v *ViewTransform) ToPhysical(p Point) Point {
	return Point{v.PhysicalX(p.X), v.PhysicalY(p.Y)}
}

// AspectRatio returns waves-per-device-unit divided by mm-per-device-unit.
// Dividing a physical dy by this ratio makes it comparable with dx.
func (v *ViewTransform) AspectRatio() float64 {
	return math.Abs(v.waveHeight / (v.graphHeight - v.y0) / (v.mirrorRadius / (v.edge - v.layout.GraphLeft)))
}

// Isotropic converts a physical handle vector into a vector whose two
// components share a scale, so slopes and lengths can be compared.
func Isotropic(dx, dy, ratio float64) (float64, float64) {
	return dx, dy / ratio
}

// Package curvefile reads and writes correction-curve documents and renders
// curves to PNG and SVG.
package curvefile

import (
	"errors"
	"fmt"

	"github.com/ha1tch/wavecurve/pkg/curve"
)

// Version is the document format version written by this package.
const Version = 1

var (
	// ErrUnknownFormat is returned for a file extension with no codec.
	ErrUnknownFormat = errors.New("unknown file format")
	// ErrInvalidDocument is returned when a document's header fields are unusable.
	ErrInvalidDocument = errors.New("invalid curve document")
)

// Document is the on-disk form of a curve.
type Document struct {
	Version      int           `json:"version" yaml:"version"`
	MirrorRadius float64       `json:"mirror_radius" yaml:"mirror_radius"`
	WaveHeight   float64       `json:"wave_height" yaml:"wave_height"`
	Mode         string        `json:"mode" yaml:"mode"`
	Points       []PointRecord `json:"points" yaml:"points"`
}

// PointRecord is one anchor with its absolute handle positions.
type PointRecord struct {
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
	LX float64 `json:"lx" yaml:"lx"`
	LY float64 `json:"ly" yaml:"ly"`
	RX float64 `json:"rx" yaml:"rx"`
	RY float64 `json:"ry" yaml:"ry"`
}

// NewDocument captures a curve and the scale it was edited at.
func NewDocument(mirrorRadius, waveHeight float64, mode curve.Mode, l *curve.PointList) *Document {
	d := &Document{
		Version:      Version,
		MirrorRadius: mirrorRadius,
		WaveHeight:   waveHeight,
		Mode:         mode.String(),
	}
	for _, a := range l.Anchors() {
		d.Points = append(d.Points, PointRecord{a.X, a.Y, a.LX, a.LY, a.RX, a.RY})
	}
	return d
}

// FromEditor captures the editor's current curve, scale and mode.
func FromEditor(e *curve.Editor) *Document {
	v := e.View()
	return NewDocument(v.MirrorRadius(), v.WaveHeight(), e.Mode(), e.Points())
}

// Validate checks the header fields and the anchor list.
func (d *Document) Validate() error {
	if d.Version != Version {
		return fmt.Errorf("%w: version %d, want %d", ErrInvalidDocument, d.Version, Version)
	}
	if !(d.MirrorRadius > 0) {
		return fmt.Errorf("%w: mirror_radius %g", ErrInvalidDocument, d.MirrorRadius)
	}
	if !(d.WaveHeight > 0) {
		return fmt.Errorf("%w: wave_height %g", ErrInvalidDocument, d.WaveHeight)
	}
	if _, err := d.CurveMode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	_, err := d.PointList()
	return err
}

// CurveMode parses the mode field. An empty mode means Bézier.
func (d *Document) CurveMode() (curve.Mode, error) {
	if d.Mode == "" {
		return curve.ModeBezier, nil
	}
	return curve.ParseMode(d.Mode)
}

// PointList converts the records into a validated PointList.
func (d *Document) PointList() (*curve.PointList, error) {
	anchors := make([]curve.Anchor, len(d.Points))
	for i, p := range d.Points {
		anchors[i] = curve.Anchor{X: p.X, Y: p.Y, LX: p.LX, LY: p.LY, RX: p.RX, RY: p.RY}
	}
	return curve.PointListFromAnchors(d.MirrorRadius, anchors)
}

// View builds a view transform for the document's scale.
func (d *Document) View(layout curve.Layout, width, height float64) (*curve.ViewTransform, error) {
	return curve.NewViewTransform(layout, width, height, d.MirrorRadius, d.WaveHeight)
}

// Interactive editing of a curve: pointer and wheel events in device
// coordinates drive anchor and handle drags on a PointList.

package curve

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// ZoomFactor scales the wave height per scroll notch.
const ZoomFactor = 1.1

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// ButtonMask is the set of buttons held during a pointer move.
type ButtonMask uint8

const (
	MaskPrimary ButtonMask = 1 << iota
	MaskSecondary
)

// StateKind tags the editor's interaction state.
type StateKind int

const (
	StateIdle StateKind = iota
	StateDraggingAnchor
	StateDraggingHandle
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateDraggingAnchor:
		return "dragging-anchor"
	case StateDraggingHandle:
		return "dragging-handle"
	}
	return fmt.Sprintf("StateKind(%d)", int(k))
}

// State is the current interaction. Index and Side are meaningful only
// while dragging; Side only for StateDraggingHandle.
type State struct {
	Kind  StateKind
	Index int
	Side  Side
}

// ChangeKind describes what an event changed.
type ChangeKind int

const (
	ChangeEdit ChangeKind = iota // anchor or handle moved
	ChangeInsert
	ChangeDelete
	ChangeZoom
	ChangeMode // mode, unit or overhang toggle
	ChangeLoad // point list replaced
)

func (c ChangeKind) String() string {
	switch c {
	case ChangeEdit:
		return "edit"
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeZoom:
		return "zoom"
	case ChangeMode:
		return "mode"
	case ChangeLoad:
		return "load"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(c))
}

// Editor owns a curve and its view and applies pointer events to them.
// An Editor is not safe for concurrent use; hosts deliver events from a
// single goroutine.
type Editor struct {
	view    *ViewTransform
	points  *PointList
	limiter OverhangLimiter
	state   State

	mode    Mode
	unit    Unit
	tol     float64
	minGrid float64

	onChange func(ChangeKind)
	log      *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithMode sets the initial curve mode.
func WithMode(m Mode) Option { return func(e *Editor) { e.mode = m } }

// WithUnit sets the display unit.
func WithUnit(u Unit) Option { return func(e *Editor) { e.unit = u } }

// WithOverhangLimit enables or disables the overhang limiter.
func WithOverhangLimit(on bool) Option { return func(e *Editor) { e.limiter.Enabled = on } }

// WithHitTolerance sets the hit-test half-size in device units.
func WithHitTolerance(tol float64) Option { return func(e *Editor) { e.tol = tol } }

// WithMinGridSpacing sets the minimum gap between vertical gridlines.
func WithMinGridSpacing(d float64) Option { return func(e *Editor) { e.minGrid = d } }

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option { return func(e *Editor) { e.log = l } }

// WithPoints starts the editor on an existing curve.
func WithPoints(l *PointList) Option { return func(e *Editor) { e.points = l } }

// OnChange registers a callback invoked after every event that changed
// the curve or the view.
func OnChange(fn func(ChangeKind)) Option { return func(e *Editor) { e.onChange = fn } }

// NewEditor creates an editor over view. Without WithPoints it starts
// on the default two-anchor curve for the view's mirror radius.
func NewEditor(view *ViewTransform, opts ...Option) *Editor {
	e := &Editor{
		view:    view,
		limiter: OverhangLimiter{Enabled: true},
		tol:     DefaultHitTolerance,
		unit:    UnitInches,
	}
	for _, o := range opts {
		o(e)
	}
	if e.points == nil {
		e.points = NewPointList(view.MirrorRadius())
	}
	if e.log == nil {
		e.log = slog.New(discardHandler{})
	}
	return e
}

func (e *Editor) View() *ViewTransform { return e.view }
func (e *Editor) Points() *PointList   { return e.points }
func (e *Editor) State() State         { return e.state }
func (e *Editor) Mode() Mode           { return e.mode }
func (e *Editor) Unit() Unit           { return e.unit }
func (e *Editor) OverhangLimit() bool  { return e.limiter.Enabled }

// SetMode switches the curve algorithm. Any drag in progress is dropped.
func (e *Editor) SetMode(m Mode) {
	e.mode = m
	e.state = State{}
	e.changed(ChangeMode)
}

// SetUnit switches the display unit.
func (e *Editor) SetUnit(u Unit) {
	e.unit = u
	e.changed(ChangeMode)
}

// SetOverhangLimit toggles the overhang limiter.
func (e *Editor) SetOverhangLimit(on bool) {
	e.limiter.Enabled = on
	e.changed(ChangeMode)
}

// Load replaces the curve and returns to idle.
func (e *Editor) Load(l *PointList) {
	e.points = l
	e.state = State{}
	e.changed(ChangeLoad)
}

// Resize forwards a new device size to the view.
func (e *Editor) Resize(width, height float64) error {
	return e.view.Resize(width, height)
}

// Scene returns the editor's current drawing inputs.
func (e *Editor) Scene() Scene {
	return Scene{
		View:           e.view,
		Points:         e.points,
		Mode:           e.mode,
		Unit:           e.unit,
		MinGridSpacing: e.minGrid,
	}
}

// Render draws the editor's curve on p.
func (e *Editor) Render(p Painter) {
	Render(p, e.Scene())
}

// PointerDown handles a button press at device position p.
func (e *Editor) PointerDown(b Button, p Point) {
	switch b {
	case ButtonPrimary:
		e.primaryDown(p)
	case ButtonSecondary:
		if e.state.Kind != StateIdle {
			return
		}
		if i := e.points.FindNear(e.view, p, e.tol); i > 0 && e.points.RemoveAt(i) {
			e.log.Debug("anchor deleted", "index", i)
			e.changed(ChangeDelete)
		}
	}
}

func (e *Editor) primaryDown(p Point) {
	if e.state.Kind != StateIdle {
		return
	}
	if i := e.points.FindNear(e.view, p, e.tol); i >= 0 {
		e.enter(State{Kind: StateDraggingAnchor, Index: i})
		return
	}
	if e.mode == ModeBezier {
		if i, side, ok := e.points.FindHandleNear(e.view, p, e.tol); ok {
			e.enter(State{Kind: StateDraggingHandle, Index: i, Side: side})
			return
		}
	}

	phys := e.view.ToPhysical(p)
	i := e.points.Insert(phys.X, phys.Y, e.view.AspectRatio())
	e.log.Debug("anchor inserted", "index", i, "x", phys.X, "y", phys.Y)
	e.enter(State{Kind: StateDraggingAnchor, Index: i})
	e.changed(ChangeInsert)
}

// PointerMove handles motion at device position p with held buttons.
// Nothing happens unless a drag is active and the primary button is held.
func (e *Editor) PointerMove(held ButtonMask, p Point) {
	if held&MaskPrimary == 0 {
		return
	}
	switch e.state.Kind {
	case StateDraggingAnchor:
		e.dragAnchor(p)
	case StateDraggingHandle:
		e.dragHandle(p)
	default:
		return
	}
	e.changed(ChangeEdit)
}

func (e *Editor) dragAnchor(p Point) {
	v := e.view
	a := e.points.At(e.state.Index)
	a.SetX(v.PhysicalX(p.X))
	a.SetY(v.PhysicalY(p.Y))

	switch {
	case e.state.Index == 0:
		a.SetX(0)
	case p.X > v.Width():
		a.SetX(v.PhysicalX(v.Width()))
	case p.X < v.GraphLeft():
		a.SetX(0)
	}

	// Sorting may move the anchor; find it again under the pointer, or
	// by position when a clamp has pulled it away from the pointer.
	moved := a.Pos()
	e.points.Sort()
	i := e.points.FindNear(v, p, e.tol)
	if i < 0 {
		i = e.points.indexOfPos(moved)
	}
	if i >= 0 {
		e.state.Index = i
		e.limiter.Fix(e.points, i, v.AspectRatio())
	}
}

func (e *Editor) dragHandle(p Point) {
	phys := e.view.ToPhysical(p)
	a := e.points.At(e.state.Index)
	if e.state.Index == 0 {
		phys.Y = a.Y
	}
	ratio := e.view.AspectRatio()
	a.SetHandle(e.state.Side, phys, ratio)
	e.limiter.Fix(e.points, e.state.Index, ratio)
}

// PointerUp ends a drag and gives the overhang limiter a last pass over
// the anchor under the pointer. Without an active drag it does nothing.
func (e *Editor) PointerUp(b Button, p Point) {
	if b != ButtonPrimary || e.state.Kind == StateIdle {
		return
	}
	e.enter(State{})
	if e.limiter.Fix(e.points, e.points.FindNear(e.view, p, e.tol), e.view.AspectRatio()) {
		e.changed(ChangeEdit)
	}
}

// Scroll zooms the wave height: positive notches zoom in, negative out.
func (e *Editor) Scroll(notches int) {
	if notches == 0 {
		return
	}
	wave := e.view.WaveHeight() / math.Pow(ZoomFactor, float64(notches))
	if err := e.view.SetWaveHeight(wave); err != nil {
		e.log.Warn("zoom rejected", "err", err)
		return
	}
	e.changed(ChangeZoom)
}

func (e *Editor) enter(s State) {
	if s != e.state {
		e.log.Debug("state", "from", e.state.Kind, "to", s.Kind, "index", s.Index)
	}
	e.state = s
}

func (e *Editor) changed(c ChangeKind) {
	if e.onChange != nil {
		e.onChange(c)
	}
}

// discardHandler drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

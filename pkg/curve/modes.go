package curve

import (
	"fmt"
	"strings"
)

// Side selects one of an anchor's two handles.
type Side int

const (
	SideLeft  Side = iota // handle toward the mirror centre
	SideRight             // handle toward the mirror edge
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Mode selects the curve evaluation algorithm.
type Mode int

const (
	ModeBezier Mode = iota // cubic Bézier spline through anchors and handles
	ModeCubic              // zero-slope cubic splice, handles ignored
)

func (m Mode) String() string {
	switch m {
	case ModeBezier:
		return "bezier"
	case ModeCubic:
		return "cubic"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "bezier" or "cubic".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bezier", "bez":
		return ModeBezier, nil
	case "cubic":
		return ModeCubic, nil
	}
	return ModeBezier, fmt.Errorf("unknown curve mode %q", s)
}

// Unit is the display unit for the X axis. It only affects labels and grid
// spacing; the model is always in millimetres.
type Unit int

const (
	UnitInches Unit = iota
	UnitMillimeters
	UnitCentimeters
)

func (u Unit) String() string {
	switch u {
	case UnitInches:
		return "in"
	case UnitMillimeters:
		return "mm"
	case UnitCentimeters:
		return "cm"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// ParseUnit parses "mm", "cm" or "in".
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "inch", "inches":
		return UnitInches, nil
	case "mm", "millimeters", "millimetres":
		return UnitMillimeters, nil
	case "cm", "centimeters", "centimetres":
		return UnitCentimeters, nil
	}
	return UnitInches, fmt.Errorf("unknown unit %q", s)
}

// Next cycles mm -> cm -> in -> mm.
func (u Unit) Next() Unit {
	switch u {
	case UnitMillimeters:
		return UnitCentimeters
	case UnitCentimeters:
		return UnitInches
	}
	return UnitMillimeters
}

// GridSpacing returns the base distance between vertical grid lines in mm.
func (u Unit) GridSpacing() float64 {
	if u == UnitInches {
		return 25.4
	}
	return 10
}

// Label formats a distance in mm for the X axis.
func (u Unit) Label(mm float64) string {
	switch u {
	case UnitMillimeters:
		return fmt.Sprintf("%.0f mm", mm)
	case UnitCentimeters:
		return fmt.Sprintf("%.0f cm", mm/10)
	}
	return fmt.Sprintf("%.1f in", mm/25.4)
}

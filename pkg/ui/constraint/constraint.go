// Package constraint implements the declarative rules that place and size
// an element inside the bounds offered by its parent.
//
// Constraints are immutable values. Impose never mutates anything and is
// evaluated fresh on every render pass.
package constraint

import (
	"fmt"
	"math"
	"strings"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
)

// Axis selects which dimension a constraint resolves.
type Axis int

const (
	// AxisY resolves rows: y positions and heights.
	AxisY Axis = iota
	// AxisX resolves columns: x positions and widths.
	AxisX
)

// ParseAxis converts "x" or "y" into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	default:
		return 0, pkerrors.Newf(pkerrors.ErrCodeInvalidArgument,
			"axis must be either x or y (case sensitive), got %q", s)
	}
}

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// pick returns the y or x member of a pair according to the axis.
func (a Axis) pick(y, x int) int {
	if a == AxisX {
		return x
	}
	return y
}

// Position computes one coordinate (x or y) of an element.
type Position interface {
	// Impose returns the coordinate on axis given the element's own size and
	// the parent's bounds, or an OUT_OF_BOUNDS error when it cannot fit.
	Impose(axis Axis, height, width, boundHeight, boundWidth int) (int, error)
	fmt.Stringer
}

// Size computes one dimension (height or width) of an element.
type Size interface {
	// Impose returns the length on axis given the element's minimum size on
	// that axis and on the other one, and the parent's bounds.
	Impose(axis Axis, minOnAxis, minOther, boundHeight, boundWidth int) (int, error)
	fmt.Stringer
}

// Kind names a constraint variant.
type Kind string

const (
	KindAbsolute Kind = "absolute"
	KindRelative Kind = "relative"
	KindCentered Kind = "centered"
)

// NewPosition builds a position constraint from its kind name.
// Absolute takes an integer offset, relative a fraction, centered nothing.
func NewPosition(kind string, value float64) (Position, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindAbsolute:
		if value != math.Trunc(value) {
			return nil, pkerrors.Newf(pkerrors.ErrCodeInvalidArgument,
				"absolute position must be an integer, got %v", value)
		}
		return AbsolutePosition(int(value))
	case KindRelative:
		return RelativePosition(value)
	case KindCentered:
		return Centered(), nil
	default:
		return nil, pkerrors.Newf(pkerrors.ErrCodeInvalidArgument, "unknown position constraint %q", kind)
	}
}

// NewSize builds a size constraint from its kind name.
func NewSize(kind string, value float64) (Size, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindAbsolute:
		if value != math.Trunc(value) {
			return nil, pkerrors.Newf(pkerrors.ErrCodeInvalidArgument,
				"absolute size must be an integer, got %v", value)
		}
		return AbsoluteSize(int(value))
	case KindRelative:
		return RelativeSize(value)
	default:
		return nil, pkerrors.Newf(pkerrors.ErrCodeInvalidArgument, "unknown size constraint %q", kind)
	}
}

func outOfBounds(what string, axis Axis, value, bound int) error {
	return pkerrors.Newf(pkerrors.ErrCodeOutOfBounds, "%s does not fit its parent", what).
		WithContext("axis", axis.String()).
		WithContext("value", value).
		WithContext("bound", bound)
}

func checkFraction(fraction float64) error {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return pkerrors.Newf(pkerrors.ErrCodeInvalidArgument,
			"relative value must be comprised between 0 and 1, got %v", fraction)
	}
	return nil
}

func fractionOf(bound int, fraction float64) int {
	return int(math.Floor(float64(bound) * fraction))
}

package constraint

import (
	"fmt"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
)

type absoluteSize struct {
	value int
}

// AbsoluteSize fixes the element's length on an axis.
func AbsoluteSize(value int) (Size, error) {
	if value < 0 {
		return nil, pkerrors.Newf(pkerrors.ErrCodeInvalidArgument, "absolute size must be >= 0, got %d", value)
	}
	return absoluteSize{value: value}, nil
}

func (s absoluteSize) Impose(axis Axis, minOnAxis, _, boundHeight, boundWidth int) (int, error) {
	bound := axis.pick(boundHeight, boundWidth)
	if s.value >= bound {
		return 0, outOfBounds("imposed "+lengthName(axis), axis, s.value, bound)
	}
	if s.value < minOnAxis {
		return 0, outOfBounds("imposed "+lengthName(axis)+" below minimum", axis, s.value, minOnAxis)
	}
	return s.value, nil
}

func (s absoluteSize) String() string {
	return fmt.Sprintf("absolute(%d)", s.value)
}

type relativeSize struct {
	fraction float64
}

// RelativeSize sizes the element as a fraction of the parent's extent.
func RelativeSize(fraction float64) (Size, error) {
	if err := checkFraction(fraction); err != nil {
		return nil, err
	}
	return relativeSize{fraction: fraction}, nil
}

func (s relativeSize) Impose(axis Axis, minOnAxis, _, boundHeight, boundWidth int) (int, error) {
	out := fractionOf(axis.pick(boundHeight, boundWidth), s.fraction)
	if out < minOnAxis {
		return 0, outOfBounds("relative "+lengthName(axis)+" below minimum", axis, out, minOnAxis)
	}
	return out, nil
}

func (s relativeSize) String() string {
	return fmt.Sprintf("relative(%g)", s.fraction)
}

func lengthName(axis Axis) string {
	if axis == AxisX {
		return "width"
	}
	return "height"
}

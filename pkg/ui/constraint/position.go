package constraint

import (
	"fmt"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
)

type absolutePosition struct {
	value int
}

// AbsolutePosition places the element at a fixed offset from the parent's origin.
func AbsolutePosition(value int) (Position, error) {
	if value < 0 {
		return nil, pkerrors.Newf(pkerrors.ErrCodeInvalidArgument, "absolute position must be >= 0, got %d", value)
	}
	return absolutePosition{value: value}, nil
}

func (p absolutePosition) Impose(axis Axis, _, _, boundHeight, boundWidth int) (int, error) {
	bound := axis.pick(boundHeight, boundWidth)
	if p.value >= bound {
		return 0, outOfBounds("imposed "+axis.String(), axis, p.value, bound)
	}
	return p.value, nil
}

func (p absolutePosition) String() string {
	return fmt.Sprintf("absolute(%d)", p.value)
}

type relativePosition struct {
	fraction float64
}

// RelativePosition places the element at a fraction of the parent's extent.
func RelativePosition(fraction float64) (Position, error) {
	if err := checkFraction(fraction); err != nil {
		return nil, err
	}
	return relativePosition{fraction: fraction}, nil
}

func (p relativePosition) Impose(axis Axis, _, _, boundHeight, boundWidth int) (int, error) {
	return fractionOf(axis.pick(boundHeight, boundWidth), p.fraction), nil
}

func (p relativePosition) String() string {
	return fmt.Sprintf("relative(%g)", p.fraction)
}

type centered struct{}

// Centered places the element in the middle of the parent.
func Centered() Position {
	return centered{}
}

func (centered) Impose(axis Axis, height, width, boundHeight, boundWidth int) (int, error) {
	bound := axis.pick(boundHeight, boundWidth)
	size := axis.pick(height, width)
	if size > bound {
		return 0, outOfBounds("centered element", axis, size, bound)
	}
	return (bound - size) / 2, nil
}

func (centered) String() string {
	return "centered"
}

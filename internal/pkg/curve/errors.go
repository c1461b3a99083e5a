package curve

import "errors"

var (
	// ErrCurveDefinition signals a structural problem with the control point
	// set a curve was constructed from.
	ErrCurveDefinition = errors.New("invalid curve definition")
	// ErrCurveIndex signals an out-of-range control point index.
	ErrCurveIndex = errors.New("control point index out of range")
	// ErrCurveHandle signals an access to a tangent handle that the addressed
	// control point does not have.
	ErrCurveHandle = errors.New("control point has no such handle")
)

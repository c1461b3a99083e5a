// Package curve implements the response curve engine: a family of
// interpolation curves shaping raw normalized axis input in [-1, 1] into
// output values in [-1, 1].
//
// A curve is defined by user-editable control points. Mutators keep the
// point set sorted and refit derived evaluation state synchronously, so a
// curve is always ready for Eval after any operation returns.
package curve

import (
	"fmt"
	"sort"
)

// epsilon guards divisions by (near-)zero segment widths that arise from
// legitimate user-placed points with (almost) equal x.
const epsilon = 1e-9

// Type tags the concrete curve variant.
type Type int

const (
	PiecewiseLinearType Type = iota
	CubicSplineType
	CubicBezierSplineType
)

func (t Type) String() string {
	switch t {
	case PiecewiseLinearType:
		return "piecewise-linear"
	case CubicSplineType:
		return "cubic-spline"
	case CubicBezierSplineType:
		return "cubic-bezier-spline"
	default:
		return "unknown"
	}
}

// TypeFromString maps the persisted curve type vocabulary back to a Type.
var TypeFromString = map[string]Type{
	"piecewise-linear":    PiecewiseLinearType,
	"cubic-spline":        CubicSplineType,
	"cubic-bezier-spline": CubicBezierSplineType,
}

// Handle sides, for SetHandle.
const (
	HandleLeft = iota
	HandleRight
)

// ControlPoint is a read-only descriptor of a single control point.
// HandleLeft/HandleRight are nil for non-Bézier curves and for the open
// ends of a Bézier curve.
type ControlPoint struct {
	Center      Point
	HandleLeft  *Point
	HandleRight *Point
}

// Curve is the common contract of all curve variants.
//
// Mutators (AddControlPoint, SetControlPoint, SetHandle, Invert,
// SetSymmetric) refit the curve before returning. Eval never fails: the
// input is clamped to [-1, 1] and positions outside the recorded point
// span hold the boundary point's y value.
type Curve interface {
	Type() Type

	// ControlPoints returns snapshot copies of the current control point
	// set in ascending-x order. Mutation goes through the setters only.
	ControlPoints() []ControlPoint

	// AddControlPoint inserts a new control point at (x, y). On a
	// symmetric curve the mirror point (-x, -y) is inserted as well.
	// x is not clamped at insertion, evaluation clamps at lookup time.
	AddControlPoint(x, y float64)

	// SetControlPoint moves the control point at index i to p. On a
	// symmetric curve the mirror point follows with negated coordinates,
	// an odd middle point is pinned to the origin.
	SetControlPoint(i int, p Point) error

	// SetHandle moves a tangent handle (HandleLeft or HandleRight) of the
	// control point at index i. Curves without handles and open Bézier
	// ends report ErrCurveHandle.
	SetHandle(i, side int, p Point) error

	// Invert mirrors the curve about the x axis.
	Invert()

	Symmetric() bool

	// SetSymmetric toggles the point-symmetry constraint. Enabling it
	// immediately mirrors the first half of the points onto the second
	// half, disabling it retains the current shape.
	SetSymmetric(symmetric bool)

	// Fit recomputes derived evaluation state from the current control
	// points. Mutators call it implicitly, an explicit call is only
	// needed after direct manipulation of returned state (there is none),
	// and is always safe.
	Fit()

	// Eval returns the curve value at x, with x clamped to [-1, 1].
	Eval(x float64) float64

	// Clone returns an independent deep copy of the curve.
	Clone() Curve
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sortPoints stable-sorts points by ascending x. Stability gives
// deterministic evaluation for duplicate x values: insertion order wins.
func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].X < points[j].X
	})
}

// New constructs a curve of the given type from a flat point list.
// An empty point list yields the variant's default shape.
func New(t Type, symmetric bool, points ...Point) (Curve, error) {
	var c Curve
	var err error

	switch t {
	case PiecewiseLinearType:
		c, err = NewPiecewiseLinear(points...)
	case CubicSplineType:
		c, err = NewCubicSpline(points...)
	case CubicBezierSplineType:
		c, err = NewCubicBezierSpline(points...)
	default:
		return nil, fmt.Errorf("%w: unknown curve type %d", ErrCurveDefinition, t)
	}
	if err != nil {
		return nil, err
	}
	if symmetric {
		c.SetSymmetric(true)
	}
	return c, nil
}

// enforceSymmetry mirrors the first half of a plain point set onto the
// second half and pins an odd middle point to the origin. Shared by the
// piecewise linear and cubic spline variants.
func enforceSymmetry(points []Point) {
	n := len(points)
	for i := 0; i < n/2; i++ {
		points[n-1-i] = points[i].Neg()
	}
	if n%2 == 1 {
		points[n/2] = Point{}
	}
}

// mirrorPoint applies a symmetric point edit to a plain point set:
// points[i] becomes p, its mirror follows, an odd middle pins to origin.
func mirrorPoint(points []Point, i int, p Point) {
	n := len(points)
	j := n - 1 - i
	if j == i {
		points[i] = Point{}
		return
	}
	points[i] = p
	points[j] = p.Neg()
}

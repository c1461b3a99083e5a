package curve

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func approx(tolerance float64) cmp.Option {
	return cmpopts.EquateApprox(0, tolerance)
}

func sample(c Curve) []float64 {
	var ys []float64
	for i := -100; i <= 100; i++ {
		ys = append(ys, c.Eval(float64(i)/100.0))
	}
	return ys
}

func centers(c Curve) []Point {
	var out []Point
	for _, cp := range c.ControlPoints() {
		out = append(out, cp.Center)
	}
	return out
}

func TestDefaults(t *testing.T) {
	linear, err := NewPiecewiseLinear()
	assert.Equal(t, nil, err)
	assert.Equal(t, []Point{{-1, -1}, {1, 1}}, centers(linear))

	cubic, err := NewCubicSpline()
	assert.Equal(t, nil, err)
	assert.Equal(t, []Point{{-1, -1}, {1, 1}}, centers(cubic))

	bezier, err := NewCubicBezierSpline()
	assert.Equal(t, nil, err)
	assert.Equal(t, []Point{{-1, -1}, {1, 1}}, centers(bezier))
	cps := bezier.ControlPoints()
	assert.Nil(t, cps[0].HandleLeft)
	assert.Equal(t, Point{-0.95, -0.95}, *cps[0].HandleRight)
	assert.Equal(t, Point{0.95, 0.95}, *cps[1].HandleLeft)
	assert.Nil(t, cps[1].HandleRight)
}

func TestStructuralConstraints(t *testing.T) {
	_, err := NewPiecewiseLinear(Point{0, 0})
	assert.ErrorIs(t, err, ErrCurveDefinition)

	_, err = NewCubicSpline(Point{0, 0})
	assert.ErrorIs(t, err, ErrCurveDefinition)

	for _, n := range []int{4, 7, 10} {
		points := make([]Point, n)
		for i := range points {
			points[i] = Point{-1 + 2*float64(i)/float64(n-1), 0}
		}
		_, err := NewCubicBezierSpline(points...)
		assert.Equal(t, nil, err, fmt.Sprintf("flat list of %d points must be valid", n))
	}

	for _, n := range []int{1, 2, 3, 5, 6} {
		points := make([]Point, n)
		_, err := NewCubicBezierSpline(points...)
		assert.ErrorIs(t, err, ErrCurveDefinition, fmt.Sprintf("flat list of %d points must be rejected", n))
	}
}

func TestEvalIsTotal(t *testing.T) {
	linear, _ := NewPiecewiseLinear(Point{-0.5, -0.7}, Point{0.3, 0.1}, Point{0.6, 0.9})
	cubic, _ := NewCubicSpline(Point{-1, -1}, Point{-0.4, -0.2}, Point{0.2, 0.7}, Point{1, 1})
	bezier, _ := NewCubicBezierSpline()

	for _, c := range []Curve{linear, cubic, bezier} {
		for i := -150; i <= 150; i++ {
			x := float64(i) / 100.0
			y := c.Eval(x)
			assert.False(t, math.IsNaN(y) || math.IsInf(y, 0), fmt.Sprintf("Eval(%f) not finite", x))
		}
	}
}

func TestPiecewiseLinearBoundaryHold(t *testing.T) {
	c, err := NewPiecewiseLinear(Point{-1, -1}, Point{1, 1})
	assert.Equal(t, nil, err)

	assert.Equal(t, -1.0, c.Eval(-2))
	assert.Equal(t, 1.0, c.Eval(2))
	assert.Equal(t, 0.0, c.Eval(0))
	assert.Equal(t, 0.5, c.Eval(0.5))
}

func TestCubicSplineBoundaryHold(t *testing.T) {
	c, err := NewCubicSpline(Point{-0.8, -0.5}, Point{0, 0.1}, Point{0.8, 0.5})
	assert.Equal(t, nil, err)

	assert.Equal(t, -0.5, c.Eval(-1))
	assert.Equal(t, -0.5, c.Eval(-0.9))
	assert.Equal(t, 0.5, c.Eval(1))
	assert.Equal(t, 0.5, c.Eval(0.9))
}

func TestPiecewiseLinearAddControlPoint(t *testing.T) {
	c, err := NewPiecewiseLinear()
	assert.Equal(t, nil, err)
	assert.Equal(t, 0.5, c.Eval(0.5))

	c.AddControlPoint(0, 1)

	// the flat segment between (0, 1) and (1, 1) now covers x = 0.5
	assert.Equal(t, 1.0, c.Eval(0.5))
	assert.Equal(t, []Point{{-1, -1}, {0, 1}, {1, 1}}, centers(c))
}

func TestCubicSplinePassesThroughControlPoints(t *testing.T) {
	points := []Point{{-1, -1}, {-0.4, -0.2}, {0.2, 0.7}, {1, 1}}
	c, err := NewCubicSpline(points...)
	assert.Equal(t, nil, err)

	for _, p := range points {
		assert.InDelta(t, p.Y, c.Eval(p.X), 1e-6)
	}
}

func TestCubicSplineNaturalBoundary(t *testing.T) {
	for _, points := range [][]Point{
		{{-1, -1}, {0, 0.5}, {1, 1}},
		{{-1, -1}, {-0.4, -0.2}, {0.2, 0.7}, {1, 1}},
		{{-1, 0.3}, {-0.7, -0.9}, {-0.1, 0}, {0.4, 0.8}, {1, -0.2}},
	} {
		c, err := NewCubicSpline(points...)
		assert.Equal(t, nil, err)
		assert.Equal(t, 0.0, c.z[0])
		assert.Equal(t, 0.0, c.z[len(c.z)-1])
	}
}

func TestCubicSplineTwoPointsIsLinear(t *testing.T) {
	c, err := NewCubicSpline(Point{-1, -1}, Point{1, 1})
	assert.Equal(t, nil, err)

	// coefficients stay zero, curve degrades to linear interpolation
	for i := -10; i <= 10; i++ {
		x := float64(i) / 10.0
		assert.InDelta(t, x, c.Eval(x), 1e-6)
	}
}

func TestBezierDefaultNearOrigin(t *testing.T) {
	c, err := NewCubicBezierSpline()
	assert.Equal(t, nil, err)
	assert.InDelta(t, 0.0, c.Eval(0), 0.01)
}

func TestBezierNearLinearTracksIdentity(t *testing.T) {
	c, err := NewCubicBezierSpline()
	assert.Equal(t, nil, err)

	for i := -10; i <= 10; i++ {
		x := float64(i) / 10.0
		assert.InDelta(t, x, c.Eval(x), 0.02)
	}
}

func TestBezierAddControlPointSynthesizesHandles(t *testing.T) {
	c, err := NewCubicBezierSpline()
	assert.Equal(t, nil, err)

	c.AddControlPoint(0.2, 0.6)

	cps := c.ControlPoints()
	assert.Equal(t, 3, len(cps))
	assert.Equal(t, Point{0.2, 0.6}, cps[1].Center)
	assert.Empty(t, cmp.Diff(Point{0.15, 0.6}, *cps[1].HandleLeft, approx(1e-12)))
	assert.Empty(t, cmp.Diff(Point{0.25, 0.6}, *cps[1].HandleRight, approx(1e-12)))

	// curve passes through the new knot
	assert.InDelta(t, 0.6, c.Eval(0.2), 1e-6)
}

func TestInvertRoundTrip(t *testing.T) {
	linear, _ := NewPiecewiseLinear(Point{-1, -1}, Point{-0.2, 0.4}, Point{1, 1})
	cubic, _ := NewCubicSpline(Point{-1, -1}, Point{-0.4, -0.2}, Point{0.2, 0.7}, Point{1, 1})
	bezier, _ := NewCubicBezierSpline(
		Point{-1, -1}, Point{-0.5, -0.8}, Point{-0.2, 0.3}, Point{0.1, 0.4},
		Point{0.4, 0.5}, Point{0.8, 0.9}, Point{1, 1},
	)

	for _, c := range []Curve{linear, cubic, bezier} {
		before := sample(c)
		cpsBefore := c.ControlPoints()

		c.Invert()
		inverted := sample(c)
		for i, y := range before {
			assert.InDelta(t, -y, inverted[i], 1e-9)
		}

		c.Invert()
		assert.Empty(t, cmp.Diff(before, sample(c), approx(1e-12)))
		assert.Empty(t, cmp.Diff(cpsBefore, c.ControlPoints(), approx(1e-12)))
	}
}

func TestFitIdempotence(t *testing.T) {
	linear, _ := NewPiecewiseLinear(Point{-1, -1}, Point{0.3, 0.2}, Point{1, 1})
	cubic, _ := NewCubicSpline(Point{-1, -1}, Point{-0.4, -0.2}, Point{0.2, 0.7}, Point{1, 1})
	bezier, _ := NewCubicBezierSpline()

	for _, c := range []Curve{linear, cubic, bezier} {
		c.Fit()
		first := sample(c)
		c.Fit()
		assert.Empty(t, cmp.Diff(first, sample(c)))
	}
}

func assertSymmetric(t *testing.T, c Curve) {
	t.Helper()
	cps := c.ControlPoints()
	n := len(cps)
	for i := 0; i < n; i++ {
		m := cps[n-1-i]
		assert.InDelta(t, -cps[i].Center.X, m.Center.X, 1e-9)
		assert.InDelta(t, -cps[i].Center.Y, m.Center.Y, 1e-9)
	}
	if n%2 == 1 {
		assert.InDelta(t, 0.0, cps[n/2].Center.X, 1e-9)
		assert.InDelta(t, 0.0, cps[n/2].Center.Y, 1e-9)
	}
}

func TestSymmetryEnforcement(t *testing.T) {
	linear, _ := NewPiecewiseLinear(Point{-1, -1}, Point{-0.4, 0.2}, Point{0.1, 0.1}, Point{0.5, 0.9}, Point{1, 1})
	cubic, _ := NewCubicSpline(Point{-1, -1}, Point{-0.4, -0.2}, Point{0.2, 0.7}, Point{1, 1})
	bezier, _ := NewCubicBezierSpline(
		Point{-1, -1}, Point{-0.5, -0.8}, Point{-0.2, 0.3}, Point{0.1, 0.4},
		Point{0.4, 0.5}, Point{0.8, 0.9}, Point{1, 1},
	)

	for _, c := range []Curve{linear, cubic, bezier} {
		c.SetSymmetric(true)
		assert.True(t, c.Symmetric())
		assertSymmetric(t, c)
	}
}

func TestSymmetryDisableRetainsShape(t *testing.T) {
	c, _ := NewPiecewiseLinear(Point{-1, -1}, Point{-0.4, 0.2}, Point{1, 1})
	c.SetSymmetric(true)
	shape := sample(c)

	c.SetSymmetric(false)
	assert.False(t, c.Symmetric())
	assert.Empty(t, cmp.Diff(shape, sample(c)))
}

func TestSymmetricAddControlPoint(t *testing.T) {
	linear, _ := NewPiecewiseLinear()
	linear.SetSymmetric(true)
	linear.AddControlPoint(0.3, 0.7)
	assert.Equal(t, 4, len(linear.ControlPoints()))
	assertSymmetric(t, linear)

	bezier, _ := NewCubicBezierSpline()
	bezier.SetSymmetric(true)
	bezier.AddControlPoint(0.3, 0.7)
	assert.Equal(t, 4, len(bezier.ControlPoints()))
	assertSymmetric(t, bezier)

	cps := bezier.ControlPoints()
	// mirrored handles point-reflect the opposite handle through the origin
	assert.Empty(t, cmp.Diff(Point{-0.35, -0.7}, *cps[1].HandleLeft, approx(1e-12)))
	assert.Empty(t, cmp.Diff(Point{-0.25, -0.7}, *cps[1].HandleRight, approx(1e-12)))
}

func TestSymmetricSetControlPoint(t *testing.T) {
	c, _ := NewPiecewiseLinear(Point{-1, -1}, Point{-0.4, 0.2}, Point{0.4, -0.2}, Point{1, 1})
	c.SetSymmetric(true)

	err := c.SetControlPoint(1, Point{-0.5, 0.3})
	assert.Equal(t, nil, err)
	assertSymmetric(t, c)

	points := centers(c)
	assert.Equal(t, Point{-0.5, 0.3}, points[1])
	assert.Equal(t, Point{0.5, -0.3}, points[2])
}

func TestSymmetricMiddlePinsToOrigin(t *testing.T) {
	c, _ := NewPiecewiseLinear(Point{-1, -1}, Point{0.1, 0.4}, Point{1, 1})
	c.SetSymmetric(true)
	assert.Equal(t, Point{0, 0}, centers(c)[1])

	err := c.SetControlPoint(1, Point{0.2, 0.3})
	assert.Equal(t, nil, err)
	assert.Equal(t, Point{0, 0}, centers(c)[1])
}

func TestSetControlPointErrors(t *testing.T) {
	linear, _ := NewPiecewiseLinear()
	assert.ErrorIs(t, linear.SetControlPoint(-1, Point{}), ErrCurveIndex)
	assert.ErrorIs(t, linear.SetControlPoint(2, Point{}), ErrCurveIndex)
	assert.ErrorIs(t, linear.SetHandle(0, HandleLeft, Point{}), ErrCurveHandle)

	bezier, _ := NewCubicBezierSpline()
	assert.ErrorIs(t, bezier.SetHandle(7, HandleLeft, Point{}), ErrCurveIndex)
	// open curve ends miss one handle each
	assert.ErrorIs(t, bezier.SetHandle(0, HandleLeft, Point{}), ErrCurveHandle)
	assert.ErrorIs(t, bezier.SetHandle(1, HandleRight, Point{}), ErrCurveHandle)
	assert.Equal(t, nil, bezier.SetHandle(0, HandleRight, Point{-0.9, -0.5}))
}

func TestBezierSetHandleReshapesCurve(t *testing.T) {
	c, _ := NewCubicBezierSpline()
	flat := c.Eval(0.5)

	err := c.SetHandle(1, HandleLeft, Point{0.2, 1})
	assert.Equal(t, nil, err)
	assert.Greater(t, c.Eval(0.5), flat)
}

func TestSetControlPointResorts(t *testing.T) {
	c, _ := NewPiecewiseLinear(Point{-1, -1}, Point{-0.2, 0}, Point{1, 1})

	// drag the middle point beyond its right neighbour
	err := c.SetControlPoint(1, Point{1.5, 0.2})
	assert.Equal(t, nil, err)

	points := centers(c)
	assert.True(t, sort.SliceIsSorted(points, func(i, j int) bool { return points[i].X < points[j].X }))
	assert.Equal(t, Point{1.5, 0.2}, points[2])

	// evaluation clamps to [-1, 1] and holds the boundary value
	assert.Equal(t, 1.0, c.Eval(2))
}

func TestDuplicateXDeterministic(t *testing.T) {
	c, _ := NewPiecewiseLinear(Point{-1, -1}, Point{0, 0.2}, Point{0, 0.8}, Point{1, 1})

	// stable sort preserves insertion order among equal x, so repeated
	// fits keep evaluation deterministic
	first := sample(c)
	c.Fit()
	assert.Empty(t, cmp.Diff(first, sample(c)))
}

func TestCubicSplineCollapsesDuplicateX(t *testing.T) {
	// stacked knots at x = 0 must not poison the tridiagonal sweep
	c, err := NewCubicSpline(Point{0, -0.5}, Point{0, 0}, Point{0, 0.5}, Point{1, 1})
	assert.Equal(t, nil, err)

	for i := -150; i <= 150; i++ {
		x := float64(i) / 100.0
		y := c.Eval(x)
		assert.False(t, math.IsNaN(y) || math.IsInf(y, 0), fmt.Sprintf("Eval(%f) not finite", x))
	}

	// the last point among equal x wins, leaving a two knot linear fit
	assert.InDelta(t, 0.5, c.Eval(0), 1e-9)
	assert.InDelta(t, 0.75, c.Eval(0.5), 1e-9)
	assert.InDelta(t, 1.0, c.Eval(1), 1e-9)
}

func TestClone(t *testing.T) {
	linear, _ := NewPiecewiseLinear(Point{-1, -1}, Point{0.2, 0.4}, Point{1, 1})
	cubic, _ := NewCubicSpline(Point{-1, -1}, Point{-0.4, -0.2}, Point{0.2, 0.7}, Point{1, 1})
	bezier, _ := NewCubicBezierSpline()

	for _, c := range []Curve{linear, cubic, bezier} {
		clone := c.Clone()
		assert.Empty(t, cmp.Diff(sample(c), sample(clone)))

		clone.AddControlPoint(0.5, -0.5)
		assert.NotEqual(t, len(c.ControlPoints()), len(clone.ControlPoints()))
	}
}

func TestNewByType(t *testing.T) {
	for name, typ := range TypeFromString {
		c, err := New(typ, false)
		assert.Equal(t, nil, err)
		assert.Equal(t, typ, c.Type())
		assert.Equal(t, name, c.Type().String())
	}

	c, err := New(CubicSplineType, true, Point{-1, -1}, Point{0.3, 0.5}, Point{1, 1})
	assert.Equal(t, nil, err)
	assert.True(t, c.Symmetric())
	assertSymmetric(t, c)
}

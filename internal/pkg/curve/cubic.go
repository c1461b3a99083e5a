package curve

import "fmt"

// CubicSpline is a natural cubic spline passing through all of its
// control points with C2 continuity.
type CubicSpline struct {
	points    []Point
	symmetric bool

	// knots are the points the spline is fitted through. Control points
	// sharing an x coordinate collapse to the last one so every segment
	// keeps a nonzero width.
	knots []Point

	// z holds the second derivative at every knot, recomputed on Fit.
	// Natural boundary conditions keep z[0] and z[n] at zero, with fewer
	// than 3 knots all entries stay zero and the spline degrades to
	// linear interpolation.
	z []float64
}

var _ Curve = (*CubicSpline)(nil)

// NewCubicSpline creates a natural cubic spline from the given control
// points. Without points the default straight line from (-1, -1) to
// (1, 1) is used.
func NewCubicSpline(points ...Point) (*CubicSpline, error) {
	if len(points) == 0 {
		points = []Point{{-1, -1}, {1, 1}}
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: cubic spline needs at least 2 points, got %d", ErrCurveDefinition, len(points))
	}

	c := &CubicSpline{points: append([]Point(nil), points...)}
	c.Fit()
	return c, nil
}

func (c *CubicSpline) Type() Type {
	return CubicSplineType
}

func (c *CubicSpline) ControlPoints() []ControlPoint {
	cps := make([]ControlPoint, len(c.points))
	for i, p := range c.points {
		cps[i] = ControlPoint{Center: p}
	}
	return cps
}

func (c *CubicSpline) AddControlPoint(x, y float64) {
	c.points = append(c.points, Point{x, y})
	if c.symmetric {
		c.points = append(c.points, Point{-x, -y})
	}
	c.Fit()
}

func (c *CubicSpline) SetControlPoint(i int, p Point) error {
	if i < 0 || i >= len(c.points) {
		return fmt.Errorf("%w: %d", ErrCurveIndex, i)
	}
	if c.symmetric {
		mirrorPoint(c.points, i, p)
	} else {
		c.points[i] = p
	}
	c.Fit()
	return nil
}

func (c *CubicSpline) SetHandle(i, side int, p Point) error {
	if i < 0 || i >= len(c.points) {
		return fmt.Errorf("%w: %d", ErrCurveIndex, i)
	}
	return fmt.Errorf("%w: cubic splines have no handles", ErrCurveHandle)
}

func (c *CubicSpline) Invert() {
	for i := range c.points {
		c.points[i].Y = -c.points[i].Y
	}
	c.Fit()
}

func (c *CubicSpline) Symmetric() bool {
	return c.symmetric
}

func (c *CubicSpline) SetSymmetric(symmetric bool) {
	if symmetric && !c.symmetric {
		enforceSymmetry(c.points)
	}
	c.symmetric = symmetric
	c.Fit()
}

// Fit collapses duplicate-x control points into knots, then recomputes
// the second derivative array with the classical tridiagonal forward
// sweep and back substitution.
func (c *CubicSpline) Fit() {
	sortPoints(c.points)

	c.knots = c.knots[:0]
	for _, p := range c.points {
		if n := len(c.knots); n > 0 && p.X-c.knots[n-1].X < epsilon {
			c.knots[n-1] = p
			continue
		}
		c.knots = append(c.knots, p)
	}

	c.z = make([]float64, len(c.knots))
	n := len(c.knots) - 1
	if n < 2 {
		return
	}

	h := make([]float64, n)
	b := make([]float64, n)
	u := make([]float64, n)
	v := make([]float64, n)

	for i := 0; i < n; i++ {
		h[i] = c.knots[i+1].X - c.knots[i].X
		b[i] = (c.knots[i+1].Y - c.knots[i].Y) / h[i]
	}

	u[1] = 2 * (h[0] + h[1])
	v[1] = 6 * (b[1] - b[0])
	for i := 2; i < n; i++ {
		u[i] = 2*(h[i]+h[i-1]) - h[i-1]*h[i-1]/u[i-1]
		v[i] = 6*(b[i]-b[i-1]) - h[i-1]*v[i-1]/u[i-1]
	}

	c.z[n] = 0.0
	for i := n - 1; i > 0; i-- {
		c.z[i] = (v[i] - h[i]*c.z[i+1]) / u[i]
	}
	c.z[0] = 0.0
}

func (c *CubicSpline) Eval(x float64) float64 {
	x = clamp(x, -1.0, 1.0)

	if x <= c.knots[0].X {
		return c.knots[0].Y
	}
	if x >= c.knots[len(c.knots)-1].X {
		return c.knots[len(c.knots)-1].Y
	}

	i := 0
	for ; i < len(c.knots)-1; i++ {
		if c.knots[i].X <= x && x <= c.knots[i+1].X {
			break
		}
	}
	if i == len(c.knots)-1 {
		i--
	}

	h := c.knots[i+1].X - c.knots[i].X
	dx := x - c.knots[i].X

	tmp := c.z[i]/2.0 + dx*(c.z[i+1]-c.z[i])/(6*h)
	tmp = -(h/6.0)*(c.z[i+1]+2*c.z[i]) + (c.knots[i+1].Y-c.knots[i].Y)/h + dx*tmp

	return c.knots[i].Y + dx*tmp
}

func (c *CubicSpline) Clone() Curve {
	clone := &CubicSpline{
		points:    append([]Point(nil), c.points...),
		symmetric: c.symmetric,
	}
	clone.Fit()
	return clone
}

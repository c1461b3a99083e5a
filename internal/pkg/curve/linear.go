package curve

import "fmt"

// PiecewiseLinear connects its control points with straight segments.
type PiecewiseLinear struct {
	points    []Point
	symmetric bool
}

var _ Curve = (*PiecewiseLinear)(nil)

// NewPiecewiseLinear creates a piecewise linear curve from the given
// control points. Without points the default straight line from (-1, -1)
// to (1, 1) is used.
func NewPiecewiseLinear(points ...Point) (*PiecewiseLinear, error) {
	if len(points) == 0 {
		points = []Point{{-1, -1}, {1, 1}}
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: piecewise linear curve needs at least 2 points, got %d", ErrCurveDefinition, len(points))
	}

	c := &PiecewiseLinear{points: append([]Point(nil), points...)}
	c.Fit()
	return c, nil
}

func (c *PiecewiseLinear) Type() Type {
	return PiecewiseLinearType
}

func (c *PiecewiseLinear) ControlPoints() []ControlPoint {
	cps := make([]ControlPoint, len(c.points))
	for i, p := range c.points {
		cps[i] = ControlPoint{Center: p}
	}
	return cps
}

func (c *PiecewiseLinear) AddControlPoint(x, y float64) {
	c.points = append(c.points, Point{x, y})
	if c.symmetric {
		c.points = append(c.points, Point{-x, -y})
	}
	c.Fit()
}

func (c *PiecewiseLinear) SetControlPoint(i int, p Point) error {
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

func (c *PiecewiseLinear) SetHandle(i, side int, p Point) error {
	if i < 0 || i >= len(c.points) {
		return fmt.Errorf("%w: %d", ErrCurveIndex, i)
	}
	return fmt.Errorf("%w: piecewise linear curves have no handles", ErrCurveHandle)
}

func (c *PiecewiseLinear) Invert() {
	for i := range c.points {
		c.points[i].Y = -c.points[i].Y
	}
	c.Fit()
}

func (c *PiecewiseLinear) Symmetric() bool {
	return c.symmetric
}

func (c *PiecewiseLinear) SetSymmetric(symmetric bool) {
	if symmetric && !c.symmetric {
		enforceSymmetry(c.points)
	}
	c.symmetric = symmetric
	c.Fit()
}

func (c *PiecewiseLinear) Fit() {
	sortPoints(c.points)
}

func (c *PiecewiseLinear) Eval(x float64) float64 {
	x = clamp(x, -1.0, 1.0)

	if x <= c.points[0].X {
		return c.points[0].Y
	}
	if x >= c.points[len(c.points)-1].X {
		return c.points[len(c.points)-1].Y
	}

	for i := 0; i < len(c.points)-1; i++ {
		a, b := c.points[i], c.points[i+1]
		if a.X <= x && x < b.X {
			return a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X)
		}
	}
	return c.points[len(c.points)-1].Y
}

func (c *PiecewiseLinear) Clone() Curve {
	return &PiecewiseLinear{
		points:    append([]Point(nil), c.points...),
		symmetric: c.symmetric,
	}
}

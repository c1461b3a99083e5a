package curve

import (
	"fmt"
	"sort"
)

// lookupSteps is the number of forward-evaluation samples per Bézier
// segment. Cubic Bézier segments are not invertible from x to y in closed
// form, so every Fit discretizes each segment into lookupSteps+1 (t, point)
// samples and Eval binary-searches them by x.
const lookupSteps = 100

// handleOffset is the x distance of synthesized tangent handles from a
// freshly inserted knot.
const handleOffset = 0.05

type bezierKnot struct {
	center Point
	// left and right are tangent handles. The first knot has no left
	// handle and the last knot no right handle (open curve ends).
	left, right *Point
}

func (k bezierKnot) clone() bezierKnot {
	out := bezierKnot{center: k.center}
	if k.left != nil {
		l := *k.left
		out.left = &l
	}
	if k.right != nil {
		r := *k.right
		out.right = &r
	}
	return out
}

// mirror returns the knot point-reflected through the origin. The handles
// swap sides: the mirror's left handle is the reflection of the original's
// right handle and vice versa.
func (k bezierKnot) mirror() bezierKnot {
	out := bezierKnot{center: k.center.Neg()}
	if k.right != nil {
		l := k.right.Neg()
		out.left = &l
	}
	if k.left != nil {
		r := k.left.Neg()
		out.right = &r
	}
	return out
}

type lutSample struct {
	t float64
	p Point
}

// CubicBezierSpline chains cubic Bézier segments between consecutive
// knots, with independently editable tangent handles.
type CubicBezierSpline struct {
	knots     []bezierKnot
	symmetric bool

	// lookup holds one sample table per knot pair, rebuilt on Fit.
	lookup [][]lutSample
}

var _ Curve = (*CubicBezierSpline)(nil)

// NewCubicBezierSpline creates a Bézier spline from a flat point list
// laid out as knot, handle, handle, knot, handle, handle, knot, ...
// The list length L must satisfy L >= 4 and (L-4) % 3 == 0. Without
// points a near-straight default of 4 points is used.
func NewCubicBezierSpline(points ...Point) (*CubicBezierSpline, error) {
	if len(points) == 0 {
		points = []Point{{-1, -1}, {-0.95, -0.95}, {0.95, 0.95}, {1, 1}}
	}
	if len(points) < 4 || (len(points)-4)%3 != 0 {
		return nil, fmt.Errorf(
			"%w: bézier point list length must be 4+3n, got %d",
			ErrCurveDefinition, len(points),
		)
	}

	segments := (len(points)-4)/3 + 1
	knots := make([]bezierKnot, 0, segments+1)

	first := bezierKnot{center: points[0]}
	r := points[1]
	first.right = &r
	knots = append(knots, first)

	for i := 0; i < segments; i++ {
		offset := i * 3
		knot := bezierKnot{center: points[offset+3]}
		l := points[offset+2]
		knot.left = &l
		if offset+4 < len(points) {
			r := points[offset+4]
			knot.right = &r
		}
		knots = append(knots, knot)
	}

	c := &CubicBezierSpline{knots: knots}
	c.Fit()
	return c, nil
}

func (c *CubicBezierSpline) Type() Type {
	return CubicBezierSplineType
}

func (c *CubicBezierSpline) ControlPoints() []ControlPoint {
	cps := make([]ControlPoint, len(c.knots))
	for i, k := range c.knots {
		clone := k.clone()
		cps[i] = ControlPoint{
			Center:      clone.center,
			HandleLeft:  clone.left,
			HandleRight: clone.right,
		}
	}
	return cps
}

func (c *CubicBezierSpline) AddControlPoint(x, y float64) {
	l := Point{x - handleOffset, y}
	r := Point{x + handleOffset, y}
	knot := bezierKnot{center: Point{x, y}, left: &l, right: &r}

	c.knots = append(c.knots, knot)
	if c.symmetric {
		c.knots = append(c.knots, knot.mirror())
	}
	c.Fit()
}

func (c *CubicBezierSpline) SetControlPoint(i int, p Point) error {
	if i < 0 || i >= len(c.knots) {
		return fmt.Errorf("%w: %d", ErrCurveIndex, i)
	}

	if c.symmetric && len(c.knots)-1-i == i {
		p = Point{}
	}

	// handles travel with the knot, preserving the tangent shape
	delta := p.Sub(c.knots[i].center)
	c.knots[i].center = p
	if c.knots[i].left != nil {
		*c.knots[i].left = c.knots[i].left.Add(delta)
	}
	if c.knots[i].right != nil {
		*c.knots[i].right = c.knots[i].right.Add(delta)
	}

	if c.symmetric {
		j := len(c.knots) - 1 - i
		if j != i {
			c.knots[j] = c.knots[i].mirror()
		}
	}

	c.Fit()
	return nil
}

func (c *CubicBezierSpline) SetHandle(i, side int, p Point) error {
	if i < 0 || i >= len(c.knots) {
		return fmt.Errorf("%w: %d", ErrCurveIndex, i)
	}

	var h *Point
	switch side {
	case HandleLeft:
		h = c.knots[i].left
	case HandleRight:
		h = c.knots[i].right
	default:
		return fmt.Errorf("%w: unknown handle side %d", ErrCurveHandle, side)
	}
	if h == nil {
		return fmt.Errorf("%w: knot %d", ErrCurveHandle, i)
	}
	*h = p

	if c.symmetric {
		j := len(c.knots) - 1 - i
		var opposite *Point
		if side == HandleLeft {
			opposite = c.knots[j].right
		} else {
			opposite = c.knots[j].left
		}
		if opposite != nil && opposite != h {
			*opposite = p.Neg()
		}
	}

	c.Fit()
	return nil
}

func (c *CubicBezierSpline) Invert() {
	for i := range c.knots {
		c.knots[i].center.Y = -c.knots[i].center.Y
		if c.knots[i].left != nil {
			c.knots[i].left.Y = -c.knots[i].left.Y
		}
		if c.knots[i].right != nil {
			c.knots[i].right.Y = -c.knots[i].right.Y
		}
	}
	c.Fit()
}

func (c *CubicBezierSpline) Symmetric() bool {
	return c.symmetric
}

func (c *CubicBezierSpline) SetSymmetric(symmetric bool) {
	if symmetric && !c.symmetric {
		n := len(c.knots)
		for i := 0; i < n/2; i++ {
			c.knots[n-1-i] = c.knots[i].mirror()
		}
		if n%2 == 1 {
			m := &c.knots[n/2]
			delta := m.center.Neg()
			m.center = Point{}
			if m.left != nil {
				*m.left = m.left.Add(delta)
			}
			if m.right != nil {
				*m.right = m.right.Add(delta)
			}
			if m.left != nil && m.right != nil {
				*m.right = m.left.Neg()
			}
		}
	}
	c.symmetric = symmetric
	c.Fit()
}

func (c *CubicBezierSpline) Fit() {
	sort.SliceStable(c.knots, func(i, j int) bool {
		return c.knots[i].center.X < c.knots[j].center.X
	})

	c.lookup = make([][]lutSample, 0, len(c.knots)-1)
	for i := 0; i < len(c.knots)-1; i++ {
		a, b := c.knots[i], c.knots[i+1]

		p0 := a.center
		p1 := a.center
		if a.right != nil {
			p1 = *a.right
		}
		p2 := b.center
		if b.left != nil {
			p2 = *b.left
		}
		p3 := b.center

		table := make([]lutSample, 0, lookupSteps+1)
		for j := 0; j <= lookupSteps; j++ {
			t := float64(j) / lookupSteps
			table = append(table, lutSample{t: t, p: bezierAt(p0, p1, p2, p3, t)})
		}
		c.lookup = append(c.lookup, table)
	}
}

// bezierAt evaluates the cubic Bernstein polynomial at t.
func bezierAt(p0, p1, p2, p3 Point, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt

	return Point{
		X: p0.X*mt3 + 3*p1.X*mt2*t + 3*p2.X*mt*t2 + p3.X*t3,
		Y: p0.Y*mt3 + 3*p1.Y*mt2*t + 3*p2.Y*mt*t2 + p3.Y*t3,
	}
}

func (c *CubicBezierSpline) Eval(x float64) float64 {
	x = clamp(x, -1.0, 1.0)

	// segment whose knot span contains x, clamped to the outermost
	// segments when x lies outside the knot range
	index := 0
	switch {
	case c.knots[0].center.X > x:
		index = 0
	case c.knots[len(c.knots)-1].center.X <= x:
		index = len(c.lookup) - 1
	default:
		for i := 0; i < len(c.knots)-1; i++ {
			if c.knots[i].center.X <= x && x <= c.knots[i+1].center.X {
				index = i
				break
			}
		}
	}

	table := c.lookup[index]
	if x <= table[0].p.X {
		return table[0].p.Y
	}
	if x >= table[len(table)-1].p.X {
		return table[len(table)-1].p.Y
	}

	lo, hi := 0, len(table)-1
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if table[mid].p.X < x {
			lo = mid
		} else {
			hi = mid
		}
	}

	low, high := table[lo].p, table[hi].p
	return low.Y + (x-low.X)*(high.Y-low.Y)/(high.X-low.X+epsilon)
}

func (c *CubicBezierSpline) Clone() Curve {
	knots := make([]bezierKnot, len(c.knots))
	for i, k := range c.knots {
		knots[i] = k.clone()
	}
	clone := &CubicBezierSpline{knots: knots, symmetric: c.symmetric}
	clone.Fit()
	return clone
}

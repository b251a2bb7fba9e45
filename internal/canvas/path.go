package canvas

import "math"

// curveSteps is the number of segments used to flatten one curve.
const curveSteps = 12

// Path flattens lines, quadratic curves and arcs into a polygon.
type Path struct {
	pts []Point
}

func (p *Path) MoveTo(x, y float64) {
	p.pts = append(p.pts[:0], Point{x, y})
}

func (p *Path) LineTo(x, y float64) {
	p.pts = append(p.pts, Point{x, y})
}

// QuadTo adds a quadratic Bézier from the current point through control
// (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	start := p.last()
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		p.pts = append(p.pts, Point{
			X: u*u*start.X + 2*u*t*cx + t*t*x,
			Y: u*u*start.Y + 2*u*t*cy + t*t*y,
		})
	}
}

// ArcAround adds points on the circle at (cx, cy) from angle a0 to a1
// (radians, clockwise on screen because y grows downward).
func (p *Path) ArcAround(cx, cy, r, a0, a1 float64) {
	p.pts = append(p.pts, Arc(Point{cx, cy}, r, a0, a1)...)
}

// Rect adds the four corners of r.
func (p *Path) Rect(r Rect) {
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.X+r.W, r.Y)
	p.LineTo(r.X+r.W, r.Y+r.H)
	p.LineTo(r.X, r.Y+r.H)
}

// Points returns the flattened outline. The slice is owned by the path.
func (p *Path) Points() []Point { return p.pts }

func (p *Path) last() Point {
	if len(p.pts) == 0 {
		return Point{}
	}
	return p.pts[len(p.pts)-1]
}

// Arc samples a circular arc, endpoints included.
func Arc(center Point, r, a0, a1 float64) []Point {
	out := make([]Point, 0, curveSteps+1)
	for i := 0; i <= curveSteps; i++ {
		a := a0 + (a1-a0)*float64(i)/curveSteps
		out = append(out, Point{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)})
	}
	return out
}

// PolygonContains is an even-odd point-in-polygon test.
func PolygonContains(pts []Point, x, y float64) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Bounds returns the bounding box of pts.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

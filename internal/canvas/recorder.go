package canvas

import "strings"

// OpKind names a recorded drawing call.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpFillRect
	OpStrokeRect
	OpDashRect
	OpVGradient
	OpLine
	OpFillCircle
	OpStrokeCircle
	OpFillEllipse
	OpFillPolygon
	OpStrokePolygon
	OpText
)

// Op is one recorded call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Rect   Rect
	Points []Point
	Color  RGBA
	Color2 RGBA
	Radius float64
	Text   string
	Align  Align
}

// Recorder is a Canvas that keeps every call for inspection.
type Recorder struct {
	W, H float64
	Ops  []Op
}

func NewRecorder(w, h float64) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

// Clear drops previously recorded ops and records the clear itself.
func (r *Recorder) Clear() { r.Ops = append(r.Ops[:0], Op{Kind: OpClear}) }

func (r *Recorder) FillRect(rc Rect, c RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Rect: rc, Color: c})
}

func (r *Recorder) StrokeRect(rc Rect, c RGBA, _ float64) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeRect, Rect: rc, Color: c})
}

func (r *Recorder) DashRect(rc Rect, c RGBA, _, _, _ float64) {
	r.Ops = append(r.Ops, Op{Kind: OpDashRect, Rect: rc, Color: c})
}

func (r *Recorder) VGradient(rc Rect, top, bottom RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpVGradient, Rect: rc, Color: top, Color2: bottom})
}

func (r *Recorder) Line(a, b Point, c RGBA, _ float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: []Point{a, b}, Color: c})
}

func (r *Recorder) FillCircle(center Point, radius float64, c RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, Points: []Point{center}, Radius: radius, Color: c})
}

func (r *Recorder) StrokeCircle(center Point, radius float64, c RGBA, _ float64) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, Points: []Point{center}, Radius: radius, Color: c})
}

func (r *Recorder) FillEllipse(center Point, rx, ry float64, c RGBA) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpFillEllipse,
		Points: []Point{center},
		Rect:   Rect{X: center.X - rx, Y: center.Y - ry, W: 2 * rx, H: 2 * ry},
		Color:  c,
	})
}

func (r *Recorder) FillPolygon(pts []Point, c RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillPolygon, Points: append([]Point(nil), pts...), Rect: Bounds(pts), Color: c})
}

func (r *Recorder) StrokePolygon(pts []Point, c RGBA, _ float64) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokePolygon, Points: append([]Point(nil), pts...), Rect: Bounds(pts), Color: c})
}

func (r *Recorder) Text(at Point, s string, c RGBA, align Align) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Points: []Point{at}, Text: s, Color: c, Align: align})
}

// Filter returns the recorded ops of the given kind, in call order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns every recorded string containing substr.
func (r *Recorder) Texts(substr string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpText && strings.Contains(op.Text, substr) {
			out = append(out, op)
		}
	}
	return out
}

// FillRectsSized returns filled rectangles of exactly w×h.
func (r *Recorder) FillRectsSized(w, h float64) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpFillRect && op.Rect.W == w && op.Rect.H == h {
			out = append(out, op)
		}
	}
	return out
}

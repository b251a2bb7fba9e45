// Package render rasterises the logical canvas onto a tcell screen using
// half-block cells: each terminal cell shows two pixels, the upper one as
// the foreground of '▀' and the lower one as its background.
package render

import (
	"math"

	"simlibrary/internal/canvas"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// HUDRows is the number of rows reserved at the bottom of the screen.
const HUDRows = 5

type textRun struct {
	x, y  float64
	s     string
	c     canvas.RGBA
	align canvas.Align
}

// Renderer is a canvas.Canvas backed by a tcell screen.
type Renderer struct {
	screen   tcell.Screen
	camera   *Camera
	logicalW float64
	logicalH float64
	pw, ph   int
	px       []colorful.Color
	texts    []textRun
}

// NewRenderer creates a Renderer for a logicalW×logicalH canvas drawn into
// the screen above the HUD.
func NewRenderer(screen tcell.Screen, logicalW, logicalH float64) *Renderer {
	r := &Renderer{screen: screen, logicalW: logicalW, logicalH: logicalH}
	r.Resize()
	return r
}

// Resize refits the viewport to the current screen size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	if r.camera == nil {
		r.camera = NewCamera(w, h-HUDRows, r.logicalW, r.logicalH)
	} else {
		r.camera.Fit(w, h-HUDRows, r.logicalW, r.logicalH)
	}
	r.pw, r.ph = r.camera.ViewWidth, r.camera.ViewHeight*2
	r.px = make([]colorful.Color, r.pw*r.ph)
}

// Camera exposes the cell/canvas mapping for pointer input.
func (r *Renderer) Camera() *Camera { return r.camera }

// Screen returns the underlying tcell screen.
func (r *Renderer) Screen() tcell.Screen { return r.screen }

func (r *Renderer) Size() (float64, float64) { return r.logicalW, r.logicalH }

func (r *Renderer) Clear() {
	for i := range r.px {
		r.px[i] = colorful.Color{}
	}
	r.texts = r.texts[:0]
}

// pixel span covering [a, b) in logical units, at least one pixel wide
// when the span is non-empty.
func span(a, b, scale float64, limit int) (int, int) {
	p0 := int(math.Round(a * scale))
	p1 := int(math.Round(b * scale))
	if p1 <= p0 && b > a {
		p1 = p0 + 1
	}
	if p0 < 0 {
		p0 = 0
	}
	if p1 > limit {
		p1 = limit
	}
	return p0, p1
}

func (r *Renderer) blend(x, y int, c canvas.RGBA) {
	if x < 0 || y < 0 || x >= r.pw || y >= r.ph {
		return
	}
	i := y*r.pw + x
	r.px[i] = c.Over(r.px[i])
}

func (r *Renderer) FillRect(rc canvas.Rect, c canvas.RGBA) {
	x0, x1 := span(rc.X, rc.X+rc.W, r.camera.ScaleX, r.pw)
	y0, y1 := span(rc.Y, rc.Y+rc.H, r.camera.ScaleY, r.ph)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.blend(x, y, c)
		}
	}
}

// edge returns the logical thickness of a stroke, never thinner than one
// device pixel along the given axis.
func edge(width, scale float64) float64 {
	if px := 1 / scale; width < px {
		return px
	}
	return width
}

func (r *Renderer) StrokeRect(rc canvas.Rect, c canvas.RGBA, width float64) {
	tx := edge(width, r.camera.ScaleX)
	ty := edge(width, r.camera.ScaleY)
	r.FillRect(canvas.Rect{X: rc.X, Y: rc.Y, W: rc.W, H: ty}, c)
	r.FillRect(canvas.Rect{X: rc.X, Y: rc.Y + rc.H - ty, W: rc.W, H: ty}, c)
	r.FillRect(canvas.Rect{X: rc.X, Y: rc.Y + ty, W: tx, H: rc.H - 2*ty}, c)
	r.FillRect(canvas.Rect{X: rc.X + rc.W - tx, Y: rc.Y + ty, W: tx, H: rc.H - 2*ty}, c)
}

func (r *Renderer) DashRect(rc canvas.Rect, c canvas.RGBA, width, dash, gap float64) {
	tx := edge(width, r.camera.ScaleX)
	ty := edge(width, r.camera.ScaleY)
	for x := rc.X; x < rc.X+rc.W; x += dash + gap {
		w := math.Min(dash, rc.X+rc.W-x)
		r.FillRect(canvas.Rect{X: x, Y: rc.Y, W: w, H: ty}, c)
		r.FillRect(canvas.Rect{X: x, Y: rc.Y + rc.H - ty, W: w, H: ty}, c)
	}
	for y := rc.Y; y < rc.Y+rc.H; y += dash + gap {
		h := math.Min(dash, rc.Y+rc.H-y)
		r.FillRect(canvas.Rect{X: rc.X, Y: y, W: tx, H: h}, c)
		r.FillRect(canvas.Rect{X: rc.X + rc.W - tx, Y: y, W: tx, H: h}, c)
	}
}

func (r *Renderer) VGradient(rc canvas.Rect, top, bottom canvas.RGBA) {
	x0, x1 := span(rc.X, rc.X+rc.W, r.camera.ScaleX, r.pw)
	y0, y1 := span(rc.Y, rc.Y+rc.H, r.camera.ScaleY, r.ph)
	for y := y0; y < y1; y++ {
		t := 0.0
		if y1-y0 > 1 {
			t = float64(y-y0) / float64(y1-y0-1)
		}
		c := canvas.RGBA{C: top.C.BlendRgb(bottom.C, t), A: top.A + (bottom.A-top.A)*t}
		for x := x0; x < x1; x++ {
			r.blend(x, y, c)
		}
	}
}

func (r *Renderer) Line(a, b canvas.Point, c canvas.RGBA, width float64) {
	ax, ay := a.X*r.camera.ScaleX, a.Y*r.camera.ScaleY
	bx, by := b.X*r.camera.ScaleX, b.Y*r.camera.ScaleY
	steps := int(math.Ceil(math.Max(math.Abs(bx-ax), math.Abs(by-ay))))
	if steps < 1 {
		steps = 1
	}
	thick := int(math.Max(1, math.Round(width*math.Min(r.camera.ScaleX, r.camera.ScaleY))))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Floor(ax + (bx-ax)*t))
		y := int(math.Floor(ay + (by-ay)*t))
		for d := 0; d < thick; d++ {
			r.blend(x+d, y, c)
		}
	}
}

// fillShape blends c into every pixel of bounds whose centre satisfies
// inside. A shape too small to cover any pixel centre still marks the
// pixel holding its own centre.
func (r *Renderer) fillShape(bounds canvas.Rect, c canvas.RGBA, inside func(x, y float64) bool) {
	x0, x1 := span(bounds.X, bounds.X+bounds.W, r.camera.ScaleX, r.pw)
	y0, y1 := span(bounds.Y, bounds.Y+bounds.H, r.camera.ScaleY, r.ph)
	hit := false
	for y := y0; y < y1; y++ {
		ly := (float64(y) + 0.5) / r.camera.ScaleY
		for x := x0; x < x1; x++ {
			lx := (float64(x) + 0.5) / r.camera.ScaleX
			if inside(lx, ly) {
				r.blend(x, y, c)
				hit = true
			}
		}
	}
	if !hit && bounds.W > 0 && bounds.H > 0 {
		cx := int(math.Floor((bounds.X + bounds.W/2) * r.camera.ScaleX))
		cy := int(math.Floor((bounds.Y + bounds.H/2) * r.camera.ScaleY))
		r.blend(cx, cy, c)
	}
}

func (r *Renderer) FillCircle(center canvas.Point, radius float64, c canvas.RGBA) {
	r.FillEllipse(center, radius, radius, c)
}

func (r *Renderer) StrokeCircle(center canvas.Point, radius float64, c canvas.RGBA, width float64) {
	pts := canvas.Arc(center, radius, 0, 2*math.Pi)
	r.StrokePolygon(pts, c, width)
}

func (r *Renderer) FillEllipse(center canvas.Point, rx, ry float64, c canvas.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	bounds := canvas.Rect{X: center.X - rx, Y: center.Y - ry, W: 2 * rx, H: 2 * ry}
	r.fillShape(bounds, c, func(x, y float64) bool {
		dx, dy := (x-center.X)/rx, (y-center.Y)/ry
		return dx*dx+dy*dy <= 1
	})
}

func (r *Renderer) FillPolygon(pts []canvas.Point, c canvas.RGBA) {
	if len(pts) < 3 {
		return
	}
	r.fillShape(canvas.Bounds(pts), c, func(x, y float64) bool {
		return canvas.PolygonContains(pts, x, y)
	})
}

func (r *Renderer) StrokePolygon(pts []canvas.Point, c canvas.RGBA, width float64) {
	for i := range pts {
		r.Line(pts[i], pts[(i+1)%len(pts)], c, width)
	}
}

// Text is drawn as terminal glyphs on top of the pixels during Flush.
func (r *Renderer) Text(at canvas.Point, s string, c canvas.RGBA, align canvas.Align) {
	r.texts = append(r.texts, textRun{x: at.X, y: at.Y, s: s, c: c, align: align})
}

// Flush writes the pixel buffer and text overlays to the screen. It does
// not call Show.
func (r *Renderer) Flush() {
	cam := r.camera
	for row := 0; row < cam.ViewHeight; row++ {
		for col := 0; col < cam.ViewWidth; col++ {
			top := r.px[(2*row)*r.pw+col]
			bottom := r.px[(2*row+1)*r.pw+col]
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			r.screen.SetContent(cam.OffsetX+col, cam.OffsetY+row, '▀', nil, style)
		}
	}
	for _, t := range r.texts {
		r.flushText(t)
	}
}

func (r *Renderer) flushText(t textRun) {
	cam := r.camera
	sx, sy, visible := cam.CanvasToScreen(t.x, t.y)
	if !visible {
		return
	}
	if t.align == canvas.AlignCenter {
		sx -= runewidth.StringWidth(t.s) / 2
	}
	row := sy - cam.OffsetY
	for _, g := range clusters(t.s) {
		w := runewidth.StringWidth(g)
		col := sx - cam.OffsetX
		if col >= 0 && col+w <= cam.ViewWidth {
			// Sit the text on the average of the two pixels it covers.
			bg := r.px[(2*row)*r.pw+col].BlendRgb(r.px[(2*row+1)*r.pw+col], 0.5)
			style := tcell.StyleDefault.Foreground(toTcell(t.c.C)).Background(toTcell(bg)).Bold(true)
			r.putGlyph(sx, sy, g, style)
		}
		sx += w
	}
}

// clusters splits s into glyphs, attaching zero-width runes (variation
// selectors, joiners) to the glyph before them.
func clusters(s string) []string {
	var out []string
	joinNext := false
	for _, ch := range s {
		if n := len(out); n > 0 && (joinNext || runewidth.RuneWidth(ch) == 0) {
			out[n-1] += string(ch)
			joinNext = ch == '\u200d'
			continue
		}
		out = append(out, string(ch))
		joinNext = false
	}
	return out
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

func toTcell(c colorful.Color) tcell.Color {
	cr, cg, cb := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))
}

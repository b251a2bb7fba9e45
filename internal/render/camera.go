package render

import "math"

// Camera translates between canvas pixels and terminal cells.
// Every cell holds two vertically stacked pixels, so canvas Y is scaled by
// twice the row count.
type Camera struct {
	OffsetX    int // first viewport column on screen
	OffsetY    int // first viewport row on screen
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
	ScaleX     float64
	ScaleY     float64 // canvas px → half-cell pixels
}

// NewCamera fits a logicalW×logicalH canvas into a area of cols×rows cells,
// preserving the canvas aspect ratio and centering horizontally.
func NewCamera(cols, rows int, logicalW, logicalH float64) *Camera {
	c := &Camera{}
	c.Fit(cols, rows, logicalW, logicalH)
	return c
}

// Fit recomputes the viewport for a new screen size.
func (c *Camera) Fit(cols, rows int, logicalW, logicalH float64) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	// Pixels are roughly square: one column wide, half a row tall.
	aspect := logicalW / logicalH
	viewW := int(math.Floor(float64(rows*2) * aspect))
	viewH := rows
	if viewW > cols {
		viewW = cols
		viewH = int(math.Floor(float64(cols) / aspect / 2))
	}
	if viewW < 1 {
		viewW = 1
	}
	if viewH < 1 {
		viewH = 1
	}
	c.ViewWidth, c.ViewHeight = viewW, viewH
	c.OffsetX = (cols - viewW) / 2
	c.OffsetY = 0
	c.ScaleX = float64(viewW) / logicalW
	c.ScaleY = float64(viewH*2) / logicalH
}

// CanvasToScreen converts a canvas point to the cell containing it.
// visible is false when the result falls outside the viewport.
func (c *Camera) CanvasToScreen(x, y float64) (sx, sy int, visible bool) {
	col := int(math.Floor(x * c.ScaleX))
	row := int(math.Floor(y*c.ScaleY)) / 2
	sx, sy = col+c.OffsetX, row+c.OffsetY
	visible = col >= 0 && col < c.ViewWidth && row >= 0 && row < c.ViewHeight
	return
}

// ScreenToCanvas converts a cell to the canvas point at its centre.
// ok is false when the cell lies outside the viewport.
func (c *Camera) ScreenToCanvas(sx, sy int) (x, y float64, ok bool) {
	col, row := sx-c.OffsetX, sy-c.OffsetY
	if col < 0 || col >= c.ViewWidth || row < 0 || row >= c.ViewHeight {
		return 0, 0, false
	}
	x = (float64(col) + 0.5) / c.ScaleX
	y = (float64(row*2) + 1) / c.ScaleY
	return x, y, true
}

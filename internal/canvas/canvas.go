// Package canvas is the 2D drawing surface the scene renders onto.
// Coordinates are logical pixels with the origin at the top left; a backend
// decides how they map to a device.
package canvas

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a color with straight (non-premultiplied) alpha in [0,1].
type RGBA struct {
	C colorful.Color
	A float64
}

// Hex parses "#RRGGBB". It panics on malformed input, so it is meant for
// literal style tables.
func Hex(s string) RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("canvas: bad color %q: %v", s, err))
	}
	return RGBA{C: c, A: 1}
}

// RGB255 builds an opaque color from 8-bit channels.
func RGB255(r, g, b uint8) RGBA {
	return RGBA{C: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, A: 1}
}

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Over composites c onto an opaque dst.
func (c RGBA) Over(dst colorful.Color) colorful.Color {
	switch {
	case c.A >= 1:
		return c.C
	case c.A <= 0:
		return dst
	}
	return dst.BlendRgb(c.C, c.A).Clamped()
}

// Hex formats the color as "#rrggbb", ignoring alpha.
func (c RGBA) Hex() string { return c.C.Hex() }

var (
	Black = RGBA{C: colorful.Color{}, A: 1}
	White = RGBA{C: colorful.Color{R: 1, G: 1, B: 1}, A: 1}
)

type Point struct{ X, Y float64 }

// Rect is an axis-aligned rectangle.
type Rect struct{ X, Y, W, H float64 }

// Contains reports whether (x, y) lies within r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Align controls horizontal text placement relative to the anchor point.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
)

// Canvas is the set of primitives the scene needs. Widths are in logical
// pixels. Text is anchored on its vertical middle.
type Canvas interface {
	Size() (w, h float64)
	Clear()
	FillRect(r Rect, c RGBA)
	StrokeRect(r Rect, c RGBA, width float64)
	DashRect(r Rect, c RGBA, width, dash, gap float64)
	VGradient(r Rect, top, bottom RGBA)
	Line(a, b Point, c RGBA, width float64)
	FillCircle(center Point, radius float64, c RGBA)
	StrokeCircle(center Point, radius float64, c RGBA, width float64)
	FillEllipse(center Point, rx, ry float64, c RGBA)
	FillPolygon(pts []Point, c RGBA)
	StrokePolygon(pts []Point, c RGBA, width float64)
	Text(at Point, s string, c RGBA, align Align)
}

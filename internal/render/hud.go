package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUD is the status shown under the tower.
type HUD struct {
	Stars     int
	Readers   int // per minute, whole tower
	Floors    int
	MaxFloors int
	Visitors  int
	Hint      string
}

// DrawHUD renders the status bar and message log at the bottom of the screen.
func (r *Renderer) DrawHUD(hud HUD, messages []string) {
	_, screenH := r.screen.Size()
	hudY := screenH - HUDRows

	// Separator line.
	r.drawHLine(hudY, tcell.ColorGray)

	status := fmt.Sprintf("⭐ %d   👥 %d/min   🏢 %d/%d floors   🚶 %d visiting",
		hud.Stars, hud.Readers, hud.Floors, hud.MaxFloors, hud.Visitors)
	r.drawText(0, hudY+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	if hud.Hint != "" {
		w, _ := r.screen.Size()
		x := w - runewidth.StringWidth(hud.Hint) - 1
		if x > runewidth.StringWidth(status)+2 {
			r.drawText(x, hudY+1, hud.Hint, tcell.StyleDefault.Foreground(tcell.ColorGray))
		}
	}

	// Message log (last 3 messages).
	start := len(messages) - 3
	if start < 0 {
		start = 0
	}
	for i, msg := range messages[start:] {
		r.drawText(0, hudY+2+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text glyph by glyph, advancing by each glyph's display
// width and stopping at the right edge.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	sw, _ := r.screen.Size()
	col := x
	for _, g := range clusters(text) {
		w := runewidth.StringWidth(g)
		if col+w > sw {
			break
		}
		r.putGlyph(col, y, g, style)
		col += w
	}
}

// DrawText is drawText for callers outside the package (modals, menus).
func (r *Renderer) DrawText(x, y int, text string, style tcell.Style) {
	r.drawText(x, y, text, style)
}

package render

import "github.com/gdamore/tcell/v2"

// Styles used by the text screens drawn over the tower.
var (
	StyleHeader = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	StyleBody   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	StyleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StyleSelect = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	StyleGood   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	StyleBad    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	StyleDim    = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
)

// DrawBox clears a width×height box centred on the screen, draws its
// border with the title in the top edge, and returns the top-left corner.
func (r *Renderer) DrawBox(width, height int, title string) (x0, y0 int) {
	sw, sh := r.screen.Size()
	x0 = (sw - width) / 2
	y0 = (sh - height) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	blank := tcell.StyleDefault.Background(tcell.ColorBlack)
	for row := y0; row < y0+height; row++ {
		for col := x0; col < x0+width; col++ {
			r.screen.SetContent(col, row, ' ', nil, blank)
		}
	}

	for col := x0; col < x0+width; col++ {
		r.screen.SetContent(col, y0, '─', nil, StyleBorder)
		r.screen.SetContent(col, y0+height-1, '─', nil, StyleBorder)
	}
	for row := y0; row < y0+height; row++ {
		r.screen.SetContent(x0, row, '│', nil, StyleBorder)
		r.screen.SetContent(x0+width-1, row, '│', nil, StyleBorder)
	}
	r.screen.SetContent(x0, y0, '┌', nil, StyleBorder)
	r.screen.SetContent(x0+width-1, y0, '┐', nil, StyleBorder)
	r.screen.SetContent(x0, y0+height-1, '└', nil, StyleBorder)
	r.screen.SetContent(x0+width-1, y0+height-1, '┘', nil, StyleBorder)

	if title != "" {
		header := " " + title + " "
		hx := x0 + (width-len([]rune(header)))/2
		r.drawText(hx, y0, header, StyleHeader)
	}
	return x0, y0
}

package game

import (
	"fmt"
	"strings"
	"time"

	"simlibrary/assets"
	"simlibrary/internal/books"
	"simlibrary/internal/render"
	"simlibrary/internal/sim"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// line is one row of a panel.
type line struct {
	text  string
	style tcell.Style
}

// drawPanel draws a titled box sized to its lines plus a footer row.
func (g *Game) drawPanel(title string, width int, lines []line, footer string) {
	height := len(lines) + 4
	x0, y0 := g.renderer.DrawBox(width, height, title)
	inner := width - 4
	for i, l := range lines {
		g.renderer.DrawText(x0+2, y0+1+i, runewidth.Truncate(l.text, inner, "…"), l.style)
	}
	if footer != "" {
		g.renderer.DrawText(x0+2, y0+height-2, runewidth.Truncate(footer, inner, "…"), render.StyleBorder)
	}
}

// progressBar renders frac in [0,1] as a width-cell bar.
func progressBar(frac float64, width int) string {
	frac = max(0, min(1, frac))
	filled := int(frac * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// ─── Build dialog ────────────────────────────────────────────────────────────

func (g *Game) buildLines() []line {
	lines := make([]line, 0, 2*len(assets.Themes))
	for i, th := range assets.Themes {
		marker, style := "  ", render.StyleBody
		if i == g.buildSel {
			marker, style = "▶ ", render.StyleSelect
		}
		lines = append(lines,
			line{marker + th.Emoji + " " + th.Name, style},
			line{"    " + th.Description, render.StyleDim})
	}
	return lines
}

func (g *Game) drawBuild() {
	g.drawPanel("Build a New Floor", 52, g.buildLines(), "↑↓ choose  Enter build  Esc cancel")
}

// ─── Floor detail ────────────────────────────────────────────────────────────

func (g *Game) detailLines(f sim.Floor, now time.Time) []line {
	cost := sim.UpgradeCost(f.Level)
	costStyle := render.StyleGood
	if g.engine.Stars() < cost {
		costStyle = render.StyleBad
	}
	frac := 0.0
	if f.XPToNextLevel > 0 {
		frac = float64(f.XP) / float64(f.XPToNextLevel)
	}
	lines := []line{
		{fmt.Sprintf("Level %d", f.Level), render.StyleHeader},
		{fmt.Sprintf("👥 %d readers/min", f.ReadersPerMinute), render.StyleBody},
		{fmt.Sprintf("XP %s %d/%d", progressBar(frac, 16), f.XP, f.XPToNextLevel), render.StyleBody},
		{fmt.Sprintf("Upgrade: %d ⭐", cost), costStyle},
		{fmt.Sprintf("🪑 %d decor placed", len(f.Furniture)), render.StyleBody},
		{fmt.Sprintf("🚶 %d visiting", g.readers.OnFloor(f.ID)), render.StyleBody},
	}
	if st := g.builds.Status(f.ID); st.Building {
		lines = append(lines, line{fmt.Sprintf("🚧 Under construction: %ds left", st.Remaining(now)), render.StyleDim})
	}
	if shelves, ok := g.books.Shelves(f.ID); ok {
		lines = append(lines, line{"", render.StyleBody})
		for _, sh := range shelves {
			lines = append(lines, shelfLine(sh))
		}
	}
	return lines
}

func shelfLine(sh books.Shelf) line {
	if sh.Restocking {
		return line{fmt.Sprintf("📚 %-14s restocking…", sh.Category), render.StyleDim}
	}
	return line{fmt.Sprintf("📚 %-14s %2d/%d", sh.Category, sh.Current, sh.Max), render.StyleBody}
}

func (g *Game) drawDetail(now time.Time) {
	f, ok := g.engine.GetFloor(g.floorID)
	if !ok {
		return
	}
	g.drawPanel(f.Emoji+" "+f.Name, 46, g.detailLines(f, now), "u upgrade  e edit  Tab next  Esc back")
}

// ─── Editor ──────────────────────────────────────────────────────────────────

const editorRows = 6

func (g *Game) editorLines(f sim.Floor) []line {
	lines := []line{{"Placed", render.StyleHeader}}
	if len(f.Furniture) == 0 {
		lines = append(lines, line{"  nothing yet, press 1-7 to place decor", render.StyleDim})
	}
	g.selectedItem(f)
	first := max(0, min(g.itemSel-editorRows/2, len(f.Furniture)-editorRows))
	for i := first; i < len(f.Furniture) && i < first+editorRows; i++ {
		item := f.Furniture[i]
		label, emoji := item.DecorID, "?"
		if d, ok := assets.DecorByID(item.DecorID); ok {
			label, emoji = d.Label, d.Emoji
		}
		x, y, mark := item.X, item.Y, ""
		if g.drag != nil && g.drag.id == item.ID {
			x, y, mark = g.drag.x, g.drag.y, " *"
		}
		marker, style := "  ", render.StyleBody
		if i == g.itemSel {
			marker, style = "▶ ", render.StyleSelect
		}
		lines = append(lines, line{fmt.Sprintf("%s%s %s (%.0f,%.0f)%s", marker, emoji, label, x, y, mark), style})
	}

	lines = append(lines, line{"", render.StyleBody}, line{"Catalog", render.StyleHeader})
	for i := 0; i < len(assets.Decor); i += 2 {
		row := decorCell(i)
		if i+1 < len(assets.Decor) {
			row = runewidth.FillRight(row, 22) + decorCell(i+1)
		}
		lines = append(lines, line{row, render.StyleBody})
	}
	return lines
}

func decorCell(i int) string {
	d := assets.Decor[i]
	return fmt.Sprintf("%d %s %s +%d", i+1, d.Emoji, d.Label, d.Readers)
}

func (g *Game) drawEditor() {
	f, ok := g.engine.GetFloor(g.floorID)
	if !ok {
		return
	}
	g.drawPanel("Edit "+f.Name, 50, g.editorLines(f), "Tab item  arrows move  Enter drop  x remove  Esc back")
}

// ─── Help & confirm ──────────────────────────────────────────────────────────

var helpLines = []string{
	"── Tower ─────────────────────────────",
	"  click slot / b      Build a floor",
	"  click floor / Enter Open floor",
	"  ↑↓ / Tab            Select floor",
	"  u                   Upgrade floor",
	"── Floor ─────────────────────────────",
	"  e                   Edit decor",
	"  Esc                 Back",
	"── Editor ────────────────────────────",
	"  1-7                 Place decor",
	"  Tab                 Next item",
	"  arrows / hjkl       Move item",
	"  Enter               Drop item",
	"  x / Del             Remove item",
	"── Game ──────────────────────────────",
	"  q                   Quit",
	"  ?                   This help",
	"",
	"  [any key to close]",
}

func (g *Game) drawHelp() {
	lines := make([]line, len(helpLines))
	for i, s := range helpLines {
		lines[i] = line{s, render.StyleBody}
	}
	g.drawPanel("Controls", 42, lines, "")
}

func (g *Game) drawConfirm() {
	prompt := " " + g.confirm.text + " "
	width := runewidth.StringWidth(prompt) + 4
	x0, y0 := g.renderer.DrawBox(width, 3, "")
	g.renderer.DrawText(x0+2, y0+1, prompt, render.StyleHeader)
}

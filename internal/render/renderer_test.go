package render

import (
	"math"
	"testing"

	"simlibrary/internal/canvas"

	"github.com/gdamore/tcell/v2"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

func newSimScreen() tcell.SimulationScreen {
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(80, 24)
	_ = ss.Init()
	return ss
}

func cellColors(t *testing.T, s tcell.Screen, x, y int) (rune, [3]int32, [3]int32) {
	t.Helper()
	mainc, _, style, _ := s.GetContent(x, y)
	fg, bg, _ := style.Decompose()
	fr, fgG, fb := fg.RGB()
	br, bgG, bb := bg.RGB()
	return mainc, [3]int32{fr, fgG, fb}, [3]int32{br, bgG, bb}
}

// ─── Camera ───────────────────────────────────────────────────────────────────

func TestCameraFitsHeightLimitedScreen(t *testing.T) {
	c := NewCamera(80, 19, 600, 800)
	if c.ViewHeight != 19 {
		t.Errorf("ViewHeight = %d; want 19", c.ViewHeight)
	}
	if c.ViewWidth != 28 {
		t.Errorf("ViewWidth = %d; want 28 (3:4 canvas at two pixels per row)", c.ViewWidth)
	}
	if c.OffsetX != (80-28)/2 {
		t.Errorf("OffsetX = %d; want centred", c.OffsetX)
	}
}

func TestCameraFitsWidthLimitedScreen(t *testing.T) {
	c := NewCamera(20, 40, 600, 800)
	if c.ViewWidth != 20 {
		t.Errorf("ViewWidth = %d; want 20", c.ViewWidth)
	}
	if c.ViewHeight != 13 {
		t.Errorf("ViewHeight = %d; want 13", c.ViewHeight)
	}
}

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(80, 19, 600, 800)
	for sy := 0; sy < c.ViewHeight; sy++ {
		for sx := c.OffsetX; sx < c.OffsetX+c.ViewWidth; sx++ {
			x, y, ok := c.ScreenToCanvas(sx, sy)
			if !ok {
				t.Fatalf("ScreenToCanvas(%d, %d) outside viewport", sx, sy)
			}
			gx, gy, visible := c.CanvasToScreen(x, y)
			if !visible || gx != sx || gy != sy {
				t.Fatalf("round trip (%d,%d) -> (%.1f,%.1f) -> (%d,%d)", sx, sy, x, y, gx, gy)
			}
		}
	}
}

func TestCameraRejectsCellsOutsideViewport(t *testing.T) {
	c := NewCamera(80, 19, 600, 800)
	if _, _, ok := c.ScreenToCanvas(0, 0); ok {
		t.Error("left margin cell should be outside the viewport")
	}
	if _, _, ok := c.ScreenToCanvas(c.OffsetX, 19); ok {
		t.Error("HUD row should be outside the viewport")
	}
}

// ─── Raster ───────────────────────────────────────────────────────────────────

func TestFlushHalfBlocks(t *testing.T) {
	s := newSimScreen()
	r := NewRenderer(s, 600, 800)
	r.Clear()
	r.FillRect(canvas.Rect{X: 0, Y: 0, W: 600, H: 400}, canvas.RGB255(255, 0, 0))
	r.FillRect(canvas.Rect{X: 0, Y: 400, W: 600, H: 400}, canvas.RGB255(0, 0, 255))
	r.Flush()

	cam := r.Camera()
	ch, fg, bg := cellColors(t, s, cam.OffsetX, 0)
	if ch != '▀' {
		t.Errorf("cell rune = %q; want half block", ch)
	}
	if fg != [3]int32{255, 0, 0} || bg != [3]int32{255, 0, 0} {
		t.Errorf("top cell fg=%v bg=%v; want red/red", fg, bg)
	}
	_, fg, bg = cellColors(t, s, cam.OffsetX, cam.ViewHeight-1)
	if fg != [3]int32{0, 0, 255} || bg != [3]int32{0, 0, 255} {
		t.Errorf("bottom cell fg=%v bg=%v; want blue/blue", fg, bg)
	}
}

func TestAlphaBlending(t *testing.T) {
	s := newSimScreen()
	r := NewRenderer(s, 600, 800)
	r.Clear()
	r.FillRect(canvas.Rect{X: 0, Y: 0, W: 600, H: 800}, canvas.White.WithAlpha(0.5))
	r.Flush()

	_, fg, _ := cellColors(t, s, r.Camera().OffsetX+3, 3)
	for i, v := range fg {
		if math.Abs(float64(v)-128) > 1 {
			t.Errorf("channel %d = %d; want ~128", i, v)
		}
	}
}

func TestTinyShapesStillMarkAPixel(t *testing.T) {
	s := newSimScreen()
	r := NewRenderer(s, 600, 800)
	r.Clear()
	r.FillCircle(canvas.Point{X: 300, Y: 400}, 2, canvas.White)
	r.Flush()

	sx, sy, _ := r.Camera().CanvasToScreen(300, 400)
	_, fg, bg := cellColors(t, s, sx, sy)
	if fg != [3]int32{255, 255, 255} && bg != [3]int32{255, 255, 255} {
		t.Errorf("2px circle left no trace at (%d,%d): fg=%v bg=%v", sx, sy, fg, bg)
	}
}

func TestTextOverlay(t *testing.T) {
	s := newSimScreen()
	r := NewRenderer(s, 600, 800)
	r.Clear()
	r.Text(canvas.Point{X: 300, Y: 400}, "Hi", canvas.White, canvas.AlignCenter)
	r.Flush()

	sx, sy, _ := r.Camera().CanvasToScreen(300, 400)
	h, _, _, _ := s.GetContent(sx-1, sy)
	i, _, _, _ := s.GetContent(sx, sy)
	if h != 'H' || i != 'i' {
		t.Errorf("centred text = %q%q; want \"Hi\"", h, i)
	}
}

func TestTextClippedToViewport(t *testing.T) {
	s := newSimScreen()
	r := NewRenderer(s, 600, 800)
	r.Clear()
	r.Text(canvas.Point{X: 590, Y: 10}, "overflowing label", canvas.White, canvas.AlignLeft)
	r.Flush()

	cam := r.Camera()
	edge := cam.OffsetX + cam.ViewWidth
	if ch, _, _, _ := s.GetContent(edge, 0); ch == 'v' || ch == 'e' {
		t.Errorf("text leaked past the viewport edge: %q", ch)
	}
}

func TestClustersKeepsVariationSelectors(t *testing.T) {
	got := clusters("🏗️ ok")
	if len(got) != 4 {
		t.Fatalf("clusters = %q; want 4 glyphs", got)
	}
	if got[0] != "🏗️" {
		t.Errorf("first glyph = %q; want the emoji with its selector", got[0])
	}
}

// ─── HUD ──────────────────────────────────────────────────────────────────────

func TestDrawHUD(t *testing.T) {
	s := newSimScreen()
	r := NewRenderer(s, 600, 800)
	r.DrawHUD(HUD{Stars: 500, Readers: 12, Floors: 1, MaxFloors: 5}, []string{"one", "two", "three", "four"})

	if ch, _, _, _ := s.GetContent(0, 24-HUDRows); ch != '─' {
		t.Errorf("separator rune = %q; want '─'", ch)
	}
	// Only the last three messages are shown.
	if ch, _, _, _ := s.GetContent(0, 24-HUDRows+2); ch != 't' {
		t.Errorf("first message row starts with %q; want 't' (two)", ch)
	}
	if ch, _, _, _ := s.GetContent(0, 24-HUDRows+4); ch != 'f' {
		t.Errorf("last message row starts with %q; want 'f' (four)", ch)
	}
}

func TestDrawBoxBorder(t *testing.T) {
	s := newSimScreen()
	r := NewRenderer(s, 600, 800)
	x0, y0 := r.DrawBox(20, 5, "Build")
	if ch, _, _, _ := s.GetContent(x0, y0); ch != '┌' {
		t.Errorf("top-left = %q; want '┌'", ch)
	}
	if ch, _, _, _ := s.GetContent(x0+19, y0+4); ch != '┘' {
		t.Errorf("bottom-right = %q; want '┘'", ch)
	}
}

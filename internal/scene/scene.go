// Package scene draws the library tower from a read-only snapshot of the
// game and the live collaborator feeds. It owns only transient visual state
// (character sprites and the click regions of the last frame) and never
// mutates the game.
package scene

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"simlibrary/internal/books"
	"simlibrary/internal/canvas"
	"simlibrary/internal/construction"
	"simlibrary/internal/sim"
	"simlibrary/internal/visitors"
)

// StateSource hands out a deep copy of the game each frame.
type StateSource interface {
	Snapshot() sim.State
}

type ReaderFeed interface {
	Readers() []visitors.Reader
}

type BookFeed interface {
	Shelves(floorID string) ([books.ShelvesPerFloor]books.Shelf, bool)
}

type BuildFeed interface {
	Status(floorID string) construction.Status
}

// Feeds bundles the scene's inputs. Only State is required; a nil feed
// means no readers, empty shelves, or every floor ready.
type Feeds struct {
	State   StateSource
	Readers ReaderFeed
	Books   BookFeed
	Builds  BuildFeed
}

type Scene struct {
	canvas    canvas.Canvas
	feeds     Feeds
	maxFloors int
	rng       *rand.Rand
	listener  Listener

	chars   map[string]*Character
	regions Regions
}

func New(c canvas.Canvas, feeds Feeds, maxFloors int, rng *rand.Rand) *Scene {
	return &Scene{
		canvas:    c,
		feeds:     feeds,
		maxFloors: maxFloors,
		rng:       rng,
		chars:     make(map[string]*Character),
	}
}

// SetListener picks who is told about clicks.
func (s *Scene) SetListener(l Listener) { s.listener = l }

// Regions returns the click targets of the last frame.
func (s *Scene) Regions() Regions {
	r := s.regions
	r.Floors = slices.Clone(r.Floors)
	return r
}

// Character returns the sprite of a reader, if one exists.
func (s *Scene) Character(readerID string) (Character, bool) {
	ch, ok := s.chars[readerID]
	if !ok {
		return Character{}, false
	}
	return *ch, true
}

// Characters is the number of live sprites.
func (s *Scene) Characters() int { return len(s.chars) }

// Click hit-tests a canvas point against the last frame and notifies the
// listener.
func (s *Scene) Click(x, y float64) Hit {
	hit := HitTest(s.regions, x, y)
	if s.listener == nil {
		return hit
	}
	switch hit.Kind {
	case HitBuildSlot:
		s.listener.OpenBuildDialog()
	case HitFloor:
		s.listener.OpenFloorDetail(hit.FloorID)
	}
	return hit
}

var (
	skyTop       = canvas.Hex("#87CEEB")
	skyBottom    = canvas.Hex("#E0F6FF")
	groundColor  = canvas.Hex("#8BC34A")
	shaftColor   = canvas.Hex("#757575")
	shaftBorder  = canvas.Hex("#424242")
	markerColor  = canvas.Hex("#616161")
	carColor     = canvas.Hex("#9E9E9E")
	carBorder    = canvas.Hex("#616161")
	labelColor   = canvas.Black
	scaffold     = canvas.Hex("#FF9800")
	barTrack     = canvas.Black.WithAlpha(0.1)
	barFill      = canvas.Hex("#4CAF50")
	slotOutline  = canvas.Hex("#9E9E9E")
	slotButton   = canvas.RGB255(156, 39, 176).WithAlpha(0.2)
	slotText     = canvas.Hex("#9C27B0")
	restockShade = canvas.RGB255(255, 152, 0).WithAlpha(0.7)
	rugColor     = canvas.RGB255(255, 182, 193).WithAlpha(0.6)
	deskColor    = canvas.Hex("#696969")
	screenColor  = canvas.Hex("#4682B4")
	leafColor    = canvas.Hex("#228B22")
	stemColor    = canvas.Hex("#8B4513")
	selectColor  = canvas.Hex("#FFC400")
)

// Draw renders one frame at now, refreshes the click regions and advances
// the character animations.
func (s *Scene) Draw(now time.Time) {
	state := s.feeds.State.Snapshot()
	var readers []visitors.Reader
	if s.feeds.Readers != nil {
		readers = s.feeds.Readers.Readers()
	}
	c := s.canvas

	c.Clear()
	c.VGradient(canvas.Rect{W: Width, H: Height}, skyTop, skyBottom)
	c.FillRect(canvas.Rect{Y: GroundY, W: Width, H: GroundHeight}, groundColor)

	s.drawShaft(len(state.Floors))

	index := make(map[string]int, len(state.Floors))
	regions := Regions{}
	for i, f := range state.Floors {
		index[f.ID] = i
		if s.drawFloor(f, i, now, readers, f.ID == state.SelectedFloorID) {
			regions.Floors = append(regions.Floors, FloorRegion{FloorID: f.ID, Bounds: FloorRect(i)})
		}
	}
	slices.Reverse(regions.Floors)

	s.drawElevators(readers, index, now)

	if len(state.Floors) < s.maxFloors {
		regions.BuildSlot = FloorRect(len(state.Floors))
		regions.HasBuildSlot = true
		s.drawBuildSlot(regions.BuildSlot)
	}
	s.regions = regions

	s.updateCharacters(readers)
}

func (s *Scene) drawShaft(floors int) {
	if floors == 0 {
		return
	}
	top := FloorY(floors - 1)
	shaft := canvas.Rect{X: ElevatorX, Y: top, W: ElevatorWidth, H: GroundY - top}
	s.canvas.FillRect(shaft, shaftColor)
	s.canvas.StrokeRect(shaft, shaftBorder, 2)
	for i := range floors {
		y := float64(GroundY - i*FloorHeight)
		s.canvas.Line(canvas.Point{X: ElevatorX, Y: y}, canvas.Point{X: ElevatorX + ElevatorWidth, Y: y}, markerColor, 1)
	}
}

// drawFloor paints floor i and reports whether it is ready (clickable).
func (s *Scene) drawFloor(f sim.Floor, i int, now time.Time, readers []visitors.Reader, selected bool) bool {
	rect := FloorRect(i)
	cc, _ := ParseColorClass(f.Color)
	pal := cc.Palette()
	s.canvas.FillRect(rect, pal.Background)
	s.canvas.StrokeRect(rect, pal.Border, 3)
	if selected {
		s.canvas.StrokeRect(rect, selectColor, 5)
	}

	if s.feeds.Builds != nil {
		if st := s.feeds.Builds.Status(f.ID); st.Building {
			s.drawConstruction(f, rect, st, now)
			return false
		}
	}

	s.canvas.Text(canvas.Point{X: rect.X + 10, Y: rect.Y + 20},
		fmt.Sprintf("%s %s  Lv %d", f.Emoji, f.Name, f.Level), labelColor, canvas.AlignLeft)

	kind := Fiction
	if theme, ok := f.Theme(); ok {
		kind, _ = ParseShelfKind(theme.Shelves)
	}
	s.drawDecorations(kind, rect)

	var shelves [books.ShelvesPerFloor]books.Shelf
	if s.feeds.Books != nil {
		shelves, _ = s.feeds.Books.Shelves(f.ID)
	}
	for j, sh := range shelves {
		s.drawShelf(kind.Style(), sh, shelfRect(rect.Y, j))
	}

	for _, r := range readers {
		if r.FloorID != f.ID || r.State != visitors.Arrived {
			continue
		}
		ch, ok := s.chars[r.ID]
		if !ok {
			ch = newCharacter(r, s.rng)
			s.chars[r.ID] = ch
		}
		ch.draw(s.canvas, rect.Y)
	}
	return true
}

func (s *Scene) drawConstruction(f sim.Floor, rect canvas.Rect, st construction.Status, now time.Time) {
	for i := range 5 {
		x := rect.X + 50 + float64(i*100)
		s.canvas.Line(canvas.Point{X: x, Y: rect.Y + 20}, canvas.Point{X: x, Y: rect.Y + FloorHeight - 20}, scaffold, 2)
	}
	bar := canvas.Rect{X: rect.X + 50, Y: rect.Y + FloorHeight/2 - 15, W: FloorWidth - 100, H: 30}
	s.canvas.FillRect(bar, barTrack)
	fill := bar
	fill.W = bar.W * st.Progress(now)
	if fill.W > 0 {
		s.canvas.FillRect(fill, barFill)
	}
	mid := rect.X + FloorWidth/2
	s.canvas.Text(canvas.Point{X: mid, Y: rect.Y + 30}, fmt.Sprintf("🏗️ Building %s...", f.Name), labelColor, canvas.AlignCenter)
	s.canvas.Text(canvas.Point{X: mid, Y: rect.Y + FloorHeight/2 + 5}, fmt.Sprintf("%ds remaining", st.Remaining(now)), labelColor, canvas.AlignCenter)
}

func (s *Scene) drawDecorations(kind ShelfKind, rect canvas.Rect) {
	x, y := rect.X, rect.Y
	switch kind.decoration() {
	case decorRugs:
		s.canvas.FillRect(canvas.Rect{X: x + 180, Y: y + 85, W: 50, H: 30}, rugColor)
		s.canvas.FillRect(canvas.Rect{X: x + 350, Y: y + 85, W: 50, H: 30}, rugColor)
	case decorDesk:
		s.canvas.FillRect(canvas.Rect{X: x + 430, Y: y + 85, W: 35, H: 25}, deskColor)
		s.canvas.FillRect(canvas.Rect{X: x + 435, Y: y + 80, W: 15, H: 12}, screenColor)
	default:
		s.canvas.FillCircle(canvas.Point{X: x + 450, Y: y + 90}, 8, leafColor)
		s.canvas.FillRect(canvas.Rect{X: x + 448, Y: y + 95, W: 4, H: 10}, stemColor)
	}
}

func (s *Scene) drawShelf(style ShelfStyle, sh books.Shelf, r canvas.Rect) {
	outline := shelfOutline(style.Shape, r)
	s.canvas.FillPolygon(outline, style.Shelf)
	s.canvas.StrokePolygon(outline, style.Border, 2)

	count := 0
	if sh.Max > 0 {
		count = int(math.Ceil(float64(sh.Current) / float64(sh.Max) * 10))
	}
	for i := range count {
		book := canvas.Rect{X: r.X + 5 + float64(i%5*22), Y: r.Y + 5 + float64(i/5*25), W: 18, H: 20}
		s.canvas.FillRect(book, style.BookColors[i%len(style.BookColors)])
	}

	mid := r.X + r.W/2
	s.canvas.Text(canvas.Point{X: mid, Y: r.Y + r.H - 5}, fmt.Sprintf("%d/%d", sh.Current, sh.Max), canvas.White, canvas.AlignCenter)
	if sh.Restocking {
		s.canvas.FillRect(r, restockShade)
		s.canvas.Text(canvas.Point{X: mid, Y: r.Y + r.H/2}, "📦 Restocking", canvas.White, canvas.AlignCenter)
	}
}

// drawElevators draws one car per reader still in the lobby or riding.
func (s *Scene) drawElevators(readers []visitors.Reader, index map[string]int, now time.Time) {
	for _, r := range readers {
		if r.State != visitors.Waiting && r.State != visitors.Riding {
			continue
		}
		i, ok := index[r.FloorID]
		if !ok {
			continue
		}
		total := visitors.TravelTime(i + 1)
		spawn := r.ArrivalTime.Add(-total)
		progress := float64(now.Sub(spawn)) / float64(total)
		y := CarY(progress, FloorY(i))

		car := canvas.Rect{X: ElevatorX + 2, Y: y, W: ElevatorWidth - 4, H: ElevatorCarHeight}
		s.canvas.FillRect(car, carColor)
		s.canvas.StrokeRect(car, carBorder, 2)
		s.canvas.Text(canvas.Point{X: ElevatorX + ElevatorWidth/2, Y: y + ElevatorCarHeight/2}, r.Emoji, labelColor, canvas.AlignCenter)
	}
}

func (s *Scene) drawBuildSlot(r canvas.Rect) {
	s.canvas.DashRect(r, slotOutline, 3, 10, 5)
	s.canvas.FillRect(canvas.Rect{X: r.X + FloorWidth/2 - 80, Y: r.Y + FloorHeight/2 - 25, W: 160, H: 50}, slotButton)
	s.canvas.Text(canvas.Point{X: r.X + FloorWidth/2, Y: r.Y + FloorHeight/2 + 5}, "➕ Build New Floor", slotText, canvas.AlignCenter)
}

// updateCharacters drops sprites whose reader has left and steps the rest.
func (s *Scene) updateCharacters(readers []visitors.Reader) {
	live := make(map[string]struct{}, len(readers))
	for _, r := range readers {
		live[r.ID] = struct{}{}
	}
	for id, ch := range s.chars {
		if _, ok := live[id]; !ok {
			delete(s.chars, id)
			continue
		}
		ch.step()
	}
}

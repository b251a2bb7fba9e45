// Package sim owns the tower: floors, stars and their economy rules. Every
// mutation goes through an Engine method and is written through to the
// store before the method returns.
//
// An Engine is not safe for concurrent use; callers drive it from one
// goroutine.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"simlibrary/assets"
	"simlibrary/internal/store"
)

var (
	ErrUnknownFloor      = errors.New("sim: unknown floor")
	ErrUnknownFurniture  = errors.New("sim: unknown furniture")
	ErrUnknownDecor      = errors.New("sim: unknown decor")
	ErrUnknownTheme      = errors.New("sim: unknown theme")
	ErrInsufficientStars = errors.New("sim: not enough stars")

	// ErrSave wraps storage failures. The in-memory change it accompanies
	// has already been applied.
	ErrSave = errors.New("sim: save failed")
)

// LevelUp records one level gained by a floor during a tick.
type LevelUp struct {
	FloorID string
	Name    string
	Level   int
}

// TickReport summarises what one tick changed.
type TickReport struct {
	TotalReaders int
	StarsEarned  int
	LevelUps     []LevelUp
}

type Engine struct {
	slot     store.Slot
	now      func() time.Time
	rng      *rand.Rand
	logger   *slog.Logger
	floors   []Floor
	stars    int
	selected string
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }
func WithRand(rng *rand.Rand) Option        { return func(e *Engine) { e.rng = rng } }
func WithLogger(l *slog.Logger) Option      { return func(e *Engine) { e.logger = l } }

// New creates an empty engine backed by slot. Call Load before use.
func New(slot store.Slot, opts ...Option) *Engine {
	e := &Engine{
		slot:   slot,
		now:    time.Now,
		logger: slog.Default(),
		stars:  StartingStars,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.now().UnixNano()))
	}
	return e
}

// ─── Persistence ─────────────────────────────────────────────────────────────

// Load restores the saved game. Missing, unparsable or invalid saves are
// logged and replaced by a new game; the only error returned is a failure
// to save that new game.
func (e *Engine) Load() error {
	raw, err := e.slot.Read()
	if err != nil {
		if !errors.Is(err, store.ErrEmpty) {
			e.logger.Warn("load: cannot read save, starting a new game", "error", err)
		}
		return e.newGame()
	}
	snap, err := decodeSnapshot(raw)
	if err != nil {
		e.logger.Warn("load: discarding corrupt save, starting a new game", "error", err)
		return e.newGame()
	}

	e.floors = snap.Floors
	for i := range e.floors {
		if e.floors[i].Furniture == nil {
			e.floors[i].Furniture = []FurnitureItem{}
		}
		e.recalculate(i)
	}
	e.stars = StartingStars
	if snap.Stars != nil {
		e.stars = *snap.Stars
	}
	e.selected = ""
	return nil
}

// Save writes the whole game to the slot.
func (e *Engine) Save() error {
	data, err := encodeSnapshot(e.floors, e.stars, e.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := e.slot.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Reset clears the saved game and starts over.
func (e *Engine) Reset() error {
	if err := e.slot.Clear(); err != nil {
		return fmt.Errorf("%w: clear: %w", ErrSave, err)
	}
	return e.newGame()
}

// newGame seeds the starter floor with a chair and a bookshelf.
func (e *Engine) newGame() error {
	e.floors = nil
	e.stars = StartingStars
	e.selected = ""

	theme, _ := assets.ThemeByName(assets.StarterTheme)
	i := e.appendFloor(theme)
	e.appendFurniture(i, "chair", 100, 100)
	e.appendFurniture(i, "bookshelf", 200, 150)
	e.recalculate(i)
	return e.Save()
}

// ─── Floors ──────────────────────────────────────────────────────────────────

// AddFloor builds a floor from the named theme. An empty name picks the
// next theme in catalog order, cycling by floor count.
func (e *Engine) AddFloor(themeName string) (Floor, error) {
	var theme assets.FloorTheme
	if themeName == "" {
		theme = assets.Themes[len(e.floors)%len(assets.Themes)]
	} else {
		t, ok := assets.ThemeByName(themeName)
		if !ok {
			return Floor{}, fmt.Errorf("%w: %q", ErrUnknownTheme, themeName)
		}
		theme = t
	}
	i := e.appendFloor(theme)
	return e.floors[i].clone(), e.Save()
}

func (e *Engine) appendFloor(theme assets.FloorTheme) int {
	e.floors = append(e.floors, Floor{
		ID:            newID("floor", e.now(), e.rng),
		Name:          theme.Name,
		Emoji:         theme.Emoji,
		Color:         theme.Color,
		Level:         1,
		XPToNextLevel: baseXPThreshold,
		Furniture:     []FurnitureItem{},
	})
	return len(e.floors) - 1
}

func (e *Engine) index(id string) int {
	for i := range e.floors {
		if e.floors[i].ID == id {
			return i
		}
	}
	return -1
}

// GetFloor returns a copy of the floor with the given id.
func (e *Engine) GetFloor(id string) (Floor, bool) {
	i := e.index(id)
	if i < 0 {
		return Floor{}, false
	}
	return e.floors[i].clone(), true
}

// UpgradeFloor spends UpgradeCost(level) stars to raise the floor one
// level. The xp bar restarts at zero with a threshold half again as large.
func (e *Engine) UpgradeFloor(id string) error {
	i := e.index(id)
	if i < 0 {
		return ErrUnknownFloor
	}
	f := &e.floors[i]
	cost := UpgradeCost(f.Level)
	if e.stars < cost {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientStars, cost, e.stars)
	}
	e.stars -= cost
	f.Level++
	f.XP = 0
	f.XPToNextLevel = nextThreshold(f.XPToNextLevel)
	e.recalculate(i)
	return e.Save()
}

// RecalculateFloorStats recomputes a floor's readers per minute.
// Unknown ids are ignored.
func (e *Engine) RecalculateFloorStats(id string) {
	if i := e.index(id); i >= 0 {
		e.recalculate(i)
	}
}

func (e *Engine) recalculate(i int) {
	e.floors[i].ReadersPerMinute = floorReaders(&e.floors[i])
}

// TotalReaders is the sum of every floor's readers per minute.
func (e *Engine) TotalReaders() int {
	total := 0
	for _, f := range e.floors {
		total += f.ReadersPerMinute
	}
	return total
}

// ─── Furniture ───────────────────────────────────────────────────────────────

// AddFurniture places a copy of decorID on the floor.
func (e *Engine) AddFurniture(floorID, decorID string, x, y float64) (FurnitureItem, error) {
	i := e.index(floorID)
	if i < 0 {
		return FurnitureItem{}, ErrUnknownFloor
	}
	if _, ok := assets.DecorByID(decorID); !ok {
		return FurnitureItem{}, fmt.Errorf("%w: %q", ErrUnknownDecor, decorID)
	}
	item := e.appendFurniture(i, decorID, x, y)
	e.recalculate(i)
	return item, e.Save()
}

func (e *Engine) appendFurniture(i int, decorID string, x, y float64) FurnitureItem {
	item := FurnitureItem{
		ID:      newID("furniture", e.now(), e.rng),
		DecorID: decorID,
		X:       x,
		Y:       y,
	}
	e.floors[i].Furniture = append(e.floors[i].Furniture, item)
	return item
}

// MoveFurniture repositions a placed item. Position never changes readers,
// so stats are not recomputed.
func (e *Engine) MoveFurniture(floorID, furnitureID string, x, y float64) error {
	i := e.index(floorID)
	if i < 0 {
		return ErrUnknownFloor
	}
	items := e.floors[i].Furniture
	for j := range items {
		if items[j].ID == furnitureID {
			items[j].X, items[j].Y = x, y
			return e.Save()
		}
	}
	return ErrUnknownFurniture
}

// RemoveFurniture deletes a placed item and reports whether one matched.
// A furniture id that is not on the floor is a successful no-op; stats are
// recomputed and the game saved either way.
func (e *Engine) RemoveFurniture(floorID, furnitureID string) (bool, error) {
	i := e.index(floorID)
	if i < 0 {
		return false, ErrUnknownFloor
	}
	kept := e.floors[i].Furniture[:0]
	removed := false
	for _, item := range e.floors[i].Furniture {
		if item.ID == furnitureID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	e.floors[i].Furniture = kept
	e.recalculate(i)
	return removed, e.Save()
}

// ─── Tick ────────────────────────────────────────────────────────────────────

// Tick advances the economy one step: every ten readers per minute earn a
// star (the remainder is dropped), and each floor gains its readers as xp,
// levelling up as many times as the xp covers. The game is saved once.
func (e *Engine) Tick() (TickReport, error) {
	report := TickReport{TotalReaders: e.TotalReaders()}
	report.StarsEarned = report.TotalReaders / 10
	e.stars = addCount(e.stars, report.StarsEarned)

	for i := range e.floors {
		f := &e.floors[i]
		if f.ReadersPerMinute <= 0 {
			continue
		}
		f.XP = addCount(f.XP, f.ReadersPerMinute)
		for f.XP >= f.XPToNextLevel {
			f.XP -= f.XPToNextLevel
			f.Level++
			f.XPToNextLevel = nextThreshold(f.XPToNextLevel)
			e.recalculate(i)
			report.LevelUps = append(report.LevelUps, LevelUp{FloorID: f.ID, Name: f.Name, Level: f.Level})
		}
	}
	return report, e.Save()
}

// ─── Accessors ───────────────────────────────────────────────────────────────

func (e *Engine) Stars() int { return e.stars }

// Floors returns copies of all floors in creation order.
func (e *Engine) Floors() []Floor {
	out := make([]Floor, len(e.floors))
	for i, f := range e.floors {
		out[i] = f.clone()
	}
	return out
}

// SelectFloor focuses the UI on a floor. An empty id clears the selection.
// It reports false for an unknown id and leaves the selection unchanged.
func (e *Engine) SelectFloor(id string) bool {
	if id != "" && e.index(id) < 0 {
		return false
	}
	e.selected = id
	return true
}

// SelectedFloor returns the focused floor, if any.
func (e *Engine) SelectedFloor() (Floor, bool) {
	if e.selected == "" {
		return Floor{}, false
	}
	return e.GetFloor(e.selected)
}

// Snapshot returns a deep copy of the game state.
func (e *Engine) Snapshot() State {
	return State{
		Floors:          e.Floors(),
		Stars:           e.stars,
		SelectedFloorID: e.selected,
		TotalReaders:    e.TotalReaders(),
	}
}

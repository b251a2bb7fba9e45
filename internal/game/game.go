// Package game is the terminal front end of the library tower: it owns the
// screen, routes keys and clicks to the engine, and drives ticks and frames
// from one loop goroutine.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"simlibrary/assets"
	"simlibrary/internal/books"
	"simlibrary/internal/config"
	"simlibrary/internal/construction"
	"simlibrary/internal/loop"
	"simlibrary/internal/render"
	"simlibrary/internal/scene"
	"simlibrary/internal/sim"
	"simlibrary/internal/visitors"

	"github.com/gdamore/tcell/v2"
)

// GameState tracks which screen has the keyboard.
type GameState uint8

const (
	StateTower GameState = iota
	StateBuild
	StateDetail
	StateEditor
	StateHelp
	StateConfirm
)

var stateNames = [...]string{"tower", "build", "detail", "editor", "help", "confirm"}

func (s GameState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

const (
	maxMessages = 50

	// Editor room, in furniture coordinates.
	editorW    = 400
	editorH    = 300
	editorStep = 10
	newDecorX  = 150
	newDecorY  = 150
)

// confirmPrompt is a pending yes/no question.
type confirmPrompt struct {
	text  string
	onYes func()
	back  GameState
}

// drag is a furniture item being nudged in the editor. Nothing is saved
// until it is dropped.
type drag struct {
	id   string
	x, y float64
}

// Game is the top-level orchestrator for one tower on one screen.
type Game struct {
	screen   tcell.Screen
	renderer *render.Renderer
	engine   *sim.Engine
	scene    *scene.Scene
	readers  *visitors.Feed
	books    *books.Inventory
	builds   *construction.Tracker
	loop     *loop.Loop
	cfg      config.Config
	logger   *slog.Logger
	rng      *rand.Rand
	now      func() time.Time
	onTick   func(sim.State)
	player   string

	state    GameState
	back     GameState // where help returns to
	floorID  string    // floor open in detail or editor
	buildSel int
	itemSel  int
	drag     *drag
	confirm  confirmPrompt
	buttons  tcell.ButtonMask
	messages []string
	session  SessionLog
	saveBad  bool

	quit context.CancelFunc
	done bool
}

type Option func(*Game)

func WithLogger(l *slog.Logger) Option      { return func(g *Game) { g.logger = l } }
func WithClock(now func() time.Time) Option { return func(g *Game) { g.now = now } }
func WithRand(rng *rand.Rand) Option        { return func(g *Game) { g.rng = rng } }

// WithPlayer names the session in the session log.
func WithPlayer(name string) Option { return func(g *Game) { g.player = name } }

// WithTickHook is called with a fresh snapshot after every economy tick.
func WithTickHook(fn func(sim.State)) Option { return func(g *Game) { g.onTick = fn } }

// New wires a game around an engine that has already been loaded. The
// caller owns the screen and must Init it before and Fini it after Run.
func New(screen tcell.Screen, engine *sim.Engine, cfg config.Config, opts ...Option) *Game {
	g := &Game{
		screen: screen,
		engine: engine,
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = cfg.NewRand()
	}

	g.renderer = render.NewRenderer(screen, scene.Width, scene.Height)
	g.readers = visitors.NewFeed(visitors.Options{
		SpawnInterval: cfg.Visitors.SpawnInterval,
		WaitTime:      cfg.Visitors.WaitTime,
		MaxPerFloor:   cfg.Visitors.MaxPerFloor,
		MinDwell:      cfg.Visitors.MinDwell,
		MaxDwell:      cfg.Visitors.MaxDwell,
	}, g.rng)
	g.readers.OnArrive = g.onArrive
	g.books = books.NewInventory(cfg.Books.MaxStock, cfg.Books.RestockDuration)
	g.builds = construction.NewTracker(cfg.BuildDuration)
	g.scene = scene.New(g.renderer, scene.Feeds{
		State:   engine,
		Readers: g.readers,
		Books:   g.books,
		Builds:  g.builds,
	}, cfg.MaxFloors, g.rng)
	g.scene.SetListener(g)
	g.loop = loop.New(loop.WithClock(g.now))

	for _, f := range engine.Floors() {
		g.books.Ensure(f.ID, f.Name)
	}
	g.session = newSessionLog(g.player, g.now())
	return g
}

// Run drives the game until the player quits, the screen goes away, or ctx
// is cancelled. The session log is written on the way out. Quitting from
// the game returns nil; otherwise the context's error is returned.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.quit = cancel

	g.screen.EnableMouse()
	g.loop.Every(g.cfg.TickInterval, g.tick)
	g.loop.Every(g.cfg.FrameInterval, g.frame)
	go g.pollEvents()

	g.addMessage("Welcome to your library! Click the dashed slot or press b to build.")
	g.frame(g.now())
	err := g.loop.Run(ctx)

	g.session.Seconds = int(g.now().Sub(g.session.Timestamp).Seconds())
	g.session.StarsFinal = g.engine.Stars()
	saveSessionLog(g.session, g.logger)
	if g.done {
		return nil
	}
	return err
}

// pollEvents forwards terminal events into the loop. It returns once the
// screen has been finalized or the loop has exited.
func (g *Game) pollEvents() {
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			g.loop.Post(g.stop)
			return
		}
		if !g.loop.Post(func() { g.handleEvent(ev) }) {
			return
		}
	}
}

func (g *Game) stop() {
	g.done = true
	if g.quit != nil {
		g.quit()
	}
}

// ─── Loop tasks ──────────────────────────────────────────────────────────────

func (g *Game) tick(time.Time) {
	report, err := g.engine.Tick()
	g.session.Ticks++
	g.session.StarsEarned += report.StarsEarned
	for _, lu := range report.LevelUps {
		g.session.LevelUps++
		g.addMessage(fmt.Sprintf("🎉 %s reached level %d!", lu.Name, lu.Level))
	}
	if err != nil {
		g.saveFailed(err)
	} else {
		g.saveBad = false
	}
	if g.onTick != nil {
		g.onTick(g.engine.Snapshot())
	}
}

func (g *Game) frame(now time.Time) {
	for _, id := range g.builds.Step(now) {
		if f, ok := g.engine.GetFloor(id); ok {
			g.addMessage(fmt.Sprintf("%s %s is open for readers!", f.Emoji, f.Name))
		}
	}
	g.readers.Step(now, g.stops())
	g.books.Step(now)
	g.draw(now)
}

// stops lists the floors readers may visit: every floor that is not still
// being built.
func (g *Game) stops() []visitors.Stop {
	floors := g.engine.Floors()
	stops := make([]visitors.Stop, 0, len(floors))
	for i, f := range floors {
		if g.builds.Building(f.ID) {
			continue
		}
		stops = append(stops, visitors.Stop{FloorID: f.ID, Index: i, ReadersPerMinute: f.ReadersPerMinute})
	}
	return stops
}

func (g *Game) onArrive(r visitors.Reader) {
	g.session.ReadersServed++
	f, ok := g.engine.GetFloor(r.FloorID)
	if !ok {
		return
	}
	if category, ok := g.books.Borrow(r.FloorID, g.now()); ok {
		g.session.BooksBorrowed[category]++
	}
	g.addMessage(arrivalLine(f.Name, r.Emoji, g.rng))
}

func arrivalLine(theme, emoji string, rng *rand.Rand) string {
	lines := assets.ArrivalLines[theme]
	if len(lines) == 0 {
		return fmt.Sprintf(assets.GenericArrival, emoji)
	}
	return fmt.Sprintf(lines[rng.Intn(len(lines))], emoji)
}

// saveFailed reports a storage fault. The change that triggered it stays
// in memory; the player is told once per outage.
func (g *Game) saveFailed(err error) {
	g.session.SaveErrors++
	g.logger.Warn("save failed", "error", err)
	if !g.saveBad {
		g.addMessage("⚠️ Could not save your library. Progress is kept until you quit.")
	}
	g.saveBad = true
}

// ─── Drawing ─────────────────────────────────────────────────────────────────

func (g *Game) draw(now time.Time) {
	g.screen.Clear()
	g.scene.Draw(now)
	g.renderer.Flush()
	g.renderer.DrawHUD(g.hud(), g.messages)
	switch g.state {
	case StateBuild:
		g.drawBuild()
	case StateDetail:
		g.drawDetail(now)
	case StateEditor:
		g.drawEditor()
	case StateHelp:
		g.drawHelp()
	case StateConfirm:
		g.drawConfirm()
	}
	g.screen.Show()
}

func (g *Game) hud() render.HUD {
	hint := "? help"
	if f, ok := g.engine.SelectedFloor(); ok {
		hint = fmt.Sprintf("▶ %s %s  ? help", f.Emoji, f.Name)
	}
	return render.HUD{
		Stars:     g.engine.Stars(),
		Readers:   g.engine.TotalReaders(),
		Floors:    len(g.engine.Floors()),
		MaxFloors: g.cfg.MaxFloors,
		Visitors:  g.readers.Len(),
		Hint:      hint,
	}
}

func (g *Game) addMessage(msg string) {
	g.messages = append(g.messages, msg)
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}

// ─── Input ───────────────────────────────────────────────────────────────────

func (g *Game) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
	case *tcell.EventKey:
		g.handleKey(ev)
	case *tcell.EventMouse:
		g.handleMouse(ev)
	default:
		return
	}
	if !g.done {
		g.draw(g.now())
	}
}

// handleMouse turns a left-button press into a scene click. Held buttons
// and drags repeat the event; only the press counts.
func (g *Game) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	wasPressed := g.buttons&tcell.Button1 != 0
	g.buttons = ev.Buttons()
	if !pressed || wasPressed || g.state != StateTower {
		return
	}
	sx, sy := ev.Position()
	x, y, ok := g.renderer.Camera().ScreenToCanvas(sx, sy)
	if !ok {
		return
	}
	g.scene.Click(x, y)
}

func (g *Game) handleKey(ev *tcell.EventKey) {
	a := keyToAction(ev)
	switch g.state {
	case StateHelp:
		g.state = g.back
		return
	case StateConfirm:
		c := g.confirm
		g.state = c.back
		if a == ActionYes {
			c.onYes()
		}
		return
	}

	switch a {
	case ActionQuit:
		g.ask("Really quit? (y/n)", g.stop)
		return
	case ActionHelp:
		g.back = g.state
		g.state = StateHelp
		return
	}

	switch g.state {
	case StateTower:
		g.towerKey(a)
	case StateBuild:
		g.buildKey(a)
	case StateDetail:
		g.detailKey(a)
	case StateEditor:
		g.editorKey(a, ev.Rune())
	}
}

func (g *Game) ask(text string, onYes func()) {
	g.confirm = confirmPrompt{text: text, onYes: onYes, back: g.state}
	g.state = StateConfirm
}

func (g *Game) towerKey(a Action) {
	switch a {
	case ActionUp, ActionNext:
		g.cycleSelection(1)
	case ActionDown, ActionPrev:
		g.cycleSelection(-1)
	case ActionConfirm:
		if f, ok := g.engine.SelectedFloor(); ok {
			g.OpenFloorDetail(f.ID)
		}
	case ActionBuild:
		g.OpenBuildDialog()
	case ActionUpgrade:
		if f, ok := g.engine.SelectedFloor(); ok {
			g.upgrade(f.ID)
		}
	case ActionBack:
		g.ask("Really quit? (y/n)", g.stop)
	}
}

// cycleSelection moves the selected floor d steps through creation order,
// wrapping at either end. Up is towards newer (higher) floors.
func (g *Game) cycleSelection(d int) {
	floors := g.engine.Floors()
	n := len(floors)
	if n == 0 {
		return
	}
	idx := -1
	if f, ok := g.engine.SelectedFloor(); ok {
		for i := range floors {
			if floors[i].ID == f.ID {
				idx = i
			}
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx = ((idx+d)%n + n) % n
	}
	g.engine.SelectFloor(floors[idx].ID)
	g.floorID = floors[idx].ID
}

func (g *Game) buildKey(a Action) {
	n := len(assets.Themes)
	switch a {
	case ActionUp, ActionPrev, ActionLeft:
		g.buildSel = (g.buildSel + n - 1) % n
	case ActionDown, ActionNext, ActionRight:
		g.buildSel = (g.buildSel + 1) % n
	case ActionConfirm:
		g.buildFloor(assets.Themes[g.buildSel].Name)
	case ActionBack:
		g.state = StateTower
	}
}

func (g *Game) detailKey(a Action) {
	switch a {
	case ActionUpgrade:
		g.upgrade(g.floorID)
	case ActionEdit:
		g.itemSel = 0
		g.drag = nil
		g.state = StateEditor
	case ActionNext, ActionUp:
		g.cycleSelection(1)
	case ActionPrev, ActionDown:
		g.cycleSelection(-1)
	case ActionBack:
		g.state = StateTower
	}
}

func (g *Game) editorKey(a Action, r rune) {
	f, ok := g.engine.GetFloor(g.floorID)
	if !ok {
		g.state = StateTower
		return
	}
	switch a {
	case ActionPlace:
		if i, ok := decorSlot(r); ok && i < len(assets.Decor) {
			g.commitDrag()
			g.place(assets.Decor[i])
		}
	case ActionNext, ActionPrev:
		g.commitDrag()
		if n := len(f.Furniture); n > 0 {
			d := 1
			if a == ActionPrev {
				d = -1
			}
			g.itemSel = ((g.itemSel+d)%n + n) % n
		}
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		g.nudge(f, a)
	case ActionConfirm:
		g.commitDrag()
	case ActionRemove:
		g.askRemove(f)
	case ActionBack:
		if g.drag != nil {
			g.drag = nil
			return
		}
		g.state = StateDetail
	}
}

// ─── scene.Listener ──────────────────────────────────────────────────────────

// OpenBuildDialog shows the theme picker, unless the tower is full.
func (g *Game) OpenBuildDialog() {
	n := len(g.engine.Floors())
	if n >= g.cfg.MaxFloors {
		g.addMessage("The tower can't grow any taller.")
		return
	}
	g.buildSel = n % len(assets.Themes)
	g.state = StateBuild
}

// OpenFloorDetail selects a floor and shows its detail panel.
func (g *Game) OpenFloorDetail(floorID string) {
	if !g.engine.SelectFloor(floorID) {
		return
	}
	g.floorID = floorID
	g.state = StateDetail
}

// ─── Engine operations ───────────────────────────────────────────────────────

func (g *Game) buildFloor(themeName string) {
	g.state = StateTower
	if len(g.engine.Floors()) >= g.cfg.MaxFloors {
		g.addMessage("The tower can't grow any taller.")
		return
	}
	f, err := g.engine.AddFloor(themeName)
	if f.ID == "" {
		g.addMessage(fmt.Sprintf("Cannot build: %v", err))
		return
	}
	if err != nil {
		g.saveFailed(err)
	}
	g.builds.Start(f.ID, g.now())
	g.books.Ensure(f.ID, f.Name)
	g.engine.SelectFloor(f.ID)
	g.session.FloorsBuilt++
	g.addMessage(fmt.Sprintf("🚧 Building %s %s...", f.Emoji, f.Name))
}

func (g *Game) upgrade(floorID string) {
	f, ok := g.engine.GetFloor(floorID)
	if !ok {
		return
	}
	err := g.engine.UpgradeFloor(floorID)
	switch {
	case errors.Is(err, sim.ErrInsufficientStars):
		g.addMessage(fmt.Sprintf("Not enough stars to upgrade! (%d ⭐ needed)", sim.UpgradeCost(f.Level)))
		return
	case errors.Is(err, sim.ErrSave):
		g.saveFailed(err)
	case err != nil:
		g.addMessage(fmt.Sprintf("Cannot upgrade: %v", err))
		return
	}
	g.session.Upgrades++
	g.addMessage(fmt.Sprintf("%s %s is now level %d.", f.Emoji, f.Name, f.Level+1))
}

func (g *Game) place(d assets.DecorDef) {
	item, err := g.engine.AddFurniture(g.floorID, d.ID, newDecorX, newDecorY)
	if item.ID == "" {
		g.addMessage(fmt.Sprintf("Cannot place %s: %v", d.Label, err))
		return
	}
	if err != nil {
		g.saveFailed(err)
	}
	if f, ok := g.engine.GetFloor(g.floorID); ok {
		g.itemSel = len(f.Furniture) - 1
	}
	g.session.DecorPlaced[d.ID]++
	g.addMessage(fmt.Sprintf("Placed %s %s (+%d readers/min).", d.Emoji, d.Label, d.Readers))
}

// selectedItem clamps the editor cursor to the floor's furniture and
// returns it.
func (g *Game) selectedItem(f sim.Floor) (sim.FurnitureItem, bool) {
	if len(f.Furniture) == 0 {
		g.itemSel = 0
		return sim.FurnitureItem{}, false
	}
	g.itemSel = max(0, min(g.itemSel, len(f.Furniture)-1))
	return f.Furniture[g.itemSel], true
}

func (g *Game) nudge(f sim.Floor, a Action) {
	item, ok := g.selectedItem(f)
	if !ok {
		return
	}
	if g.drag == nil || g.drag.id != item.ID {
		g.drag = &drag{id: item.ID, x: item.X, y: item.Y}
	}
	dx, dy := actionToDelta(a)
	g.drag.x = max(0, min(editorW, g.drag.x+float64(dx*editorStep)))
	g.drag.y = max(0, min(editorH, g.drag.y+float64(dy*editorStep)))
}

// commitDrag drops the dragged item at its final position.
func (g *Game) commitDrag() {
	if g.drag == nil {
		return
	}
	d := *g.drag
	g.drag = nil
	err := g.engine.MoveFurniture(g.floorID, d.id, d.x, d.y)
	switch {
	case errors.Is(err, sim.ErrSave):
		g.saveFailed(err)
	case err != nil:
		g.addMessage(fmt.Sprintf("Cannot move: %v", err))
	}
}

func (g *Game) askRemove(f sim.Floor) {
	item, ok := g.selectedItem(f)
	if !ok {
		return
	}
	g.drag = nil
	label := item.DecorID
	if d, ok := assets.DecorByID(item.DecorID); ok {
		label = d.Label
	}
	g.ask(fmt.Sprintf("Remove %s? (y/n)", label), func() {
		removed, err := g.engine.RemoveFurniture(g.floorID, item.ID)
		switch {
		case errors.Is(err, sim.ErrSave):
			g.saveFailed(err)
		case err != nil:
			g.addMessage(fmt.Sprintf("Cannot remove: %v", err))
			return
		}
		if removed {
			g.addMessage(fmt.Sprintf("Removed %s.", label))
		}
	})
}

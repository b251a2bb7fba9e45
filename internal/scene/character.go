package scene

import (
	"math"
	"math/rand"

	"simlibrary/internal/canvas"
	"simlibrary/internal/visitors"
)

// CharState is what a character is doing on its floor.
type CharState uint8

const (
	Walking CharState = iota
	Reading
)

// arriveDistance is how close to its target a walker must get to start
// reading.
const arriveDistance = 2

// Character is the animated figure of one arrived reader. It lives only in
// the scene and is dropped once its reader leaves the feed.
type Character struct {
	ReaderID string
	Type     visitors.Type
	X        float64
	TargetX  float64
	Speed    float64
	Dir      int
	State    CharState
	Frame    int
	Style    CharacterStyle
}

func newCharacter(r visitors.Reader, rng *rand.Rand) *Character {
	style := StyleFor(r.Type)
	if style.glassesChance > 0 {
		style.Glasses = rng.Float64() < style.glassesChance
	}
	if style.baldChance > 0 && rng.Float64() < style.baldChance {
		style.HairStyle = HairBald
	}
	return &Character{
		ReaderID: r.ID,
		Type:     r.Type,
		X:        FloorX + 30 + rng.Float64()*200,
		TargetX:  FloorX + 250 + rng.Float64()*150,
		Speed:    0.5 + rng.Float64()*0.5,
		Dir:      1,
		State:    Walking,
		Style:    style,
	}
}

// step advances the walk by one frame.
func (ch *Character) step() {
	if ch.State == Walking {
		switch {
		case ch.X < ch.TargetX:
			ch.X += ch.Speed
			ch.Dir = 1
		case ch.X > ch.TargetX:
			ch.X -= ch.Speed
			ch.Dir = -1
		}
		if math.Abs(ch.X-ch.TargetX) < arriveDistance {
			ch.State = Reading
		}
	}
	ch.Frame++
}

var (
	shadowColor  = canvas.Black.WithAlpha(0.2)
	eyeColor     = canvas.Black
	glassesColor = canvas.Hex("#333333")
	sparkleColor = canvas.Hex("#FFD700")
)

// draw paints the figure standing on the floor whose top is floorY.
func (ch *Character) draw(c canvas.Canvas, floorY float64) {
	const charHeight = 40
	s := ch.Style
	x := ch.X
	baseY := floorY + 70

	phase := math.Sin(float64(ch.Frame) * 0.2)
	leg := phase * 2
	arm := phase * 4
	bob := math.Abs(phase)

	headY := baseY - charHeight + 8 - bob
	bodyY := baseY - charHeight + 16 - bob
	legY := baseY - 6 - bob

	c.FillEllipse(canvas.Point{X: x, Y: baseY}, 8, 3, shadowColor)

	c.FillRect(canvas.Rect{X: x - 5, Y: legY - leg, W: 4, H: 8 + leg}, s.Pants)
	c.FillRect(canvas.Rect{X: x + 1, Y: legY + leg, W: 4, H: 8 - leg}, s.Pants)

	c.FillRect(canvas.Rect{X: x - 7, Y: bodyY, W: 14, H: 20}, s.Shirt)
	if s.Pattern {
		c.FillRect(canvas.Rect{X: x - 5, Y: bodyY + 5, W: 10, H: 2}, s.PatternColor)
		c.FillRect(canvas.Rect{X: x - 5, Y: bodyY + 10, W: 10, H: 2}, s.PatternColor)
	}

	c.Line(canvas.Point{X: x - 7, Y: bodyY + 2}, canvas.Point{X: x - 10, Y: bodyY + 10 - arm}, s.Skin, 3)
	c.Line(canvas.Point{X: x + 7, Y: bodyY + 2}, canvas.Point{X: x + 10, Y: bodyY + 10 + arm}, s.Skin, 3)

	c.FillRect(canvas.Rect{X: x - 2, Y: bodyY - 2, W: 4, H: 4}, s.Skin)
	c.FillCircle(canvas.Point{X: x, Y: headY}, 9, s.Skin)

	switch s.HairStyle {
	case HairShort:
		c.FillPolygon(canvas.Arc(canvas.Point{X: x, Y: headY - 2}, 9, math.Pi, 2*math.Pi), s.Hair)
	case HairLong:
		c.FillPolygon(canvas.Arc(canvas.Point{X: x, Y: headY - 2}, 9, math.Pi, 2*math.Pi), s.Hair)
		c.FillRect(canvas.Rect{X: x - 9, Y: headY - 2, W: 3, H: 10}, s.Hair)
		c.FillRect(canvas.Rect{X: x + 6, Y: headY - 2, W: 3, H: 10}, s.Hair)
	case HairCurly:
		c.FillCircle(canvas.Point{X: x - 5, Y: headY - 4}, 5, s.Hair)
		c.FillCircle(canvas.Point{X: x, Y: headY - 6}, 6, s.Hair)
		c.FillCircle(canvas.Point{X: x + 5, Y: headY - 4}, 5, s.Hair)
	}

	c.FillRect(canvas.Rect{X: x - 3, Y: headY - 1, W: 2, H: 2}, eyeColor)
	c.FillRect(canvas.Rect{X: x + 1, Y: headY - 1, W: 2, H: 2}, eyeColor)

	if s.Glasses {
		c.StrokeCircle(canvas.Point{X: x - 3, Y: headY}, 3, glassesColor, 1)
		c.StrokeCircle(canvas.Point{X: x + 3, Y: headY}, 3, glassesColor, 1)
	}
	if s.Sparkle {
		c.Text(canvas.Point{X: x - 12, Y: headY - 8}, "✨", sparkleColor, canvas.AlignCenter)
	}
}

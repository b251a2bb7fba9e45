package sim

import (
	"math"

	"simlibrary/assets"
)

// FurnitureItem is one placed copy of a catalog decor. X and Y are editor
// coordinates and never affect the economy.
type FurnitureItem struct {
	ID      string  `json:"id"`
	DecorID string  `json:"decorId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Floor is one storey of the tower.
type Floor struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Emoji            string          `json:"emoji"`
	Color            string          `json:"color"`
	Level            int             `json:"level"`
	XP               int             `json:"xp"`
	XPToNextLevel    int             `json:"xpToNextLevel"`
	ReadersPerMinute int             `json:"readersPerMinute"`
	Furniture        []FurnitureItem `json:"furniture"`
}

func (f Floor) clone() Floor {
	f.Furniture = append(make([]FurnitureItem, 0, len(f.Furniture)), f.Furniture...)
	return f
}

// Theme returns the catalog theme the floor was built from, if it still
// exists.
func (f Floor) Theme() (assets.FloorTheme, bool) { return assets.ThemeByName(f.Name) }

// State is a deep copy of the game handed to readers outside the engine.
type State struct {
	Floors          []Floor `json:"floors"`
	Stars           int     `json:"stars"`
	SelectedFloorID string  `json:"selectedFloorId,omitempty"`
	TotalReaders    int     `json:"totalReaders"`
}

const (
	StartingStars   = 500
	baseXPThreshold = 100

	// MaxCount bounds stars, xp and thresholds: the largest integer a JSON
	// number holds exactly. Counters saturate here instead of wrapping.
	MaxCount = 1<<53 - 1
)

// UpgradeCost is the star price of raising a floor from level to level+1.
// Costs too large for an int saturate at math.MaxInt.
func UpgradeCost(level int) int {
	cost := math.Floor(100 * math.Pow(1.5, float64(level-1)))
	if math.IsNaN(cost) || cost >= math.MaxInt {
		return math.MaxInt
	}
	return int(cost)
}

// nextThreshold grows an xp threshold by half, rounding down, saturating at
// MaxCount.
func nextThreshold(t int) int {
	if t > MaxCount/3*2 {
		return MaxCount
	}
	return t * 3 / 2
}

// addCount adds n to a stored counter, saturating at MaxCount.
func addCount(c, n int) int {
	if c > MaxCount-n {
		return MaxCount
	}
	return c + n
}

// floorReaders is level × the readers of every placed decor. Unknown decor
// ids contribute nothing.
func floorReaders(f *Floor) int {
	sum := 0
	for _, item := range f.Furniture {
		if d, ok := assets.DecorByID(item.DecorID); ok {
			sum += d.Readers
		}
	}
	return f.Level * sum
}

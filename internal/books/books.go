// Package books tracks the stock on each floor's three shelves. Readers
// borrow from the fullest shelf; an emptied shelf is taken away for
// restocking and comes back full.
package books

import (
	"time"

	"simlibrary/assets"
)

// ShelvesPerFloor is fixed by the floor layout.
const ShelvesPerFloor = 3

type Shelf struct {
	Category   string
	Current    int
	Max        int
	Restocking bool

	restockAt time.Time
}

type Inventory struct {
	maxStock int
	restock  time.Duration
	floors   map[string]*[ShelvesPerFloor]Shelf
}

func NewInventory(maxStock int, restock time.Duration) *Inventory {
	return &Inventory{
		maxStock: maxStock,
		restock:  restock,
		floors:   make(map[string]*[ShelvesPerFloor]Shelf),
	}
}

// Ensure stocks a floor's shelves from its theme the first time it is seen.
// Unknown themes get the first catalog theme's categories.
func (inv *Inventory) Ensure(floorID, themeName string) {
	if _, ok := inv.floors[floorID]; ok {
		return
	}
	theme, ok := assets.ThemeByName(themeName)
	if !ok {
		theme = assets.Themes[0]
	}
	var shelves [ShelvesPerFloor]Shelf
	for i := range shelves {
		shelves[i] = Shelf{Category: theme.Categories[i], Current: inv.maxStock, Max: inv.maxStock}
	}
	inv.floors[floorID] = &shelves
}

// Shelves returns a copy of a floor's shelves.
func (inv *Inventory) Shelves(floorID string) ([ShelvesPerFloor]Shelf, bool) {
	s, ok := inv.floors[floorID]
	if !ok {
		return [ShelvesPerFloor]Shelf{}, false
	}
	return *s, true
}

// Borrow takes one book from the fullest shelf that is not restocking and
// returns its category. The shelf starts restocking when it runs out.
func (inv *Inventory) Borrow(floorID string, now time.Time) (string, bool) {
	s, ok := inv.floors[floorID]
	if !ok {
		return "", false
	}
	best := -1
	for i := range s {
		if s[i].Restocking || s[i].Current == 0 {
			continue
		}
		if best < 0 || s[i].Current > s[best].Current {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	sh := &s[best]
	sh.Current--
	if sh.Current == 0 {
		sh.Restocking = true
		sh.restockAt = now.Add(inv.restock)
	}
	return sh.Category, true
}

// Step refills shelves whose restock time has passed.
func (inv *Inventory) Step(now time.Time) {
	for _, s := range inv.floors {
		for i := range s {
			if s[i].Restocking && !now.Before(s[i].restockAt) {
				s[i].Current = s[i].Max
				s[i].Restocking = false
			}
		}
	}
}

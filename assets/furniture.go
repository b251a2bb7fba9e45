package assets

// DecorDef is one entry of the decor catalog. Readers is the number of
// readers per minute a single placed copy attracts at floor level 1.
type DecorDef struct {
	ID      string
	Emoji   string
	Label   string
	Cost    int // shown in the editor; placing decor is free
	Readers int
}

// Decor is the catalog in display order.
var Decor = []DecorDef{
	{ID: "chair", Emoji: "🪑", Label: "Tiny Chair", Cost: 50, Readers: 1},
	{ID: "beanbag", Emoji: "🛋️", Label: "Beanbag", Cost: 75, Readers: 2},
	{ID: "rug", Emoji: "🧺", Label: "Cozy Rug", Cost: 100, Readers: 3},
	{ID: "poster", Emoji: "🖼️", Label: "Poster", Cost: 60, Readers: 1},
	{ID: "plant", Emoji: "🪴", Label: "Plant", Cost: 80, Readers: 2},
	{ID: "lamp", Emoji: "💡", Label: "Lamp", Cost: 90, Readers: 2},
	{ID: "bookshelf", Emoji: "📚", Label: "Bookshelf", Cost: 150, Readers: 5},
}

// DecorByID looks up a catalog entry.
func DecorByID(id string) (DecorDef, bool) {
	for _, d := range Decor {
		if d.ID == id {
			return d, true
		}
	}
	return DecorDef{}, false
}

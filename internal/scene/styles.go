package scene

import (
	"math"

	"simlibrary/internal/canvas"
	"simlibrary/internal/visitors"
)

// ─── Floor palettes ──────────────────────────────────────────────────────────

type ColorClass uint8

const (
	Peach ColorClass = iota
	Mint
	Sky
	Lavender
	Brown
	Rainbow
	NumColorClasses
)

type Palette struct {
	Background canvas.RGBA
	Border     canvas.RGBA
	Accent     canvas.RGBA
}

var colorClassNames = [NumColorClasses]string{"peach", "mint", "sky", "lavender", "brown", "rainbow"}

var palettes = [NumColorClasses]Palette{
	Peach:    {canvas.Hex("#FFD4B2"), canvas.Hex("#FFAB91"), canvas.Hex("#FF8A65")},
	Mint:     {canvas.Hex("#C8E6C9"), canvas.Hex("#A5D6A7"), canvas.Hex("#81C784")},
	Sky:      {canvas.Hex("#B3E5FC"), canvas.Hex("#81D4FA"), canvas.Hex("#4FC3F7")},
	Lavender: {canvas.Hex("#E1BEE7"), canvas.Hex("#CE93D8"), canvas.Hex("#BA68C8")},
	Brown:    {canvas.Hex("#D7CCC8"), canvas.Hex("#BCAAA4"), canvas.Hex("#A1887F")},
	Rainbow:  {canvas.Hex("#FFE5B4"), canvas.Hex("#FFD700"), canvas.Hex("#FFA500")},
}

func (c ColorClass) String() string {
	if c < NumColorClasses {
		return colorClassNames[c]
	}
	return "unknown"
}

func (c ColorClass) Palette() Palette { return palettes[c%NumColorClasses] }

// ParseColorClass maps a floor's color name to its class.
func ParseColorClass(s string) (ColorClass, bool) {
	for i, name := range colorClassNames {
		if name == s {
			return ColorClass(i), true
		}
	}
	return Peach, false
}

// ─── Shelves ─────────────────────────────────────────────────────────────────

type ShelfShape uint8

const (
	Rectangular ShelfShape = iota
	Rounded
	Scalloped
	Arched
	Peaked
	Ornate
)

type ShelfKind uint8

const (
	BoardBooks ShelfKind = iota
	PictureBooks
	EarlyReaders
	JuvenileSeries
	TeenShelf
	Fiction
	Mystery
	Romance
	SciFi
	Fantasy
	TrueCrime
	GraphicNovels
	Biography
	History
	LocalHistory
	Science
	Technology
	Sports
	Cookbooks
	LibraryOfThings
	CoffeeShop
	Bakery
	HotDrinksCafe
	SnackBar
	NumShelfKinds
)

type ShelfStyle struct {
	Name       string
	Shelf      canvas.RGBA
	Border     canvas.RGBA
	Shape      ShelfShape
	BookColors [5]canvas.RGBA
}

func books5(a, b, c, d, e string) [5]canvas.RGBA {
	return [5]canvas.RGBA{canvas.Hex(a), canvas.Hex(b), canvas.Hex(c), canvas.Hex(d), canvas.Hex(e)}
}

var shelfStyles = [NumShelfKinds]ShelfStyle{
	BoardBooks:      {"board_books", canvas.Hex("#DEB887"), canvas.Hex("#D2691E"), Rounded, books5("#FFD700", "#FF6B6B", "#4ECDC4", "#95E1D3", "#FFA07A")},
	PictureBooks:    {"picture_books", canvas.Hex("#F4A460"), canvas.Hex("#D2691E"), Scalloped, books5("#FF6347", "#FFD700", "#98D8C8", "#87CEEB", "#DDA0DD")},
	EarlyReaders:    {"early_readers", canvas.Hex("#D2B48C"), canvas.Hex("#BC9B7D"), Rounded, books5("#90EE90", "#FFB6C1", "#FFD700", "#87CEEB", "#DDA0DD")},
	JuvenileSeries:  {"juvenile_series", canvas.Hex("#CD853F"), canvas.Hex("#8B4513"), Peaked, books5("#4169E1", "#FF4500", "#FFD700", "#32CD32", "#FF69B4")},
	TeenShelf:       {"teen", canvas.Hex("#A0826D"), canvas.Hex("#6D5843"), Rectangular, books5("#8A2BE2", "#FF1493", "#00CED1", "#FFD700", "#FF6347")},
	Fiction:         {"fiction", canvas.Hex("#8D6E63"), canvas.Hex("#5D4037"), Rectangular, books5("#8B4513", "#A0522D", "#CD853F", "#DEB887", "#D2691E")},
	Mystery:         {"mystery", canvas.Hex("#6D5843"), canvas.Hex("#5C4033"), Ornate, books5("#2F4F4F", "#696969", "#708090", "#778899", "#B0C4DE")},
	Romance:         {"romance", canvas.Hex("#BC9B7D"), canvas.Hex("#A0826D"), Arched, books5("#FF69B4", "#FFB6C1", "#FFC0CB", "#DB7093", "#C71585")},
	SciFi:           {"scifi", canvas.Hex("#8B7355"), canvas.Hex("#5C4033"), Rectangular, books5("#00CED1", "#4169E1", "#6A5ACD", "#7B68EE", "#9370DB")},
	Fantasy:         {"fantasy", canvas.Hex("#A0826D"), canvas.Hex("#6D5843"), Arched, books5("#8A2BE2", "#9370DB", "#BA55D3", "#DA70D6", "#EE82EE")},
	TrueCrime:       {"true_crime", canvas.Hex("#5C4033"), canvas.Hex("#3E2723"), Rectangular, books5("#DC143C", "#B22222", "#8B0000", "#A52A2A", "#CD5C5C")},
	GraphicNovels:   {"graphic_novels", canvas.Hex("#D2691E"), canvas.Hex("#8B4513"), Rectangular, books5("#FF4500", "#FF6347", "#FFD700", "#FFA500", "#FF8C00")},
	Biography:       {"biography", canvas.Hex("#A0826D"), canvas.Hex("#6D5843"), Ornate, books5("#8B7355", "#A0826D", "#BC9B7D", "#D2B48C", "#DEB887")},
	History:         {"history", canvas.Hex("#8B7355"), canvas.Hex("#5C4033"), Ornate, books5("#704214", "#8B5A3C", "#A0826D", "#BC9B7D", "#8B7355")},
	LocalHistory:    {"local_history", canvas.Hex("#D2B48C"), canvas.Hex("#A0826D"), Peaked, books5("#CD853F", "#DAA520", "#B8860B", "#D2691E", "#8B4513")},
	Science:         {"science", canvas.Hex("#8B6F47"), canvas.Hex("#654321"), Rectangular, books5("#228B22", "#32CD32", "#3CB371", "#2E8B57", "#008B8B")},
	Technology:      {"technology", canvas.Hex("#7A6A4F"), canvas.Hex("#5C4033"), Rectangular, books5("#4682B4", "#5F9EA0", "#708090", "#778899", "#B0C4DE")},
	Sports:          {"sports", canvas.Hex("#CD853F"), canvas.Hex("#8B4513"), Rectangular, books5("#FF8C00", "#FFD700", "#FFA500", "#FF4500", "#DC143C")},
	Cookbooks:       {"cookbooks", canvas.Hex("#D2691E"), canvas.Hex("#A0522D"), Rounded, books5("#FF6347", "#FF7F50", "#FFA07A", "#FA8072", "#E9967A")},
	LibraryOfThings: {"library_of_things", canvas.Hex("#BC9B7D"), canvas.Hex("#8B7355"), Rounded, books5("#FF69B4", "#FFD700", "#00CED1", "#FF6347", "#32CD32")},
	CoffeeShop:      {"coffee_shop", canvas.Hex("#6F4E37"), canvas.Hex("#3E2723"), Rounded, books5("#795548", "#8D6E63", "#A1887F", "#BCAAA4", "#D7CCC8")},
	Bakery:          {"bakery", canvas.Hex("#DEB887"), canvas.Hex("#D2691E"), Scalloped, books5("#FFE4B5", "#FFDEAD", "#F5DEB3", "#DEB887", "#D2B48C")},
	HotDrinksCafe:   {"hot_drinks_cafe", canvas.Hex("#8B4513"), canvas.Hex("#654321"), Rounded, books5("#A0522D", "#8B4513", "#D2691E", "#CD853F", "#F4A460")},
	SnackBar:        {"snack_bar", canvas.Hex("#D2B48C"), canvas.Hex("#BC9B7D"), Rounded, books5("#FFD700", "#F0E68C", "#EEE8AA", "#FAFAD2", "#FFE4B5")},
}

func (k ShelfKind) Style() ShelfStyle { return shelfStyles[k%NumShelfKinds] }

func (k ShelfKind) String() string { return k.Style().Name }

// ParseShelfKind maps a theme's shelf name to its kind.
func ParseShelfKind(s string) (ShelfKind, bool) {
	for i := range shelfStyles {
		if shelfStyles[i].Name == s {
			return ShelfKind(i), true
		}
	}
	return Fiction, false
}

// shelfOutline flattens a shelf's silhouette into a polygon.
func shelfOutline(shape ShelfShape, r canvas.Rect) []canvas.Point {
	x, y, w, h := r.X, r.Y, r.W, r.H
	var p canvas.Path
	switch shape {
	case Rounded:
		const rad = 10
		p.MoveTo(x, y+h)
		p.LineTo(x, y+rad)
		p.ArcAround(x+rad, y+rad, rad, math.Pi, 1.5*math.Pi)
		p.LineTo(x+w-rad, y)
		p.ArcAround(x+w-rad, y+rad, rad, 1.5*math.Pi, 2*math.Pi)
		p.LineTo(x+w, y+h)
	case Scalloped:
		p.MoveTo(x, y+10)
		q := w / 4
		for i := range 4 {
			fi := float64(i)
			p.QuadTo(x+q*fi, y+10, x+q*fi+q/2, y)
			p.QuadTo(x+q*(fi+1), y+10, x+q*(fi+1), y+10)
		}
		p.LineTo(x+w, y+h)
		p.LineTo(x, y+h)
	case Arched:
		p.MoveTo(x, y+h)
		p.LineTo(x, y+15)
		p.QuadTo(x+w/2, y-5, x+w, y+15)
		p.LineTo(x+w, y+h)
	case Peaked:
		p.MoveTo(x, y+15)
		p.LineTo(x+w/2, y)
		p.LineTo(x+w, y+15)
		p.LineTo(x+w, y+h)
		p.LineTo(x, y+h)
	case Ornate:
		p.MoveTo(x+5, y+5)
		p.LineTo(x, y+10)
		p.LineTo(x, y+h)
		p.LineTo(x+w, y+h)
		p.LineTo(x+w, y+10)
		p.LineTo(x+w-5, y+5)
		p.LineTo(x+w-5, y)
		p.LineTo(x+5, y)
	default:
		p.Rect(r)
	}
	return p.Points()
}

// decoration is the furnishing a floor shows beside its shelves.
type decoration uint8

const (
	decorPlant decoration = iota
	decorRugs
	decorDesk
)

func (k ShelfKind) decoration() decoration {
	switch k {
	case BoardBooks, PictureBooks:
		return decorRugs
	case Science, Technology:
		return decorDesk
	}
	return decorPlant
}

// ─── Characters ──────────────────────────────────────────────────────────────

type HairStyle uint8

const (
	HairShort HairStyle = iota
	HairLong
	HairCurly
	HairBald
)

type CharacterStyle struct {
	Skin, Hair   canvas.RGBA
	HairStyle    HairStyle
	Shirt, Pants canvas.RGBA
	Pattern      bool
	PatternColor canvas.RGBA
	Glasses      bool
	Sparkle      bool

	// Traits rolled per character at creation.
	glassesChance float64 // > 0: glasses with this probability
	baldChance    float64 // > 0: bald with this probability
}

var characterStyles = [visitors.NumTypes]CharacterStyle{
	visitors.Kid: {
		Skin: canvas.Hex("#FDBCB4"), Hair: canvas.Hex("#8B4513"), HairStyle: HairShort,
		Shirt: canvas.Hex("#FF6B6B"), Pants: canvas.Hex("#4ECDC4"),
		Pattern: true, PatternColor: canvas.White,
	},
	visitors.Teen: {
		Skin: canvas.Hex("#F4C2A6"), Hair: canvas.Hex("#2C1810"), HairStyle: HairLong,
		Shirt: canvas.Hex("#9370DB"), Pants: canvas.Hex("#2C3E50"),
		PatternColor: canvas.White,
	},
	visitors.Adult: {
		Skin: canvas.Hex("#E8B89A"), Hair: canvas.Hex("#4A3728"), HairStyle: HairShort,
		Shirt: canvas.Hex("#4A90E2"), Pants: canvas.Hex("#2C3E50"),
		PatternColor: canvas.White, glassesChance: 0.5,
	},
	visitors.Senior: {
		Skin: canvas.Hex("#F5D5C3"), Hair: canvas.Hex("#CCCCCC"), HairStyle: HairShort,
		Shirt: canvas.Hex("#8B7355"), Pants: canvas.Hex("#5C4033"),
		PatternColor: canvas.White, Glasses: true, baldChance: 0.5,
	},
	visitors.Student: {
		Skin: canvas.Hex("#F4C2A6"), Hair: canvas.Hex("#654321"), HairStyle: HairCurly,
		Shirt: canvas.Hex("#2ECC71"), Pants: canvas.Hex("#34495E"),
		PatternColor: canvas.White, Glasses: true,
	},
	visitors.VIP: {
		Skin: canvas.Hex("#F4C2A6"), Hair: canvas.Hex("#FFD700"), HairStyle: HairCurly,
		Shirt: canvas.Hex("#FFD700"), Pants: canvas.Hex("#9370DB"),
		Pattern: true, PatternColor: canvas.White, Glasses: true, Sparkle: true,
	},
}

// StyleFor returns the base style of a reader type. Unknown types draw as
// adults.
func StyleFor(t visitors.Type) CharacterStyle {
	if t >= visitors.NumTypes {
		t = visitors.Adult
	}
	return characterStyles[t]
}

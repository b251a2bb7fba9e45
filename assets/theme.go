package assets

// FloorTheme seeds a new floor's look. Color is the floor's color class;
// Shelves names the bookshelf style its three shelves are drawn with.
type FloorTheme struct {
	Name        string
	Emoji       string
	Color       string
	Description string
	Shelves     string
	Categories  [3]string // book categories, one per shelf
}

// Themes is the build catalog. Floors added without a theme cycle through
// it in this order.
var Themes = []FloorTheme{
	{
		Name:        "Picture Book Meadow",
		Emoji:       "📖",
		Color:       "peach",
		Description: "A cozy space for young readers",
		Shelves:     "picture_books",
		Categories:  [3]string{"Board Books", "Picture Books", "Early Readers"},
	},
	{
		Name:        "Animals & Nature Wing",
		Emoji:       "🦋",
		Color:       "mint",
		Description: "Discover the natural world",
		Shelves:     "science",
		Categories:  [3]string{"Animals", "Plants", "Oceans"},
	},
	{
		Name:        "Space & Science Zone",
		Emoji:       "🚀",
		Color:       "sky",
		Description: "Explore the cosmos and beyond",
		Shelves:     "scifi",
		Categories:  [3]string{"Planets", "Robots", "Experiments"},
	},
	{
		Name:        "Mystery Corner",
		Emoji:       "🔍",
		Color:       "lavender",
		Description: "Unravel thrilling mysteries",
		Shelves:     "mystery",
		Categories:  [3]string{"Detectives", "Puzzles", "Ghost Stories"},
	},
}

// StarterTheme is the theme of the floor every new game begins with.
const StarterTheme = "Picture Book Meadow"

// ThemeByName looks up a theme by its exact name.
func ThemeByName(name string) (FloorTheme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return FloorTheme{}, false
}

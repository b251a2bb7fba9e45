package assets

// ArrivalLines holds flavor messages shown when a reader steps out of the
// elevator, keyed by theme name. %s is replaced with the reader's emoji.
var ArrivalLines = map[string][]string{
	"Picture Book Meadow": {
		"%s curls up with a picture book.",
		"%s is giggling at the talking-animal pages.",
		"%s asks for the one with the very hungry caterpillar.",
	},
	"Animals & Nature Wing": {
		"%s is reading about octopus hearts (there are three).",
		"%s pressed a leaf between the pages. Again.",
		"%s found the bird-call book and is trying them all.",
	},
	"Space & Science Zone": {
		"%s is counting the moons of Jupiter.",
		"%s wants to build a robot after chapter two.",
		"%s checked out every book with a rocket on it.",
	},
	"Mystery Corner": {
		"%s suspects the butler.",
		"%s is solving the puzzle book in pen.",
		"%s reads the ghost stories with the lamp on.",
	},
}

// GenericArrival is used for floors whose theme has no lines of its own.
const GenericArrival = "%s found a quiet corner to read."

package game

import "github.com/gdamore/tcell/v2"

// Action represents a player-requested game action.
type Action uint8

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionNext
	ActionPrev
	ActionConfirm
	ActionBack
	ActionQuit
	ActionHelp
	ActionBuild
	ActionUpgrade
	ActionEdit
	ActionRemove
	ActionPlace
	ActionYes
)

var actionNames = [...]string{
	"none", "up", "down", "left", "right", "next", "prev", "confirm",
	"back", "quit", "help", "build", "upgrade", "edit", "remove", "place", "yes",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// keyToAction maps a tcell key event to a game action.
func keyToAction(ev *tcell.EventKey) Action {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionUp
	case tcell.KeyDown:
		return ActionDown
	case tcell.KeyLeft:
		return ActionLeft
	case tcell.KeyRight:
		return ActionRight
	case tcell.KeyTab:
		return ActionNext
	case tcell.KeyBacktab:
		return ActionPrev
	case tcell.KeyEnter:
		return ActionConfirm
	case tcell.KeyEscape:
		return ActionBack
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		return ActionRemove
	}

	// Rune keys.
	r := ev.Rune()
	if _, ok := decorSlot(r); ok {
		return ActionPlace
	}
	switch r {
	case 'k', 'K':
		return ActionUp
	case 'j', 'J':
		return ActionDown
	case 'h', 'H':
		return ActionLeft
	case 'l', 'L':
		return ActionRight
	case 'q', 'Q':
		return ActionQuit
	case '?':
		return ActionHelp
	case 'b', 'B':
		return ActionBuild
	case 'u', 'U':
		return ActionUpgrade
	case 'e', 'E':
		return ActionEdit
	case 'x', 'X':
		return ActionRemove
	case 'y', 'Y':
		return ActionYes
	case ' ':
		return ActionConfirm
	}
	return ActionNone
}

// decorSlot maps the digit keys 1-9 to a decor catalog index.
func decorSlot(r rune) (int, bool) {
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

// actionToDelta converts an arrow action to an editor nudge direction.
func actionToDelta(a Action) (int, int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionRight:
		return 1, 0
	case ActionLeft:
		return -1, 0
	}
	return 0, 0
}

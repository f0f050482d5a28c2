package session

import (
	"fmt"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/render"
)

// State is the controller's input mode.
type State int

// Controller states.
const (
	Idle                State = iota
	AwaitingSecondBound       // first click of a two-click gesture recorded
	AwaitingEntry             // waiting for typed input
)

// String returns the state name shown in the status bar.
func (s State) String() string {
	switch s {
	case AwaitingSecondBound:
		return "awaiting-second-bound"
	case AwaitingEntry:
		return "awaiting-entry"
	default:
		return "idle"
	}
}

// gesture identifies what a pending first click started.
type gesture int

const (
	gestureNone gesture = iota
	gestureComponent
	gestureBadPixels
)

// entry identifies what typed input is for.
type entry int

const (
	entryNone entry = iota
	entryRedshift
	entryTransition
	entryField
)

// Cursor locates a pointer event. Panel indexes the current page in the
// order returned by Page; a negative Panel means the pointer is outside
// every panel.
type Cursor struct {
	Panel    int
	Velocity float64 // km/s relative to the panel transition at the current z
	Flux     float64
}

// NoCursor is a cursor outside every panel.
var NoCursor = Cursor{Panel: -1}

// Command is one discrete input event: a key with the cursor position at the
// time it was pressed, plus typed text for "enter".
type Command struct {
	Key    string
	Cursor Cursor
	Text   string
}

// Outcome tells the UI what a command did.
type Outcome struct {
	Redraw      bool
	ClearFigure bool // panel layout changed
	Rescale     bool // y limits changed
	Messages    []string
	Warnings    []component.Warning
	Prompt      string // non-empty while typed input is expected
	Quit        bool
	Write       bool // the guesses file was written
	Err         error
}

func (o *Outcome) say(format string, args ...any) {
	o.Messages = append(o.Messages, fmt.Sprintf(format, args...))
}

// Slot is one panel position on the current page.
type Slot struct {
	Transition linelist.Transition
	Row, Col   int
}

// View is a consistent snapshot of everything the UI draws.
type View struct {
	State      State
	Prompt     string
	Z          float64
	List       string
	Selected   string
	Components int
	Rows, Cols int
	Index      int // first transition shown
	Available  int // transitions in the current list at z
	XLim, YLim [2]float64
	Labels     bool
	Preset     string // "In" or "Out"
	Panels     []render.VelocityPanel
}

// pending is the first click of a two-click gesture.
type pending struct {
	kind       gesture
	transition linelist.Transition
	velocity   float64
	wave       float64
}

package session

import (
	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/linelist"
)

// handler runs one idle-state command.
type handler func(c *Controller, cmd Command, out *Outcome) error

var commands = map[string]handler{
	// window
	"i": zoomX(0.25),
	"I": zoomX(1.0 / 16),
	"o": zoomX(1),
	"O": zoomX(2),
	"y": zoomOutY,
	"Y": guessY,
	"t": setLimit(1, 1),
	"b": setLimit(1, 0),
	"l": setLimit(0, 0),
	"r": setLimit(0, 1),
	"[": panX(-1),
	"]": panX(1),
	"W": resetWindow,

	// layout and paging
	"K": resize(true, 1),
	"k": resize(true, -1),
	"C": resize(false, 1),
	"c": resize(false, -1),
	"(": togglePreset,
	"-": prevPage,
	"=": nextPage,
	"f": firstPage,

	// redshift and line lists
	" ": moveToCursor,
	"^": promptRedshift,
	"%": promptTransition,
	"H": selectList(linelist.ListHI),
	"T": selectList(linelist.ListStrong),
	"U": selectList(linelist.ListISM),

	// components
	"A":   startComponent,
	"S":   selectNearest,
	"tab": selectNext,
	"D":   deleteNearest,
	"d":   deleteSelected,
	"N":   nudge(func(a *component.Attrib) { a.LogN += StepLogN }),
	"n":   nudge(func(a *component.Attrib) { a.LogN -= StepLogN }),
	"V":   nudge(func(a *component.Attrib) { a.B += StepB }),
	"v":   nudge(func(a *component.Attrib) { a.B -= StepB }),
	">":   nudge(func(a *component.Attrib) { a.Z += StepZ }),
	"<":   nudge(func(a *component.Attrib) { a.Z -= StepZ }),
	"R":   refit,
	"E":   promptField,

	// spectrum
	"X": startBadPixels,
	"x": startBadPixels,

	// display and session
	"L": toggleLabels,
	"?": help,
	"w": write,
	"q": quit,
	"Q": writeQuit,
}

// HelpText lists the command vocabulary.
const HelpText = `
Window:   i/o zoom x in/out at cursor, I/O larger steps, [ ] pan x
          l/r set x min/max, t/b set y max/min, y zoom out y, Y fit y, W reset
Layout:   C/c add/remove column, K/k add/remove row, ( toggle In/Out preset
Paging:   = next page, - previous page, f first page
Redshift: space set z at cursor, ^ type z, % identify line at cursor
Lists:    U ISM, T Strong, H HI
Comps:    A (twice) add component between bounds, S select nearest,
          tab select next, D delete nearest, d delete selected
Fiddle:   N/n logN +/-0.05, V/v b +/-5 km/s, >/< z +/-4e-5, R refit,
          E set logN|b|z|comment|reliability
Pixels:   X then X flags bad pixels, x then x (or X then x) clears them
Display:  L toggle line labels, ? help
Session:  w write, Q write and quit, q quit, esc cancel
`

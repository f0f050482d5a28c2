// Package session implements the interactive view controller: a state
// machine that turns discrete key and cursor commands into redshift and
// window navigation, component creation, fitting and editing, and
// bad-pixel masking. It owns the session's mutable state and is independent
// of any terminal or plotting toolkit.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/fit"
	"github.com/papapumpkin/igmguesses/internal/guesses"
	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/render"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
	"github.com/papapumpkin/igmguesses/internal/synth"
	"github.com/papapumpkin/igmguesses/internal/telemetry"
)

// Layout presets toggled with "(".
const (
	PresetIn  = "In"
	PresetOut = "Out"
)

var presets = map[string][2]int{
	PresetIn:  {3, 2},
	PresetOut: {5, 3},
}

// Nudge steps.
const (
	StepLogN = 0.05 // dex
	StepB    = 5.0  // km/s
	StepZ    = 4e-5
)

var defaultYLim = [2]float64{-0.1, 1.1}

// Config holds the session settings.
type Config struct {
	FWHM           float64 // instrumental FWHM in pixels
	MinEW          float64 // Angstrom
	MinStrength    float64
	NMaxTuple      int
	Z              float64 // starting redshift
	List           string  // starting line list
	VelocityWindow [2]float64
	Residuals      bool
	MaxIterations  int
	ObjectiveTol   float64
	OutFile        string
	Palette        render.Palette
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		FWHM:           3,
		MinEW:          0.005,
		List:           linelist.ListISM,
		VelocityWindow: [2]float64{-500, 500},
		Residuals:      true,
		MaxIterations:  200,
		ObjectiveTol:   1e-12,
		OutFile:        "IGM_model.json",
		Palette:        render.DefaultPalette,
	}
}

// Controller owns the spectrum, registry, catalog, fit engine and model of
// one session. Dispatch serializes every mutation behind a single writer
// lock; View and the other accessors take the read lock.
type Controller struct {
	mu sync.RWMutex

	cfg     Config
	spec    *spectrum.Spectrum
	cat     *linelist.Catalog
	reg     *component.Registry
	engine  *fit.Engine
	synth   *synth.Synthesizer
	emitter *telemetry.Emitter

	state   State
	pend    pending
	entry   entry
	prompt  string
	entryAt Cursor

	z         float64
	list      string
	available []linelist.Transition
	idx       int
	rows      int
	cols      int
	preset    string
	xlim      [2]float64
	ylim      [2]float64
	labels    bool
	selected  string
}

// New builds a controller for spec. A nil reg starts an empty session. The
// model is computed before New returns. An empty list of available
// transitions at the starting redshift is tolerated; Start reports it.
func New(spec *spectrum.Spectrum, cat *linelist.Catalog, reg *component.Registry, cfg Config) (*Controller, error) {
	if spec == nil || cat == nil {
		return nil, errors.New("session: spectrum and catalog are required")
	}
	if cfg.FWHM <= 0 {
		return nil, fmt.Errorf("session: FWHM must be positive, got %g", cfg.FWHM)
	}
	if cfg.List == "" {
		cfg.List = linelist.ListISM
	}
	if !(cfg.VelocityWindow[0] < cfg.VelocityWindow[1]) {
		cfg.VelocityWindow = DefaultConfig().VelocityWindow
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = render.DefaultPalette
	}
	if reg == nil {
		reg = component.NewRegistry()
	}
	if _, err := cat.List(cfg.List); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	engine := fit.NewEngine(cfg.FWHM, cfg.MinEW)
	if cfg.MaxIterations > 0 {
		engine.MaxIterations = cfg.MaxIterations
	}
	if cfg.ObjectiveTol > 0 {
		engine.ObjectiveTol = cfg.ObjectiveTol
	}

	c := &Controller{
		cfg:    cfg,
		spec:   spec,
		cat:    cat,
		reg:    reg,
		engine: engine,
		synth:  synth.New(cfg.FWHM, cfg.Residuals),
		z:      cfg.Z,
		list:   cfg.List,
		xlim:   cfg.VelocityWindow,
		ylim:   defaultYLim,
		preset: PresetIn,
	}
	c.rows, c.cols = presets[PresetIn][0], presets[PresetIn][1]
	c.available, _ = c.lookupAvailable(c.z, c.list)
	c.synth.Recompute(c.reg, c.spec)
	return c, nil
}

// Start attaches an event emitter (nil disables telemetry), records the
// session start and returns the opening messages.
func (c *Controller) Start(e *telemetry.Emitter) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitter = e
	c.emit(telemetry.KindSessionStart, "", map[string]any{
		"spec_file":  c.spec.Filename,
		"fwhm":       c.cfg.FWHM,
		"z":          c.z,
		"components": c.reg.Len(),
	})
	out := Outcome{Redraw: true}
	if len(c.available) == 0 {
		out.say("No %s transitions fall inside the spectrum at z=%.5f; set a redshift with ^ or %%", c.list, c.z)
	} else {
		out.say("%d %s transitions available at z=%.5f. Press ? for help", len(c.available), c.list, c.z)
	}
	return out
}

// Dispatch applies one command and reports its effects. Commands are
// processed one at a time; the model is recomputed before Dispatch returns
// whenever the registry, redshift or line list changed.
func (c *Controller) Dispatch(cmd Command) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out Outcome
	var err error
	switch c.state {
	case AwaitingEntry:
		err = c.handleEntry(cmd, &out)
	case AwaitingSecondBound:
		err = c.handleBound(cmd, &out)
	default:
		err = c.handleIdle(cmd, &out)
	}
	if err != nil {
		out.Err = err
		c.emit(telemetry.KindWarning, c.selected, map[string]any{"key": cmd.Key, "error": err.Error()})
	}
	for _, w := range out.Warnings {
		c.emit(telemetry.KindWarning, w.Component, map[string]any{"msg": w.Msg})
	}
	out.Prompt = c.prompt
	return out
}

// handleIdle runs the command bound to cmd.Key.
func (c *Controller) handleIdle(cmd Command, out *Outcome) error {
	h, ok := commands[cmd.Key]
	if !ok {
		if cmd.Key == "esc" {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrUnknownKey, cmd.Key)
	}
	return h(c, cmd, out)
}

// handleBound completes or cancels a two-click gesture.
func (c *Controller) handleBound(cmd Command, out *Outcome) error {
	switch {
	case cmd.Key == "esc":
		c.resetGesture()
		out.Redraw = true
		out.say("Selection cancelled")
		return nil
	case c.pend.kind == gestureComponent && cmd.Key == "A":
		return c.finishComponent(cmd, out)
	case c.pend.kind == gestureBadPixels && (cmd.Key == "X" || cmd.Key == "x"):
		return c.finishBadPixels(cmd, out)
	}
	return ErrGesturePending
}

// handleEntry consumes typed input. Any key other than enter or esc is
// ignored while input is pending.
func (c *Controller) handleEntry(cmd Command, out *Outcome) error {
	switch cmd.Key {
	case "esc":
		c.resetEntry()
		out.Redraw = true
		return nil
	case "enter":
	default:
		return nil
	}
	kind, at := c.entry, c.entryAt
	c.resetEntry()
	switch kind {
	case entryRedshift:
		return c.applyRedshift(cmd.Text, out)
	case entryTransition:
		return c.applyTransition(cmd.Text, at, out)
	case entryField:
		return c.applyField(cmd.Text, out)
	}
	return nil
}

func (c *Controller) resetGesture() {
	c.state = Idle
	c.pend = pending{}
}

func (c *Controller) resetEntry() {
	c.state = Idle
	c.entry = entryNone
	c.prompt = ""
	c.entryAt = NoCursor
}

func (c *Controller) beginEntry(kind entry, prompt string, at Cursor) {
	c.state = AwaitingEntry
	c.entry = kind
	c.prompt = prompt
	c.entryAt = at
}

// recompute refreshes the model from the registry.
func (c *Controller) recompute(out *Outcome) {
	c.synth.Recompute(c.reg, c.spec)
	out.Redraw = true
}

func (c *Controller) emit(kind, comp string, data any) {
	if c.emitter == nil {
		return
	}
	_ = c.emitter.Emit(telemetry.Event{Kind: kind, Component: comp, Data: data})
}

// SetCatalog swaps the transition catalog, as after the catalog file changed
// on disk. Existing components keep their lines.
func (c *Controller) SetCatalog(cat *linelist.Catalog) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Outcome{Redraw: true, ClearFigure: true}
	if _, err := cat.List(c.list); err != nil {
		out.Err = err
		return out
	}
	c.cat = cat
	c.available, _ = c.lookupAvailable(c.z, c.list)
	c.clampIndex()
	out.say("Catalog reloaded: %d transitions, %d available", cat.Len(), len(c.available))
	out.Prompt = c.prompt
	return out
}

// Save writes the guesses file for the current registry to path.
func (c *Controller) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.save(path)
}

func (c *Controller) save(path string) error {
	if err := guesses.Save(path, guesses.Encode(c.reg, c.spec, c.cfg.FWHM)); err != nil {
		return err
	}
	c.emit(telemetry.KindGuessesWritten, "", map[string]any{"path": path, "components": c.reg.Len()})
	return nil
}

// Registry returns the component registry. Callers must not mutate it while
// the controller is in use.
func (c *Controller) Registry() *component.Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg
}

// Selected returns a copy of the selected component.
func (c *Controller) Selected() (*component.Component, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	comp, ok := c.reg.Get(c.selected)
	if !ok {
		return nil, false
	}
	return comp.Clone(), true
}

// Model returns a copy of the current model flux.
func (c *Controller) Model() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]float64(nil), c.synth.Model().Flux...)
}

// Redshift returns the current redshift.
func (c *Controller) Redshift() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.z
}

// State returns the current input mode.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

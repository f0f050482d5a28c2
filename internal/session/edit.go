package session

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/fit"
	"github.com/papapumpkin/igmguesses/internal/telemetry"
)

// startComponent records the first velocity bound of a new component.
func startComponent(c *Controller, cmd Command, out *Outcome) error {
	s, w, err := c.cursorWave(cmd.Cursor)
	if err != nil {
		return err
	}
	c.state = AwaitingSecondBound
	c.pend = pending{kind: gestureComponent, transition: s.Transition, velocity: cmd.Cursor.Velocity, wave: w}
	out.Redraw = true
	out.say("%s: first bound at %.1f km/s; press A at the second bound", s.Transition.Name, cmd.Cursor.Velocity)
	return nil
}

// finishComponent builds a component between the two clicked velocities,
// anchored on the first click's transition and centred between the bounds,
// then fits it. A second click outside the spectrum keeps the gesture open;
// any other failure ends it without adding anything.
func (c *Controller) finishComponent(cmd Command, out *Outcome) error {
	if _, _, err := c.cursorWave(cmd.Cursor); err != nil {
		return err
	}
	p := c.pend
	c.resetGesture()
	vmin := math.Min(p.velocity, cmd.Cursor.Velocity)
	vmax := math.Max(p.velocity, cmd.Cursor.Velocity)
	zmin := component.ZFromVelocity(c.z, vmin)
	zmax := component.ZFromVelocity(c.z, vmax)
	zcomp := (zmin + zmax) / 2
	mean := (vmin + vmax) / 2
	vlim := [2]float64{vmin - mean, vmax - mean}

	comp, err := component.New(c.cat, p.transition.Wrest, zcomp, vlim)
	if err != nil {
		return err
	}
	if c.reg.Has(comp.Name) {
		return fmt.Errorf("%w: %s", component.ErrDuplicateName, comp.Name)
	}
	res, err := c.engine.Fit(comp, c.spec)
	if err != nil {
		return err
	}
	if err := c.reg.Add(comp); err != nil {
		return err
	}
	c.selected = comp.Name
	out.Warnings = append(out.Warnings, res.Warnings...)
	c.emit(telemetry.KindComponentAdded, comp.Name, map[string]any{
		"anchor": comp.Anchor.Name,
		"zcomp":  comp.Zcomp,
		"vlim":   comp.VLim,
	})
	c.emitFit(comp, res)
	out.say("Added %s: %s", comp.Name, describe(comp))
	c.recompute(out)
	return nil
}

func (c *Controller) emitFit(comp *component.Component, res fit.Result) {
	c.emit(telemetry.KindComponentFit, comp.Name, map[string]any{
		"logN":      res.Params.LogN,
		"b":         res.Params.B,
		"z":         res.Params.Z,
		"cost":      res.Cost,
		"converged": res.Converged,
	})
}

func describe(comp *component.Component) string {
	return fmt.Sprintf("logN=%.2f b=%.1f z=%.5f", comp.Attrib.LogN, comp.Attrib.B, comp.Attrib.Z)
}

// nearest finds the component anchored on the cursor's panel closest to the
// cursor velocity.
func (c *Controller) nearest(cur Cursor) (*component.Component, error) {
	s, err := c.slot(cur)
	if err != nil {
		return nil, err
	}
	comp, ok := c.reg.Nearest(s.Transition.Wrest, c.z, cur.Velocity)
	if !ok {
		return nil, fmt.Errorf("%w: none anchored on %s", component.ErrNotFound, s.Transition.Name)
	}
	return comp, nil
}

func selectNearest(c *Controller, cmd Command, out *Outcome) error {
	comp, err := c.nearest(cmd.Cursor)
	if err != nil {
		return err
	}
	c.selected = comp.Name
	out.Redraw = true
	out.say("Selected %s: %s", comp.Name, describe(comp))
	return nil
}

// selectNext cycles the selection through the registry.
func selectNext(c *Controller, _ Command, out *Outcome) error {
	names := c.reg.Names()
	if len(names) == 0 {
		return ErrNoComponent
	}
	i := slices.Index(names, c.selected)
	c.selected = names[(i+1)%len(names)]
	out.Redraw = true
	out.say("Selected %s", c.selected)
	return nil
}

func deleteNearest(c *Controller, cmd Command, out *Outcome) error {
	comp, err := c.nearest(cmd.Cursor)
	if err != nil {
		return err
	}
	return c.remove(comp.Name, out)
}

func deleteSelected(c *Controller, _ Command, out *Outcome) error {
	if _, ok := c.reg.Get(c.selected); !ok {
		return ErrNoComponent
	}
	return c.remove(c.selected, out)
}

func (c *Controller) remove(name string, out *Outcome) error {
	if _, err := c.reg.Remove(name); err != nil {
		return err
	}
	if c.selected == name {
		c.selected = ""
	}
	c.emit(telemetry.KindComponentRemoved, name, nil)
	out.say("Deleted %s", name)
	c.recompute(out)
	return nil
}

// current returns the selected component.
func (c *Controller) current() (*component.Component, error) {
	comp, ok := c.reg.Get(c.selected)
	if !ok {
		return nil, ErrNoComponent
	}
	return comp, nil
}

// nudge adjusts one attribute of the selected component, then syncs and
// re-masks it without refitting.
func nudge(apply func(a *component.Attrib)) handler {
	return func(c *Controller, cmd Command, out *Outcome) error {
		comp, err := c.current()
		if err != nil {
			return err
		}
		apply(&comp.Attrib)
		if comp.Attrib.B < 0 {
			comp.Attrib.B = 0
		}
		c.settle(comp, cmd.Key, out)
		return nil
	}
}

// settle propagates edited attributes to the lines and the model.
func (c *Controller) settle(comp *component.Component, how string, out *Outcome) {
	comp.Sync()
	out.Warnings = append(out.Warnings, comp.Remask(c.cfg.MinEW)...)
	c.emit(telemetry.KindComponentNudged, comp.Name, map[string]any{
		"how":  how,
		"logN": comp.Attrib.LogN,
		"b":    comp.Attrib.B,
		"z":    comp.Attrib.Z,
	})
	out.say("%s: %s", comp.Name, describe(comp))
	c.recompute(out)
}

func refit(c *Controller, _ Command, out *Outcome) error {
	comp, err := c.current()
	if err != nil {
		return err
	}
	res, err := c.engine.Fit(comp, c.spec)
	if err != nil {
		return err
	}
	out.Warnings = append(out.Warnings, res.Warnings...)
	c.emitFit(comp, res)
	out.ClearFigure = true
	out.say("Refit %s: %s", comp.Name, describe(comp))
	c.recompute(out)
	return nil
}

func promptField(c *Controller, cmd Command, out *Outcome) error {
	if _, err := c.current(); err != nil {
		return err
	}
	c.beginEntry(entryField, "Set field (logN|b|z|comment|reliability)=value:", cmd.Cursor)
	return nil
}

// applyField sets one attribute of the selected component from "field=value".
func (c *Controller) applyField(text string, out *Outcome) error {
	comp, err := c.current()
	if err != nil {
		return err
	}
	key, val, ok := strings.Cut(text, "=")
	if !ok {
		return fmt.Errorf("%w: expected field=value, got %q", ErrBadEntry, text)
	}
	key, val = strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(val)

	a := comp.Attrib
	switch key {
	case "comment":
		a.Comment = val
	case "reliability", "quality":
		if !slices.Contains(component.Reliabilities, val) {
			return fmt.Errorf("%w: reliability must be one of %v", ErrBadEntry, component.Reliabilities)
		}
		a.Reliability = val
	case "logn", "b", "z":
		f, perr := strconv.ParseFloat(val, 64)
		if perr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s=%q", ErrBadEntry, key, val)
		}
		switch key {
		case "logn":
			a.LogN = f
		case "b":
			if f < 0 {
				return fmt.Errorf("%w: b must not be negative", ErrBadEntry)
			}
			a.B = f
		case "z":
			if f <= -1 {
				return fmt.Errorf("%w: z must exceed -1", ErrBadEntry)
			}
			a.Z = f
		}
	default:
		return fmt.Errorf("%w: unknown field %q", ErrBadEntry, key)
	}
	comp.Attrib = a
	c.settle(comp, "E "+key, out)
	return nil
}

// startBadPixels records the first wavelength of a bad-pixel range.
func startBadPixels(c *Controller, cmd Command, out *Outcome) error {
	s, w, err := c.cursorWave(cmd.Cursor)
	if err != nil {
		return err
	}
	c.state = AwaitingSecondBound
	c.pend = pending{kind: gestureBadPixels, transition: s.Transition, velocity: cmd.Cursor.Velocity, wave: w}
	out.Redraw = true
	out.say("Bad pixels from %.2f A; press X to add or x to remove at the other end", w)
	return nil
}

// finishBadPixels flags (X) or clears (x) the pixels strictly between the
// two clicked wavelengths.
func (c *Controller) finishBadPixels(cmd Command, out *Outcome) error {
	_, w, err := c.cursorWave(cmd.Cursor)
	if err != nil {
		return err
	}
	lo, hi := math.Min(c.pend.wave, w), math.Max(c.pend.wave, w)
	bad := cmd.Key == "X"
	n := c.spec.SetBad(lo, hi, bad)
	c.resetGesture()
	verb := "Cleared"
	if bad {
		verb = "Flagged"
	}
	c.emit(telemetry.KindBadPixels, "", map[string]any{"from": lo, "to": hi, "bad": bad, "pixels": n})
	out.say("%s %d pixels between %.2f and %.2f A", verb, n, lo, hi)
	out.Redraw = true
	return nil
}

func write(c *Controller, _ Command, out *Outcome) error {
	if err := c.save(c.cfg.OutFile); err != nil {
		return err
	}
	out.Write = true
	out.say("Wrote %d components to %s", c.reg.Len(), c.cfg.OutFile)
	return nil
}

func quit(c *Controller, _ Command, out *Outcome) error {
	out.Quit = true
	return nil
}

func writeQuit(c *Controller, cmd Command, out *Outcome) error {
	if err := write(c, cmd, out); err != nil {
		return err
	}
	out.Quit = true
	return nil
}

func help(_ *Controller, _ Command, out *Outcome) error {
	out.Messages = append(out.Messages, strings.Split(strings.TrimSpace(HelpText), "\n")...)
	return nil
}

package guesses

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/papapumpkin/igmguesses/internal/component"
	"github.com/papapumpkin/igmguesses/internal/linelist"
	"github.com/papapumpkin/igmguesses/internal/spectrum"
)

// wrestTolerance matches stored rest wavelengths to catalog lines, Angstrom.
const wrestTolerance = 1e-3

// Encode captures the registry, the spectrum's bad pixels and the session
// FWHM. Lines masked as unused are left out of each record, with the mask
// of the remaining lines kept aligned.
func Encode(reg *component.Registry, spec *spectrum.Spectrum, fwhm float64) File {
	f := File{
		BadPixels: spec.BadIndices(),
		Cmps:      make(map[string]Record, reg.Len()),
		FWHM:      fwhm,
		SpecFile:  spec.Filename,
	}
	if f.BadPixels == nil {
		f.BadPixels = []int{}
	}
	for _, c := range reg.All() {
		f.Cmps[c.Name] = encodeComponent(c)
	}
	return f
}

func encodeComponent(c *component.Component) Record {
	rel, comment, vlim := c.Attrib.Reliability, c.Attrib.Comment, c.VLim
	rec := Record{
		Comment:      &comment,
		Ej:           c.Anchor.Ej,
		Nfit:         c.Attrib.LogN,
		Reliability:  &rel,
		Bfit:         c.Attrib.B,
		Lines:        map[string]LineRecord{},
		MaskAbslines: []int{},
		VLim:         &vlim,
		Wrest:        c.Anchor.Wrest,
		Zcomp:        c.Zcomp,
		Zfit:         c.Attrib.Z,
	}
	for i, l := range c.Lines {
		if c.Mask[i] == component.MaskUnused {
			continue
		}
		rec.Lines[strconv.Itoa(len(rec.MaskAbslines))] = LineRecord{
			B:     l.B,
			LogN:  l.LogN,
			Name:  l.Name,
			VLim:  l.VLim,
			Wrest: l.Wrest,
			Z:     l.Z,
		}
		rec.MaskAbslines = append(rec.MaskAbslines, c.Mask[i])
	}
	return rec
}

// Options configure Decode.
type Options struct {
	Catalog  *linelist.Catalog
	Spectrum *spectrum.Spectrum // receives the bad pixels
	FWHM     float64            // session FWHM; must equal the file's
	MinEW    float64            // masking threshold, Angstrom

	// VelocityWindow stands in for a record without vlim. An unset or
	// inverted window falls back to DefaultVelocityWindow.
	VelocityWindow [2]float64
}

// DefaultVelocityWindow is the component velocity window, km/s, used when
// neither the record nor Options supply one.
var DefaultVelocityWindow = [2]float64{-500, 500}

// Decode rebuilds a registry from f. A FWHM mismatch fails before any
// component is built. Compatibility gaps (missing masks, the old Quality
// key, a different spectrum file name) produce warnings. Components are
// registered in key order.
func Decode(f File, opts Options) (*component.Registry, []component.Warning, error) {
	if f.FWHM != opts.FWHM {
		return nil, nil, fmt.Errorf("%w: file has %g, session uses %g", ErrFWHMMismatch, f.FWHM, opts.FWHM)
	}
	var warns []component.Warning
	if f.SpecFile != opts.Spectrum.Filename {
		warns = append(warns, component.Warning{
			Msg: fmt.Sprintf("spectrum file names do not match (%q vs %q); could just be the path", f.SpecFile, opts.Spectrum.Filename),
		})
	}

	keys := make([]string, 0, len(f.Cmps))
	for k := range f.Cmps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	reg := component.NewRegistry()
	for _, key := range keys {
		c, w, err := decodeComponent(key, f.Cmps[key], opts)
		if err != nil {
			return nil, nil, &DecodeError{Key: key, Err: err}
		}
		warns = append(warns, w...)
		if err := reg.Add(c); err != nil {
			return nil, nil, &DecodeError{Key: key, Err: err}
		}
	}
	if err := opts.Spectrum.ApplyBadIndices(f.BadPixels); err != nil {
		return nil, nil, fmt.Errorf("bad pixels: %w", err)
	}
	return reg, warns, nil
}

func decodeComponent(key string, rec Record, opts Options) (*component.Component, []component.Warning, error) {
	var (
		c     *component.Component
		warns []component.Warning
		err   error
	)
	vlim := opts.VelocityWindow
	if !(vlim[0] < vlim[1]) {
		vlim = DefaultVelocityWindow
	}
	var defaults []component.Warning
	if rec.VLim != nil {
		vlim = *rec.VLim
	} else {
		defaults = append(defaults, component.Warning{
			Component: key,
			Msg:       fmt.Sprintf("no vlim; setting [%g, %g] km/s", vlim[0], vlim[1]),
		})
	}
	if len(rec.Lines) > 0 {
		c, warns, err = fromLines(key, rec, vlim, opts.Catalog)
	} else {
		c, err = component.New(opts.Catalog, rec.Wrest, rec.Zcomp, vlim)
	}
	if err != nil {
		return nil, nil, err
	}
	warns = append(defaults, warns...)

	c.Name = key
	c.Attrib.Z = rec.Zfit
	c.Attrib.B = rec.Bfit
	c.Attrib.LogN = rec.Nfit
	switch {
	case rec.Reliability != nil:
		c.Attrib.Reliability = *rec.Reliability
	case rec.Quality != nil:
		c.Attrib.Reliability = *rec.Quality
	default:
		c.Attrib.Reliability = "None"
		warns = append(warns, component.Warning{Component: key, Msg: "no Reliability or Quality; setting None"})
	}
	if rec.Comment != nil {
		c.Attrib.Comment = *rec.Comment
	} else {
		c.Attrib.Comment = "None"
		warns = append(warns, component.Warning{Component: key, Msg: "no Comment; setting None"})
	}
	c.Sync()
	warns = append(warns, c.Remask(opts.MinEW)...)
	return c, warns, nil
}

// fromLines rebuilds a component from stored lines. The component gets every
// transition of the anchor species, as when it was first created; lines the
// file left out were masked when written and come back masked.
func fromLines(key string, rec Record, vlim [2]float64, cat *linelist.Catalog) (*component.Component, []component.Warning, error) {
	c, err := component.New(cat, rec.Wrest, rec.Zcomp, vlim)
	if err != nil {
		return nil, nil, err
	}
	idx := make([]int, 0, len(rec.Lines))
	byIdx := make(map[int]LineRecord, len(rec.Lines))
	for k, lr := range rec.Lines {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrBadLineIndex, k)
		}
		idx = append(idx, i)
		byIdx[i] = lr
	}
	sort.Ints(idx)

	var warns []component.Warning
	mask := rec.MaskAbslines
	switch {
	case mask == nil:
		warns = append(warns, component.Warning{Component: key, Msg: "no mask_abslines; setting all lines to 2"})
	case len(mask) != len(idx):
		warns = append(warns, component.Warning{
			Component: key,
			Msg:       fmt.Sprintf("mask_abslines has %d entries for %d lines; missing entries set to 2", len(mask), len(idx)),
		})
	}

	for i := range c.Mask {
		c.Mask[i] = component.MaskUnused
	}
	for pos, i := range idx {
		lr := byIdx[i]
		j := lineIndex(c, lr.Wrest)
		if j < 0 {
			return nil, nil, fmt.Errorf("%w: %s (%g A)", ErrUnknownLine, lr.Name, lr.Wrest)
		}
		c.Lines[j].Z, c.Lines[j].LogN, c.Lines[j].B, c.Lines[j].VLim = lr.Z, lr.LogN, lr.B, lr.VLim

		m := component.MaskFit
		if pos < len(mask) {
			m = mask[pos]
		}
		if m < component.MaskUnused || m > component.MaskFit {
			warns = append(warns, component.Warning{Component: key, Msg: fmt.Sprintf("mask value %d out of range; setting 2", m)})
			m = component.MaskFit
		}
		c.Mask[j] = m
	}
	return c, warns, nil
}

func lineIndex(c *component.Component, wrest float64) int {
	for j, l := range c.Lines {
		if math.Abs(l.Wrest-wrest) < wrestTolerance {
			return j
		}
	}
	return -1
}

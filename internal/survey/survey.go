// Package survey collects absorption components from many guesses files into
// one ordered, maskable set and extracts per-component columns from it.
package survey

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/papapumpkin/igmguesses/internal/guesses"
)

// ErrMaskLength indicates a mask whose length differs from the survey size.
var ErrMaskLength = errors.New("mask length does not match survey size")

// System is one component as recorded in a guesses file.
type System struct {
	Source      string // guesses file it came from
	Name        string
	Wrest       float64 // anchor rest wavelength, Angstrom
	Zcomp       float64
	Z           float64
	LogN        float64
	B           float64
	Reliability string
	Comment     string
	Lines       int // lines stored with a non-zero mask
}

// Survey is an ordered collection of systems with a boolean mask. Masked-out
// systems are kept but skipped by Systems and Field.
type Survey struct {
	Kind    string
	systems []System
	mask    []bool
}

// New returns a survey holding systems, all unmasked.
func New(kind string, systems ...System) *Survey {
	s := &Survey{Kind: kind}
	s.Add(systems...)
	return s
}

// Add appends systems with their mask entries set.
func (s *Survey) Add(systems ...System) {
	for _, sys := range systems {
		s.systems = append(s.systems, sys)
		s.mask = append(s.mask, true)
	}
}

// Len returns the number of systems, masked or not.
func (s *Survey) Len() int {
	return len(s.systems)
}

// Mask returns a copy of the mask.
func (s *Survey) Mask() []bool {
	return append([]bool(nil), s.mask...)
}

// UpdateMask replaces the mask, or with increment intersects it with the
// current one so systems already masked out stay out.
func (s *Survey) UpdateMask(msk []bool, increment bool) error {
	if len(msk) != len(s.systems) {
		return fmt.Errorf("%w: got %d, want %d", ErrMaskLength, len(msk), len(s.systems))
	}
	for i, m := range msk {
		if increment {
			s.mask[i] = s.mask[i] && m
		} else {
			s.mask[i] = m
		}
	}
	return nil
}

// Systems returns the unmasked systems in order.
func (s *Survey) Systems() []System {
	return Field(s, func(sys System) System { return sys })
}

// Field maps fn over the unmasked systems in order.
func Field[T any](s *Survey, fn func(System) T) []T {
	out := make([]T, 0, len(s.systems))
	for i, sys := range s.systems {
		if s.mask[i] {
			out = append(out, fn(sys))
		}
	}
	return out
}

// Where returns a mask selecting the systems for which keep is true, for use
// with UpdateMask.
func (s *Survey) Where(keep func(System) bool) []bool {
	out := make([]bool, len(s.systems))
	for i, sys := range s.systems {
		out[i] = keep(sys)
	}
	return out
}

// Columns are the named fields the command line can print.
var Columns = map[string]func(System) string{
	"source":      func(s System) string { return s.Source },
	"name":        func(s System) string { return s.Name },
	"wrest":       func(s System) string { return strconv.FormatFloat(s.Wrest, 'f', 4, 64) },
	"zcomp":       func(s System) string { return strconv.FormatFloat(s.Zcomp, 'f', 6, 64) },
	"z":           func(s System) string { return strconv.FormatFloat(s.Z, 'f', 6, 64) },
	"logN":        func(s System) string { return strconv.FormatFloat(s.LogN, 'f', 2, 64) },
	"b":           func(s System) string { return strconv.FormatFloat(s.B, 'f', 1, 64) },
	"reliability": func(s System) string { return s.Reliability },
	"comment":     func(s System) string { return s.Comment },
	"lines":       func(s System) string { return strconv.Itoa(s.Lines) },
}

// FromFile turns the records of a guesses file into systems, ordered by
// component name.
func FromFile(f guesses.File, source string) []System {
	names := make([]string, 0, len(f.Cmps))
	for name := range f.Cmps {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]System, 0, len(names))
	for _, name := range names {
		rec := f.Cmps[name]
		sys := System{
			Source:      source,
			Name:        name,
			Wrest:       rec.Wrest,
			Zcomp:       rec.Zcomp,
			Z:           rec.Zfit,
			LogN:        rec.Nfit,
			B:           rec.Bfit,
			Comment:     "None",
			Reliability: "None",
		}
		if rec.Comment != nil {
			sys.Comment = *rec.Comment
		}
		switch {
		case rec.Reliability != nil:
			sys.Reliability = *rec.Reliability
		case rec.Quality != nil:
			sys.Reliability = *rec.Quality
		}
		if len(rec.Lines) > 0 {
			sys.Lines = len(rec.Lines)
		} else {
			for _, m := range rec.MaskAbslines {
				if m != 0 {
					sys.Lines++
				}
			}
		}
		out = append(out, sys)
	}
	return out
}

// Load reads guesses files in order into one survey.
func Load(kind string, paths ...string) (*Survey, error) {
	s := New(kind)
	for _, p := range paths {
		f, err := guesses.Load(p)
		if err != nil {
			return nil, err
		}
		s.Add(FromFile(f, p)...)
	}
	return s, nil
}

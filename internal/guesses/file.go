// Package guesses reads and writes the JSON guesses file holding a session's
// components, bad pixels and the FWHM they were fitted with.
package guesses

import (
	"encoding/json"
	"fmt"
	"os"
)

// File is the top-level guesses document. Field order matches sorted JSON
// keys.
type File struct {
	BadPixels []int             `json:"bad_pixels"`
	Cmps      map[string]Record `json:"cmps"`
	FWHM      float64           `json:"fwhm"`
	SpecFile  string            `json:"spec_file"`
}

// Record is one component. Files written before lines were stored carry only
// wrest, zcomp and vlim plus the fitted values; files older still use
// Quality in place of Reliability. Comment and VLim are pointers so a key
// absent from the file can be told apart from an empty value.
type Record struct {
	Comment      *string               `json:"Comment,omitempty"`
	Ej           float64               `json:"Ej"`
	Nfit         float64               `json:"Nfit"`
	Quality      *string               `json:"Quality,omitempty"`
	Reliability  *string               `json:"Reliability,omitempty"`
	Bfit         float64               `json:"bfit"`
	Lines        map[string]LineRecord `json:"lines,omitempty"`
	MaskAbslines []int                 `json:"mask_abslines"`
	VLim         *[2]float64           `json:"vlim,omitempty"`
	Wrest        float64               `json:"wrest"`
	Zcomp        float64               `json:"zcomp"`
	Zfit         float64               `json:"zfit"`
}

// LineRecord is one stored line, keyed in Record.Lines by its position.
type LineRecord struct {
	B     float64    `json:"b"`
	LogN  float64    `json:"logN"`
	Name  string     `json:"name"`
	VLim  [2]float64 `json:"vlim"`
	Wrest float64    `json:"wrest"`
	Z     float64    `json:"z"`
}

// Marshal renders f as 4-space indented JSON with a trailing newline.
func Marshal(f File) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Unmarshal parses a guesses document.
func Unmarshal(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Save writes f to path.
func Save(path string, f File) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding guesses: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a guesses file from path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Unmarshal(data)
	if err != nil {
		return File{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

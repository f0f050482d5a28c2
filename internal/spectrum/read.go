package spectrum

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Read loads a spectrum, choosing the reader from the file extension.
func Read(path string) (*Spectrum, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit", ".fts":
		return ReadFITS(path)
	case ".csv", ".txt", ".dat", ".ascii":
		return ReadCSV(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ReadCSV reads a spectrum from comma-separated columns wave,flux,sig[,co].
// A header row is skipped when its first field is not a number. Without a
// continuum column the flux is assumed normalized.
func ReadCSV(path string) (*Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	s, err := DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s.Filename = path
	return s, nil
}

// DecodeCSV parses CSV spectrum columns from r.
func DecodeCSV(r io.Reader) (*Spectrum, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var wave, flux, sig, co []float64
	hasCont := false
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: need at least wave,flux columns", row)
		}
		vals := make([]float64, len(rec))
		bad := false
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		if bad {
			if row == 1 {
				continue
			}
			return nil, fmt.Errorf("row %d: non-numeric field", row)
		}
		wave = append(wave, vals[0])
		flux = append(flux, vals[1])
		s := 0.0
		if len(vals) > 2 {
			s = vals[2]
		}
		sig = append(sig, s)
		if len(vals) > 3 {
			hasCont = true
			co = append(co, vals[3])
		} else {
			co = append(co, 0)
		}
	}
	if hasCont {
		if err := normalize(flux, sig, co); err != nil {
			return nil, err
		}
	}
	return New("", wave, flux, sig)
}

package spectrum

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
)

// FITS layout used by normalized 1-D spectra: flux in the primary HDU, then
// uncertainty, wavelength and continuum as further image HDUs. Files without
// a wavelength HDU describe the grid with a linear or log-linear WCS.
const (
	hduFlux = iota
	hduSig
	hduWave
	hduCont
)

// ReadFITS reads a spectrum from a FITS file. The flux is divided by the
// continuum HDU when present; otherwise the header must declare the flux
// normalized with NORMED = T, or ErrNoContinuum is returned.
func ReadFITS(path string) (*Spectrum, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	s, err := decodeFITS(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s.Filename = path
	return s, nil
}

func decodeFITS(r io.Reader) (*Spectrum, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdus := f.HDUs()
	if len(hdus) == 0 {
		return nil, ErrEmpty
	}
	primary, ok := hdus[hduFlux].(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("primary HDU is not an image")
	}
	flux, err := readImage(primary)
	if err != nil {
		return nil, fmt.Errorf("flux: %w", err)
	}

	sig := make([]float64, len(flux))
	if img, ok := imageAt(hdus, hduSig); ok {
		if sig, err = readImage(img); err != nil {
			return nil, fmt.Errorf("uncertainty: %w", err)
		}
	}

	var wave []float64
	if img, ok := imageAt(hdus, hduWave); ok {
		if wave, err = readImage(img); err != nil {
			return nil, fmt.Errorf("wavelength: %w", err)
		}
	} else if wave, err = wcsWave(primary.Header(), len(flux)); err != nil {
		return nil, err
	}

	if img, ok := imageAt(hdus, hduCont); ok {
		co, err := readImage(img)
		if err != nil {
			return nil, fmt.Errorf("continuum: %w", err)
		}
		if err := normalize(flux, sig, co); err != nil {
			return nil, err
		}
	} else if !headerBool(primary.Header(), "NORMED") {
		return nil, ErrNoContinuum
	}

	return New("", wave, flux, sig)
}

func imageAt(hdus []fitsio.HDU, i int) (fitsio.Image, bool) {
	if i >= len(hdus) {
		return nil, false
	}
	img, ok := hdus[i].(fitsio.Image)
	if !ok || len(img.Header().Axes()) == 0 {
		return nil, false
	}
	return img, true
}

// readImage reads an image HDU into float64 regardless of its BITPIX.
func readImage(img fitsio.Image) ([]float64, error) {
	hdr := img.Header()
	n := 1
	for _, ax := range hdr.Axes() {
		n *= ax
	}
	out := make([]float64, n)
	switch hdr.Bitpix() {
	case 8:
		raw := make([]byte, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case -64:
		if err := img.Read(&out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", hdr.Bitpix())
	}
	return out, nil
}

// wcsWave builds the wavelength grid from CRVAL1/CDELT1 (or CD1_1) and
// CRPIX1. DC-FLAG = 1 or a CTYPE1 mentioning LOG marks a log10 grid.
func wcsWave(hdr *fitsio.Header, n int) ([]float64, error) {
	crval, ok := headerFloat(hdr, "CRVAL1")
	if !ok {
		return nil, fmt.Errorf("no wavelength HDU and no CRVAL1 keyword")
	}
	cdelt, ok := headerFloat(hdr, "CDELT1")
	if !ok {
		if cdelt, ok = headerFloat(hdr, "CD1_1"); !ok {
			return nil, fmt.Errorf("no CDELT1 or CD1_1 keyword")
		}
	}
	crpix, ok := headerFloat(hdr, "CRPIX1")
	if !ok {
		crpix = 1
	}
	logGrid := false
	if dc, ok := headerFloat(hdr, "DC-FLAG"); ok && dc == 1 {
		logGrid = true
	}
	if card := hdr.Get("CTYPE1"); card != nil {
		if s, ok := card.Value.(string); ok && strings.Contains(strings.ToUpper(s), "LOG") {
			logGrid = true
		}
	}

	wave := make([]float64, n)
	for i := range wave {
		w := crval + (float64(i+1)-crpix)*cdelt
		if logGrid {
			w = math.Pow(10, w)
		}
		wave[i] = w
	}
	return wave, nil
}

func headerFloat(hdr *fitsio.Header, key string) (float64, bool) {
	card := hdr.Get(key)
	if card == nil {
		return 0, false
	}
	switch v := card.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}

func headerBool(hdr *fitsio.Header, key string) bool {
	card := hdr.Get(key)
	if card == nil {
		return false
	}
	b, ok := card.Value.(bool)
	return ok && b
}

// normalize divides flux and sig by the continuum in place. Pixels with a
// non-positive continuum get flux 1 and sig 0.
func normalize(flux, sig, co []float64) error {
	if len(co) != len(flux) || len(sig) != len(flux) {
		return fmt.Errorf("%w: continuum=%d flux=%d sig=%d", ErrLengthMismatch, len(co), len(flux), len(sig))
	}
	for i, c := range co {
		if c <= 0 || math.IsNaN(c) {
			flux[i], sig[i] = 1, 0
			continue
		}
		flux[i] /= c
		sig[i] /= c
	}
	return nil
}

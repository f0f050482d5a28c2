package spectrum

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantFlux []float64
		wantSig  []float64
		wantErr  bool
	}{
		{
			name:     "header and three columns",
			input:    "wave,flux,sig\n4000,0.5,0.1\n4001,1.0,0.1\n",
			wantFlux: []float64{0.5, 1.0},
			wantSig:  []float64{0.1, 0.1},
		},
		{
			name:     "continuum column normalizes",
			input:    "# comment\n4000,5,1,10\n4001,10,2,10\n4002,3,1,0\n",
			wantFlux: []float64{0.5, 1.0, 1.0},
			wantSig:  []float64{0.1, 0.2, 0},
		},
		{
			name:     "two columns",
			input:    "4000, 0.9\n4001, 0.8\n",
			wantFlux: []float64{0.9, 0.8},
			wantSig:  []float64{0, 0},
		},
		{
			name:    "non-numeric data row",
			input:   "4000,1,0\nabc,1,0\n",
			wantErr: true,
		},
		{
			name:    "single column",
			input:   "4000\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := DecodeCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			for i := range tt.wantFlux {
				if math.Abs(s.Flux[i]-tt.wantFlux[i]) > 1e-12 || math.Abs(s.Sig[i]-tt.wantSig[i]) > 1e-12 {
					t.Errorf("pixel %d = (%v, %v), want (%v, %v)", i, s.Flux[i], s.Sig[i], tt.wantFlux[i], tt.wantSig[i])
				}
			}
		})
	}
}

func TestReadDispatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "spec.csv")
	if err := os.WriteFile(path, []byte("4000,1,0.1\n4001,1,0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Filename != path || s.Len() != 2 {
		t.Errorf("Read = %q with %d pixels", s.Filename, s.Len())
	}

	if _, err := Read(filepath.Join(dir, "spec.hdf5")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Read(.hdf5) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := ReadFITS(filepath.Join(dir, "missing.fits")); err == nil {
		t.Error("ReadFITS on missing file succeeded")
	}
}

func TestNormalizeLengthMismatch(t *testing.T) {
	t.Parallel()
	err := normalize([]float64{1, 2}, []float64{0, 0}, []float64{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("normalize error = %v, want ErrLengthMismatch", err)
	}
}

package survey

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/igmguesses/internal/guesses"
)

func ptr(s string) *string { return &s }

func testSurvey() *Survey {
	return New("CIV",
		System{Name: "a", Z: 1.0, LogN: 13.1},
		System{Name: "b", Z: 1.5, LogN: 14.2},
		System{Name: "c", Z: 2.0, LogN: 12.7},
	)
}

func TestField(t *testing.T) {
	t.Parallel()
	s := testSurvey()

	got := Field(s, func(sys System) float64 { return sys.Z })
	if diff := cmp.Diff([]float64{1.0, 1.5, 2.0}, got); diff != "" {
		t.Errorf("Field mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestUpdateMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		first     []bool
		second    []bool
		increment bool
		want      []string
	}{
		{"replace", []bool{false, true, true}, []bool{true, false, true}, false, []string{"a", "c"}},
		{"increment keeps exclusions", []bool{false, true, true}, []bool{true, false, true}, true, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testSurvey()
			if err := s.UpdateMask(tt.first, false); err != nil {
				t.Fatal(err)
			}
			if err := s.UpdateMask(tt.second, tt.increment); err != nil {
				t.Fatal(err)
			}
			got := Field(s, func(sys System) string { return sys.Name })
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()
		s := testSurvey()
		if err := s.UpdateMask([]bool{true}, false); !errors.Is(err, ErrMaskLength) {
			t.Errorf("err = %v, want ErrMaskLength", err)
		}
		if len(s.Systems()) != 3 {
			t.Error("failed update changed the mask")
		}
	})
}

func TestWhere(t *testing.T) {
	t.Parallel()
	s := testSurvey()
	if err := s.UpdateMask(s.Where(func(sys System) bool { return sys.LogN > 13 }), true); err != nil {
		t.Fatal(err)
	}
	got := Field(s, func(sys System) string { return sys.Name })
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	modern := guesses.File{
		FWHM: 3,
		Cmps: map[string]guesses.Record{
			"z2.30000_HI": {
				Wrest: 1215.6701, Zcomp: 2.3, Zfit: 2.3001, Nfit: 13.5, Bfit: 25,
				Reliability:  ptr("a"),
				Comment:      ptr("None"),
				MaskAbslines: []int{2},
				Lines:        map[string]guesses.LineRecord{"0": {Name: "HI 1215", Wrest: 1215.6701}},
			},
			"z1.59100_CIV": {
				Wrest: 1548.204, Zcomp: 1.591, Zfit: 1.591, Nfit: 13, Bfit: 10,
				Comment:      ptr("None"),
				MaskAbslines: []int{2, 1},
			},
		},
	}
	legacy := guesses.File{
		FWHM: 3,
		Cmps: map[string]guesses.Record{
			"z0.50000_MgII": {Wrest: 2796.3543, Zcomp: 0.5, Zfit: 0.5, Quality: ptr("b"), MaskAbslines: []int{0, 2}},
		},
	}
	p1, p2 := filepath.Join(dir, "one.json"), filepath.Join(dir, "two.json")
	if err := guesses.Save(p1, modern); err != nil {
		t.Fatal(err)
	}
	if err := guesses.Save(p2, legacy); err != nil {
		t.Fatal(err)
	}

	s, err := Load("mixed", p1, p2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []System{
		{Source: p1, Name: "z1.59100_CIV", Wrest: 1548.204, Zcomp: 1.591, Z: 1.591, LogN: 13, B: 10, Reliability: "None", Comment: "None", Lines: 2},
		{Source: p1, Name: "z2.30000_HI", Wrest: 1215.6701, Zcomp: 2.3, Z: 2.3001, LogN: 13.5, B: 25, Reliability: "a", Comment: "None", Lines: 1},
		{Source: p2, Name: "z0.50000_MgII", Wrest: 2796.3543, Zcomp: 0.5, Z: 0.5, Reliability: "b", Comment: "None", Lines: 1},
	}
	if diff := cmp.Diff(want, s.Systems()); diff != "" {
		t.Errorf("systems mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load("missing", filepath.Join(dir, "nope.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestColumns(t *testing.T) {
	t.Parallel()
	sys := System{Name: "z1.00000_CIV", Z: 1, LogN: 13.14159, B: 12.34, Lines: 2}
	tests := map[string]string{
		"name":  "z1.00000_CIV",
		"z":     "1.000000",
		"logN":  "13.14",
		"b":     "12.3",
		"lines": "2",
	}
	for col, want := range tests {
		if got := Columns[col](sys); got != want {
			t.Errorf("column %s = %q, want %q", col, got, want)
		}
	}
}

package voigt

import (
	"math"
	"testing"
)

func TestHGaussianLimit(t *testing.T) {
	t.Parallel()
	for _, u := range []float64{0, 0.5, 1, 2, 3} {
		got := H(0, u)
		want := math.Exp(-u * u)
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("H(0, %v) = %v, want %v", u, got, want)
		}
	}
}

func TestHLorentzWings(t *testing.T) {
	t.Parallel()
	a, u := 0.01, 20.0
	got := H(a, u)
	want := a / (math.SqrtPi * u * u)
	if math.Abs(got-want)/want > 0.02 {
		t.Errorf("H(%v, %v) = %v, want ~%v", a, u, got, want)
	}
}

func TestHSymmetric(t *testing.T) {
	t.Parallel()
	for _, u := range []float64{0.3, 2.5, 7, 30} {
		if l, r := H(0.05, -u), H(0.05, u); math.Abs(l-r) > 1e-9 {
			t.Errorf("H(0.05, ±%v) = %v, %v", u, l, r)
		}
	}
}

func TestProfileOpticallyThinEW(t *testing.T) {
	t.Parallel()
	wave := make([]float64, 2001)
	for i := range wave {
		wave[i] = 1214.67 + float64(i)*0.001
	}
	l := Line{Wrest: 1215.67, F: 0.4164, Gamma: 6.265e8, LogN: 12, B: 20}
	prof := Profile(wave, l, 0)

	var ew float64
	for i := 1; i < len(wave); i++ {
		ew += 0.5 * ((1 - prof[i]) + (1 - prof[i-1])) * (wave[i] - wave[i-1])
	}
	want := l.F * l.Wrest * l.Wrest * 1e12 / 1.13e12 * 1e-8
	if math.Abs(ew-want)/want > 0.02 {
		t.Errorf("EW = %v A, want ~%v A", ew, want)
	}
	if minFlux := prof[1000]; minFlux > 0.99 || minFlux < 0.9 {
		t.Errorf("line centre flux = %v", minFlux)
	}
}

func TestProfileRedshift(t *testing.T) {
	t.Parallel()
	z := 2.3
	centre := 1215.67 * (1 + z)
	wave := []float64{centre - 5, centre, centre + 5}
	prof := Profile(wave, Line{Wrest: 1215.67, F: 0.4164, Gamma: 6.265e8, LogN: 14, B: 30, Z: z}, 0)
	if !(prof[1] < prof[0] && prof[1] < prof[2]) {
		t.Errorf("absorption not centred on observed wavelength: %v", prof)
	}
}

func TestModelNoLines(t *testing.T) {
	t.Parallel()
	got := Model([]float64{1, 2, 3}, nil, 3)
	for i, v := range got {
		if v != 1 {
			t.Errorf("Model[%d] = %v, want 1", i, v)
		}
	}
}

func TestModelZeroB(t *testing.T) {
	t.Parallel()
	got := Model([]float64{1215, 1215.67, 1216}, []Line{{Wrest: 1215.67, F: 0.4164, LogN: 14}}, 0)
	for i, v := range got {
		if v != 1 {
			t.Errorf("Model[%d] = %v, want 1 for b = 0", i, v)
		}
	}
}

func TestConvolve(t *testing.T) {
	t.Parallel()

	t.Run("constant preserved", func(t *testing.T) {
		t.Parallel()
		flat := []float64{0.7, 0.7, 0.7, 0.7, 0.7}
		for i, v := range Convolve(flat, 3) {
			if math.Abs(v-0.7) > 1e-12 {
				t.Errorf("Convolve[%d] = %v, want 0.7", i, v)
			}
		}
	})

	t.Run("delta spreads symmetrically", func(t *testing.T) {
		t.Parallel()
		delta := make([]float64, 41)
		delta[20] = 1
		got := Convolve(delta, 4)
		var sum float64
		for _, v := range got {
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("sum = %v, want 1", sum)
		}
		if math.Abs(got[18]-got[22]) > 1e-12 || got[20] <= got[19] {
			t.Errorf("kernel not symmetric or peaked: %v", got[16:25])
		}
	})

	t.Run("zero fwhm copies", func(t *testing.T) {
		t.Parallel()
		in := []float64{1, 0, 1}
		got := Convolve(in, 0)
		got[0] = 5
		if in[0] != 1 {
			t.Error("Convolve aliased its input")
		}
	})
}

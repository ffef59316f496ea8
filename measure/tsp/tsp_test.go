package tsp

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/dsp/spectrum"
	"github.com/cwbudde/algo-tsp/internal/testutil"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		wantErr error
	}{
		{"defaults", DefaultParams(), nil},
		{"minimum", Params{Length: 8, SampleRate: 8000}, nil},
		{"too short", Params{Length: 4, SampleRate: 48000}, ErrInvalidLength},
		{"zero length", Params{Length: 0, SampleRate: 48000}, ErrInvalidLength},
		{"not power of two", Params{Length: 1000, SampleRate: 48000}, ErrInvalidLength},
		{"zero rate", Params{Length: 1024, SampleRate: 0}, ErrInvalidSampleRate},
		{"negative rate", Params{Length: 1024, SampleRate: -1}, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParamsDerived(t *testing.T) {
	p := DefaultParams()
	if p.Length != 262144 || p.SampleRate != 48000 {
		t.Fatalf("DefaultParams = %+v", p)
	}
	if p.Half() != 131072 {
		t.Errorf("Half = %d, want 131072", p.Half())
	}
	if p.Shift() != 65536 {
		t.Errorf("Shift = %d, want 65536", p.Shift())
	}
	if math.Abs(p.Duration()-262144.0/48000.0) > 1e-12 {
		t.Errorf("Duration = %v", p.Duration())
	}
}

func TestUpSpectrumHermitian(t *testing.T) {
	for _, n := range []int{8, 64, 1024} {
		h, err := UpSpectrum(n, n/2, n/4)
		if err != nil {
			t.Fatalf("N=%d: %v", n, err)
		}

		if !spectrum.IsHermitian(h, 1e-12) {
			t.Fatalf("N=%d: spectrum is not Hermitian", n)
		}

		for k := 0; k < n; k++ {
			if k == n/2 {
				continue
			}
			if math.Abs(cmplx.Abs(h[k])-1) > 1e-12 {
				t.Fatalf("N=%d: |H[%d]| = %v, want 1", n, k, cmplx.Abs(h[k]))
			}
		}

		if err := spectrum.IFFT(h); err != nil {
			t.Fatal(err)
		}
		for i, c := range h {
			if math.Abs(imag(c)) > 1e-12 {
				t.Fatalf("N=%d: imag(x[%d]) = %v, want 0", n, i, imag(c))
			}
		}
	}
}

func TestInverseSpectrumHermitian(t *testing.T) {
	g, err := InverseSpectrum(256, 128)
	if err != nil {
		t.Fatal(err)
	}
	if !spectrum.IsHermitian(g, 1e-12) {
		t.Fatal("inverse spectrum is not Hermitian")
	}
}

func TestUpTimesInverseIsPureDelay(t *testing.T) {
	const n = 512

	g, err := InverseSpectrum(n, n/2)
	if err != nil {
		t.Fatal(err)
	}

	for _, n0 := range []int{0, 17, n / 4} {
		h, err := UpSpectrum(n, n/2, n0)
		if err != nil {
			t.Fatal(err)
		}

		// The chirp term cancels for every n0; only the shift remains,
		// except at Nyquist where the forced-real bins do not cancel.
		for k := 0; k < n/2; k++ {
			want := cmplx.Exp(complex(0, -2*math.Pi*float64(k)*float64(n0)/n))
			if cmplx.Abs(h[k]*g[k]-want) > 1e-9 {
				t.Fatalf("n0=%d k=%d: H*G = %v, want %v", n0, k, h[k]*g[k], want)
			}
		}
	}
}

func TestUpSpectrumGroupDelay(t *testing.T) {
	const (
		n  = 1024
		n0 = n / 4
	)

	h, err := UpSpectrum(n, n/2, n0)
	if err != nil {
		t.Fatal(err)
	}

	// Bins up to N/4 advance by less than π per bin, so they unwrap cleanly.
	unwrapped := testutil.UnwrapPhase(spectrum.Phase(h[:n/4]))

	gd, err := testutil.GroupDelay(unwrapped, n)
	if err != nil {
		t.Fatal(err)
	}

	for k := 1; k < len(gd)-1; k++ {
		want := float64(k + n0)
		if math.Abs(gd[k]-want) > 1e-6 {
			t.Fatalf("group delay[%d] = %v, want %v", k, gd[k], want)
		}
	}
}

func TestSpectrumErrors(t *testing.T) {
	for _, n := range []int{0, -4, 3, 100} {
		if _, err := UpSpectrum(n, n/2, n/4); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("UpSpectrum(%d): err = %v, want ErrInvalidLength", n, err)
		}
		if _, err := InverseSpectrum(n, n/2); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("InverseSpectrum(%d): err = %v, want ErrInvalidLength", n, err)
		}
	}
}

func TestGenerate(t *testing.T) {
	p := Params{Length: 1024, SampleRate: 48000}

	x, err := p.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if len(x) != p.Length {
		t.Fatalf("len = %d, want %d", len(x), p.Length)
	}

	testutil.RequireFinite(t, x)

	if peak := core.MaxAbs(x); math.Abs(peak-0.9) > 1e-12 {
		t.Fatalf("peak = %v, want 0.9", peak)
	}
}

func TestGenerateWithPeak(t *testing.T) {
	p := Params{Length: 256, SampleRate: 48000}

	x, err := p.Generate(WithPeak(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if peak := core.MaxAbs(x); math.Abs(peak-0.5) > 1e-12 {
		t.Fatalf("peak = %v, want 0.5", peak)
	}
}

func TestGeneratePCM(t *testing.T) {
	p := Params{Length: 1024, SampleRate: 44100}

	pcm, err := p.GeneratePCM()
	if err != nil {
		t.Fatal(err)
	}
	if pcm.SampleRate != 44100 {
		t.Fatalf("SampleRate = %d, want 44100", pcm.SampleRate)
	}
	if pcm.Len() != 1024 {
		t.Fatalf("Len = %d, want 1024", pcm.Len())
	}

	maxAbs := 0
	for _, s := range pcm.Samples {
		maxAbs = max(maxAbs, int(math.Abs(float64(s))))
	}
	// int16(0.9 * 32767) truncates to 29490.
	if maxAbs != 29490 {
		t.Fatalf("max |sample| = %d, want 29490", maxAbs)
	}
}

func TestGenerateBackendsAgree(t *testing.T) {
	p := Params{Length: 4096, SampleRate: 48000}

	radix, err := p.Generate()
	if err != nil {
		t.Fatal(err)
	}
	plan, err := p.Generate(WithTransformer(spectrum.NewPlanTransformer()))
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, plan, radix, 1e-9)
}

func TestGenerateInvalid(t *testing.T) {
	if _, err := (Params{Length: 100, SampleRate: 48000}).Generate(); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("err = %v, want ErrInvalidLength", err)
	}
	if _, err := (Params{Length: 128}).GeneratePCM(); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestRepeat(t *testing.T) {
	pcm := core.PCM16{Samples: []int16{1, -2, 3}, SampleRate: 8000}

	out, err := Repeat(pcm, 3)
	if err != nil {
		t.Fatal(err)
	}
	if out.SampleRate != 8000 {
		t.Fatalf("SampleRate = %d, want 8000", out.SampleRate)
	}

	want := []int16{1, -2, 3, 1, -2, 3, 1, -2, 3}
	if len(out.Samples) != len(want) {
		t.Fatalf("len = %d, want %d", len(out.Samples), len(want))
	}
	for i := range want {
		if out.Samples[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, out.Samples[i], want[i])
		}
	}

	if _, err := Repeat(pcm, 0); !errors.Is(err, ErrInvalidPeriods) {
		t.Fatalf("err = %v, want ErrInvalidPeriods", err)
	}
	if _, err := Repeat(core.PCM16{SampleRate: 8000}, 2); !errors.Is(err, core.ErrEmptyBuffer) {
		t.Fatalf("err = %v, want core.ErrEmptyBuffer", err)
	}
}

func TestPeriod(t *testing.T) {
	pcm := core.PCM16{Samples: []int16{1, -2, 3}, SampleRate: 8000}

	rep, err := Repeat(pcm, 4)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Period(rep, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got.SampleRate != 8000 || len(got.Samples) != 3 {
		t.Fatalf("got %d samples at %d Hz", len(got.Samples), got.SampleRate)
	}
	for i, v := range pcm.Samples {
		if got.Samples[i] != v {
			t.Fatalf("sample %d = %d, want %d", i, got.Samples[i], v)
		}
	}

	got.Samples[0] = 99
	if rep.Samples[0] != 1 {
		t.Fatal("Period aliases its input")
	}

	for _, periods := range []int{0, -1, 5} {
		if _, err := Period(rep, periods); !errors.Is(err, ErrInvalidPeriods) {
			t.Errorf("periods=%d: err = %v, want ErrInvalidPeriods", periods, err)
		}
	}
	if _, err := Period(core.PCM16{SampleRate: 8000}, 1); !errors.Is(err, core.ErrEmptyBuffer) {
		t.Errorf("err = %v, want core.ErrEmptyBuffer", err)
	}
}

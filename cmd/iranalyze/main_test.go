package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
)

func writeDecay(t *testing.T, path string, rate int, rt60, seconds float64) {
	t.Helper()

	decayRate := 3 * math.Ln10 / rt60
	h := make([]float64, int(float64(rate)*seconds))
	for i := range h {
		h[i] = math.Exp(-decayRate * float64(i) / float64(rate))
	}

	samples, err := core.Quantize(h, core.DefaultPeak)
	if err != nil {
		t.Fatal(err)
	}
	if err := wavfile.WriteFile(path, core.PCM16{Samples: samples, SampleRate: rate}); err != nil {
		t.Fatal(err)
	}
}

func TestRunReportsDecay(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ir.wav")
	curve := filepath.Join(dir, "curve.txt")
	writeDecay(t, in, 8000, 0.5, 1.0)

	var stdout bytes.Buffer
	if err := run([]string{in, curve}, &stdout, io.Discard); err != nil {
		t.Fatal(err)
	}

	out := stdout.String()
	for _, want := range []string{"T10", "T20", "-5 to -25", "(from T20)", "C80", "Peak index"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "RT60: not detected") {
		t.Errorf("decay not detected:\n%s", out)
	}

	f, err := os.Open(curve)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lines := 0
	for sc.Scan() {
		if lines == 0 && sc.Text() != "# time_s\tlevel_db" {
			t.Fatalf("header = %q", sc.Text())
		}
		if lines == 1 && sc.Text() != "0.000000\t0.00" {
			t.Fatalf("first row = %q", sc.Text())
		}
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	if lines != 8001 {
		t.Fatalf("curve has %d lines, want 8001", lines)
	}
}

func TestRunSilentResponse(t *testing.T) {
	in := filepath.Join(t.TempDir(), "ir.wav")
	if err := wavfile.WriteFile(in, core.PCM16{Samples: make([]int16, 64), SampleRate: 48000}); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run([]string{"-lenient", in}, &stdout, io.Discard); err != nil {
		t.Fatal(err)
	}

	out := stdout.String()
	if !strings.Contains(out, "RT60: not detected") {
		t.Errorf("report:\n%s", out)
	}
	if strings.Count(out, "not detected") != 5 {
		t.Errorf("want every range reported as not detected:\n%s", out)
	}
}

func TestRunMissingInput(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "none.wav")}, io.Discard, io.Discard)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestRunRejectsGarbage(t *testing.T) {
	in := filepath.Join(t.TempDir(), "ir.wav")
	if err := os.WriteFile(in, bytes.Repeat([]byte{'x'}, 64), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{in}, io.Discard, io.Discard); !errors.Is(err, wavfile.ErrInvalidFormat) {
		t.Fatalf("err = %v, want wavfile.ErrInvalidFormat", err)
	}
}

func TestRunReportsOnset(t *testing.T) {
	in := filepath.Join(t.TempDir(), "ir.wav")

	samples := make([]int16, 400)
	samples[80] = 20000
	samples[81] = -12000
	samples[90] = 500
	if err := wavfile.WriteFile(in, core.PCM16{Samples: samples, SampleRate: 8000}); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run([]string{in}, &stdout, io.Discard); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(stdout.String(), "80 (0.0100 s)") {
		t.Errorf("onset missing:\n%s", stdout.String())
	}
}

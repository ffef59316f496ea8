package cli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/dsp/spectrum"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{flag.ErrHelp, 0},
		{fmt.Errorf("parse: %w", flag.ErrHelp), 0},
		{errors.New("boom"), 1},
		{wavfile.ErrInvalidFormat, 1},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var quiet bytes.Buffer
	log := NewLogger(&quiet, false)
	log.Debug("hidden")
	log.Info("shown")

	out := quiet.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written without verbose: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "INFO") {
		t.Errorf("info entry missing: %q", out)
	}

	var verbose bytes.Buffer
	NewLogger(&verbose, true).Debug("details")
	if !strings.Contains(verbose.String(), "details") {
		t.Errorf("debug entry missing with verbose: %q", verbose.String())
	}
}

func TestArg(t *testing.T) {
	args := []string{"a.wav", ""}

	if got := Arg(args, 0, "x"); got != "a.wav" {
		t.Errorf("Arg(0) = %q", got)
	}
	if got := Arg(args, 1, "x"); got != "x" {
		t.Errorf("Arg(1) = %q, want default for empty argument", got)
	}
	if got := Arg(args, 5, "y"); got != "y" {
		t.Errorf("Arg(5) = %q, want default", got)
	}
}

func TestNewFlagSetHelp(t *testing.T) {
	var stderr bytes.Buffer
	fs := NewFlagSet("tool", "tool [flags] [in.wav]", &stderr)
	fs.Int("n", 8, "length")

	err := fs.Parse([]string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(stderr.String(), "Usage: tool [flags] [in.wav]") {
		t.Errorf("usage missing: %q", stderr.String())
	}
}

func TestTransformer(t *testing.T) {
	for _, name := range []string{"", "radix2", "RADIX2"} {
		tr, err := Transformer(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if _, ok := tr.(spectrum.Radix2); !ok {
			t.Errorf("%q: got %T, want spectrum.Radix2", name, tr)
		}
	}

	tr, err := Transformer("plan")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*spectrum.PlanTransformer); !ok {
		t.Errorf("plan: got %T", tr)
	}

	if _, err := Transformer("fftw"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestReadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.wav")
	pcm := core.PCM16{Samples: []int16{1, 2}, SampleRate: 8000}
	if err := wavfile.WriteFile(path, pcm); err != nil {
		t.Fatal(err)
	}

	for _, lenient := range []bool{false, true} {
		got, err := ReadWAV(path, lenient)
		if err != nil {
			t.Fatalf("lenient=%v: %v", lenient, err)
		}
		if got.SampleRate != 8000 || len(got.Samples) != 2 {
			t.Fatalf("lenient=%v: got %+v", lenient, got)
		}
	}

	if _, err := ReadWAV(filepath.Join(t.TempDir(), "none.wav"), false); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

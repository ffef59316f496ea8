package testutil

import (
	"math"
	"testing"
)

func TestUnwrapPhase(t *testing.T) {
	in := []float64{2.8, -2.7, -2.6}

	out := UnwrapPhase(in)
	if len(out) != len(in) {
		t.Fatalf("unwrap length mismatch")
	}

	if out[1] <= out[0] {
		t.Fatalf("expected increasing unwrapped phase: %v", out)
	}

	if math.Abs((out[1]-out[0])-(2*math.Pi-5.5)) > 1e-12 {
		t.Fatalf("unexpected unwrap delta: %f", out[1]-out[0])
	}
}

func TestGroupDelayConstantDelay(t *testing.T) {
	fftSize := 1024
	delaySamples := 12.5
	n := 64

	phase := make([]float64, n)
	for k := range phase {
		w := 2 * math.Pi * float64(k) / float64(fftSize)
		phase[k] = -w * delaySamples
	}

	gd, err := GroupDelay(phase, fftSize)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range gd {
		if math.Abs(v-delaySamples) > 1e-9 {
			t.Fatalf("gd[%d]=%f want=%f", i, v, delaySamples)
		}
	}
}

func TestGroupDelayErrors(t *testing.T) {
	if _, err := GroupDelay([]float64{1}, 8); err == nil {
		t.Fatal("expected error for single phase point")
	}

	if _, err := GroupDelay([]float64{1, 2}, 0); err == nil {
		t.Fatal("expected error for zero fft size")
	}
}

package tsp

import (
	"testing"

	"github.com/cwbudde/algo-tsp/dsp/spectrum"
)

func BenchmarkGenerate(b *testing.B) {
	p := Params{Length: 1 << 16, SampleRate: 48000}

	for b.Loop() {
		if _, err := p.Generate(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkImpulseResponse(b *testing.B) {
	exc := excitation(b, 1<<16)

	benchmarks := []struct {
		name string
		d    *Deconvolver
	}{
		{"radix2", NewDeconvolver()},
		{"plan", NewDeconvolver(WithTransformer(spectrum.NewPlanTransformer()))},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for b.Loop() {
				if _, err := bm.d.ImpulseResponse(exc, exc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

package tsp

import (
	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/dsp/spectrum"
)

// DefaultMagnitudeFloor is the excitation bin magnitude at or below which
// the deconvolved bin is set to zero.
const DefaultMagnitudeFloor = 1e-10

type config struct {
	transformer spectrum.Transformer
	floor       float64
	peak        float64
}

// Option configures synthesis and deconvolution.
type Option func(*config)

// WithTransformer selects the FFT backend. The default is spectrum.Radix2.
func WithTransformer(tr spectrum.Transformer) Option {
	return func(c *config) {
		if tr != nil {
			c.transformer = tr
		}
	}
}

// WithMagnitudeFloor sets the excitation magnitude threshold below which
// deconvolved bins are zeroed.
func WithMagnitudeFloor(floor float64) Option {
	return func(c *config) {
		if floor >= 0 {
			c.floor = floor
		}
	}
}

// WithPeak sets the output peak relative to full scale, in (0, 1].
func WithPeak(peak float64) Option {
	return func(c *config) {
		if peak > 0 && peak <= 1 {
			c.peak = peak
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{
		transformer: spectrum.Radix2{},
		floor:       DefaultMagnitudeFloor,
		peak:        core.DefaultPeak,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

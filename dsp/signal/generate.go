package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"gonum.org/v1/gonum/floats"
)

// Generator creates deterministic signals from a shared configuration.
//
// Noise is drawn from the generator's own *rand.Rand, so consecutive calls
// continue one stream. A Generator is not safe for concurrent use.
type Generator struct {
	cfg core.ProcessorConfig
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses rng as the noise source. A nil rng is ignored.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg: core.ApplyProcessorOptions(coreOpts...),
		rng: rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %d", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / float64(g.cfg.SampleRate)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates uniform white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = (g.rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// WhiteNoisePCM generates white noise quantized as int16(v * 32767) at the
// generator sample rate. amplitude must not exceed 1.
func (g *Generator) WhiteNoisePCM(amplitude float64, samples int) (core.PCM16, error) {
	if amplitude > 1 {
		return core.PCM16{}, fmt.Errorf("noise amplitude must be <= 1: %f", amplitude)
	}
	noise, err := g.WhiteNoise(amplitude, samples)
	if err != nil {
		return core.PCM16{}, err
	}
	pcm := make([]int16, len(noise))
	for i, v := range noise {
		pcm[i] = int16(v * core.PCM16Max)
	}
	return core.PCM16{Samples: pcm, SampleRate: g.cfg.SampleRate}, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := core.MaxAbs(data)

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	floats.ScaleTo(out, targetPeak/maxAbs, data)
	return out, nil
}

// Repeat concatenates periods copies of x.
func Repeat(x []float64, periods int) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("repeat input must not be empty")
	}
	if periods <= 0 {
		return nil, fmt.Errorf("repeat periods must be > 0: %d", periods)
	}
	out := make([]float64, 0, len(x)*periods)
	for range periods {
		out = append(out, x...)
	}
	return out, nil
}

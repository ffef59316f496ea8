// Command noisegen writes uniform white noise to a WAV file for adaptive
// impulse response estimation.
package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/dsp/signal"
	"github.com/cwbudde/algo-tsp/internal/cli"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
	"go.uber.org/zap"
)

const (
	defaultOutput   = "white_noise_180s.wav"
	defaultRate     = 48000
	defaultDuration = 180.0
	defaultAmp      = 0.5
)

func main() {
	cli.Main("noisegen", run)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := cli.NewFlagSet("noisegen", "noisegen [flags] [out.wav]", stderr)

	rate := fs.Int("rate", defaultRate, "sample rate in Hz")
	duration := fs.Float64("duration", defaultDuration, "length in seconds")
	amp := fs.Float64("amp", defaultAmp, "amplitude relative to full scale, in (0, 1]")
	seed := fs.Int64("seed", 0, "random seed (0 picks one from the clock)")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := cli.NewLogger(stderr, *verbose).Named("noisegen")
	defer func() { _ = log.Sync() }()

	out := cli.Arg(fs.Args(), 0, defaultOutput)

	if *rate <= 0 {
		return fmt.Errorf("%w: %d", core.ErrInvalidSampleRate, *rate)
	}

	samples := int(math.Round(float64(*rate) * *duration))
	if samples <= 0 {
		return fmt.Errorf("duration must be positive: %v", *duration)
	}

	if !(*amp > 0 && *amp <= 1) {
		return fmt.Errorf("amplitude must be in (0, 1]: %v", *amp)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	log.Info("generating white noise",
		zap.Int("rate", *rate),
		zap.Int("samples", samples),
		zap.Float64("amplitude", *amp),
		zap.Int64("seed", *seed))

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(*rate)},
		signal.WithSeed(*seed),
	)

	pcm, err := gen.WhiteNoisePCM(*amp, samples)
	if err != nil {
		return err
	}

	if err := wavfile.WriteFile(out, pcm); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %d samples, %.3f s at %d Hz\n", out, pcm.Len(), pcm.Seconds(), pcm.SampleRate)

	return nil
}

// Command nlmsir estimates an impulse response from a noise excitation and
// its recorded response with an NLMS adaptive filter.
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/algo-tsp/dsp/adaptive"
	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/internal/cli"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
	"github.com/cwbudde/algo-tsp/stats/level"
	"go.uber.org/zap"
)

const (
	defaultInput    = "white_noise_180s.wav"
	defaultResponse = "white_noise_response.wav"
	defaultOutput   = "impulse_response_adaptive.wav"

	// progressSteps is the number of progress entries logged at debug level.
	progressSteps = 10
)

var errSampleRateMismatch = errors.New("input and response sample rates differ")

func main() {
	cli.Main("nlmsir", run)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := cli.NewFlagSet("nlmsir", "nlmsir [flags] [x.wav] [y.wav] [ir.wav] [filter_len]", stderr)

	mu := fs.Float64("mu", adaptive.DefaultStep, "step size in (0, 2)")
	beta := fs.Float64("beta", adaptive.DefaultRegularization, "regularization added to the input power")
	lenient := fs.Bool("lenient", false, "accept WAV files with extra chunks")
	peak := fs.Float64("peak", core.DefaultPeak, "output peak relative to full scale")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := cli.NewLogger(stderr, *verbose).Named("nlmsir")
	defer func() { _ = log.Sync() }()

	xPath := cli.Arg(fs.Args(), 0, defaultInput)
	yPath := cli.Arg(fs.Args(), 1, defaultResponse)
	out := cli.Arg(fs.Args(), 2, defaultOutput)

	length := adaptive.DefaultLength
	if arg := cli.Arg(fs.Args(), 3, ""); arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: %q", adaptive.ErrInvalidLength, arg)
		}
		length = v
	}

	if *peak <= 0 || *peak > 1 {
		return fmt.Errorf("%w: %v", core.ErrInvalidPeak, *peak)
	}

	filter, err := adaptive.New(length, adaptive.WithStep(*mu), adaptive.WithRegularization(*beta))
	if err != nil {
		return err
	}

	x, err := cli.ReadWAV(xPath, *lenient)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	y, err := cli.ReadWAV(yPath, *lenient)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if x.SampleRate != y.SampleRate {
		return fmt.Errorf("%w: %d Hz vs %d Hz", errSampleRateMismatch, x.SampleRate, y.SampleRate)
	}

	if lv := level.FromPCM(y); lv.Clipping() {
		log.Warn("response clips, the estimate will be biased", zap.Int("samples", lv.Clipped))
	} else {
		log.Debug("response level", zap.Float64("peak_dbfs", lv.PeakDB), zap.Float64("rms_dbfs", lv.RMSDB))
	}

	n := min(x.Len(), y.Len())
	if n == 0 {
		return adaptive.ErrEmptyInput
	}

	log.Info("adapting",
		zap.Int("samples", n),
		zap.Int("taps", filter.Len()),
		zap.Float64("mu", filter.Step()),
		zap.Float64("beta", filter.Regularization()))

	xf := x.Float64()
	yf := y.Float64()
	chunk := max(n/progressSteps, 1)

	var sqErr float64
	for i := range n {
		e := filter.Update(xf[i], yf[i])
		sqErr += e * e

		if (i+1)%chunk == 0 {
			log.Debug("progress",
				zap.Int("percent", (i+1)*100/n),
				zap.Float64("mse", sqErr/float64(chunk)))
			sqErr = 0
		}
	}

	samples, err := core.Quantize(filter.Weights(), *peak)
	if err != nil {
		return err
	}

	ir := core.PCM16{Samples: samples, SampleRate: x.SampleRate}
	if err := wavfile.WriteFile(out, ir); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %d taps, %.3f s\n", out, ir.Len(), ir.Seconds())

	return nil
}

// Command tsp2ir recovers an impulse response from a TSP excitation and
// its recorded response.
package main

import (
	"errors"
	"fmt"
	"slices"
	"io"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/internal/cli"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
	"github.com/cwbudde/algo-tsp/measure/tsp"
	"github.com/cwbudde/algo-tsp/stats/level"
	"go.uber.org/zap"
)

const (
	defaultExcitation = "tsp_signal.wav"
	defaultResponse   = "tsp_response.wav"
	defaultOutput     = "impulse_response.wav"
)

var errRepeatedExcitation = errors.New("excitation holds repeated periods")

func main() {
	cli.Main("tsp2ir", run)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := cli.NewFlagSet("tsp2ir", "tsp2ir [flags] [tsp.wav] [response.wav] [ir.wav]", stderr)

	lenient := fs.Bool("lenient", false, "accept WAV files with extra chunks")
	backend := fs.String("fft", "radix2", "FFT backend: radix2 or plan")
	peak := fs.Float64("peak", core.DefaultPeak, "output peak relative to full scale")
	periods := fs.Int("periods", 1, "number of back-to-back periods in the excitation file")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := cli.NewLogger(stderr, *verbose).Named("tsp2ir")
	defer func() { _ = log.Sync() }()

	excPath := cli.Arg(fs.Args(), 0, defaultExcitation)
	respPath := cli.Arg(fs.Args(), 1, defaultResponse)
	out := cli.Arg(fs.Args(), 2, defaultOutput)

	if *peak <= 0 || *peak > 1 {
		return fmt.Errorf("%w: %v", core.ErrInvalidPeak, *peak)
	}

	tr, err := cli.Transformer(*backend)
	if err != nil {
		return err
	}

	exc, err := cli.ReadWAV(excPath, *lenient)
	if err != nil {
		return fmt.Errorf("read excitation: %w", err)
	}

	if *periods != 1 {
		exc, err = tsp.Period(exc, *periods)
		if err != nil {
			return err
		}
		log.Debug("using first excitation period", zap.Int("periods", *periods), zap.Int("samples", exc.Len()))
	} else if repeatsHalf(exc.Samples) {
		return fmt.Errorf("%w: %s (use -periods)", errRepeatedExcitation, excPath)
	}

	resp, err := cli.ReadWAV(respPath, *lenient)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	log.Info("loaded signals",
		zap.Int("excitation", exc.Len()),
		zap.Int("response", resp.Len()),
		zap.Int("rate", exc.SampleRate))

	logLevel(log, resp)

	n := tsp.FFTSize(exc.Len(), resp.Len())
	offset := tsp.ResponseOffset(exc.Len(), resp.Len())
	log.Info("deconvolving", zap.Int("fft", n), zap.Bool("second_period", offset > 0))

	d := tsp.NewDeconvolver(tsp.WithTransformer(tr), tsp.WithPeak(*peak))

	ir, err := d.Deconvolve(exc, resp)
	if err != nil {
		return err
	}

	if err := wavfile.WriteFile(out, ir); err != nil {
		return err
	}

	log.Debug("wrote file", zap.String("path", out))
	fmt.Fprintf(stdout, "FFT size: %d\n", n)
	fmt.Fprintf(stdout, "%s: %d samples, %.3f s\n", out, ir.Len(), ir.Seconds())

	return nil
}

// logLevel reports the recording level and warns when it clips.
func logLevel(log *zap.Logger, pcm core.PCM16) {
	lv := level.FromPCM(pcm)
	log.Debug("response level",
		zap.Float64("peak_dbfs", lv.PeakDB),
		zap.Float64("rms_dbfs", lv.RMSDB),
		zap.Float64("dc", lv.DC))

	if lv.Clipping() {
		log.Warn("response clips, the impulse response will be distorted", zap.Int("samples", lv.Clipped))
	}
}

// repeatsHalf reports whether x is two identical halves, as a playback file
// with several periods is. A single TSP period never is.
func repeatsHalf(x []int16) bool {
	if len(x) < 2 || len(x)%2 != 0 {
		return false
	}

	half := len(x) / 2
	return slices.Equal(x[:half], x[half:])
}

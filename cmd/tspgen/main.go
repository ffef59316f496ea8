// Command tspgen writes a time-stretched pulse excitation to a WAV file.
//
// The output always holds one period, the reference tsp2ir deconvolves
// against. With -periods > 1 the repeated signal for playback is written to
// a second file.
package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/internal/cli"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
	"github.com/cwbudde/algo-tsp/measure/tsp"
	"go.uber.org/zap"
)

const defaultOutput = "tsp_signal.wav"

func main() {
	cli.Main("tspgen", run)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := cli.NewFlagSet("tspgen", "tspgen [flags] [out.wav]", stderr)

	length := fs.Int("n", tsp.DefaultLength, "TSP length N (power of two >= 8)")
	rate := fs.Int("rate", tsp.DefaultSampleRate, "sample rate in Hz")
	periods := fs.Int("periods", 1, "number of back-to-back periods in the playback file")
	playback := fs.String("playback", "", "playback file for -periods > 1 (default <out>_play.wav)")
	peak := fs.Float64("peak", core.DefaultPeak, "output peak relative to full scale")
	backend := fs.String("fft", "radix2", "FFT backend: radix2 or plan")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := cli.NewLogger(stderr, *verbose).Named("tspgen")
	defer func() { _ = log.Sync() }()

	out := cli.Arg(fs.Args(), 0, defaultOutput)

	tr, err := cli.Transformer(*backend)
	if err != nil {
		return err
	}

	if *peak <= 0 || *peak > 1 {
		return fmt.Errorf("%w: %v", core.ErrInvalidPeak, *peak)
	}

	if *periods <= 0 {
		return fmt.Errorf("%w: %d", tsp.ErrInvalidPeriods, *periods)
	}

	playPath := *playback
	if playPath == "" && *periods > 1 {
		playPath = playbackPath(out)
	}
	if playPath != "" && filepath.Clean(playPath) == filepath.Clean(out) {
		return fmt.Errorf("playback file %q would overwrite the reference excitation", playPath)
	}

	params := tsp.Params{Length: *length, SampleRate: *rate}
	if err := params.Validate(); err != nil {
		return err
	}

	log.Info("generating TSP",
		zap.Int("n", params.Length),
		zap.Int("j", params.Half()),
		zap.Int("shift", params.Shift()),
		zap.Int("rate", params.SampleRate))

	pcm, err := params.GeneratePCM(tsp.WithTransformer(tr), tsp.WithPeak(*peak))
	if err != nil {
		return err
	}

	if err := wavfile.WriteFile(out, pcm); err != nil {
		return err
	}

	log.Debug("wrote reference", zap.String("path", out), zap.Int("samples", pcm.Len()))
	fmt.Fprintf(stdout, "%s: %d samples, %.3f s at %d Hz\n", out, pcm.Len(), pcm.Seconds(), pcm.SampleRate)

	if playPath == "" {
		return nil
	}

	play, err := tsp.Repeat(pcm, *periods)
	if err != nil {
		return err
	}

	if err := wavfile.WriteFile(playPath, play); err != nil {
		return err
	}

	log.Debug("wrote playback", zap.String("path", playPath), zap.Int("periods", *periods))
	fmt.Fprintf(stdout, "%s: %d periods, %d samples, %.3f s\n", playPath, *periods, play.Len(), play.Seconds())

	return nil
}

// playbackPath derives the playback file name from the reference name:
// tsp_signal.wav becomes tsp_signal_play.wav.
func playbackPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_play" + ext
}

// Command iranalyze reports reverberation metrics of an impulse response
// WAV file and optionally writes its Schroeder decay curve.
package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-tsp/internal/cli"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
	"github.com/cwbudde/algo-tsp/measure/ir"
	"go.uber.org/zap"
)

const defaultInput = "impulse_response.wav"

type fitRow struct {
	name string
	fit  ir.DecayFit
}

func main() {
	cli.Main("iranalyze", run)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := cli.NewFlagSet("iranalyze", "iranalyze [flags] [ir.wav] [curve.txt]", stderr)

	lenient := fs.Bool("lenient", false, "accept WAV files with extra chunks")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := cli.NewLogger(stderr, *verbose).Named("iranalyze")
	defer func() { _ = log.Sync() }()

	in := cli.Arg(fs.Args(), 0, defaultInput)
	curvePath := cli.Arg(fs.Args(), 1, "")

	pcm, err := cli.ReadWAV(in, *lenient)
	if err != nil {
		return err
	}

	log.Info("loaded impulse response",
		zap.String("path", in),
		zap.Int("samples", pcm.Len()),
		zap.Int("rate", pcm.SampleRate))

	a := ir.NewAnalyzer(float64(pcm.SampleRate))
	h := pcm.Float64()

	m, err := a.Analyze(h)
	if err != nil {
		return err
	}

	if err := report(stdout, m, a.SampleRate); err != nil {
		return err
	}

	if curvePath == "" {
		return nil
	}

	curve, err := a.SchroederIntegral(h)
	if err != nil {
		return err
	}

	if err := wavfile.WriteAtomic(curvePath, func(w io.Writer) error {
		return ir.WriteDecayCurve(w, curve, a.SampleRate)
	}); err != nil {
		return err
	}

	log.Info("wrote decay curve", zap.String("path", curvePath), zap.Int("points", len(curve)))

	return nil
}

func report(w io.Writer, m ir.Metrics, sampleRate float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Range\tLevels [dB]\tInterval [s]\tTime [s]\tRT60 [s]\n")
	fmt.Fprintf(tw, "-----\t-----------\t------------\t--------\t--------\n")

	rows := []fitRow{{"EDT", m.EDT}, {"T10", m.T10}, {"T20", m.T20}, {"T30", m.T30}}
	for _, r := range rows {
		levels := fmt.Sprintf("%.0f to %.0f", r.fit.StartDB, r.fit.EndDB)
		if !r.fit.Detected() {
			fmt.Fprintf(tw, "%s\t%s\t-\tnot detected\t-\n", r.name, levels)
			continue
		}

		fmt.Fprintf(tw, "%s\t%s\t%.3f - %.3f\t%.3f\t%.3f\n",
			r.name, levels, r.fit.StartTime, r.fit.EndTime, r.fit.Seconds, r.fit.RT60())
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintln(w)

	switch {
	case m.T20.Detected():
		fmt.Fprintf(w, "RT60: %.3f s (from T20)\n", m.RT60)
	case m.T10.Detected():
		fmt.Fprintf(w, "RT60: %.3f s (from T10)\n", m.RT60)
	default:
		fmt.Fprintln(w, "RT60: not detected (decay range not reached, noise floor too high?)")
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "C50\t%.2f dB\n", m.C50)
	fmt.Fprintf(tw, "C80\t%.2f dB\n", m.C80)
	fmt.Fprintf(tw, "D50\t%.3f\n", m.D50)
	fmt.Fprintf(tw, "D80\t%.3f\n", m.D80)
	fmt.Fprintf(tw, "Center time\t%.4f s\n", m.CenterTime)
	fmt.Fprintf(tw, "Onset\t%d (%.4f s)\n", m.Onset, float64(m.Onset)/sampleRate)
	fmt.Fprintf(tw, "Peak index\t%d\n", m.PeakIndex)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// Package cli holds the plumbing shared by the measurement commands:
// logging, flag sets, positional arguments and exit status.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/dsp/spectrum"
	"github.com/cwbudde/algo-tsp/internal/wavfile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunFunc is the body of a command. It writes results to stdout and
// diagnostics to stderr.
type RunFunc func(args []string, stdout, stderr io.Writer) error

// Main runs a command with the process arguments and exits with ExitCode.
// A failure is logged to stderr before exiting.
func Main(name string, run RunFunc) {
	err := run(os.Args[1:], os.Stdout, os.Stderr)

	code := ExitCode(err)
	if code != 0 {
		log := NewLogger(os.Stderr, false).Named(name)
		log.Error("failed", zap.Error(err))
		_ = log.Sync()
	}

	os.Exit(code)
}

// ExitCode maps a command result to a process exit status: 0 on success or
// when help was requested, 1 otherwise.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}

	return 1
}

// NewLogger returns a console logger writing to w. Debug entries are
// enabled by verbose.
func NewLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""

	c := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))

	return zap.New(c)
}

// NewFlagSet returns a flag set that reports errors instead of exiting and
// prints usage followed by the flag defaults to stderr.
func NewFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s\n\n", usage)
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	return fs
}

// Arg returns the i-th positional argument, or def when it is absent.
func Arg(args []string, i int, def string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}

	return def
}

// Transformer returns the FFT backend named by name: "radix2" or "plan".
func Transformer(name string) (spectrum.Transformer, error) {
	switch strings.ToLower(name) {
	case "", "radix2":
		return spectrum.Radix2{}, nil
	case "plan", "algofft":
		return spectrum.NewPlanTransformer(), nil
	default:
		return nil, fmt.Errorf("unknown FFT backend %q (want radix2 or plan)", name)
	}
}

// ReadWAV reads a mono 16-bit PCM file, with the lenient reader when
// lenient is set.
func ReadWAV(path string, lenient bool) (core.PCM16, error) {
	if lenient {
		return wavfile.ReadFileLenient(path)
	}

	return wavfile.ReadFile(path)
}

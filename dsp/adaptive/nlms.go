package adaptive

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultLength is the default filter length, one second at 48 kHz.
	DefaultLength = 48000
	// DefaultStep is the default step size mu.
	DefaultStep = 0.1
	// DefaultRegularization is the default beta added to the input power.
	DefaultRegularization = 1e-6

	// minPower is the normalization floor below which no update is made.
	minPower = 1e-10
)

// Errors returned by adaptive functions.
var (
	ErrInvalidLength         = errors.New("adaptive: filter length must be > 0")
	ErrInvalidStep           = errors.New("adaptive: step size must be in (0, 2)")
	ErrInvalidRegularization = errors.New("adaptive: regularization must be >= 0")
	ErrEmptyInput            = errors.New("adaptive: empty input")
)

type config struct {
	length int
	step   float64
	beta   float64
}

// Option configures an NLMS filter or an Estimate call.
type Option func(*config)

// WithLength sets the number of filter taps.
func WithLength(n int) Option {
	return func(c *config) {
		c.length = n
	}
}

// WithStep sets the step size mu.
func WithStep(mu float64) Option {
	return func(c *config) {
		c.step = mu
	}
}

// WithRegularization sets beta, the constant added to the input power before
// normalizing the update.
func WithRegularization(beta float64) Option {
	return func(c *config) {
		c.beta = beta
	}
}

func applyOptions(cfg config, opts []Option) (config, error) {
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.length <= 0 {
		return cfg, fmt.Errorf("%w: %d", ErrInvalidLength, cfg.length)
	}
	if !(cfg.step > 0 && cfg.step < 2) {
		return cfg, fmt.Errorf("%w: %g", ErrInvalidStep, cfg.step)
	}
	if !(cfg.beta >= 0) {
		return cfg, fmt.Errorf("%w: %g", ErrInvalidRegularization, cfg.beta)
	}
	return cfg, nil
}

// NLMS is an adaptive FIR filter updated with the normalized LMS rule.
// It is not safe for concurrent use.
type NLMS struct {
	weights []float64
	xbuf    []float64 // newest input at index 0
	step    float64
	beta    float64
}

// New returns an NLMS filter with length taps, all coefficients zero.
func New(length int, opts ...Option) (*NLMS, error) {
	cfg, err := applyOptions(config{
		length: length,
		step:   DefaultStep,
		beta:   DefaultRegularization,
	}, opts)
	if err != nil {
		return nil, err
	}
	return &NLMS{
		weights: make([]float64, cfg.length),
		xbuf:    make([]float64, cfg.length),
		step:    cfg.step,
		beta:    cfg.beta,
	}, nil
}

// Len returns the number of taps.
func (f *NLMS) Len() int { return len(f.weights) }

// Step returns the step size mu.
func (f *NLMS) Step() float64 { return f.step }

// Regularization returns beta.
func (f *NLMS) Regularization() float64 { return f.beta }

// Predict returns the filter output for the current delay line.
func (f *NLMS) Predict() float64 {
	return floats.Dot(f.weights, f.xbuf)
}

// Update pushes input sample x into the delay line, compares the prediction
// with the desired sample y and adapts the coefficients. It returns the a
// priori error y - ŷ.
func (f *NLMS) Update(x, y float64) float64 {
	copy(f.xbuf[1:], f.xbuf[:len(f.xbuf)-1])
	f.xbuf[0] = x

	e := y - f.Predict()

	power := f.beta + floats.Dot(f.xbuf, f.xbuf)
	if power > minPower {
		floats.AddScaled(f.weights, f.step*e/power, f.xbuf)
	}

	return e
}

// Weights returns a copy of the filter coefficients.
func (f *NLMS) Weights() []float64 {
	out := make([]float64, len(f.weights))
	copy(out, f.weights)
	return out
}

// Reset clears the coefficients and the delay line.
func (f *NLMS) Reset() {
	clear(f.weights)
	clear(f.xbuf)
}

// Estimate runs an NLMS filter over min(len(x), len(y)) samples of the
// excitation x and the response y and returns the final coefficients.
//
// Defaults are DefaultLength taps, DefaultStep and DefaultRegularization.
func Estimate(x, y []float64, opts ...Option) ([]float64, error) {
	n := min(len(x), len(y))
	if n == 0 {
		return nil, ErrEmptyInput
	}

	cfg, err := applyOptions(config{
		length: DefaultLength,
		step:   DefaultStep,
		beta:   DefaultRegularization,
	}, opts)
	if err != nil {
		return nil, err
	}

	f := &NLMS{
		weights: make([]float64, cfg.length),
		xbuf:    make([]float64, cfg.length),
		step:    cfg.step,
		beta:    cfg.beta,
	}
	for i := range n {
		f.Update(x[i], y[i])
	}

	return f.weights, nil
}

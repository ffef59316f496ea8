package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Transformer computes forward and inverse transforms in place using the
// package sign convention.
type Transformer interface {
	Forward(buf []complex128) error
	Inverse(buf []complex128) error
}

// Radix2 is the allocation-free radix-2 [Transformer] backed by [Transform].
type Radix2 struct{}

// Forward computes the unscaled forward transform.
func (Radix2) Forward(buf []complex128) error {
	return Transform(buf, SignForward)
}

// Inverse computes the normalized inverse transform.
func (Radix2) Inverse(buf []complex128) error {
	return Transform(buf, SignInverse)
}

// PlanTransformer is a [Transformer] backed by algo-fft plans, cached per size.
//
// algo-fft uses the exp(-i) forward convention with a normalized inverse, so
// Forward maps to an N-scaled plan inverse and Inverse to a 1/N-scaled plan
// forward. A PlanTransformer is not safe for concurrent use.
type PlanTransformer struct {
	plans map[int]*algofft.Plan[complex128]
}

// NewPlanTransformer returns an empty plan cache.
func NewPlanTransformer() *PlanTransformer {
	return &PlanTransformer{plans: make(map[int]*algofft.Plan[complex128])}
}

// Forward computes the unscaled forward transform.
func (p *PlanTransformer) Forward(buf []complex128) error {
	plan, err := p.plan(len(buf))
	if err != nil || plan == nil {
		return err
	}

	if err := plan.Inverse(buf, buf); err != nil {
		return fmt.Errorf("spectrum: plan inverse failed: %w", err)
	}

	scaleComplex(buf, float64(len(buf)))

	return nil
}

// Inverse computes the normalized inverse transform.
func (p *PlanTransformer) Inverse(buf []complex128) error {
	plan, err := p.plan(len(buf))
	if err != nil || plan == nil {
		return err
	}

	if err := plan.Forward(buf, buf); err != nil {
		return fmt.Errorf("spectrum: plan forward failed: %w", err)
	}

	scaleComplex(buf, 1/float64(len(buf)))

	return nil
}

// plan returns the cached plan for size n. A nil plan with a nil error means
// n == 1, for which both transforms are the identity.
func (p *PlanTransformer) plan(n int) (*algofft.Plan[complex128], error) {
	if n == 0 {
		return nil, ErrEmptyInput
	}

	if !IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}

	if n == 1 {
		return nil, nil
	}

	if p.plans == nil {
		p.plans = make(map[int]*algofft.Plan[complex128])
	}

	if plan, ok := p.plans[n]; ok {
		return plan, nil
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	p.plans[n] = plan

	return plan, nil
}

func scaleComplex(buf []complex128, s float64) {
	c := complex(s, 0)
	for i := range buf {
		buf[i] *= c
	}
}

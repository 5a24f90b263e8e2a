// Package saga runs a sequence of steps where a failure unwinds the steps
// already completed, in reverse order.
package saga

import (
	"context"
	"errors"
	"fmt"
)

// Step is one unit of work. Compensate is optional; steps with no sensible
// inverse leave it nil and are skipped during unwind.
type Step struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga holds the ordered steps. The name appears in every returned error.
type Saga struct {
	name  string
	steps []Step
}

func New(name string) *Saga {
	return &Saga{name: name}
}

func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs the steps in order. On failure the completed steps are
// compensated in reverse; the step error is returned, with any compensation
// errors appended to the message. The failed step itself is never
// compensated.
func (s *Saga) Execute(ctx context.Context) error {
	var done []Step
	for _, step := range s.steps {
		if err := step.Execute(ctx); err != nil {
			if unwindErr := s.unwind(ctx, done); unwindErr != nil {
				return fmt.Errorf("saga %s: step %q failed (%w), unwind also failed: %v", s.name, step.Name, err, unwindErr)
			}
			return fmt.Errorf("saga %s: step %q failed: %w", s.name, step.Name, err)
		}
		done = append(done, step)
	}
	return nil
}

func (s *Saga) unwind(ctx context.Context, done []Step) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("unwind step %q: %w", step.Name, err))
		}
	}
	return errors.Join(errs...)
}

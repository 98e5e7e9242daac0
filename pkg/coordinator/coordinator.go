// Package coordinator flushes a set of independently-owned steppers to a
// common flush time concurrently: different steppers may be flushed in
// parallel, and there is no ordering guarantee across steppers.
package coordinator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stepsolve/pkg/log"
	"stepsolve/pkg/stepkin"
)

var logger = log.New("coordinator")

// Stepper is the subset of *stepkin.StepperKinematics the coordinator drives.
type Stepper interface {
	Flush(flushTime float64) error
}

// Named pairs a stepper with the name it is logged and reported under.
type Named struct {
	Name    string
	Stepper Stepper
}

// Group owns a fixed set of named steppers and flushes them together.
type Group struct {
	steppers []Named
}

// New builds a Group over the given named steppers. Two steppers never
// share mutable state, so the group imposes no synchronisation of its own
// beyond errgroup's wait for every flush and its first-error-wins result.
func New(steppers ...Named) *Group {
	return &Group{steppers: append([]Named(nil), steppers...)}
}

// Flush drives every stepper in the group to flushTime concurrently and
// waits for all of them. A failing stepper does not stop the others: every
// flush runs to completion and keeps whatever steps it committed. The first
// error encountered is returned to the caller, annotated with the stepper
// name it came from.
func (g *Group) Flush(ctx context.Context, flushTime float64) error {
	eg, _ := errgroup.WithContext(ctx)
	for _, named := range g.steppers {
		named := named
		eg.Go(func() error {
			if err := named.Stepper.Flush(flushTime); err != nil {
				logger.WithField("stepper", named.Name).
					WithField("flush_time", flushTime).
					WithError(err).Error("flush failed")
				return fmt.Errorf("coordinator: stepper %q: %w", named.Name, err)
			}
			logger.WithField("stepper", named.Name).
				WithField("flush_time", flushTime).
				Debug("flush complete")
			return nil
		})
	}
	return eg.Wait()
}

// CheckActive reports, per stepper name, the result of CheckActive up to
// flushTime -- 0 if the stepper is not active soon, otherwise the PrintTime
// of its first upcoming active move.
func (g *Group) CheckActive(flushTime float64, checker func(Stepper, float64) float64) map[string]float64 {
	result := make(map[string]float64, len(g.steppers))
	for _, named := range g.steppers {
		result[named.Name] = checker(named.Stepper, flushTime)
	}
	return result
}

// StepperKinematicsOf adapts a *stepkin.StepperKinematics into Named; a thin
// convenience so callers building a Group from the concrete type do not need
// to satisfy the Stepper interface by hand.
func StepperKinematicsOf(name string, sk *stepkin.StepperKinematics) Named {
	return Named{Name: name, Stepper: sk}
}

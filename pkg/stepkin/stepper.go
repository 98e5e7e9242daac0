package stepkin

import (
	"math"

	"stepsolve/pkg/trapq"
)

// StepperKinematics holds all per-stepper solver state: the kinematic
// projection, the step sink and queue handles, and the reversal filter's
// and range solver's carried-forward bookkeeping. It is owned exclusively
// by whichever goroutine calls Flush; the package performs no internal
// synchronisation because two StepperKinematics values never share state.
type StepperKinematics struct {
	projection Projection
	postStep   PostStepHook

	// ActiveFlags is the subset of AxisX|AxisY|AxisZ for which a nonzero
	// move component implies this stepper may move.
	ActiveFlags int

	stepDist     float64
	commandedPos float64

	lastFlushTime float64
	lastMoveTime  float64

	// GenStepsPreActive and GenStepsPostActive are the padding windows
	// (seconds) solved just before and after an active interval, to prime
	// a downstream step compressor.
	GenStepsPreActive  float64
	GenStepsPostActive float64

	// Reversal-filter state; see filter.go.
	pendingValid    bool
	pendingDir      int
	pendingMoveTime float64
	pendingStepTime float64

	queue *trapq.Queue
	sink  StepSink
}

// New creates a StepperKinematics bound to the given projection and active
// axis set. SetQueue and SetSink must be called before Flush does useful
// work.
func New(projection Projection, activeFlags int) *StepperKinematics {
	return &StepperKinematics{
		projection:  projection,
		ActiveFlags: activeFlags,
		// No active move has been solved yet, so no post-activity tail is
		// owed before the first one.
		lastMoveTime: math.Inf(-1),
	}
}

// SetPostStepHook registers a hook invoked once per completed range solve.
func (sk *StepperKinematics) SetPostStepHook(hook PostStepHook) {
	sk.postStep = hook
}

// SetQueue attaches the move queue this stepper solves against.
func (sk *StepperKinematics) SetQueue(q *trapq.Queue) {
	sk.queue = q
}

// SetSink attaches the step sink and the stepper's distance-per-step.
func (sk *StepperKinematics) SetSink(sink StepSink, stepDist float64) {
	sk.sink = sink
	sk.stepDist = stepDist
}

// GetCommandedPos returns the stepper's scalar position as last ordered.
func (sk *StepperKinematics) GetCommandedPos() float64 {
	return sk.commandedPos
}

// GetLastFlushTime returns the flush_time argument of the most recent Flush
// call, or 0 if Flush has never been called.
func (sk *StepperKinematics) GetLastFlushTime() float64 {
	return sk.lastFlushTime
}

// GetStepDist returns the distance-per-step configured by SetSink.
func (sk *StepperKinematics) GetStepDist() float64 {
	return sk.stepDist
}

// IsActiveAxis reports whether the stepper is registered for the given
// axis letter ('x', 'y', or 'z').
func (sk *StepperKinematics) IsActiveAxis(axis byte) bool {
	flag := AxisFlag(axis)
	return flag != 0 && sk.ActiveFlags&flag != 0
}

// CalcPositionFromCoord evaluates the projection at a fixed Cartesian point
// by constructing an ephemeral stationary move and evaluating at its
// midpoint.
func (sk *StepperKinematics) CalcPositionFromCoord(x, y, z float64) float64 {
	m := trapq.NewStationaryMove([3]float64{x, y, z}, 1000)
	return sk.projection(sk, m, 500)
}

// SetPosition sets CommandedPos to the projection of the given Cartesian
// point, bypassing the solver.
func (sk *StepperKinematics) SetPosition(x, y, z float64) {
	sk.commandedPos = sk.CalcPositionFromCoord(x, y, z)
}

// isActive reports whether m's direction implies this stepper may move.
func isActive(sk *StepperKinematics, m *trapq.Move) bool {
	return (sk.ActiveFlags&AxisX != 0 && m.AxesR[0] != 0) ||
		(sk.ActiveFlags&AxisY != 0 && m.AxesR[1] != 0) ||
		(sk.ActiveFlags&AxisZ != 0 && m.AxesR[2] != 0)
}

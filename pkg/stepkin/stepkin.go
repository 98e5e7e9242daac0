// Package stepkin implements the iterative step-time solver: given a move
// queue and a per-stepper kinematic projection, it produces the exact
// sequence of step times and directions a stepper motor must execute so
// that its commanded position follows the trajectory to within half a
// step.
//
// The package does not plan motion, does not know the physical units of
// the motor, does not speak to hardware, and does not persist state beyond
// one StepperKinematics' own bookkeeping fields.
package stepkin

import (
	"stepsolve/pkg/trapq"
)

// Numerical tolerances and filter constants shared by every stepper.
//
// CheckTime and FilterTime are empirically-chosen constants inherited
// verbatim from the upstream solver; their exact interaction with
// downstream step compression is undocumented and they are not tuned here.
const (
	// CheckTime bounds how far past the last stepper activity the driver
	// keeps evaluating so a pending reversal-filter step is either
	// finalised or naturally discarded.
	CheckTime = 1.0e-3
	// FilterTime is the reversal-filter's suppression window: a step
	// immediately followed by an opposite-direction step within this
	// combined move+step-time distance is treated as bracket-oscillation
	// noise and dropped.
	FilterTime = 0.75e-3
	// RootFindEps is the convergence tolerance for the false-position
	// root finder and the floor below which seek_delta cannot shrink.
	RootFindEps = 1e-9
	// SeekTimeReset is the initial (and post-reversal-clamp) probe size
	// used by the range solver while searching for the next bracket.
	SeekTimeReset = 100e-6
)

// Axis bit flags for StepperKinematics.ActiveFlags.
const (
	AxisX = 1 << iota
	AxisY
	AxisZ
)

// AxisFlag maps an axis letter to its bit flag, or 0 if axis is not one of
// 'x', 'y', 'z'.
func AxisFlag(axis byte) int {
	switch axis {
	case 'x':
		return AxisX
	case 'y':
		return AxisY
	case 'z':
		return AxisZ
	default:
		return 0
	}
}

// Projection evaluates a stepper's scalar position at time t (measured from
// m.PrintTime, t in [0, m.MoveT]). It must be continuous; it need not be
// monotone or analytically invertible.
type Projection func(sk *StepperKinematics, m *trapq.Move, t float64) float64

// PostStepHook is invoked once per completed range solve, after the last
// step of that range has been emitted or filtered.
type PostStepHook func(sk *StepperKinematics)

// StepSink consumes (direction, move-reference-time, step-time) triples.
// StepTime is relative to the move's PrintTime. Append returns a nonzero
// status on failure (e.g. a full hardware queue); the solver propagates it
// without retry or rollback.
type StepSink interface {
	Append(dir int, movePrintTime, stepTime float64) int
}

type timepos struct {
	t float64
	p float64
}

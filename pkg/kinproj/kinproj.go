// Package kinproj supplies concrete Cartesian->stepper-scalar projections
// for use with pkg/stepkin. The solver core treats a projection as an
// opaque collaborator callback; this package is the reference set of
// projections exercised by the tests and the demo command, grounded on the
// three stepper allocator shapes of a classic Cartesian/CoreXY printer
// (single-axis, linear combination of all three axes, and the belt-pair
// combination CoreXY uses). Delta, polar, winch, and pressure-advance
// extruder projections are not provided here: their formulas involve
// square roots and filter state this module has no verified reference for.
package kinproj

import (
	"stepsolve/pkg/stepkin"
	"stepsolve/pkg/trapq"
)

// Axis indices into Move.StartPos / Move.AxesR.
const (
	X = 0
	Y = 1
	Z = 2
)

// Cartesian returns a projection mapping a move's Cartesian direction
// directly onto one axis: pos(t) = StartPos[axis] + AxesR[axis]*Distance(t).
func Cartesian(axis int) stepkin.Projection {
	return func(_ *stepkin.StepperKinematics, m *trapq.Move, t float64) float64 {
		return m.StartPos[axis] + m.AxesR[axis]*m.Distance(t)
	}
}

// GenericCartesian returns a projection that is a fixed linear combination
// of the three Cartesian axes' travelled position, generalizing Cartesian
// and CoreXY-style steppers behind one formula.
func GenericCartesian(ax, ay, az float64) stepkin.Projection {
	return func(_ *stepkin.StepperKinematics, m *trapq.Move, t float64) float64 {
		d := m.Distance(t)
		px := m.StartPos[X] + m.AxesR[X]*d
		py := m.StartPos[Y] + m.AxesR[Y]*d
		pz := m.StartPos[Z] + m.AxesR[Z]*d
		return ax*px + ay*py + az*pz
	}
}

// CoreXY returns the projection for one of a CoreXY machine's two belt
// steppers: sign=+1 for the A stepper (x+y), sign=-1 for the B stepper
// (x-y).
func CoreXY(sign float64) stepkin.Projection {
	return GenericCartesian(1, sign, 0)
}

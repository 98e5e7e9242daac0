// Package trapq provides a read-only, time-ordered view of planned
// kinematic moves backed by an intrusive doubly-linked list with sentinel
// nodes at both ends.
//
// This package owns the move queue's shape only; it does not plan motion,
// does not know the physical units of any axis, and never mutates a move
// once appended.
package trapq

// Move is a time-parametric Cartesian trajectory: a trapezoidal velocity
// profile along a fixed direction axes_r, active on
// [PrintTime, PrintTime+MoveT]. Consecutive moves in a Queue are contiguous:
// prev.PrintTime + prev.MoveT == next.PrintTime.
type Move struct {
	PrintTime float64
	MoveT     float64

	StartPos [3]float64
	AxesR    [3]float64

	StartV  float64
	CruiseV float64
	AccelT  float64
	CruiseT float64
	DecelT  float64

	// Accel and Decel are precomputed accelerations (units/s^2), stored
	// rather than derived from AccelT/DecelT at evaluation time so that a
	// degenerate zero-duration phase never forces a division by zero.
	Accel float64
	Decel float64

	prev, next *Move
	sentinel   bool
}

// NewMove builds a move from a trapezoidal velocity profile: accelerate from
// startV to cruiseV over accelT, cruise at cruiseV for cruiseT, then
// decelerate from cruiseV to endV over decelT.
func NewMove(printTime, moveT float64, startPos, axesR [3]float64, startV, cruiseV, endV, accelT, cruiseT, decelT float64) *Move {
	m := &Move{
		PrintTime: printTime,
		MoveT:     moveT,
		StartPos:  startPos,
		AxesR:     axesR,
		StartV:    startV,
		CruiseV:   cruiseV,
		AccelT:    accelT,
		CruiseT:   cruiseT,
		DecelT:    decelT,
	}
	if accelT > 0 {
		m.Accel = (cruiseV - startV) / accelT
	}
	if decelT > 0 {
		m.Decel = (cruiseV - endV) / decelT
	}
	return m
}

// NewStationaryMove builds an ephemeral move with zero velocity at a fixed
// Cartesian point, for use by calc_position_from_coord-style callbacks: the
// projection evaluated anywhere in [0, duration] yields startPos unchanged
// because AxesR is the zero vector.
func NewStationaryMove(startPos [3]float64, duration float64) *Move {
	return NewMove(0, duration, startPos, [3]float64{}, 0, 0, 0, duration, 0, 0)
}

// Distance returns the scalar distance travelled along AxesR at time t
// (measured from PrintTime), clamped to [0, MoveT].
func (m *Move) Distance(t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > m.MoveT {
		t = m.MoveT
	}
	if t <= m.AccelT {
		return (m.StartV + 0.5*m.Accel*t) * t
	}
	t -= m.AccelT
	accelDist := (m.StartV + m.CruiseV) * 0.5 * m.AccelT
	if t <= m.CruiseT {
		return accelDist + m.CruiseV*t
	}
	t -= m.CruiseT
	decelDist := accelDist + m.CruiseV*m.CruiseT
	return decelDist + (m.CruiseV-0.5*m.Decel*t)*t
}

// Next returns the following node: another move, or the tail sentinel.
func (m *Move) Next() *Move { return m.next }

// Prev returns the preceding node: another move, or the head sentinel.
func (m *Move) Prev() *Move { return m.prev }

// IsSentinel reports whether m is a queue boundary marker rather than a
// real move.
func (m *Move) IsSentinel() bool { return m.sentinel }

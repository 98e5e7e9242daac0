package stepkin

import "stepsolve/pkg/trapq"

// genStepsRange solves one move over the absolute time range
// [moveStart, moveEnd], emitting candidate steps to the reversal filter as
// it finds each half-step crossing.
func (sk *StepperKinematics) genStepsRange(m *trapq.Move, moveStart, moveEnd float64) error {
	halfStep := 0.5 * sk.stepDist
	start := moveStart - m.PrintTime
	end := moveEnd - m.PrintTime

	last := timepos{start, sk.commandedPos}
	low, high := last, last
	seekDelta := SeekTimeReset
	// The search direction persists across calls via the reversal
	// filter's last recorded direction, not a field of its own.
	sdir := sk.pendingDir
	isDirChange := false

	proj := func(t float64) float64 { return sk.projection(sk, m, t) }

	for {
		diff := high.p - last.p
		var dist float64
		if sdir != 0 {
			dist = diff
		} else {
			dist = -diff
		}

		switch {
		case dist >= halfStep:
			var target float64
			if sdir != 0 {
				target = last.p + halfStep
			} else {
				target = last.p - halfStep
			}
			next := findStep(proj, low, high, target)
			if err := sk.filterAppend(sdir, m.PrintTime, next.t); err != nil {
				return err
			}
			seekDelta = next.t - last.t
			if seekDelta < RootFindEps {
				seekDelta = RootFindEps
			}
			if isDirChange && seekDelta > SeekTimeReset {
				seekDelta = SeekTimeReset
			}
			isDirChange = false
			if sdir != 0 {
				last.p = target + halfStep
			} else {
				last.p = target - halfStep
			}
			last.t = next.t
			low = next
			if low.t < high.t {
				// Existing search range still valid.
				continue
			}
		case dist > 0:
			// Partial progress; avoid rolling back a step the motor has
			// already fully reached.
			if sk.pendingValid {
				if err := sk.commitPending(); err != nil {
					return err
				}
			}
		case dist < -(halfStep + RootFindEps):
			isDirChange = true
			if seekDelta > SeekTimeReset {
				seekDelta = SeekTimeReset
			}
			if low.t > last.t {
				sdir = 1 - sdir
				continue
			}
			if high.t > last.t+RootFindEps {
				high.t = (last.t + high.t) * 0.5
				high.p = proj(high.t)
				continue
			}
		}

		if high.t >= end {
			break
		}
		low = high
		for {
			high.t = last.t + seekDelta
			seekDelta += seekDelta
			if high.t > low.t {
				break
			}
		}
		if high.t > end {
			high.t = end
		}
		high.p = proj(high.t)
	}

	if err := sk.filterFlush(m.PrintTime, end); err != nil {
		return err
	}
	sk.commandedPos = last.p
	if sk.postStep != nil {
		sk.postStep(sk)
	}
	return nil
}

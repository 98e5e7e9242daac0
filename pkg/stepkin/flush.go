package stepkin

import "fmt"

// Flush drives solving up to flushTime, emitting every step required in
// between. A nonzero return (wrapping a *SinkError) aborts the current
// flush; any steps already committed to the sink remain committed, and
// CommandedPos reflects only the last successfully completed range solve.
func (sk *StepperKinematics) Flush(flushTime float64) error {
	lastFlushTime := sk.lastFlushTime
	sk.lastFlushTime = flushTime
	if sk.queue == nil {
		return nil
	}
	if err := sk.queue.CheckSentinels(); err != nil {
		return fmt.Errorf("stepkin: flush: %w", err)
	}

	m := sk.queue.First()
	for !m.IsSentinel() && lastFlushTime >= m.PrintTime+m.MoveT {
		m = m.Next()
	}

	post := sk.GenStepsPostActive
	if post < CheckTime {
		post = CheckTime
	}
	forceStepsTime := sk.lastMoveTime + post

	for {
		if lastFlushTime >= flushTime {
			return nil
		}

		start := m.PrintTime
		end := start + m.MoveT
		if start < lastFlushTime {
			start = lastFlushTime
		}
		if end > flushTime {
			end = flushTime
		}

		if isActive(sk, m) {
			if sk.GenStepsPreActive > 0 && start > lastFlushTime+RootFindEps {
				// Must backfill steps leading up to stepper activity.
				forceStepsTime = start
				if lastFlushTime < start-sk.GenStepsPreActive {
					lastFlushTime = start - sk.GenStepsPreActive
				}
				for !m.IsSentinel() && m.PrintTime > lastFlushTime {
					m = m.Prev()
				}
				if m.IsSentinel() {
					// No queued move covers the padding window; resume at
					// the first move's own start.
					m = m.Next()
					lastFlushTime = m.PrintTime
				}
				continue
			}
			if err := sk.genStepsRange(m, start, end); err != nil {
				return err
			}
			sk.lastMoveTime = end
			lastFlushTime = end
			forceStepsTime = end + post
		} else if start < forceStepsTime {
			// In the post-activity tail.
			if end > forceStepsTime {
				end = forceStepsTime
			}
			if err := sk.genStepsRange(m, start, end); err != nil {
				return err
			}
			lastFlushTime = end
		}

		if flushTime+sk.GenStepsPreActive <= m.PrintTime+m.MoveT {
			return nil
		}
		if m.IsSentinel() {
			return nil
		}
		m = m.Next()
	}
}

// CheckActive reports 0 if this stepper is not active in any move up to
// flushTime, otherwise the PrintTime of the first active move.
func (sk *StepperKinematics) CheckActive(flushTime float64) float64 {
	if sk.queue == nil {
		return 0
	}
	m := sk.queue.First()
	for !m.IsSentinel() && sk.lastFlushTime >= m.PrintTime+m.MoveT {
		m = m.Next()
	}
	for {
		if m.IsSentinel() {
			return 0
		}
		if isActive(sk, m) {
			return m.PrintTime
		}
		if flushTime <= m.PrintTime+m.MoveT {
			return 0
		}
		m = m.Next()
	}
}

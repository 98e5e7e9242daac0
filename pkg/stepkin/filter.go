package stepkin

// Reversal filter: suppresses "step, reverse, step" sequences that are
// artifacts of bracket oscillation at a velocity zero-crossing rather than
// genuine motion.
//
// State lives directly on StepperKinematics (pendingValid/pendingDir/
// pendingMoveTime/pendingStepTime) per the {Empty, Pending(dir, mt, st)}
// state machine: pendingValid=false is Empty, true is Pending.

// filterAppend is component D's append operation. A candidate step
// (dir, mt, st) is either merged into the pending slot, causes the pending
// slot to be discarded (reversal noise), or causes the previous pending
// step to be committed to the sink first.
func (sk *StepperKinematics) filterAppend(dir int, mt, st float64) error {
	if sk.pendingValid {
		if dir != sk.pendingDir {
			mtDiff := mt - sk.pendingMoveTime
			stDiff := st - sk.pendingStepTime
			if mtDiff+stDiff < FilterTime {
				// The pending step and this one are both artifacts of a
				// reversal too close together to be real; drop both.
				sk.pendingValid = false
				sk.pendingDir = dir
				return nil
			}
		}
		if err := sk.commitPending(); err != nil {
			return err
		}
	}
	sk.pendingValid = true
	sk.pendingDir = dir
	sk.pendingMoveTime = mt
	sk.pendingStepTime = st
	return nil
}

// commitPending forwards the pending step to the sink and clears it.
func (sk *StepperKinematics) commitPending() error {
	if !sk.pendingValid {
		return nil
	}
	dir, mt, st := sk.pendingDir, sk.pendingMoveTime, sk.pendingStepTime
	sk.pendingValid = false
	if status := sk.sink.Append(dir, mt, st); status != 0 {
		return &SinkError{Status: status}
	}
	return nil
}

// filterFlush is called once at the end of a range solve. It commits the
// pending step only if enough time has passed since it was recorded that it
// can no longer be cancelled by a near-term reversal; otherwise it is left
// pending across the next range solve call.
func (sk *StepperKinematics) filterFlush(mt, st float64) error {
	if !sk.pendingValid {
		return nil
	}
	mtDiff := mt - sk.pendingMoveTime
	stDiff := st - sk.pendingStepTime
	if mtDiff+stDiff >= FilterTime {
		return sk.commitPending()
	}
	return nil
}

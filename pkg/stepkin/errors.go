package stepkin

import "fmt"

// SinkError wraps a nonzero status returned by a StepSink. It is returned
// verbatim from Flush with no retry and no rollback: any steps already
// committed to the sink before the failing append remain committed.
type SinkError struct {
	Status int
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("stepkin: step sink returned status %d", e.Status)
}

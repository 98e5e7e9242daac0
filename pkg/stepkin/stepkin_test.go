package stepkin

import (
	"testing"
)

type recordedStep struct {
	dir int
	mt  float64
	st  float64
}

// fakeSink records every committed step and can be told to fail on the
// Nth call, mirroring scenario 6 of the solver's testable properties.
type fakeSink struct {
	steps     []recordedStep
	failOn    int // 1-indexed call number that should fail; 0 = never
	failCode  int
	callCount int
}

func (s *fakeSink) Append(dir int, mt, st float64) int {
	s.callCount++
	if s.failOn != 0 && s.callCount == s.failOn {
		return s.failCode
	}
	s.steps = append(s.steps, recordedStep{dir, mt, st})
	return 0
}

// TestMicroReversalSuppressed covers scenario 8.4 directly against the
// reversal filter: a step immediately followed by an opposite-direction
// step inside the filter window must never reach the sink.
func TestMicroReversalSuppressed(t *testing.T) {
	sink := &fakeSink{}
	sk := New(nil, AxisX)
	sk.SetSink(sink, 0.01)

	if err := sk.filterAppend(1, 0, 0.000); err != nil {
		t.Fatalf("filterAppend: %v", err)
	}
	if err := sk.filterAppend(0, 0, 0.0003); err != nil {
		t.Fatalf("filterAppend: %v", err)
	}
	if err := sk.filterFlush(0, 0.0003); err != nil {
		t.Fatalf("filterFlush: %v", err)
	}
	if len(sink.steps) != 0 {
		t.Fatalf("got %d steps, want 0 (micro-reversal should be suppressed)", len(sink.steps))
	}
}

// TestReversalFilterCommitsWellSeparatedSteps is the positive counterpart:
// two opposite-direction steps far enough apart are both real and must
// both reach the sink.
func TestReversalFilterCommitsWellSeparatedSteps(t *testing.T) {
	sink := &fakeSink{}
	sk := New(nil, AxisX)
	sk.SetSink(sink, 0.01)

	if err := sk.filterAppend(1, 0, 0.000); err != nil {
		t.Fatalf("filterAppend: %v", err)
	}
	if err := sk.filterAppend(0, 0, 0.002); err != nil {
		t.Fatalf("filterAppend: %v", err)
	}
	if err := sk.filterFlush(0, 0.003); err != nil {
		t.Fatalf("filterFlush: %v", err)
	}
	if len(sink.steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(sink.steps))
	}
}

package motionstatus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeStepper struct {
	pos, flushTime, stepDist float64
}

func (f *fakeStepper) GetCommandedPos() float64  { return f.pos }
func (f *fakeStepper) GetLastFlushTime() float64 { return f.flushTime }
func (f *fakeStepper) GetStepDist() float64      { return f.stepDist }

func TestSnapshotReportsRegisteredSteppers(t *testing.T) {
	s := New(":0")
	s.Register("stepper_x", &fakeStepper{pos: 12.5, flushTime: 1.0, stepDist: 0.01})

	snap := s.snapshot()
	obj, ok := snap["stepper_x"].(map[string]any)
	if !ok {
		t.Fatalf("expected a motion_report entry for stepper_x, got %#v", snap)
	}
	if obj["commanded_pos"] != 12.5 {
		t.Errorf("commanded_pos = %v, want 12.5", obj["commanded_pos"])
	}
	if obj["last_flush_time"] != 1.0 {
		t.Errorf("last_flush_time = %v, want 1.0", obj["last_flush_time"])
	}
	if obj["step_dist"] != 0.01 {
		t.Errorf("step_dist = %v, want 0.01", obj["step_dist"])
	}
	if obj["active"] != true {
		t.Errorf("active = %v, want true", obj["active"])
	}
}

func TestObjectsListHandler(t *testing.T) {
	s := New(":0")
	s.Register("stepper_x", &fakeStepper{})
	s.Register("stepper_y", &fakeStepper{})

	req := httptest.NewRequest(http.MethodGet, "/printer/objects/list", nil)
	w := httptest.NewRecorder()
	s.handleObjectsList(w, req)

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	objects, ok := body["objects"].([]any)
	if !ok || len(objects) != 2 {
		t.Fatalf("objects = %#v, want 2 entries", body["objects"])
	}
}

func TestObjectsQueryHandler(t *testing.T) {
	s := New(":0")
	s.Register("stepper_z", &fakeStepper{pos: 3, flushTime: 0.5, stepDist: 0.02})

	req := httptest.NewRequest(http.MethodGet, "/printer/objects/query", nil)
	w := httptest.NewRecorder()
	s.handleObjectsQuery(w, req)

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["eventtime"]; !ok {
		t.Fatal("missing eventtime in response")
	}
	status, ok := body["status"].(map[string]any)
	if !ok {
		t.Fatalf("missing status object: %#v", body)
	}
	if _, ok := status["stepper_z"]; !ok {
		t.Fatalf("missing stepper_z in status: %#v", status)
	}
}

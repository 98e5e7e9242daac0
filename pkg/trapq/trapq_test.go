package trapq

import (
	"math"
	"testing"
)

func TestMoveDistanceLinear(t *testing.T) {
	m := NewMove(0, 1, [3]float64{}, [3]float64{1, 0, 0}, 10, 10, 10, 0, 1, 0)
	cases := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
	}
	for _, c := range cases {
		if got := m.Distance(c.t); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Distance(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestMoveDistanceTrapezoidal(t *testing.T) {
	// Accelerate 0->10 over 1s, cruise 1s, decelerate 10->0 over 1s.
	m := NewMove(0, 3, [3]float64{}, [3]float64{1, 0, 0}, 0, 10, 0, 1, 1, 1)
	accelDist := m.Distance(1)
	if math.Abs(accelDist-5) > 1e-9 {
		t.Fatalf("accel-phase distance = %v, want 5", accelDist)
	}
	cruiseDist := m.Distance(2)
	if math.Abs(cruiseDist-15) > 1e-9 {
		t.Fatalf("cruise-phase distance = %v, want 15", cruiseDist)
	}
	total := m.Distance(3)
	if math.Abs(total-20) > 1e-9 {
		t.Fatalf("total distance = %v, want 20", total)
	}
}

func TestStationaryMoveIsFinite(t *testing.T) {
	m := NewStationaryMove([3]float64{1, 2, 3}, 1000)
	d := m.Distance(500)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("stationary move distance not finite: %v", d)
	}
}

func TestQueueSentinels(t *testing.T) {
	q := NewQueue()
	if err := q.CheckSentinels(); err != nil {
		t.Fatalf("empty queue: %v", err)
	}
	if !q.First().IsSentinel() {
		t.Fatal("First() on empty queue should be the tail sentinel")
	}
	if !q.Last().IsSentinel() {
		t.Fatal("Last() on empty queue should be the head sentinel")
	}

	m1 := NewMove(0, 1, [3]float64{}, [3]float64{1, 0, 0}, 0, 0, 0, 0, 1, 0)
	m2 := NewMove(1, 1, [3]float64{1, 0, 0}, [3]float64{1, 0, 0}, 0, 0, 0, 0, 1, 0)
	q.Append(m1)
	q.Append(m2)

	if err := q.CheckSentinels(); err != nil {
		t.Fatalf("populated queue: %v", err)
	}
	if q.First() != m1 {
		t.Fatal("First() should return m1")
	}
	if q.First().Next() != m2 {
		t.Fatal("m1.Next() should return m2")
	}
	if !q.First().Next().Next().IsSentinel() {
		t.Fatal("walking past the last move should reach the tail sentinel")
	}
	if !m1.Prev().IsSentinel() {
		t.Fatal("walking before the first move should reach the head sentinel")
	}
}

func TestQueueMalformed(t *testing.T) {
	q := NewQueue()
	q.tail.sentinel = false
	if err := q.CheckSentinels(); err == nil {
		t.Fatal("expected malformed queue error")
	}
}
